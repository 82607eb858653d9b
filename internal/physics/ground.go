package physics

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// GroundLevel finds the first solid block at or below pos and returns the Y
// of its top face. ok is false when the column is empty down to y = 0.
func GroundLevel(pos mgl32.Vec3, q SolidQuerier) (y float32, ok bool) {
	x := float32(math.Floor(float64(pos.X()))) + 0.5
	z := float32(math.Floor(float64(pos.Z()))) + 0.5
	for by := int(math.Floor(float64(pos.Y()))); by >= 0; by-- {
		if q.IsSolidAt(mgl32.Vec3{x, float32(by) + 0.5, z}) {
			return float32(by + 1), true
		}
	}
	return 0, false
}

// Digger tracks progress on breaking one block over successive ticks.
// Switching to another target restarts the timer.
type Digger struct {
	target    [3]int
	remaining float32
	digging   bool
}

// Dig advances the dig on target by dt seconds. destroyTime is the block's
// break duration; a negative value marks an unbreakable block. It returns
// true on the tick the block breaks.
func (d *Digger) Dig(target [3]int, destroyTime, dt float32) bool {
	if destroyTime < 0 {
		d.Reset()
		return false
	}
	if !d.digging || d.target != target {
		d.target = target
		d.remaining = destroyTime
		d.digging = true
	}
	d.remaining -= dt
	if d.remaining > 0 {
		return false
	}
	d.Reset()
	return true
}

// Remaining returns the time left on the current dig.
func (d *Digger) Remaining() float32 {
	if !d.digging {
		return 0
	}
	return d.remaining
}

// Reset abandons the current dig.
func (d *Digger) Reset() {
	*d = Digger{}
}
