package physics

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

const (
	// ReachDistance is how far a viewer can target blocks.
	ReachDistance = 8.0
	// StepSize is the ray marching increment.
	StepSize = 0.1
)

// SolidQuerier answers whether the block containing a position is solid.
// *world.World implements it.
type SolidQuerier interface {
	IsSolidAt(pos mgl32.Vec3) bool
}

// RaycastResult stores the result of a raycast operation
type RaycastResult struct {
	HitPosition      [3]int // block that was hit
	AdjacentPosition [3]int // last empty block before the hit, where a block would be placed
	Distance         float32
	Hit              bool
}

// Raycast marches from start along direction in StepSize increments and stops
// at the first solid block closer than reach. direction should be normalised.
func Raycast(start, direction mgl32.Vec3, reach float32, q SolidQuerier) RaycastResult {
	lastEmpty := blockOf(start)
	for i := 1; float32(i)*StepSize < reach; i++ {
		step := float32(i) * StepSize
		pos := start.Add(direction.Mul(step))
		block := blockOf(pos)
		if q.IsSolidAt(pos) {
			return RaycastResult{
				HitPosition:      block,
				AdjacentPosition: lastEmpty,
				Distance:         step,
				Hit:              true,
			}
		}
		lastEmpty = block
	}
	return RaycastResult{}
}

// BlockCenter returns the centre of the block at p.
func BlockCenter(p [3]int) mgl32.Vec3 {
	return mgl32.Vec3{float32(p[0]) + 0.5, float32(p[1]) + 0.5, float32(p[2]) + 0.5}
}

func blockOf(pos mgl32.Vec3) [3]int {
	return [3]int{
		int(math.Floor(float64(pos.X()))),
		int(math.Floor(float64(pos.Y()))),
		int(math.Floor(float64(pos.Z()))),
	}
}
