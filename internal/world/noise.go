package world

import (
	"github.com/ojrac/opensimplex-go"
)

// latticeNudge keeps integer block positions off the noise lattice, where
// gradient noise collapses to the same value.
const latticeNudge = 0.1

// heightNoise samples seeded 2D simplex noise in chunk-relative units.
// opensimplex.Noise holds only its permutation tables, so one instance is
// shared by every build worker.
type heightNoise struct {
	noise      opensimplex.Noise
	chunkWidth float64
	scale      float64
	offset     float64
}

func newHeightNoise(seed int64, chunkWidth int, scale, offset float64) heightNoise {
	return heightNoise{
		noise:      opensimplex.NewNormalized(seed),
		chunkWidth: float64(chunkWidth),
		scale:      scale,
		offset:     offset,
	}
}

// sample returns the noise value for block column (x, z), clamped to [0, 1].
func (n heightNoise) sample(x, z int) float64 {
	nx := (float64(x)+latticeNudge)/n.chunkWidth*n.scale + n.offset
	nz := (float64(z)+latticeNudge)/n.chunkWidth*n.scale + n.offset
	v := n.noise.Eval2(nx, nz)
	switch {
	case v < 0:
		return 0
	case v > 1:
		return 1
	}
	return v
}
