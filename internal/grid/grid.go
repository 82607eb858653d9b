package grid

import (
	"errors"
	"fmt"

	"voxelterrain/internal/registry"
)

// ErrOutOfBounds is returned when a local index falls outside the grid.
var ErrOutOfBounds = errors.New("voxel index out of bounds")

// Grid is a width x height x width block of block ids owned by one chunk.
type Grid struct {
	width  int
	height int
	cells  []registry.BlockID
}

// New allocates an all-air grid.
func New(width, height int) *Grid {
	return &Grid{
		width:  width,
		height: height,
		cells:  make([]registry.BlockID, width*height*width),
	}
}

// Width returns the extent along X and Z.
func (g *Grid) Width() int { return g.width }

// Height returns the extent along Y.
func (g *Grid) Height() int { return g.height }

// InBounds reports whether (x, y, z) is a valid local index.
func (g *Grid) InBounds(x, y, z int) bool {
	return x >= 0 && x < g.width && y >= 0 && y < g.height && z >= 0 && z < g.width
}

// index converts local coordinates to a flat index. Callers check bounds first.
func (g *Grid) index(x, y, z int) int {
	return x*g.height*g.width + y*g.width + z
}

// At returns the block id at (x, y, z).
func (g *Grid) At(x, y, z int) (registry.BlockID, error) {
	if !g.InBounds(x, y, z) {
		return registry.BlockAir, fmt.Errorf("%w: (%d,%d,%d) not in %dx%dx%d", ErrOutOfBounds, x, y, z, g.width, g.height, g.width)
	}
	return g.cells[g.index(x, y, z)], nil
}

// Get is At without the bounds error; only for loops that already iterate
// inside the grid.
func (g *Grid) Get(x, y, z int) registry.BlockID {
	return g.cells[g.index(x, y, z)]
}

// Set stores id at (x, y, z).
func (g *Grid) Set(x, y, z int, id registry.BlockID) error {
	if !g.InBounds(x, y, z) {
		return fmt.Errorf("%w: (%d,%d,%d) not in %dx%dx%d", ErrOutOfBounds, x, y, z, g.width, g.height, g.width)
	}
	g.cells[g.index(x, y, z)] = id
	return nil
}

// Fill sets every cell from fn, iterating x, then y, then z.
func (g *Grid) Fill(fn func(x, y, z int) registry.BlockID) {
	for x := 0; x < g.width; x++ {
		for y := 0; y < g.height; y++ {
			for z := 0; z < g.width; z++ {
				g.cells[g.index(x, y, z)] = fn(x, y, z)
			}
		}
	}
}

// Count returns the number of cells holding id.
func (g *Grid) Count(id registry.BlockID) int {
	n := 0
	for _, c := range g.cells {
		if c == id {
			n++
		}
	}
	return n
}
