package world

import (
	"fmt"
	"math"
	"sync"

	"github.com/go-gl/mathgl/mgl32"

	"voxelterrain/internal/grid"
	"voxelterrain/internal/meshing"
	"voxelterrain/internal/registry"
)

// Chunk is one width×height×width column of the world. It owns its voxel
// grid and the mesh built from it. The world pointer is a back-reference used
// for neighbour lookups; the World owns the chunk, not the other way round.
type Chunk struct {
	coord ChunkCoord
	world *World

	mu        sync.RWMutex
	grid      *grid.Grid
	mesh      *meshing.Mesh
	populated bool
	active    bool
}

// newChunk populates and meshes the chunk at coord. The chunk is returned
// fully built and active but is not installed in the world.
func newChunk(w *World, coord ChunkCoord) (*Chunk, error) {
	c := &Chunk{
		coord: coord,
		world: w,
		grid:  grid.New(w.cfg.ChunkWidth, w.cfg.ChunkHeight),
	}
	ox, _, oz := c.origin()
	w.gen.Populate(c.grid, ox, oz)
	c.populated = true

	m, err := w.builder.Build(c.grid, [3]int{ox, 0, oz}, w)
	if err != nil {
		return nil, fmt.Errorf("mesh chunk %d,%d: %w", coord.X, coord.Z, err)
	}
	c.mesh = m
	c.active = true
	return c, nil
}

// Coord returns the chunk coordinate.
func (c *Chunk) Coord() ChunkCoord { return c.coord }

func (c *Chunk) origin() (x, y, z int) {
	return c.coord.X * c.world.cfg.ChunkWidth, 0, c.coord.Z * c.world.cfg.ChunkWidth
}

// Position returns the world-space placement of the chunk's local origin.
func (c *Chunk) Position() mgl32.Vec3 {
	x, y, z := c.origin()
	return mgl32.Vec3{float32(x), float32(y), float32(z)}
}

// Mesh returns the current mesh. Meshes are never mutated after they are
// published; an edit swaps in a new one.
func (c *Chunk) Mesh() *meshing.Mesh {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.mesh
}

// IsPopulated reports whether the grid may be trusted by neighbour lookups.
func (c *Chunk) IsPopulated() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.populated
}

// IsActive reports whether the chunk is visible.
func (c *Chunk) IsActive() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.active
}

// SetActive shows or hides the chunk. The mesh is kept either way.
func (c *Chunk) SetActive(active bool) {
	c.mu.Lock()
	changed := c.active != active
	c.active = active
	c.mu.Unlock()
	if changed && c.world.observer != nil {
		c.world.observer.VisibilityChanged(c)
	}
}

// local translates a world-space position into grid indices. The result is
// not bounds checked.
func (c *Chunk) local(pos mgl32.Vec3) (x, y, z int) {
	ox, _, oz := c.origin()
	return floor(pos.X()) - ox, floor(pos.Y()), floor(pos.Z()) - oz
}

func floor(v float32) int {
	return int(math.Floor(float64(v)))
}

// VoxelAt returns the block at a world-space position inside this chunk.
func (c *Chunk) VoxelAt(pos mgl32.Vec3) (registry.BlockID, error) {
	x, y, z := c.local(pos)
	c.mu.RLock()
	defer c.mu.RUnlock()
	id, err := c.grid.At(x, y, z)
	if err != nil {
		return registry.BlockAir, fmt.Errorf("chunk %d,%d voxel at %v: %w", c.coord.X, c.coord.Z, pos, err)
	}
	return id, nil
}

// blockAt reads a world block position owned by this chunk. ok is false
// while the grid is not populated.
func (c *Chunk) blockAt(x, y, z int) (id registry.BlockID, ok bool) {
	ox, _, oz := c.origin()
	c.mu.RLock()
	defer c.mu.RUnlock()
	if !c.populated || !c.grid.InBounds(x-ox, y, z-oz) {
		return registry.BlockAir, false
	}
	return c.grid.Get(x-ox, y, z-oz), true
}

// Edit replaces the block at a world-space position inside this chunk, then
// rebuilds this chunk's mesh and the mesh of every loaded neighbour sharing
// a face with the edited voxel. Edits across the world are serialised.
func (c *Chunk) Edit(pos mgl32.Vec3, id registry.BlockID) error {
	w := c.world
	if _, err := w.blocks.Lookup(id); err != nil {
		return fmt.Errorf("edit at %v: %w", pos, err)
	}
	w.writeMu.Lock()
	defer w.writeMu.Unlock()
	return c.editLocked(pos, id)
}

func (c *Chunk) editLocked(pos mgl32.Vec3, id registry.BlockID) error {
	defer c.world.prof.Track("chunk.Edit")()
	x, y, z := c.local(pos)

	c.mu.Lock()
	err := c.grid.Set(x, y, z, id)
	c.mu.Unlock()
	if err != nil {
		return fmt.Errorf("edit chunk %d,%d at %v: %w", c.coord.X, c.coord.Z, pos, err)
	}

	if err := c.rebuild(); err != nil {
		return err
	}
	return c.rebuildNeighbours(x, y, z)
}

// rebuildNeighbours rebuilds the loaded chunks across each face of local
// voxel (x, y, z) that lies on the grid border.
func (c *Chunk) rebuildNeighbours(x, y, z int) error {
	ox, _, oz := c.origin()
	width := c.world.cfg.ChunkWidth
	for f := registry.Face(0); f < registry.NumFaces; f++ {
		dx, dy, dz := meshing.FaceOffset(f)
		nx, ny, nz := x+dx, y+dy, z+dz
		if c.grid.InBounds(nx, ny, nz) || ny < 0 || ny >= c.grid.Height() {
			continue
		}
		coord := ChunkCoord{X: floorDiv(ox+nx, width), Z: floorDiv(oz+nz, width)}
		nb := c.world.store.GetChunk(coord)
		if nb == nil || nb == c {
			continue
		}
		if err := nb.rebuild(); err != nil {
			return err
		}
	}
	return nil
}

// rebuild regenerates the mesh from the current grid and publishes it.
// Callers hold the world write lock, so the grid cannot change underneath.
func (c *Chunk) rebuild() error {
	defer c.world.prof.Track("chunk.Rebuild")()
	ox, _, oz := c.origin()

	c.mu.RLock()
	m, err := c.world.builder.Build(c.grid, [3]int{ox, 0, oz}, c.world)
	c.mu.RUnlock()
	if err != nil {
		return fmt.Errorf("mesh chunk %d,%d: %w", c.coord.X, c.coord.Z, err)
	}

	c.mu.Lock()
	c.mesh = m
	c.mu.Unlock()
	if c.world.observer != nil {
		c.world.observer.MeshUpdated(c)
	}
	return nil
}
