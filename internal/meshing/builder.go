package meshing

import (
	"fmt"

	"voxelterrain/internal/grid"
	"voxelterrain/internal/registry"

	"github.com/go-gl/mathgl/mgl32"
)

// SolidLookup answers solidity for world positions outside the grid being meshed.
type SolidLookup interface {
	IsSolidBlock(x, y, z int) bool
}

// SolidFunc adapts a function to SolidLookup.
type SolidFunc func(x, y, z int) bool

// IsSolidBlock implements SolidLookup.
func (f SolidFunc) IsSolidBlock(x, y, z int) bool { return f(x, y, z) }

// Builder turns voxel grids into culled face meshes.
type Builder struct {
	blocks *registry.Registry
	atlas  Atlas
}

// NewBuilder checks that every texture index in the registry fits the atlas.
func NewBuilder(blocks *registry.Registry, atlas Atlas) (*Builder, error) {
	for _, id := range blocks.IDs() {
		bt, _ := blocks.Lookup(id)
		if !bt.IsSolid {
			continue
		}
		for f := registry.Face(0); f < registry.NumFaces; f++ {
			tex := bt.TextureIndex(f)
			if tex < 0 || tex >= atlas.Tiles() {
				return nil, fmt.Errorf("block %q face %s: texture %d outside %dx%d atlas", bt.Name, f, tex, atlas.SizeInBlocks, atlas.SizeInBlocks)
			}
		}
	}
	return &Builder{blocks: blocks, atlas: atlas}, nil
}

// Build emits one quad for every face of a solid voxel whose neighbour is not
// solid. Neighbours outside the grid are resolved through lookup at
// origin + local position. Iteration order is y, x, z, then faces in
// registry.Face order, so equal input yields identical buffers.
func (b *Builder) Build(g *grid.Grid, origin [3]int, lookup SolidLookup) (*Mesh, error) {
	m := newMesh(64)
	w, h := g.Width(), g.Height()

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			for z := 0; z < w; z++ {
				id := g.Get(x, y, z)
				bt, err := b.blocks.Lookup(id)
				if err != nil {
					return nil, fmt.Errorf("voxel (%d,%d,%d): %w", x, y, z, err)
				}
				if !bt.IsSolid {
					continue
				}
				b.addVoxel(m, g, origin, lookup, bt, x, y, z)
			}
		}
	}

	m.recalculateNormals()
	return m, nil
}

func (b *Builder) addVoxel(m *Mesh, g *grid.Grid, origin [3]int, lookup SolidLookup, bt *registry.BlockType, x, y, z int) {
	pos := mgl32.Vec3{float32(x), float32(y), float32(z)}

	for f := registry.Face(0); f < registry.NumFaces; f++ {
		d := faceChecks[f]
		if b.solidNeighbour(g, origin, lookup, x+d[0], y+d[1], z+d[2]) {
			continue
		}

		var corners [4]mgl32.Vec3
		for i, c := range faceCorners[f] {
			corners[i] = pos.Add(cubeCorners[c])
		}
		m.addQuad(corners, b.atlas.QuadUVs(bt.TextureIndex(f)))
	}
}

func (b *Builder) solidNeighbour(g *grid.Grid, origin [3]int, lookup SolidLookup, x, y, z int) bool {
	if g.InBounds(x, y, z) {
		return b.blocks.IsSolid(g.Get(x, y, z))
	}
	if lookup == nil {
		return false
	}
	return lookup.IsSolidBlock(origin[0]+x, origin[1]+y, origin[2]+z)
}
