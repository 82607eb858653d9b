package world

import (
	"math"

	"voxelterrain/internal/config"
	"voxelterrain/internal/grid"
	"voxelterrain/internal/registry"
)

// bedrockDepth is the number of bedrock layers at the bottom of the world.
const bedrockDepth = 5

// Generator derives terrain from the seed and biome alone. It never looks at
// materialised chunks, so any voxel can be re-derived without building its
// chunk. Safe for concurrent use.
type Generator struct {
	noise       heightNoise
	biome       config.Biome
	chunkWidth  int
	chunkHeight int
	worldVoxels int
	snowLine    int
}

// NewGenerator creates a generator for the given world configuration.
func NewGenerator(cfg *config.Config) *Generator {
	return &Generator{
		noise:       newHeightNoise(cfg.Seed, cfg.ChunkWidth, cfg.Biome.TerrainScale, cfg.Biome.Offset),
		biome:       cfg.Biome,
		chunkWidth:  cfg.ChunkWidth,
		chunkHeight: cfg.ChunkHeight,
		worldVoxels: cfg.WorldSizeInVoxels(),
		snowLine:    cfg.SnowLine,
	}
}

// Biome returns the biome the generator was built with.
func (g *Generator) Biome() config.Biome { return g.biome }

// HeightAt computes the surface height (block Y) of world column (x, z).
func (g *Generator) HeightAt(x, z int) int {
	n := g.noise.sample(x, z)
	return int(math.Floor(float64(g.biome.TerrainHeight)*n)) + g.biome.SolidGroundHeight
}

// InWorld reports whether a block position lies inside the world volume.
func (g *Generator) InWorld(x, y, z int) bool {
	return x >= 0 && x < g.worldVoxels &&
		y >= 0 && y < g.chunkHeight &&
		z >= 0 && z < g.worldVoxels
}

// Classify returns the block a freshly generated world holds at (x, y, z).
func (g *Generator) Classify(x, y, z int) registry.BlockID {
	if !g.InWorld(x, y, z) {
		return registry.BlockAir
	}
	return classifyColumn(y, g.HeightAt(x, z), g.snowLine)
}

// classifyColumn picks the block at height y of a column whose surface is h.
// The cases are a priority chain: the first match wins, and the snow and
// snow-dirt bands overlap on purpose.
func classifyColumn(y, h, snowLine int) registry.BlockID {
	switch {
	case y < bedrockDepth:
		return registry.BlockBedrock
	case y > snowLine-5 && y <= h:
		return registry.BlockSnow
	case y > snowLine-10 && y == h:
		return registry.BlockSnowDirt
	case y == h:
		return registry.BlockGrass
	case y < h && y > h-5:
		return registry.BlockDirt
	case y > h:
		return registry.BlockAir
	default:
		return registry.BlockStone
	}
}

// Populate fills gr with the terrain of the chunk whose world-space origin is
// (originX, 0, originZ). Column heights are sampled once per column.
func (g *Generator) Populate(gr *grid.Grid, originX, originZ int) {
	w := gr.Width()
	heights := make([]int, w*w)
	for x := 0; x < w; x++ {
		for z := 0; z < w; z++ {
			heights[x*w+z] = g.HeightAt(originX+x, originZ+z)
		}
	}
	gr.Fill(func(x, y, z int) registry.BlockID {
		wx, wz := originX+x, originZ+z
		if !g.InWorld(wx, y, wz) {
			return registry.BlockAir
		}
		return classifyColumn(y, heights[x*w+z], g.snowLine)
	})
}
