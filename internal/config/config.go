package config

import (
	"errors"
	"fmt"
	"runtime"
	"time"

	"voxelterrain/internal/registry"
)

// ErrInvalid wraps every semantic validation failure.
var ErrInvalid = errors.New("invalid config")

const (
	minViewDistance = 1
	maxViewDistance = 32
)

// Biome holds the terrain height profile parameters.
type Biome struct {
	Name              string  `yaml:"name"`
	TerrainHeight     int     `yaml:"terrain_height"`      // max rise above solid ground
	TerrainScale      float64 `yaml:"terrain_scale"`       // noise frequency per chunk
	SolidGroundHeight int     `yaml:"solid_ground_height"` // lowest surface level
	Offset            float64 `yaml:"offset"`              // added to noise coordinates
}

// Textures selects atlas tiles for a block. Faces overrides single faces by
// name (back, front, top, bottom, left, right).
type Textures struct {
	Side   int            `yaml:"side"`
	Top    int            `yaml:"top"`
	Bottom int            `yaml:"bottom"`
	Faces  map[string]int `yaml:"faces,omitempty"`
}

// Block is one row of the block-type table.
type Block struct {
	ID          uint8    `yaml:"id"`
	Name        string   `yaml:"name"`
	Solid       bool     `yaml:"solid"`
	DestroyTime float32  `yaml:"destroy_time"`
	Textures    Textures `yaml:"textures"`
}

// Config is everything a world needs at startup. It is read-only once the
// world is created.
type Config struct {
	Seed              int64   `yaml:"seed"`
	Biome             Biome   `yaml:"biome"`
	Blocks            []Block `yaml:"blocks"`
	ChunkWidth        int     `yaml:"chunk_width"`
	ChunkHeight       int     `yaml:"chunk_height"`
	ViewDistance      int     `yaml:"view_distance"` // in chunks
	WorldSizeInChunks int     `yaml:"world_size_in_chunks"`
	AtlasSizeInBlocks int     `yaml:"atlas_size_in_blocks"`
	SnowLine          int     `yaml:"snow_line"`
	Workers           int     `yaml:"workers"`      // chunk generation goroutines
	SlowTickMs        int     `yaml:"slow_tick_ms"` // ticks slower than this are logged
}

// Default returns the built-in session configuration.
func Default() *Config {
	return &Config{
		Seed: 0,
		Biome: Biome{
			Name:              "Grasslands",
			TerrainHeight:     20,
			TerrainScale:      0.25,
			SolidGroundHeight: 64,
		},
		Blocks:            blocksFromRegistry(registry.Defaults()),
		ChunkWidth:        16,
		ChunkHeight:       128,
		ViewDistance:      5,
		WorldSizeInChunks: 100,
		AtlasSizeInBlocks: 4,
		SnowLine:          78,
		Workers:           max(runtime.NumCPU(), 1),
		SlowTickMs:        16,
	}
}

// SetViewDistance sets the view distance in chunks, clamped to a sane range.
func (c *Config) SetViewDistance(distance int) {
	if distance < minViewDistance {
		distance = minViewDistance
	}
	if distance > maxViewDistance {
		distance = maxViewDistance
	}
	c.ViewDistance = distance
}

// SlowTick returns the slow tick threshold as a duration.
func (c *Config) SlowTick() time.Duration {
	return time.Duration(c.SlowTickMs) * time.Millisecond
}

// WorldSizeInVoxels is the horizontal extent of the world in blocks.
func (c *Config) WorldSizeInVoxels() int {
	return c.WorldSizeInChunks * c.ChunkWidth
}

// Validate checks the cross-field constraints the schema cannot express.
func (c *Config) Validate() error {
	switch {
	case c.ChunkWidth <= 0:
		return fmt.Errorf("%w: chunk_width must be positive, got %d", ErrInvalid, c.ChunkWidth)
	case c.ChunkHeight <= 0:
		return fmt.Errorf("%w: chunk_height must be positive, got %d", ErrInvalid, c.ChunkHeight)
	case c.WorldSizeInChunks <= 0:
		return fmt.Errorf("%w: world_size_in_chunks must be positive, got %d", ErrInvalid, c.WorldSizeInChunks)
	case c.ViewDistance < minViewDistance || c.ViewDistance > maxViewDistance:
		return fmt.Errorf("%w: view_distance %d outside [%d, %d]", ErrInvalid, c.ViewDistance, minViewDistance, maxViewDistance)
	case c.AtlasSizeInBlocks <= 0:
		return fmt.Errorf("%w: atlas_size_in_blocks must be positive, got %d", ErrInvalid, c.AtlasSizeInBlocks)
	case c.Workers <= 0:
		return fmt.Errorf("%w: workers must be positive, got %d", ErrInvalid, c.Workers)
	case c.Biome.TerrainHeight < 0 || c.Biome.SolidGroundHeight < 0:
		return fmt.Errorf("%w: biome %q heights must not be negative", ErrInvalid, c.Biome.Name)
	case c.Biome.TerrainScale <= 0:
		return fmt.Errorf("%w: biome %q terrain_scale must be positive", ErrInvalid, c.Biome.Name)
	case c.Biome.SolidGroundHeight+c.Biome.TerrainHeight >= c.ChunkHeight:
		return fmt.Errorf("%w: biome %q surface can reach %d, chunk height is %d", ErrInvalid, c.Biome.Name,
			c.Biome.SolidGroundHeight+c.Biome.TerrainHeight, c.ChunkHeight)
	}

	tiles := c.AtlasSizeInBlocks * c.AtlasSizeInBlocks
	for _, b := range c.Blocks {
		for face, tex := range b.faceTextures() {
			if tex < 0 || tex >= tiles {
				return fmt.Errorf("%w: block %q face %s texture %d outside %d tiles", ErrInvalid, b.Name, registry.Face(face), tex, tiles)
			}
		}
		for name := range b.Textures.Faces {
			if _, ok := registry.ParseFace(name); !ok {
				return fmt.Errorf("%w: block %q has unknown face %q", ErrInvalid, b.Name, name)
			}
		}
	}
	if _, err := c.Registry(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	return nil
}

// Registry builds the block registry from the block table.
func (c *Config) Registry() (*registry.Registry, error) {
	defs := make([]registry.BlockType, 0, len(c.Blocks))
	for _, b := range c.Blocks {
		defs = append(defs, registry.BlockType{
			ID:          registry.BlockID(b.ID),
			Name:        b.Name,
			IsSolid:     b.Solid,
			Textures:    b.faceTextures(),
			DestroyTime: b.DestroyTime,
		})
	}
	return registry.New(defs)
}

func (b Block) faceTextures() [registry.NumFaces]int {
	tex := registry.SideTextures(b.Textures.Side, b.Textures.Top, b.Textures.Bottom)
	for name, idx := range b.Textures.Faces {
		if f, ok := registry.ParseFace(name); ok {
			tex[f] = idx
		}
	}
	return tex
}

func blocksFromRegistry(defs []registry.BlockType) []Block {
	out := make([]Block, 0, len(defs))
	for _, d := range defs {
		out = append(out, Block{
			ID:          uint8(d.ID),
			Name:        d.Name,
			Solid:       d.IsSolid,
			DestroyTime: d.DestroyTime,
			Textures: Textures{
				Side:   d.Textures[registry.FaceBack],
				Top:    d.Textures[registry.FaceTop],
				Bottom: d.Textures[registry.FaceBottom],
			},
		})
	}
	return out
}
