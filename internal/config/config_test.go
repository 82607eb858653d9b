package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"voxelterrain/internal/registry"
)

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Default().Validate(): %v", err)
	}
	if cfg.WorldSizeInVoxels() != 1600 {
		t.Errorf("WorldSizeInVoxels = %d, want 1600", cfg.WorldSizeInVoxels())
	}
	reg, err := cfg.Registry()
	if err != nil {
		t.Fatal(err)
	}
	grass, err := reg.Lookup(registry.BlockGrass)
	if err != nil {
		t.Fatal(err)
	}
	if grass.TextureIndex(registry.FaceTop) != 7 || grass.TextureIndex(registry.FaceLeft) != 2 {
		t.Errorf("grass textures not carried over: %+v", grass.Textures)
	}
}

func TestSetViewDistanceClamps(t *testing.T) {
	cfg := Default()
	tests := []struct{ in, want int }{
		{-3, 1},
		{0, 1},
		{5, 5},
		{32, 32},
		{100, 32},
	}
	for _, tt := range tests {
		cfg.SetViewDistance(tt.in)
		if cfg.ViewDistance != tt.want {
			t.Errorf("SetViewDistance(%d) = %d, want %d", tt.in, cfg.ViewDistance, tt.want)
		}
	}
}

func TestParseOverridesDefaults(t *testing.T) {
	doc := []byte(`
seed: 1337
view_distance: 3
world_size_in_chunks: 50
biome:
  name: Hills
  terrain_height: 30
  terrain_scale: 0.5
  solid_ground_height: 50
`)
	cfg, err := Parse(doc)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if cfg.Seed != 1337 || cfg.ViewDistance != 3 || cfg.WorldSizeInChunks != 50 {
		t.Errorf("top-level overrides lost: %+v", cfg)
	}
	if cfg.Biome.Name != "Hills" || cfg.Biome.TerrainHeight != 30 || cfg.Biome.SolidGroundHeight != 50 {
		t.Errorf("biome overrides lost: %+v", cfg.Biome)
	}
	// untouched keys keep their defaults
	if cfg.ChunkWidth != 16 || cfg.ChunkHeight != 128 || len(cfg.Blocks) != len(registry.Defaults()) {
		t.Errorf("defaults not kept: width %d height %d blocks %d", cfg.ChunkWidth, cfg.ChunkHeight, len(cfg.Blocks))
	}
}

func TestParseEmptyDocument(t *testing.T) {
	cfg, err := Parse(nil)
	if err != nil {
		t.Fatalf("Parse(nil): %v", err)
	}
	if cfg.ViewDistance != Default().ViewDistance {
		t.Errorf("empty document changed defaults")
	}
}

func TestParseBlockTable(t *testing.T) {
	doc := []byte(`
blocks:
  - {id: 0, name: air}
  - {id: 1, name: bedrock, solid: true, destroy_time: -1, textures: {side: 9, top: 9, bottom: 9}}
  - {id: 2, name: stone, solid: true, destroy_time: 1.5}
  - {id: 3, name: dirt, solid: true}
  - id: 4
    name: grass
    solid: true
    textures: {side: 2, top: 7, bottom: 5, faces: {front: 3}}
  - {id: 5, name: snow, solid: true}
  - {id: 6, name: snow_dirt, solid: true}
`)
	cfg, err := Parse(doc)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	reg, err := cfg.Registry()
	if err != nil {
		t.Fatal(err)
	}
	grass, _ := reg.Lookup(registry.BlockGrass)
	if grass.TextureIndex(registry.FaceFront) != 3 || grass.TextureIndex(registry.FaceBack) != 2 {
		t.Errorf("face override not applied: %+v", grass.Textures)
	}
	if _, err := reg.Lookup(registry.BlockPlanks); !errors.Is(err, registry.ErrUnknownBlockType) {
		t.Errorf("block table should replace the defaults, planks lookup err = %v", err)
	}
}

func TestParseRejects(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"unknown key", "render_distance: 4\n"},
		{"wrong type", "seed: banana\n"},
		{"view distance too large", "view_distance: 99\n"},
		{"negative terrain height", "biome: {terrain_height: -1}\n"},
		{"unknown face", "blocks: [{id: 0, name: air, textures: {faces: {north: 1}}}]\n"},
		{"surface above chunk", "chunk_height: 64\n"},
		{"texture outside atlas", "atlas_size_in_blocks: 2\n"},
		{"missing terrain block", "blocks: [{id: 0, name: air}]\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.doc))
			if !errors.Is(err, ErrInvalid) {
				t.Errorf("Parse error = %v, want ErrInvalid", err)
			}
		})
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "world.yaml")
	if err := os.WriteFile(path, []byte("seed: 42\nsnow_line: 90\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Seed != 42 || cfg.SnowLine != 90 {
		t.Errorf("Load = seed %d snow line %d", cfg.Seed, cfg.SnowLine)
	}

	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("Load of a missing file succeeded")
	}
}
