package world

import (
	"strings"

	"voxelterrain/internal/config"
)

// Built-in biome profiles. Every profile keeps its highest surface below 128,
// the default chunk height.
var (
	BiomeGrasslands = config.Biome{
		Name:              "Grasslands",
		TerrainHeight:     20,
		TerrainScale:      0.25,
		SolidGroundHeight: 64,
	}
	BiomeHills = config.Biome{
		Name:              "Hills",
		TerrainHeight:     32,
		TerrainScale:      0.5,
		SolidGroundHeight: 56,
	}
	BiomeMountains = config.Biome{
		Name:              "Mountains",
		TerrainHeight:     56,
		TerrainScale:      0.35,
		SolidGroundHeight: 60,
	}
	BiomeFlats = config.Biome{
		Name:              "Flats",
		TerrainHeight:     4,
		TerrainScale:      0.1,
		SolidGroundHeight: 40,
	}
)

// Biomes lists the built-in profiles.
var Biomes = []config.Biome{BiomeGrasslands, BiomeHills, BiomeMountains, BiomeFlats}

// BiomeByName looks a built-in profile up by name, ignoring case.
func BiomeByName(name string) (config.Biome, bool) {
	for _, b := range Biomes {
		if strings.EqualFold(b.Name, name) {
			return b, true
		}
	}
	return config.Biome{}, false
}
