package terrain

import (
	"fmt"
	"strings"
)

// Biome is the terrain category of a triangle. Edges between triangles of
// different biomes are kept sharp during subdivision.
type Biome int8

// Biomes produced by the polygon map generator.
const (
	BiomeUndefined Biome = iota - 1
	BiomeOcean
	BiomeLake
	BiomeMarsh
	BiomeIce
	BiomeBeach
	BiomeSnow
	BiomeTundra
	BiomeBare
	BiomeScorched
	BiomeTaiga
	BiomeShrubland
	BiomeTemperateDesert
	BiomeTemperateRainForest
	BiomeTemperateDeciduousForest
	BiomeGrassland
	BiomeTropicalRainForest
	BiomeTropicalSeasonalForest
	BiomeSubtropicalDesert

	biomeCount
)

var biomeNames = [biomeCount]string{
	"OCEAN",
	"LAKE",
	"MARSH",
	"ICE",
	"BEACH",
	"SNOW",
	"TUNDRA",
	"BARE",
	"SCORCHED",
	"TAIGA",
	"SHRUBLAND",
	"TEMPERATE_DESERT",
	"TEMPERATE_RAIN_FOREST",
	"TEMPERATE_DECIDUOUS_FOREST",
	"GRASSLAND",
	"TROPICAL_RAIN_FOREST",
	"TROPICAL_SEASONAL_FOREST",
	"SUBTROPICAL_DESERT",
}

// String returns the upper-case name used in mesh files.
func (b Biome) String() string {
	if b < 0 || b >= biomeCount {
		return "UNDEFINED"
	}
	return biomeNames[b]
}

// Defined reports whether b is a real biome rather than the undefined sentinel.
func (b Biome) Defined() bool {
	return b >= 0 && b < biomeCount
}

// ParseBiome converts a biome name (case-insensitive) to a Biome.
func ParseBiome(name string) (Biome, error) {
	upper := strings.ToUpper(strings.TrimSpace(name))
	for i, n := range biomeNames {
		if n == upper {
			return Biome(i), nil
		}
	}
	return BiomeUndefined, fmt.Errorf("terrain: unknown biome %q", name)
}
