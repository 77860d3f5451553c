package world

import "github.com/aiwuxian/tile-crawler/internal/models"

// ChooseBiome picks the biome for a new room from the macro partition value
// and the floor depth. The depth bands pick a candidate set per floor; the
// macro value adds (x,y) variation within a band rather than always
// returning the same biome for a floor.
func ChooseBiome(worldSeed string, c models.Coordinate) models.Biome {
	v := MacroValue(worldSeed, c.X, c.Y)
	z := c.Z

	switch {
	case z <= 2:
		if v < 0.5 {
			return models.BiomeDungeon
		}
		return models.BiomeCave
	case z <= 5:
		switch {
		case v < 0.34:
			return models.BiomeDungeon
		case v < 0.67:
			return models.BiomeCrypt
		default:
			return models.BiomeRuins
		}
	case z <= 7:
		switch {
		case v < 0.34:
			return models.BiomeTemple
		case v < 0.67:
			return models.BiomeRuins
		default:
			return models.BiomeCrypt
		}
	case z <= 9:
		if v < 0.5 {
			return models.BiomeVolcano
		}
		return models.BiomeTemple
	default:
		return models.BiomeVoid
	}
}

// DifficultyScale computes the biome-weighted spawn difficulty curve:
// scale = 1 + 0.1*(zone_level - player_level), clamped to a sane [0.5, 3.0]
// band so deep floors don't produce degenerate spawns.
func DifficultyScale(zoneLevel, playerLevel int) float64 {
	scale := 1.0 + 0.1*float64(zoneLevel-playerLevel)
	if scale < 0.5 {
		scale = 0.5
	}
	if scale > 3.0 {
		scale = 3.0
	}
	return scale
}
