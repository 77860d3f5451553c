// Package fallback is the deterministic procedural content generator the
// Validator invokes when an LLM completion cannot be coerced into a valid
// schema after extraction, repair, and sanitization. Every function here is
// a pure function of its inputs (no RNG, no clock) so that fallback content
// is as reproducible as the seeded world generation it sits alongside: an
// 11x15 bordered room with a single player start near the entrance, one
// exit gap per open side, and a description drawn from a per-biome table.
package fallback

import "github.com/aiwuxian/tile-crawler/internal/models"

const (
	roomWidth  = 15
	roomHeight = 11
)

var biomeDescriptions = map[models.Biome]string{
	models.BiomeDungeon: "A cold stone chamber stretches before you. Ancient dust covers the floor.",
	models.BiomeCave:    "Stalactites drip overhead in this natural cavern. The air is damp.",
	models.BiomeCrypt:   "Tombs line the walls of this burial chamber. The dead rest uneasily here.",
	models.BiomeRuins:   "Crumbling walls hint at former grandeur. Nature reclaims what was lost.",
	models.BiomeTemple:  "Corrupted symbols cover the walls. Dark power lingers in the air.",
	models.BiomeForest:  "Twisted trees form walls of wood and shadow. The path ahead is unclear.",
	models.BiomeVolcano: "Heat radiates from every surface. Lava glows in the distance.",
	models.BiomeVoid:    "Reality seems uncertain here. The darkness between worlds surrounds you.",
}

// RoomDescription returns the fallback {description, atmosphere} pair for a
// room whose biome is b. Atmosphere always falls back to "neutral" — the
// procedural box template carries no mood of its own.
func RoomDescription(b models.Biome) (description, atmosphere string) {
	desc, ok := biomeDescriptions[b]
	if !ok {
		desc = biomeDescriptions[models.BiomeDungeon]
	}
	return desc, "neutral"
}

// Grid renders the fixed bordered-box template into a glyph grid, cutting
// one gap per side present in exits: north gap at column 7 of row 0, south
// gap at column 7 of the last row, east/west gaps at row 5.
func Grid(exits map[models.Direction]bool) models.Grid {
	g := make(models.Grid, roomHeight)
	for y := 0; y < roomHeight; y++ {
		row := make([]models.Glyph, roomWidth)
		for x := 0; x < roomWidth; x++ {
			if y == 0 || y == roomHeight-1 || x == 0 || x == roomWidth-1 {
				row[x] = models.GlyphWall
			} else {
				row[x] = models.GlyphFloor
			}
		}
		g[y] = row
	}

	g[5][7] = models.GlyphPlayer

	if exits[models.North] {
		g[0][7] = models.GlyphFloor
	}
	if exits[models.South] {
		g[roomHeight-1][7] = models.GlyphFloor
	}
	if exits[models.East] {
		g[5][roomWidth-1] = models.GlyphFloor
	}
	if exits[models.West] {
		g[5][0] = models.GlyphFloor
	}

	return g
}

// Features is the fixed feature set the original fallback always attaches.
func Features() map[string]bool {
	return map[string]bool{"torch_sconce": true}
}
