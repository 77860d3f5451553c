// Package layout implements the tile-grid generation algorithms selected by
// biome during room generation. Each algorithm is a pure function of a
// seeded *rand.Rand and a target size, so the caller retains full control
// over reproducibility.
package layout

import (
	"math/rand"

	"github.com/aiwuxian/tile-crawler/internal/models"
)

// Algorithm names a layout generator, selected by biome in internal/world.
type Algorithm string

const (
	AlgorithmBSP      Algorithm = "bsp"
	AlgorithmCellular Algorithm = "cellular"
	AlgorithmTemplate Algorithm = "template"
)

// ForBiome selects the layout algorithm a biome uses: structured
// dungeons/crypts/ruins/temples use BSP partitioning, organic caves/volcano
// interiors use a cellular automaton, and the void biome uses a fixed
// template (a single bare platform, since nothing meaningful generates past
// the floor bound).
func ForBiome(b models.Biome) Algorithm {
	switch b {
	case models.BiomeCave, models.BiomeVolcano:
		return AlgorithmCellular
	case models.BiomeVoid:
		return AlgorithmTemplate
	default:
		return AlgorithmBSP
	}
}

// Generate dispatches to the selected algorithm and returns a fully walled
// grid of the given dimensions with a walkable interior.
func Generate(algo Algorithm, rng *rand.Rand, width, height int) models.Grid {
	switch algo {
	case AlgorithmCellular:
		return Cellular(rng, width, height)
	case AlgorithmTemplate:
		return Template(width, height)
	default:
		return BSP(rng, width, height)
	}
}

// fill returns a grid of the given size entirely filled with the given glyph.
func fill(width, height int, g models.Glyph) models.Grid {
	grid := make(models.Grid, height)
	for y := range grid {
		row := make([]models.Glyph, width)
		for x := range row {
			row[x] = g
		}
		grid[y] = row
	}
	return grid
}

// border stamps a solid wall ring around the grid's edge, leaving the
// interior untouched.
func border(grid models.Grid) {
	width, height := grid.Dimensions()
	for x := 0; x < width; x++ {
		grid[0][x] = models.GlyphWall
		grid[height-1][x] = models.GlyphWall
	}
	for y := 0; y < height; y++ {
		grid[y][0] = models.GlyphWall
		grid[y][width-1] = models.GlyphWall
	}
}
