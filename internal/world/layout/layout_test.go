package layout

import (
	"math/rand"
	"testing"

	"github.com/aiwuxian/tile-crawler/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestForBiomeSelection(t *testing.T) {
	assert.Equal(t, AlgorithmCellular, ForBiome(models.BiomeCave))
	assert.Equal(t, AlgorithmCellular, ForBiome(models.BiomeVolcano))
	assert.Equal(t, AlgorithmTemplate, ForBiome(models.BiomeVoid))
	assert.Equal(t, AlgorithmBSP, ForBiome(models.BiomeDungeon))
	assert.Equal(t, AlgorithmBSP, ForBiome(models.BiomeCrypt))
}

func TestBSPProducesWalkableFloor(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	grid := BSP(rng, 15, 11)
	require.True(t, grid.Rectangular())
	assert.True(t, countGlyph(grid, models.GlyphFloor) > 0)
}

func TestCellularProducesConnectedFloor(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	grid := Cellular(rng, 15, 11)
	require.True(t, grid.Rectangular())

	width, height := grid.Dimensions()
	visited := make([][]bool, height)
	for i := range visited {
		visited[i] = make([]bool, width)
	}
	flood(grid, visited, width/2, height/2)

	for y := 1; y < height-1; y++ {
		for x := 1; x < width-1; x++ {
			if grid[y][x] == models.GlyphFloor {
				assert.True(t, visited[y][x], "floor tile (%d,%d) must be reachable from center", x, y)
			}
		}
	}
}

func TestTemplateBordered(t *testing.T) {
	grid := Template(15, 11)
	width, height := grid.Dimensions()
	for x := 0; x < width; x++ {
		assert.Equal(t, models.GlyphWall, grid[0][x])
	}
	for y := 0; y < height; y++ {
		assert.Equal(t, models.GlyphWall, grid[y][0])
	}
}

func countGlyph(grid models.Grid, g models.Glyph) int {
	n := 0
	for _, row := range grid {
		for _, cell := range row {
			if cell == g {
				n++
			}
		}
	}
	return n
}
