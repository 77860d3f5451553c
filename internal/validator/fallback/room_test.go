package fallback

import (
	"testing"

	"github.com/aiwuxian/tile-crawler/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoomDescriptionKnownBiome(t *testing.T) {
	desc, atmo := RoomDescription(models.BiomeCave)
	assert.Contains(t, desc, "Stalactites")
	assert.Equal(t, "neutral", atmo)
}

func TestRoomDescriptionUnknownBiomeFallsBackToDungeon(t *testing.T) {
	desc, _ := RoomDescription(models.Biome("unmapped"))
	assert.Contains(t, desc, "stone chamber")
}

func TestGridIsBorderedAndRectangular(t *testing.T) {
	g := Grid(map[models.Direction]bool{models.North: true})
	width, height := g.Dimensions()
	assert.Equal(t, 15, width)
	assert.Equal(t, 11, height)
	require.True(t, g.Rectangular())

	for x := 0; x < width; x++ {
		assert.Equal(t, models.GlyphWall, g[height-1][x], "south wall should remain closed when no south exit requested")
	}
}

func TestGridCutsRequestedExitGaps(t *testing.T) {
	g := Grid(map[models.Direction]bool{models.North: true, models.East: true})
	assert.NotEqual(t, models.GlyphWall, g[0][7])
	assert.NotEqual(t, models.GlyphWall, g[5][14])
	assert.Equal(t, models.GlyphWall, g[10][7], "south gap must stay closed when south exit was not requested")
	assert.Equal(t, models.GlyphWall, g[5][0], "west gap must stay closed when west exit was not requested")
}

func TestGridPlacesPlayerNearEntrance(t *testing.T) {
	g := Grid(map[models.Direction]bool{})
	assert.Equal(t, models.GlyphPlayer, g[5][7])
}
