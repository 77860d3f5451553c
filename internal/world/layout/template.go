package layout

import "github.com/aiwuxian/tile-crawler/internal/models"

// Template returns a fixed, bare rectangular platform: the void biome's
// layout, since nothing structural generates past the world's floor bound
// and the room exists only to hold the stairs back up.
func Template(width, height int) models.Grid {
	grid := fill(width, height, models.GlyphFloor)
	border(grid)
	return grid
}
