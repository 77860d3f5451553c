package api

import "github.com/aiwuxian/tile-crawler/internal/models"

// glyphChars maps each known glyph to the single ASCII character the
// client-facing map field uses: plain-text rows (one string per row)
// rather than the raw numeric Grid over the wire.
var glyphChars = map[models.Glyph]byte{
	models.GlyphVoid:        ' ',
	models.GlyphFloor:       '.',
	models.GlyphWater:       '~',
	models.GlyphLava:        '!',
	models.GlyphChasm:       '_',
	models.GlyphWall:        '#',
	models.GlyphWallCracked: '%',
	models.GlyphWallRune:    '&',
	models.GlyphDoorClosed:  '+',
	models.GlyphDoorOpen:    '\'',
	models.GlyphDoorLocked:  'L',
	models.GlyphTorch:       't',
	models.GlyphAltar:       'A',
	models.GlyphChestClosed: 'C',
	models.GlyphChestOpen:   'c',
	models.GlyphTrap:        '^',
	models.GlyphStairsUp:    '<',
	models.GlyphStairsDown:  '>',
	models.GlyphPlayer:      '@',
	models.GlyphEnemy:       'e',
	models.GlyphBoss:        'B',
	models.GlyphNPC:         'n',
	models.GlyphItem:        'i',
}

// RenderMap renders room's grid into plain-text rows with enemies and NPCs
// overlaid at their tile positions. Items are not drawn, since they carry
// no tile position. The underlying Grid is never mutated.
func RenderMap(room *models.Room) []string {
	if room == nil {
		return nil
	}
	grid := room.Grid.Clone()
	for _, e := range room.Enemies {
		stampEntity(grid, e.X, e.Y, models.GlyphEnemy)
	}
	for _, n := range room.NPCs {
		stampEntity(grid, n.X, n.Y, models.GlyphNPC)
	}

	width, height := grid.Dimensions()
	rows := make([]string, height)
	for y := 0; y < height; y++ {
		buf := make([]byte, width)
		for x := 0; x < width; x++ {
			ch, ok := glyphChars[grid[y][x]]
			if !ok {
				ch = '?'
			}
			buf[x] = ch
		}
		rows[y] = string(buf)
	}
	return rows
}

func stampEntity(grid models.Grid, x, y int, g models.Glyph) {
	width, height := grid.Dimensions()
	if y < 0 || y >= height || x < 0 || x >= width {
		return
	}
	grid[y][x] = g
}
