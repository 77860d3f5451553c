package layout

import (
	"math/rand"

	"github.com/aiwuxian/tile-crawler/internal/models"
)

const (
	cellularFillChance = 0.45
	cellularIterations = 4
)

// Cellular runs a standard cave-generation automaton: seed the interior with
// random walls at cellularFillChance, then repeatedly smooth by majority-wall
// vote over the Moore neighborhood. Produces organic cave/volcano interiors
// rather than a fixed room template.
func Cellular(rng *rand.Rand, width, height int) models.Grid {
	grid := fill(width, height, models.GlyphFloor)

	for y := 1; y < height-1; y++ {
		for x := 1; x < width-1; x++ {
			if rng.Float64() < cellularFillChance {
				grid[y][x] = models.GlyphWall
			}
		}
	}

	for i := 0; i < cellularIterations; i++ {
		grid = smooth(grid)
	}

	border(grid)
	ensureConnected(grid)
	return grid
}

func smooth(grid models.Grid) models.Grid {
	width, height := grid.Dimensions()
	next := grid.Clone()
	for y := 1; y < height-1; y++ {
		for x := 1; x < width-1; x++ {
			walls := wallNeighbors(grid, x, y)
			switch {
			case walls >= 5:
				next[y][x] = models.GlyphWall
			case walls <= 2:
				next[y][x] = models.GlyphFloor
			default:
				next[y][x] = grid[y][x]
			}
		}
	}
	return next
}

func wallNeighbors(grid models.Grid, x, y int) int {
	count := 0
	for dy := -1; dy <= 1; dy++ {
		for dx := -1; dx <= 1; dx++ {
			if dx == 0 && dy == 0 {
				continue
			}
			ny, nx := y+dy, x+dx
			if ny < 0 || ny >= len(grid) || nx < 0 || nx >= len(grid[0]) {
				count++
				continue
			}
			if grid[ny][nx] == models.GlyphWall {
				count++
			}
		}
	}
	return count
}

// ensureConnected carves an L-shaped corridor from every isolated floor
// pocket to the grid's center, guaranteeing single-component reachability
// without a full flood-fill rewrite of the cave.
func ensureConnected(grid models.Grid) {
	width, height := grid.Dimensions()
	cx, cy := width/2, height/2
	if grid[cy][cx] == models.GlyphWall {
		grid[cy][cx] = models.GlyphFloor
	}

	visited := make([][]bool, height)
	for i := range visited {
		visited[i] = make([]bool, width)
	}
	flood(grid, visited, cx, cy)

	for y := 1; y < height-1; y++ {
		for x := 1; x < width-1; x++ {
			if grid[y][x] == models.GlyphFloor && !visited[y][x] {
				carveCorridorXY(grid, x, y, cx, cy)
				flood(grid, visited, x, y)
			}
		}
	}
}

func flood(grid models.Grid, visited [][]bool, x, y int) {
	if y < 0 || y >= len(grid) || x < 0 || x >= len(grid[0]) {
		return
	}
	if visited[y][x] || grid[y][x] != models.GlyphFloor {
		return
	}
	visited[y][x] = true
	flood(grid, visited, x+1, y)
	flood(grid, visited, x-1, y)
	flood(grid, visited, x, y+1)
	flood(grid, visited, x, y-1)
}
