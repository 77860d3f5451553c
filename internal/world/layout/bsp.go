package layout

import (
	"math/rand"

	"github.com/aiwuxian/tile-crawler/internal/models"
)

// bspNode is a rectangular region of the grid under recursive partition.
type bspNode struct {
	x, y, w, h int
	left, right *bspNode
	room        *bspNode // leaf's carved room bounds, if any
}

const (
	minLeafSize  = 6
	minRoomMargin = 1
)

// BSP recursively splits the grid into partitions, carves a rectangular room
// inside each leaf, then connects sibling rooms with straight corridors.
// Produces the structured room shape used for the dungeon/crypt/ruins/temple
// biomes.
func BSP(rng *rand.Rand, width, height int) models.Grid {
	grid := fill(width, height, models.GlyphWall)

	root := &bspNode{x: 1, y: 1, w: width - 2, h: height - 2}
	split(rng, root, 4)
	carveRooms(rng, root, grid)
	connect(root, grid)

	border(grid)
	return grid
}

func split(rng *rand.Rand, n *bspNode, depth int) {
	if depth <= 0 || n.w < minLeafSize*2 || n.h < minLeafSize*2 {
		return
	}
	horizontal := rng.Intn(2) == 0
	if n.w > n.h*5/4 {
		horizontal = false
	} else if n.h > n.w*5/4 {
		horizontal = true
	}

	if horizontal {
		splitAt := minLeafSize + rng.Intn(n.h-2*minLeafSize+1)
		n.left = &bspNode{x: n.x, y: n.y, w: n.w, h: splitAt}
		n.right = &bspNode{x: n.x, y: n.y + splitAt, w: n.w, h: n.h - splitAt}
	} else {
		splitAt := minLeafSize + rng.Intn(n.w-2*minLeafSize+1)
		n.left = &bspNode{x: n.x, y: n.y, w: splitAt, h: n.h}
		n.right = &bspNode{x: n.x + splitAt, y: n.y, w: n.w - splitAt, h: n.h}
	}
	split(rng, n.left, depth-1)
	split(rng, n.right, depth-1)
}

func carveRooms(rng *rand.Rand, n *bspNode, grid models.Grid) {
	if n.left == nil && n.right == nil {
		rw := n.w - 2*minRoomMargin
		rh := n.h - 2*minRoomMargin
		if rw < 3 {
			rw = 3
		}
		if rh < 3 {
			rh = 3
		}
		if rw > n.w-2 {
			rw = n.w - 2
		}
		if rh > n.h-2 {
			rh = n.h - 2
		}
		maxOX := n.w - rw
		maxOY := n.h - rh
		ox, oy := 0, 0
		if maxOX > 0 {
			ox = rng.Intn(maxOX)
		}
		if maxOY > 0 {
			oy = rng.Intn(maxOY)
		}
		rx, ry := n.x+ox, n.y+oy
		for y := ry; y < ry+rh && y < len(grid)-1; y++ {
			for x := rx; x < rx+rw && x < len(grid[0])-1; x++ {
				grid[y][x] = models.GlyphFloor
			}
		}
		n.room = &bspNode{x: rx, y: ry, w: rw, h: rh}
		return
	}
	if n.left != nil {
		carveRooms(rng, n.left, grid)
	}
	if n.right != nil {
		carveRooms(rng, n.right, grid)
	}
}

// connect walks the partition tree and draws an L-shaped corridor between
// the center of each left/right sibling's carved room.
func connect(n *bspNode, grid models.Grid) {
	if n.left == nil || n.right == nil {
		return
	}
	connect(n.left, grid)
	connect(n.right, grid)

	lx, ly := center(leafRoom(n.left))
	rx, ry := center(leafRoom(n.right))
	carveCorridorXY(grid, lx, ly, rx, ry)
}

func leafRoom(n *bspNode) *bspNode {
	if n.room != nil {
		return n.room
	}
	if n.left != nil {
		if r := leafRoom(n.left); r != nil {
			return r
		}
	}
	if n.right != nil {
		return leafRoom(n.right)
	}
	return nil
}

func center(n *bspNode) (int, int) {
	if n == nil {
		return 0, 0
	}
	return n.x + n.w/2, n.y + n.h/2
}

func carveCorridorXY(grid models.Grid, ax, ay, bx, by int) {
	x, y := ax, ay
	for x != bx {
		setFloor(grid, x, y)
		if bx > x {
			x++
		} else {
			x--
		}
	}
	for y != by {
		setFloor(grid, x, y)
		if by > y {
			y++
		} else {
			y--
		}
	}
	setFloor(grid, x, y)
}

func setFloor(grid models.Grid, x, y int) {
	if y < 0 || y >= len(grid) || x < 0 || x >= len(grid[0]) {
		return
	}
	if grid[y][x] == models.GlyphWall {
		grid[y][x] = models.GlyphFloor
	}
}
