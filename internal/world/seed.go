package world

import (
	"fmt"
	"hash/fnv"
	"math/rand"

	"github.com/aiwuxian/tile-crawler/internal/models"
)

// RoomRNG derives a deterministic random source from (worldSeed, coordinate)
// so any room is reproducible from its coordinate alone. Uses FNV-1a over
// the formatted seed string rather than a cryptographic hash: this is a
// reproducibility requirement, not a security boundary.
func RoomRNG(worldSeed string, c models.Coordinate) *rand.Rand {
	h := fnv.New64a()
	fmt.Fprintf(h, "%s:%d:%d:%d", worldSeed, c.X, c.Y, c.Z)
	return rand.New(rand.NewSource(int64(h.Sum64())))
}

// MacroValue returns a deterministic pseudo-noise value in [0,1) for a given
// (x,y) column, used to partition the macro biome map independent of z —
// a deterministic stand-in for a Voronoi or simplex-noise partition, so
// biome choice varies across (x,y) rather than depending only on depth.
func MacroValue(worldSeed string, x, y int) float64 {
	h := fnv.New64a()
	fmt.Fprintf(h, "macro:%s:%d:%d", worldSeed, x, y)
	sum := h.Sum64()
	return float64(sum%1_000_000) / 1_000_000.0
}
