package world

import (
	"fmt"
	"time"

	"github.com/aiwuxian/tile-crawler/internal/models"
	"github.com/aiwuxian/tile-crawler/internal/world/layout"
)

const (
	defaultRoomWidth  = 15
	defaultRoomHeight = 11
)

// GenerateParams bundles the inputs room generation needs beyond the
// coordinate itself: the world seed, sizing from config, and enough player
// state to scale spawn difficulty.
type GenerateParams struct {
	WorldSeed   string
	Width       int
	Height      int
	PlayerLevel int
}

// GenerateRoom runs the full procedural pipeline for a coordinate that has
// never been visited:
//
//  1. derive a seeded RNG from (world_seed, x, y, z)
//  2. choose a biome from the macro partition
//  3. choose and run a layout algorithm for that biome
//  4. place items/enemies from the biome's spawn table, scaled by depth vs
//     player level
//  5. determine the exit set, honoring reciprocity against already
//     generated neighbors
//  6. stamp a procedural placeholder description/atmosphere — the caller is
//     responsible for the LLM request that later replaces it (Enriched
//     stays false here)
//
// existingNeighbors supplies the subset of already-generated neighbor rooms,
// keyed by Coordinate.Key(), needed for reciprocity in step 5.
func GenerateRoom(c models.Coordinate, params GenerateParams, existingNeighbors map[string]*models.Room) *models.Room {
	width, height := params.Width, params.Height
	if width <= 0 {
		width = defaultRoomWidth
	}
	if height <= 0 {
		height = defaultRoomHeight
	}

	rng := RoomRNG(params.WorldSeed, c)
	biome := ChooseBiome(params.WorldSeed, c)
	algo := layout.ForBiome(biome)
	grid := layout.Generate(algo, rng, width, height)

	items, enemies := PlaceSpawns(rng, biome, grid, zoneLevel(c), params.PlayerLevel)
	exits := DetermineExits(rng, c, existingNeighbors)

	room := &models.Room{
		Coordinate:  c,
		Grid:        grid,
		Biome:       biome,
		Exits:       exits,
		Description: placeholderDescription(biome),
		Atmosphere:  placeholderAtmosphere(biome),
		Items:       items,
		Enemies:     enemies,
		Features:    make(map[string]bool),
		GeneratedAt: time.Now(),
		Enriched:    false,
	}

	if len(enemies) == 0 {
		room.Cleared = true
	}

	return room
}

// zoneLevel derives a nominal challenge level for a coordinate from its
// depth: each floor below the surface raises the zone level by one.
func zoneLevel(c models.Coordinate) int {
	level := c.Z + 1
	if level < 1 {
		level = 1
	}
	return level
}

func placeholderDescription(b models.Biome) string {
	return fmt.Sprintf("A %s chamber, its details still indistinct in the torchlight.", b)
}

func placeholderAtmosphere(b models.Biome) string {
	switch b {
	case models.BiomeCave, models.BiomeVolcano:
		return "damp air, distant dripping"
	case models.BiomeCrypt, models.BiomeRuins, models.BiomeTemple:
		return "still, dust-laden silence"
	case models.BiomeVoid:
		return "an unsettling, featureless hush"
	default:
		return "the faint echo of footsteps"
	}
}
