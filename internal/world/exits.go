package world

import (
	"math/rand"

	"github.com/aiwuxian/tile-crawler/internal/models"
)

// DetermineExits decides which directions a newly generated room opens in.
// Two constraints apply unconditionally:
//
//  1. Reciprocity: if a neighboring room already exists and has an exit
//     pointing back at this room, this room MUST carry the matching exit —
//     the world must never present a one-way door the player can't return
//     through.
//  2. Horizontal only: exits are drawn from north/south/east/west, each
//     opened with probability 0.55, and at least one is always opened.
//     DetermineExits never opens up/down, and no other step of room
//     generation adds vertical exits.
//
// existing maps a neighboring coordinate key to its already-generated Room,
// for the subset of neighbors that have been visited by the caller.
func DetermineExits(rng *rand.Rand, c models.Coordinate, existing map[string]*models.Room) map[models.Direction]bool {
	exits := make(map[models.Direction]bool)

	horizontal := []models.Direction{models.North, models.South, models.East, models.West}
	for _, d := range horizontal {
		neighborKey := c.Move(d).Key()
		if nr, ok := existing[neighborKey]; ok {
			if nr.HasExit(d.Opposite()) {
				exits[d] = true
			}
			continue
		}
		if rng.Float64() < 0.55 {
			exits[d] = true
		}
	}

	if len(exits) == 0 {
		fallback := horizontal[rng.Intn(len(horizontal))]
		exits[fallback] = true
	}

	return exits
}

// ReconcileNeighborExits returns the set of already-generated neighbor rooms
// that must gain a reciprocal exit because the new room opened toward them.
// The caller is responsible for persisting the mutation via ApplyRoomChange
// so it is recorded and replayable.
func ReconcileNeighborExits(c models.Coordinate, exits map[models.Direction]bool, existing map[string]*models.Room) []models.Coordinate {
	var needsReciprocal []models.Coordinate
	for d, open := range exits {
		if !open {
			continue
		}
		neighborKey := c.Move(d).Key()
		nr, ok := existing[neighborKey]
		if !ok {
			continue
		}
		if !nr.HasExit(d.Opposite()) {
			needsReciprocal = append(needsReciprocal, nr.Coordinate)
		}
	}
	return needsReciprocal
}
