package world

import (
	"math/rand"
	"testing"

	"github.com/aiwuxian/tile-crawler/internal/models"
	"github.com/stretchr/testify/assert"
)

func TestDetermineExitsReciprocatesExistingNeighbor(t *testing.T) {
	origin := models.Coordinate{X: 0, Y: 0, Z: 0}
	dest := models.Coordinate{X: 1, Y: 0, Z: 0} // east of origin

	originRoom := &models.Room{Coordinate: origin, Exits: map[models.Direction]bool{models.East: true}}
	existing := map[string]*models.Room{origin.Key(): originRoom}

	rng := rand.New(rand.NewSource(1))
	exits := DetermineExits(rng, dest, existing)

	assert.True(t, exits[models.West], "dest must open west since origin already opens east toward it")
}

func TestDetermineExitsNeverEmpty(t *testing.T) {
	c := models.Coordinate{X: 5, Y: 5, Z: 0}
	for seed := int64(0); seed < 20; seed++ {
		rng := rand.New(rand.NewSource(seed))
		exits := DetermineExits(rng, c, nil)
		assert.NotEmpty(t, exits, "a generated room must always have at least one exit")
	}
}

func TestReconcileNeighborExitsFindsDanglingOneWay(t *testing.T) {
	origin := models.Coordinate{X: 0, Y: 0, Z: 0}
	dest := models.Coordinate{X: 1, Y: 0, Z: 0}
	originRoom := &models.Room{Coordinate: origin, Exits: map[models.Direction]bool{}} // no exit yet

	existing := map[string]*models.Room{origin.Key(): originRoom}
	newExits := map[models.Direction]bool{models.West: true} // dest opens toward origin

	needs := ReconcileNeighborExits(dest, newExits, existing)
	assert.Equal(t, []models.Coordinate{origin}, needs)
}
