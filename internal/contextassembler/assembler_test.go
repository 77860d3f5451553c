package contextassembler

import (
	"testing"

	"github.com/aiwuxian/tile-crawler/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAssembleDropsLowestPriorityFirstUnderBudget(t *testing.T) {
	sections := []Section{
		{Name: "preamble", Priority: 1, Text: "system preamble text"},
		{Name: "task", Priority: 7, Text: strings_repeat("task instructions and schema ", 50)},
		{Name: "summary", Priority: 5, Text: strings_repeat("long term summary filler ", 50)},
	}
	result := Assemble(sections, 30)

	assert.Contains(t, result.Payload, "system preamble text")
	assert.Contains(t, result.DroppedSections, "task")
	assert.Contains(t, result.DroppedSections, "summary")
}

func TestAssembleIncludesEverythingWhenBudgetIsGenerous(t *testing.T) {
	sections := []Section{
		{Name: "preamble", Priority: 1, Text: "preamble"},
		{Name: "room", Priority: 2, Text: "room state"},
		{Name: "task", Priority: 7, Text: "task"},
	}
	result := Assemble(sections, 10000)
	assert.Empty(t, result.DroppedSections)
	assert.Contains(t, result.Payload, "preamble")
	assert.Contains(t, result.Payload, "room state")
	assert.Contains(t, result.Payload, "task")
}

func TestCanonicalFormElidesTurnIndex(t *testing.T) {
	room := &models.Room{
		Coordinate: models.Coordinate{X: 1, Y: 2, Z: 0},
		Biome:      models.BiomeDungeon,
		Exits:      map[models.Direction]bool{models.North: true},
	}

	a := RoomStateSection(room, 5)
	b := RoomStateSection(room, 912)

	require.Equal(t, a.Text, b.Text, "room state rendering never embeds the turn index in the first place")
	assembledA := Assemble([]Section{a}, 1000)
	assembledB := Assemble([]Section{b}, 1000)
	assert.Equal(t, assembledA.Canonical, assembledB.Canonical)
}

func TestCanonicalMapSortsKeys(t *testing.T) {
	m1 := map[string]string{"b": "2", "a": "1"}
	assert.Equal(t, "a=1,b=2", CanonicalMap(m1))
}

func TestCanonicalFloatRoundsToStableGrid(t *testing.T) {
	assert.Equal(t, CanonicalFloat(1.005), CanonicalFloat(1.00499999))
}

func strings_repeat(s string, n int) string {
	out := ""
	for i := 0; i < n; i++ {
		out += s
	}
	return out
}
