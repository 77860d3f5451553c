package world

import (
	"testing"

	"github.com/aiwuxian/tile-crawler/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetOrGenerateRoomIsLazyAndStable(t *testing.T) {
	s := NewStore("store-seed", 1, 15, 11)
	c := models.Coordinate{X: 0, Y: 0, Z: 0}

	room1, generated1 := s.GetOrGenerateRoom(c)
	require.True(t, generated1)

	room2, generated2 := s.GetOrGenerateRoom(c)
	assert.False(t, generated2)
	assert.Same(t, room1, room2)
}

func TestMovePlayerBlockedWithoutExit(t *testing.T) {
	s := NewStore("blocked-seed", 1, 15, 11)
	origin := models.Coordinate{X: 0, Y: 0, Z: 0}
	room, _ := s.GetOrGenerateRoom(origin)
	room.Exits = map[models.Direction]bool{} // force no exits

	result := s.MovePlayer(models.North)
	assert.Equal(t, result.Status.String(), "recoverable_error")
	assert.Equal(t, origin, s.World().PlayerAt)
}

func TestMovePlayerReciprocity(t *testing.T) {
	s := NewStore("reciprocity-seed", 1, 15, 11)
	origin := models.Coordinate{X: 0, Y: 0, Z: 0}
	originRoom, _ := s.GetOrGenerateRoom(origin)
	originRoom.Exits[models.North] = true

	result := s.MovePlayer(models.North)
	require.Equal(t, "ok", result.Status.String())

	destRoom := result.Value
	assert.True(t, destRoom.HasExit(models.South), "destination must reciprocate the exit back toward origin")
	assert.Equal(t, origin.Move(models.North), s.World().PlayerAt)
}

func TestApplyRoomChangeTileReplaceIdempotent(t *testing.T) {
	s := NewStore("tile-seed", 1, 15, 11)
	c := models.Coordinate{X: 0, Y: 0, Z: 0}
	s.GetOrGenerateRoom(c)

	change := models.RoomChange{Kind: models.ChangeTileReplace, TileX: 2, TileY: 2, NewGlyph: models.GlyphDoorOpen}
	r1 := s.ApplyRoomChange(c, change)
	require.Equal(t, "ok", r1.Status.String())
	r2 := s.ApplyRoomChange(c, change)
	require.Equal(t, "ok", r2.Status.String())

	assert.Equal(t, models.GlyphDoorOpen, r2.Value.Grid[2][2])
	assert.Len(t, r2.Value.Changes, 2)
}

func TestApplyRoomChangeItemRemovedIsIdempotent(t *testing.T) {
	s := NewStore("item-seed", 1, 15, 11)
	c := models.Coordinate{X: 0, Y: 0, Z: 0}
	room, _ := s.GetOrGenerateRoom(c)
	// Replace the generated loot so the room holds exactly one rusty_sword.
	room.Items = []models.ItemInstance{{DefinitionID: "rusty_sword", Quantity: 1}}

	change := models.RoomChange{Kind: models.ChangeItemRemoved, RefID: "rusty_sword"}
	first := s.ApplyRoomChange(c, change)
	require.Equal(t, "ok", first.Status.String())
	assert.NotContains(t, itemIDs(first.Value.Items), "rusty_sword")

	second := s.ApplyRoomChange(c, change)
	assert.Equal(t, "ok", second.Status.String())
}

func itemIDs(items []models.ItemInstance) []string {
	out := make([]string, len(items))
	for i, it := range items {
		out[i] = it.DefinitionID
	}
	return out
}

func TestSnapshotRoundTrip(t *testing.T) {
	s := NewStore("snapshot-seed", 1, 15, 11)
	c := models.Coordinate{X: 1, Y: 1, Z: 0}
	s.GetOrGenerateRoom(c)
	s.World().PlayerAt = c

	snap := s.TakeSnapshot()

	restored := NewStore("different", 1, 15, 11)
	restored.Restore(snap)

	assert.Equal(t, snap.Seed, restored.World().Seed)
	assert.Equal(t, c, restored.World().PlayerAt)
	_, ok := restored.World().Room(c)
	assert.True(t, ok)
}
