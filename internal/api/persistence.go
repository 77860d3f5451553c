package api

import (
	"github.com/aiwuxian/tile-crawler/internal/models"
	"github.com/aiwuxian/tile-crawler/internal/storage"
	"github.com/aiwuxian/tile-crawler/internal/world"
)

// BuildSavePayload captures everything storage.Save needs to later restore
// this session: both state-store snapshots, the player, and any in-flight
// quest or dialogue. Combat is deliberately excluded — an in-progress
// encounter is a transient per-turn thing here, not something a save
// round-trips.
func (e *Engine) BuildSavePayload() storage.Payload {
	return storage.Payload{
		PlayerName:        e.Session.Player.Name,
		World:             e.Session.World.TakeSnapshot(),
		Narrative:         e.Session.Narrative.TakeSnapshot(),
		Player:            e.Session.Player,
		Quest:             e.Session.CurrentQuest,
		ActiveDialogueNPC: e.Session.ActiveDialogueNPC,
		PlaytimeSeconds:   int64(e.Session.Age().Seconds()),
	}
}

// BuildEmergencyPayload captures a reduced-fidelity snapshot cheap enough to
// write on every periodic autosave tick: the world seed and player
// coordinate rather than the full generated room map, since GenerateRoom's
// deterministic seeding reproduces the same rooms on demand from just those
// two fields.
func (e *Engine) BuildEmergencyPayload() storage.Payload {
	full := e.Session.World.TakeSnapshot()
	return storage.Payload{
		PlayerName: e.Session.Player.Name,
		World: world.Snapshot{
			Seed:     full.Seed,
			PlayerAt: full.PlayerAt,
		},
		Narrative:         e.Session.Narrative.TakeSnapshot(),
		Player:            e.Session.Player,
		Quest:             e.Session.CurrentQuest,
		ActiveDialogueNPC: e.Session.ActiveDialogueNPC,
		PlaytimeSeconds:   int64(e.Session.Age().Seconds()),
	}
}

// RestoreFromPayload rehydrates the session from a full-fidelity save.
func (e *Engine) RestoreFromPayload(p storage.Payload) {
	e.Session.World.Restore(p.World)
	e.Session.Narrative.Restore(p.Narrative)
	e.Session.Player = p.Player
	e.Session.CurrentQuest = p.Quest
	e.Session.ActiveDialogueNPC = p.ActiveDialogueNPC
	e.Session.Combat = nil
}

// RestoreEmergency rehydrates from a reduced-fidelity autosave: the room
// map itself is not restored, only the world seed and player position —
// GenerateRoom's deterministic seeding reproduces the same rooms on demand,
// so an emergency save only needs to be big enough to get the player back
// to the right coordinate in the right world.
func (e *Engine) RestoreEmergency(p storage.Payload) {
	e.Session.World.Restore(world.Snapshot{
		Seed:       p.World.Seed,
		PlayerAt:   p.World.PlayerAt,
		Rooms:      map[string]*models.Room{},
		Discovered: map[string]bool{},
	})
	e.Session.Narrative.Restore(p.Narrative)
	e.Session.Player = p.Player
	e.Session.CurrentQuest = p.Quest
	e.Session.Combat = nil
}
