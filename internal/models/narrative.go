package models

import "encoding/json"

// EventKind classifies a narrative event.
type EventKind string

const (
	EventRoomEntered    EventKind = "room_entered"
	EventCombatResolved EventKind = "combat_resolved"
	EventNPCInteraction EventKind = "npc_interaction"
	EventItemAcquired   EventKind = "item_acquired"
	EventQuestUpdated   EventKind = "quest_updated"
	EventDeath          EventKind = "death"
	EventDiscovery      EventKind = "discovery"
)

// NarrativeEvent is a single append-only record of something meaningful
// that happened. Events are immortal: archived into the long-term summary
// but never deleted.
type NarrativeEvent struct {
	Turn    int
	Kind    EventKind
	Summary string
	Payload json.RawMessage
}
