package models

// ItemCategory classifies an item definition.
type ItemCategory string

const (
	ItemWeapon     ItemCategory = "weapon"
	ItemArmor      ItemCategory = "armor"
	ItemConsumable ItemCategory = "consumable"
	ItemQuest      ItemCategory = "quest"
	ItemKey        ItemCategory = "key"
	ItemMisc       ItemCategory = "misc"
)

// ItemDefinition is the immutable template an ItemInstance references.
type ItemDefinition struct {
	ID          string
	Name        string
	Category    ItemCategory
	Stackable   bool
	MaxStack    int
	MaxDurability int
	Stats       map[string]int
	Effects     []string
	Rarity      string
}

// ItemInstance is a concrete item reference carried by a room or inventory
// slot. Stack, durability, and enchantments are instance-level state layered
// on top of the immutable ItemDefinition.
type ItemInstance struct {
	DefinitionID string
	Quantity     int
	Durability   int
	Enchantments []string
}

// StackKey returns the key used to decide whether two item instances may
// stack together: same definition and identical enchantment signature.
func (i ItemInstance) StackKey() string {
	key := i.DefinitionID
	for _, e := range i.Enchantments {
		key += "|" + e
	}
	return key
}

// AIType selects an enemy's combat behavior profile.
type AIType string

const (
	AIAggressive AIType = "aggressive"
	AIDefensive  AIType = "defensive"
	AISkittish   AIType = "skittish"
	AIPack       AIType = "pack"
	AIBoss       AIType = "boss"
)

// CombatStats are the numbers combat resolution reads from.
type CombatStats struct {
	Attack       int
	Defense      int
	CritChance   float64
	CritMultiplier float64
}

// EnemyInstance is a live enemy placed within a room.
type EnemyInstance struct {
	ID          string
	Name        string
	HP, MaxHP   int
	Stats       CombatStats
	AIType      AIType
	Faction     string
	X, Y        int // position within the room grid
}

// NPCPersonality describes an NPC's conversational character.
type NPCPersonality struct {
	Traits       []string
	SpeechStyle  string
	Goals        []string
	KnowledgeFacts []string
	Relationship int // -100..+100 toward the player
}

// NPCMemoryEntry is one bounded record of a past player interaction. NPCs
// reference events by id, never by pointer, so storage stays two flat
// registries (events, NPCs) indexed by id rather than a cyclic graph.
type NPCMemoryEntry struct {
	EventID string
	Summary string
}

// NPCInstance is a live, persistent (for the room's lifetime) non-player
// character.
type NPCInstance struct {
	ID          string
	Name        string
	HP, MaxHP   int
	Stats       CombatStats
	Personality NPCPersonality
	Faction     string
	X, Y        int
	Memory      []NPCMemoryEntry // bounded, oldest trimmed first
}

const maxNPCMemory = 20

// RememberInteraction appends a bounded memory entry, trimming the oldest
// when the cap is exceeded.
func (n *NPCInstance) RememberInteraction(eventID, summary string) {
	n.Memory = append(n.Memory, NPCMemoryEntry{EventID: eventID, Summary: summary})
	if len(n.Memory) > maxNPCMemory {
		n.Memory = n.Memory[len(n.Memory)-maxNPCMemory:]
	}
}
