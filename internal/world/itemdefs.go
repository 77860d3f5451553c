package world

import "github.com/aiwuxian/tile-crawler/internal/models"

// startingGear and genericConsumables are item definitions that never
// appear in a biomeSpawnTables roll but still need a definition somewhere:
// starting equipment handed to a new character, and healing/restoration
// items UseItem must recognize regardless of which biome dropped them
// (heal, restore_mana, cure_poison, buff, escape effect types).
var startingGear = []models.ItemDefinition{
	{ID: "travelers_garb", Name: "Traveler's Garb", Category: models.ItemArmor, Stats: map[string]int{"defense": 1}, MaxDurability: 30},
	{ID: "worn_dagger", Name: "Worn Dagger", Category: models.ItemWeapon, Stats: map[string]int{"attack": 1}, MaxDurability: 30},
}

var genericConsumables = []models.ItemDefinition{
	{ID: "healing_potion", Name: "Healing Potion", Category: models.ItemConsumable, Stackable: true, MaxStack: 10, Stats: map[string]int{"heal": 25}, Effects: []string{"heal"}},
	{ID: "mana_draught", Name: "Mana Draught", Category: models.ItemConsumable, Stackable: true, MaxStack: 10, Stats: map[string]int{"restore_mana": 20}, Effects: []string{"restore_mana"}},
	{ID: "antidote", Name: "Antidote", Category: models.ItemConsumable, Stackable: true, MaxStack: 10, Effects: []string{"cure_poison"}},
	{ID: "scroll_of_warding", Name: "Scroll of Warding", Category: models.ItemConsumable, Stackable: true, MaxStack: 5, Stats: map[string]int{"defense": 5}, Effects: []string{"buff_defense"}},
	{ID: "smoke_bomb", Name: "Smoke Bomb", Category: models.ItemConsumable, Stackable: true, MaxStack: 5, Effects: []string{"escape"}},
}

// ItemDefinitions returns the full item definition registry: every item
// that can drop from a biome's spawn table, plus starting gear and generic
// consumables that never spawn but still need a lookup entry for
// internal/inventory's defID-keyed operations.
func ItemDefinitions() map[string]models.ItemDefinition {
	out := make(map[string]models.ItemDefinition)
	for _, table := range biomeSpawnTables {
		for _, wi := range table.items {
			out[wi.def.ID] = wi.def
		}
	}
	for _, def := range startingGear {
		out[def.ID] = def
	}
	for _, def := range genericConsumables {
		out[def.ID] = def
	}
	return out
}
