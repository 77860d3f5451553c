package world

import (
	"fmt"
	"math/rand"

	"github.com/aiwuxian/tile-crawler/internal/models"
)

// spawnTable lists the item/enemy kinds a biome favors, with relative
// weights, keyed per-biome rather than per-floor-depth only.
type spawnTable struct {
	items  []weightedItem
	enemies []weightedEnemy
}

type weightedItem struct {
	def    models.ItemDefinition
	weight int
}

type weightedEnemy struct {
	name    string
	aiType  models.AIType
	weight  int
}

var biomeSpawnTables = map[models.Biome]spawnTable{
	models.BiomeDungeon: {
		items: []weightedItem{
			{models.ItemDefinition{ID: "rusty_sword", Name: "Rusty Sword", Category: models.ItemWeapon, Stats: map[string]int{"attack": 3}, MaxDurability: 20}, 3},
			{models.ItemDefinition{ID: "stale_bread", Name: "Stale Bread", Category: models.ItemConsumable, Stackable: true, MaxStack: 10, Stats: map[string]int{"heal": 5}}, 4},
			{models.ItemDefinition{ID: "gold_pouch", Name: "Gold Pouch", Category: models.ItemMisc}, 3},
		},
		enemies: []weightedEnemy{
			{"Dungeon Rat", models.AIPack, 4},
			{"Skeleton Guard", models.AIAggressive, 3},
		},
	},
	models.BiomeCave: {
		items: []weightedItem{
			{models.ItemDefinition{ID: "glowing_mushroom", Name: "Glowing Mushroom", Category: models.ItemConsumable, Stackable: true, MaxStack: 20, Stats: map[string]int{"heal": 3}}, 5},
			{models.ItemDefinition{ID: "cave_crystal", Name: "Cave Crystal", Category: models.ItemMisc}, 2},
		},
		enemies: []weightedEnemy{
			{"Cave Bat", models.AISkittish, 5},
			{"Giant Spider", models.AIAggressive, 2},
		},
	},
	models.BiomeCrypt: {
		items: []weightedItem{
			{models.ItemDefinition{ID: "bone_dust", Name: "Bone Dust", Category: models.ItemMisc}, 3},
			{models.ItemDefinition{ID: "tarnished_amulet", Name: "Tarnished Amulet", Category: models.ItemArmor, Stats: map[string]int{"defense": 2}, MaxDurability: 15}, 2},
		},
		enemies: []weightedEnemy{
			{"Restless Spirit", models.AIDefensive, 3},
			{"Crypt Warden", models.AIBoss, 1},
		},
	},
	models.BiomeRuins: {
		items: []weightedItem{
			{models.ItemDefinition{ID: "ancient_coin", Name: "Ancient Coin", Category: models.ItemMisc}, 4},
			{models.ItemDefinition{ID: "cracked_tome", Name: "Cracked Tome", Category: models.ItemQuest}, 1},
		},
		enemies: []weightedEnemy{
			{"Stone Sentinel", models.AIDefensive, 2},
			{"Ruin Stalker", models.AIAggressive, 3},
		},
	},
	models.BiomeTemple: {
		items: []weightedItem{
			{models.ItemDefinition{ID: "blessed_vial", Name: "Blessed Vial", Category: models.ItemConsumable, Stackable: true, MaxStack: 5, Stats: map[string]int{"heal": 10}}, 3},
			{models.ItemDefinition{ID: "temple_relic", Name: "Temple Relic", Category: models.ItemQuest}, 1},
		},
		enemies: []weightedEnemy{
			{"Temple Acolyte", models.AIDefensive, 3},
			{"Zealot Guard", models.AIAggressive, 2},
		},
	},
	models.BiomeVolcano: {
		items: []weightedItem{
			{models.ItemDefinition{ID: "obsidian_shard", Name: "Obsidian Shard", Category: models.ItemMisc}, 3},
			{models.ItemDefinition{ID: "fireproof_cloak", Name: "Fireproof Cloak", Category: models.ItemArmor, Stats: map[string]int{"defense": 4}, MaxDurability: 25}, 1},
		},
		enemies: []weightedEnemy{
			{"Magma Hound", models.AIAggressive, 3},
			{"Ember Wisp", models.AISkittish, 2},
		},
	},
	models.BiomeVoid: {
		items:   nil,
		enemies: nil,
	},
}

// PlaceSpawns rolls items and enemies from the biome's spawn table and the
// difficulty scale. Enemies are placed on random walkable floor tiles of
// grid and carry their (x,y); items carry no position. Does not touch the grid
// itself; glyphs for entities/items are stamped by the caller once
// placement is final.
func PlaceSpawns(rng *rand.Rand, biome models.Biome, grid models.Grid, zoneLevel, playerLevel int) ([]models.ItemInstance, []models.EnemyInstance) {
	table := biomeSpawnTables[biome]
	if len(table.items) == 0 && len(table.enemies) == 0 {
		return nil, nil
	}

	floors := walkableTiles(grid)
	if len(floors) == 0 {
		return nil, nil
	}

	scale := DifficultyScale(zoneLevel, playerLevel)

	itemCount := rng.Intn(3)
	var items []models.ItemInstance
	for i := 0; i < itemCount && len(floors) > 0; i++ {
		def := pickItem(rng, table.items)
		if def == nil {
			break
		}
		qty := 1
		if def.Stackable {
			qty = 1 + rng.Intn(3)
		}
		items = append(items, models.ItemInstance{DefinitionID: def.ID, Quantity: qty, Durability: def.MaxDurability})
	}

	enemyCount := int(1 + float64(rng.Intn(2))*scale)
	if enemyCount > len(floors) {
		enemyCount = len(floors)
	}
	var enemies []models.EnemyInstance
	for i := 0; i < enemyCount; i++ {
		we := pickEnemy(rng, table.enemies)
		if we == nil {
			break
		}
		pos := floors[rng.Intn(len(floors))]
		hp := int(20 * scale)
		enemies = append(enemies, models.EnemyInstance{
			ID:     fmt.Sprintf("%s-%d-%d", we.name, pos[0], pos[1]),
			Name:   we.name,
			HP:     hp,
			MaxHP:  hp,
			AIType: we.aiType,
			Stats: models.CombatStats{
				Attack:         int(5 * scale),
				Defense:        int(2 * scale),
				CritChance:     0.05,
				CritMultiplier: 1.5,
			},
			X: pos[0],
			Y: pos[1],
		})
	}

	return items, enemies
}

func walkableTiles(grid models.Grid) [][2]int {
	legend := models.DefaultLegend()
	width, height := grid.Dimensions()
	var out [][2]int
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			if legend.Walkable(grid[y][x]) {
				out = append(out, [2]int{x, y})
			}
		}
	}
	return out
}

func pickItem(rng *rand.Rand, items []weightedItem) *models.ItemDefinition {
	if len(items) == 0 {
		return nil
	}
	total := 0
	for _, it := range items {
		total += it.weight
	}
	roll := rng.Intn(total)
	for _, it := range items {
		if roll < it.weight {
			def := it.def
			return &def
		}
		roll -= it.weight
	}
	return &items[len(items)-1].def
}

func pickEnemy(rng *rand.Rand, enemies []weightedEnemy) *weightedEnemy {
	if len(enemies) == 0 {
		return nil
	}
	total := 0
	for _, e := range enemies {
		total += e.weight
	}
	roll := rng.Intn(total)
	for _, e := range enemies {
		if roll < e.weight {
			return &e
		}
		roll -= e.weight
	}
	return &enemies[len(enemies)-1]
}
