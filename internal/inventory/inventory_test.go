package inventory

import (
	"testing"

	"github.com/aiwuxian/tile-crawler/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testDefs() map[string]models.ItemDefinition {
	return map[string]models.ItemDefinition{
		"torch": {
			ID: "torch", Name: "Torch", Category: models.ItemMisc,
			Stackable: true, MaxStack: 10,
		},
		"healing_potion": {
			ID: "healing_potion", Name: "Healing Potion", Category: models.ItemConsumable,
			Stackable: true, MaxStack: 10,
		},
		"iron_sword": {
			ID: "iron_sword", Name: "Iron Sword", Category: models.ItemWeapon,
			Stackable: false, MaxDurability: 3, Stats: map[string]int{"attack": 5},
		},
	}
}

func TestAddItemCreatesNewStack(t *testing.T) {
	p := &models.Player{}
	ok, msg := AddItem(p, testDefs(), "torch", 2, nil)
	assert.True(t, ok)
	assert.Contains(t, msg, "Torch")
	require.Len(t, p.Inventory, 1)
	assert.Equal(t, 2, p.Inventory[0].Quantity)
}

func TestAddItemMergesIntoExistingStack(t *testing.T) {
	p := &models.Player{}
	AddItem(p, testDefs(), "torch", 2, nil)
	AddItem(p, testDefs(), "torch", 3, nil)
	require.Len(t, p.Inventory, 1)
	assert.Equal(t, 5, p.Inventory[0].Quantity)
}

func TestAddItemRespectsMaxStack(t *testing.T) {
	p := &models.Player{}
	AddItem(p, testDefs(), "torch", 9, nil)
	ok, msg := AddItem(p, testDefs(), "torch", 5, nil)
	assert.True(t, ok, "partial add still succeeds")
	assert.Contains(t, msg, "stack full")
	assert.Equal(t, 10, p.Inventory[0].Quantity)
}

func TestAddItemDifferentEnchantmentsDoNotStackTogether(t *testing.T) {
	p := &models.Player{}
	AddItem(p, testDefs(), "iron_sword", 1, nil)
	AddItem(p, testDefs(), "iron_sword", 1, []string{"flaming"})
	assert.Len(t, p.Inventory, 2, "distinct enchantment signatures must occupy separate slots")
}

func TestAddItemFailsWhenInventoryFull(t *testing.T) {
	p := &models.Player{}
	defs := testDefs()
	for i := 0; i < MaxSlots; i++ {
		p.Inventory = append(p.Inventory, models.ItemInstance{DefinitionID: "slot", Enchantments: []string{string(rune('a' + i))}})
	}
	ok, msg := AddItem(p, defs, "torch", 1, nil)
	assert.False(t, ok)
	assert.Contains(t, msg, "full")
}

func TestRemoveItemPartialAndFull(t *testing.T) {
	p := &models.Player{}
	defs := testDefs()
	AddItem(p, defs, "torch", 3, nil)

	ok, _ := RemoveItem(p, defs, "torch", 1)
	assert.True(t, ok)
	assert.Equal(t, 2, p.Inventory[0].Quantity)

	ok, _ = RemoveItem(p, defs, "torch", 2)
	assert.True(t, ok)
	assert.Empty(t, p.Inventory)
}

func TestRemoveItemFailsWhenEquipped(t *testing.T) {
	p := &models.Player{}
	defs := testDefs()
	AddItem(p, defs, "iron_sword", 1, nil)
	EquipItem(p, defs, "iron_sword", models.SlotWeapon)

	ok, msg := RemoveItem(p, defs, "iron_sword", 1)
	assert.False(t, ok)
	assert.Contains(t, msg, "equipped")
}

func TestUseItemConsumesConsumable(t *testing.T) {
	p := &models.Player{}
	defs := testDefs()
	AddItem(p, defs, "healing_potion", 1, nil)

	ok, _ := UseItem(p, defs, "healing_potion")
	assert.True(t, ok)
	assert.Empty(t, p.Inventory)
}

func TestUseItemDecaysDurabilityAndBreaksAtZero(t *testing.T) {
	p := &models.Player{}
	defs := testDefs()
	AddItem(p, defs, "iron_sword", 1, nil)
	EquipItem(p, defs, "iron_sword", models.SlotWeapon)

	for i := 0; i < 2; i++ {
		ok, msg := UseItem(p, defs, "iron_sword")
		require.True(t, ok)
		assert.Contains(t, msg, "wear")
	}
	ok, msg := UseItem(p, defs, "iron_sword")
	assert.True(t, ok)
	assert.Contains(t, msg, "breaks")
	_, stillEquipped := p.Equipment[models.SlotWeapon]
	assert.False(t, stillEquipped)
}

func TestEquipAndUnequipRoundTrip(t *testing.T) {
	p := &models.Player{}
	defs := testDefs()
	AddItem(p, defs, "iron_sword", 1, nil)

	ok, _ := EquipItem(p, defs, "iron_sword", models.SlotWeapon)
	require.True(t, ok)
	assert.Empty(t, p.Inventory)
	assert.Equal(t, "iron_sword", p.Equipment[models.SlotWeapon].DefinitionID)

	ok, _ = UnequipItem(p, models.SlotWeapon)
	require.True(t, ok)
	assert.Len(t, p.Inventory, 1)
	_, stillEquipped := p.Equipment[models.SlotWeapon]
	assert.False(t, stillEquipped)
}

func TestHasItemReflectsQuantity(t *testing.T) {
	p := &models.Player{}
	defs := testDefs()
	AddItem(p, defs, "torch", 2, nil)
	assert.True(t, HasItem(p, "torch", 2))
	assert.False(t, HasItem(p, "torch", 3))
}

func TestGoldAddAndRemove(t *testing.T) {
	p := &models.Player{}
	AddGold(p, 50)
	assert.Equal(t, 50, p.Gold)

	assert.False(t, RemoveGold(p, 100))
	assert.True(t, RemoveGold(p, 50))
	assert.Equal(t, 0, p.Gold)
}

func TestSummaryReflectsEmptyAndPopulatedInventory(t *testing.T) {
	p := &models.Player{}
	assert.Equal(t, "empty inventory", Summary(p, testDefs()))

	AddGold(p, 10)
	AddItem(p, testDefs(), "torch", 2, nil)
	summary := Summary(p, testDefs())
	assert.Contains(t, summary, "gold: 10")
	assert.Contains(t, summary, "Torch")
}
