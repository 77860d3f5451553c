// Package inventory manages a player's carried items, equipment, and gold:
// adding and removing items, using consumables, equipping and unequipping
// gear, earning and spending gold. Stacking is keyed on item id *and*
// enchantment signature (models.ItemInstance.StackKey) rather than item id
// alone, so two enchanted copies of the same base item never silently
// merge, and non-consumable equipment decays durability on use. Every
// function takes and mutates a *models.Player directly rather than holding
// its own copy of state, consistent with internal/playerstate's style.
package inventory

import (
	"strconv"

	"github.com/aiwuxian/tile-crawler/internal/models"
)

// MaxSlots is the default inventory capacity.
const MaxSlots = 20

func findDef(defs map[string]models.ItemDefinition, id string) (models.ItemDefinition, bool) {
	d, ok := defs[id]
	return d, ok
}

func findStack(p *models.Player, key string) (int, bool) {
	for i, inst := range p.Inventory {
		if inst.StackKey() == key {
			return i, true
		}
	}
	return 0, false
}

// AddItem adds quantity of the item definition defID to the player's
// inventory, merging into an existing stack with a matching StackKey when
// the definition is stackable, splitting across the stack cap otherwise.
// Reports one of three outcomes as a message: merged, partially merged
// (stack full), or a brand-new slot.
func AddItem(p *models.Player, defs map[string]models.ItemDefinition, defID string, quantity int, enchantments []string) (bool, string) {
	def, ok := findDef(defs, defID)
	if !ok {
		return false, "unknown item"
	}
	candidate := models.ItemInstance{DefinitionID: defID, Enchantments: enchantments}
	key := candidate.StackKey()

	if def.Stackable {
		if i, found := findStack(p, key); found {
			existing := &p.Inventory[i]
			room := def.MaxStack - existing.Quantity
			if room <= 0 {
				return false, "cannot carry more " + def.Name + " (stack full)"
			}
			added := quantity
			if added > room {
				added = room
			}
			existing.Quantity += added
			if added < quantity {
				return true, "added " + strconv.Itoa(added) + "x " + def.Name + " (stack full)"
			}
			return true, "added " + strconv.Itoa(added) + "x " + def.Name
		}
	}

	if len(p.Inventory) >= MaxSlots {
		return false, "inventory is full"
	}

	p.Inventory = append(p.Inventory, models.ItemInstance{
		DefinitionID: defID,
		Quantity:     quantity,
		Durability:   def.MaxDurability,
		Enchantments: enchantments,
	})
	return true, "picked up " + def.Name
}

// RemoveItem removes quantity of defID (matched by StackKey, no
// enchantments) from the inventory, failing if the item is equipped or the
// quantity on hand is insufficient.
func RemoveItem(p *models.Player, defs map[string]models.ItemDefinition, defID string, quantity int) (bool, string) {
	def, _ := findDef(defs, defID)
	if isEquipped(p, defID) {
		return false, "cannot remove " + def.Name + " while equipped"
	}
	key := (models.ItemInstance{DefinitionID: defID}).StackKey()
	i, found := findStack(p, key)
	if !found {
		return false, "item not in inventory"
	}

	inst := &p.Inventory[i]
	switch {
	case inst.Quantity > quantity:
		inst.Quantity -= quantity
		return true, "removed " + strconv.Itoa(quantity) + "x " + def.Name
	case inst.Quantity == quantity:
		p.Inventory = append(p.Inventory[:i], p.Inventory[i+1:]...)
		return true, "removed " + def.Name
	default:
		return false, "not enough " + def.Name
	}
}

func isEquipped(p *models.Player, defID string) bool {
	for _, inst := range p.Equipment {
		if inst.DefinitionID == defID {
			return true
		}
	}
	return false
}

// UseItem consumes one unit of a consumable/scroll item, or decays the
// durability of an equipped item by one (destroying and unequipping it if
// durability hits zero).
func UseItem(p *models.Player, defs map[string]models.ItemDefinition, defID string) (bool, string) {
	def, ok := findDef(defs, defID)
	if !ok {
		return false, "item not in inventory"
	}

	if def.Category == models.ItemConsumable {
		ok, msg := RemoveItem(p, defs, defID, 1)
		if !ok {
			return false, msg
		}
		return true, "used " + def.Name
	}

	if isEquipped(p, defID) && def.MaxDurability > 0 {
		for slot, inst := range p.Equipment {
			if inst.DefinitionID != defID {
				continue
			}
			inst.Durability--
			if inst.Durability <= 0 {
				delete(p.Equipment, slot)
				return true, def.Name + " breaks and falls apart"
			}
			p.Equipment[slot] = inst
			return true, def.Name + " takes wear"
		}
	}

	return false, "cannot use " + def.Name
}

// EquipItem moves an inventory item into its equipment slot, unequipping
// whatever already occupies that slot first.
func EquipItem(p *models.Player, defs map[string]models.ItemDefinition, defID string, slot models.EquipmentSlot) (bool, string) {
	def, ok := findDef(defs, defID)
	if !ok {
		return false, "item not in inventory"
	}
	key := (models.ItemInstance{DefinitionID: defID}).StackKey()
	i, found := findStack(p, key)
	if !found {
		return false, "item not in inventory"
	}

	if current, occupied := p.Equipment[slot]; occupied {
		UnequipItem(p, slot)
		_ = current
	}
	if p.Equipment == nil {
		p.Equipment = make(map[models.EquipmentSlot]models.ItemInstance)
	}

	inst := p.Inventory[i]
	inst.Quantity = 1
	p.Equipment[slot] = inst
	p.Inventory[i].Quantity--
	if p.Inventory[i].Quantity <= 0 {
		p.Inventory = append(p.Inventory[:i], p.Inventory[i+1:]...)
	}
	return true, "equipped " + def.Name
}

// UnequipItem returns the item in slot to the inventory, merging into an
// existing matching stack when possible.
func UnequipItem(p *models.Player, slot models.EquipmentSlot) (bool, string) {
	inst, ok := p.Equipment[slot]
	if !ok {
		return false, "nothing equipped in that slot"
	}
	delete(p.Equipment, slot)

	if i, found := findStack(p, inst.StackKey()); found {
		p.Inventory[i].Quantity += inst.Quantity
	} else {
		p.Inventory = append(p.Inventory, inst)
	}
	return true, "unequipped"
}

// HasItem reports whether the player carries at least quantity of defID.
func HasItem(p *models.Player, defID string, quantity int) bool {
	key := (models.ItemInstance{DefinitionID: defID}).StackKey()
	i, found := findStack(p, key)
	if !found {
		return false
	}
	return p.Inventory[i].Quantity >= quantity
}

// AddGold adds amount to the player's purse.
func AddGold(p *models.Player, amount int) {
	p.Gold += amount
}

// RemoveGold spends amount from the player's purse, failing if insufficient.
func RemoveGold(p *models.Player, amount int) bool {
	if p.Gold < amount {
		return false
	}
	p.Gold -= amount
	return true
}

// Summary renders a short text description of the inventory for narrative
// context assembly.
func Summary(p *models.Player, defs map[string]models.ItemDefinition) string {
	if len(p.Inventory) == 0 {
		return "empty inventory"
	}
	out := "gold: " + strconv.Itoa(p.Gold)
	for _, inst := range p.Inventory {
		def, ok := findDef(defs, inst.DefinitionID)
		name := inst.DefinitionID
		if ok {
			name = def.Name
		}
		out += "\n- " + name
		if inst.Quantity > 1 {
			out += " x" + strconv.Itoa(inst.Quantity)
		}
	}
	return out
}

