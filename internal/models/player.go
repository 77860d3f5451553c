package models

// PrimaryStats are the six raw attributes every player has.
type PrimaryStats struct {
	STR, DEX, CON, INT, WIS, CHA int
}

// DerivedStats are computed from PrimaryStats, equipment, level, and active
// status effects. Recomputed whenever any of those inputs change.
type DerivedStats struct {
	HP, MaxHP      int
	MP, MaxMP      int
	Attack         int
	Defense        int
	CritChance     float64
	CritMultiplier float64
}

// StatusEffect is a timed modifier applied to a player (poison, blessing,
// exhaustion, ...).
type StatusEffect struct {
	Name        string
	TurnsRemaining int
	StatDeltas  map[string]int
	DamagePerTurn int
	HealPerTurn int
}

// EquipmentSlot names a gear slot.
type EquipmentSlot string

const (
	SlotWeapon EquipmentSlot = "weapon"
	SlotArmor  EquipmentSlot = "armor"
	SlotRing1  EquipmentSlot = "ring1"
	SlotRing2  EquipmentSlot = "ring2"
	SlotAmulet EquipmentSlot = "amulet"
)

// Player is the player character's full state.
type Player struct {
	Name       string
	Class      string
	Level      int
	XP         int
	Primary    PrimaryStats
	Derived    DerivedStats
	Equipment  map[EquipmentSlot]ItemInstance
	Inventory  []ItemInstance
	Gold       int
	Status     []StatusEffect
	Coordinate Coordinate
	Facing     Direction

	// Run-level counters used by the player-summary and respawn flow.
	IsAlive         bool
	Deaths          int
	EnemiesDefeated int
	StepsTaken      int
}

// RecomputeDerived recalculates HP/MP/attack/defense/crit from primary
// stats, equipment, and active status effects, preserving current HP/MP
// proportionally when max values change.
func (p *Player) RecomputeDerived(defs map[string]ItemDefinition) {
	maxHP := 10 + p.Primary.CON*4 + (p.Level-1)*6
	maxMP := 5 + p.Primary.INT*3 + (p.Level-1)*3
	attack := p.Primary.STR*2 + p.Level
	defense := p.Primary.CON + p.Primary.DEX/2
	crit := 0.05 + float64(p.Primary.DEX)*0.002
	critMult := 1.5

	for _, inst := range p.Equipment {
		def, ok := defs[inst.DefinitionID]
		if !ok {
			continue
		}
		attack += def.Stats["attack"]
		defense += def.Stats["defense"]
		maxHP += def.Stats["max_hp"]
		maxMP += def.Stats["max_mp"]
	}

	for _, eff := range p.Status {
		attack += eff.StatDeltas["attack"]
		defense += eff.StatDeltas["defense"]
		maxHP += eff.StatDeltas["max_hp"]
	}

	if p.Derived.MaxHP > 0 {
		ratio := float64(p.Derived.HP) / float64(p.Derived.MaxHP)
		p.Derived.HP = int(ratio * float64(maxHP))
	} else {
		p.Derived.HP = maxHP
	}
	if p.Derived.MaxMP > 0 {
		ratio := float64(p.Derived.MP) / float64(p.Derived.MaxMP)
		p.Derived.MP = int(ratio * float64(maxMP))
	} else {
		p.Derived.MP = maxMP
	}

	p.Derived.MaxHP = maxHP
	p.Derived.MaxMP = maxMP
	p.Derived.Attack = attack
	p.Derived.Defense = defense
	p.Derived.CritChance = crit
	p.Derived.CritMultiplier = critMult

	if p.Derived.HP > p.Derived.MaxHP {
		p.Derived.HP = p.Derived.MaxHP
	}
	if p.Derived.MP > p.Derived.MaxMP {
		p.Derived.MP = p.Derived.MaxMP
	}
}

// StatusTick is the per-effect result of one TickStatusEffects call, used
// to surface a message like "Poison deals 3 damage." to the caller.
type StatusTick struct {
	Name    string
	Damage  int
	Healed  int
	Expired bool
}

// TickStatusEffects applies one turn of damage-over-time and heal-over-time
// to the player, expiring effects whose duration has elapsed. Mirrors
// player_state.py's process_status_effects, which ticks both dot and hot
// effects in the same pass and reports a message per effect.
func (p *Player) TickStatusEffects() []StatusTick {
	var ticks []StatusTick
	var remaining []StatusEffect
	for _, eff := range p.Status {
		tick := StatusTick{Name: eff.Name, Damage: eff.DamagePerTurn, Healed: eff.HealPerTurn}
		p.Derived.HP -= eff.DamagePerTurn
		p.Derived.HP += eff.HealPerTurn
		eff.TurnsRemaining--
		if eff.TurnsRemaining > 0 {
			remaining = append(remaining, eff)
		} else {
			tick.Expired = true
		}
		ticks = append(ticks, tick)
	}
	p.Status = remaining
	if p.Derived.HP < 0 {
		p.Derived.HP = 0
	}
	if p.Derived.HP > p.Derived.MaxHP {
		p.Derived.HP = p.Derived.MaxHP
	}
	return ticks
}
