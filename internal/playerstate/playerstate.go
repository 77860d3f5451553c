// Package playerstate orchestrates the player's turn-to-turn lifecycle:
// damage, healing, mana, status effects, death/respawn, and experience. It
// wraps models.Player rather than duplicating it — RecomputeDerived stays
// on the model; this package sequences the higher-level operations built on
// top of it (take damage, heal, restore mana, add/remove/process status
// effects, respawn, full rest, gain experience).
package playerstate

import (
	"fmt"

	"github.com/aiwuxian/tile-crawler/internal/combat"
	"github.com/aiwuxian/tile-crawler/internal/models"
)

// TakeDamage reduces the player's HP by amount, floored at 0, and reports
// whether the blow was fatal. Defense mitigation already happened in
// combat.ResolveAttack, so amount here is the final, already-mitigated
// damage.
func TakeDamage(p *models.Player, amount int) (died bool) {
	p.Derived.HP -= amount
	if p.Derived.HP <= 0 {
		p.Derived.HP = 0
		p.IsAlive = false
		p.Deaths++
		return true
	}
	return false
}

// Heal restores HP, capped at MaxHP.
func Heal(p *models.Player, amount int) {
	p.Derived.HP += amount
	if p.Derived.HP > p.Derived.MaxHP {
		p.Derived.HP = p.Derived.MaxHP
	}
}

// UseMana spends amount mana if available, reporting whether it succeeded.
func UseMana(p *models.Player, amount int) bool {
	if p.Derived.MP < amount {
		return false
	}
	p.Derived.MP -= amount
	return true
}

// RestoreMana restores mana, capped at MaxMP.
func RestoreMana(p *models.Player, amount int) {
	p.Derived.MP += amount
	if p.Derived.MP > p.Derived.MaxMP {
		p.Derived.MP = p.Derived.MaxMP
	}
}

// AddStatusEffect appends a new status effect and recomputes derived stats
// so stat-modifying effects (StatDeltas) take hold immediately.
func AddStatusEffect(p *models.Player, eff models.StatusEffect, defs map[string]models.ItemDefinition) {
	p.Status = append(p.Status, eff)
	p.RecomputeDerived(defs)
}

// RemoveStatusEffect removes the first status effect with the given name,
// reporting whether one was found, and recomputes derived stats.
func RemoveStatusEffect(p *models.Player, name string, defs map[string]models.ItemDefinition) bool {
	for i, eff := range p.Status {
		if eff.Name == name {
			p.Status = append(p.Status[:i], p.Status[i+1:]...)
			p.RecomputeDerived(defs)
			return true
		}
	}
	return false
}

// ProcessStatusEffects ticks every active status effect one turn, applying
// damage/healing and expiring effects whose duration ran out, and returns a
// human-readable message per effect that had a visible impact. Recomputes
// derived stats afterward since expiry can change active StatDeltas.
func ProcessStatusEffects(p *models.Player, defs map[string]models.ItemDefinition) []string {
	ticks := p.TickStatusEffects()
	messages := make([]string, 0, len(ticks))
	for _, t := range ticks {
		switch {
		case t.Damage > 0:
			messages = append(messages, fmt.Sprintf("%s deals %d damage.", t.Name, t.Damage))
		case t.Healed > 0:
			messages = append(messages, fmt.Sprintf("%s restores %d HP.", t.Name, t.Healed))
		}
		if t.Expired {
			messages = append(messages, fmt.Sprintf("%s wears off.", t.Name))
		}
	}
	p.RecomputeDerived(defs)
	if p.Derived.HP <= 0 {
		p.IsAlive = false
		p.Deaths++
	}
	return messages
}

// Respawn revives the player at half HP/mana, clears status effects, and
// marks them alive again: coming back weakened, not at full strength.
func Respawn(p *models.Player, defs map[string]models.ItemDefinition) {
	p.Status = nil
	p.RecomputeDerived(defs)
	p.Derived.HP = p.Derived.MaxHP / 2
	p.Derived.MP = p.Derived.MaxMP / 2
	if p.Derived.HP < 1 {
		p.Derived.HP = 1
	}
	p.IsAlive = true
}

// FullRest restores HP and mana to maximum and clears status effects, for
// long-rest and safe-room actions.
func FullRest(p *models.Player, defs map[string]models.ItemDefinition) {
	p.Status = nil
	p.RecomputeDerived(defs)
	p.Derived.HP = p.Derived.MaxHP
	p.Derived.MP = p.Derived.MaxMP
}

// RecordEnemyDefeated increments the run-level kill counter.
func RecordEnemyDefeated(p *models.Player) {
	p.EnemiesDefeated++
}

// RecordStep increments the run-level step counter.
func RecordStep(p *models.Player) {
	p.StepsTaken++
}

// GainExperience awards XP and applies any level-ups earned, reusing
// combat.ApplyLevelUp's Level*100 threshold so every XP source (kill
// reward, quest turn-in, exploration bonus) shares one leveling curve
// instead of each computing its own. Returns the number of levels gained.
func GainExperience(p *models.Player, amount int, defs map[string]models.ItemDefinition) int {
	p.XP += amount
	return combat.ApplyLevelUp(p, defs)
}
