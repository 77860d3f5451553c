// Package combat resolves attack, flee, and level-up math between a player
// and an enemy instance: dice rolls, damage, experience thresholds. Deliberately
// plain arithmetic — the interesting work in this codebase is upstream, in
// how a room or an NPC gets generated in the first place.
package combat

import (
	"math/rand"
	"time"

	"github.com/aiwuxian/tile-crawler/internal/models"
)

// Engine rolls dice and resolves checks. One Engine per process is enough;
// it holds no session-specific state.
type Engine struct {
	rng *rand.Rand
}

func NewEngine() *Engine {
	return &Engine{rng: rand.New(rand.NewSource(time.Now().UnixNano()))}
}

// CheckResult is the outcome of a D20 check against a difficulty.
type CheckResult struct {
	Roll      int
	Modifier  int
	Target    int
	Success   bool
	Critical  bool // natural 20
	Fumble    bool // natural 1
}

func (e *Engine) rollD20() int {
	return e.rng.Intn(20) + 1
}

func (e *Engine) rollDice(sides int) int {
	return e.rng.Intn(sides) + 1
}

// Check performs a D20 + modifier check against difficulty. A natural 20
// always succeeds, a natural 1 always fails.
func (e *Engine) Check(modifier, difficulty int) CheckResult {
	roll := e.rollD20()
	result := CheckResult{
		Roll:     roll,
		Modifier: modifier,
		Target:   difficulty,
		Success:  roll+modifier >= difficulty,
		Critical: roll == 20,
		Fumble:   roll == 1,
	}
	if result.Critical {
		result.Success = true
	}
	if result.Fumble {
		result.Success = false
	}
	return result
}

// AttackResult is one side's attack resolution.
type AttackResult struct {
	Damage   int
	Critical bool
}

// ResolveAttack rolls damage for an attacker striking a defender: a d6 plus
// the attacker's Attack stat, mitigated by half the defender's Defense
// (floored at 1 so an attack always does something), multiplied by the
// attacker's CritMultiplier on a crit (1.5 when that is unset).
// Crit chance is rolled from the attacker's own CombatStats rather than
// taken as a parameter, so callers never need to roll it themselves.
func (e *Engine) ResolveAttack(attacker, defender models.CombatStats) AttackResult {
	critical := e.rng.Float64() < attacker.CritChance
	damage := e.rollDice(6) + attacker.Attack - defender.Defense/2
	if damage < 1 {
		damage = 1
	}
	if critical {
		mult := attacker.CritMultiplier
		if mult <= 0 {
			mult = 1.5
		}
		damage = int(float64(damage) * mult)
	}
	return AttackResult{Damage: damage, Critical: critical}
}

// ResolvePlayerAttack applies a player's attack to an enemy, mutating the
// enemy's HP and reporting whether the blow defeated it.
func (e *Engine) ResolvePlayerAttack(p *models.Player, enemy *models.EnemyInstance) (AttackResult, bool) {
	attackerStats := models.CombatStats{
		Attack:         p.Derived.Attack,
		Defense:        p.Derived.Defense,
		CritChance:     p.Derived.CritChance,
		CritMultiplier: p.Derived.CritMultiplier,
	}
	result := e.ResolveAttack(attackerStats, enemy.Stats)
	enemy.HP -= result.Damage
	if enemy.HP < 0 {
		enemy.HP = 0
	}
	return result, enemy.HP <= 0
}

// ResolveEnemyAttack applies an enemy's attack to the player, mutating the
// player's derived HP and reporting whether the player was defeated.
func (e *Engine) ResolveEnemyAttack(enemy *models.EnemyInstance, p *models.Player) (AttackResult, bool) {
	defenderStats := models.CombatStats{Defense: p.Derived.Defense}
	result := e.ResolveAttack(enemy.Stats, defenderStats)
	p.Derived.HP -= result.Damage
	if p.Derived.HP < 0 {
		p.Derived.HP = 0
	}
	return result, p.Derived.HP <= 0
}

// FleeDifficulty is the static target for a flee check: exploration's
// baseline difficulty of 10, bumped up for an active combat encounter.
const FleeDifficulty = 12

// AttemptFlee rolls a flee check using the player's DEX as modifier.
func (e *Engine) AttemptFlee(p *models.Player) CheckResult {
	return e.Check(p.Primary.DEX, FleeDifficulty)
}

// XPForKill computes the experience a player earns for defeating enemy,
// scaled by the enemy's max HP as a stand-in for its overall threat.
func XPForKill(enemy *models.EnemyInstance) int {
	return enemy.MaxHP * 2
}

// CheckLevelUp reports whether p's current XP meets the threshold for its
// next level.
func CheckLevelUp(p *models.Player) bool {
	requiredXP := p.Level * 100
	return p.XP >= requiredXP
}

// ApplyLevelUp increments the player's level while XP remains at or above
// threshold, recomputing derived stats after each level gained. Handles
// multi-level gains from a single large XP award.
func ApplyLevelUp(p *models.Player, defs map[string]models.ItemDefinition) int {
	levelsGained := 0
	for CheckLevelUp(p) {
		p.Level++
		levelsGained++
		p.RecomputeDerived(defs)
	}
	return levelsGained
}
