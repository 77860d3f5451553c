package combat

import "github.com/aiwuxian/tile-crawler/internal/models"

// Encounter is the in-progress combat state carried across multiple
// requests for a single session. Rather than duplicating the enemy's stats
// into a parallel struct, Encounter just holds a pointer into the room's
// own EnemyInstance slice, since internal/world.Store never regenerates a
// room once created — the pointer stays valid for the encounter's
// lifetime.
type Encounter struct {
	Enemy    *models.EnemyInstance
	Room     models.Coordinate
	EnemyIdx int
	Turn     int
}

// Active reports whether an encounter is in progress. A nil *Encounter (no
// combat) and a zero-value Encounter both report false, so callers can
// check session.Combat.Active() without a separate nil guard.
func (e *Encounter) Active() bool {
	return e != nil && e.Enemy != nil
}
