// Package session owns one bundle of state per player session: one
// authoritative world, one narrative memory, one response cache, serialized
// behind the session's own mutex. Nothing here is ever shared across
// sessions or reachable from a package-level variable.
package session

import (
	"context"
	"sync"
	"time"

	"github.com/aiwuxian/tile-crawler/internal/cache"
	"github.com/aiwuxian/tile-crawler/internal/combat"
	"github.com/aiwuxian/tile-crawler/internal/eventstream"
	"github.com/aiwuxian/tile-crawler/internal/models"
	"github.com/aiwuxian/tile-crawler/internal/narrative"
	"github.com/aiwuxian/tile-crawler/internal/router"
	"github.com/aiwuxian/tile-crawler/internal/scheduler"
	"github.com/aiwuxian/tile-crawler/internal/world"
)

// Session is one player's isolated game state: the World State Store,
// Narrative Memory, Response Cache, Request Router, Prefetch Scheduler, and
// outbound event Hub all scoped to this session alone. Nothing here is
// ever shared across sessions or reachable from a package-level variable.
type Session struct {
	ID         string
	World      *world.Store
	Narrative  *narrative.Memory
	Cache      *cache.Cache
	Router     *router.Router
	Scheduler  *scheduler.Scheduler
	Events     *eventstream.Hub
	Player     *models.Player

	// Combat holds the in-progress encounter, if any. Non-nil only while
	// Combat.Active() is true; cleared to nil on victory, defeat, or a
	// successful flee.
	Combat *combat.Encounter

	// CurrentQuest, ActiveDialogueNPC track single-threaded interaction
	// state the way Combat does: at most one runs at a time per session,
	// reset once it resolves.
	CurrentQuest      *models.Quest
	ActiveDialogueNPC string

	schedCtx  context.Context
	schedStop context.CancelFunc

	autosaveStop context.CancelFunc

	mu             sync.Mutex
	createdAt      time.Time
	lastAccessedAt time.Time
}

// Touch updates the session's last-accessed timestamp, used by the Manager
// to find sessions eligible for cleanup.
func (s *Session) Touch() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastAccessedAt = time.Now()
}

// IsExpired reports whether the session has been inactive longer than
// timeout.
func (s *Session) IsExpired(timeout time.Duration) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return time.Since(s.lastAccessedAt) > timeout
}

// Age reports how long the session has existed, for playtime accounting in
// save payloads.
func (s *Session) Age() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return time.Since(s.createdAt)
}

// StartScheduler launches the session's Prefetch Scheduler drain loop in
// its own goroutine, bound to the session's lifetime. Safe to call once;
// Stop cancels it. concurrency is the scheduler's bounded worker count.
func (s *Session) StartScheduler(parent context.Context, concurrency int, handle scheduler.Handler) {
	s.schedCtx, s.schedStop = context.WithCancel(parent)
	go func() {
		_ = s.Scheduler.Run(s.schedCtx, concurrency, handle)
	}()
}

// StartAutosave launches a ticker that invokes save every interval until the
// session is stopped. save is expected to write a reduced-fidelity
// emergency payload; the session itself holds no opinion on what gets
// saved or where.
func (s *Session) StartAutosave(parent context.Context, interval time.Duration, save func()) {
	if interval <= 0 {
		return
	}
	ctx, cancel := context.WithCancel(parent)
	s.autosaveStop = cancel
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				save()
			}
		}
	}()
}

// Stop cancels the session's background scheduler and autosave loops.
// Idempotent.
func (s *Session) Stop() {
	if s.schedStop != nil {
		s.schedStop()
	}
	if s.autosaveStop != nil {
		s.autosaveStop()
	}
}
