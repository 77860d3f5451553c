package router

import (
	"sync"
	"time"

	"github.com/aiwuxian/tile-crawler/internal/llm"
)

// bucket is a classic token bucket: capacity tokens refilled at refillRate
// per second, drained by one per admitted request, refilled lazily on
// access rather than by a background ticker.
type bucket struct {
	tokens     float64
	capacity   float64
	refillRate float64 // tokens per second
	lastRefill time.Time
}

func newBucket(capacity int) *bucket {
	return &bucket{
		tokens:     float64(capacity),
		capacity:   float64(capacity),
		refillRate: float64(capacity) / 60.0, // capacity is a per-minute budget
		lastRefill: time.Now(),
	}
}

func (b *bucket) refill(now time.Time) {
	elapsed := now.Sub(b.lastRefill).Seconds()
	b.tokens += elapsed * b.refillRate
	if b.tokens > b.capacity {
		b.tokens = b.capacity
	}
	b.lastRefill = now
}

func (b *bucket) take() bool {
	now := time.Now()
	b.refill(now)
	if b.tokens >= 1 {
		b.tokens--
		return true
	}
	return false
}

// takeLeavingHeadroom behaves like take but additionally refuses if
// consuming a token would drop the bucket below headroom tokens remaining
// — used to keep a slice of the global bucket off-limits to background
// callers so a burst of them can never exhaust it ahead of a foreground
// caller admitted a moment later.
func (b *bucket) takeLeavingHeadroom(headroom float64) bool {
	now := time.Now()
	b.refill(now)
	if b.tokens >= 1+headroom {
		b.tokens--
		return true
	}
	return false
}

// backgroundHeadroomFraction is the share of the global bucket's capacity
// reserved exclusively for foreground requests (see IsForeground).
const backgroundHeadroomFraction = 0.2

// RateLimiter enforces a global requests/minute budget plus a per-kind
// budget. A request is admitted only if both buckets have a token; a caller
// that can't get a token should wait (WaitTimeout applies) before
// escalating to fallback. Background kinds (ENRICHMENT, SUMMARIZATION) are
// additionally blocked from dipping into the global bucket's reserved
// headroom. The reservation applies by kind only: prefetch tasks dispatch
// as ROOM_DESCRIPTION (see api.Engine.HandlePrefetchTask) and so draw on
// the headroom like any foreground request.
type RateLimiter struct {
	mu               sync.Mutex
	global           *bucket
	perKind          map[llm.RequestKind]*bucket
	waitTimeout      time.Duration
	reservedHeadroom float64
}

func NewRateLimiter(requestsPerMinute int, perKindPerMinute map[llm.RequestKind]int, waitTimeout time.Duration) *RateLimiter {
	rl := &RateLimiter{
		global:           newBucket(requestsPerMinute),
		perKind:          make(map[llm.RequestKind]*bucket),
		waitTimeout:      waitTimeout,
		reservedHeadroom: float64(requestsPerMinute) * backgroundHeadroomFraction,
	}
	for kind, limit := range perKindPerMinute {
		rl.perKind[kind] = newBucket(limit)
	}
	return rl
}

// Admit blocks (polling, no busier than 20ms) until both the global and the
// kind-specific bucket admit the request, or waitTimeout elapses, in which
// case it returns false and the caller must escalate to fallback.
func (rl *RateLimiter) Admit(kind llm.RequestKind) bool {
	deadline := time.Now().Add(rl.waitTimeout)
	for {
		if rl.tryAdmit(kind) {
			return true
		}
		if time.Now().After(deadline) {
			return false
		}
		time.Sleep(20 * time.Millisecond)
	}
}

func (rl *RateLimiter) tryAdmit(kind llm.RequestKind) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	kb, hasKindBucket := rl.perKind[kind]
	// Peek without consuming the global bucket if the kind bucket can't
	// admit, so a kind at its own ceiling doesn't starve other kinds'
	// share of the global budget.
	if hasKindBucket && !kb.canTakeAt(time.Now()) {
		return false
	}

	var admitted bool
	if IsForeground(kind) {
		admitted = rl.global.take()
	} else {
		admitted = rl.global.takeLeavingHeadroom(rl.reservedHeadroom)
	}
	if !admitted {
		return false
	}

	if hasKindBucket {
		kb.take()
	}
	return true
}

func (b *bucket) canTakeAt(now time.Time) bool {
	b.refill(now)
	return b.tokens >= 1
}
