package session

import (
	"sync"
	"time"
)

// DefaultTimeout is the idle duration after which CleanupExpired reclaims a
// session.
const DefaultTimeout = 60 * time.Minute

// Factory constructs a brand-new Session for id. Supplied by the process
// entrypoint (cmd/server), which is the only place that knows how to wire a
// concrete LLM client, model id, and config together — Manager itself stays
// agnostic of those choices.
type Factory func(id string) *Session

// Manager owns every live Session, keyed by session id. It is the single
// place in the process holding a map of mutable state; everything it hands
// out is already session-scoped, so no caller ever needs — and the design
// explicitly forbids ever introducing — a second package-level map.
type Manager struct {
	mu       sync.Mutex
	sessions map[string]*Session
	factory  Factory
	timeout  time.Duration
}

func NewManager(factory Factory, timeout time.Duration) *Manager {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Manager{
		sessions: make(map[string]*Session),
		factory:  factory,
		timeout:  timeout,
	}
}

// GetOrCreate returns the existing session for id, creating one via the
// configured Factory if none exists yet, and touches its last-accessed
// time either way.
func (m *Manager) GetOrCreate(id string) *Session {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.sessions[id]
	if !ok {
		s = m.factory(id)
		now := time.Now()
		s.createdAt = now
		s.lastAccessedAt = now
		m.sessions[id] = s
	}
	s.Touch()
	return s
}

// CreateNew discards any existing session for id and constructs a fresh
// one, for an explicit "new game" action.
func (m *Manager) CreateNew(id string) *Session {
	m.mu.Lock()
	defer m.mu.Unlock()

	if existing, ok := m.sessions[id]; ok {
		existing.Stop()
	}
	s := m.factory(id)
	now := time.Now()
	s.createdAt = now
	s.lastAccessedAt = now
	m.sessions[id] = s
	return s
}

// Delete removes a session, reporting whether one existed. Stops its
// background scheduler before dropping the last reference.
func (m *Manager) Delete(id string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.sessions[id]
	if !ok {
		return false
	}
	s.Stop()
	delete(m.sessions, id)
	return true
}

// Exists reports whether a session for id is currently live.
func (m *Manager) Exists(id string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.sessions[id]
	return ok
}

// Count returns the number of live sessions.
func (m *Manager) Count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}

// CleanupExpired removes every session inactive longer than the Manager's
// configured timeout, stopping each one's background scheduler first, and
// returns how many were removed.
func (m *Manager) CleanupExpired() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	removed := 0
	for id, s := range m.sessions {
		if s.IsExpired(m.timeout) {
			s.Stop()
			delete(m.sessions, id)
			removed++
		}
	}
	return removed
}
