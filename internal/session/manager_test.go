package session

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testFactory(calls *int) Factory {
	return func(id string) *Session {
		if calls != nil {
			*calls++
		}
		return &Session{ID: id}
	}
}

func TestGetOrCreateCreatesOnFirstCall(t *testing.T) {
	var calls int
	m := NewManager(testFactory(&calls), time.Minute)

	s := m.GetOrCreate("player-1")
	require.NotNil(t, s)
	assert.Equal(t, "player-1", s.ID)
	assert.Equal(t, 1, calls)
}

func TestGetOrCreateReusesExistingSession(t *testing.T) {
	var calls int
	m := NewManager(testFactory(&calls), time.Minute)

	s1 := m.GetOrCreate("player-1")
	s2 := m.GetOrCreate("player-1")

	assert.Same(t, s1, s2)
	assert.Equal(t, 1, calls, "second GetOrCreate for the same id must not call the factory again")
}

func TestCreateNewReplacesExistingSession(t *testing.T) {
	m := NewManager(testFactory(nil), time.Minute)
	s1 := m.GetOrCreate("player-1")
	s2 := m.CreateNew("player-1")

	assert.NotSame(t, s1, s2)
	s3 := m.GetOrCreate("player-1")
	assert.Same(t, s2, s3)
}

func TestDeleteRemovesSession(t *testing.T) {
	m := NewManager(testFactory(nil), time.Minute)
	m.GetOrCreate("player-1")

	assert.True(t, m.Delete("player-1"))
	assert.False(t, m.Exists("player-1"))
	assert.False(t, m.Delete("player-1"), "deleting an already-absent session reports false")
}

func TestCountReflectsLiveSessions(t *testing.T) {
	m := NewManager(testFactory(nil), time.Minute)
	assert.Equal(t, 0, m.Count())
	m.GetOrCreate("a")
	m.GetOrCreate("b")
	assert.Equal(t, 2, m.Count())
}

func TestCleanupExpiredRemovesOnlyStaleSessions(t *testing.T) {
	m := NewManager(testFactory(nil), time.Millisecond)
	m.GetOrCreate("stale")
	time.Sleep(5 * time.Millisecond)
	m.GetOrCreate("fresh") // touched just now, not stale yet

	removed := m.CleanupExpired()
	assert.Equal(t, 1, removed)
	assert.False(t, m.Exists("stale"))
	assert.True(t, m.Exists("fresh"))
}

func TestIsolationBetweenSessionsIsStructural(t *testing.T) {
	m := NewManager(func(id string) *Session {
		return &Session{ID: id}
	}, time.Minute)

	a := m.GetOrCreate("a")
	b := m.GetOrCreate("b")
	assert.NotSame(t, a, b, "each session id must get its own Session instance")
}
