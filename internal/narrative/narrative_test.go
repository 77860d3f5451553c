package narrative

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/aiwuxian/tile-crawler/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubSummarizer struct {
	mu      sync.Mutex
	fail    int
	calls   int
	lastErr error
}

func (s *stubSummarizer) Summarize(ctx context.Context, events []models.NarrativeEvent, maxTokens int) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	if s.calls <= s.fail {
		return "", errors.New("stub failure")
	}
	return fmt.Sprintf("condensed %d events", len(events)), nil
}

func appendEvent(t *testing.T, m *Memory, turn int, summary string) {
	t.Helper()
	m.Append(context.Background(), models.NarrativeEvent{Turn: turn, Kind: models.EventDiscovery, Summary: summary})
}

func TestAppendKeepsInsertionOrder(t *testing.T) {
	m := New(nil, 10, 3, 50)
	for i := 0; i < 5; i++ {
		appendEvent(t, m, i, fmt.Sprintf("event-%d", i))
	}
	window := m.ShortTerm()
	require.Len(t, window, 5)
	for i, e := range window {
		assert.Equal(t, fmt.Sprintf("event-%d", i), e.Summary)
	}
}

func TestCondensationCollapsesOldestPrefix(t *testing.T) {
	stub := &stubSummarizer{}
	m := New(stub, 3, 2, 50)

	for i := 0; i < 4; i++ {
		appendEvent(t, m, i, fmt.Sprintf("event-%d", i))
	}

	require.Eventually(t, func() bool {
		return m.Summary() != ""
	}, time.Second, 5*time.Millisecond)

	window := m.ShortTerm()
	assert.Len(t, window, 2)
	assert.Equal(t, "event-2", window[0].Summary)
	assert.Contains(t, m.Summary(), "condensed 2 events")
}

func TestCondensationFallsBackAfterTwoFailures(t *testing.T) {
	stub := &stubSummarizer{fail: 2}
	m := New(stub, 2, 2, 50)

	appendEvent(t, m, 0, "alpha")
	appendEvent(t, m, 1, "beta")
	appendEvent(t, m, 2, "gamma")

	require.Eventually(t, func() bool {
		return m.Summary() != ""
	}, time.Second, 5*time.Millisecond)

	assert.Contains(t, m.Summary(), "[abridged]")
	assert.Contains(t, m.Summary(), "alpha")
}

func TestNewEventsDuringCondensationAreNotLost(t *testing.T) {
	stub := &stubSummarizer{}
	m := New(stub, 2, 2, 50)

	appendEvent(t, m, 0, "alpha")
	appendEvent(t, m, 1, "beta")
	appendEvent(t, m, 2, "gamma") // triggers condensation of alpha/beta in background

	appendEvent(t, m, 3, "delta") // must still land in the window

	require.Eventually(t, func() bool {
		return m.Summary() != ""
	}, time.Second, 5*time.Millisecond)

	window := m.ShortTerm()
	summaries := make([]string, len(window))
	for i, e := range window {
		summaries[i] = e.Summary
	}
	assert.Contains(t, summaries, "delta")
	assert.Contains(t, summaries, "gamma")
	assert.NotContains(t, summaries, "alpha")
}
