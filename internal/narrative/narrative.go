// Package narrative implements the two-tier Narrative Memory: a verbatim
// short-term window plus a rolling, LLM-condensed long-term summary, so the
// Context Assembler always has bounded-size history regardless of how long
// a session runs.
package narrative

import (
	"context"
	"strings"
	"sync"

	"github.com/aiwuxian/tile-crawler/internal/corelog"
	"github.com/aiwuxian/tile-crawler/internal/models"
)

// Summarizer condenses a batch of narrative events into a short prose
// summary of at most maxTokens. Implemented by llm.NarrativeSummarizer; a
// separate interface here keeps this package free of any LLM dependency.
type Summarizer interface {
	Summarize(ctx context.Context, events []models.NarrativeEvent, maxTokens int) (string, error)
}

// Memory holds one session's narrative state. Single-writer: all mutation
// happens through the owning session's task loop.
type Memory struct {
	mu sync.Mutex

	shortTerm []models.NarrativeEvent
	summary   string

	windowSize   int
	condenseSize int
	maxTokens    int

	summarizer Summarizer
	condensing bool
}

// maxCondenseAttempts bounds how many times Condense retries the same batch
// against the summarizer before giving up and falling back to a
// deterministic procedural summary.
const maxCondenseAttempts = 2

func New(summarizer Summarizer, windowSize, condenseSize, maxTokens int) *Memory {
	if windowSize <= 0 {
		windowSize = 15
	}
	if condenseSize <= 0 {
		condenseSize = 5
	}
	if maxTokens <= 0 {
		maxTokens = 120
	}
	return &Memory{
		summarizer:   summarizer,
		windowSize:   windowSize,
		condenseSize: condenseSize,
		maxTokens:    maxTokens,
	}
}

// Append adds an event to the short-term tail. If the window now exceeds
// its configured size, Condense runs in the background against the oldest
// condenseSize events; new appends after this call still land in the tail,
// since condensation only ever collapses the prefix it was launched
// against.
func (m *Memory) Append(ctx context.Context, event models.NarrativeEvent) {
	m.mu.Lock()
	m.shortTerm = append(m.shortTerm, event)
	overflow := len(m.shortTerm) > m.windowSize && !m.condensing
	m.mu.Unlock()

	if overflow {
		go func() {
			if err := m.Condense(ctx); err != nil {
				corelog.Logger().Warn("narrative condensation fell back to procedural summary", "error", err)
			}
		}()
	}
}

// ShortTerm returns a copy of the current short-term window in insertion
// order.
func (m *Memory) ShortTerm() []models.NarrativeEvent {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]models.NarrativeEvent, len(m.shortTerm))
	copy(out, m.shortTerm)
	return out
}

// Summary returns the current long-term summary string.
func (m *Memory) Summary() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.summary
}

// Snapshot is the persistable state of a Memory: the short-term window
// verbatim plus the rolling long-term summary, matching the Persistent
// Save Format's narrative section (short-term events + long-term summary).
type Snapshot struct {
	ShortTerm []models.NarrativeEvent
	Summary   string
}

// TakeSnapshot captures the memory's current state for persistence.
func (m *Memory) TakeSnapshot() Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]models.NarrativeEvent, len(m.shortTerm))
	copy(out, m.shortTerm)
	return Snapshot{ShortTerm: out, Summary: m.summary}
}

// Restore replaces the memory's short-term window and long-term summary
// with a previously-saved snapshot. Does not affect condensation
// configuration (windowSize/condenseSize/maxTokens/summarizer), which come
// from how the Memory was constructed, not from the save file.
func (m *Memory) Restore(snap Snapshot) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.shortTerm = append([]models.NarrativeEvent(nil), snap.ShortTerm...)
	m.summary = snap.Summary
	m.condensing = false
}

// Condense folds the oldest condenseSize events of the short-term window
// into the long-term summary and drops them from the window's prefix.
// Events appended while this runs land after the batch in m.shortTerm and
// are left untouched. Safe to call directly — e.g. on a flush timer or
// before a save — as well as from Append's background trigger; a no-op if
// a condensation is already in flight or the window isn't over budget.
//
// The summarizer gets up to maxCondenseAttempts tries against the same
// batch before Condense gives up and substitutes a deterministic
// procedural summary, so a single transient failure never leaves the
// long-term summary stuck empty. The returned error, if non-nil, reports
// that the fallback was used; the window still advances either way.
func (m *Memory) Condense(ctx context.Context) error {
	m.mu.Lock()
	if m.condensing || len(m.shortTerm) <= m.windowSize {
		m.mu.Unlock()
		return nil
	}
	n := m.condenseSize
	if n > len(m.shortTerm) {
		n = len(m.shortTerm)
	}
	batch := append([]models.NarrativeEvent(nil), m.shortTerm[:n]...)
	m.condensing = true
	m.mu.Unlock()

	replacement, err := m.condenseBatch(ctx, batch)

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.summary == "" {
		m.summary = replacement
	} else {
		m.summary = m.summary + " " + replacement
	}

	drop := len(batch)
	if drop > len(m.shortTerm) {
		drop = len(m.shortTerm)
	}
	m.shortTerm = m.shortTerm[drop:]
	m.condensing = false
	return err
}

// condenseBatch retries Summarize against the same batch up to
// maxCondenseAttempts times, falling back to a deterministic procedural
// summary if every attempt fails.
func (m *Memory) condenseBatch(ctx context.Context, batch []models.NarrativeEvent) (string, error) {
	if m.summarizer == nil {
		return fallbackSummary(batch, m.maxTokens), errNoSummarizer
	}

	var lastErr error
	for attempt := 1; attempt <= maxCondenseAttempts; attempt++ {
		result, err := m.summarizer.Summarize(ctx, batch, m.maxTokens)
		if err == nil {
			return result, nil
		}
		lastErr = err
		corelog.Logger().Warn("narrative condensation attempt failed", "error", err, "attempt", attempt)
	}
	return fallbackSummary(batch, m.maxTokens), lastErr
}

var errNoSummarizer = &noSummarizerErr{}

type noSummarizerErr struct{}

func (e *noSummarizerErr) Error() string { return "no summarizer configured" }

// fallbackSummary joins event summaries with separators and truncates to
// roughly maxTokens words — a token approximated as one word, good enough
// for a deterministic procedural fallback.
func fallbackSummary(events []models.NarrativeEvent, maxTokens int) string {
	parts := make([]string, 0, len(events))
	for _, e := range events {
		parts = append(parts, e.Summary)
	}
	joined := "[abridged] " + strings.Join(parts, "; ")
	words := strings.Fields(joined)
	if len(words) > maxTokens {
		words = words[:maxTokens]
	}
	return strings.Join(words, " ")
}
