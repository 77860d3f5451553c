// Package contextassembler builds the token-budgeted prompt context for a
// Request Router call and the normalized canonical form used to compute its
// fingerprint. Section drop order and canonicalization rules mirror spec
// §4.3; token estimation uses a chars-per-token heuristic in the same style
// codenerd's context package calibrates for its model family.
package contextassembler

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/aiwuxian/tile-crawler/internal/models"
)

const charsPerToken = 4.0

// EstimateTokens approximates the token count of s.
func EstimateTokens(s string) int {
	if s == "" {
		return 0
	}
	return int(float64(utf8.RuneCountInString(s))/charsPerToken) + 1
}

// Section is one named, priority-ordered slice of the assembled context.
// Lower Priority values are dropped last (priority 1 is the system preamble
// and is never dropped).
type Section struct {
	Name     string
	Priority int
	Text     string
	// Canonical, when non-empty, is the normalized form of this section
	// used for fingerprinting instead of Text. Sections whose content is
	// fingerprint-irrelevant (e.g. free narrative prose) can leave this
	// empty and fall back to Text.
	Canonical string
}

// Assembled is the output of Assemble: the prompt-ready payload and the
// canonical form fed to internal/fingerprint.
type Assembled struct {
	Payload         string
	Canonical       string
	IncludedTokens  int
	DroppedSections []string
}

// Assemble orders sections by Priority ascending (1 first) and appends each
// one that still fits the budget. A section that would overflow it is
// dropped, and later, lower-priority sections that still fit are included
// after it. Priority-1 sections are never dropped. The system preamble (expected
// to carry Priority 1) must always fit; callers are responsible for keeping
// it within budget on its own.
func Assemble(sections []Section, tokenBudget int) Assembled {
	ordered := make([]Section, len(sections))
	copy(ordered, sections)
	sort.SliceStable(ordered, func(i, j int) bool { return ordered[i].Priority < ordered[j].Priority })

	var payload, canonical strings.Builder
	var dropped []string
	used := 0

	for _, s := range ordered {
		cost := EstimateTokens(s.Text)
		if used+cost > tokenBudget && s.Priority > 1 {
			dropped = append(dropped, s.Name)
			continue
		}
		used += cost
		payload.WriteString(s.Text)
		payload.WriteString("\n\n")

		c := s.Canonical
		if c == "" {
			c = s.Text
		}
		canonical.WriteString(s.Name)
		canonical.WriteByte(':')
		canonical.WriteString(canonicalizeText(c))
		canonical.WriteByte('\n')
	}

	return Assembled{
		Payload:         payload.String(),
		Canonical:       canonical.String(),
		IncludedTokens:  used,
		DroppedSections: dropped,
	}
}

// canonicalizeText collapses whitespace, which is the only canonicalization
// rule that applies uniformly to free-text sections; structured sections
// (room state, stats) should pre-canonicalize via CanonicalMap/CanonicalFloat
// before being placed into Section.Canonical.
func canonicalizeText(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// CanonicalMap renders a string-keyed map in sorted-key order, so two
// logically identical maps built in different iteration orders canonicalize
// identically.
func CanonicalMap(m map[string]string) string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	var b strings.Builder
	for i, k := range keys {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(k)
		b.WriteByte('=')
		b.WriteString(m[k])
	}
	return b.String()
}

// CanonicalFloat rounds f to a stable grid (2 decimal places) so minor
// floating-point jitter in derived stats doesn't fragment the fingerprint
// space.
func CanonicalFloat(f float64) string {
	return strconv.FormatFloat(roundTo(f, 2), 'f', 2, 64)
}

func roundTo(f float64, places int) float64 {
	mult := 1.0
	for i := 0; i < places; i++ {
		mult *= 10
	}
	return float64(int64(f*mult+0.5)) / mult
}

// RoomStateSection renders the current room's state for ROOM_DESCRIPTION /
// ENRICHMENT requests, with turn index elided from the canonical form so
// repeated enrichment requests for the same room share a fingerprint.
func RoomStateSection(room *models.Room, turn int) Section {
	text := fmt.Sprintf("Room at %s, biome=%s, exits=%v, items=%d, enemies=%d, npcs=%d",
		room.Coordinate.Key(), room.Biome, exitList(room.Exits), len(room.Items), len(room.Enemies), len(room.NPCs))
	canonical := fmt.Sprintf("biome=%s;exits=%s;items=%d;enemies=%d;npcs=%d",
		room.Biome, canonicalExits(room.Exits), len(room.Items), len(room.Enemies), len(room.NPCs))
	return Section{Name: "room_state", Priority: 2, Text: text, Canonical: canonical}
}

// RecentActionsSection renders the last up-to-3 player actions.
func RecentActionsSection(actions []string) Section {
	if len(actions) > 3 {
		actions = actions[len(actions)-3:]
	}
	text := "Recent actions: " + strings.Join(actions, "; ")
	return Section{Name: "recent_actions", Priority: 3, Text: text}
}

// ShortTermSection renders the narrative short-term window.
func ShortTermSection(events []models.NarrativeEvent) Section {
	parts := make([]string, len(events))
	for i, e := range events {
		parts[i] = string(e.Kind) + ": " + e.Summary
	}
	return Section{Name: "short_term", Priority: 4, Text: strings.Join(parts, "\n")}
}

// LongTermSummarySection renders the narrative memory's rolling summary.
func LongTermSummarySection(summary string) Section {
	return Section{Name: "long_term_summary", Priority: 5, Text: summary}
}

func exitList(exits map[models.Direction]bool) []models.Direction {
	var out []models.Direction
	for d, open := range exits {
		if open {
			out = append(out, d)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

func canonicalExits(exits map[models.Direction]bool) string {
	list := exitList(exits)
	strs := make([]string, len(list))
	for i, d := range list {
		strs[i] = string(d)
	}
	return strings.Join(strs, ",")
}
