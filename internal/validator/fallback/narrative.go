package fallback

import (
	"fmt"
	"hash/fnv"
)

// pick deterministically selects one of options using fingerprint as the
// sole source of variation, so the same failed request always falls back to
// the same canned content — matching the seeded-determinism property the
// rest of the Intelligence Core relies on.
func pick(fingerprint string, options []string) string {
	if len(options) == 0 {
		return ""
	}
	h := fnv.New64a()
	fmt.Fprintf(h, "%s", fingerprint)
	return options[h.Sum64()%uint64(len(options))]
}

var dialogueLines = []string{
	"The figure regards you in silence for a long moment before speaking.",
	"\"Another wanderer,\" they mutter, barely looking up.",
	"They nod once, as if expecting you all along.",
}

// Dialogue returns a neutral {dialogue, emotion} fallback pair when an
// NPC_DIALOGUE completion cannot be validated.
func Dialogue(fingerprint string) (dialogue, emotion string) {
	return pick(fingerprint, dialogueLines), "neutral"
}

var combatLines = []string{
	"The blow lands solidly, drawing a grunt of pain.",
	"Steel meets flesh in a brief, brutal exchange.",
	"The strike finds its mark.",
}

// CombatNarration returns a neutral narration fallback when a
// COMBAT_NARRATION completion cannot be validated.
func CombatNarration(fingerprint string) string {
	return pick(fingerprint, combatLines)
}

// Quest returns a minimal, always-valid quest fallback: a single fetch
// objective and no reward, leaving the session free to retry generation
// later rather than leaving the player with no quest content at all.
func Quest(fingerprint string) (title, description string, objectives []string, rewards map[string]int) {
	return "A Small Task",
		"Someone nearby could use a hand with something simple.",
		[]string{"Investigate the area"},
		map[string]int{}
}

// Summarization returns the deterministic abridged-summary fallback used
// when a SUMMARIZATION completion cannot be validated. Distinct from
// internal/narrative's own condensation fallback (which fires on repeated
// transport failures rather than malformed output), but intentionally
// similar in shape for consistency of tone.
func Summarization(recentEventSummaries []string) string {
	if len(recentEventSummaries) == 0 {
		return "[abridged] nothing notable occurred"
	}
	joined := recentEventSummaries[0]
	for _, s := range recentEventSummaries[1:] {
		joined += "; " + s
	}
	return "[abridged] " + joined
}
