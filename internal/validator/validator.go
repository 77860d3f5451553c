// Package validator implements the Response Validator + Fallback Engine:
// extract the first JSON object from a raw completion, repair it within a
// bounded number of attempts, validate it against the per-kind schema
// (internal/validator/schema), sanitize its free-text fields, and — if any
// step fails — substitute deterministic procedural content
// (internal/validator/fallback) rather than ever surfacing an error to the
// player.
package validator

import (
	"context"
	"time"

	"github.com/aiwuxian/tile-crawler/internal/corelog"
	"github.com/aiwuxian/tile-crawler/internal/llm"
	"github.com/aiwuxian/tile-crawler/internal/models"
	"github.com/aiwuxian/tile-crawler/internal/validator/fallback"
	"github.com/aiwuxian/tile-crawler/internal/validator/schema"
)

const outcomeValid = "valid"
const outcomeFallback = "fallback"

// ValidateRoomDescription runs the pipeline for a ROOM_DESCRIPTION
// completion. On any failure it substitutes the deterministic fallback
// room description for biome, never erroring.
func ValidateRoomDescription(ctx context.Context, raw string, biome models.Biome) (schema.RoomDescription, bool) {
	start := time.Now()
	result, ok := tryRoomDescription(raw)
	if !ok {
		desc, atmo := fallback.RoomDescription(biome)
		result = schema.RoomDescription{Description: desc, Atmosphere: atmo}
	}
	finish(ctx, string(llm.KindRoomDescription), ok, start)
	return result, !ok
}

func tryRoomDescription(raw string) (schema.RoomDescription, bool) {
	extracted, found := ExtractJSON(raw)
	if !found && extracted == "" {
		return schema.RoomDescription{}, false
	}
	var parsed schema.RoomDescription
	if _, err := ParseWithRepair(extracted, &parsed); err != nil {
		return schema.RoomDescription{}, false
	}

	clean, err := SanitizeField(parsed.Description)
	if err != nil {
		return schema.RoomDescription{}, false
	}
	parsed.Description = clean
	if parsed.AudioHint != "" {
		hint, err := SanitizeField(parsed.AudioHint)
		if err != nil {
			return schema.RoomDescription{}, false
		}
		parsed.AudioHint = hint
	}
	if parsed.PointsOfInterest, err = SanitizeFields(parsed.PointsOfInterest); err != nil {
		return schema.RoomDescription{}, false
	}

	if err := parsed.Validate(); err != nil {
		return schema.RoomDescription{}, false
	}
	return parsed, true
}

// ValidateEnrichment runs the pipeline for a background ENRICHMENT
// completion. ENRICHMENT replaces a room's procedural placeholder
// description/atmosphere/NPCs with the same {description, atmosphere, ...}
// shape ROOM_DESCRIPTION produces (see models.Room.Enriched), so this reuses
// tryRoomDescription rather than a second parallel schema. It is kept as its
// own function, not an alias, so outcome metrics are attributed to
// llm.KindEnrichment instead of llm.KindRoomDescription: the two kinds have
// different priorities and deadlines in the router, and conflating their
// metrics would hide how often background enrichment is falling back versus
// the foreground description path.
func ValidateEnrichment(ctx context.Context, raw string, biome models.Biome) (schema.RoomDescription, bool) {
	start := time.Now()
	result, ok := tryRoomDescription(raw)
	if !ok {
		desc, atmo := fallback.RoomDescription(biome)
		result = schema.RoomDescription{Description: desc, Atmosphere: atmo}
	}
	finish(ctx, string(llm.KindEnrichment), ok, start)
	return result, !ok
}

// ValidateDialogue runs the pipeline for an NPC_DIALOGUE completion.
// knownQuestTemplateIDs constrains which QuestTrigger values validate.
func ValidateDialogue(ctx context.Context, raw string, knownQuestTemplateIDs map[string]bool, fingerprint string) (schema.Dialogue, bool) {
	start := time.Now()
	result, ok := tryDialogue(raw, knownQuestTemplateIDs)
	if !ok {
		dialogue, emotion := fallback.Dialogue(fingerprint)
		result = schema.Dialogue{Dialogue: dialogue, Emotion: emotion}
	}
	finish(ctx, string(llm.KindNPCDialogue), ok, start)
	return result, !ok
}

func tryDialogue(raw string, knownQuestTemplateIDs map[string]bool) (schema.Dialogue, bool) {
	extracted, found := ExtractJSON(raw)
	if !found && extracted == "" {
		return schema.Dialogue{}, false
	}
	var parsed schema.Dialogue
	if _, err := ParseWithRepair(extracted, &parsed); err != nil {
		return schema.Dialogue{}, false
	}

	clean, err := SanitizeField(parsed.Dialogue)
	if err != nil {
		return schema.Dialogue{}, false
	}
	parsed.Dialogue = clean
	if parsed.Offers, err = SanitizeFields(parsed.Offers); err != nil {
		return schema.Dialogue{}, false
	}
	if parsed.Reveals, err = SanitizeFields(parsed.Reveals); err != nil {
		return schema.Dialogue{}, false
	}

	if err := parsed.Validate(knownQuestTemplateIDs); err != nil {
		return schema.Dialogue{}, false
	}
	return parsed, true
}

// ValidateCombatNarration runs the pipeline for a COMBAT_NARRATION completion.
func ValidateCombatNarration(ctx context.Context, raw string, fingerprint string) (schema.CombatNarration, bool) {
	start := time.Now()
	result, ok := tryCombatNarration(raw)
	if !ok {
		result = schema.CombatNarration{Narrative: fallback.CombatNarration(fingerprint)}
	}
	finish(ctx, string(llm.KindCombatNarration), ok, start)
	return result, !ok
}

func tryCombatNarration(raw string) (schema.CombatNarration, bool) {
	extracted, found := ExtractJSON(raw)
	if !found && extracted == "" {
		return schema.CombatNarration{}, false
	}
	var parsed schema.CombatNarration
	if _, err := ParseWithRepair(extracted, &parsed); err != nil {
		return schema.CombatNarration{}, false
	}
	clean, err := SanitizeField(parsed.Narrative)
	if err != nil {
		return schema.CombatNarration{}, false
	}
	parsed.Narrative = clean
	if err := parsed.Validate(); err != nil {
		return schema.CombatNarration{}, false
	}
	return parsed, true
}

// ValidateQuest runs the pipeline for a QUEST_GENERATION completion.
func ValidateQuest(ctx context.Context, raw string, fingerprint string) (schema.Quest, bool) {
	start := time.Now()
	result, ok := tryQuest(raw)
	if !ok {
		title, description, objectives, rewards := fallback.Quest(fingerprint)
		result = schema.Quest{Title: title, Description: description, Objectives: objectives, Rewards: rewards}
	}
	finish(ctx, string(llm.KindQuestGeneration), ok, start)
	return result, !ok
}

func tryQuest(raw string) (schema.Quest, bool) {
	extracted, found := ExtractJSON(raw)
	if !found && extracted == "" {
		return schema.Quest{}, false
	}
	var parsed schema.Quest
	if _, err := ParseWithRepair(extracted, &parsed); err != nil {
		return schema.Quest{}, false
	}
	clean, err := SanitizeField(parsed.Description)
	if err != nil {
		return schema.Quest{}, false
	}
	parsed.Description = clean
	if parsed.Objectives, err = SanitizeFields(parsed.Objectives); err != nil {
		return schema.Quest{}, false
	}
	if err := parsed.Validate(); err != nil {
		return schema.Quest{}, false
	}
	return parsed, true
}

// ValidateSummarization runs the pipeline for a SUMMARIZATION completion.
// recentEventSummaries feeds the deterministic fallback if validation fails.
func ValidateSummarization(ctx context.Context, raw string, recentEventSummaries []string) (string, bool) {
	start := time.Now()
	summary, ok := trySummarization(raw)
	if !ok {
		summary = fallback.Summarization(recentEventSummaries)
	}
	finish(ctx, string(llm.KindSummarization), ok, start)
	return summary, !ok
}

func trySummarization(raw string) (string, bool) {
	extracted, found := ExtractJSON(raw)
	if !found && extracted == "" {
		return "", false
	}
	var parsed schema.Summarization
	if _, err := ParseWithRepair(extracted, &parsed); err != nil {
		return "", false
	}
	clean, err := SanitizeField(parsed.Summary)
	if err != nil {
		return "", false
	}
	parsed.Summary = clean
	if err := parsed.Validate(); err != nil {
		return "", false
	}
	return parsed.Summary, true
}

func finish(ctx context.Context, kind string, valid bool, start time.Time) {
	result := outcomeValid
	if !valid {
		result = outcomeFallback
		corelog.Logger().Warn("validator fell back to procedural content", "kind", kind)
	}
	recordOutcome(ctx, kind, result, float64(time.Since(start).Microseconds())/1000.0)
}
