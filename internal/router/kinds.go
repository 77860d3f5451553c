// Package router implements the Request Router and Prompt Kernel: per-kind
// dispatch configuration, rate limiting, and retry policy sitting between
// the Context Assembler and the LLM Backend Contract.
package router

import (
	"time"

	"github.com/aiwuxian/tile-crawler/internal/llm"
)

// KindConfig is the per-kind dispatch configuration: sampling temperature,
// scheduling priority, response deadline, and token budget.
type KindConfig struct {
	Temperature float32
	Priority    int
	Deadline    time.Duration
	MaxTokens   int
}

// Configs is the fixed per-kind configuration table. Priority: lower number
// is more urgent (NPC_DIALOGUE is the most latency-sensitive at priority 1;
// SUMMARIZATION is background work at priority 5). Dispatch keeps no queue,
// so Priority does not order requests; its only use in the router is
// ForegroundPriorityCeiling, the line RateLimiter.Admit uses to decide
// which kinds may dip into the global bucket's reserved headroom.
var Configs = map[llm.RequestKind]KindConfig{
	llm.KindRoomDescription: {Temperature: 0.8, Priority: 2, Deadline: 12 * time.Second, MaxTokens: 800},
	llm.KindNPCDialogue:     {Temperature: 0.7, Priority: 1, Deadline: 6 * time.Second, MaxTokens: 400},
	llm.KindCombatNarration: {Temperature: 0.6, Priority: 3, Deadline: 4 * time.Second, MaxTokens: 250},
	llm.KindQuestGeneration: {Temperature: 0.7, Priority: 3, Deadline: 10 * time.Second, MaxTokens: 600},
	llm.KindEnrichment:      {Temperature: 0.8, Priority: 4, Deadline: 15 * time.Second, MaxTokens: 800},
	llm.KindSummarization:   {Temperature: 0.3, Priority: 5, Deadline: 20 * time.Second, MaxTokens: 300},
}

// ForegroundPriorityCeiling is the highest Priority value that still counts
// as a foreground request for rate-limiter admission: NPC_DIALOGUE,
// ROOM_DESCRIPTION, COMBAT_NARRATION, and QUEST_GENERATION all clear it.
// ENRICHMENT and SUMMARIZATION sit above it and are treated as background
// work that must leave the reserved headroom untouched in the global
// bucket.
const ForegroundPriorityCeiling = 3

// IsForeground reports whether kind counts as foreground for admission
// purposes. An unrecognized kind is treated as foreground so a caller never
// silently starves on a typo'd kind string.
func IsForeground(kind llm.RequestKind) bool {
	cfg, ok := Configs[kind]
	if !ok {
		return true
	}
	return cfg.Priority <= ForegroundPriorityCeiling
}
