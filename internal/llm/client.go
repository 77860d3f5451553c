// Package llm is the LLM backend contract: a single async completion
// operation the rest of the Intelligence Core depends on through an
// interface, plus an OpenAI-backed implementation and a deterministic mock
// for tests and seeded-determinism replay.
package llm

import (
	"context"
	"time"
)

// RequestKind names one of the six prompt templates the Request Router
// dispatches.
type RequestKind string

const (
	KindRoomDescription RequestKind = "ROOM_DESCRIPTION"
	KindNPCDialogue     RequestKind = "NPC_DIALOGUE"
	KindCombatNarration RequestKind = "COMBAT_NARRATION"
	KindQuestGeneration RequestKind = "QUEST_GENERATION"
	KindEnrichment      RequestKind = "ENRICHMENT"
	KindSummarization   RequestKind = "SUMMARIZATION"
)

// ErrorClass tags why a Client call failed, driving the Router's retry
// policy: Transient and RateLimited retry with backoff; Auth and Invalid go
// straight to fallback.
type ErrorClass string

const (
	ErrorTransient   ErrorClass = "transient"
	ErrorRateLimited ErrorClass = "rate_limited"
	ErrorAuth        ErrorClass = "auth"
	ErrorInvalid     ErrorClass = "invalid"
)

// CallError is the typed error every Client implementation must return on
// failure, so the router can branch on Class without string matching.
type CallError struct {
	Class   ErrorClass
	Message string
}

func (e *CallError) Error() string { return string(e.Class) + ": " + e.Message }

// CompletionRequest is the single outbound operation's input, matching spec
// §6.2 verbatim: (model_id, system_prompt, user_prompt, temperature,
// max_tokens, deadline_ms).
type CompletionRequest struct {
	ModelID     string
	SystemPrompt string
	UserPrompt  string
	Temperature float32
	MaxTokens   int
	Deadline    time.Duration
}

// Client is the LLM Backend Contract. Implementations must respect
// req.Deadline by returning ErrorTransient (timeout) if exceeded, rather
// than blocking the caller indefinitely.
type Client interface {
	Complete(ctx context.Context, req CompletionRequest) (string, error)
}
