package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/aiwuxian/tile-crawler/internal/models"
)

// NarrativeSummarizer adapts a Client into internal/narrative.Summarizer,
// calling Client.Complete directly (temperature 0.3, no router, cache or
// rate limiter in between) and parsing the {summary} schema.
type NarrativeSummarizer struct {
	Client      Client
	ModelID     string
	Temperature float32
	Deadline    time.Duration
}

func NewNarrativeSummarizer(client Client, modelID string) *NarrativeSummarizer {
	return &NarrativeSummarizer{
		Client:      client,
		ModelID:     modelID,
		Temperature: 0.3,
		Deadline:    8 * time.Second,
	}
}

type summarizationSchema struct {
	Summary string `json:"summary"`
}

func (s *NarrativeSummarizer) Summarize(ctx context.Context, events []models.NarrativeEvent, maxTokens int) (string, error) {
	lines := make([]string, len(events))
	for i, e := range events {
		lines[i] = fmt.Sprintf("- (%s) %s", e.Kind, e.Summary)
	}

	prompt := fmt.Sprintf(
		"Condense the following events into a single summary of at most %d words, preserving only what matters for future narrative continuity:\n\n%s\n\nRespond with JSON: {\"summary\": string}",
		maxTokens, strings.Join(lines, "\n"),
	)

	raw, err := s.Client.Complete(ctx, CompletionRequest{
		ModelID:      s.ModelID,
		SystemPrompt: "You condense dungeon-crawl event logs into terse continuity notes.",
		UserPrompt:   prompt,
		Temperature:  s.Temperature,
		MaxTokens:    maxTokens * 2,
		Deadline:     s.Deadline,
	})
	if err != nil {
		return "", err
	}

	var parsed summarizationSchema
	if err := json.Unmarshal([]byte(raw), &parsed); err != nil {
		return "", &CallError{Class: ErrorInvalid, Message: "summarization response was not valid JSON: " + err.Error()}
	}
	if parsed.Summary == "" {
		return "", &CallError{Class: ErrorInvalid, Message: "summarization response missing summary field"}
	}
	return parsed.Summary, nil
}
