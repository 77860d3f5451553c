package llm

import (
	"context"
	"errors"
	"strings"

	"github.com/sashabaranov/go-openai"
)

// systemPreamble is the shared dungeon-master framing every request kind's
// system prompt is built on top of, carried over from the original
// implementation's LLMEngine.system_prompt.
const systemPreamble = `You are the narrative engine for Tile-Crawler, a tile-based dungeon crawler.

Your role:
1. Generate atmospheric, consistent dungeon content
2. Maintain narrative continuity with previous events
3. Output valid JSON matching the requested schema exactly, with no prose outside the JSON object

Keep descriptions concise but evocative. Never break the established tone for the current biome.`

// OpenAIClient implements Client against any OpenAI-compatible chat
// completion endpoint (OpenAI itself, or a local-compatible server such as
// Ollama's OpenAI shim, selected via a configurable API base URL).
type OpenAIClient struct {
	api *openai.Client
}

func NewOpenAIClient(apiKey, apiBase string) *OpenAIClient {
	cfg := openai.DefaultConfig(apiKey)
	if apiBase != "" {
		cfg.BaseURL = apiBase
	}
	return &OpenAIClient{api: openai.NewClientWithConfig(cfg)}
}

func (c *OpenAIClient) Complete(ctx context.Context, req CompletionRequest) (string, error) {
	if req.Deadline > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, req.Deadline)
		defer cancel()
	}

	resp, err := c.api.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: req.ModelID,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPreamble + "\n\n" + req.SystemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: req.UserPrompt},
		},
		Temperature: req.Temperature,
		MaxTokens:   req.MaxTokens,
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
	})
	if err != nil {
		return "", classify(err)
	}
	if len(resp.Choices) == 0 {
		return "", &CallError{Class: ErrorInvalid, Message: "empty choices in completion response"}
	}
	return resp.Choices[0].Message.Content, nil
}

// classify maps go-openai's error shapes onto the Router's retry taxonomy.
func classify(err error) error {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		switch {
		case apiErr.HTTPStatusCode == 429:
			return &CallError{Class: ErrorRateLimited, Message: apiErr.Message}
		case apiErr.HTTPStatusCode == 401 || apiErr.HTTPStatusCode == 403:
			return &CallError{Class: ErrorAuth, Message: apiErr.Message}
		case apiErr.HTTPStatusCode >= 500:
			return &CallError{Class: ErrorTransient, Message: apiErr.Message}
		default:
			return &CallError{Class: ErrorInvalid, Message: apiErr.Message}
		}
	}

	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		return &CallError{Class: ErrorTransient, Message: reqErr.Error()}
	}

	if strings.Contains(err.Error(), "context deadline exceeded") || errors.Is(err, context.DeadlineExceeded) {
		return &CallError{Class: ErrorTransient, Message: "deadline exceeded"}
	}

	return &CallError{Class: ErrorTransient, Message: err.Error()}
}
