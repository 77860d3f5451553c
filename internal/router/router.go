package router

import (
	"context"
	"fmt"

	"github.com/aiwuxian/tile-crawler/internal/corelog"
	"github.com/aiwuxian/tile-crawler/internal/fingerprint"
	"github.com/aiwuxian/tile-crawler/internal/llm"
)

// Cache is the subset of internal/cache.Cache the router needs: lookup,
// populate, and in-flight deduplication. Declared here, at the point of
// use, so this package doesn't import internal/cache's full surface.
type Cache interface {
	Get(fingerprint string) (string, bool)
	Set(fingerprint string, kind llm.RequestKind, value string)
	// DoInFlight collapses concurrent calls sharing the same fingerprint
	// to a single invocation of fn.
	DoInFlight(fingerprint string, fn func() (string, error)) (string, error)
}

// Router is the Request Router + Prompt Kernel. One Router is shared across
// a session's requests; it is safe for concurrent use.
type Router struct {
	client      llm.Client
	cache       Cache
	limiter     *RateLimiter
	modelID     string
}

func New(client llm.Client, cache Cache, limiter *RateLimiter, modelID string) *Router {
	return &Router{client: client, cache: cache, limiter: limiter, modelID: modelID}
}

// Dispatch resolves a request for kind given its assembled prompt payload
// and canonical form: fingerprint -> cache -> in-flight dedup -> rate
// limit -> retry/backoff, in that order. Returns the raw completion text
// (for the Validator to parse) or an error if the request could not be
// completed after retries/rate-limit wait — in which case the caller's
// contract is to fall back to procedural content, never to surface the
// error to the player.
func (r *Router) Dispatch(ctx context.Context, kind llm.RequestKind, systemPrompt, userPrompt, canonicalContext string) (string, error) {
	cfg, ok := Configs[kind]
	if !ok {
		return "", fmt.Errorf("router: unknown request kind %q", kind)
	}

	fp := fingerprint.Fingerprint(string(kind), canonicalContext, r.modelID, cfg.Temperature)

	if cached, ok := r.cache.Get(fp); ok {
		return cached, nil
	}

	result, err := r.cache.DoInFlight(fp, func() (string, error) {
		if !r.limiter.Admit(kind) {
			return "", &llm.CallError{Class: llm.ErrorTransient, Message: "rate limit wait timeout exceeded"}
		}

		req := llm.CompletionRequest{
			ModelID:      r.modelID,
			SystemPrompt: systemPrompt,
			UserPrompt:   userPrompt,
			Temperature:  cfg.Temperature,
			MaxTokens:    cfg.MaxTokens,
			Deadline:     cfg.Deadline,
		}
		return callWithRetry(ctx, func(ctx context.Context) (string, error) {
			return r.client.Complete(ctx, req)
		})
	})
	if err != nil {
		corelog.Logger().Warn("llm dispatch failed, caller must fall back", "kind", kind, "error", err)
		return "", err
	}

	r.cache.Set(fp, kind, result)
	return result, nil
}
