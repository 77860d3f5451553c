package router

import (
	"context"
	"errors"
	"math/rand"
	"time"

	"github.com/aiwuxian/tile-crawler/internal/llm"
)

const maxAttempts = 3

// retryable reports whether err's class warrants another attempt: transient
// and rate-limited failures retry; auth and invalid failures go straight to
// fallback.
func retryable(err error) bool {
	var callErr *llm.CallError
	if !errors.As(err, &callErr) {
		return false
	}
	return callErr.Class == llm.ErrorTransient || callErr.Class == llm.ErrorRateLimited
}

// callWithRetry invokes fn up to maxAttempts times, backing off
// exponentially with jitter between attempts. Hand-rolled on stdlib
// time/math/rand rather than a backoff library: the algorithm is simple
// enough that a generic library's API would add indirection without
// adding clarity.
func callWithRetry(ctx context.Context, fn func(context.Context) (string, error)) (string, error) {
	var lastErr error
	for attempt := 0; attempt < maxAttempts; attempt++ {
		if attempt > 0 {
			backoff := time.Duration(1<<uint(attempt-1)) * 200 * time.Millisecond
			jitter := time.Duration(rand.Int63n(int64(backoff) + 1))
			select {
			case <-time.After(backoff + jitter):
			case <-ctx.Done():
				return "", ctx.Err()
			}
		}

		result, err := fn(ctx)
		if err == nil {
			return result, nil
		}
		lastErr = err
		if !retryable(err) {
			return "", err
		}
	}
	return "", lastErr
}
