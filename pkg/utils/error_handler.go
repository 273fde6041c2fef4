package utils

import (
	"context"
	"time"
)

// SimpleErrorHandler runs an operation a bounded number of times
type SimpleErrorHandler struct {
	maxAttempts int
	baseDelay   time.Duration
	onFailure   func(attempt int, err error)
}

// NewSimpleErrorHandler creates a handler that tries an operation at most maxAttempts times
func NewSimpleErrorHandler(maxAttempts int, baseDelay time.Duration) *SimpleErrorHandler {
	if maxAttempts < 1 {
		maxAttempts = 1
	}
	return &SimpleErrorHandler{
		maxAttempts: maxAttempts,
		baseDelay:   baseDelay,
	}
}

// OnFailure registers a hook called after every failed attempt
func (h *SimpleErrorHandler) OnFailure(fn func(attempt int, err error)) *SimpleErrorHandler {
	h.onFailure = fn
	return h
}

// WithRetryContext calls fn until it succeeds, the budget is spent or ctx is done.
// It returns the number of attempts made and the last error.
func (h *SimpleErrorHandler) WithRetryContext(ctx context.Context, fn func(attempt int) error) (int, error) {
	var lastErr error

	for attempt := 1; attempt <= h.maxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return attempt - 1, err
		}

		err := fn(attempt)
		if err == nil {
			return attempt, nil
		}
		lastErr = err

		if h.onFailure != nil {
			h.onFailure(attempt, err)
		}

		// Context cancellation is never retried
		if ctx.Err() != nil {
			return attempt, ctx.Err()
		}

		if attempt < h.maxAttempts && h.baseDelay > 0 {
			delay := h.baseDelay * time.Duration(attempt)
			select {
			case <-ctx.Done():
				return attempt, ctx.Err()
			case <-time.After(delay):
			}
		}
	}

	return h.maxAttempts, lastErr
}
