package llm

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// The provider error taxonomy. Everything here degrades the scan rather
// than failing it: an unconfigured provider is skipped, timeouts yield
// neutral analyses, and rate limits abandon retries immediately.
var (
	ErrUnconfigured = errors.New("provider credential not configured")
	ErrTimeout      = errors.New("provider call timed out")
	ErrRateLimited  = errors.New("provider rate limited")
)

// ProviderError is any other non-2xx or transport failure from a provider.
type ProviderError struct {
	Provider   string
	StatusCode int
	Message    string
}

func (e *ProviderError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s API error (status %d): %s", e.Provider, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("%s error: %s", e.Provider, e.Message)
}

// Retryable reports whether a failed call may be attempted once more.
// Rate limits fail fast to conserve the scan's overall time budget, and
// a canceled context means the caller has moved on.
func Retryable(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrRateLimited) || errors.Is(err, ErrUnconfigured) {
		return false
	}
	if errors.Is(err, context.Canceled) {
		return false
	}
	return true
}

// Do invokes call with at most one retry after a fixed backoff.
func Do(ctx context.Context, backoff time.Duration, call func(context.Context) (string, error)) (string, error) {
	out, err := call(ctx)
	if err == nil || !Retryable(err) {
		return out, err
	}
	select {
	case <-ctx.Done():
		return "", fmt.Errorf("%w: %v", ErrTimeout, ctx.Err())
	case <-time.After(backoff):
	}
	return call(ctx)
}
