package llm

import "context"

// Client abstracts an LLM provider used by the scan pipeline.
// Implementations must be concurrency-safe: every query of a scan is
// dispatched on its own goroutine.
type Client interface {
	// Answer poses one natural-language question and returns the raw
	// answer text. The implementation owns the per-call timeout and the
	// single-retry policy.
	Answer(ctx context.Context, question string) (string, error)
	// Extract sends a structured-extraction prompt and returns a single
	// JSON string per the verification schema.
	Extract(ctx context.Context, prompt string) (string, error)
	// SourceName returns a short provider label persisted with results
	// (e.g., "ChatGPT", "Gemini").
	SourceName() string
	// Configured reports whether a credential is present. Unconfigured
	// providers are skipped for the whole scan, never treated as fatal.
	Configured() bool
}
