// Package llm abstracts the chat-completion providers the refinement loop
// talks to. Each provider implements Client; the retry decorator in this
// package wraps any Client with backoff, a circuit breaker, and concurrency
// limiting.
package llm

import (
	"context"
	"time"
)

// Request is a single chat completion call: one system prompt and one user
// message. The refinement loop rebuilds the full conversation itself on every
// turn, so no multi-message history is needed here.
type Request struct {
	System      string
	User        string
	Temperature float64
	MaxTokens   int
}

// Response carries the model output plus the accounting fields recorded on
// each iteration.
type Response struct {
	Text         string
	Model        string
	StopReason   string
	InputTokens  int
	OutputTokens int
	Duration     time.Duration
}

// Client is a chat-completion provider.
type Client interface {
	// Complete performs one completion. Implementations classify failures
	// as *ProviderError so callers can distinguish transient from fatal.
	Complete(ctx context.Context, req Request) (*Response, error)

	// Model returns the model identifier this client calls.
	Model() string
}
