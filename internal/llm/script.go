package llm

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// ScriptedClient replays a fixed sequence of responses. It backs the "script"
// provider used in tests and offline dry runs, where the model outputs for
// each turn are known in advance.
type ScriptedClient struct {
	mu        sync.Mutex
	model     string
	responses []ScriptedResponse
	next      int

	// Calls records every request received, in order.
	Calls []Request
}

// ScriptedResponse is one canned turn: either text to return or an error to
// fail with.
type ScriptedResponse struct {
	Text string
	Err  error

	InputTokens  int
	OutputTokens int
}

// NewScriptedClient creates a client that returns the given responses in
// order. Once the script is exhausted, further calls fail.
func NewScriptedClient(model string, responses ...ScriptedResponse) *ScriptedClient {
	return &ScriptedClient{model: model, responses: responses}
}

func (c *ScriptedClient) Model() string { return c.model }

func (c *ScriptedClient) Complete(ctx context.Context, req Request) (*Response, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.Calls = append(c.Calls, req)
	if c.next >= len(c.responses) {
		return nil, &ProviderError{
			Provider: "script",
			Err:      fmt.Errorf("script exhausted after %d responses", len(c.responses)),
		}
	}

	r := c.responses[c.next]
	c.next++
	if r.Err != nil {
		return nil, r.Err
	}

	in, out := r.InputTokens, r.OutputTokens
	if in == 0 {
		in = len(req.System)/4 + len(req.User)/4
	}
	if out == 0 {
		out = len(r.Text) / 4
	}
	return &Response{
		Text:         r.Text,
		Model:        c.model,
		StopReason:   "end_turn",
		InputTokens:  in,
		OutputTokens: out,
		Duration:     time.Millisecond,
	}, nil
}

// CallCount returns how many completions have been requested.
func (c *ScriptedClient) CallCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.Calls)
}
