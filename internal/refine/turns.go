package refine

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/mapforge/mapforge/internal/llm"
	"github.com/mapforge/mapforge/internal/trajectory"
)

// turnResult carries everything one agent turn produced, including the
// accounting copied onto the iteration record.
type turnResult struct {
	raw       string
	attempts  int
	inTokens  int64
	outTokens int64
	duration  time.Duration
}

// runActorTurn calls the Actor until its output parses and validates, or the
// per-turn retry budget runs out. Parse failures trigger a corrective
// re-prompt: the original prompt plus a description of exactly what was
// wrong with the previous attempt. Provider errors are not retried here;
// transient ones were already retried inside the client.
func (e *Engine) runActorTurn(ctx context.Context, prompt string) (*trajectory.Trajectory, *turnResult, error) {
	tr := &turnResult{}
	var lastErr error

	for attempt := 0; attempt <= e.cfg.TurnRetries; attempt++ {
		tr.attempts = attempt + 1

		user := prompt
		if lastErr != nil {
			user = correctivePrompt(prompt, lastErr)
		}

		resp, err := e.complete(ctx, e.actor, llm.Request{
			System:      actorSystemPrompt,
			User:        user,
			Temperature: e.cfg.ActorTemperature,
			MaxTokens:   e.cfg.ActorMaxTokens,
		}, e.cfg.ActorTimeout)
		if err != nil {
			return nil, tr, err
		}
		tr.raw = resp.Text
		tr.inTokens += int64(resp.InputTokens)
		tr.outTokens += int64(resp.OutputTokens)
		tr.duration += resp.Duration

		t, perr := ParseTrajectory(resp.Text, e.cat)
		if perr == nil {
			return t, tr, nil
		}
		lastErr = perr
		e.log.Warn("actor output rejected",
			"attempt", attempt+1, "max_attempts", e.cfg.TurnRetries+1, "error", perr)
	}

	return nil, tr, fmt.Errorf("actor turn failed after %d attempts: %w", tr.attempts, lastErr)
}

// runCriticTurn mirrors runActorTurn for the Critic. The returned warning
// describes a contradictory verdict resolved by the issues-emptiness rule,
// when one occurred.
func (e *Engine) runCriticTurn(ctx context.Context, prompt string) (*trajectory.Feedback, string, *turnResult, error) {
	tr := &turnResult{}
	var lastErr error

	for attempt := 0; attempt <= e.cfg.TurnRetries; attempt++ {
		tr.attempts = attempt + 1

		user := prompt
		if lastErr != nil {
			user = correctivePrompt(prompt, lastErr)
		}

		resp, err := e.complete(ctx, e.critic, llm.Request{
			System:      criticSystemPrompt,
			User:        user,
			Temperature: e.cfg.CriticTemperature,
			MaxTokens:   e.cfg.CriticMaxTokens,
		}, e.cfg.CriticTimeout)
		if err != nil {
			return nil, "", tr, err
		}
		tr.raw = resp.Text
		tr.inTokens += int64(resp.InputTokens)
		tr.outTokens += int64(resp.OutputTokens)
		tr.duration += resp.Duration

		fb, warning, perr := ParseFeedback(resp.Text)
		if perr == nil {
			return fb, warning, tr, nil
		}
		lastErr = perr
		e.log.Warn("critic output rejected",
			"attempt", attempt+1, "max_attempts", e.cfg.TurnRetries+1, "error", perr)
	}

	return nil, "", tr, fmt.Errorf("critic turn failed after %d attempts: %w", tr.attempts, lastErr)
}

func (e *Engine) complete(ctx context.Context, client llm.Client, req llm.Request, timeout time.Duration) (*llm.Response, error) {
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}
	return client.Complete(ctx, req)
}

// correctivePrompt appends the rejection detail so the model can fix the
// exact problems instead of guessing.
func correctivePrompt(prompt string, parseErr error) string {
	header := "Your previous response could not be used"
	switch {
	case errors.Is(parseErr, ErrMalformedOutput):
		header = "Your previous response was not parseable JSON"
	case errors.Is(parseErr, ErrSchemaViolation):
		header = "Your previous response violated the required schema"
	}
	return fmt.Sprintf("%s\n\n## CORRECTION REQUIRED\n%s:\n%v\n\nRespond again with ONLY a valid JSON object matching the required schema.",
		prompt, header, parseErr)
}
