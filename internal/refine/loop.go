package refine

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/mapforge/mapforge/internal/catalog"
	"github.com/mapforge/mapforge/internal/llm"
	"github.com/mapforge/mapforge/internal/trajectory"
)

// Config holds the loop's tuning knobs. The iteration budget K is per-run
// and lives on Request instead.
type Config struct {
	// ActorTemperature allows creative variation in plan generation.
	ActorTemperature float64

	// CriticTemperature is kept low for consistent, conservative review.
	CriticTemperature float64

	ActorMaxTokens  int
	CriticMaxTokens int

	// TurnRetries is the per-turn budget for corrective re-prompts after
	// malformed or schema-violating output. Zero means one attempt only.
	TurnRetries int

	ActorTimeout  time.Duration
	CriticTimeout time.Duration
}

// DefaultConfig returns the standard loop tuning. The Critic's token budget
// is half the Actor's: critiques are shorter than plans.
func DefaultConfig() Config {
	return Config{
		ActorTemperature:  0.4,
		CriticTemperature: 0.2,
		ActorMaxTokens:    4096,
		CriticMaxTokens:   2048,
		TurnRetries:       2,
		ActorTimeout:      2 * time.Minute,
		CriticTimeout:     2 * time.Minute,
	}
}

// Request describes one refinement run.
type Request struct {
	// Prompt is the natural-language description of the desired output.
	Prompt string

	// MaxIterations is the review budget K: how many Critic review cycles
	// may run. Zero is valid and means generate-only, no review.
	MaxIterations int

	// Examples optionally overrides the catalogue's worked examples.
	Examples []string
}

// Engine drives the refinement loop. Actor and Critic may be the same client
// or different models entirely.
type Engine struct {
	actor  llm.Client
	critic llm.Client
	cat    *catalog.Catalog
	cfg    Config
	log    *slog.Logger
}

// NewEngine creates a loop engine. A nil logger falls back to slog.Default.
func NewEngine(actor, critic llm.Client, cat *catalog.Catalog, cfg Config, log *slog.Logger) *Engine {
	if log == nil {
		log = slog.Default()
	}
	return &Engine{actor: actor, critic: critic, cat: cat, cfg: cfg, log: log}
}

// Run executes one refinement: generate an initial trajectory, then up to
// MaxIterations review cycles of Critic critique and Actor revision.
//
// The result is non-nil even on failure so callers can inspect the partial
// iteration log; a failed run also returns a non-nil error.
func (e *Engine) Run(ctx context.Context, req Request) (*trajectory.RefinementResult, error) {
	start := time.Now()

	res := &trajectory.RefinementResult{Prompt: req.Prompt}
	fail := func(err error) (*trajectory.RefinementResult, error) {
		res.Termination = trajectory.TerminationFailed
		res.Elapsed = time.Since(start)
		return res, err
	}

	if req.Prompt == "" {
		return fail(fmt.Errorf("empty prompt"))
	}
	if req.MaxIterations < 0 {
		return fail(fmt.Errorf("max iterations must not be negative, got %d", req.MaxIterations))
	}

	examples := req.Examples
	if examples == nil {
		examples = catalog.DefaultExamples()
	}
	buf := NewContext(req.Prompt, e.cat.Render(), examples)

	e.log.Info("refinement run starting",
		"actor_model", e.actor.Model(),
		"critic_model", e.critic.Model(),
		"max_iterations", req.MaxIterations)

	// Initial generation.
	current, tr, err := e.runActorTurn(ctx, buf.ActorPrompt())
	res.Iterations = append(res.Iterations, record(0, trajectory.RoleActor, tr, err))
	res.TotalInputTokens += tr.inTokens
	res.TotalOutputTokens += tr.outTokens
	if err != nil {
		return fail(fmt.Errorf("initial generation: %w", err))
	}

	for i := 0; i < req.MaxIterations; i++ {
		if cerr := ctx.Err(); cerr != nil {
			return fail(fmt.Errorf("canceled before iteration %d: %w", i+1, cerr))
		}
		e.log.Info("review iteration", "iteration", i+1, "budget", req.MaxIterations)

		fb, warning, tr, err := e.runCriticTurn(ctx, buf.CriticPrompt(current))
		rec := record(i, trajectory.RoleCritic, tr, err)
		rec.Warning = warning
		if fb != nil {
			rec.Verdict = fb.EffectiveVerdict()
		}
		res.Iterations = append(res.Iterations, rec)
		res.TotalInputTokens += tr.inTokens
		res.TotalOutputTokens += tr.outTokens
		if err != nil {
			return fail(fmt.Errorf("critic review (iteration %d): %w", i+1, err))
		}
		if warning != "" {
			e.log.Warn("contradictory critic feedback resolved", "iteration", i+1, "detail", warning)
		}

		if fb.Approved() {
			e.log.Info("critic approved trajectory", "iteration", i+1)
			res.Trajectory = current
			res.Approved = true
			res.Termination = trajectory.TerminationApproved
			res.Elapsed = time.Since(start)
			return res, nil
		}

		// State replacement: the buffer keeps only this pair.
		buf.Update(current, fb)

		if cerr := ctx.Err(); cerr != nil {
			return fail(fmt.Errorf("canceled before revision %d: %w", i+1, cerr))
		}

		current, tr, err = e.runActorTurn(ctx, buf.ActorPrompt())
		res.Iterations = append(res.Iterations, record(i+1, trajectory.RoleActor, tr, err))
		res.TotalInputTokens += tr.inTokens
		res.TotalOutputTokens += tr.outTokens
		if err != nil {
			return fail(fmt.Errorf("revision (iteration %d): %w", i+1, err))
		}
	}

	// Budget exhausted. The last trajectory is returned best-effort,
	// unreviewed when K is zero.
	e.log.Warn("iteration budget exhausted, returning best effort",
		"max_iterations", req.MaxIterations)
	res.Trajectory = current
	res.Termination = trajectory.TerminationMaxIterations
	res.Elapsed = time.Since(start)
	return res, nil
}

func record(iteration int, role trajectory.Role, tr *turnResult, err error) trajectory.IterationRecord {
	rec := trajectory.IterationRecord{
		Iteration:    iteration,
		Role:         role,
		OutputDigest: digest(tr.raw),
		Valid:        err == nil,
		Attempts:     tr.attempts,
		InputTokens:  tr.inTokens,
		OutputTokens: tr.outTokens,
		Duration:     tr.duration,
		Timestamp:    time.Now().UTC(),
	}
	if err != nil {
		rec.Error = err.Error()
	}
	return rec
}

const digestLimit = 200

func digest(raw string) string {
	if len(raw) <= digestLimit {
		return raw
	}
	return raw[:digestLimit] + "..."
}
