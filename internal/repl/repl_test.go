package repl

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/mapforge/mapforge/internal/catalog"
	"github.com/mapforge/mapforge/internal/llm"
	"github.com/mapforge/mapforge/internal/refine"
)

const scriptedTrajectory = `{
  "trajectory_summary": "Generate a basic island using cellular automata tuned for a connected landmass.",
  "tool_plan": [
    {
      "step": 1,
      "objective": "Create island base shape",
      "tool_name": "CellularAutomataGenerator",
      "arguments": {"width": 64, "height": 64, "fill_probability": 0.45, "iterations": 5, "birth_limit": 4, "death_limit": 3},
      "expected_result": "Single connected landmass"
    }
  ],
  "risks": ["seed not fixed"]
}`

func scriptedREPL(t *testing.T) *REPL {
	t.Helper()
	actor := llm.NewScriptedClient("actor-model", llm.ScriptedResponse{Text: scriptedTrajectory})
	critic := llm.NewScriptedClient("critic-model",
		llm.ScriptedResponse{Text: `{"decision": "approve", "blocking_issues": []}`})
	engine := refine.NewEngine(actor, critic, catalog.Default(), refine.DefaultConfig(), nil)
	return New(Config{Engine: engine, MaxIterations: 2, ActorModel: "actor-model", CriticModel: "critic-model"})
}

func TestDispatchPlan(t *testing.T) {
	r := scriptedREPL(t)
	var out bytes.Buffer

	if err := r.Dispatch(context.Background(), &out, "plan a small island"); err != nil {
		t.Fatalf("Dispatch() error = %v", err)
	}
	if !strings.Contains(out.String(), "APPROVED") {
		t.Errorf("plan output missing verdict:\n%s", out.String())
	}
}

func TestDispatchBareTextIsPlan(t *testing.T) {
	r := scriptedREPL(t)
	var out bytes.Buffer

	if err := r.Dispatch(context.Background(), &out, "a small island"); err != nil {
		t.Fatalf("Dispatch() error = %v", err)
	}
	if !strings.Contains(out.String(), "CellularAutomataGenerator") {
		t.Errorf("bare-text plan output missing trajectory:\n%s", out.String())
	}
}

func TestDispatchIterations(t *testing.T) {
	r := scriptedREPL(t)
	var out bytes.Buffer
	ctx := context.Background()

	if err := r.Dispatch(ctx, &out, "iterations 5"); err != nil {
		t.Fatalf("Dispatch() error = %v", err)
	}
	if r.cfg.MaxIterations != 5 {
		t.Errorf("MaxIterations = %d, want 5", r.cfg.MaxIterations)
	}
	if err := r.Dispatch(ctx, &out, "iterations -1"); err == nil {
		t.Error("expected error for negative budget")
	}
	if err := r.Dispatch(ctx, &out, "iterations many"); err == nil {
		t.Error("expected error for non-numeric budget")
	}
}

func TestDispatchHistoryWithoutStore(t *testing.T) {
	r := scriptedREPL(t)
	var out bytes.Buffer

	if err := r.Dispatch(context.Background(), &out, "history"); err == nil {
		t.Error("expected error when no store is configured")
	}
}

func TestDispatchHelp(t *testing.T) {
	r := scriptedREPL(t)
	var out bytes.Buffer

	if err := r.Dispatch(context.Background(), &out, "help"); err != nil {
		t.Fatalf("Dispatch() error = %v", err)
	}
	for _, sub := range []string{"plan", "history", "iterations", "exit"} {
		if !strings.Contains(out.String(), sub) {
			t.Errorf("help output missing %q", sub)
		}
	}
}
