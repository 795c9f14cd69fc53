package report

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/mapforge/mapforge/internal/trajectory"
)

func approvedResult() *trajectory.RefinementResult {
	return &trajectory.RefinementResult{
		Prompt:   "make an island",
		Approved: true,
		Trajectory: &trajectory.Trajectory{
			Summary: "island via cellular automata",
			Steps: []trajectory.Step{{
				Index: 1, Objective: "base shape", Tool: "CellularAutomataGenerator",
				Args:           map[string]any{"width": 64, "height": 64},
				ExpectedResult: "connected landmass",
			}},
			Risks: []string{"seed not fixed"},
		},
		Termination: trajectory.TerminationApproved,
		Iterations: []trajectory.IterationRecord{
			{Iteration: 0, Role: trajectory.RoleActor, Valid: true, Attempts: 1, Duration: time.Second},
			{Iteration: 0, Role: trajectory.RoleCritic, Valid: true, Attempts: 1,
				Verdict: trajectory.VerdictApprove, Warning: "critic omitted a decision"},
		},
		TotalInputTokens:  1000,
		TotalOutputTokens: 300,
		Elapsed:           3 * time.Second,
	}
}

func TestWriteText(t *testing.T) {
	var buf bytes.Buffer
	WriteText(&buf, approvedResult())
	out := buf.String()

	for _, sub := range []string{
		"APPROVED",
		"island via cellular automata",
		"CellularAutomataGenerator",
		"width = 64",
		"seed not fixed",
		"critic omitted a decision",
	} {
		if !strings.Contains(out, sub) {
			t.Errorf("text report missing %q:\n%s", sub, out)
		}
	}
}

func TestWriteTextFailedRun(t *testing.T) {
	res := &trajectory.RefinementResult{
		Prompt:      "make an island",
		Termination: trajectory.TerminationFailed,
		Iterations: []trajectory.IterationRecord{
			{Iteration: 0, Role: trajectory.RoleActor, Valid: false, Attempts: 3, Error: "actor output is not parseable JSON"},
		},
	}

	var buf bytes.Buffer
	WriteText(&buf, res)
	out := buf.String()

	if !strings.Contains(out, "FAILED") || !strings.Contains(out, "not parseable JSON") {
		t.Errorf("failed-run report incomplete:\n%s", out)
	}
	if !strings.Contains(out, "(3 attempts)") {
		t.Errorf("attempt count missing:\n%s", out)
	}
}

func TestWriteJSONRoundTrips(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteJSON(&buf, approvedResult()); err != nil {
		t.Fatalf("WriteJSON() error = %v", err)
	}

	var decoded trajectory.RefinementResult
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if decoded.Termination != trajectory.TerminationApproved || !decoded.Approved {
		t.Errorf("decoded result lost fields: %+v", decoded)
	}
}

func TestWriteSummaryLine(t *testing.T) {
	var buf bytes.Buffer
	WriteSummaryLine(&buf, "run-1", strings.Repeat("very long prompt ", 10), trajectory.TerminationMaxIterations)
	out := buf.String()

	if !strings.Contains(out, "run-1") || !strings.Contains(out, "exhausted") {
		t.Errorf("summary line incomplete: %q", out)
	}
	if !strings.Contains(out, "...") {
		t.Errorf("long prompt not truncated: %q", out)
	}
}
