package refine

import (
	"errors"
	"strings"
	"testing"

	"github.com/mapforge/mapforge/internal/catalog"
	"github.com/mapforge/mapforge/internal/trajectory"
)

const validTrajectoryJSON = `{
  "trajectory_summary": "Generate a basic island using cellular automata tuned for a single connected landmass.",
  "tool_plan": [
    {
      "step": 1,
      "objective": "Create island base shape",
      "tool_name": "CellularAutomataGenerator",
      "arguments": {
        "width": 64,
        "height": 64,
        "fill_probability": 0.45,
        "iterations": 5,
        "birth_limit": 4,
        "death_limit": 3
      },
      "expected_result": "Single connected landmass with organic coastline"
    }
  ],
  "risks": ["Low fill probability may fragment the landmass"]
}`

func TestParseTrajectoryDirect(t *testing.T) {
	traj, err := ParseTrajectory(validTrajectoryJSON, catalog.Default())
	if err != nil {
		t.Fatalf("ParseTrajectory() error = %v", err)
	}
	if len(traj.Steps) != 1 || traj.Steps[0].Tool != "CellularAutomataGenerator" {
		t.Errorf("unexpected trajectory: %+v", traj)
	}
}

func TestParseTrajectoryRecoveryStrategies(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"fenced", "```json\n" + validTrajectoryJSON + "\n```"},
		{"fenced without language", "```\n" + validTrajectoryJSON + "\n```"},
		{"prose around object", "Here is the plan you asked for:\n\n" + validTrajectoryJSON + "\n\nLet me know if you need changes."},
		{"trailing comma", strings.Replace(validTrajectoryJSON, `"death_limit": 3`, `"death_limit": 3,`, 1)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ParseTrajectory(tt.raw, catalog.Default()); err != nil {
				t.Errorf("ParseTrajectory() error = %v", err)
			}
		})
	}
}

func TestParseTrajectoryMalformed(t *testing.T) {
	for _, raw := range []string{"", "I cannot help with that.", "{broken"} {
		_, err := ParseTrajectory(raw, catalog.Default())
		if !errors.Is(err, ErrMalformedOutput) {
			t.Errorf("ParseTrajectory(%q) error = %v, want ErrMalformedOutput", raw, err)
		}
	}
}

func TestParseTrajectorySchemaViolations(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(string) string
		wantSub string
	}{
		{
			name:    "unknown tool",
			mutate:  func(s string) string { return strings.Replace(s, "CellularAutomataGenerator", "CellularAutomataGen", 1) },
			wantSub: "does not exist",
		},
		{
			name:    "out of range value",
			mutate:  func(s string) string { return strings.Replace(s, `"width": 64`, `"width": 9999`, 1) },
			wantSub: "above the declared maximum",
		},
		{
			name:    "placeholder value",
			mutate:  func(s string) string { return strings.Replace(s, `"width": 64`, `"width": "TBD"`, 1) },
			wantSub: "placeholder",
		},
		{
			name:    "missing required argument",
			mutate:  func(s string) string { return strings.Replace(s, `"iterations": 5,`, "", 1) },
			wantSub: "required argument",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseTrajectory(tt.mutate(validTrajectoryJSON), catalog.Default())
			if !errors.Is(err, ErrSchemaViolation) {
				t.Fatalf("error = %v, want ErrSchemaViolation", err)
			}
			if !strings.Contains(err.Error(), tt.wantSub) {
				t.Errorf("error %q does not contain %q", err, tt.wantSub)
			}
		})
	}
}

func TestParseTrajectoryCollectsAllProblems(t *testing.T) {
	raw := strings.Replace(validTrajectoryJSON, `"width": 64`, `"width": 9999`, 1)
	raw = strings.Replace(raw, `"fill_probability": 0.45`, `"fill_probability": 1.5`, 1)

	_, err := ParseTrajectory(raw, catalog.Default())
	var sv *SchemaViolationError
	if !errors.As(err, &sv) {
		t.Fatalf("error = %v, want *SchemaViolationError", err)
	}
	if len(sv.Problems) != 2 {
		t.Errorf("Problems = %d, want 2: %v", len(sv.Problems), sv.Problems)
	}
}

func TestParseFeedbackApprove(t *testing.T) {
	fb, warning, err := ParseFeedback(`{"decision": "approve", "blocking_issues": []}`)
	if err != nil {
		t.Fatalf("ParseFeedback() error = %v", err)
	}
	if warning != "" {
		t.Errorf("unexpected warning %q", warning)
	}
	if !fb.Approved() {
		t.Error("feedback should be approved")
	}
}

func TestParseFeedbackRevise(t *testing.T) {
	raw := `{
	  "decision": "revise",
	  "blocking_issues": [
	    {"step": 1, "issue": "width exceeds maximum", "severity": "critical", "suggestion": "use 256 or less"}
	  ],
	  "missing_information": ["desired map size was not stated"],
	  "review_notes": "fill probability is aggressive but in range"
	}`
	fb, warning, err := ParseFeedback(raw)
	if err != nil {
		t.Fatalf("ParseFeedback() error = %v", err)
	}
	if warning != "" {
		t.Errorf("unexpected warning %q", warning)
	}
	if fb.Approved() {
		t.Error("feedback with issues must not be approved")
	}
	if fb.Issues[0].Severity != trajectory.SeverityCritical {
		t.Errorf("severity = %q", fb.Issues[0].Severity)
	}
}

func TestParseFeedbackContradictions(t *testing.T) {
	tests := []struct {
		name         string
		raw          string
		wantApproved bool
	}{
		{
			name:         "approve with issues resolves to revise",
			raw:          `{"decision": "approve", "blocking_issues": [{"step": 1, "issue": "bad tool", "severity": "critical"}]}`,
			wantApproved: false,
		},
		{
			name:         "revise with no issues resolves to approve",
			raw:          `{"decision": "revise", "blocking_issues": []}`,
			wantApproved: true,
		},
		{
			name:         "missing decision resolves from issues",
			raw:          `{"blocking_issues": []}`,
			wantApproved: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fb, warning, err := ParseFeedback(tt.raw)
			if err != nil {
				t.Fatalf("ParseFeedback() error = %v, want resolved contradiction", err)
			}
			if warning == "" {
				t.Error("expected a contradiction warning")
			}
			if fb.Approved() != tt.wantApproved {
				t.Errorf("Approved() = %v, want %v", fb.Approved(), tt.wantApproved)
			}
		})
	}
}

func TestParseFeedbackSchemaViolation(t *testing.T) {
	raw := `{"decision": "revise", "blocking_issues": [{"step": 1, "issue": "bad", "severity": "catastrophic"}]}`
	_, _, err := ParseFeedback(raw)
	if !errors.Is(err, ErrSchemaViolation) {
		t.Fatalf("error = %v, want ErrSchemaViolation", err)
	}
}
