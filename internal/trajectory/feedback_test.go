package trajectory

import (
	"strings"
	"testing"
)

func TestFeedbackApproved(t *testing.T) {
	approve := &Feedback{Verdict: VerdictApprove}
	if !approve.Approved() {
		t.Error("feedback with no issues should be approved")
	}

	// The issue collection is authoritative, not the verdict string.
	contradictory := &Feedback{
		Verdict: VerdictApprove,
		Issues:  []Issue{{Step: 1, Description: "bad tool name", Severity: SeverityCritical}},
	}
	if contradictory.Approved() {
		t.Error("feedback with issues should not be approved regardless of verdict")
	}
}

func TestFeedbackValidate(t *testing.T) {
	tests := []struct {
		name    string
		fb      Feedback
		wantErr string
	}{
		{
			name: "valid revise feedback",
			fb: Feedback{
				Verdict: VerdictRevise,
				Issues: []Issue{
					{Step: 2, Description: "fill_probability out of range", Severity: SeverityCritical, Suggestion: "use 0.45"},
					{Step: 0, Description: "plan does not address the grass requirement", Severity: SeverityMajor},
				},
			},
		},
		{
			name:    "negative step",
			fb:      Feedback{Issues: []Issue{{Step: -1, Description: "x", Severity: SeverityMajor}}},
			wantErr: "negative",
		},
		{
			name:    "empty description",
			fb:      Feedback{Issues: []Issue{{Step: 1, Description: " ", Severity: SeverityMajor}}},
			wantErr: "issue",
		},
		{
			name:    "unknown severity",
			fb:      Feedback{Issues: []Issue{{Step: 1, Description: "x", Severity: "blocker"}}},
			wantErr: "unknown severity",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.fb.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("Validate() = %v, want nil", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Validate() = %v, want substring %q", err, tt.wantErr)
			}
		})
	}
}

func TestFeedbackRender(t *testing.T) {
	fb := &Feedback{
		Verdict: VerdictRevise,
		Issues: []Issue{
			{Step: 1, Description: "unknown tool", Severity: SeverityCritical, Suggestion: "use CellularAutomataGenerator"},
			{Step: 0, Description: "missing grass coverage", Severity: SeverityMajor},
		},
		MissingInformation: []string{"target map size not specified"},
		ReviewNotes:        "width of 64 is small but valid",
	}

	out := fb.Render()
	for _, want := range []string{
		"CRITIC DECISION: REVISE",
		"[CRITICAL] step 1: unknown tool",
		"Fix: use CellularAutomataGenerator",
		"[MAJOR] whole plan: missing grass coverage",
		"target map size not specified",
		"width of 64 is small but valid",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("Render() missing %q in:\n%s", want, out)
		}
	}
}

func TestRefinementResultCounts(t *testing.T) {
	res := &RefinementResult{
		Iterations: []IterationRecord{
			{Iteration: 0, Role: RoleActor, Valid: true, InputTokens: 100, OutputTokens: 50},
			{Iteration: 0, Role: RoleCritic, Valid: true, Verdict: VerdictRevise, InputTokens: 80, OutputTokens: 20},
			{Iteration: 1, Role: RoleActor, Valid: true, InputTokens: 120, OutputTokens: 60},
		},
		TotalInputTokens:  300,
		TotalOutputTokens: 130,
	}

	if got := res.ActorTurns(); got != 2 {
		t.Errorf("ActorTurns() = %d, want 2", got)
	}
	if got := res.CriticTurns(); got != 1 {
		t.Errorf("CriticTurns() = %d, want 1", got)
	}
	if got := res.TotalTokens(); got != 430 {
		t.Errorf("TotalTokens() = %d, want 430", got)
	}
}
