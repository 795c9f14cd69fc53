package trajectory

import (
	"fmt"
	"strings"
)

// Verdict is the Critic's binary decision on a trajectory.
type Verdict string

const (
	// VerdictApprove indicates the trajectory passed review.
	VerdictApprove Verdict = "approve"

	// VerdictRevise indicates the trajectory has blocking issues and must
	// be regenerated.
	VerdictRevise Verdict = "revise"
)

// Severity classifies how damaging a blocking issue is.
type Severity string

const (
	// SeverityCritical marks issues that will definitely cause execution
	// failure (unknown tool, missing required parameter, invalid value).
	SeverityCritical Severity = "critical"

	// SeverityMajor marks issues that will likely produce incorrect
	// results but may still execute.
	SeverityMajor Severity = "major"
)

// Issue is a single problem the Critic found in a trajectory.
type Issue struct {
	// Step is the 1-based index of the offending step. Zero means the
	// issue applies to the plan as a whole.
	Step int `json:"step"`

	// Description states what is wrong.
	Description string `json:"issue"`

	// Severity is critical or major.
	Severity Severity `json:"severity"`

	// Suggestion is an actionable fix, when the Critic offered one.
	Suggestion string `json:"suggestion,omitempty"`
}

// Feedback is the Critic's structured critique of one trajectory.
//
// Invariant: the verdict is "approve" if and only if Issues is empty. The
// parser enforces this with the issues-emptiness rule rather than trusting
// the verdict string; see refine.ParseFeedback.
type Feedback struct {
	Verdict Verdict `json:"decision"`
	Issues  []Issue `json:"blocking_issues"`

	// MissingInformation lists unclear requirements or documentation gaps
	// that prevented a thorough review.
	MissingInformation []string `json:"missing_information,omitempty"`

	// ReviewNotes records borderline items the Critic chose not to flag.
	ReviewNotes string `json:"review_notes,omitempty"`
}

// Approved reports whether the feedback carries no blocking issues. The
// issue collection, not the verdict string, is authoritative.
func (f *Feedback) Approved() bool {
	return len(f.Issues) == 0
}

// EffectiveVerdict returns the verdict implied by the issue list, which may
// differ from the stated Verdict when the Critic contradicts itself.
func (f *Feedback) EffectiveVerdict() Verdict {
	if f.Approved() {
		return VerdictApprove
	}
	return VerdictRevise
}

// Validate checks the well-formedness of each issue: a known severity, a
// non-empty description, and a non-negative step index. Verdict/issues
// consistency is deliberately not checked here; the parser resolves
// contradictions via the issues-emptiness rule.
func (f *Feedback) Validate() error {
	for i, issue := range f.Issues {
		if issue.Step < 0 {
			return fmt.Errorf("blocking_issues[%d].step: must not be negative", i)
		}
		if strings.TrimSpace(issue.Description) == "" {
			return fmt.Errorf("blocking_issues[%d].issue: must not be empty", i)
		}
		switch issue.Severity {
		case SeverityCritical, SeverityMajor:
		default:
			return fmt.Errorf("blocking_issues[%d].severity: unknown severity %q (want %q or %q)",
				i, issue.Severity, SeverityCritical, SeverityMajor)
		}
	}
	return nil
}

// Render formats the feedback for injection into the Actor's revision
// context.
func (f *Feedback) Render() string {
	var b strings.Builder
	fmt.Fprintf(&b, "## CRITIC DECISION: %s\n", strings.ToUpper(string(f.Verdict)))

	if len(f.Issues) > 0 {
		b.WriteString("\n### BLOCKING ISSUES (must fix)\n")
		for _, issue := range f.Issues {
			where := "whole plan"
			if issue.Step > 0 {
				where = fmt.Sprintf("step %d", issue.Step)
			}
			fmt.Fprintf(&b, "- [%s] %s: %s\n", strings.ToUpper(string(issue.Severity)), where, issue.Description)
			if issue.Suggestion != "" {
				fmt.Fprintf(&b, "  Fix: %s\n", issue.Suggestion)
			}
		}
	}

	if len(f.MissingInformation) > 0 {
		b.WriteString("\n### MISSING INFORMATION\n")
		for _, info := range f.MissingInformation {
			fmt.Fprintf(&b, "- %s\n", info)
		}
	}

	if f.ReviewNotes != "" {
		b.WriteString("\n### REVIEWER NOTES\n")
		b.WriteString(f.ReviewNotes)
		b.WriteString("\n")
	}

	return b.String()
}
