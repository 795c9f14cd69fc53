package refine

import (
	"fmt"

	"github.com/mapforge/mapforge/internal/catalog"
	"github.com/mapforge/mapforge/internal/trajectory"
)

const (
	roleActor  = "actor"
	roleCritic = "critic"
)

// ParseTrajectory decodes and validates an Actor response. Structural
// validation and the catalogue cross-check (tool existence, argument names,
// types, ranges) run together so every problem is reported in one pass.
func ParseTrajectory(raw string, cat *catalog.Catalog) (*trajectory.Trajectory, error) {
	var t trajectory.Trajectory
	if err := decodeJSON(raw, &t); err != nil {
		return nil, &MalformedOutputError{Role: roleActor, Detail: err.Error()}
	}

	var problems []string
	if err := t.Validate(); err != nil {
		problems = append(problems, err.Error())
	}

	for i := range t.Steps {
		step := &t.Steps[i]
		tool, ok := cat.Tool(step.Tool)
		if !ok {
			problems = append(problems, fmt.Sprintf(
				"step %d: tool %q does not exist in the documentation (names are case-sensitive)",
				step.Index, step.Tool))
			continue
		}
		for _, err := range tool.CheckArgs(step.Args) {
			problems = append(problems, fmt.Sprintf("step %d: %v", step.Index, err))
		}
	}

	if len(problems) > 0 {
		return nil, &SchemaViolationError{Role: roleActor, Problems: problems}
	}
	return &t, nil
}

// ParseFeedback decodes and validates a Critic response.
//
// The verdict is resolved from the blocking-issue list, which is
// authoritative: an empty list means approval regardless of the stated
// decision. When the stated decision contradicts the issue list (or is
// missing), the feedback is still accepted and a warning describing the
// contradiction is returned for the iteration record.
func ParseFeedback(raw string) (*trajectory.Feedback, string, error) {
	var fb trajectory.Feedback
	if err := decodeJSON(raw, &fb); err != nil {
		return nil, "", &MalformedOutputError{Role: roleCritic, Detail: err.Error()}
	}

	if err := fb.Validate(); err != nil {
		return nil, "", schemaViolation(roleCritic, err.Error())
	}

	warning := ""
	switch {
	case fb.Verdict == "":
		warning = fmt.Sprintf("critic omitted a decision; resolved to %q from %d blocking issues",
			fb.EffectiveVerdict(), len(fb.Issues))
	case fb.Verdict == trajectory.VerdictApprove && len(fb.Issues) > 0:
		warning = fmt.Sprintf("critic said %q but raised %d blocking issues; treating as revise",
			fb.Verdict, len(fb.Issues))
	case fb.Verdict == trajectory.VerdictRevise && len(fb.Issues) == 0:
		warning = fmt.Sprintf("critic said %q with no blocking issues; treating as approve", fb.Verdict)
	case fb.Verdict != trajectory.VerdictApprove && fb.Verdict != trajectory.VerdictRevise:
		warning = fmt.Sprintf("critic decision %q is not approve/revise; resolved to %q from the issue list",
			fb.Verdict, fb.EffectiveVerdict())
	}

	return &fb, warning, nil
}
