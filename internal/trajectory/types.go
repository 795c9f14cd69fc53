// Package trajectory defines the typed plan model exchanged between the
// Actor and Critic roles: the candidate tool-invocation plan produced by the
// Actor, the structured critique returned by the Critic, and the terminal
// result of a refinement run.
package trajectory

import (
	"fmt"
	"strings"
)

// Step is a single tool invocation within a trajectory.
type Step struct {
	// Index is the 1-based position of this step. Indices must be
	// sequential starting at 1.
	Index int `json:"step"`

	// Objective describes what this step achieves in the generation pipeline.
	Objective string `json:"objective"`

	// Tool is the exact tool name from the reference documentation
	// (case-sensitive).
	Tool string `json:"tool_name"`

	// Args maps parameter names to concrete values. Placeholders are not
	// allowed; every step must carry at least one argument.
	Args map[string]any `json:"arguments"`

	// ExpectedResult states verifiable success criteria for the step.
	ExpectedResult string `json:"expected_result"`
}

// Trajectory is a candidate execution plan (S_i): an ordered sequence of tool
// invocations that together satisfy a user request. A trajectory is owned by
// the loop iteration that produced it and is superseded, never mutated, by
// the next iteration's trajectory.
type Trajectory struct {
	// Summary is a high-level overview of the overall approach.
	Summary string `json:"trajectory_summary"`

	// Steps is the ordered tool plan.
	Steps []Step `json:"tool_plan"`

	// Risks lists potential blocking risks or missing information the
	// Actor identified while planning.
	Risks []string `json:"risks"`
}

// placeholders are argument values that indicate the model punted on a
// concrete choice. They fail validation so a half-specified plan never
// reaches the Critic.
var placeholders = map[string]struct{}{
	"TBD":         {},
	"TODO":        {},
	"PLACEHOLDER": {},
	"???":         {},
	"N/A":         {},
	"":            {},
}

// Validate checks the structural invariants of the trajectory: non-empty
// summary, at least one step, sequential 1-based step indices, and for every
// step a non-empty tool name and a non-empty argument mapping with no
// placeholder values. It returns the first violation found, with the
// offending field in the error text.
func (t *Trajectory) Validate() error {
	if strings.TrimSpace(t.Summary) == "" {
		return fmt.Errorf("trajectory_summary: must not be empty")
	}
	if len(t.Steps) == 0 {
		return fmt.Errorf("tool_plan: must contain at least one step")
	}
	for i, s := range t.Steps {
		want := i + 1
		if s.Index != want {
			return fmt.Errorf("tool_plan[%d].step: indices must be sequential starting at 1 (expected %d, got %d)", i, want, s.Index)
		}
		if strings.TrimSpace(s.Objective) == "" {
			return fmt.Errorf("tool_plan[%d].objective: must not be empty", i)
		}
		if strings.TrimSpace(s.Tool) == "" {
			return fmt.Errorf("tool_plan[%d].tool_name: must not be empty", i)
		}
		if len(s.Args) == 0 {
			return fmt.Errorf("tool_plan[%d].arguments: must not be empty", i)
		}
		if err := checkArgValues(s.Args); err != nil {
			return fmt.Errorf("tool_plan[%d].arguments: %w", i, err)
		}
		if strings.TrimSpace(s.ExpectedResult) == "" {
			return fmt.Errorf("tool_plan[%d].expected_result: must not be empty", i)
		}
	}
	return nil
}

// checkArgValues walks an argument mapping and rejects nil values and
// placeholder strings, recursing into nested maps and lists.
func checkArgValues(args map[string]any) error {
	for key, val := range args {
		if val == nil {
			return fmt.Errorf("%s: value must not be null", key)
		}
		if err := checkValue(key, val); err != nil {
			return err
		}
	}
	return nil
}

func checkValue(path string, val any) error {
	switch v := val.(type) {
	case string:
		if _, bad := placeholders[strings.ToUpper(strings.TrimSpace(v))]; bad {
			return fmt.Errorf("%s: placeholder value %q not allowed", path, v)
		}
	case map[string]any:
		for k, inner := range v {
			if inner == nil {
				return fmt.Errorf("%s.%s: value must not be null", path, k)
			}
			if err := checkValue(path+"."+k, inner); err != nil {
				return err
			}
		}
	case []any:
		for i, item := range v {
			if err := checkValue(fmt.Sprintf("%s[%d]", path, i), item); err != nil {
				return err
			}
		}
	}
	return nil
}

// Tools returns the tool name of every step, in plan order.
func (t *Trajectory) Tools() []string {
	names := make([]string, 0, len(t.Steps))
	for _, s := range t.Steps {
		names = append(names, s.Tool)
	}
	return names
}

// StepAt returns the step with the given 1-based index, or nil if no such
// step exists.
func (t *Trajectory) StepAt(index int) *Step {
	for i := range t.Steps {
		if t.Steps[i].Index == index {
			return &t.Steps[i]
		}
	}
	return nil
}
