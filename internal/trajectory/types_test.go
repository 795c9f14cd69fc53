package trajectory

import (
	"encoding/json"
	"strings"
	"testing"
)

func validTrajectory() *Trajectory {
	return &Trajectory{
		Summary: "Generate a small island with cellular automata",
		Steps: []Step{
			{
				Index:          1,
				Objective:      "Create the island base shape",
				Tool:           "CellularAutomataGenerator",
				Args:           map[string]any{"width": 64, "height": 64, "fill_probability": 0.45},
				ExpectedResult: "Single connected landmass",
			},
			{
				Index:          2,
				Objective:      "Scatter rocks on the coastline",
				Tool:           "ScatterModifier",
				Args:           map[string]any{"object_type": "rock", "density": 0.2},
				ExpectedResult: "Rocks placed along the shore",
			},
		},
		Risks: []string{"Fill probability may fragment the landmass"},
	}
}

func TestTrajectoryValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Trajectory)
		wantErr string
	}{
		{
			name:   "valid trajectory",
			mutate: func(*Trajectory) {},
		},
		{
			name:    "empty summary",
			mutate:  func(tr *Trajectory) { tr.Summary = "  " },
			wantErr: "trajectory_summary",
		},
		{
			name:    "no steps",
			mutate:  func(tr *Trajectory) { tr.Steps = nil },
			wantErr: "at least one step",
		},
		{
			name:    "non-sequential indices",
			mutate:  func(tr *Trajectory) { tr.Steps[1].Index = 3 },
			wantErr: "sequential",
		},
		{
			name:    "indices not starting at 1",
			mutate:  func(tr *Trajectory) { tr.Steps[0].Index = 0 },
			wantErr: "expected 1, got 0",
		},
		{
			name:    "empty tool name",
			mutate:  func(tr *Trajectory) { tr.Steps[0].Tool = "" },
			wantErr: "tool_name",
		},
		{
			name:    "empty argument mapping",
			mutate:  func(tr *Trajectory) { tr.Steps[1].Args = map[string]any{} },
			wantErr: "arguments",
		},
		{
			name:    "placeholder argument",
			mutate:  func(tr *Trajectory) { tr.Steps[0].Args["seed"] = "TBD" },
			wantErr: "placeholder",
		},
		{
			name:    "nested placeholder argument",
			mutate:  func(tr *Trajectory) { tr.Steps[0].Args["opts"] = map[string]any{"mode": "TODO"} },
			wantErr: "placeholder",
		},
		{
			name:    "null argument",
			mutate:  func(tr *Trajectory) { tr.Steps[0].Args["seed"] = nil },
			wantErr: "null",
		},
		{
			name:    "empty objective",
			mutate:  func(tr *Trajectory) { tr.Steps[0].Objective = "" },
			wantErr: "objective",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tr := validTrajectory()
			tt.mutate(tr)
			err := tr.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("Validate() = %v, want nil", err)
				}
				return
			}
			if err == nil {
				t.Fatalf("Validate() = nil, want error containing %q", tt.wantErr)
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Validate() = %q, want substring %q", err, tt.wantErr)
			}
		})
	}
}

func TestTrajectoryRoundTrip(t *testing.T) {
	original := validTrajectory()

	data, err := json.Marshal(original)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}

	var decoded Trajectory
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}

	if decoded.Summary != original.Summary {
		t.Errorf("summary changed: %q != %q", decoded.Summary, original.Summary)
	}
	if len(decoded.Steps) != len(original.Steps) {
		t.Fatalf("step count changed: %d != %d", len(decoded.Steps), len(original.Steps))
	}
	for i, s := range decoded.Steps {
		if s.Index != original.Steps[i].Index || s.Tool != original.Steps[i].Tool {
			t.Errorf("step %d changed: %+v != %+v", i, s, original.Steps[i])
		}
	}
	if err := decoded.Validate(); err != nil {
		t.Errorf("round-tripped trajectory no longer validates: %v", err)
	}
}

func TestTrajectoryTools(t *testing.T) {
	tr := validTrajectory()
	tools := tr.Tools()
	want := []string{"CellularAutomataGenerator", "ScatterModifier"}
	if len(tools) != len(want) {
		t.Fatalf("Tools() = %v, want %v", tools, want)
	}
	for i := range want {
		if tools[i] != want[i] {
			t.Errorf("Tools()[%d] = %q, want %q", i, tools[i], want[i])
		}
	}
}

func TestStepAt(t *testing.T) {
	tr := validTrajectory()
	if s := tr.StepAt(2); s == nil || s.Tool != "ScatterModifier" {
		t.Errorf("StepAt(2) = %+v, want ScatterModifier step", s)
	}
	if s := tr.StepAt(99); s != nil {
		t.Errorf("StepAt(99) = %+v, want nil", s)
	}
}
