package catalog

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDefaultCatalog(t *testing.T) {
	c := Default()

	want := []string{
		"CellularAutomataGenerator",
		"PerlinNoiseGenerator",
		"HeightLayerModifier",
		"ScatterModifier",
		"GrassDetailModifier",
	}
	for _, name := range want {
		tool, ok := c.Tool(name)
		if !ok {
			t.Fatalf("default catalog missing tool %q", name)
		}
		if tool.Name != name {
			t.Errorf("Tool(%q) returned tool named %q", name, tool.Name)
		}
		if len(tool.Params) == 0 {
			t.Errorf("tool %q declares no parameters", name)
		}
	}

	if _, ok := c.Tool("cellularautomatagenerator"); ok {
		t.Error("tool lookup should be case-sensitive")
	}
}

func TestParse(t *testing.T) {
	src := `
tools:
  - name: CellularAutomataGenerator
    kind: generator
    params:
      - name: width
        type: int
        required: true
        min: 16
        max: 256
notes: generators run first
`
	c, err := Parse([]byte(src))
	require.NoError(t, err)
	require.Len(t, c.Tools, 1)
	require.Equal(t, "generators run first", c.Notes)

	tool, ok := c.Tool("CellularAutomataGenerator")
	require.True(t, ok)
	require.True(t, tool.Params[0].Required)
	require.Equal(t, 16.0, *tool.Params[0].Min)
}

func TestParseEmpty(t *testing.T) {
	if _, err := Parse([]byte("notes: nothing here")); err == nil {
		t.Fatal("expected error for catalog with no tools")
	}
	if _, err := Parse([]byte(":::not yaml")); err == nil {
		t.Fatal("expected error for malformed yaml")
	}
}

func TestCheckArgs(t *testing.T) {
	c := Default()
	ca, _ := c.Tool("CellularAutomataGenerator")
	scatter, _ := c.Tool("ScatterModifier")

	validCA := map[string]any{
		"width":            64,
		"height":           64,
		"fill_probability": 0.45,
		"iterations":       5,
		"birth_limit":      4,
		"death_limit":      3,
	}

	tests := []struct {
		name     string
		tool     *Tool
		args     map[string]any
		wantErrs int
		wantSub  string
	}{
		{
			name: "valid generator args",
			tool: ca,
			args: validCA,
		},
		{
			name: "optional seed accepted",
			tool: ca,
			args: withArg(validCA, "seed", 42),
		},
		{
			name:     "unknown argument",
			tool:     ca,
			args:     withArg(validCA, "wrap_edges", true),
			wantErrs: 1,
			wantSub:  "unknown argument",
		},
		{
			name:     "missing required argument",
			tool:     ca,
			args:     without(validCA, "iterations"),
			wantErrs: 1,
			wantSub:  "required argument",
		},
		{
			name:     "value above declared maximum",
			tool:     ca,
			args:     withArg(validCA, "width", 1024),
			wantErrs: 1,
			wantSub:  "above the declared maximum",
		},
		{
			name:     "value below declared minimum",
			tool:     ca,
			args:     withArg(validCA, "fill_probability", -0.1),
			wantErrs: 1,
			wantSub:  "below the declared minimum",
		},
		{
			name:     "non-integer where int declared",
			tool:     ca,
			args:     withArg(validCA, "iterations", 2.5),
			wantErrs: 1,
			wantSub:  "must be an integer",
		},
		{
			name:     "wrong type",
			tool:     ca,
			args:     withArg(validCA, "width", "wide"),
			wantErrs: 1,
			wantSub:  "must be a number",
		},
		{
			name: "enum accepted",
			tool: scatter,
			args: map[string]any{
				"object_type":  "tree",
				"density":      0.3,
				"valid_layers": []any{0, 1},
			},
		},
		{
			name: "enum violation",
			tool: scatter,
			args: map[string]any{
				"object_type":  "boulder",
				"density":      0.3,
				"valid_layers": []any{0},
			},
			wantErrs: 1,
			wantSub:  "is not one of",
		},
		{
			name: "all problems reported at once",
			tool: ca,
			args: map[string]any{
				"width":  1024,
				"height": "tall",
			},
			wantErrs: 6, // two bad values plus four missing required params
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errs := tt.tool.CheckArgs(tt.args)
			if len(errs) != tt.wantErrs {
				t.Fatalf("CheckArgs() returned %d errors, want %d: %v", len(errs), tt.wantErrs, errs)
			}
			if tt.wantSub != "" && !strings.Contains(errs[0].Error(), tt.wantSub) {
				t.Errorf("error %q does not contain %q", errs[0], tt.wantSub)
			}
		})
	}
}

func TestRender(t *testing.T) {
	doc := Default().Render()

	for _, sub := range []string{
		"# PCG Tools API",
		"CellularAutomataGenerator",
		"GrassDetailModifier",
		"fill_probability",
		"Execution order",
	} {
		if !strings.Contains(doc, sub) {
			t.Errorf("rendered catalog missing %q", sub)
		}
	}
}

func TestDefaultExamples(t *testing.T) {
	examples := DefaultExamples()
	require.Len(t, examples, 2)
	for _, ex := range examples {
		require.Contains(t, ex, "trajectory_summary")
		require.Contains(t, ex, "```json")
	}
}

func withArg(base map[string]any, key string, val any) map[string]any {
	out := make(map[string]any, len(base)+1)
	for k, v := range base {
		out[k] = v
	}
	out[key] = val
	return out
}

func without(base map[string]any, key string) map[string]any {
	out := make(map[string]any, len(base))
	for k, v := range base {
		if k != key {
			out[k] = v
		}
	}
	return out
}
