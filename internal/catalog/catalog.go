// Package catalog models the PCG tool reference documentation supplied to a
// refinement run: the tools the Actor may plan with, their parameters, and
// the declared valid ranges the validator cross-checks trajectories against.
package catalog

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// ParamType enumerates the declared type of a tool parameter.
type ParamType string

const (
	TypeInt    ParamType = "int"
	TypeFloat  ParamType = "float"
	TypeString ParamType = "string"
	TypeBool   ParamType = "bool"
	TypeList   ParamType = "list"
)

// Param declares one tool parameter.
type Param struct {
	Name        string    `yaml:"name"`
	Type        ParamType `yaml:"type"`
	Required    bool      `yaml:"required"`
	Description string    `yaml:"description,omitempty"`

	// Min and Max bound numeric parameters, inclusive. Nil means unbounded.
	Min *float64 `yaml:"min,omitempty"`
	Max *float64 `yaml:"max,omitempty"`

	// Enum restricts string parameters to a fixed value set.
	Enum []string `yaml:"enum,omitempty"`
}

// Tool declares one PCG tool.
type Tool struct {
	Name        string  `yaml:"name"`
	Kind        string  `yaml:"kind"` // "generator" or "modifier"
	Description string  `yaml:"description,omitempty"`
	Params      []Param `yaml:"params"`
}

// Catalog is the full tool reference for one run. It is read-only once
// constructed; the refinement loop never mutates it.
type Catalog struct {
	Tools []Tool `yaml:"tools"`

	// Notes carries free-text guidance appended to the rendered
	// documentation, such as execution-order rules.
	Notes string `yaml:"notes,omitempty"`

	byName map[string]*Tool
}

// Load reads a catalog from a YAML file.
func Load(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading catalog file: %w", err)
	}
	return Parse(data)
}

// Parse decodes a catalog from YAML bytes.
func Parse(data []byte) (*Catalog, error) {
	var c Catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("parsing catalog: %w", err)
	}
	if len(c.Tools) == 0 {
		return nil, fmt.Errorf("catalog declares no tools")
	}
	c.index()
	return &c, nil
}

func (c *Catalog) index() {
	c.byName = make(map[string]*Tool, len(c.Tools))
	for i := range c.Tools {
		c.byName[c.Tools[i].Name] = &c.Tools[i]
	}
}

// Tool looks up a tool by its exact, case-sensitive name.
func (c *Catalog) Tool(name string) (*Tool, bool) {
	if c.byName == nil {
		c.index()
	}
	t, ok := c.byName[name]
	return t, ok
}

// CheckArgs validates an argument mapping against the tool's declaration:
// unknown argument names, missing required parameters, type mismatches, and
// out-of-range numeric values are all reported. All problems are returned,
// not just the first, so the Critic's corrective prompt can list everything
// at once.
func (t *Tool) CheckArgs(args map[string]any) []error {
	var errs []error

	declared := make(map[string]*Param, len(t.Params))
	for i := range t.Params {
		declared[t.Params[i].Name] = &t.Params[i]
	}

	for name := range args {
		if _, ok := declared[name]; !ok {
			errs = append(errs, fmt.Errorf("%s: unknown argument %q", t.Name, name))
		}
	}

	for _, p := range t.Params {
		val, present := args[p.Name]
		if !present {
			if p.Required {
				errs = append(errs, fmt.Errorf("%s: required argument %q is missing", t.Name, p.Name))
			}
			continue
		}
		if err := p.check(val); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", t.Name, err))
		}
	}

	return errs
}

func (p *Param) check(val any) error {
	switch p.Type {
	case TypeInt, TypeFloat:
		num, ok := asNumber(val)
		if !ok {
			return fmt.Errorf("argument %q must be a number, got %T", p.Name, val)
		}
		if p.Type == TypeInt && num != float64(int64(num)) {
			return fmt.Errorf("argument %q must be an integer, got %v", p.Name, val)
		}
		if p.Min != nil && num < *p.Min {
			return fmt.Errorf("argument %q value %v is below the declared minimum %v", p.Name, val, *p.Min)
		}
		if p.Max != nil && num > *p.Max {
			return fmt.Errorf("argument %q value %v is above the declared maximum %v", p.Name, val, *p.Max)
		}
	case TypeString:
		s, ok := val.(string)
		if !ok {
			return fmt.Errorf("argument %q must be a string, got %T", p.Name, val)
		}
		if len(p.Enum) > 0 && !contains(p.Enum, s) {
			return fmt.Errorf("argument %q value %q is not one of [%s]", p.Name, s, strings.Join(p.Enum, ", "))
		}
	case TypeBool:
		if _, ok := val.(bool); !ok {
			return fmt.Errorf("argument %q must be a boolean, got %T", p.Name, val)
		}
	case TypeList:
		if _, ok := val.([]any); !ok {
			return fmt.Errorf("argument %q must be a list, got %T", p.Name, val)
		}
	}
	return nil
}

// asNumber normalizes the numeric types json.Unmarshal and yaml.Unmarshal
// can produce.
func asNumber(val any) (float64, bool) {
	switch v := val.(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	}
	return 0, false
}

func contains(set []string, want string) bool {
	for _, s := range set {
		if s == want {
			return true
		}
	}
	return false
}
