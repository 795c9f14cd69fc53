package catalog

import (
	"fmt"
	"strings"
)

// Render formats the catalog as the API-documentation text block handed to
// both roles. The Critic treats this text as the source of truth, so it must
// state names, requiredness, and ranges exactly as declared.
func (c *Catalog) Render() string {
	var b strings.Builder
	b.WriteString("# PCG Tools API\n\n")
	b.WriteString("All tools must be used exactly as specified. Tool and parameter names are case-sensitive.\n")

	for _, kind := range []string{"generator", "modifier"} {
		tools := c.toolsOfKind(kind)
		if len(tools) == 0 {
			continue
		}
		fmt.Fprintf(&b, "\n## %ss\n", capitalize(kind))
		for _, t := range tools {
			fmt.Fprintf(&b, "\n### %s\n", t.Name)
			if t.Description != "" {
				b.WriteString(t.Description)
				b.WriteString("\n")
			}
			writeParams(&b, "Required parameters", t.Params, true)
			writeParams(&b, "Optional parameters", t.Params, false)
		}
	}

	if c.Notes != "" {
		b.WriteString("\n## Notes\n")
		b.WriteString(c.Notes)
		b.WriteString("\n")
	}

	return b.String()
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

func (c *Catalog) toolsOfKind(kind string) []Tool {
	var out []Tool
	for _, t := range c.Tools {
		if t.Kind == kind {
			out = append(out, t)
		}
	}
	return out
}

func writeParams(b *strings.Builder, heading string, params []Param, required bool) {
	var matched []Param
	for _, p := range params {
		if p.Required == required {
			matched = append(matched, p)
		}
	}
	if len(matched) == 0 {
		return
	}
	fmt.Fprintf(b, "\n**%s:**\n", heading)
	for _, p := range matched {
		fmt.Fprintf(b, "- %s (%s)", p.Name, p.Type)
		if p.Min != nil && p.Max != nil {
			fmt.Fprintf(b, ": valid range [%v, %v]", *p.Min, *p.Max)
		} else if p.Min != nil {
			fmt.Fprintf(b, ": minimum %v", *p.Min)
		} else if p.Max != nil {
			fmt.Fprintf(b, ": maximum %v", *p.Max)
		}
		if len(p.Enum) > 0 {
			fmt.Fprintf(b, ": one of [%s]", strings.Join(p.Enum, ", "))
		}
		if p.Description != "" {
			fmt.Fprintf(b, " - %s", p.Description)
		}
		b.WriteString("\n")
	}
}
