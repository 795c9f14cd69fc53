package refine

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mapforge/mapforge/internal/trajectory"
)

// Context assembles the prompts for both agents using the state-replacement
// strategy: instead of appending the full dialogue history, it keeps a
// fixed-size buffer holding only the current best trajectory and the latest
// critique. Each Update overwrites the previous pair, so prompt size stays
// bounded no matter how many iterations run.
type Context struct {
	userPrompt string
	docs       string
	examples   []string

	current  *trajectory.Trajectory
	feedback *trajectory.Feedback
	revision int
}

// NewContext creates a context buffer for one refinement run. docs is the
// rendered tool documentation; examples are validated worked trajectories.
func NewContext(userPrompt, docs string, examples []string) *Context {
	return &Context{userPrompt: userPrompt, docs: docs, examples: examples}
}

// Update replaces the buffered trajectory/feedback pair. Prior pairs are
// discarded, never accumulated.
func (c *Context) Update(t *trajectory.Trajectory, fb *trajectory.Feedback) {
	c.current = t
	c.feedback = fb
	c.revision++
}

// Revision returns how many times the buffer has been replaced.
func (c *Context) Revision() int { return c.revision }

// HasPreviousAttempt reports whether a trajectory/feedback pair is buffered.
func (c *Context) HasPreviousAttempt() bool { return c.current != nil && c.feedback != nil }

// ActorPrompt builds the Actor's user message: the request, the tool
// documentation, the usage examples, and, on revision turns only, the single
// buffered trajectory with its critique.
func (c *Context) ActorPrompt() string {
	var b strings.Builder

	b.WriteString("## USER REQUEST\n")
	b.WriteString(c.userPrompt)
	b.WriteString("\n\n## API DOCUMENTATION\n")
	b.WriteString(c.docs)
	b.WriteString("\n")

	if len(c.examples) > 0 {
		b.WriteString("\n## USAGE EXAMPLES\n")
		for i, ex := range c.examples {
			fmt.Fprintf(&b, "### Example %d\n%s\n\n", i+1, ex)
		}
	}

	if c.HasPreviousAttempt() {
		b.WriteString("\n## REVISION CONTEXT\n\n")
		b.WriteString("Your previous trajectory received feedback and must be revised.\n\n")
		b.WriteString("### YOUR PREVIOUS TRAJECTORY\n```json\n")
		b.WriteString(marshalIndent(c.current))
		b.WriteString("\n```\n\n### CRITIC FEEDBACK\n")
		b.WriteString(c.feedback.Render())
		b.WriteString("\nPlease generate a REVISED trajectory that addresses ALL blocking issues.\n")
	}

	return b.String()
}

// CriticPrompt builds the Critic's user message for reviewing t. The Critic
// never sees prior feedback, only the trajectory under review, the original
// request, the documentation, and the examples.
func (c *Context) CriticPrompt(t *trajectory.Trajectory) string {
	var b strings.Builder

	b.WriteString("## TRAJECTORY TO REVIEW\n```json\n")
	b.WriteString(marshalIndent(t))
	b.WriteString("\n```\n\n## ORIGINAL USER REQUEST\n")
	b.WriteString(c.userPrompt)
	b.WriteString("\n\n## API DOCUMENTATION (Source of Truth)\n")
	b.WriteString(c.docs)
	b.WriteString("\n")

	if len(c.examples) > 0 {
		b.WriteString("\n## VALIDATED USAGE EXAMPLES\n")
		for i, ex := range c.examples {
			fmt.Fprintf(&b, "### Example %d\n%s\n\n", i+1, ex)
		}
	}

	b.WriteString("\n## YOUR TASK\n")
	b.WriteString("Review the trajectory against the API Documentation and user request. ")
	b.WriteString("Apply the 5-dimension review framework and provide your verdict.\n")

	return b.String()
}

func marshalIndent(v any) string {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Sprintf("<marshal error: %v>", err)
	}
	return string(data)
}
