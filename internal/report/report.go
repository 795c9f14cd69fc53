// Package report renders refinement results for the terminal and as JSON.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/fatih/color"

	"github.com/mapforge/mapforge/internal/trajectory"
)

// WriteJSON writes the result as indented JSON.
func WriteJSON(w io.Writer, res *trajectory.RefinementResult) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(res)
}

// WriteText writes a human-readable report: outcome banner, the final plan,
// risks, and a per-turn iteration summary.
func WriteText(w io.Writer, res *trajectory.RefinementResult) {
	green := color.New(color.FgGreen, color.Bold).SprintFunc()
	yellow := color.New(color.FgYellow, color.Bold).SprintFunc()
	red := color.New(color.FgRed, color.Bold).SprintFunc()
	cyan := color.New(color.FgCyan, color.Bold).SprintFunc()
	gray := color.New(color.FgHiBlack).SprintFunc()

	switch res.Termination {
	case trajectory.TerminationApproved:
		fmt.Fprintf(w, "%s trajectory approved by critic\n", green("APPROVED"))
	case trajectory.TerminationMaxIterations:
		fmt.Fprintf(w, "%s iteration budget exhausted, returning best effort\n", yellow("EXHAUSTED"))
	case trajectory.TerminationFailed:
		fmt.Fprintf(w, "%s refinement did not produce a usable trajectory\n", red("FAILED"))
	}
	fmt.Fprintf(w, "%s\n\n", gray(fmt.Sprintf("%d actor / %d critic turns, %d tokens, %s",
		res.ActorTurns(), res.CriticTurns(), res.TotalTokens(), res.Elapsed.Round(10 * time.Millisecond))))

	if res.Trajectory != nil {
		t := res.Trajectory
		fmt.Fprintf(w, "%s\n%s\n\n", cyan("Summary"), t.Summary)

		fmt.Fprintf(w, "%s\n", cyan("Plan"))
		for _, step := range t.Steps {
			fmt.Fprintf(w, "  %d. %s %s\n", step.Index, color.New(color.Bold).Sprint(step.Tool),
				gray("("+step.Objective+")"))
			for _, k := range sortedKeys(step.Args) {
				fmt.Fprintf(w, "       %s = %v\n", k, step.Args[k])
			}
			fmt.Fprintf(w, "       %s %s\n", gray("expect:"), step.ExpectedResult)
		}

		if len(t.Risks) > 0 {
			fmt.Fprintf(w, "\n%s\n", cyan("Risks"))
			for _, r := range t.Risks {
				fmt.Fprintf(w, "  - %s\n", r)
			}
		}
	}

	if len(res.Iterations) > 0 {
		fmt.Fprintf(w, "\n%s\n", cyan("Iterations"))
		for _, rec := range res.Iterations {
			fmt.Fprintf(w, "  %s\n", formatRecord(rec))
		}
	}
}

// WriteSummaryLine writes one compact line for run listings.
func WriteSummaryLine(w io.Writer, id string, prompt string, termination trajectory.TerminationReason) {
	status := string(termination)
	switch termination {
	case trajectory.TerminationApproved:
		status = color.GreenString("approved")
	case trajectory.TerminationMaxIterations:
		status = color.YellowString("exhausted")
	case trajectory.TerminationFailed:
		status = color.RedString("failed")
	}
	fmt.Fprintf(w, "%s  %-10s  %s\n", id, status, truncatePrompt(prompt, 60))
}

func formatRecord(rec trajectory.IterationRecord) string {
	var b strings.Builder
	fmt.Fprintf(&b, "[%d] %-6s", rec.Iteration, rec.Role)

	switch {
	case !rec.Valid:
		fmt.Fprintf(&b, " %s %s", color.RedString("rejected"), rec.Error)
	case rec.Role == trajectory.RoleCritic:
		verdict := string(rec.Verdict)
		if rec.Verdict == trajectory.VerdictApprove {
			verdict = color.GreenString(verdict)
		} else {
			verdict = color.YellowString(verdict)
		}
		fmt.Fprintf(&b, " %s", verdict)
	default:
		fmt.Fprintf(&b, " ok")
	}

	if rec.Attempts > 1 {
		fmt.Fprintf(&b, " (%d attempts)", rec.Attempts)
	}
	if rec.Warning != "" {
		fmt.Fprintf(&b, " %s", color.YellowString("warning: "+rec.Warning))
	}
	fmt.Fprintf(&b, "  %dtok %s", rec.InputTokens+rec.OutputTokens, rec.Duration.Round(10 * time.Millisecond))
	return b.String()
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func truncatePrompt(s string, n int) string {
	s = strings.ReplaceAll(s, "\n", " ")
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
