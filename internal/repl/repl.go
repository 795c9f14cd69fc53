// Package repl provides the interactive mapforge shell.
package repl

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/chzyer/readline"
	"github.com/fatih/color"

	"github.com/mapforge/mapforge/internal/refine"
	"github.com/mapforge/mapforge/internal/report"
	"github.com/mapforge/mapforge/internal/runstore"
)

// Config wires the REPL's collaborators.
type Config struct {
	Engine *refine.Engine
	Store  *runstore.Store

	// MaxIterations is the default review budget for plan commands.
	MaxIterations int

	// ActorModel and CriticModel are recorded on saved runs.
	ActorModel  string
	CriticModel string
}

type handler func(ctx context.Context, out io.Writer, args []string) error

// REPL is the interactive shell.
type REPL struct {
	cfg      Config
	commands map[string]handler
}

// New creates a REPL.
func New(cfg Config) *REPL {
	r := &REPL{cfg: cfg, commands: make(map[string]handler)}
	r.commands["plan"] = r.cmdPlan
	r.commands["history"] = r.cmdHistory
	r.commands["show"] = r.cmdShow
	r.commands["iterations"] = r.cmdIterations
	r.commands["help"] = r.cmdHelp
	r.commands["?"] = r.cmdHelp
	return r
}

// Run starts the read-eval-print loop and blocks until exit.
func (r *REPL) Run(ctx context.Context, out io.Writer) error {
	cyan := color.New(color.FgCyan).SprintFunc()
	rl, err := readline.NewEx(&readline.Config{
		Prompt:            cyan("mapforge> "),
		InterruptPrompt:   "^C",
		EOFPrompt:         "exit",
		HistorySearchFold: true,
	})
	if err != nil {
		return fmt.Errorf("creating readline: %w", err)
	}
	defer rl.Close()

	r.printWelcome(out)

	for {
		line, err := rl.Readline()
		if err != nil {
			if err == readline.ErrInterrupt {
				continue
			}
			if err == io.EOF {
				fmt.Fprintln(out, "Goodbye!")
				return nil
			}
			return err
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if line == "exit" || line == "quit" {
			fmt.Fprintln(out, "Goodbye!")
			return nil
		}

		if err := r.Dispatch(ctx, out, line); err != nil {
			fmt.Fprintf(out, "%s %v\n", color.RedString("Error:"), err)
		}
	}
}

// Dispatch routes one input line to its command handler. Unrecognized input
// is treated as a plan description.
func (r *REPL) Dispatch(ctx context.Context, out io.Writer, line string) error {
	parts := strings.Fields(line)
	if len(parts) == 0 {
		return nil
	}

	if h, ok := r.commands[parts[0]]; ok {
		return h(ctx, out, parts[1:])
	}

	// Bare text is the common case: treat the whole line as a request.
	return r.cmdPlan(ctx, out, parts)
}

func (r *REPL) cmdPlan(ctx context.Context, out io.Writer, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("usage: plan <description>")
	}
	prompt := strings.Join(args, " ")

	res, err := r.cfg.Engine.Run(ctx, refine.Request{
		Prompt:        prompt,
		MaxIterations: r.cfg.MaxIterations,
	})
	if res != nil && r.cfg.Store != nil {
		if id, serr := r.cfg.Store.Save(ctx, r.cfg.ActorModel, r.cfg.CriticModel, res); serr == nil {
			fmt.Fprintf(out, "Run saved as %s\n", id)
		}
	}
	if err != nil {
		return err
	}
	report.WriteText(out, res)
	return nil
}

func (r *REPL) cmdHistory(ctx context.Context, out io.Writer, args []string) error {
	if r.cfg.Store == nil {
		return fmt.Errorf("no history database configured")
	}
	runs, err := r.cfg.Store.List(ctx, 20)
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Fprintln(out, "No runs recorded yet.")
		return nil
	}
	for _, run := range runs {
		report.WriteSummaryLine(out, run.ID, run.Prompt, run.Termination)
	}
	return nil
}

func (r *REPL) cmdShow(ctx context.Context, out io.Writer, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: show <run-id>")
	}
	if r.cfg.Store == nil {
		return fmt.Errorf("no history database configured")
	}
	run, err := r.cfg.Store.Get(ctx, args[0])
	if err != nil {
		return err
	}
	report.WriteText(out, run.Result)
	return nil
}

func (r *REPL) cmdIterations(_ context.Context, out io.Writer, args []string) error {
	if len(args) == 0 {
		fmt.Fprintf(out, "Review iteration budget: %d\n", r.cfg.MaxIterations)
		return nil
	}
	n, err := strconv.Atoi(args[0])
	if err != nil || n < 0 {
		return fmt.Errorf("iterations must be a non-negative integer, got %q", args[0])
	}
	r.cfg.MaxIterations = n
	fmt.Fprintf(out, "Review iteration budget set to %d\n", n)
	return nil
}

func (r *REPL) cmdHelp(_ context.Context, out io.Writer, _ []string) error {
	fmt.Fprint(out, `Commands:
  plan <description>   Generate and refine a tool plan (bare text works too)
  history              List recorded runs
  show <run-id>        Show one recorded run
  iterations [n]       Show or set the review iteration budget
  help                 Show this help
  exit                 Leave the shell
`)
	return nil
}

func (r *REPL) printWelcome(out io.Writer) {
	bold := color.New(color.Bold).SprintFunc()
	fmt.Fprintf(out, "%s - describe a map to generate a validated tool plan.\n", bold("mapforge"))
	fmt.Fprintln(out, "Type 'help' for commands, 'exit' to leave.")
}
