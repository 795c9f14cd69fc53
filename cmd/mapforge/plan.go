package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mapforge/mapforge/internal/refine"
	"github.com/mapforge/mapforge/internal/report"
)

var (
	planIterations int
	planJSON       bool
	planNoSave     bool
)

var planCmd = &cobra.Command{
	Use:   "plan <description>",
	Short: "Generate a validated PCG tool plan from a description",
	Long: `Generate a tool trajectory for the given map description and refine it
through Actor/Critic review cycles until the Critic approves or the
iteration budget runs out. The run is recorded in the history database.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		prompt := strings.Join(args, " ")

		engine, err := buildEngine()
		if err != nil {
			return err
		}

		iterations := planIterations
		if !cmd.Flags().Changed("iterations") {
			iterations = cfg.Loop.MaxIterations
		}

		res, runErr := engine.Run(context.Background(), refine.Request{
			Prompt:        prompt,
			MaxIterations: iterations,
		})

		if res != nil && !planNoSave {
			store, serr := openStore()
			if serr != nil {
				fmt.Fprintf(os.Stderr, "Warning: run not saved: %v\n", serr)
			} else {
				defer store.Close()
				id, serr := store.Save(context.Background(), cfg.Actor.Model, cfg.Critic.Model, res)
				if serr != nil {
					fmt.Fprintf(os.Stderr, "Warning: run not saved: %v\n", serr)
				} else {
					fmt.Fprintf(os.Stderr, "Run saved as %s\n", id)
				}
			}
		}

		if runErr != nil {
			if res != nil {
				report.WriteText(os.Stdout, res)
			}
			return runErr
		}

		if planJSON {
			return report.WriteJSON(os.Stdout, res)
		}
		report.WriteText(os.Stdout, res)
		return nil
	},
}

func init() {
	planCmd.Flags().IntVarP(&planIterations, "iterations", "k", 3, "Review iteration budget (0 = generate only)")
	planCmd.Flags().BoolVar(&planJSON, "json", false, "Emit the result as JSON")
	planCmd.Flags().BoolVar(&planNoSave, "no-save", false, "Skip recording the run in the history database")
	rootCmd.AddCommand(planCmd)
}
