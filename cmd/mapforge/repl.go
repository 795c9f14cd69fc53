package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/mapforge/mapforge/internal/repl"
)

var replCmd = &cobra.Command{
	Use:   "repl",
	Short: "Start the interactive shell",
	Long: `Start an interactive shell where map descriptions are refined into tool
plans. Bare text is treated as a plan request; type 'help' inside the shell
for the full command list.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		engine, err := buildEngine()
		if err != nil {
			return err
		}

		store, err := openStore()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: run history unavailable: %v\n", err)
			store = nil
		} else {
			defer store.Close()
		}

		r := repl.New(repl.Config{
			Engine:        engine,
			Store:         store,
			MaxIterations: cfg.Loop.MaxIterations,
			ActorModel:    cfg.Actor.Model,
			CriticModel:   cfg.Critic.Model,
		})
		return r.Run(context.Background(), os.Stdout)
	},
}

func init() {
	rootCmd.AddCommand(replCmd)
}
