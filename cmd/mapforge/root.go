package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/mapforge/mapforge/internal/catalog"
	"github.com/mapforge/mapforge/internal/config"
	"github.com/mapforge/mapforge/internal/llm"
	"github.com/mapforge/mapforge/internal/refine"
	"github.com/mapforge/mapforge/internal/runstore"
)

var (
	configPath string
	dbPath     string
	logLevel   string

	cfg *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "mapforge",
	Short: "Actor/Critic refinement for PCG tool plans",
	Long: `mapforge turns natural-language map descriptions into validated PCG tool
trajectories using a dual-agent refinement loop: an Actor model proposes a
plan, a Critic model reviews it against the tool documentation, and the loop
iterates until the plan is approved or the iteration budget runs out.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load(configPath)
		if err != nil {
			return err
		}
		if dbPath != "" {
			cfg.DatabasePath = dbPath
		}
		if logLevel != "" {
			cfg.LogLevel = logLevel
		}
		initLogging(cfg.LogLevel)
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "mapforge.yaml", "Path to config file")
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "Path to run history database (overrides config)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level: debug, info, warn, error")
}

func initLogging(level string) {
	var lvl slog.Level
	switch level {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl})))
}

// loadCatalog returns the configured tool catalogue, or the built-in default
// when none is configured.
func loadCatalog() (*catalog.Catalog, error) {
	if cfg.CatalogPath == "" {
		return catalog.Default(), nil
	}
	return catalog.Load(cfg.CatalogPath)
}

// buildEngine assembles the refinement engine from the active configuration.
func buildEngine() (*refine.Engine, error) {
	cat, err := loadCatalog()
	if err != nil {
		return nil, err
	}

	actor, err := llm.New(llm.Options{
		Provider: cfg.Actor.Provider,
		Model:    cfg.Actor.Model,
		BaseURL:  cfg.Actor.BaseURL,
	})
	if err != nil {
		return nil, fmt.Errorf("building actor client: %w", err)
	}
	critic, err := llm.New(llm.Options{
		Provider: cfg.Critic.Provider,
		Model:    cfg.Critic.Model,
		BaseURL:  cfg.Critic.BaseURL,
	})
	if err != nil {
		return nil, fmt.Errorf("building critic client: %w", err)
	}

	retry := cfg.RetryOptions()
	actor = llm.WithRetry(actor, retry, slog.Default())
	critic = llm.WithRetry(critic, retry, slog.Default())

	loopCfg, err := cfg.RefineConfig()
	if err != nil {
		return nil, err
	}
	return refine.NewEngine(actor, critic, cat, loopCfg, slog.Default()), nil
}

func openStore() (*runstore.Store, error) {
	return runstore.Open(cfg.DatabasePath)
}
