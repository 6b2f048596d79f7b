// Command daycare runs the childcare center backend.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/brightbeginnings/daycare/internal/app"
	"github.com/brightbeginnings/daycare/internal/config"
	"github.com/brightbeginnings/daycare/internal/storage"
	"github.com/brightbeginnings/daycare/internal/storage/memory"
	"github.com/brightbeginnings/daycare/internal/storage/sqlite"
	"github.com/brightbeginnings/daycare/pkg/logging"
)

func main() {
	os.Exit(execute())
}

func execute() int {
	if err := newRootCmd().ExecuteContext(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

// globals are resolved by the root command before any subcommand runs.
type globals struct {
	envFile string
	dbPath  string
	cfg     *config.Config
}

func newRootCmd() *cobra.Command {
	g := &globals{}

	rootCmd := &cobra.Command{
		Use:           "daycare",
		Short:         "Childcare center operations backend",
		Long:          "Serves the staff, family and kitchen API of a childcare center and runs its scheduled digests.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			logging.Setup()
			if err := config.LoadDotEnv(g.envFile); err != nil {
				return err
			}
			cfg, err := config.LoadFromEnv()
			if err != nil {
				return err
			}
			// Precedence: flag > env > default.
			if cmd.Flags().Changed("db") {
				cfg.DBPath = g.dbPath
			}
			for _, w := range cfg.Warnings {
				slog.Warn(w)
			}
			g.cfg = cfg
			return nil
		},
	}

	rootCmd.PersistentFlags().StringVar(&g.envFile, "env-file", ".env", "File of KEY=VALUE pairs loaded before the environment is read")
	rootCmd.PersistentFlags().StringVar(&g.dbPath, "db", "", "SQLite database path (overrides DAYCARE_DB_PATH)")

	rootCmd.AddCommand(
		newServeCmd(g),
		newSeedCmd(g),
		newResetCmd(g),
		newAlertsCmd(g),
	)
	return rootCmd
}

// openStores opens the configured backend and the domain stores on it. The
// caller closes the returned KV.
func openStores(cfg *config.Config, logger *slog.Logger) (storage.KV, *app.Stores, error) {
	var kv storage.KV
	switch cfg.Storage {
	case "memory":
		kv = memory.New()
		logger.Warn("Using in-memory storage; data is lost on exit")
	default:
		db, err := sqlite.New(cfg.DBPath)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to initialize storage: %w", err)
		}
		kv = db
		logger.Info("Storage initialized", "database", cfg.DBPath)
	}

	stores := app.NewStores(kv, storage.Options{
		Strict: cfg.StrictStorage,
		Logger: logger,
	})
	stores.Food.Lookahead = cfg.AlertLookahead
	return kv, stores, nil
}
