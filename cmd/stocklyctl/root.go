package main

import (
	"fmt"
	"os"

	"github.com/SamerElhamdo/stockly/internal/infrastructure/config"
	"github.com/SamerElhamdo/stockly/internal/infrastructure/logger"
	"github.com/SamerElhamdo/stockly/internal/infrastructure/persistence"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var version = "dev"

// cliState is filled by the root command before any subcommand runs
type cliState struct {
	cfg *config.Config
	log *zap.Logger
}

var state cliState

var rootCmd = &cobra.Command{
	Use:   "stocklyctl",
	Short: "Administration CLI for stockly",
	Long: `stocklyctl performs administrative tasks against a stockly database:
creating companies, rebuilding customer balances and issuing development
tokens.

Configuration is read the same way as the server: config.toml, .env and
STOCKLY_* environment variables.`,
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := config.Load()
		if err != nil {
			return fmt.Errorf("load configuration: %w", err)
		}
		level, _ := cmd.Flags().GetString("log-level")
		if level == "" {
			level = cfg.Log.Level
		}
		log, err := logger.New(logger.Config{Level: level, Format: "console", Output: "stderr"})
		if err != nil {
			return fmt.Errorf("initialize logger: %w", err)
		}
		state = cliState{cfg: cfg, log: log}
		return nil
	},
	PersistentPostRun: func(_ *cobra.Command, _ []string) {
		if state.log != nil {
			_ = state.log.Sync()
		}
	},
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().String("log-level", "", "Log level (debug, info, warn, error); defaults to log.level")
}

// openDatabase connects with a GORM logger that only reports warnings
func openDatabase() (*persistence.Database, error) {
	gormLog := logger.NewGormLogger(state.log, logger.MapGormLogLevel("warn"), state.cfg.Database.SlowThreshold)
	return persistence.NewDatabase(&state.cfg.Database, gormLog)
}
