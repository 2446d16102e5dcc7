// Package main provides the best-bets CLI: it compares scraped esports odds
// with historical team form and records positive expected value bets.
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/yourusername/esports-edge/internal/config"
	"github.com/yourusername/esports-edge/internal/logger"
)

// Build information - set via ldflags
var (
	Version   = "dev"
	GitCommit = "unknown"
)

var (
	configFile string
	envFile    string
	minROI     float64
	dataDir    string

	cfg    *config.Config
	appLog *logrus.Logger
)

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "./config/config.yaml", "Path to configuration file")
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "Optional .env file loaded before the configuration")
	rootCmd.PersistentFlags().Float64Var(&minROI, "min-roi", 0, "Override engine.min_roi (percent, 0 admits every positive EV bet)")
	rootCmd.PersistentFlags().StringVar(&dataDir, "data-dir", "", "Override engine.data_dir")

	rootCmd.AddCommand(runCmd, watchCmd, purgeCmd)
}

var rootCmd = &cobra.Command{
	Use:     "best-bets",
	Short:   "Find positive expected value esports bets",
	Long:    `Compares scraped bookmaker odds against historical team form and records the best bets in the ledger.`,
	Version: Version,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := loadConfig(cmd); err != nil {
			return fmt.Errorf("failed to load configuration: %w", err)
		}
		appLog = logger.NewLogger(cfg.App.LogLevel)
		appLog.WithFields(logrus.Fields{
			"environment": cfg.App.Environment,
			"version":     Version,
			"commit":      GitCommit,
		}).Debug("Configuration loaded")
		return nil
	},
	SilenceUsage: true,
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Process new odds snapshots once",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd.Context(), cfg, appLog)
		if err != nil {
			return err
		}
		defer a.Close()
		_, err = a.runOnce(cmd.Context())
		return err
	},
}

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Run on the configured cron schedule and serve health and metrics",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd.Context(), cfg, appLog)
		if err != nil {
			return err
		}
		defer a.Close()
		return a.watch(cmd.Context())
	},
}

var purgeCmd = &cobra.Command{
	Use:   "purge",
	Short: "Remove stale pending bets from the ledger",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd.Context(), cfg, appLog)
		if err != nil {
			return err
		}
		defer a.Close()
		return a.purge(cmd.Context())
	},
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		log.Fatalf("Error: %v", err)
	}
}

func loadConfig(cmd *cobra.Command) error {
	if err := config.LoadDotEnv(envFile); err != nil {
		return err
	}

	loaded, err := config.LoadWithDefaults(configFile)
	if err != nil {
		return err
	}
	if err := config.LoadSecretsFromAWS(cmd.Context(), loaded); err != nil {
		return fmt.Errorf("failed to load secrets: %w", err)
	}
	applyOverrides(loaded, cmd)

	if err := config.Validate(loaded); err != nil {
		return err
	}
	if err := config.ValidateEnvironment(loaded); err != nil {
		return err
	}
	cfg = loaded
	return nil
}

// applyOverrides copies the flags set on the command line onto cfg. An
// explicit --min-roi 0 is kept.
func applyOverrides(cfg *config.Config, cmd *cobra.Command) {
	if f := cmd.Flag("min-roi"); f != nil && f.Changed {
		cfg.Engine.MinROI = minROI
	}
	if dataDir != "" {
		cfg.Engine.DataDir = dataDir
	}
}
