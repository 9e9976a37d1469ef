package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/jobscout/jobscout/internal/scheduler"
)

var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the search daemon",
	Long:  "Start the scheduler daemon; blocks until SIGINT/SIGTERM.",
	RunE:  runStart,
}

func init() {
	rootCmd.AddCommand(startCmd)
}

func runStart(cmd *cobra.Command, args []string) error {
	logger := setupLogger(debug)

	cfg, err := loadConfig(cfgPath)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger.Info("config loaded",
		"interval", cfg.PollingInterval.String(),
		"sources", len(cfg.Sources),
		"keywords", cfg.Search.Keywords,
		"locations", cfg.Search.Locations,
		"ai_enabled", cfg.AI.Enabled,
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	matchStore, err := buildStore(cfg, logger)
	if err != nil {
		logger.Error("failed to open store", "error", err)
		os.Exit(1)
	}
	defer matchStore.Close()

	a, err := buildAgent(ctx, cfg, matchStore, logger)
	if err != nil {
		logger.Error("failed to build agent", "error", err)
		os.Exit(1)
	}

	runner := scheduler.RunnerFunc(func(ctx context.Context) error {
		_, err := a.Run(ctx)
		return err
	})

	sched := scheduler.NewScheduler(runner, cfg.PollingInterval, logger)
	if err := sched.Run(ctx); err != nil {
		logger.Error("scheduler error", "error", err)
		os.Exit(1)
	}

	logger.Info("goodbye")
	return nil
}
