package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/jobscout/jobscout/internal/model"
	"github.com/jobscout/jobscout/internal/store"
)

var dryRun bool

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run one search cycle, print new matches, exit",
	Long:  "One-shot cycle: searches all sources, filters and ranks, prints newly discovered matches, exits.",
	RunE:  runOnce,
}

func init() {
	runCmd.Flags().BoolVar(&dryRun, "dry-run", false, "do not record matches, so the next run sees them again")
	rootCmd.AddCommand(runCmd)
}

func runOnce(cmd *cobra.Command, args []string) error {
	logger := setupLogger(debug)

	cfg, err := loadConfig(cfgPath)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var matchStore model.MatchStore
	if dryRun {
		logger.Info("dry-run mode enabled, no matches will be recorded")
		matchStore = store.NewNopStore()
	} else {
		matchStore, err = buildStore(cfg, logger)
		if err != nil {
			logger.Error("failed to open store", "error", err)
			os.Exit(1)
		}
		defer matchStore.Close()
	}

	a, err := buildAgent(ctx, cfg, matchStore, logger)
	if err != nil {
		logger.Error("failed to build agent", "error", err)
		os.Exit(1)
	}

	newJobs, err := a.Run(ctx)
	if err != nil {
		logger.Error("search cycle failed", "error", err)
		os.Exit(1)
	}

	if len(newJobs) == 0 {
		fmt.Println("No new matches.")
		return nil
	}

	fmt.Printf("%d new match(es):\n\n", len(newJobs))
	for _, j := range newJobs {
		score := "unscored"
		if j.Annotation != nil {
			score = fmt.Sprintf("%d/10", j.Annotation.OverallScore)
		}
		fmt.Printf("  [%s] %s — %s (%s)\n", score, j.Title, j.Company, j.Location)
		fmt.Printf("         %s\n", j.URL)
		if j.Annotation != nil && j.Annotation.Summary != "" {
			fmt.Printf("         %s\n", j.Annotation.Summary)
		}
		fmt.Println()
	}
	return nil
}
