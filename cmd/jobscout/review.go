package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/jobscout/jobscout/internal/model"
	"github.com/jobscout/jobscout/internal/review"
)

var reviewCmd = &cobra.Command{
	Use:   "review",
	Short: "Browse persisted matches in a TUI",
	Long:  "Opens an interactive browser over everything in the match store, best matches first.",
	RunE:  runReview,
}

func init() {
	rootCmd.AddCommand(reviewCmd)
}

func runReview(cmd *cobra.Command, args []string) error {
	logger := setupLogger(debug)

	cfg, err := loadConfig(cfgPath)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	matchStore, err := buildStore(cfg, logger)
	if err != nil {
		logger.Error("failed to open store", "error", err)
		os.Exit(1)
	}
	defer matchStore.Close()

	records, err := matchStore.Load()
	if err != nil {
		logger.Error("failed to load matches", "error", err)
		os.Exit(1)
	}

	matches := make([]model.JobRecord, 0, len(records))
	for _, j := range records {
		matches = append(matches, j)
	}

	return review.RunReviewTUI(matches)
}
