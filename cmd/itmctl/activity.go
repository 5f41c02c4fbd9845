package main

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	activityQueryFile string
	activityEntity    string
	activityOut       string
)

var activityCmd = &cobra.Command{
	Use:   "activity",
	Short: "Run an exploration query against the activity API",
	Long: `Run an exploration query and print the matching events as JSON.

The query file is the query JSON exported from the console after
running an exploration.`,
	RunE: runActivity,
}

func init() {
	activityCmd.Flags().StringVarP(&activityQueryFile, "query", "q", "", "query file (JSON)")
	activityCmd.Flags().StringVar(&activityEntity, "entity", "event", "entity types to search, comma-separated")
	activityCmd.Flags().StringVarP(&activityOut, "output", "o", "", "output file (default stdout)")
	_ = activityCmd.MarkFlagRequired("query")
	rootCmd.AddCommand(activityCmd)
}

func runActivity(cmd *cobra.Command, args []string) error {
	query, err := readQueryFile(activityQueryFile)
	if err != nil {
		return err
	}

	client, err := newClient(cmd)
	if err != nil {
		return err
	}

	page, err := client.Search.Activity(cmd.Context(), query, activityEntity)
	if err != nil {
		return err
	}

	if len(page.Data) == 0 {
		logger.Info("no events matched the query")
		return nil
	}
	logger.Info("events retrieved", zap.Int("count", len(page.Data)))

	out, closeOut, err := openOutput(activityOut)
	if err != nil {
		return err
	}
	defer closeOut()

	return writeJSON(out, page.Data)
}
