// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/pdiddy/gdoc-down/internal/history"
	"github.com/pdiddy/gdoc-down/internal/logger"
	"github.com/pdiddy/gdoc-down/pkg/types"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List recorded downloads",
	Long: `History lists downloads recorded in the history database, newest first.
Output is a table by default, or YAML or JSON with --output.`,
	Args: cobra.NoArgs,
	RunE: runHistory,
}

func init() {
	historyCmd.Flags().String("doc", "", "only downloads of this document id")
	historyCmd.Flags().String("format", "", "only downloads in this format")
	historyCmd.Flags().Int("limit", 20, "maximum number of records")
	historyCmd.Flags().StringP("output", "o", history.FormatTable, "output format: table, yaml, or json")

	rootCmd.AddCommand(historyCmd)
}

func runHistory(cmd *cobra.Command, args []string) error {
	docID, _ := cmd.Flags().GetString("doc")
	format, _ := cmd.Flags().GetString("format")
	limit, _ := cmd.Flags().GetInt("limit")
	output, _ := cmd.Flags().GetString("output")

	cfg := types.HistoryConfig{Dir: historyDir(), MaxResults: limit}
	if err := types.Validate(cfg); err != nil {
		return err
	}

	store, err := history.NewStore(cfg)
	if err != nil {
		return err
	}
	defer store.Close()
	logger.Debug("reading download history", "path", store.Path())

	downloads, err := store.List(cmd.Context(), history.ListOptions{DocID: docID, Format: format})
	if err != nil {
		return err
	}
	return history.Write(cmd.OutOrStdout(), downloads, output, time.Now())
}
