// ABOUTME: CLI commands for index statistics and clearing the index
// ABOUTME: clear requires --yes to avoid accidental data loss
package commands

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var clearConfirmed bool

// NewStatsCmd creates stats command
func NewStatsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show index statistics",
		Long: `Show chunk count, document count and embedding dimension of the index.

Examples:
  recall stats
  recall stats --format json`,
		Args: cobra.NoArgs,
		RunE: runStats,
	}

	return cmd
}

func runStats(cmd *cobra.Command, args []string) error {
	engine, cfg, err := openEngine(cmd, false)
	if err != nil {
		return err
	}
	defer engine.Close()

	stats, err := engine.IndexStats(cmd.Context())
	if err != nil {
		return fmt.Errorf("reading stats: %w", err)
	}

	if useJSON() {
		jsonData, err := json.MarshalIndent(stats, "", "  ")
		if err != nil {
			return fmt.Errorf("marshaling JSON: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s\n", jsonData)
		return nil
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Database:   %s\n", cfg.DBPath)
	fmt.Fprintf(out, "Documents:  %d\n", stats.DocumentCount)
	fmt.Fprintf(out, "Chunks:     %d\n", stats.ChunkCount)
	if stats.Indexed {
		fmt.Fprintf(out, "Dimension:  %d\n", stats.Dimension)
	}
	fmt.Fprintf(out, "Provider:   %s\n", cfg.Provider)
	return nil
}

// NewClearCmd creates clear command
func NewClearCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Delete every indexed chunk",
		Long: `Delete every indexed chunk from the database.

This cannot be undone. Pass --yes to confirm.

Examples:
  recall clear --yes`,
		Args: cobra.NoArgs,
		RunE: runClear,
	}

	cmd.Flags().BoolVar(&clearConfirmed, "yes", false, "Confirm deleting the whole index")

	return cmd
}

func runClear(cmd *cobra.Command, args []string) error {
	if !clearConfirmed {
		return errors.New("refusing to clear the index without --yes")
	}

	engine, _, err := openEngine(cmd, false)
	if err != nil {
		return err
	}
	defer engine.Close()

	removed, err := engine.ClearIndex(cmd.Context())
	if err != nil {
		return fmt.Errorf("clearing index: %w", err)
	}

	if !quiet {
		fmt.Fprintf(cmd.OutOrStdout(), "Cleared %d chunk(s)\n", removed)
	}
	return nil
}
