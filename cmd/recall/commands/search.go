// ABOUTME: CLI command to search indexed documents
// ABOUTME: Ranks chunks by cosine similarity to the query embedding
package commands

import (
	"encoding/json"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var (
	searchLimit    int
	searchMinScore float64
)

// NewSearchCmd creates search command
func NewSearchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Search indexed documents",
		Long: `Search indexed documents by semantic similarity.

The query is embedded with the configured provider and compared
against every stored chunk.

Examples:
  recall search "retry policy for rate limits"
  recall search --limit 10 "quarterly revenue"
  recall search --min-score 0.4 --format json "deployment steps"`,
		Args: cobra.ExactArgs(1),
		RunE: runSearch,
	}

	cmd.Flags().IntVar(&searchLimit, "limit", 5, "Maximum results to return")
	cmd.Flags().Float64Var(&searchMinScore, "min-score", 0, "Drop results scoring below this similarity")

	return cmd
}

func runSearch(cmd *cobra.Command, args []string) error {
	if err := validatePositiveInt(searchLimit, "limit"); err != nil {
		return err
	}

	query := args[0]

	engine, _, err := openEngine(cmd, true)
	if err != nil {
		return err
	}
	defer engine.Close()

	results, err := engine.Search(cmd.Context(), query, searchLimit, searchMinScore)
	if err != nil {
		return fmt.Errorf("searching documents: %w", err)
	}

	if len(results) == 0 {
		if !quiet {
			fmt.Fprintf(cmd.OutOrStdout(), "No results found for query: %s\n", query)
		}
		return nil
	}

	if useJSON() {
		jsonData, err := json.MarshalIndent(results, "", "  ")
		if err != nil {
			return fmt.Errorf("marshaling JSON: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s\n", jsonData)
		return nil
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "SCORE\tDOCUMENT\tCHUNK\tPREVIEW\n")
	fmt.Fprintf(w, "-----\t--------\t-----\t-------\n")
	for _, r := range results {
		fmt.Fprintf(w, "%.3f\t%s\t%d\t%s\n",
			r.Score,
			truncate(r.Chunk.DocumentName, 25),
			r.Chunk.ChunkIndex,
			truncate(strings.ReplaceAll(r.Chunk.Content, "\n", " "), 60))
	}
	w.Flush()

	if !quiet {
		fmt.Fprintf(cmd.OutOrStdout(), "\nFound %d result(s)\n", len(results))
	}

	return nil
}
