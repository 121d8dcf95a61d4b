// ABOUTME: CLI command to assemble grounding context for a question
// ABOUTME: Prints relevance-ordered excerpts that fit the token budget
package commands

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/harper/omnirecall/internal/core"
)

var (
	contextMaxTokens int
	contextSearchK   int
)

// NewContextCmd creates context command
func NewContextCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "context <query>",
		Short: "Assemble relevant document context for a question",
		Long: `Assemble a token-budgeted block of document excerpts for a question.

The most relevant chunks are added in score order until the budget
is spent. Low-scoring chunks are dropped once enough results are in.

Examples:
  recall context "How do we rotate API keys?"
  recall context --max-tokens 1500 "onboarding checklist"
  recall context --search-k 20 --format json "incident review"`,
		Args: cobra.ExactArgs(1),
		RunE: runContext,
	}

	cmd.Flags().IntVar(&contextMaxTokens, "max-tokens", 0, "Token budget (default from config, 4000)")
	cmd.Flags().IntVar(&contextSearchK, "search-k", 0, "Candidate chunks to consider (default from config, 10)")

	return cmd
}

func runContext(cmd *cobra.Command, args []string) error {
	if err := validateOptionalInt(contextMaxTokens, "max-tokens"); err != nil {
		return err
	}
	if err := validateOptionalInt(contextSearchK, "search-k"); err != nil {
		return err
	}

	query := args[0]

	engine, _, err := openEngine(cmd, true)
	if err != nil {
		return err
	}
	defer engine.Close()

	text, err := engine.RetrieveContext(cmd.Context(), query, core.ContextOptions{
		MaxTokens: contextMaxTokens,
		SearchK:   contextSearchK,
	})
	if err != nil {
		return fmt.Errorf("retrieving context: %w", err)
	}

	if useJSON() {
		jsonData, err := json.MarshalIndent(map[string]interface{}{
			"query":   query,
			"context": text,
			"tokens":  core.ContextTokenCost(text),
		}, "", "  ")
		if err != nil {
			return fmt.Errorf("marshaling JSON: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s\n", jsonData)
		return nil
	}

	if text == "" {
		if !quiet {
			fmt.Fprintf(cmd.OutOrStdout(), "No relevant context found for query: %s\n", query)
		}
		return nil
	}

	fmt.Fprint(cmd.OutOrStdout(), text)
	return nil
}
