// ABOUTME: CLI command to index documents into the vector store
// ABOUTME: Each file is extracted, chunked, embedded and replaces its previous chunks
package commands

import (
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/harper/omnirecall/internal/extract"
	"github.com/harper/omnirecall/internal/models"
)

var (
	indexDocID   string
	indexDocName string
)

// NewIndexCmd creates index command
func NewIndexCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "index <files...>",
		Short: "Index documents for semantic search",
		Long: `Index one or more documents for semantic search.

Supports plain text, markdown, PDF, HTML and common source files.
Re-indexing a file replaces its previous chunks. A failing file is
reported and the remaining files are still indexed.

Examples:
  recall index notes.md
  recall index docs/*.pdf README.md
  recall index --id handbook --name "Team Handbook" handbook.pdf
  recall index --format json report.txt`,
		Args: cobra.MinimumNArgs(1),
		RunE: runIndex,
	}

	cmd.Flags().StringVar(&indexDocID, "id", "", "Document ID (single file only)")
	cmd.Flags().StringVar(&indexDocName, "name", "", "Document display name (single file only)")

	return cmd
}

func runIndex(cmd *cobra.Command, args []string) error {
	if (indexDocID != "" || indexDocName != "") && len(args) > 1 {
		return errors.New("--id and --name can only be used with a single file")
	}

	engine, _, err := openEngine(cmd, true)
	if err != nil {
		return err
	}
	defer engine.Close()

	results := make([]models.IndexResult, 0, len(args))
	failed := 0

	for _, path := range args {
		id := indexDocID
		if id == "" {
			id = extract.DocumentID(path)
		}
		name := indexDocName
		if name == "" {
			name = filepath.Base(path)
		}

		result, _ := engine.IndexFileAs(cmd.Context(), path, id, name)
		if !result.Success {
			failed++
		}
		results = append(results, result)
	}

	if useJSON() {
		jsonData, err := json.MarshalIndent(results, "", "  ")
		if err != nil {
			return fmt.Errorf("marshaling JSON: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s\n", jsonData)
	} else {
		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
		fmt.Fprintf(w, "STATUS\tDOCUMENT\tCHUNKS\tSKIPPED\tDETAIL\n")
		for _, r := range results {
			status := "ok"
			if !r.Success {
				status = "failed"
			}
			fmt.Fprintf(w, "%s\t%s\t%d\t%d\t%s\n",
				status,
				truncate(r.DocumentName, 30),
				r.ChunksCreated,
				r.ChunksSkipped,
				truncate(r.Error, 60))
		}
		w.Flush()
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d documents failed to index", failed, len(args))
	}
	return nil
}
