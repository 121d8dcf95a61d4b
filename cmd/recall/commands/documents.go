// ABOUTME: CLI commands to list and remove indexed documents
// ABOUTME: Admin operations that do not need an embedding provider
package commands

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

// NewDocumentsCmd creates documents command
func NewDocumentsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "documents",
		Aliases: []string{"docs", "list"},
		Short:   "List indexed documents",
		Long: `List indexed documents with their chunk and token counts.

Examples:
  recall documents
  recall documents --format json`,
		Args: cobra.NoArgs,
		RunE: runDocuments,
	}

	return cmd
}

func runDocuments(cmd *cobra.Command, args []string) error {
	engine, _, err := openEngine(cmd, false)
	if err != nil {
		return err
	}
	defer engine.Close()

	docs, err := engine.ListDocuments(cmd.Context())
	if err != nil {
		return fmt.Errorf("listing documents: %w", err)
	}

	if useJSON() {
		jsonData, err := json.MarshalIndent(docs, "", "  ")
		if err != nil {
			return fmt.Errorf("marshaling JSON: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s\n", jsonData)
		return nil
	}

	if len(docs) == 0 {
		if !quiet {
			fmt.Fprintln(cmd.OutOrStdout(), "No documents indexed yet. Use 'recall index <file>' to add one.")
		}
		return nil
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "DOCUMENT ID\tNAME\tCHUNKS\tTOKENS\n")
	fmt.Fprintf(w, "-----------\t----\t------\t------\n")
	for _, d := range docs {
		fmt.Fprintf(w, "%s\t%s\t%d\t%d\n",
			truncate(d.DocumentID, 42),
			truncate(d.DocumentName, 30),
			d.ChunkCount,
			d.TokenCount)
	}
	w.Flush()

	if !quiet {
		fmt.Fprintf(cmd.OutOrStdout(), "\n%d document(s)\n", len(docs))
	}
	return nil
}

// NewRemoveCmd creates remove command
func NewRemoveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "remove <document-id>",
		Short: "Remove a document from the index",
		Long: `Remove every chunk of a document from the index.

Use 'recall documents' to find document IDs.

Examples:
  recall remove doc_6ba7b810-9dad-51d1-80b4-00c04fd430c8`,
		Args: cobra.ExactArgs(1),
		RunE: runRemove,
	}

	return cmd
}

func runRemove(cmd *cobra.Command, args []string) error {
	engine, _, err := openEngine(cmd, false)
	if err != nil {
		return err
	}
	defer engine.Close()

	removed, err := engine.RemoveDocument(cmd.Context(), args[0])
	if err != nil {
		return fmt.Errorf("removing document: %w", err)
	}

	if useJSON() {
		jsonData, _ := json.Marshal(map[string]interface{}{
			"document_id":    args[0],
			"chunks_removed": removed,
		})
		fmt.Fprintf(cmd.OutOrStdout(), "%s\n", jsonData)
		return nil
	}

	if removed == 0 {
		fmt.Fprintf(cmd.OutOrStdout(), "No chunks found for document %s\n", args[0])
		return nil
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Removed %d chunk(s) of %s\n", removed, args[0])
	return nil
}
