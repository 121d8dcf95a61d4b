// ABOUTME: CLI command to export the index to YAML, JSON or Markdown
// ABOUTME: Format follows the output file extension
package commands

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
)

var (
	exportOutput      string
	exportWithVectors bool
)

// NewExportCmd creates export command
func NewExportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export indexed documents",
		Long: `Export indexed documents and their chunks.

The format follows the --output extension: .yaml/.yml, .json or .md.
Embeddings are left out unless --with-vectors is set; Markdown never
includes them.

Examples:
  recall export --output index.yaml
  recall export --output backup.json --with-vectors
  recall export --output corpus.md`,
		Args: cobra.NoArgs,
		RunE: runExport,
	}

	cmd.Flags().StringVarP(&exportOutput, "output", "o", "recall-export.yaml", "Output file path")
	cmd.Flags().BoolVar(&exportWithVectors, "with-vectors", false, "Include embedding vectors")

	return cmd
}

func runExport(cmd *cobra.Command, args []string) error {
	engine, _, err := openEngine(cmd, false)
	if err != nil {
		return err
	}
	defer engine.Close()

	store := engine.Store()
	ctx := cmd.Context()

	switch ext := strings.ToLower(filepath.Ext(exportOutput)); ext {
	case ".yaml", ".yml":
		err = store.ExportToYAML(ctx, exportOutput, exportWithVectors)
	case ".json":
		err = store.ExportToJSON(ctx, exportOutput, exportWithVectors)
	case ".md", ".markdown":
		err = store.ExportToMarkdown(ctx, exportOutput)
	default:
		return fmt.Errorf("unsupported export format %q (use .yaml, .json or .md)", ext)
	}
	if err != nil {
		return fmt.Errorf("exporting: %w", err)
	}

	if !quiet {
		fmt.Fprintf(cmd.OutOrStdout(), "Exported index to %s\n", exportOutput)
	}
	return nil
}
