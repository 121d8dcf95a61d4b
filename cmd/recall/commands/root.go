// ABOUTME: Root command and global flags for the recall CLI
// ABOUTME: Wires verbosity, output format, config file and database path for every subcommand
package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	verbose      bool
	quiet        bool
	outputFormat string
	configPath   string
	dbPath       string
)

// NewRootCmd creates the root command with all subcommands attached
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "recall",
		Short: "Local semantic search and context retrieval over your documents",
		Long: `recall indexes local documents into a SQLite vector store and
retrieves the passages most relevant to a question.

Documents are split into sentence-aligned chunks, embedded with OpenAI,
Gemini or a local Ollama model, and searched by cosine similarity.
The context command assembles a token-budgeted excerpt block ready to
hand to a language model, and the mcp command serves the same tools
to MCP clients over stdio.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			switch outputFormat {
			case "auto", "json", "table":
				return nil
			default:
				return fmt.Errorf("invalid --format %q (want auto, json or table)", outputFormat)
			}
		},
	}

	cmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
	cmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "Only log errors and suppress hints")
	cmd.PersistentFlags().StringVar(&outputFormat, "format", "auto", "Output format (auto, json, table)")
	cmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to a YAML config file")
	cmd.PersistentFlags().StringVar(&dbPath, "db", "", "Database path (overrides config)")
	cmd.MarkFlagsMutuallyExclusive("verbose", "quiet")

	cmd.AddCommand(
		NewIndexCmd(),
		NewSearchCmd(),
		NewContextCmd(),
		NewDocumentsCmd(),
		NewRemoveCmd(),
		NewStatsCmd(),
		NewClearCmd(),
		NewExportCmd(),
		NewMCPCmd(),
		NewVersionCmd(),
	)

	return cmd
}

// Execute runs the root command
func Execute() error {
	return NewRootCmd().Execute()
}
