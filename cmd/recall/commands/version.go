// ABOUTME: Version command reporting build metadata
// ABOUTME: Prints release, commit, build date and the embedding providers compiled in
package commands

import (
	"encoding/json"
	"fmt"
	"runtime"
	"strings"

	"github.com/spf13/cobra"

	"github.com/harper/omnirecall/internal/embedding"
)

var versionInfo = VersionInfo{
	Version: "dev",
	Commit:  "none",
	Date:    "unknown",
}

// VersionInfo is filled in by goreleaser ldflags through SetVersion
type VersionInfo struct {
	Version   string   `json:"version"`
	Commit    string   `json:"commit"`
	Date      string   `json:"date"`
	GoVersion string   `json:"go_version,omitempty"`
	Providers []string `json:"providers,omitempty"`
}

// SetVersion records build metadata from main
func SetVersion(version, commit, date string) {
	versionInfo.Version = version
	versionInfo.Commit = commit
	versionInfo.Date = date
}

// NewVersionCmd creates the version command
func NewVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Long:  `Display the recall release, commit, build date and supported embedding providers.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			info := versionInfo
			info.GoVersion = runtime.Version()
			info.Providers = embedding.Providers()

			out := cmd.OutOrStdout()
			if useJSON() {
				data, err := json.MarshalIndent(info, "", "  ")
				if err != nil {
					return fmt.Errorf("marshaling JSON: %w", err)
				}
				fmt.Fprintf(out, "%s\n", data)
				return nil
			}

			fmt.Fprintf(out, "recall %s\n", info.Version)
			fmt.Fprintf(out, "Commit:    %s\n", info.Commit)
			fmt.Fprintf(out, "Built:     %s\n", info.Date)
			fmt.Fprintf(out, "Go:        %s\n", info.GoVersion)
			fmt.Fprintf(out, "Providers: %s\n", strings.Join(info.Providers, ", "))
			return nil
		},
	}
}
