// ABOUTME: Tests for root CLI command and global flags
// ABOUTME: Verifies command structure, subcommands, and flag handling

package commands

import (
	"bytes"
	"strings"
	"testing"
)

func TestNewRootCmd(t *testing.T) {
	cmd := NewRootCmd()

	if cmd.Use != "recall" {
		t.Errorf("Use = %q, want %q", cmd.Use, "recall")
	}

	if cmd.Short == "" {
		t.Error("Short description should not be empty")
	}

	if !strings.Contains(cmd.Long, "cosine similarity") {
		t.Error("Long description should explain how search works")
	}
}

func TestRootCmd_GlobalFlags(t *testing.T) {
	cmd := NewRootCmd()

	tests := []struct {
		flagName  string
		shorthand string
		defValue  string
	}{
		{"verbose", "v", "false"},
		{"quiet", "q", "false"},
		{"format", "", "auto"},
		{"config", "", ""},
		{"db", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.flagName, func(t *testing.T) {
			flag := cmd.PersistentFlags().Lookup(tt.flagName)
			if flag == nil {
				t.Fatalf("--%s flag not found", tt.flagName)
			}

			if tt.shorthand != "" && flag.Shorthand != tt.shorthand {
				t.Errorf("--%s shorthand = %q, want %q", tt.flagName, flag.Shorthand, tt.shorthand)
			}

			if flag.DefValue != tt.defValue {
				t.Errorf("--%s default = %q, want %q", tt.flagName, flag.DefValue, tt.defValue)
			}
		})
	}
}

func TestRootCmd_FlagValidation(t *testing.T) {
	tests := []struct {
		name        string
		args        []string
		expectError bool
	}{
		{"verbose only", []string{"--verbose", "version"}, false},
		{"quiet only", []string{"--quiet", "version"}, false},
		{"verbose and quiet", []string{"--verbose", "--quiet", "version"}, true},
		{"json format", []string{"--format", "json", "version"}, false},
		{"unknown format", []string{"--format", "xml", "version"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd := NewRootCmd()
			var output bytes.Buffer
			cmd.SetOut(&output)
			cmd.SetErr(&output)
			cmd.SetArgs(tt.args)

			err := cmd.Execute()

			if tt.expectError && err == nil {
				t.Error("expected error, got nil")
			}
			if !tt.expectError && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

func TestRootCmd_Subcommands(t *testing.T) {
	cmd := NewRootCmd()

	expectedSubcommands := []string{
		"index",
		"search",
		"context",
		"documents",
		"remove",
		"stats",
		"clear",
		"export",
		"mcp",
		"version",
	}

	for _, subCmdName := range expectedSubcommands {
		t.Run(subCmdName, func(t *testing.T) {
			found := false
			for _, sub := range cmd.Commands() {
				if sub.Use == subCmdName || strings.HasPrefix(sub.Use, subCmdName+" ") {
					found = true
					break
				}
			}
			if !found {
				t.Errorf("Subcommand %q not found", subCmdName)
			}
		})
	}
}

func TestRootCmd_HelpOutput(t *testing.T) {
	cmd := NewRootCmd()
	var output bytes.Buffer
	cmd.SetOut(&output)
	cmd.SetErr(&output)
	cmd.SetArgs([]string{"--help"})

	_ = cmd.Execute()

	outputStr := output.String()

	for _, want := range []string{"Usage:", "Available Commands:", "Flags:"} {
		if !strings.Contains(outputStr, want) {
			t.Errorf("Help output should contain %q", want)
		}
	}
}

func TestRootCmd_SilenceUsage(t *testing.T) {
	cmd := NewRootCmd()

	if !cmd.SilenceUsage {
		t.Error("SilenceUsage should be true to prevent usage on errors")
	}
}
