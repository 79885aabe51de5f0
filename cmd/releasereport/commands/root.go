// Package commands implements the releasereport CLI commands.
package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/clebertsuconic/git-release-report/pkg/version"
)

// NewRootCommand creates the releasereport command tree.
func NewRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "releasereport",
		Short: "Release reports for Git commit ranges",
		Long: `releasereport summarizes the commits between two revisions of a Git
repository: per-commit line counts, links to changed tests and docs, and
the issue tracker ids mentioned in commit messages.

Commands:
  report    HTML or JSON report of a commit range
  classify  Classify a unified diff
  config    Print the effective configuration
  mcp       MCP stdio server`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(NewReportCommand())
	rootCmd.AddCommand(NewClassifyCommand())
	rootCmd.AddCommand(NewConfigCommand())
	rootCmd.AddCommand(NewMCPCommand())
	rootCmd.AddCommand(newVersionCommand())

	return rootCmd
}

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintln(cmd.OutOrStdout(), version.String("releasereport"))
		},
	}
}
