package commands

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/clebertsuconic/git-release-report/internal/config"
	"github.com/clebertsuconic/git-release-report/internal/mcp"
	"github.com/clebertsuconic/git-release-report/pkg/observability"
)

// NewMCPCommand creates the MCP server command.
func NewMCPCommand() *cobra.Command {
	var debug bool

	cmd := &cobra.Command{
		Use:   "mcp",
		Short: "Start MCP server for AI agent integration",
		Long: `Start a Model Context Protocol (MCP) server on stdio transport.

The server exposes two tools:
  - release_report: release report of a commit range as JSON or HTML
  - classify_patch: zones, regions and line counts of a unified diff`,
		Args: cobra.NoArgs,
		RunE: func(cobraCmd *cobra.Command, _ []string) error {
			settings, err := config.LoadConfig(config.LoadOptions{NoFile: true})
			if err != nil {
				return err
			}

			settings.Telemetry.LogJSON = true
			if debug {
				settings.Telemetry.LogLevel = slog.LevelDebug.String()
			}

			providers, err := initObservability(settings, observability.ModeMCP, false, cobraCmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer shutdownObservability(providers)

			toolMetrics, err := observability.NewToolMetrics(providers.Meter)
			if err != nil {
				return err
			}

			reportMetrics, err := observability.NewReportMetrics(providers.Meter)
			if err != nil {
				return err
			}

			srv := mcp.NewServer(mcp.ServerDeps{
				Logger:  providers.Logger,
				Metrics: toolMetrics,
				Report:  reportMetrics,
				Tracer:  providers.Tracer,
			})

			return srv.Run(cobraCmd.Context())
		},
	}

	cmd.Flags().BoolVar(&debug, "debug", false, "Enable debug logging to stderr")

	return cmd
}
