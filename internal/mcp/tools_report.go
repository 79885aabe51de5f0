package mcp

import (
	"bytes"
	"context"
	"fmt"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/clebertsuconic/git-release-report/internal/config"
	"github.com/clebertsuconic/git-release-report/internal/release"
	"github.com/clebertsuconic/git-release-report/internal/report"
)

func (s *Server) handleReport(
	ctx context.Context,
	_ *mcpsdk.CallToolRequest,
	input ReportInput,
) (*mcpsdk.CallToolResult, ToolOutput, error) {
	err := validateReportInput(input)
	if err != nil {
		return errorResult(err)
	}

	cfg, err := reportConfig(input)
	if err != nil {
		return errorResult(err)
	}

	rep, err := release.Run(ctx, cfg, input.From, input.To, release.Deps{
		Logger:  s.deps.Logger,
		Tracer:  s.tracer,
		Metrics: s.deps.Report,
	})
	if err != nil {
		return errorResult(err)
	}

	if input.Format == FormatHTML {
		var buf bytes.Buffer

		renderErr := report.RenderHTML(&buf, rep)
		if renderErr != nil {
			return errorResult(renderErr)
		}

		return textResult(buf.String())
	}

	return jsonResult(report.NewDigest(rep))
}

// validateReportInput validates the release_report tool input parameters.
func validateReportInput(input ReportInput) error {
	err := validateRepoPath(input.RepoPath)
	if err != nil {
		return err
	}

	if input.From == "" || input.To == "" {
		return ErrEmptyRevision
	}

	switch input.Format {
	case "", FormatJSON, FormatHTML:
	default:
		return fmt.Errorf("%w: %q", ErrUnknownFormat, input.Format)
	}

	return nil
}

// reportConfig starts from defaults and the requested preset, skipping any
// config file, then overlays the non-empty inputs.
func reportConfig(input ReportInput) (*config.Config, error) {
	cfg, err := config.LoadConfig(config.LoadOptions{Preset: input.Preset, NoFile: true})
	if err != nil {
		return nil, err
	}

	cfg.Repo = input.RepoPath

	if input.BaseMode != "" {
		cfg.BaseMode = input.BaseMode
	}

	if input.Host != "" {
		cfg.Host = input.Host
	}

	if len(input.Suffixes) > 0 {
		cfg.Suffixes = input.Suffixes
	}

	if len(input.Zones) > 0 {
		cfg.Zones = input.Zones
	}

	if input.IssuePrefix != "" {
		cfg.Issues.Prefix = input.IssuePrefix
	}

	if input.IssueURL != "" {
		cfg.Issues.URL = input.IssueURL
	}

	if input.BulkQuery != "" {
		cfg.Issues.BulkQuery = input.BulkQuery
	}

	err = cfg.Validate()
	if err != nil {
		return nil, fmt.Errorf("validate input: %w", err)
	}

	return cfg, nil
}
