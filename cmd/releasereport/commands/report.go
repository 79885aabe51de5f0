package commands

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/clebertsuconic/git-release-report/internal/config"
	"github.com/clebertsuconic/git-release-report/internal/release"
	"github.com/clebertsuconic/git-release-report/internal/report"
	"github.com/clebertsuconic/git-release-report/pkg/observability"
)

// Report output formats.
const (
	FormatHTML = "html"
	FormatJSON = "json"
)

// ErrUnknownFormat indicates a --format value other than html or json.
var ErrUnknownFormat = errors.New("format must be html or json")

// ReportCommand holds the flags of the report command.
type ReportCommand struct {
	config configFlags

	repo            string
	output          string
	format          string
	host            string
	issuePrefix     string
	issueURL        string
	bulkQuery       string
	zones           []string
	suffixes        []string
	baseMode        string
	stylesheet      string
	chart           string
	summary         bool
	noColor         bool
	maxMessage      int
	contextLines    int
	detectRenames   bool
	metricsTextfile string
}

// NewReportCommand creates the report command.
func NewReportCommand() *cobra.Command {
	rc := &ReportCommand{}

	cmd := &cobra.Command{
		Use:   "report <from> <to>",
		Short: "Write the release report of a commit range",
		Long: `Write an HTML report with one row per non-merge commit reachable from <to>
and not from <from>: line counts of source files outside the interest zones,
links to the changed regions of files inside each zone, and linkified issue ids.`,
		Args: cobra.ExactArgs(2),
		RunE: rc.run,
	}

	rc.config.register(cmd)

	cmd.Flags().StringVarP(&rc.repo, "repo", "r", config.DefaultRepo, "Path to the git repository")
	cmd.Flags().StringVarP(&rc.output, "output", "o", "", "Output file (default: stdout)")
	cmd.Flags().StringVar(&rc.format, "format", FormatHTML, "Output format: html, json")
	cmd.Flags().StringVar(&rc.host, "host", "", "Repository web URL used for commit and file links")
	cmd.Flags().StringVar(&rc.issuePrefix, "issue-prefix", "", "Issue id prefix, e.g. ARTEMIS-")
	cmd.Flags().StringVar(&rc.issueURL, "issue-url", "", "URL prefix of a single issue page")
	cmd.Flags().StringVar(&rc.bulkQuery, "bulk-query", "", "Issue search URL prefix for the all-issues link")
	cmd.Flags().StringArrayVar(&rc.zones, "zone", nil, "Interest zone name=match:pattern (repeatable), e.g. docs=prefix:docs/")
	cmd.Flags().StringArrayVar(&rc.suffixes, "suffix", nil, "Source file suffix (repeatable), e.g. .java")
	cmd.Flags().StringVar(&rc.baseMode, "base-mode", config.DefaultBaseMode, "Diff base: sequence or parent")
	cmd.Flags().StringVar(&rc.stylesheet, "stylesheet", "", "Stylesheet href linked from the HTML page")
	cmd.Flags().StringVar(&rc.chart, "chart", "", "Also write a churn chart page to this file")
	cmd.Flags().BoolVar(&rc.summary, "summary", false, "Print a terminal summary table")
	cmd.Flags().BoolVar(&rc.noColor, "no-color", false, "Disable colored summary output")
	cmd.Flags().IntVar(&rc.maxMessage, "max-message", 0, "Truncate summary messages to this width (0 = no limit)")
	cmd.Flags().IntVar(&rc.contextLines, "context-lines", config.DefaultContextLines, "Unchanged context lines per hunk")
	cmd.Flags().BoolVar(&rc.detectRenames, "detect-renames", false, "Detect renamed files")
	cmd.Flags().StringVar(&rc.metricsTextfile, "metrics-textfile", "", "Write run metrics in Prometheus text format")

	return cmd
}

func (rc *ReportCommand) run(cmd *cobra.Command, args []string) error {
	switch rc.format {
	case FormatHTML, FormatJSON:
	default:
		return fmt.Errorf("%w: %q", ErrUnknownFormat, rc.format)
	}

	cfg, err := rc.config.load()
	if err != nil {
		return err
	}

	err = rc.applyFlags(cmd, cfg)
	if err != nil {
		return err
	}

	providers, err := initObservability(cfg, observability.ModeCLI, rc.metricsTextfile != "", cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	defer shutdownObservability(providers)

	metrics, err := observability.NewReportMetrics(providers.Meter)
	if err != nil {
		return err
	}

	rep, err := release.Run(cmd.Context(), cfg, args[0], args[1], release.Deps{
		Logger:  providers.Logger,
		Tracer:  providers.Tracer,
		Metrics: metrics,
	})
	if err != nil {
		return err
	}

	err = rc.writeReport(cmd.OutOrStdout(), rep)
	if err != nil {
		return err
	}

	if rc.chart != "" {
		err = report.WriteFileAtomic(rc.chart, func(w io.Writer) error {
			return report.RenderChart(w, rep)
		})
		if err != nil {
			return err
		}
	}

	if cfg.Output.Summary {
		summaryOut := cmd.ErrOrStderr()
		if rc.output != "" {
			summaryOut = cmd.OutOrStdout()
		}

		err = report.RenderSummary(summaryOut, rep, report.SummaryOptions{
			NoColor:    cfg.Output.NoColor,
			MaxMessage: cfg.Output.MaxMessage,
		})
		if err != nil {
			return err
		}
	}

	if rc.metricsTextfile != "" {
		return providers.WriteTextfile(rc.metricsTextfile)
	}

	return nil
}

func (rc *ReportCommand) writeReport(stdout io.Writer, rep *report.Report) error {
	render := func(w io.Writer) error {
		if rc.format == FormatJSON {
			return report.RenderJSON(w, rep)
		}

		return report.RenderHTML(w, rep)
	}

	if rc.output == "" {
		return render(stdout)
	}

	return report.WriteFileAtomic(rc.output, render)
}

// applyFlags overrides cfg with every flag set on the command line and
// re-validates the result.
func (rc *ReportCommand) applyFlags(cmd *cobra.Command, cfg *config.Config) error {
	flags := cmd.Flags()

	if flags.Changed("repo") {
		cfg.Repo = rc.repo
	}

	if flags.Changed("host") {
		cfg.Host = rc.host
	}

	if flags.Changed("issue-prefix") {
		cfg.Issues.Prefix = rc.issuePrefix
	}

	if flags.Changed("issue-url") {
		cfg.Issues.URL = rc.issueURL
	}

	if flags.Changed("bulk-query") {
		cfg.Issues.BulkQuery = rc.bulkQuery
	}

	if flags.Changed("zone") {
		zs, err := ParseZones(rc.zones)
		if err != nil {
			return err
		}

		cfg.Zones = zs
	}

	if flags.Changed("suffix") {
		cfg.Suffixes = rc.suffixes
	}

	if flags.Changed("base-mode") {
		cfg.BaseMode = rc.baseMode
	}

	if flags.Changed("stylesheet") {
		cfg.Output.Stylesheet = rc.stylesheet
	}

	if flags.Changed("summary") {
		cfg.Output.Summary = rc.summary
	}

	if flags.Changed("no-color") {
		cfg.Output.NoColor = rc.noColor
	}

	if flags.Changed("max-message") {
		cfg.Output.MaxMessage = rc.maxMessage
	}

	if flags.Changed("context-lines") {
		cfg.Diff.ContextLines = rc.contextLines
	}

	if flags.Changed("detect-renames") {
		cfg.Diff.DetectRenames = rc.detectRenames
	}

	err := cfg.Validate()
	if err != nil {
		return fmt.Errorf("validate flags: %w", err)
	}

	return nil
}
