// Package release wires configuration, the libgit2 source, the commit walker
// and the report builder into one run.
package release

import (
	"context"
	"fmt"
	"log/slog"

	"go.opentelemetry.io/otel/trace"

	"github.com/clebertsuconic/git-release-report/internal/config"
	"github.com/clebertsuconic/git-release-report/internal/gitsource"
	"github.com/clebertsuconic/git-release-report/internal/report"
	"github.com/clebertsuconic/git-release-report/pkg/classify"
	"github.com/clebertsuconic/git-release-report/pkg/observability"
	"github.com/clebertsuconic/git-release-report/pkg/walk"
	"github.com/clebertsuconic/git-release-report/pkg/zones"
)

// Deps holds injectable dependencies. Zero-value fields use defaults.
type Deps struct {
	Logger  *slog.Logger
	Tracer  trace.Tracer
	Metrics *observability.ReportMetrics
}

// Classifier builds the zone router and source filter described by cfg.
func Classifier(cfg *config.Config) (*classify.Classifier, error) {
	router, err := zones.NewRouter(cfg.Zones, cfg.Suffixes)
	if err != nil {
		return nil, fmt.Errorf("build zones: %w", err)
	}

	filter := classify.NewSourceFilter(cfg.Suffixes, cfg.Languages, cfg.SkipVendored)

	return classify.New(router, filter), nil
}

// Options returns the report options described by cfg.
func Options(cfg *config.Config, deps Deps) report.Options {
	return report.Options{
		Links:       report.NewLinks(cfg.Host, cfg.Issues.URL, cfg.Issues.BulkQuery),
		IssuePrefix: cfg.Issues.Prefix,
		Stylesheet:  cfg.Output.Stylesheet,
		Logger:      deps.Logger,
		Tracer:      deps.Tracer,
		Metrics:     deps.Metrics,
	}
}

// Run builds the report of the commits reachable from to and not from from
// in the repository at cfg.Repo.
func Run(ctx context.Context, cfg *config.Config, from, to string, deps Deps) (*report.Report, error) {
	classifier, err := Classifier(cfg)
	if err != nil {
		return nil, err
	}

	src, err := gitsource.Open(cfg.Repo, cfg.DiffOptions(), deps.Logger)
	if err != nil {
		return nil, err
	}
	defer src.Close()

	walker, err := walk.New(ctx, src, walk.Options{From: from, To: to, Mode: cfg.WalkMode()})
	if err != nil {
		return nil, err
	}
	defer walker.Close()

	return report.Build(ctx, walker, src, classifier, Options(cfg, deps))
}
