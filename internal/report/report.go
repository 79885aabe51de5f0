// Package report builds a release report from a commit walk and renders it
// as an HTML table, a terminal summary or a churn chart.
package report

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	nooptrace "go.opentelemetry.io/otel/trace/noop"

	"github.com/clebertsuconic/git-release-report/pkg/changes"
	"github.com/clebertsuconic/git-release-report/pkg/classify"
	"github.com/clebertsuconic/git-release-report/pkg/issues"
	"github.com/clebertsuconic/git-release-report/pkg/observability"
	"github.com/clebertsuconic/git-release-report/pkg/walk"
	"github.com/clebertsuconic/git-release-report/pkg/zones"
)

// ErrDiff is returned when the diff of a commit cannot be computed.
var ErrDiff = errors.New("diff failed")

// Walker yields commit pairs; *walk.Walker implements it.
type Walker interface {
	Next(ctx context.Context) (walk.Pair, error)
	From() walk.CommitRef
	To() walk.CommitRef
	Options() walk.Options
	Merges() int
}

// DiffSource computes the file patches between two commits.
type DiffSource interface {
	Diff(ctx context.Context, base, commit walk.CommitRef) ([]changes.FilePatch, error)
}

// Options configures Build.
type Options struct {
	Links       Links
	IssuePrefix string
	// Stylesheet is an optional CSS URL linked from the HTML head.
	Stylesheet string

	Logger  *slog.Logger
	Tracer  trace.Tracer
	Metrics *observability.ReportMetrics
}

// Row is one reported commit.
type Row struct {
	Commit walk.CommitRef
	Base   walk.CommitRef
	// Totals cover source files outside every zone.
	Totals classify.LineCounts
	// Zones holds one descriptor list per configured zone, in zone order.
	Zones  [][]zones.Descriptor
	Issues []string
	Files  int
}

// Report is the buffered result of a run.
type Report struct {
	FromExpr string
	ToExpr   string
	From     walk.CommitRef
	To       walk.CommitRef
	Zones    []zones.Zone
	Rows     []Row
	Issues   *issues.Registry
	Merges   int
	Totals   classify.LineCounts

	Links       Links
	IssuePrefix string
	Stylesheet  string
}

// Build drives the walk to exhaustion, diffing and classifying every pair.
// Any error aborts the run; no partial report is returned.
func Build(
	ctx context.Context, walker Walker, source DiffSource, classifier *classify.Classifier, opts Options,
) (*Report, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	tracer := opts.Tracer
	if tracer == nil {
		tracer = nooptrace.NewTracerProvider().Tracer("report")
	}

	walkOpts := walker.Options()

	ctx, span := tracer.Start(ctx, "report.build", trace.WithAttributes(
		attribute.String("report.from", walkOpts.From),
		attribute.String("report.to", walkOpts.To),
	))
	defer span.End()

	start := time.Now()

	rep, err := build(ctx, walker, source, classifier, opts, tracer, logger)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		opts.Metrics.RecordRun(ctx, observability.StatusError, 0, time.Since(start))

		return nil, err
	}

	opts.Metrics.RecordMerges(ctx, rep.Merges)
	opts.Metrics.RecordRun(ctx, observability.StatusOK, rep.Issues.Len(), time.Since(start))

	span.SetAttributes(
		attribute.Int("report.rows", len(rep.Rows)),
		attribute.Int("report.merges", rep.Merges),
		attribute.Int("report.issues", rep.Issues.Len()),
	)

	logger.InfoContext(ctx, "report built",
		"from", rep.From.Short(),
		"to", rep.To.Short(),
		"rows", len(rep.Rows),
		"merges", rep.Merges,
		"issues", rep.Issues.Len(),
		"duration", time.Since(start),
	)

	return rep, nil
}

func build(
	ctx context.Context, walker Walker, source DiffSource, classifier *classify.Classifier,
	opts Options, tracer trace.Tracer, logger *slog.Logger,
) (*Report, error) {
	walkOpts := walker.Options()

	var zs []zones.Zone
	if router := classifier.Router(); router != nil {
		zs = router.Zones()
	}

	rep := &Report{
		FromExpr:    walkOpts.From,
		ToExpr:      walkOpts.To,
		From:        walker.From(),
		To:          walker.To(),
		Zones:       zs,
		Issues:      issues.NewRegistry(),
		Links:       opts.Links,
		IssuePrefix: opts.IssuePrefix,
		Stylesheet:  opts.Stylesheet,
	}

	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		pair, err := walker.Next(ctx)
		if errors.Is(err, io.EOF) {
			break
		}

		if err != nil {
			return nil, err
		}

		row, err := buildRow(ctx, pair, source, classifier, len(zs), opts.IssuePrefix, tracer)
		if err != nil {
			return nil, err
		}

		rep.Issues.Add(row.Issues...)
		rep.Totals.Added += row.Totals.Added
		rep.Totals.Replaced += row.Totals.Replaced
		rep.Totals.Deleted += row.Totals.Deleted
		rep.Rows = append(rep.Rows, row)

		opts.Metrics.RecordRow(ctx, row.Totals.Added, row.Totals.Replaced, row.Totals.Deleted)

		logger.DebugContext(ctx, "commit classified",
			"commit", row.Commit.Short(),
			"base", row.Base.Short(),
			"files", row.Files,
			"added", row.Totals.Added,
			"replaced", row.Totals.Replaced,
			"deleted", row.Totals.Deleted,
			"issues", len(row.Issues),
		)
	}

	rep.Merges = walker.Merges()

	return rep, nil
}

func buildRow(
	ctx context.Context, pair walk.Pair, source DiffSource, classifier *classify.Classifier,
	zoneCount int, issuePrefix string, tracer trace.Tracer,
) (Row, error) {
	ctx, span := tracer.Start(ctx, "report.commit", trace.WithAttributes(
		attribute.String("commit", pair.Commit.Hash),
	))
	defer span.End()

	patches, err := source.Diff(ctx, pair.Base, pair.Commit)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())

		return Row{}, fmt.Errorf("%w: %s..%s: %w", ErrDiff, pair.Base.Short(), pair.Commit.Short(), err)
	}

	result := classifier.Classify(patches)

	row := Row{
		Commit: pair.Commit,
		Base:   pair.Base,
		Totals: result.Totals,
		Zones:  make([][]zones.Descriptor, zoneCount),
		Issues: issues.Extract(issuePrefix, pair.Commit.Summary()),
		Files:  len(result.Files),
	}

	for i := range result.Files {
		fc := &result.Files[i]

		for _, idx := range fc.Zones {
			row.Zones[idx] = append(row.Zones[idx], zones.Describe(pair.Commit.Hash, fc.Path, !fc.Exists, fc.Region))
		}
	}

	return row, nil
}
