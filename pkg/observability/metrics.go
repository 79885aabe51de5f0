package observability

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const (
	metricCommits     = "releasereport.commits"
	metricLines       = "releasereport.lines"
	metricIssues      = "releasereport.issues"
	metricRuns        = "releasereport.runs"
	metricRunDuration = "releasereport.run.duration"
	metricToolCalls   = "releasereport.mcp.calls"
	metricToolLatency = "releasereport.mcp.duration"

	attrKind   = "kind"
	attrStatus = "status"
	attrTool   = "tool"

	kindRow      = "row"
	kindMerge    = "merge"
	kindAdded    = "added"
	kindReplaced = "replaced"
	kindDeleted  = "deleted"
)

// Run statuses recorded by RecordRun.
const (
	StatusOK    = "ok"
	StatusError = "error"
)

// durationBucketBoundaries covers 10ms to 10min: tiny ranges to full
// release cycles on large repositories.
var durationBucketBoundaries = []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60, 120, 300, 600}

// ReportMetrics holds the instruments of one report run. A nil
// *ReportMetrics records nothing.
type ReportMetrics struct {
	commits     metric.Int64Counter
	lines       metric.Int64Counter
	issues      metric.Int64Counter
	runs        metric.Int64Counter
	runDuration metric.Float64Histogram
}

// NewReportMetrics creates the report instruments from the given meter.
func NewReportMetrics(mt metric.Meter) (*ReportMetrics, error) {
	commits, err := mt.Int64Counter(metricCommits,
		metric.WithDescription("Commits walked, by kind (row or merge)"),
		metric.WithUnit("{commit}"),
	)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", metricCommits, err)
	}

	lines, err := mt.Int64Counter(metricLines,
		metric.WithDescription("Source lines counted in report totals, by kind"),
		metric.WithUnit("{line}"),
	)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", metricLines, err)
	}

	issues, err := mt.Int64Counter(metricIssues,
		metric.WithDescription("Distinct issue ids collected"),
		metric.WithUnit("{issue}"),
	)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", metricIssues, err)
	}

	runs, err := mt.Int64Counter(metricRuns,
		metric.WithDescription("Report runs, by status"),
		metric.WithUnit("{run}"),
	)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", metricRuns, err)
	}

	runDuration, err := mt.Float64Histogram(metricRunDuration,
		metric.WithDescription("Report run duration"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(durationBucketBoundaries...),
	)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", metricRunDuration, err)
	}

	return &ReportMetrics{
		commits:     commits,
		lines:       lines,
		issues:      issues,
		runs:        runs,
		runDuration: runDuration,
	}, nil
}

// RecordRow records one reported commit and its line totals.
func (rm *ReportMetrics) RecordRow(ctx context.Context, added, replaced, deleted int) {
	if rm == nil {
		return
	}

	rm.commits.Add(ctx, 1, metric.WithAttributes(attribute.String(attrKind, kindRow)))
	rm.lines.Add(ctx, int64(added), metric.WithAttributes(attribute.String(attrKind, kindAdded)))
	rm.lines.Add(ctx, int64(replaced), metric.WithAttributes(attribute.String(attrKind, kindReplaced)))
	rm.lines.Add(ctx, int64(deleted), metric.WithAttributes(attribute.String(attrKind, kindDeleted)))
}

// RecordMerges records merge commits skipped by the walk.
func (rm *ReportMetrics) RecordMerges(ctx context.Context, n int) {
	if rm == nil || n == 0 {
		return
	}

	rm.commits.Add(ctx, int64(n), metric.WithAttributes(attribute.String(attrKind, kindMerge)))
}

// RecordRun records a finished run with its status, distinct issue count
// and duration.
func (rm *ReportMetrics) RecordRun(ctx context.Context, status string, issues int, duration time.Duration) {
	if rm == nil {
		return
	}

	attrs := metric.WithAttributes(attribute.String(attrStatus, status))

	rm.runs.Add(ctx, 1, attrs)
	rm.runDuration.Record(ctx, duration.Seconds(), attrs)

	if issues > 0 {
		rm.issues.Add(ctx, int64(issues))
	}
}

// ToolMetrics records MCP tool calls. A nil *ToolMetrics records nothing.
type ToolMetrics struct {
	calls    metric.Int64Counter
	duration metric.Float64Histogram
}

// NewToolMetrics creates the MCP tool instruments from the given meter.
func NewToolMetrics(mt metric.Meter) (*ToolMetrics, error) {
	calls, err := mt.Int64Counter(metricToolCalls,
		metric.WithDescription("MCP tool calls, by tool and status"),
		metric.WithUnit("{call}"),
	)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", metricToolCalls, err)
	}

	duration, err := mt.Float64Histogram(metricToolLatency,
		metric.WithDescription("MCP tool call duration"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(durationBucketBoundaries...),
	)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", metricToolLatency, err)
	}

	return &ToolMetrics{calls: calls, duration: duration}, nil
}

// RecordCall records one finished tool call.
func (tm *ToolMetrics) RecordCall(ctx context.Context, tool, status string, duration time.Duration) {
	if tm == nil {
		return
	}

	attrs := metric.WithAttributes(
		attribute.String(attrTool, tool),
		attribute.String(attrStatus, status),
	)

	tm.calls.Add(ctx, 1, attrs)
	tm.duration.Record(ctx, duration.Seconds(), attrs)
}
