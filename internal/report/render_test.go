package report_test

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clebertsuconic/git-release-report/internal/report"
)

func TestRenderSummary(t *testing.T) {
	t.Parallel()

	rep := newFixture(t).build(t)

	var buf bytes.Buffer
	require.NoError(t, report.RenderSummary(&buf, rep, report.SummaryOptions{NoColor: true}))

	out := buf.String()
	assert.Contains(t, out, "Release report 1.0.0..main: 2 commits, 1 merges skipped, 2 issues")
	assert.Contains(t, out, "1111111")
	assert.Contains(t, out, "FooTest.java")
	assert.Contains(t, out, "readme.md (deleted)")
	assert.NotContains(t, out, "\x1b[")
}

func TestRenderSummary_Truncates(t *testing.T) {
	t.Parallel()

	rep := newFixture(t).build(t)

	var buf bytes.Buffer
	require.NoError(t, report.RenderSummary(&buf, rep, report.SummaryOptions{NoColor: true, MaxMessage: 10}))

	assert.Contains(t, buf.String(), "ARTEMIS-12…")
	assert.NotContains(t, buf.String(), "&lt;broker")
}

func TestRenderChart_Deterministic(t *testing.T) {
	t.Parallel()

	render := func() string {
		var buf bytes.Buffer
		require.NoError(t, report.RenderChart(&buf, newFixture(t).build(t)))

		return buf.String()
	}

	first := render()
	assert.Contains(t, first, report.ChartID)
	assert.Contains(t, first, "1111111")
	assert.Contains(t, first, "Updates")
	assert.Equal(t, first, render())
}

func TestBuildChart_Series(t *testing.T) {
	t.Parallel()

	bar := report.BuildChart(newFixture(t).build(t))

	require.Len(t, bar.MultiSeries, 3)
	assert.Equal(t, "Adds", bar.MultiSeries[0].Name)
	assert.Equal(t, "Deletes", bar.MultiSeries[2].Name)
}

func TestWriteFileAtomic(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "report.html")

	err := report.WriteFileAtomic(path, func(w io.Writer) error {
		_, err := fmt.Fprint(w, "<html></html>")

		return err
	})
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "<html></html>", string(data))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestWriteFileAtomic_RenderFailureLeavesNothing(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "report.html")
	errRender := errors.New("render failed")

	err := report.WriteFileAtomic(path, func(w io.Writer) error {
		_, _ = fmt.Fprint(w, "<html>partial")

		return errRender
	})
	require.ErrorIs(t, err, errRender)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestWriteFileAtomic_KeepsPreviousOnFailure(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "report.html")
	require.NoError(t, os.WriteFile(path, []byte("old"), 0o600))

	err := report.WriteFileAtomic(path, func(io.Writer) error { return errBoom })
	require.ErrorIs(t, err, errBoom)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "old", string(data))
}

func TestWriteFileAtomic_MissingDirectory(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "missing", "report.html")

	err := report.WriteFileAtomic(path, func(io.Writer) error { return nil })
	require.Error(t, err)
}
