package report_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clebertsuconic/git-release-report/internal/report"
	"github.com/clebertsuconic/git-release-report/pkg/zones"
)

func renderHTML(t *testing.T, rep *report.Report) string {
	t.Helper()

	var buf bytes.Buffer
	require.NoError(t, report.RenderHTML(&buf, rep))

	return buf.String()
}

func TestRenderHTML_Layout(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	out := renderHTML(t, f.build(t))

	assert.Contains(t, out, `<meta content="text/html; charset=utf-8" http-equiv="Content-Type"/>`)
	assert.Contains(t, out, "<h4>Release report FROM 1.0.0 ("+f.from.Hash+") and TO main ("+f.c2.Hash+")</h4>")
	assert.Contains(t, out,
		"<tr><th>Commit</th><th>Date</th><th>Author</th><th>Short Message</th>"+
			"<th>Adds</th><th>Updates</th><th>Deletes</th><th>tests</th><th>docs</th></tr>")
	assert.NotContains(t, out, "stylesheet")

	wantFirst := "<tr>" +
		"<td><a href='" + testHost + "/commit/" + f.c1.Hash + "'>1111111</a></td>" +
		"<td>01/03/2024 10:00:00</td>" +
		"<td>Ada</td>" +
		"<td><a href='" + testIssueURL + "ARTEMIS-12'>ARTEMIS-12</a> fix &lt;broker&gt;</td>" +
		"<td>0</td><td>3</td><td>0</td>" +
		"<td><a href='" + testHost + "/blob/" + f.c1.Hash + "/src/test/FooTest.java#L10-L12'>FooTest.java</a></td>" +
		"<td></td>" +
		"</tr>"
	assert.Contains(t, out, wantFirst)
}

func TestRenderHTML_DatesAreUTC(t *testing.T) {
	t.Parallel()

	out := renderHTML(t, newFixture(t).build(t))

	assert.Contains(t, out, "<td>02/03/2024 10:30:05</td>")
}

func TestRenderHTML_DeletedFileHasNoLink(t *testing.T) {
	t.Parallel()

	out := renderHTML(t, newFixture(t).build(t))

	assert.Contains(t, out, "<td>readme.md</td>")
	assert.NotContains(t, out, "readme.md'")
}

func TestRenderHTML_BulkLink(t *testing.T) {
	t.Parallel()

	out := renderHTML(t, newFixture(t).build(t))

	assert.Contains(t, out,
		"<br/><h2><a href='"+testBulkQuery+"(ARTEMIS-12%2CARTEMIS-7)'>2 issues on this report</a></h2>")
}

func TestRenderHTML_NoBulkQuery(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	rep := f.build(t)
	rep.Links.BulkQuery = ""

	assert.NotContains(t, renderHTML(t, rep), "issues on this report")
}

func TestRenderHTML_RepeatedTokenLinkedEverywhere(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	f.c1.Message = "ARTEMIS-5 revert ARTEMIS-5"
	f.walker.pairs[0].Commit = f.c1

	rep := f.build(t)
	out := renderHTML(t, rep)

	link := "<a href='" + testIssueURL + "ARTEMIS-5'>ARTEMIS-5</a>"
	assert.Contains(t, out, "<td>"+link+" revert "+link+"</td>")
	assert.Equal(t, 3, rep.Issues.Len())
}

func TestRenderHTML_Deterministic(t *testing.T) {
	t.Parallel()

	first := renderHTML(t, newFixture(t).build(t))
	second := renderHTML(t, newFixture(t).build(t))

	assert.Equal(t, first, second)
}

func TestRenderHTML_Stylesheet(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	opts := f.options()
	opts.Stylesheet = "report.css"

	rep, err := report.Build(t.Context(), f.walker, f.source, f.classifier, opts)
	require.NoError(t, err)

	assert.Contains(t, renderHTML(t, rep), `<link rel="stylesheet" type="text/css" href="report.css"/>`)
}

func TestRenderHTML_WithoutHostShowsPlainText(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	rep := f.build(t)
	rep.Links = report.NewLinks("", "", "")

	out := renderHTML(t, rep)

	assert.Contains(t, out, "<td>1111111</td>")
	assert.Contains(t, out, "<td>FooTest.java</td>")
	assert.Contains(t, out, "<td>ARTEMIS-12 fix &lt;broker&gt;</td>")
}

func TestLinks(t *testing.T) {
	t.Parallel()

	links := report.NewLinks("https://example.com/repo//", "https://tracker/browse/", "https://tracker/q?jql=")

	assert.Equal(t, "https://example.com/repo/commit/abc", links.Commit("abc"))
	assert.Equal(t, "https://example.com/repo/blob/abc/a/B.java#L3-L12",
		links.File("abc", "a/B.java", zones.Span{Start: 3, End: 12}))
	assert.Equal(t, "https://example.com/repo/blob/abc/a/B.png", links.File("abc", "a/B.png", zones.Span{}))
	assert.Equal(t, "https://tracker/browse/X-1", links.Issue("X-1"))
	assert.Equal(t, "https://tracker/q?jql=(X-1%2CX-2)", links.Bulk([]string{"X-1", "X-2"}))
	assert.Empty(t, links.Descriptor(zones.Describe("abc", "a/B.java", true, zones.Span{Start: 1, End: 2})))
}
