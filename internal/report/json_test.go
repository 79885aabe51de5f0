package report_test

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clebertsuconic/git-release-report/internal/report"
	"github.com/clebertsuconic/git-release-report/pkg/changes"
	"github.com/clebertsuconic/git-release-report/pkg/classify"
	"github.com/clebertsuconic/git-release-report/pkg/zones"
)

func TestNewDigest(t *testing.T) {
	t.Parallel()

	d := report.NewDigest(newFixture(t).build(t))

	assert.Equal(t, hash('0'), d.From)
	assert.Equal(t, hash('2'), d.To)
	assert.Equal(t, "1.0.0", d.FromRef)
	assert.Equal(t, "main", d.ToRef)
	assert.Equal(t, 1, d.Merges)
	assert.Equal(t, report.Counts{Added: 2, Replaced: 3}, d.Totals)
	assert.Equal(t, []string{"ARTEMIS-12", "ARTEMIS-7"}, d.Issues)
	assert.Equal(t, []string{"tests", "docs"}, d.Zones)

	require.Len(t, d.Rows, 2)

	first := d.Rows[0]
	assert.Equal(t, hash('1'), first.Commit)
	assert.Equal(t, hash('0'), first.Base)
	assert.Equal(t, "Ada", first.Author)
	assert.Equal(t, "ARTEMIS-12 fix <broker>", first.Summary)
	assert.Equal(t, report.Counts{Replaced: 3}, first.Counts)
	assert.Equal(t, []string{"ARTEMIS-12"}, first.Issues)
	assert.Equal(t, map[string][]report.FileLink{
		"tests": {{
			Path:  "src/test/FooTest.java",
			URL:   testHost + "/blob/" + hash('1') + "/src/test/FooTest.java#L10-L12",
			Start: 10,
			End:   12,
		}},
	}, first.Zones)

	second := d.Rows[1]
	assert.Equal(t, "2024-03-02T10:30:05Z", second.Date)
	assert.Equal(t, report.Counts{Added: 2}, second.Counts)
	assert.Equal(t, map[string][]report.FileLink{
		"docs": {{Path: "docs/readme.md", Deleted: true}},
	}, second.Zones)
}

func TestRenderJSON(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	require.NoError(t, report.RenderJSON(&buf, newFixture(t).build(t)))

	var d report.Digest
	require.NoError(t, json.Unmarshal(buf.Bytes(), &d))
	assert.Len(t, d.Rows, 2)
	assert.Contains(t, buf.String(), `"merges_skipped": 1`)
}

func TestNewClassifyDigest(t *testing.T) {
	t.Parallel()

	zs := []zones.Zone{{Name: "tests", Match: zones.MatchContains, Pattern: "test"}}

	router, err := zones.NewRouter(zs, []string{".java"})
	require.NoError(t, err)

	result := classify.New(router, classify.NewSourceFilter([]string{".java"}, nil, false)).Classify([]changes.FilePatch{
		{
			OldPath: "src/Foo.java", NewPath: "src/Foo.java", Status: changes.StatusModified,
			Hunks: []changes.Hunk{{Edits: []changes.Edit{
				{Kind: changes.EditDelete, OldBegin: 7, OldEnd: 8, NewBegin: 7, NewEnd: 6},
			}}},
		},
		{
			NewPath: "src/test/FooTest.java", Status: changes.StatusAdded,
			Hunks: []changes.Hunk{{Edits: []changes.Edit{
				{Kind: changes.EditInsert, OldBegin: 1, OldEnd: 0, NewBegin: 1, NewEnd: 4},
			}}},
		},
	})

	d := report.NewClassifyDigest(result, router.Zones())

	assert.Equal(t, report.Counts{Deleted: 2}, d.Totals)
	require.Len(t, d.Files, 2)
	assert.Equal(t, report.FileDigest{
		Path:   "src/Foo.java",
		Status: "modified",
		Source: true,
		Start:  7,
		End:    8,
		Counts: report.Counts{Deleted: 2},
		Totals: true,
	}, d.Files[0])
	assert.Equal(t, []string{"tests"}, d.Files[1].Zones)
	assert.False(t, d.Files[1].Totals)
}
