package report

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/clebertsuconic/git-release-report/pkg/classify"
	"github.com/clebertsuconic/git-release-report/pkg/zones"
)

// Digest is the machine-readable form of a report.
type Digest struct {
	From    string      `json:"from"`
	To      string      `json:"to"`
	FromRef string      `json:"from_ref"`
	ToRef   string      `json:"to_ref"`
	Merges  int         `json:"merges_skipped"`
	Totals  Counts      `json:"totals"`
	Issues  []string    `json:"issues"`
	Zones   []string    `json:"zones"`
	Rows    []RowDigest `json:"rows"`
}

// Counts mirrors classify.LineCounts with JSON names.
type Counts struct {
	Added    int `json:"added"`
	Replaced int `json:"replaced"`
	Deleted  int `json:"deleted"`
}

// RowDigest is one commit of a Digest.
type RowDigest struct {
	Commit  string                `json:"commit"`
	Base    string                `json:"base,omitempty"`
	Author  string                `json:"author"`
	Date    string                `json:"date"`
	Summary string                `json:"summary"`
	Counts  Counts                `json:"counts"`
	Issues  []string              `json:"issues,omitempty"`
	Zones   map[string][]FileLink `json:"zones,omitempty"`
}

// FileLink is a zone entry; URL is empty for deletions.
type FileLink struct {
	Path    string `json:"path"`
	URL     string `json:"url,omitempty"`
	Start   int    `json:"start,omitempty"`
	End     int    `json:"end,omitempty"`
	Deleted bool   `json:"deleted,omitempty"`
}

func countsOf(c classify.LineCounts) Counts {
	return Counts{Added: c.Added, Replaced: c.Replaced, Deleted: c.Deleted}
}

// NewDigest converts rep. Issue ids are sorted; dates are RFC 3339 UTC.
func NewDigest(rep *Report) Digest {
	d := Digest{
		From:    rep.From.Hash,
		To:      rep.To.Hash,
		FromRef: rep.FromExpr,
		ToRef:   rep.ToExpr,
		Merges:  rep.Merges,
		Totals:  countsOf(rep.Totals),
		Issues:  []string{},
		Zones:   make([]string, len(rep.Zones)),
		Rows:    make([]RowDigest, 0, len(rep.Rows)),
	}

	if rep.Issues != nil {
		d.Issues = rep.Issues.Sorted()
	}

	for i, z := range rep.Zones {
		d.Zones[i] = z.Name
	}

	for i := range rep.Rows {
		row := &rep.Rows[i]

		rd := RowDigest{
			Commit:  row.Commit.Hash,
			Base:    row.Base.Hash,
			Author:  row.Commit.AuthorName,
			Date:    row.Commit.When.UTC().Format("2006-01-02T15:04:05Z"),
			Summary: row.Commit.Summary(),
			Counts:  countsOf(row.Totals),
			Issues:  row.Issues,
		}

		for z, descs := range row.Zones {
			if len(descs) == 0 {
				continue
			}

			if rd.Zones == nil {
				rd.Zones = make(map[string][]FileLink)
			}

			rd.Zones[d.Zones[z]] = fileLinks(rep.Links, descs)
		}

		d.Rows = append(d.Rows, rd)
	}

	return d
}

func fileLinks(links Links, descs []zones.Descriptor) []FileLink {
	out := make([]FileLink, 0, len(descs))

	for _, desc := range descs {
		fl := FileLink{
			Path:    desc.Path,
			Start:   desc.Span.Start,
			End:     desc.Span.End,
			Deleted: desc.Deleted,
		}

		if links.Host != "" {
			fl.URL = links.Descriptor(desc)
		}

		out = append(out, fl)
	}

	return out
}

// RenderJSON writes the report digest as indented JSON.
func RenderJSON(w io.Writer, rep *Report) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")

	if err := enc.Encode(NewDigest(rep)); err != nil {
		return fmt.Errorf("encode report: %w", err)
	}

	return nil
}

// FileDigest is the machine-readable classification of one file.
type FileDigest struct {
	Path   string   `json:"path"`
	Status string   `json:"status"`
	Source bool     `json:"source"`
	Binary bool     `json:"binary,omitempty"`
	Zones  []string `json:"zones,omitempty"`
	Start  int      `json:"start,omitempty"`
	End    int      `json:"end,omitempty"`
	Counts Counts   `json:"counts"`
	Totals bool     `json:"in_totals"`
}

// ClassifyDigest is the machine-readable result of classifying one patch.
type ClassifyDigest struct {
	Files  []FileDigest `json:"files"`
	Totals Counts       `json:"totals"`
}

// NewClassifyDigest converts a classification result; zs names the zone
// indices.
func NewClassifyDigest(result classify.Result, zs []zones.Zone) ClassifyDigest {
	d := ClassifyDigest{
		Files:  make([]FileDigest, 0, len(result.Files)),
		Totals: countsOf(result.Totals),
	}

	for i := range result.Files {
		fc := &result.Files[i]

		fd := FileDigest{
			Path:   fc.Path,
			Status: fc.Status.String(),
			Source: fc.Source,
			Binary: fc.Binary,
			Start:  fc.Region.Start,
			End:    fc.Region.End,
			Counts: countsOf(fc.Counts),
			Totals: fc.CountsTowardTotals(),
		}

		for _, idx := range fc.Zones {
			fd.Zones = append(fd.Zones, zs[idx].Name)
		}

		d.Files = append(d.Files, fd)
	}

	return d
}
