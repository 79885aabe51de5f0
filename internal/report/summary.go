package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/clebertsuconic/git-release-report/pkg/zones"
)

// SummaryOptions configures RenderSummary.
type SummaryOptions struct {
	NoColor bool
	// MaxMessage truncates commit summaries; zero keeps them whole.
	MaxMessage int
}

// RenderSummary writes a terminal table of the report rows with humanized
// totals.
func RenderSummary(w io.Writer, rep *Report, opts SummaryOptions) error {
	headline := color.New(color.FgGreen, color.Bold)
	if opts.NoColor {
		headline.DisableColor()
	}

	_, err := headline.Fprintf(w, "Release report %s..%s: %s commits, %s merges skipped, %s issues\n",
		rep.FromExpr, rep.ToExpr,
		humanize.Comma(int64(len(rep.Rows))),
		humanize.Comma(int64(rep.Merges)),
		humanize.Comma(int64(rep.Issues.Len())),
	)
	if err != nil {
		return fmt.Errorf("write summary: %w", err)
	}

	tbl := table.NewWriter()
	tbl.SetStyle(table.StyleLight)
	tbl.Style().Options.SeparateRows = false
	tbl.Style().Options.SeparateColumns = false
	tbl.Style().Options.DrawBorder = false

	header := table.Row{"Commit", "Date", "Author", "Message", "Adds", "Updates", "Deletes"}
	for _, z := range rep.Zones {
		header = append(header, z.Name)
	}

	tbl.AppendHeader(header)

	for i := range rep.Rows {
		row := &rep.Rows[i]

		tr := table.Row{
			row.Commit.Short(),
			row.Commit.When.UTC().Format(DateLayout),
			row.Commit.AuthorName,
			truncate(row.Commit.Summary(), opts.MaxMessage),
			humanize.Comma(int64(row.Totals.Added)),
			humanize.Comma(int64(row.Totals.Replaced)),
			humanize.Comma(int64(row.Totals.Deleted)),
		}

		for _, descs := range row.Zones {
			tr = append(tr, zoneLabels(descs))
		}

		tbl.AppendRow(tr)
	}

	tbl.AppendFooter(table.Row{
		"Total", "", "", "",
		humanize.Comma(int64(rep.Totals.Added)),
		humanize.Comma(int64(rep.Totals.Replaced)),
		humanize.Comma(int64(rep.Totals.Deleted)),
	})

	if _, err = io.WriteString(w, tbl.Render()+"\n"); err != nil {
		return fmt.Errorf("write summary: %w", err)
	}

	return nil
}

func zoneLabels(descs []zones.Descriptor) string {
	labels := make([]string, 0, len(descs))

	for _, d := range descs {
		if d.Deleted {
			labels = append(labels, d.Label+" (deleted)")

			continue
		}

		labels = append(labels, d.Label)
	}

	return strings.Join(labels, " ")
}

func truncate(s string, maxRunes int) string {
	if maxRunes <= 0 {
		return s
	}

	r := []rune(s)
	if len(r) <= maxRunes {
		return s
	}

	return string(r[:maxRunes]) + "…"
}

// RenderClassifyTable writes one table row per classified file.
func RenderClassifyTable(w io.Writer, d ClassifyDigest) error {
	tbl := table.NewWriter()
	tbl.SetStyle(table.StyleLight)
	tbl.Style().Options.SeparateRows = false
	tbl.Style().Options.DrawBorder = false

	tbl.AppendHeader(table.Row{"Path", "Status", "Zones", "Region", "Adds", "Updates", "Deletes", "Counted"})

	for _, f := range d.Files {
		region := ""
		if f.Start > 0 {
			region = fmt.Sprintf("%d-%d", f.Start, f.End)
		}

		counted := ""
		if f.Totals {
			counted = "yes"
		}

		tbl.AppendRow(table.Row{
			f.Path,
			f.Status,
			strings.Join(f.Zones, " "),
			region,
			humanize.Comma(int64(f.Counts.Added)),
			humanize.Comma(int64(f.Counts.Replaced)),
			humanize.Comma(int64(f.Counts.Deleted)),
			counted,
		})
	}

	tbl.AppendFooter(table.Row{
		"Total", "", "", "",
		humanize.Comma(int64(d.Totals.Added)),
		humanize.Comma(int64(d.Totals.Replaced)),
		humanize.Comma(int64(d.Totals.Deleted)),
		"",
	})

	if _, err := io.WriteString(w, tbl.Render()+"\n"); err != nil {
		return fmt.Errorf("write classification: %w", err)
	}

	return nil
}
