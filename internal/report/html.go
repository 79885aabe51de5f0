package report

import (
	"bytes"
	"embed"
	"fmt"
	"html"
	"html/template"
	"io"
	"strconv"
	"strings"
	"sync"

	"github.com/clebertsuconic/git-release-report/pkg/issues"
	"github.com/clebertsuconic/git-release-report/pkg/zones"
)

// DateLayout is the commit date format of the HTML table.
const DateLayout = "02/01/2006 15:04:05"

const reportTemplate = "report.html"

//go:embed templates/*.html
var templateFS embed.FS

var (
	templates     *template.Template
	templatesOnce sync.Once
	errTemplates  error
)

func getTemplates() (*template.Template, error) {
	templatesOnce.Do(func() {
		var parseErr error

		templates, parseErr = template.New("").ParseFS(templateFS, "templates/*.html")
		if parseErr != nil {
			errTemplates = fmt.Errorf("parsing templates: %w", parseErr)
		}
	})

	return templates, errTemplates
}

type pageData struct {
	Stylesheet string
	FromExpr   string
	ToExpr     string
	FromHash   string
	ToHash     string
	Zones      []string
	Rows       []rowData
	Bulk       template.HTML
}

type rowData struct {
	Commit   template.HTML
	Date     string
	Author   string
	Message  template.HTML
	Added    int
	Replaced int
	Deleted  int
	Zones    []template.HTML
}

// RenderHTML writes rep as a self-contained HTML document. Output depends
// only on rep, so equal reports render to equal bytes.
func RenderHTML(w io.Writer, rep *Report) error {
	tmpl, err := getTemplates()
	if err != nil {
		return fmt.Errorf("loading templates: %w", err)
	}

	var buf bytes.Buffer

	err = tmpl.ExecuteTemplate(&buf, reportTemplate, newPageData(rep))
	if err != nil {
		return fmt.Errorf("executing template %s: %w", reportTemplate, err)
	}

	if _, err = buf.WriteTo(w); err != nil {
		return fmt.Errorf("write report: %w", err)
	}

	return nil
}

func newPageData(rep *Report) pageData {
	data := pageData{
		Stylesheet: rep.Stylesheet,
		FromExpr:   rep.FromExpr,
		ToExpr:     rep.ToExpr,
		FromHash:   rep.From.Hash,
		ToHash:     rep.To.Hash,
		Zones:      make([]string, len(rep.Zones)),
		Rows:       make([]rowData, 0, len(rep.Rows)),
		Bulk:       bulkLink(rep),
	}

	for i, z := range rep.Zones {
		data.Zones[i] = z.Name
	}

	var issueLink func(string) string
	if rep.Links.IssueURL != "" {
		issueLink = rep.Links.Issue
	}

	for i := range rep.Rows {
		row := &rep.Rows[i]

		rd := rowData{
			Commit:   commitCell(rep.Links, row.Commit.Hash, row.Commit.Short()),
			Date:     row.Commit.When.UTC().Format(DateLayout),
			Author:   row.Commit.AuthorName,
			Message:  template.HTML(issues.Linkify(rep.IssuePrefix, row.Commit.Summary(), issueLink)), //nolint:gosec // escaped by Linkify.
			Added:    row.Totals.Added,
			Replaced: row.Totals.Replaced,
			Deleted:  row.Totals.Deleted,
			Zones:    make([]template.HTML, len(row.Zones)),
		}

		for z, descs := range row.Zones {
			rd.Zones[z] = zoneCell(rep.Links, descs)
		}

		data.Rows = append(data.Rows, rd)
	}

	return data
}

func commitCell(links Links, hash, short string) template.HTML {
	if links.Host == "" {
		return template.HTML(html.EscapeString(short)) //nolint:gosec // escaped.
	}

	return template.HTML(issues.Anchor(links.Commit(hash), short)) //nolint:gosec // escaped by Anchor.
}

// zoneCell lists the files of one zone, space separated. Deleted files and
// reports without a host are shown by name only.
func zoneCell(links Links, descs []zones.Descriptor) template.HTML {
	parts := make([]string, 0, len(descs))

	for _, d := range descs {
		href := ""
		if links.Host != "" {
			href = links.Descriptor(d)
		}

		if href == "" {
			parts = append(parts, html.EscapeString(d.Label))

			continue
		}

		parts = append(parts, issues.Anchor(href, d.Label))
	}

	return template.HTML(strings.Join(parts, " ")) //nolint:gosec // parts are escaped.
}

func bulkLink(rep *Report) template.HTML {
	if rep.Links.BulkQuery == "" || rep.Issues == nil || rep.Issues.Len() == 0 {
		return ""
	}

	ids := rep.Issues.Sorted()
	text := strconv.Itoa(len(ids)) + " issues on this report"

	return template.HTML(issues.Anchor(rep.Links.Bulk(ids), text)) //nolint:gosec // escaped by Anchor.
}
