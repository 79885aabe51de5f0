package report

import (
	"strconv"
	"strings"

	"github.com/clebertsuconic/git-release-report/pkg/zones"
)

// bulkSeparator is a URL-encoded comma.
const bulkSeparator = "%2C"

// Links builds the hyperlinks of a report.
type Links struct {
	// Host is the repository web root, e.g. https://github.com/apache/activemq-artemis.
	Host string
	// IssueURL is prepended to an issue id to browse it.
	IssueURL string
	// BulkQuery is the tracker query the parenthesized id list is appended to.
	BulkQuery string
}

// NewLinks normalizes host by dropping trailing slashes.
func NewLinks(host, issueURL, bulkQuery string) Links {
	return Links{
		Host:      strings.TrimRight(host, "/"),
		IssueURL:  issueURL,
		BulkQuery: bulkQuery,
	}
}

// Commit links a commit page.
func (l Links) Commit(hash string) string {
	return l.Host + "/commit/" + hash
}

// File links a file at a commit. A zero span links the whole file.
func (l Links) File(hash, path string, span zones.Span) string {
	u := l.Host + "/blob/" + hash + "/" + path
	if span.Start <= 0 {
		return u
	}

	return u + "#L" + strconv.Itoa(span.Start) + "-L" + strconv.Itoa(span.End)
}

// Issue links one issue.
func (l Links) Issue(id string) string {
	return l.IssueURL + id
}

// Bulk links a query over every id, in the order given.
func (l Links) Bulk(ids []string) string {
	return l.BulkQuery + "(" + strings.Join(ids, bulkSeparator) + ")"
}

// Descriptor links a zone descriptor; deletions get no link.
func (l Links) Descriptor(d zones.Descriptor) string {
	if d.Deleted {
		return ""
	}

	return l.File(d.Commit, d.Path, d.Span)
}
