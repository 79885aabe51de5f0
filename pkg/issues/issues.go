// Package issues finds issue-tracker references such as "ARTEMIS-1234" in
// commit messages and keeps the run-wide set of distinct ids.
package issues

import (
	"html"
	"sort"
	"strings"
)

// Extract returns the sorted, distinct tokens made of prefix followed by a
// maximal run of ASCII digits. Every occurrence of prefix starts a new scan,
// including occurrences embedded in an earlier match. A prefix with no digit
// after it is not a token.
func Extract(prefix, message string) []string {
	if prefix == "" {
		return nil
	}

	seen := make(map[string]struct{})

	for from := 0; from < len(message); {
		idx := strings.Index(message[from:], prefix)
		if idx < 0 {
			break
		}

		start := from + idx
		end := digitRunEnd(message, start+len(prefix))

		if end > start+len(prefix) {
			seen[message[start:end]] = struct{}{}
		}

		from = start + 1
	}

	if len(seen) == 0 {
		return nil
	}

	ids := make([]string, 0, len(seen))
	for id := range seen {
		ids = append(ids, id)
	}

	sort.Strings(ids)

	return ids
}

// Linkify HTML-escapes message and wraps every issue token in an anchor
// built by link. Tokens are located by span, so a shorter id never rewrites
// part of a longer one.
func Linkify(prefix, message string, link func(id string) string) string {
	if prefix == "" || link == nil {
		return html.EscapeString(message)
	}

	var sb strings.Builder

	plainStart := 0

	for pos := 0; pos < len(message); {
		if !strings.HasPrefix(message[pos:], prefix) {
			pos++

			continue
		}

		end := digitRunEnd(message, pos+len(prefix))
		if end == pos+len(prefix) {
			pos++

			continue
		}

		id := message[pos:end]

		sb.WriteString(html.EscapeString(message[plainStart:pos]))
		sb.WriteString(Anchor(link(id), id))

		pos = end
		plainStart = end
	}

	sb.WriteString(html.EscapeString(message[plainStart:]))

	return sb.String()
}

// Anchor renders an HTML link with an escaped href and text.
func Anchor(href, text string) string {
	return "<a href='" + html.EscapeString(href) + "'>" + html.EscapeString(text) + "</a>"
}

func digitRunEnd(s string, i int) int {
	for i < len(s) && s[i] >= '0' && s[i] <= '9' {
		i++
	}

	return i
}
