package classify

import (
	"strings"

	"github.com/src-d/enry/v2"

	"github.com/clebertsuconic/git-release-report/pkg/zones"
)

// SourceFilter decides which paths count as source code for line totals.
// A path is source when it ends with one of Suffixes or when its detected
// language is listed in Languages. With both lists empty every path is
// source. SkipVendored rejects vendored paths first.
type SourceFilter struct {
	Suffixes     []string
	Languages    []string
	SkipVendored bool

	languageSet map[string]bool
}

// NewSourceFilter builds a filter; language names are matched case-insensitively
// against the linguist names reported by enry (e.g. "Java", "Go", "Markdown").
func NewSourceFilter(suffixes, languages []string, skipVendored bool) SourceFilter {
	set := make(map[string]bool, len(languages))
	for _, lang := range languages {
		set[strings.ToLower(strings.TrimSpace(lang))] = true
	}

	return SourceFilter{
		Suffixes:     append([]string(nil), suffixes...),
		Languages:    append([]string(nil), languages...),
		SkipVendored: skipVendored,
		languageSet:  set,
	}
}

// IsSource reports whether p participates in line totals.
func (f SourceFilter) IsSource(p string) bool {
	if f.SkipVendored && enry.IsVendor(p) {
		return false
	}

	if len(f.Suffixes) == 0 && len(f.languageSet) == 0 {
		return true
	}

	if zones.HasSuffix(p, f.Suffixes) {
		return true
	}

	if len(f.languageSet) == 0 {
		return false
	}

	return f.languageSet[strings.ToLower(detectLanguage(p))]
}

func detectLanguage(p string) string {
	lang, _ := enry.GetLanguageByExtension(p)
	if lang != "" {
		return lang
	}

	lang, _ = enry.GetLanguageByFilename(p)

	return lang
}
