// Package classify turns per-file patches into classified edit spans, a
// changed region per file, zone membership and per-commit line totals.
package classify

import (
	"github.com/clebertsuconic/git-release-report/pkg/changes"
	"github.com/clebertsuconic/git-release-report/pkg/zones"
)

// EditSpan is one classified edit of a file. Lines is on the old side for
// deletions and on the new side for insertions and replacements.
type EditSpan struct {
	Kind  changes.EditKind
	Lines zones.Span
	Path  string
}

// Count returns the number of lines covered by the span.
func (s EditSpan) Count() int {
	return s.Lines.End - s.Lines.Start + 1
}

// LineCounts holds added, replaced and deleted line totals.
type LineCounts struct {
	Added    int
	Replaced int
	Deleted  int
}

// Total returns the sum of all counters.
func (c LineCounts) Total() int {
	return c.Added + c.Replaced + c.Deleted
}

func (c *LineCounts) add(other LineCounts) {
	c.Added += other.Added
	c.Replaced += other.Replaced
	c.Deleted += other.Deleted
}

// FileChange is the classification of one touched file.
type FileChange struct {
	Path   string
	Status changes.Status
	// Exists is false when the file was deleted.
	Exists bool
	Binary bool
	Spans  []EditSpan
	// Region spans from the smallest begin to the largest end of Spans.
	Region zones.Span
	Source bool
	Zones  []int
	Counts LineCounts
}

// InZone reports whether the file was routed to at least one zone.
func (f *FileChange) InZone() bool {
	return len(f.Zones) > 0
}

// CountsTowardTotals reports whether the file's lines enter the general totals.
func (f *FileChange) CountsTowardTotals() bool {
	return f.Exists && f.Source && !f.InZone()
}

// Result is the classification of one commit pair.
type Result struct {
	Files  []FileChange
	Totals LineCounts
}

// Classifier classifies patches. It holds no per-commit state.
type Classifier struct {
	router *zones.Router
	filter SourceFilter
}

// New creates a classifier. A nil router routes nothing.
func New(router *zones.Router, filter SourceFilter) *Classifier {
	return &Classifier{router: router, filter: filter}
}

// Router returns the zone router.
func (c *Classifier) Router() *zones.Router {
	return c.router
}

// Classify builds a fresh Result for the patches of one commit.
func (c *Classifier) Classify(patches []changes.FilePatch) Result {
	result := Result{Files: make([]FileChange, 0, len(patches))}

	for i := range patches {
		fc := c.classifyFile(&patches[i])

		if fc.CountsTowardTotals() {
			result.Totals.add(fc.Counts)
		}

		result.Files = append(result.Files, fc)
	}

	return result
}

func (c *Classifier) classifyFile(patch *changes.FilePatch) FileChange {
	fc := FileChange{
		Path:   patch.Path(),
		Status: patch.Status,
		Exists: !patch.Deleted(),
		Binary: patch.Binary,
		Source: c.filter.IsSource(patch.Path()),
	}

	if c.router != nil {
		fc.Zones = c.router.Match(fc.Path)
	}

	// A deletion is recorded by path only.
	if !fc.Exists {
		return fc
	}

	for _, hunk := range patch.Hunks {
		for _, edit := range hunk.Edits {
			span := spanOf(edit, fc.Path)

			switch edit.Kind {
			case changes.EditInsert:
				fc.Counts.Added += span.Count()
			case changes.EditReplace:
				fc.Counts.Replaced += span.Count()
			case changes.EditDelete:
				fc.Counts.Deleted += span.Count()
			}

			fc.Spans = append(fc.Spans, span)
		}
	}

	fc.Region = regionOf(fc.Spans)

	return fc
}

func spanOf(edit changes.Edit, path string) EditSpan {
	if edit.Kind == changes.EditDelete {
		return EditSpan{Kind: edit.Kind, Lines: zones.Span{Start: edit.OldBegin, End: edit.OldEnd}, Path: path}
	}

	return EditSpan{Kind: edit.Kind, Lines: zones.Span{Start: edit.NewBegin, End: edit.NewEnd}, Path: path}
}

func regionOf(spans []EditSpan) zones.Span {
	if len(spans) == 0 {
		return zones.Span{}
	}

	region := spans[0].Lines

	for _, s := range spans[1:] {
		region.Start = min(region.Start, s.Lines.Start)
		region.End = max(region.End, s.Lines.End)
	}

	return region
}
