package gitlib

import (
	"context"
	"fmt"

	git2go "github.com/libgit2/git2go/v34"

	"github.com/clebertsuconic/git-release-report/pkg/changes"
)

// DefaultContextLines matches git's unified diff context.
const DefaultContextLines = 3

// DiffOptions tunes tree diffs.
type DiffOptions struct {
	// ContextLines is the unchanged lines kept around each change; negative
	// keeps libgit2's default.
	ContextLines  int
	DetectRenames bool
}

// DefaultDiffOptions returns git's defaults: three context lines, no rename
// detection.
func DefaultDiffOptions() DiffOptions {
	return DiffOptions{ContextLines: DefaultContextLines}
}

// Diff wraps a libgit2 diff.
type Diff struct {
	diff *git2go.Diff
}

// NumDeltas returns the number of deltas in the diff.
func (d *Diff) NumDeltas() (int, error) {
	n, err := d.diff.NumDeltas()
	if err != nil {
		return 0, fmt.Errorf("get num deltas: %w", err)
	}

	return n, nil
}

// Patches converts the diff into per-file patches with line-level edits.
// Unmodified, ignored and untracked deltas are skipped.
func (d *Diff) Patches(ctx context.Context) ([]changes.FilePatch, error) {
	n, err := d.NumDeltas()
	if err != nil {
		return nil, err
	}

	state := &patchState{patches: make([]changes.FilePatch, 0, n), current: -1}

	err = d.diff.ForEach(func(delta git2go.DiffDelta, _ float64) (git2go.DiffForEachHunkCallback, error) {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}

		state.closeHunk()

		status, ok := statusOf(delta.Status)
		if !ok {
			state.current = -1

			return skipHunks, nil
		}

		state.patches = append(state.patches, changes.FilePatch{
			OldPath: delta.OldFile.Path,
			NewPath: delta.NewFile.Path,
			Status:  status,
			Binary:  delta.Flags&git2go.DiffFlagBinary != 0,
		})
		state.current = len(state.patches) - 1

		return state.onHunk, nil
	}, git2go.DiffDetailLines)
	if err != nil {
		return nil, fmt.Errorf("diff foreach: %w", err)
	}

	state.closeHunk()

	return state.patches, nil
}

// Free releases the diff resources.
func (d *Diff) Free() {
	if d.diff == nil {
		return
	}

	freeDiff(d.diff)
	d.diff = nil
}

func freeDiff(diff *git2go.Diff) {
	// Free errors are non-actionable in cleanup.
	_ = diff.Free()
}

// patchState accumulates ForEach callbacks. libgit2 reports no hunk end,
// so a hunk is closed when the next hunk or file starts.
type patchState struct {
	patches []changes.FilePatch
	current int
	hunk    *changes.Hunk
	builder *changes.EditBuilder
}

func (s *patchState) onHunk(h git2go.DiffHunk) (git2go.DiffForEachLineCallback, error) {
	s.closeHunk()

	if s.current < 0 {
		return skipLines, nil
	}

	s.hunk = &changes.Hunk{
		OldStart: h.OldStart,
		OldLines: h.OldLines,
		NewStart: h.NewStart,
		NewLines: h.NewLines,
	}
	s.builder = changes.NewEditBuilder(h.OldStart, h.OldLines, h.NewStart, h.NewLines)

	return s.onLine, nil
}

func (s *patchState) onLine(line git2go.DiffLine) error {
	switch line.Origin {
	case git2go.DiffLineContext:
		s.builder.Context()
	case git2go.DiffLineAddition:
		s.builder.Insert()
	case git2go.DiffLineDeletion:
		s.builder.Delete()
	case git2go.DiffLineBinary:
		s.patches[s.current].Binary = true
	case git2go.DiffLineContextEOFNL,
		git2go.DiffLineAddEOFNL,
		git2go.DiffLineDelEOFNL,
		git2go.DiffLineFileHdr,
		git2go.DiffLineHunkHdr:
	}

	return nil
}

func (s *patchState) closeHunk() {
	if s.hunk == nil {
		return
	}

	s.hunk.Edits = s.builder.Edits()
	s.patches[s.current].Hunks = append(s.patches[s.current].Hunks, *s.hunk)
	s.hunk = nil
	s.builder = nil
}

func skipHunks(git2go.DiffHunk) (git2go.DiffForEachLineCallback, error) {
	return skipLines, nil
}

func skipLines(git2go.DiffLine) error {
	return nil
}

func statusOf(delta git2go.Delta) (changes.Status, bool) {
	switch delta {
	case git2go.DeltaAdded:
		return changes.StatusAdded, true
	case git2go.DeltaDeleted:
		return changes.StatusDeleted, true
	case git2go.DeltaRenamed:
		return changes.StatusRenamed, true
	case git2go.DeltaCopied:
		return changes.StatusCopied, true
	case git2go.DeltaModified, git2go.DeltaTypeChange:
		return changes.StatusModified, true
	case git2go.DeltaUnmodified, git2go.DeltaIgnored, git2go.DeltaUntracked,
		git2go.DeltaUnreadable, git2go.DeltaConflicted:
		return 0, false
	}

	return 0, false
}

// CommitPatches diffs the tree of base against the tree of commit. A zero
// base diffs against the empty tree. Identical trees yield no patches.
func (r *Repository) CommitPatches(ctx context.Context, base, commit Hash, opts DiffOptions) ([]changes.FilePatch, error) {
	newTree, err := r.commitTree(ctx, commit)
	if err != nil {
		return nil, err
	}
	defer newTree.Free()

	var oldTree *Tree

	if !base.IsZero() {
		oldTree, err = r.commitTree(ctx, base)
		if err != nil {
			return nil, err
		}
		defer oldTree.Free()

		if oldTree.Hash() == newTree.Hash() {
			return nil, nil
		}
	}

	diff, err := r.DiffTreeToTree(oldTree, newTree, opts)
	if err != nil {
		return nil, err
	}
	defer diff.Free()

	return diff.Patches(ctx)
}

func (r *Repository) commitTree(ctx context.Context, hash Hash) (*Tree, error) {
	commit, err := r.LookupCommit(ctx, hash)
	if err != nil {
		return nil, err
	}
	defer commit.Free()

	return commit.Tree()
}
