package gitlib

import (
	"context"
	"errors"
	"fmt"

	git2go "github.com/libgit2/git2go/v34"

	"github.com/clebertsuconic/git-release-report/pkg/safeconv"
)

// ErrRevisionNotFound is returned when a revision expression names nothing.
var ErrRevisionNotFound = errors.New("revision not found")

// ErrNotCommit is returned when a revision names an object that does not
// peel to a commit.
var ErrNotCommit = errors.New("revision is not a commit")

// Repository wraps a libgit2 repository.
type Repository struct {
	repo *git2go.Repository
	path string
}

// OpenRepository opens a git repository at the given path.
func OpenRepository(path string) (*Repository, error) {
	repo, err := git2go.OpenRepository(path)
	if err != nil {
		return nil, fmt.Errorf("open repository: %w", err)
	}

	return &Repository{repo: repo, path: path}, nil
}

// Path returns the repository path.
func (r *Repository) Path() string {
	return r.path
}

// Free releases the repository resources.
func (r *Repository) Free() {
	if r.repo != nil {
		r.repo.Free()
		r.repo = nil
	}
}

// Head returns the commit HEAD points at.
func (r *Repository) Head() (Hash, error) {
	ref, err := r.repo.Head()
	if err != nil {
		return Hash{}, fmt.Errorf("get HEAD: %w", err)
	}
	defer ref.Free()

	return HashFromOid(ref.Target()), nil
}

// ResolveCommit resolves a revision expression (hash, abbreviated hash,
// branch, tag, HEAD~n, ...) to the commit it peels to.
func (r *Repository) ResolveCommit(ctx context.Context, rev string) (*Commit, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	obj, err := r.repo.RevparseSingle(rev)
	if err != nil {
		if git2go.IsErrorCode(err, git2go.ErrorCodeNotFound) || git2go.IsErrorCode(err, git2go.ErrorCodeAmbiguous) {
			return nil, fmt.Errorf("%w: %s: %w", ErrRevisionNotFound, rev, err)
		}

		return nil, fmt.Errorf("revparse %s: %w", rev, err)
	}
	defer obj.Free()

	peeled, err := obj.Peel(git2go.ObjectCommit)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrNotCommit, rev)
	}
	defer peeled.Free()

	commit, err := r.repo.LookupCommit(peeled.Id())
	if err != nil {
		return nil, fmt.Errorf("lookup commit %s: %w", rev, err)
	}

	return &Commit{commit: commit, repo: r}, nil
}

// LookupCommit returns the commit with the given hash.
func (r *Repository) LookupCommit(ctx context.Context, hash Hash) (*Commit, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	commit, err := r.repo.LookupCommit(hash.ToOid())
	if err != nil {
		return nil, fmt.Errorf("lookup commit %s: %w", hash, err)
	}

	return &Commit{commit: commit, repo: r}, nil
}

// Range returns a walker over the commits reachable from to and not from
// from, oldest first. Merges are included; callers filter them.
func (r *Repository) Range(from, to Hash) (*RevWalk, error) {
	walk, err := r.repo.Walk()
	if err != nil {
		return nil, fmt.Errorf("create revwalk: %w", err)
	}

	rw := &RevWalk{walk: walk, repo: r}

	if err := rw.Push(to); err != nil {
		rw.Free()

		return nil, err
	}

	if !from.IsZero() {
		if err := rw.Hide(from); err != nil {
			rw.Free()

			return nil, err
		}
	}

	// Topological keeps parents before children when timestamps disagree.
	rw.Sorting(git2go.SortTopological | git2go.SortTime | git2go.SortReverse)

	return rw, nil
}

// DiffTreeToTree computes the diff between two trees. A nil tree is the
// empty tree.
func (r *Repository) DiffTreeToTree(oldTree, newTree *Tree, opts DiffOptions) (*Diff, error) {
	native, err := git2go.DefaultDiffOptions()
	if err != nil {
		return nil, fmt.Errorf("get diff options: %w", err)
	}

	if opts.ContextLines >= 0 {
		native.ContextLines = safeconv.MustIntToUint32(opts.ContextLines)
	}

	diff, err := r.repo.DiffTreeToTree(oldTree.native(), newTree.native(), &native)
	if err != nil {
		return nil, fmt.Errorf("diff trees: %w", err)
	}

	if opts.DetectRenames {
		findOpts, findErr := git2go.DefaultDiffFindOptions()
		if findErr != nil {
			freeDiff(diff)

			return nil, fmt.Errorf("get find options: %w", findErr)
		}

		findOpts.Flags = git2go.DiffFindRenames

		if findErr = diff.FindSimilar(&findOpts); findErr != nil {
			freeDiff(diff)

			return nil, fmt.Errorf("find renames: %w", findErr)
		}
	}

	return &Diff{diff: diff}, nil
}
