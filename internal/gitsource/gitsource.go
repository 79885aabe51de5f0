// Package gitsource adapts a libgit2 repository to the commit walker and
// the report's diff source.
package gitsource

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/clebertsuconic/git-release-report/pkg/changes"
	"github.com/clebertsuconic/git-release-report/pkg/gitlib"
	"github.com/clebertsuconic/git-release-report/pkg/walk"
)

// ErrBadHash is returned when a commit ref does not carry a full hash.
var ErrBadHash = errors.New("invalid commit hash")

// Source serves commits and tree diffs from one repository.
type Source struct {
	repo   *gitlib.Repository
	opts   gitlib.DiffOptions
	logger *slog.Logger
}

// Open opens the repository at path.
func Open(path string, opts gitlib.DiffOptions, logger *slog.Logger) (*Source, error) {
	if logger == nil {
		logger = slog.Default()
	}

	repo, err := gitlib.OpenRepository(path)
	if err != nil {
		return nil, err
	}

	return &Source{repo: repo, opts: opts, logger: logger}, nil
}

// Close frees the repository.
func (s *Source) Close() {
	s.repo.Free()
}

// Resolve implements walk.Backend.
func (s *Source) Resolve(ctx context.Context, rev string) (walk.CommitRef, error) {
	commit, err := s.repo.ResolveCommit(ctx, rev)
	if err != nil {
		return walk.CommitRef{}, err
	}
	defer commit.Free()

	ref := toRef(commit)
	s.logger.DebugContext(ctx, "resolved revision", "rev", rev, "hash", ref.Hash)

	return ref, nil
}

// Lookup implements walk.Backend.
func (s *Source) Lookup(ctx context.Context, hash string) (walk.CommitRef, error) {
	h, err := parse(hash)
	if err != nil {
		return walk.CommitRef{}, err
	}

	commit, err := s.repo.LookupCommit(ctx, h)
	if err != nil {
		return walk.CommitRef{}, err
	}
	defer commit.Free()

	return toRef(commit), nil
}

// Log implements walk.Backend.
func (s *Source) Log(_ context.Context, from, to walk.CommitRef) (walk.Iterator, error) {
	toHash, err := parse(to.Hash)
	if err != nil {
		return nil, err
	}

	fromHash := gitlib.ZeroHash()

	if !from.IsZero() {
		fromHash, err = parse(from.Hash)
		if err != nil {
			return nil, err
		}
	}

	rw, err := s.repo.Range(fromHash, toHash)
	if err != nil {
		return nil, err
	}

	return &iterator{walk: rw}, nil
}

// Diff returns the file patches between base and commit. A zero base diffs
// against the empty tree.
func (s *Source) Diff(ctx context.Context, base, commit walk.CommitRef) ([]changes.FilePatch, error) {
	commitHash, err := parse(commit.Hash)
	if err != nil {
		return nil, err
	}

	baseHash := gitlib.ZeroHash()

	if !base.IsZero() {
		baseHash, err = parse(base.Hash)
		if err != nil {
			return nil, err
		}
	}

	return s.repo.CommitPatches(ctx, baseHash, commitHash, s.opts)
}

type iterator struct {
	walk *gitlib.RevWalk
}

func (it *iterator) Next(ctx context.Context) (walk.CommitRef, error) {
	commit, err := it.walk.Next(ctx)
	if errors.Is(err, io.EOF) {
		return walk.CommitRef{}, io.EOF
	}

	if err != nil {
		return walk.CommitRef{}, err
	}
	defer commit.Free()

	return toRef(commit), nil
}

func (it *iterator) Close() {
	it.walk.Free()
}

func parse(hash string) (gitlib.Hash, error) {
	h, ok := gitlib.ParseHash(hash)
	if !ok {
		return gitlib.Hash{}, fmt.Errorf("%w: %q", ErrBadHash, hash)
	}

	return h, nil
}

func toRef(c *gitlib.Commit) walk.CommitRef {
	author := c.Author()

	ref := walk.CommitRef{
		Hash:        c.Hash().String(),
		AuthorName:  author.Name,
		AuthorEmail: author.Email,
		When:        author.When,
		Message:     c.Message(),
		ParentCount: c.NumParents(),
	}

	if ref.ParentCount > 0 {
		ref.FirstParent = c.ParentHash(0).String()
	}

	return ref
}
