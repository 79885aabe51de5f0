// Package walk enumerates the non-merge commits of a revision range,
// oldest first, and pairs each one with the commit it is diffed against.
package walk

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"
)

// ShortHashLen is the length of abbreviated commit ids.
const ShortHashLen = 7

// ErrResolve is returned when a revision expression names no commit.
var ErrResolve = errors.New("cannot resolve revision")

// ErrUnknownBaseMode is returned for an unsupported BaseMode.
var ErrUnknownBaseMode = errors.New("unknown base mode")

// CommitRef is a read-only view of a commit.
type CommitRef struct {
	Hash        string
	AuthorName  string
	AuthorEmail string
	When        time.Time
	Message     string
	ParentCount int
	// FirstParent is the hash of the first parent, empty for root commits.
	FirstParent string
}

// Short returns the abbreviated hash.
func (c CommitRef) Short() string {
	if len(c.Hash) <= ShortHashLen {
		return c.Hash
	}

	return c.Hash[:ShortHashLen]
}

// Summary returns the first line of the message.
func (c CommitRef) Summary() string {
	for i := 0; i < len(c.Message); i++ {
		if c.Message[i] == '\n' {
			return trimCR(c.Message[:i])
		}
	}

	return trimCR(c.Message)
}

// IsMerge reports whether the commit has more than one parent.
func (c CommitRef) IsMerge() bool {
	return c.ParentCount > 1
}

// IsZero reports whether the ref is empty (the empty tree as a diff base).
func (c CommitRef) IsZero() bool {
	return c.Hash == ""
}

func trimCR(s string) string {
	if len(s) > 0 && s[len(s)-1] == '\r' {
		return s[:len(s)-1]
	}

	return s
}

// Iterator yields commits oldest first and returns io.EOF when exhausted.
type Iterator interface {
	Next(ctx context.Context) (CommitRef, error)
	Close()
}

// Backend is the version-control capability the walker needs.
type Backend interface {
	// Resolve turns a revision expression into a commit.
	Resolve(ctx context.Context, rev string) (CommitRef, error)
	// Lookup returns the commit with the given full hash.
	Lookup(ctx context.Context, hash string) (CommitRef, error)
	// Log yields the commits reachable from to and not from from, oldest
	// first, merges included.
	Log(ctx context.Context, from, to CommitRef) (Iterator, error)
}

// BaseMode selects the diff base of each reported commit.
type BaseMode string

const (
	// BaseSequence diffs against the previous non-merge commit of the walk.
	BaseSequence BaseMode = "sequence"
	// BaseParent diffs against the commit's first parent.
	BaseParent BaseMode = "parent"
)

// Options configures a walk.
type Options struct {
	From string
	To   string
	Mode BaseMode
}

// Pair is one reported commit and its diff base.
type Pair struct {
	Base   CommitRef
	Commit CommitRef
}

// Walker pulls commits lazily from a Backend.
type Walker struct {
	backend Backend
	iter    Iterator
	opts    Options
	from    CommitRef
	to      CommitRef
	prev    CommitRef
	merges  int
	yielded int
}

// New resolves the range and opens the underlying log. From is exclusive and
// serves as the diff base of the first reported commit; To is inclusive.
func New(ctx context.Context, backend Backend, opts Options) (*Walker, error) {
	if opts.Mode == "" {
		opts.Mode = BaseSequence
	}

	if opts.Mode != BaseSequence && opts.Mode != BaseParent {
		return nil, fmt.Errorf("%w: %s", ErrUnknownBaseMode, opts.Mode)
	}

	from, err := resolve(ctx, backend, opts.From)
	if err != nil {
		return nil, err
	}

	to, err := resolve(ctx, backend, opts.To)
	if err != nil {
		return nil, err
	}

	iter, err := backend.Log(ctx, from, to)
	if err != nil {
		return nil, fmt.Errorf("open log %s..%s: %w", opts.From, opts.To, err)
	}

	return &Walker{
		backend: backend,
		iter:    iter,
		opts:    opts,
		from:    from,
		to:      to,
		prev:    from,
	}, nil
}

func resolve(ctx context.Context, backend Backend, rev string) (CommitRef, error) {
	ref, err := backend.Resolve(ctx, rev)
	if err != nil {
		return CommitRef{}, fmt.Errorf("%w %q: %w", ErrResolve, rev, err)
	}

	return ref, nil
}

// Next returns the next non-merge commit with its diff base, or io.EOF.
func (w *Walker) Next(ctx context.Context) (Pair, error) {
	for {
		commit, err := w.iter.Next(ctx)
		if errors.Is(err, io.EOF) {
			return Pair{}, io.EOF
		}

		if err != nil {
			return Pair{}, fmt.Errorf("walk: %w", err)
		}

		if commit.IsMerge() {
			w.merges++

			continue
		}

		base, err := w.baseFor(ctx, commit)
		if err != nil {
			return Pair{}, err
		}

		w.prev = commit
		w.yielded++

		return Pair{Base: base, Commit: commit}, nil
	}
}

func (w *Walker) baseFor(ctx context.Context, commit CommitRef) (CommitRef, error) {
	if w.opts.Mode == BaseSequence {
		return w.prev, nil
	}

	if commit.FirstParent == "" {
		return CommitRef{}, nil
	}

	if commit.FirstParent == w.prev.Hash {
		return w.prev, nil
	}

	parent, err := w.backend.Lookup(ctx, commit.FirstParent)
	if err != nil {
		return CommitRef{}, fmt.Errorf("lookup parent of %s: %w", commit.Short(), err)
	}

	return parent, nil
}

// From returns the resolved lower bound.
func (w *Walker) From() CommitRef { return w.from }

// To returns the resolved upper bound.
func (w *Walker) To() CommitRef { return w.to }

// Options returns the options the walker was opened with.
func (w *Walker) Options() Options { return w.opts }

// Merges returns how many merge commits were skipped so far.
func (w *Walker) Merges() int { return w.merges }

// Yielded returns how many pairs were returned so far.
func (w *Walker) Yielded() int { return w.yielded }

// Close releases the underlying iterator.
func (w *Walker) Close() {
	if w.iter != nil {
		w.iter.Close()
		w.iter = nil
	}
}
