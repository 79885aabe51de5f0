package walk_test

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clebertsuconic/git-release-report/pkg/walk"
)

var errNotFound = errors.New("not found")

// fakeBackend serves a linear history; log order is the slice order.
type fakeBackend struct {
	commits []walk.CommitRef
	byHash  map[string]walk.CommitRef
	refs    map[string]string
	closed  bool
}

func newFakeBackend(commits ...walk.CommitRef) *fakeBackend {
	b := &fakeBackend{
		commits: commits,
		byHash:  make(map[string]walk.CommitRef, len(commits)),
		refs:    map[string]string{},
	}

	for _, c := range commits {
		b.byHash[c.Hash] = c
	}

	return b
}

func (b *fakeBackend) Resolve(_ context.Context, rev string) (walk.CommitRef, error) {
	if hash, ok := b.refs[rev]; ok {
		rev = hash
	}

	c, ok := b.byHash[rev]
	if !ok {
		return walk.CommitRef{}, errNotFound
	}

	return c, nil
}

func (b *fakeBackend) Lookup(_ context.Context, hash string) (walk.CommitRef, error) {
	c, ok := b.byHash[hash]
	if !ok {
		return walk.CommitRef{}, errNotFound
	}

	return c, nil
}

func (b *fakeBackend) Log(_ context.Context, from, to walk.CommitRef) (walk.Iterator, error) {
	var out []walk.CommitRef

	inRange := false

	for _, c := range b.commits {
		if inRange {
			out = append(out, c)
		}

		if c.Hash == from.Hash {
			inRange = true
		}

		if c.Hash == to.Hash {
			break
		}
	}

	return &sliceIter{commits: out, owner: b}, nil
}

type sliceIter struct {
	commits []walk.CommitRef
	owner   *fakeBackend
}

func (it *sliceIter) Next(context.Context) (walk.CommitRef, error) {
	if len(it.commits) == 0 {
		return walk.CommitRef{}, io.EOF
	}

	c := it.commits[0]
	it.commits = it.commits[1:]

	return c, nil
}

func (it *sliceIter) Close() { it.owner.closed = true }

func commit(hash, parent string, parents int) walk.CommitRef {
	return walk.CommitRef{
		Hash:        hash,
		AuthorName:  "Dev",
		When:        time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC),
		Message:     "change " + hash + "\n\nbody",
		ParentCount: parents,
		FirstParent: parent,
	}
}

func history() *fakeBackend {
	return newFakeBackend(
		commit("c0", "", 0),
		commit("c1", "c0", 1),
		commit("c2", "c1", 1),
		commit("side", "c0", 1),
		commit("m3", "c2", 2),
		commit("c4", "m3", 1),
	)
}

func drain(t *testing.T, w *walk.Walker) []walk.Pair {
	t.Helper()

	var pairs []walk.Pair

	for {
		p, err := w.Next(context.Background())
		if errors.Is(err, io.EOF) {
			return pairs
		}

		require.NoError(t, err)

		pairs = append(pairs, p)
	}
}

func TestWalker_SequenceMode(t *testing.T) {
	t.Parallel()

	w, err := walk.New(context.Background(), history(), walk.Options{From: "c0", To: "c4"})
	require.NoError(t, err)

	defer w.Close()

	pairs := drain(t, w)
	require.Len(t, pairs, 4)

	assert.Equal(t, "c0", pairs[0].Base.Hash)
	assert.Equal(t, "c1", pairs[0].Commit.Hash)
	assert.Equal(t, "c1", pairs[1].Base.Hash)
	assert.Equal(t, "c2", pairs[1].Commit.Hash)
	assert.Equal(t, "c2", pairs[2].Base.Hash)
	assert.Equal(t, "side", pairs[2].Commit.Hash)
	// The merge is neither a row nor a base.
	assert.Equal(t, "side", pairs[3].Base.Hash)
	assert.Equal(t, "c4", pairs[3].Commit.Hash)

	assert.Equal(t, 1, w.Merges())
	assert.Equal(t, 4, w.Yielded())
	assert.Equal(t, "c0", w.From().Hash)
	assert.Equal(t, "c4", w.To().Hash)
}

func TestWalker_ParentMode(t *testing.T) {
	t.Parallel()

	w, err := walk.New(context.Background(), history(), walk.Options{From: "c0", To: "c4", Mode: walk.BaseParent})
	require.NoError(t, err)

	defer w.Close()

	pairs := drain(t, w)
	require.Len(t, pairs, 4)

	assert.Equal(t, "c0", pairs[2].Base.Hash, "side branches off c0")
	assert.Equal(t, "m3", pairs[3].Base.Hash, "first parent may be a merge")
}

func TestWalker_EmptyRange(t *testing.T) {
	t.Parallel()

	w, err := walk.New(context.Background(), history(), walk.Options{From: "c2", To: "c2"})
	require.NoError(t, err)

	defer w.Close()

	assert.Empty(t, drain(t, w))
}

func TestWalker_ResolvesSymbolicNames(t *testing.T) {
	t.Parallel()

	b := history()
	b.refs["v1.0"] = "c1"

	w, err := walk.New(context.Background(), b, walk.Options{From: "v1.0", To: "c2"})
	require.NoError(t, err)

	defer w.Close()

	pairs := drain(t, w)
	require.Len(t, pairs, 1)
	assert.Equal(t, "c1", pairs[0].Base.Hash)
}

func TestWalker_UnresolvableRevision(t *testing.T) {
	t.Parallel()

	_, err := walk.New(context.Background(), history(), walk.Options{From: "nope", To: "c4"})
	require.ErrorIs(t, err, walk.ErrResolve)
	require.ErrorIs(t, err, errNotFound)
	assert.Contains(t, err.Error(), `"nope"`)
}

func TestWalker_UnknownBaseMode(t *testing.T) {
	t.Parallel()

	_, err := walk.New(context.Background(), history(), walk.Options{From: "c0", To: "c4", Mode: "sideways"})
	require.ErrorIs(t, err, walk.ErrUnknownBaseMode)
}

func TestWalker_CloseReleasesIterator(t *testing.T) {
	t.Parallel()

	b := history()

	w, err := walk.New(context.Background(), b, walk.Options{From: "c0", To: "c4"})
	require.NoError(t, err)

	w.Close()
	w.Close()

	assert.True(t, b.closed)
}

func TestCommitRef_Accessors(t *testing.T) {
	t.Parallel()

	c := walk.CommitRef{Hash: "0123456789abcdef", Message: "ARTEMIS-1 fix\r\nmore"}

	assert.Equal(t, "0123456", c.Short())
	assert.Equal(t, "ARTEMIS-1 fix", c.Summary())
	assert.False(t, c.IsMerge())
	assert.False(t, c.IsZero())
	assert.True(t, walk.CommitRef{}.IsZero())
	assert.Equal(t, "abc", walk.CommitRef{Hash: "abc"}.Short())
}
