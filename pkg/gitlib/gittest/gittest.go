// Package gittest builds throwaway git repositories for tests.
package gittest

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	git2go "github.com/libgit2/git2go/v34"
	"github.com/stretchr/testify/require"

	"github.com/clebertsuconic/git-release-report/pkg/gitlib"
)

// Signature used for every test commit.
const (
	AuthorName  = "Test User"
	AuthorEmail = "test@example.com"
)

// Epoch is the author time of the first commit; each commit adds a minute.
var Epoch = time.Date(2024, time.March, 1, 10, 0, 0, 0, time.UTC)

// Repo is a git repository in a temp dir with a working tree.
type Repo struct {
	t      *testing.T
	Path   string
	native *git2go.Repository
	clock  time.Time
}

// New initializes an empty repository; it is freed on test cleanup.
func New(t *testing.T) *Repo {
	t.Helper()

	dir := t.TempDir()

	repo, err := git2go.InitRepository(dir, false)
	require.NoError(t, err)

	r := &Repo{t: t, Path: dir, native: repo, clock: Epoch}
	t.Cleanup(repo.Free)

	return r
}

// Write creates or overwrites a file in the working tree.
func (r *Repo) Write(name, content string) *Repo {
	r.t.Helper()

	path := filepath.Join(r.Path, filepath.FromSlash(name))
	require.NoError(r.t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(r.t, os.WriteFile(path, []byte(content), 0o644))

	return r
}

// Remove deletes a file from the working tree.
func (r *Repo) Remove(name string) *Repo {
	r.t.Helper()

	require.NoError(r.t, os.Remove(filepath.Join(r.Path, filepath.FromSlash(name))))

	return r
}

// Commit stages the working tree and commits it on HEAD.
func (r *Repo) Commit(message string) gitlib.Hash {
	r.t.Helper()

	return r.create("HEAD", message, r.headParents()...)
}

// CommitDetached commits the working tree with the given parent without
// moving HEAD, producing a side branch.
func (r *Repo) CommitDetached(message string, parent gitlib.Hash) gitlib.Hash {
	r.t.Helper()

	return r.create("", message, parent)
}

// Merge commits the working tree on HEAD with HEAD and other as parents.
func (r *Repo) Merge(message string, other gitlib.Hash) gitlib.Hash {
	r.t.Helper()

	return r.create("HEAD", message, append(r.headParents(), other)...)
}

// Tag creates a lightweight tag.
func (r *Repo) Tag(name string, target gitlib.Hash) {
	r.t.Helper()

	ref, err := r.native.References.Create("refs/tags/"+name, target.ToOid(), false, "")
	require.NoError(r.t, err)
	ref.Free()
}

func (r *Repo) headParents() []gitlib.Hash {
	head, err := r.native.Head()
	if err != nil {
		return nil
	}
	defer head.Free()

	return []gitlib.Hash{gitlib.HashFromOid(head.Target())}
}

func (r *Repo) create(refname, message string, parentHashes ...gitlib.Hash) gitlib.Hash {
	r.t.Helper()

	index, err := r.native.Index()
	require.NoError(r.t, err)

	defer index.Free()

	require.NoError(r.t, index.AddAll([]string{"*"}, git2go.IndexAddDefault, nil))
	require.NoError(r.t, index.UpdateAll([]string{"*"}, nil))
	require.NoError(r.t, index.Write())

	treeID, err := index.WriteTree()
	require.NoError(r.t, err)

	tree, err := r.native.LookupTree(treeID)
	require.NoError(r.t, err)

	defer tree.Free()

	parents := make([]*git2go.Commit, 0, len(parentHashes))

	for _, h := range parentHashes {
		parent, lookupErr := r.native.LookupCommit(h.ToOid())
		require.NoError(r.t, lookupErr)

		parents = append(parents, parent)
	}

	sig := &git2go.Signature{Name: AuthorName, Email: AuthorEmail, When: r.clock}
	r.clock = r.clock.Add(time.Minute)

	oid, err := r.native.CreateCommit(refname, sig, sig, message, tree, parents...)
	require.NoError(r.t, err)

	for _, p := range parents {
		p.Free()
	}

	return gitlib.HashFromOid(oid)
}
