package git

import (
	"context"
	"path"
	"testing"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/stretchr/testify/require"

	fsb "github.com/input-output-hk/cookbook-status/fs/billy"
)

// testRepo is an in-memory repository with a worktree.
type testRepo struct {
	repo  *Repo
	fs    *fsb.FS
	clock time.Time
}

func newTestRepo(t *testing.T) *testRepo {
	t.Helper()

	memFS := fsb.NewInMemoryFS()
	repo, err := Init(context.Background(), &Options{FS: memFS})
	require.NoError(t, err, "failed to initialize test repository")

	return &testRepo{
		repo:  repo,
		fs:    memFS,
		clock: time.Date(2011, 6, 1, 12, 0, 0, 0, time.UTC),
	}
}

// commit replaces the worktree content with files and commits it. Each
// commit is one hour newer than the previous one.
func (tr *testRepo) commit(t *testing.T, msg string, files map[string]string) string {
	t.Helper()

	wt, err := tr.repo.repo.Worktree()
	require.NoError(t, err)

	idx, err := tr.repo.repo.Storer.Index()
	require.NoError(t, err)
	for _, e := range idx.Entries {
		if _, keep := files[e.Name]; !keep {
			require.NoError(t, tr.fs.Remove(e.Name))
		}
	}

	for name, content := range files {
		if dir := path.Dir(name); dir != "." {
			require.NoError(t, tr.fs.MkdirAll(dir, 0o755))
		}
		require.NoError(t, tr.fs.WriteFile(name, []byte(content), 0o644))
	}
	require.NoError(t, wt.AddWithOptions(&git.AddOptions{All: true}))

	tr.clock = tr.clock.Add(time.Hour)
	hash, err := wt.Commit(msg, &git.CommitOptions{
		AllowEmptyCommits: true,
		Author: &object.Signature{
			Name:  "Test",
			Email: "test@example.com",
			When:  tr.clock,
		},
	})
	require.NoError(t, err)
	return hash.String()
}
