package git

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-git/go-git/v5/plumbing/transport"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/input-output-hk/cookbook-status/fs"
	fsb "github.com/input-output-hk/cookbook-status/fs/billy"
)

// plainFS satisfies fs.Filesystem without being billy backed.
type plainFS struct{}

//nolint:ireturn // test double
func (plainFS) Open(string) (fs.File, error)                { return nil, nil }
func (plainFS) ReadDir(string) ([]os.FileInfo, error)       { return nil, nil }
func (plainFS) ReadFile(string) ([]byte, error)             { return nil, nil }
func (plainFS) Stat(string) (os.FileInfo, error)            { return nil, nil }
func (plainFS) Exists(string) (bool, error)                 { return false, nil }
func (plainFS) Create(string) (fs.File, error)              { return nil, nil }
func (plainFS) MkdirAll(string, os.FileMode) error          { return nil }
func (plainFS) Remove(string) error                         { return nil }
func (plainFS) Walk(string, filepath.WalkFunc) error        { return nil }
func (plainFS) WriteFile(string, []byte, os.FileMode) error { return nil }

func TestOptions_Validate(t *testing.T) {
	tests := []struct {
		name    string
		options Options
		wantErr bool
	}{
		{name: "valid options", options: Options{FS: plainFS{}}},
		{name: "nil filesystem", options: Options{}, wantErr: true},
		{name: "negative cache size", options: Options{FS: plainFS{}, StorerCacheSize: -1}, wantErr: true},
		{name: "negative shallow depth", options: Options{FS: plainFS{}, ShallowDepth: -1}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.options.Validate()
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidOptions)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestOptions_applyDefaults(t *testing.T) {
	opts := Options{FS: plainFS{}}
	opts.applyDefaults()
	assert.Equal(t, DefaultWorkdir, opts.Workdir)
	assert.Equal(t, DefaultStorerCacheSize, opts.StorerCacheSize)
	assert.Equal(t, DefaultBranch, opts.Branch)

	opts = Options{FS: plainFS{}, Workdir: "repo", StorerCacheSize: 10, Branch: "main"}
	opts.applyDefaults()
	assert.Equal(t, "repo", opts.Workdir)
	assert.Equal(t, 10, opts.StorerCacheSize)
	assert.Equal(t, "main", opts.Branch)
}

func TestOpen(t *testing.T) {
	ctx := context.Background()

	t.Run("no repository", func(t *testing.T) {
		repo, err := Open(ctx, &Options{FS: fsb.NewInMemoryFS()})
		require.Error(t, err)
		assert.Nil(t, repo)
		assert.ErrorIs(t, err, ErrNotRepository)
	})

	t.Run("filesystem not billy backed", func(t *testing.T) {
		_, err := Open(ctx, &Options{FS: plainFS{}})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "filesystem conversion failed")
	})

	t.Run("canceled context", func(t *testing.T) {
		canceled, cancel := context.WithCancel(ctx)
		cancel()
		_, err := Open(canceled, &Options{FS: fsb.NewInMemoryFS()})
		assert.ErrorIs(t, err, context.Canceled)
	})

	t.Run("reopen existing repository", func(t *testing.T) {
		tr := newTestRepo(t)
		want := tr.commit(t, "initial", map[string]string{"README.md": "hello"})

		repo, err := Open(ctx, &Options{FS: tr.fs})
		require.NoError(t, err)
		head, err := repo.Head(ctx)
		require.NoError(t, err)
		assert.Equal(t, want, head.Hash.String())
	})

	t.Run("workdir inside filesystem", func(t *testing.T) {
		memFS := fsb.NewInMemoryFS()
		_, err := Init(ctx, &Options{FS: memFS, Workdir: "cookbooks"})
		require.NoError(t, err)

		ok, err := memFS.Exists("cookbooks/.git")
		require.NoError(t, err)
		assert.True(t, ok)

		_, err = Open(ctx, &Options{FS: memFS, Workdir: "cookbooks"})
		assert.NoError(t, err)
	})
}

type stubAuth struct {
	err    error
	called string
}

//nolint:ireturn // transport.AuthMethod is an interface required by go-git
func (s *stubAuth) Method(remoteURL string) (transport.AuthMethod, error) {
	s.called = remoteURL
	return nil, s.err
}

func TestClone(t *testing.T) {
	ctx := context.Background()

	t.Run("empty URL", func(t *testing.T) {
		repo, err := Clone(ctx, "", &Options{FS: fsb.NewInMemoryFS()})
		require.ErrorIs(t, err, ErrInvalidOptions)
		assert.Nil(t, repo)
	})

	t.Run("nil filesystem", func(t *testing.T) {
		repo, err := Clone(ctx, "https://git.example.com/apache2.git", &Options{})
		require.ErrorIs(t, err, ErrInvalidOptions)
		assert.Nil(t, repo)
	})

	t.Run("auth failure stops before fetching", func(t *testing.T) {
		boom := errors.New("no credentials for host")
		provider := &stubAuth{err: boom}
		_, err := Clone(ctx, "https://git.example.com/apache2.git", &Options{
			FS:   fsb.NewInMemoryFS(),
			Bare: true,
			Auth: provider,
		})
		require.ErrorIs(t, err, boom)
		assert.Equal(t, "https://git.example.com/apache2.git", provider.called)
	})
}

func TestRepo_Head(t *testing.T) {
	tr := newTestRepo(t)

	_, err := tr.repo.Head(context.Background())
	require.ErrorIs(t, err, ErrNoHead)

	first := tr.commit(t, "first", map[string]string{"a.rb": "a"})
	head, err := tr.repo.Head(context.Background())
	require.NoError(t, err)
	assert.Equal(t, first, head.Hash.String())

	second := tr.commit(t, "second", map[string]string{"a.rb": "b"})
	head, err = tr.repo.Head(context.Background())
	require.NoError(t, err)
	assert.Equal(t, second, head.Hash.String())
}

func TestLog(t *testing.T) {
	tr := newTestRepo(t)
	c1 := tr.commit(t, "one", map[string]string{"a.rb": "1"})
	c2 := tr.commit(t, "two", map[string]string{"a.rb": "2"})
	c3 := tr.commit(t, "three", map[string]string{"a.rb": "3"})

	collect := func(t *testing.T, f LogFilter) []string {
		t.Helper()
		iter, err := tr.repo.Log(context.Background(), f)
		require.NoError(t, err)
		defer iter.Close()

		var ids []string
		for {
			c, err := iter.Next()
			require.NoError(t, err)
			if c == nil {
				return ids
			}
			ids = append(ids, c.Hash.String())
		}
	}

	assert.Equal(t, []string{c3, c2, c1}, collect(t, LogFilter{}))
	assert.Equal(t, []string{c3, c2}, collect(t, LogFilter{MaxCount: 2}))

	since := tr.clock.Add(-90 * time.Minute)
	assert.Equal(t, []string{c3, c2}, collect(t, LogFilter{Since: &since}))
}

func TestLog_EmptyRepository(t *testing.T) {
	tr := newTestRepo(t)
	_, err := tr.repo.Log(context.Background(), LogFilter{})
	assert.ErrorIs(t, err, ErrNoHead)
}
