package git

import (
	"context"
	"errors"
	"fmt"

	gobilly "github.com/go-git/go-billy/v5"
	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/go-git/go-git/v5/plumbing/transport"
	"github.com/go-git/go-git/v5/storage/filesystem"

	"github.com/input-output-hk/cookbook-status/fs"
	"github.com/input-output-hk/cookbook-status/git/internal/fsbridge"
)

const (
	// DefaultStorerCacheSize is the default size for the LRU object cache.
	DefaultStorerCacheSize = 1000

	// DefaultWorkdir is the default worktree directory name.
	DefaultWorkdir = "."

	// DefaultBranch is the branch cloned when none is configured.
	DefaultBranch = "master"
)

// Options configures how a repository is opened or cloned.
type Options struct {
	// FS is the REQUIRED filesystem holding the repository. It must come
	// from the fs/billy package.
	FS fs.Filesystem

	// Workdir is the path within FS of the worktree root.
	// Defaults to ".".
	Workdir string

	// Bare stores the repository without a worktree (.git contents at
	// Workdir). Clones used only for history are bare.
	Bare bool

	// StorerCacheSize sets the LRU objects cache entries.
	// Defaults to DefaultStorerCacheSize.
	StorerCacheSize int

	// Auth resolves credentials per remote URL. Nil means anonymous.
	Auth AuthProvider

	// Branch is the single branch fetched by Clone. Defaults to
	// DefaultBranch.
	Branch string

	// ShallowDepth limits Clone to that many commits when > 0.
	ShallowDepth int
}

// Validate checks that the Options are usable.
func (o *Options) Validate() error {
	if o.FS == nil {
		return WrapError(ErrInvalidOptions, "FS is required")
	}
	if o.StorerCacheSize < 0 {
		return WrapError(ErrInvalidOptions, "StorerCacheSize cannot be negative")
	}
	if o.ShallowDepth < 0 {
		return WrapError(ErrInvalidOptions, "ShallowDepth cannot be negative")
	}
	return nil
}

func (o *Options) applyDefaults() {
	if o.Workdir == "" {
		o.Workdir = DefaultWorkdir
	}
	if o.StorerCacheSize == 0 {
		o.StorerCacheSize = DefaultStorerCacheSize
	}
	if o.Branch == "" {
		o.Branch = DefaultBranch
	}
}

// AuthProvider resolves authentication methods for git operations.
type AuthProvider interface {
	// Method returns the transport.AuthMethod for remoteURL, or nil when
	// no credentials apply.
	Method(remoteURL string) (transport.AuthMethod, error)
}

// Repo is an opened git repository.
type Repo struct {
	repo    *git.Repository
	fs      fs.Filesystem
	options Options
}

// storage resolves the object storage and worktree for opts.
//
//nolint:ireturn // billy.Filesystem is what go-git consumes
func storage(opts *Options) (*filesystem.Storage, gobilly.Filesystem, error) {
	billyFS, err := fsbridge.ToBilly(opts.FS)
	if err != nil {
		return nil, nil, fmt.Errorf("filesystem conversion failed: %w", err)
	}

	scoped, err := billyFS.Chroot(opts.Workdir)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to chroot to workdir %q: %w", opts.Workdir, err)
	}

	if opts.Bare {
		return fsbridge.NewStorage(scoped, opts.StorerCacheSize), nil, nil
	}

	dotGit, err := scoped.Chroot(".git")
	if err != nil {
		return nil, nil, fmt.Errorf("failed to access .git directory: %w", err)
	}
	return fsbridge.NewStorage(dotGit, opts.StorerCacheSize), scoped, nil
}

// Init creates an empty repository.
func Init(ctx context.Context, opts *Options) (*Repo, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	opts.applyDefaults()

	st, worktree, err := storage(opts)
	if err != nil {
		return nil, err
	}

	repo, err := git.Init(st, worktree)
	if err != nil {
		return nil, WrapError(err, "failed to initialize repository")
	}
	return &Repo{repo: repo, fs: opts.FS, options: *opts}, nil
}

// Open opens an existing repository at opts.Workdir.
func Open(ctx context.Context, opts *Options) (*Repo, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	opts.applyDefaults()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	st, worktree, err := storage(opts)
	if err != nil {
		return nil, err
	}

	repo, err := git.Open(st, worktree)
	if errors.Is(err, git.ErrRepositoryNotExists) {
		return nil, fmt.Errorf("failed to open %q: %w", opts.Workdir, ErrNotRepository)
	}
	if err != nil {
		return nil, WrapError(err, "failed to open repository")
	}
	return &Repo{repo: repo, fs: opts.FS, options: *opts}, nil
}

// Clone clones the configured branch of remoteURL into opts.FS.
//
// Context timeout/cancellation is honored during the clone operation.
func Clone(ctx context.Context, remoteURL string, opts *Options) (*Repo, error) {
	if remoteURL == "" {
		return nil, WrapError(ErrInvalidOptions, "remote URL cannot be empty")
	}
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	opts.applyDefaults()

	st, worktree, err := storage(opts)
	if err != nil {
		return nil, err
	}

	cloneOpts := &git.CloneOptions{
		URL:           remoteURL,
		ReferenceName: plumbing.NewBranchReferenceName(opts.Branch),
		SingleBranch:  true,
		Depth:         opts.ShallowDepth,
		Tags:          git.NoTags,
	}
	if opts.Auth != nil {
		method, err := opts.Auth.Method(remoteURL)
		if err != nil {
			return nil, WrapError(err, "failed to get authentication method")
		}
		cloneOpts.Auth = method
	}

	repo, err := git.CloneContext(ctx, st, worktree, cloneOpts)
	if errors.Is(err, plumbing.ErrReferenceNotFound) {
		return nil, fmt.Errorf("failed to clone %s: %w: %s", remoteURL, ErrBranchMissing, opts.Branch)
	}
	if err != nil {
		return nil, WrapErrorf(err, "failed to clone %s", remoteURL)
	}
	return &Repo{repo: repo, fs: opts.FS, options: *opts}, nil
}

// Head returns the commit HEAD points to.
func (r *Repo) Head(ctx context.Context) (*object.Commit, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	ref, err := r.repo.Head()
	if errors.Is(err, plumbing.ErrReferenceNotFound) {
		return nil, ErrNoHead
	}
	if err != nil {
		return nil, WrapError(err, "failed to resolve HEAD")
	}

	commit, err := r.repo.CommitObject(ref.Hash())
	if err != nil {
		return nil, WrapErrorf(err, "failed to read commit %s", ref.Hash())
	}
	return commit, nil
}
