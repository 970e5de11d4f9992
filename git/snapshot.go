package git

import (
	"context"
	"errors"
	"log/slog"

	"github.com/go-git/go-git/v5/plumbing/object"

	"github.com/input-output-hk/cookbook-status/checksum"
	perrors "github.com/input-output-hk/cookbook-status/errors"
	"github.com/input-output-hk/cookbook-status/fs"
	"github.com/input-output-hk/cookbook-status/search"
)

// Opener produces the repository behind a snapshot on first use.
type Opener func(ctx context.Context) (*Repo, error)

// OpenAt opens an existing repository with opts.
func OpenAt(opts Options) Opener {
	return func(ctx context.Context) (*Repo, error) {
		return Open(ctx, &opts)
	}
}

// CloneFrom clones remoteURL with opts.
func CloneFrom(remoteURL string, opts Options) Opener {
	return func(ctx context.Context) (*Repo, error) {
		return Clone(ctx, remoteURL, &opts)
	}
}

// FromRepo serves an already opened repository.
func FromRepo(repo *Repo) Opener {
	return func(context.Context) (*Repo, error) {
		return repo, nil
	}
}

// Snapshot is one source of a comparison: a repository, optionally scoped
// to a subdirectory, whose head and history are read as checksum trees.
// The repository is opened on first use; a failure to open is returned by
// every later call.
type Snapshot struct {
	label   string
	origin  string
	open    Opener
	subpath string
	filter  LogFilter
	logger  *slog.Logger

	worktreeFS  fs.ReadFS
	worktreeDir string

	repo    *Repo
	openErr error
}

// SnapshotOption configures a Snapshot.
type SnapshotOption func(*Snapshot)

// WithSubpath scopes the snapshot to a directory inside the repository.
func WithSubpath(subpath string) SnapshotOption {
	return func(s *Snapshot) {
		s.subpath = subpath
	}
}

// WithMaxRevisions bounds History to the n newest commits. 0 means all.
func WithMaxRevisions(n int) SnapshotOption {
	return func(s *Snapshot) {
		s.filter.MaxCount = n
	}
}

// WithWorkingTree makes Head read dir of fsys instead of the HEAD commit.
// History still comes from the repository.
func WithWorkingTree(fsys fs.ReadFS, dir string) SnapshotOption {
	return func(s *Snapshot) {
		s.worktreeFS = fsys
		s.worktreeDir = dir
	}
}

// WithLogger enables debug logging.
func WithLogger(logger *slog.Logger) SnapshotOption {
	return func(s *Snapshot) {
		s.logger = logger
	}
}

// NewSnapshot returns a snapshot named label whose repository comes from
// open. origin describes where it lives (a path or URL).
func NewSnapshot(label, origin string, open Opener, opts ...SnapshotOption) *Snapshot {
	s := &Snapshot{label: label, origin: origin, open: open}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Label is the snapshot's display name.
func (s *Snapshot) Label() string { return s.label }

// Origin is the repository path or URL.
func (s *Snapshot) Origin() string { return s.origin }

func (s *Snapshot) repository(ctx context.Context) (*Repo, error) {
	if s.repo != nil || s.openErr != nil {
		return s.repo, s.openErr
	}
	if s.logger != nil {
		s.logger.DebugContext(ctx, "opening repository", "snapshot", s.label, "origin", s.origin)
	}
	s.repo, s.openErr = s.open(ctx)
	if s.openErr != nil {
		s.openErr = s.unavailable(s.openErr, "failed to open repository")
	}
	return s.repo, s.openErr
}

func (s *Snapshot) unavailable(err error, msg string) error {
	return perrors.WrapWithContext(err, perrors.CodeSnapshotUnavailable, msg, map[string]interface{}{
		"snapshot": s.label,
		"origin":   s.origin,
	})
}

// Head returns the tree of the current revision.
func (s *Snapshot) Head(ctx context.Context) (checksum.Node, error) {
	if s.worktreeFS != nil {
		ok, err := fs.IsDir(s.worktreeFS, s.worktreeDir)
		if err != nil {
			return nil, s.unavailable(err, "failed to read working tree")
		}
		if !ok {
			return nil, s.unavailable(ErrPathMissing, "working tree directory missing")
		}
		return checksum.FromFilesystem(s.worktreeFS, s.worktreeDir, checksum.SkipVCS), nil
	}

	repo, err := s.repository(ctx)
	if err != nil {
		return nil, err
	}
	commit, err := repo.Head(ctx)
	if err != nil {
		return nil, s.unavailable(err, "failed to read head revision")
	}
	tree, err := commitTree(commit, s.subpath)
	if err != nil {
		return nil, s.unavailable(err, "failed to read head tree")
	}
	return TreeNode(tree), nil
}

// History returns the repository's commits, newest first.
func (s *Snapshot) History(ctx context.Context) (search.History, error) {
	repo, err := s.repository(ctx)
	if err != nil {
		return nil, err
	}
	iter, err := repo.Log(ctx, s.filter)
	if err != nil {
		return nil, s.unavailable(err, "failed to read history")
	}
	return &History{iter: iter, subpath: s.subpath, logger: s.logger}, nil
}

// History adapts a CommitIter to search.History. A commit in which the
// snapshot's subpath does not exist yields an empty tree.
type History struct {
	iter    *CommitIter
	subpath string
	logger  *slog.Logger
}

// Next implements search.History.
func (h *History) Next(ctx context.Context) (*search.Revision, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	commit, err := h.iter.Next()
	if err != nil || commit == nil {
		return nil, err
	}
	return &search.Revision{
		ID:   commit.Hash.String(),
		Tree: checksum.NewLazyRoot(h.revisionChildren(ctx, commit)),
	}, nil
}

func (h *History) revisionChildren(ctx context.Context, commit *object.Commit) checksum.ChildrenFunc {
	return func() ([]checksum.Node, error) {
		tree, err := commitTree(commit, h.subpath)
		if errors.Is(err, ErrPathMissing) {
			if h.logger != nil {
				h.logger.DebugContext(ctx, "subpath absent at revision",
					"revision", commit.Hash.String(),
					"subpath", h.subpath,
				)
			}
			return nil, nil
		}
		if err != nil {
			return nil, err
		}
		return treeChildren(tree)()
	}
}

// Close implements search.History.
func (h *History) Close() {
	h.iter.Close()
}
