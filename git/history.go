package git

import (
	"context"
	"errors"
	"io"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"
)

// LogFilter configures which commits Log returns.
type LogFilter struct {
	// Since limits the log to commits after the specified time.
	Since *time.Time

	// Until limits the log to commits before the specified time.
	Until *time.Time

	// MaxCount limits the number of commits returned. 0 means all.
	MaxCount int
}

// CommitIter iterates commits newest first.
type CommitIter struct {
	iter     object.CommitIter
	maxCount int
	count    int
}

// Next returns the next commit, or nil and no error at the end.
func (ci *CommitIter) Next() (*object.Commit, error) {
	if ci.maxCount > 0 && ci.count >= ci.maxCount {
		return nil, nil
	}
	commit, err := ci.iter.Next()
	if errors.Is(err, io.EOF) {
		return nil, nil
	}
	if err != nil {
		return nil, WrapError(err, "failed to get next commit")
	}
	ci.count++
	return commit, nil
}

// Close releases the underlying iterator.
func (ci *CommitIter) Close() {
	ci.iter.Close()
}

// Log returns the commits reachable from HEAD ordered by committer time,
// newest first.
func (r *Repo) Log(ctx context.Context, f LogFilter) (*CommitIter, error) {
	head, err := r.Head(ctx)
	if err != nil {
		return nil, err
	}

	iter, err := r.repo.Log(&git.LogOptions{
		From:  head.Hash,
		Order: git.LogOrderCommitterTime,
		Since: f.Since,
		Until: f.Until,
	})
	if err != nil {
		return nil, WrapError(err, "failed to create commit iterator")
	}
	return &CommitIter{iter: iter, maxCount: f.MaxCount}, nil
}
