// Package search finds the revision of a history whose snapshot matches a
// target checksum map.
//
// Revisions are examined newest first. The scan stops at the first
// revision that diffs to zero against the target; otherwise the revision
// with the fewest differing files is reported, ties going to the newer
// one. Each examined revision costs one full checksum.Build of its tree.
package search

import (
	"context"
	stderrors "errors"
	"log/slog"

	"github.com/input-output-hk/cookbook-status/checksum"
	"github.com/input-output-hk/cookbook-status/diff"
	"github.com/input-output-hk/cookbook-status/errors"
)

// ErrEmptyHistory is returned when the history yields no revision at all.
var ErrEmptyHistory = stderrors.New("history contains no revisions")

// Outcome is the result of a search.
type Outcome struct {
	// Revision is the matching revision, or the closest one.
	Revision string

	// Matched is true when Revision diffs to zero against the target.
	Matched bool

	// Remaining is the number of differing files at Revision (0 on a match).
	Remaining int

	// Examined is the number of revisions checksummed.
	Examined int
}

// Progress observes a search. Step is called once per examined revision.
type Progress interface {
	Step(revision string, remaining int)
	Done()
}

// Searcher runs revision searches.
type Searcher struct {
	builder  *checksum.Builder
	progress Progress
	logger   *slog.Logger
}

// Option configures a Searcher.
type Option func(*Searcher)

// WithBuilder sets the builder used to checksum revision trees.
func WithBuilder(b *checksum.Builder) Option {
	return func(s *Searcher) {
		if b != nil {
			s.builder = b
		}
	}
}

// WithProgress reports each examined revision to p.
func WithProgress(p Progress) Option {
	return func(s *Searcher) {
		s.progress = p
	}
}

// WithLogger enables debug logging of each examined revision.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Searcher) {
		s.logger = logger
	}
}

// New creates a Searcher.
func New(opts ...Option) *Searcher {
	s := &Searcher{builder: &checksum.Builder{}}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// FindMatch scans history for target, ignoring paths matched by ignore.
//
// ctx is checked before each revision. When it is done, FindMatch returns
// the best outcome seen so far (nil if none) together with a CANCELED
// error. Failures to read the history or a revision's tree are returned
// as errors; a revision is never treated as empty because it could not
// be read.
func (s *Searcher) FindMatch(
	ctx context.Context,
	history History,
	target checksum.Map,
	ignore diff.IgnoreSet,
) (*Outcome, error) {
	if history == nil {
		return nil, errors.New(errors.CodeInvalidInput, "history is nil")
	}
	if s.progress != nil {
		defer s.progress.Done()
	}

	var best *Outcome
	examined := 0
	for {
		if err := ctx.Err(); err != nil {
			return withExamined(best, examined), errors.Wrap(err, errors.CodeCanceled, "revision search canceled")
		}

		rev, err := history.Next(ctx)
		if err != nil {
			return withExamined(best, examined), errors.Wrap(err, errors.CodeSnapshotUnavailable, "failed to read revision history")
		}
		if rev == nil {
			break
		}

		current, err := s.builder.Build(rev.Tree, "")
		if err != nil {
			return withExamined(best, examined), errors.WithContext(err, map[string]interface{}{"revision": rev.ID})
		}
		remaining := diff.Count(current, target, ignore)
		examined++

		if s.logger != nil {
			s.logger.DebugContext(ctx, "examined revision",
				"revision", rev.ID,
				"differing_files", remaining,
			)
		}
		if s.progress != nil {
			s.progress.Step(rev.ID, remaining)
		}

		if remaining == 0 {
			return &Outcome{Revision: rev.ID, Matched: true, Examined: examined}, nil
		}
		if best == nil || remaining < best.Remaining {
			best = &Outcome{Revision: rev.ID, Remaining: remaining}
		}
	}

	if best == nil {
		return nil, errors.Wrap(ErrEmptyHistory, errors.CodeNotFound, "no revision to compare")
	}
	return withExamined(best, examined), nil
}

// FindMatch runs a search with a default Searcher.
func FindMatch(ctx context.Context, history History, target checksum.Map, ignore diff.IgnoreSet) (*Outcome, error) {
	return New().FindMatch(ctx, history, target, ignore)
}

func withExamined(o *Outcome, examined int) *Outcome {
	if o == nil {
		return nil
	}
	o.Examined = examined
	return o
}
