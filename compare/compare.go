// Package compare runs a cookbook comparison: the server's checksum map
// against the local and/or remote snapshot, with an optional revision
// search on mismatch.
package compare

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/input-output-hk/cookbook-status/checksum"
	"github.com/input-output-hk/cookbook-status/diff"
	"github.com/input-output-hk/cookbook-status/errors"
	"github.com/input-output-hk/cookbook-status/search"
)

// Mode selects the snapshots a comparison covers.
type Mode int

const (
	// ModeLocal compares the local repository only.
	ModeLocal Mode = iota
	// ModeRemote compares the remote clone only.
	ModeRemote
	// ModeThreeway compares the remote clone, then the local repository.
	ModeThreeway
)

func (m Mode) String() string {
	switch m {
	case ModeLocal:
		return "local"
	case ModeRemote:
		return "remote"
	case ModeThreeway:
		return "threeway"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

// Snapshot is a source of cookbook trees.
type Snapshot interface {
	// Label names the snapshot in results ("local", "remote").
	Label() string

	// Origin is where the snapshot lives, e.g. a path or URL.
	Origin() string

	// Head returns the current tree.
	Head(ctx context.Context) (checksum.Node, error)

	// History returns past trees, newest first.
	History(ctx context.Context) (search.History, error)
}

// Result is the comparison of one snapshot against the target.
type Result struct {
	// Source is the snapshot's label.
	Source string

	// Origin is the snapshot's origin.
	Origin string

	// Matched is true when the head tree equals the target modulo ignored
	// paths.
	Matched bool

	// Diff holds the differences on a mismatch. Side A is the target.
	Diff diff.Result

	// Search is the revision search outcome, when a search ran.
	Search *search.Outcome

	// Err is set when this snapshot could not be compared. Other
	// snapshots are still compared.
	Err error
}

// ProgressFunc returns the progress observer for a snapshot's revision
// search, or nil for none.
type ProgressFunc func(s Snapshot) search.Progress

// Orchestrator compares snapshots against a target checksum map.
type Orchestrator struct {
	local    Snapshot
	remote   Snapshot
	ignore   diff.IgnoreSet
	search   bool
	builder  *checksum.Builder
	progress ProgressFunc
	logger   *slog.Logger
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithLocal sets the local snapshot.
func WithLocal(s Snapshot) Option {
	return func(o *Orchestrator) {
		o.local = s
	}
}

// WithRemote sets the remote snapshot.
func WithRemote(s Snapshot) Option {
	return func(o *Orchestrator) {
		o.remote = s
	}
}

// WithIgnore replaces the default ignore set.
func WithIgnore(ignore diff.IgnoreSet) Option {
	return func(o *Orchestrator) {
		o.ignore = ignore
	}
}

// WithSearch enables the revision search on mismatch.
func WithSearch(enabled bool) Option {
	return func(o *Orchestrator) {
		o.search = enabled
	}
}

// WithBuilder sets the checksum builder for head and history trees.
func WithBuilder(b *checksum.Builder) Option {
	return func(o *Orchestrator) {
		if b != nil {
			o.builder = b
		}
	}
}

// WithProgress sets the progress observer factory for searches.
func WithProgress(f ProgressFunc) Option {
	return func(o *Orchestrator) {
		o.progress = f
	}
}

// WithLogger enables logging.
func WithLogger(logger *slog.Logger) Option {
	return func(o *Orchestrator) {
		o.logger = logger
	}
}

// New creates an Orchestrator. The ignore set defaults to
// diff.DefaultIgnore.
func New(opts ...Option) *Orchestrator {
	o := &Orchestrator{
		ignore:  diff.DefaultIgnore(),
		builder: &checksum.Builder{},
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

func (o *Orchestrator) sources(mode Mode) ([]Snapshot, error) {
	var names []string
	switch mode {
	case ModeLocal:
		names = []string{"local"}
	case ModeRemote:
		names = []string{"remote"}
	case ModeThreeway:
		names = []string{"remote", "local"}
	default:
		return nil, errors.Newf(errors.CodeInvalidInput, "unknown comparison mode %d", int(mode))
	}

	snapshots := make([]Snapshot, 0, len(names))
	for _, name := range names {
		s := o.local
		if name == "remote" {
			s = o.remote
		}
		if s == nil {
			return nil, errors.Newf(errors.CodeInvalidInput, "%s comparison needs a %s snapshot", mode, name)
		}
		snapshots = append(snapshots, s)
	}
	return snapshots, nil
}

// Compare diffs each snapshot selected by mode against target, in order
// (remote before local under ModeThreeway). A snapshot that fails is
// reported through its Result.Err. Compare itself fails only when mode
// needs a snapshot that was not configured, or when ctx is canceled; in
// the latter case the results gathered so far are returned with the
// error.
func (o *Orchestrator) Compare(ctx context.Context, mode Mode, target checksum.Map) ([]Result, error) {
	snapshots, err := o.sources(mode)
	if err != nil {
		return nil, err
	}

	results := make([]Result, 0, len(snapshots))
	for _, s := range snapshots {
		if err := ctx.Err(); err != nil {
			return results, errors.Wrap(err, errors.CodeCanceled, "comparison canceled")
		}

		res := o.compareOne(ctx, s, target)
		results = append(results, res)
		if errors.HasCode(res.Err, errors.CodeCanceled) {
			return results, res.Err
		}
	}
	return results, nil
}

func (o *Orchestrator) compareOne(ctx context.Context, s Snapshot, target checksum.Map) Result {
	res := Result{Source: s.Label(), Origin: s.Origin()}
	log := o.logger
	if log != nil {
		log = log.With("source", res.Source, "origin", res.Origin)
	}

	head, err := s.Head(ctx)
	if err != nil {
		res.Err = unavailable(err, "failed to read snapshot")
		o.logFailure(ctx, log, res.Err)
		return res
	}
	current, err := o.builder.Build(head, "")
	if err != nil {
		res.Err = unavailable(err, "failed to checksum snapshot")
		o.logFailure(ctx, log, res.Err)
		return res
	}

	d := diff.Diff(target, current, o.ignore)
	if d.Empty() {
		res.Matched = true
		if log != nil {
			log.InfoContext(ctx, "snapshot matches target")
		}
		return res
	}
	res.Diff = d
	if log != nil {
		log.InfoContext(ctx, "snapshot differs from target", "differing_files", d.Count())
	}

	if !o.search {
		return res
	}
	res.Search, res.Err = o.findMatch(ctx, s, target)
	if res.Err != nil {
		o.logFailure(ctx, log, res.Err)
	}
	return res
}

func (o *Orchestrator) findMatch(ctx context.Context, s Snapshot, target checksum.Map) (*search.Outcome, error) {
	history, err := s.History(ctx)
	if err != nil {
		return nil, unavailable(err, "failed to read history")
	}
	defer history.Close()

	opts := []search.Option{search.WithBuilder(o.builder), search.WithLogger(o.logger)}
	if o.progress != nil {
		if p := o.progress(s); p != nil {
			opts = append(opts, search.WithProgress(p))
		}
	}
	return search.New(opts...).FindMatch(ctx, history, target, o.ignore)
}

func (o *Orchestrator) logFailure(ctx context.Context, log *slog.Logger, err error) {
	if log != nil {
		log.WarnContext(ctx, "snapshot comparison failed", "error", err)
	}
}

// unavailable tags err as SNAPSHOT_UNAVAILABLE unless it already carries
// a code.
func unavailable(err error, msg string) error {
	if errors.CodeOf(err) != errors.CodeUnknown {
		return err
	}
	return errors.Wrap(err, errors.CodeSnapshotUnavailable, msg)
}
