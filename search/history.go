package search

import (
	"context"

	"github.com/input-output-hk/cookbook-status/checksum"
)

// Revision is one point of a history with its snapshot tree.
type Revision struct {
	// ID is an opaque identifier, e.g. a commit hash.
	ID string

	// Tree is the snapshot at this revision. It is only read while the
	// revision is being examined.
	Tree checksum.Node
}

// History yields revisions newest first.
type History interface {
	// Next returns the next revision, or nil and no error when the history
	// is exhausted. Implementations may block; ctx bounds that.
	Next(ctx context.Context) (*Revision, error)

	// Close releases resources held by the history.
	Close()
}

// SliceHistory serves revisions from memory.
type SliceHistory struct {
	revisions []Revision
	pos       int
}

// NewSliceHistory returns a History over revisions, in the given order.
func NewSliceHistory(revisions ...Revision) *SliceHistory {
	return &SliceHistory{revisions: revisions}
}

// Next implements History.
func (h *SliceHistory) Next(context.Context) (*Revision, error) {
	if h.pos >= len(h.revisions) {
		return nil, nil
	}
	rev := h.revisions[h.pos]
	h.pos++
	return &rev, nil
}

// Close implements History.
func (h *SliceHistory) Close() {}

// Consumed is the number of revisions handed out so far.
func (h *SliceHistory) Consumed() int {
	return h.pos
}
