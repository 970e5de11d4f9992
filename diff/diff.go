// Package diff computes the symmetric difference of two checksum maps.
//
// The result holds one Pair per path whose checksum differs between the
// two sides, after dropping ignored paths. Equal entries never appear, so
// Result.Count is a distance: zero means the maps are equivalent.
package diff

import (
	"sort"

	"github.com/input-output-hk/cookbook-status/checksum"
)

// None is the display value of an absent side.
const None = "NONE"

// Kind classifies a differing path.
type Kind int

const (
	// OnlyInA means the path exists only on the left side.
	OnlyInA Kind = iota + 1
	// OnlyInB means the path exists only on the right side.
	OnlyInB
	// Changed means both sides have the path with different checksums.
	Changed
)

// String returns a short label for the kind.
func (k Kind) String() string {
	switch k {
	case OnlyInA:
		return "only-a"
	case OnlyInB:
		return "only-b"
	case Changed:
		return "changed"
	default:
		return "unknown"
	}
}

// Side is one side of a Pair.
type Side struct {
	Checksum string
	Present  bool
}

// String returns the checksum, or None when the side is absent.
func (s Side) String() string {
	if !s.Present {
		return None
	}
	return s.Checksum
}

// Pair holds both sides of a differing path.
type Pair struct {
	A Side
	B Side
}

// Kind classifies the pair.
func (p Pair) Kind() Kind {
	switch {
	case p.A.Present && !p.B.Present:
		return OnlyInA
	case !p.A.Present && p.B.Present:
		return OnlyInB
	default:
		return Changed
	}
}

// Result maps each differing path to its pair.
type Result map[string]Pair

// Count is the number of differing paths.
func (r Result) Count() int {
	return len(r)
}

// Empty reports whether the two sides were equivalent.
func (r Result) Empty() bool {
	return len(r) == 0
}

// Paths returns the differing paths in sorted order.
func (r Result) Paths() []string {
	paths := make([]string, 0, len(r))
	for p := range r {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths
}

// Swap returns the result with the sides exchanged.
func (r Result) Swap() Result {
	out := make(Result, len(r))
	for p, pair := range r {
		out[p] = Pair{A: pair.B, B: pair.A}
	}
	return out
}

// Filter returns the pairs of the given kind.
func (r Result) Filter(kind Kind) Result {
	out := make(Result)
	for p, pair := range r {
		if pair.Kind() == kind {
			out[p] = pair
		}
	}
	return out
}

// Diff compares a and b, dropping every path matched by ignore.
// Neither input is modified.
func Diff(a, b checksum.Map, ignore IgnoreSet) Result {
	out := make(Result)
	for p, sumA := range a {
		if ignore.Match(p) {
			continue
		}
		sumB, ok := b[p]
		switch {
		case !ok:
			out[p] = Pair{A: Side{Checksum: sumA, Present: true}}
		case sumA != sumB:
			out[p] = Pair{A: Side{Checksum: sumA, Present: true}, B: Side{Checksum: sumB, Present: true}}
		}
	}
	for p, sumB := range b {
		if _, ok := a[p]; ok || ignore.Match(p) {
			continue
		}
		out[p] = Pair{B: Side{Checksum: sumB, Present: true}}
	}
	return out
}

// Count returns Diff(a, b, ignore).Count() without building the result.
func Count(a, b checksum.Map, ignore IgnoreSet) int {
	n := 0
	for p, sumA := range a {
		if ignore.Match(p) {
			continue
		}
		if sumB, ok := b[p]; !ok || sumA != sumB {
			n++
		}
	}
	for p := range b {
		if _, ok := a[p]; !ok && !ignore.Match(p) {
			n++
		}
	}
	return n
}
