package diff

import (
	"fmt"
	"path"
	"sort"
	"strings"

	"github.com/input-output-hk/cookbook-status/errors"
)

// DefaultIgnorePaths are never compared: metadata.json is generated by the
// Chef server on upload and .gitignore is never uploaded.
var DefaultIgnorePaths = []string{"metadata.json", ".gitignore"}

// IgnoreSet decides which paths are dropped from a diff.
//
// Plain entries match one exact path. Entries containing *, ? or [ are
// glob patterns matched with path.Match; ** matches across separators
// and an entry ending in / matches everything below that directory.
// The zero value ignores nothing.
type IgnoreSet struct {
	exact    map[string]struct{}
	patterns []string
	dirs     []string
}

// NewIgnoreSet builds an IgnoreSet from entries. Malformed glob patterns
// are rejected with INVALID_INPUT.
func NewIgnoreSet(entries ...string) (IgnoreSet, error) {
	var s IgnoreSet
	for i, e := range entries {
		e = strings.TrimPrefix(e, "/")
		switch {
		case e == "":
			continue
		case strings.HasSuffix(e, "/"):
			s.dirs = append(s.dirs, e)
		case strings.ContainsAny(e, "*?["):
			if err := validatePattern(e); err != nil {
				return IgnoreSet{}, errors.WrapWithContext(err, errors.CodeInvalidInput,
					"invalid ignore pattern", map[string]interface{}{"pattern": e, "index": i})
			}
			s.patterns = append(s.patterns, e)
		default:
			if s.exact == nil {
				s.exact = make(map[string]struct{})
			}
			s.exact[e] = struct{}{}
		}
	}
	return s, nil
}

// DefaultIgnore returns the set built from DefaultIgnorePaths.
func DefaultIgnore() IgnoreSet {
	s, _ := NewIgnoreSet(DefaultIgnorePaths...)
	return s
}

// Match reports whether p is ignored.
func (s IgnoreSet) Match(p string) bool {
	if _, ok := s.exact[p]; ok {
		return true
	}
	for _, d := range s.dirs {
		if strings.HasPrefix(p, d) {
			return true
		}
	}
	for _, pattern := range s.patterns {
		if matchPattern(pattern, p) {
			return true
		}
	}
	return false
}

// Entries returns the entries of the set in sorted order.
func (s IgnoreSet) Entries() []string {
	out := make([]string, 0, len(s.exact)+len(s.patterns)+len(s.dirs))
	for e := range s.exact {
		out = append(out, e)
	}
	out = append(out, s.patterns...)
	out = append(out, s.dirs...)
	sort.Strings(out)
	return out
}

func validatePattern(pattern string) error {
	for _, part := range strings.Split(pattern, "**") {
		if _, err := path.Match(part, ""); err != nil {
			return fmt.Errorf("%q: %w", pattern, err)
		}
	}
	return nil
}

// matchPattern supports a single ** wildcard; patterns without one are
// matched against the whole path.
func matchPattern(pattern, p string) bool {
	parts := strings.SplitN(pattern, "**", 2)
	if len(parts) == 1 {
		ok, _ := path.Match(pattern, p)
		return ok
	}

	prefix, suffix := parts[0], strings.TrimPrefix(parts[1], "/")
	if !strings.HasPrefix(p, prefix) {
		return false
	}
	if suffix == "" {
		return true
	}
	rest := strings.TrimPrefix(p, prefix)
	segments := strings.Split(rest, "/")
	for i := range segments {
		if ok, _ := path.Match(suffix, strings.Join(segments[i:], "/")); ok {
			return true
		}
	}
	return false
}
