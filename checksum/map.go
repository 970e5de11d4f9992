package checksum

import "sort"

// Map maps a slash-separated relative path (no leading slash) to the
// lowercase hex digest of the file's content.
//
// Maps returned by this package are never modified after they are
// returned; use Clone before mutating one.
type Map map[string]string

// Paths returns the keys of m in sorted order.
func (m Map) Paths() []string {
	paths := make([]string, 0, len(m))
	for p := range m {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths
}

// Clone returns a shallow copy of m.
func (m Map) Clone() Map {
	out := make(Map, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// Lookup returns the checksum recorded for path.
func (m Map) Lookup(path string) (string, bool) {
	sum, ok := m[path]
	return sum, ok
}
