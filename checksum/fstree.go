package checksum

import (
	"path/filepath"
	"sort"

	"github.com/input-output-hk/cookbook-status/errors"
	"github.com/input-output-hk/cookbook-status/fs"
)

// SkipFunc reports whether a directory entry is left out of a filesystem
// snapshot.
type SkipFunc func(name string, isDir bool) bool

// SkipVCS skips version-control metadata directories.
func SkipVCS(name string, isDir bool) bool {
	return isDir && (name == ".git" || name == ".hg" || name == ".svn")
}

// FromFilesystem returns a root node for the directory dir of fsys.
// Nothing is read until the tree is built. Entries are visited in name
// order. A nil skip keeps every entry.
func FromFilesystem(fsys fs.ReadFS, dir string, skip SkipFunc) *Subtree {
	return NewLazyRoot(dirChildren(fsys, dir, skip))
}

func dirChildren(fsys fs.ReadFS, dir string, skip SkipFunc) ChildrenFunc {
	return func() ([]Node, error) {
		infos, err := fsys.ReadDir(dir)
		if err != nil {
			return nil, errors.WrapWithContext(err, errors.CodeSnapshotUnavailable,
				"failed to read directory", map[string]interface{}{"dir": dir})
		}
		sort.Slice(infos, func(i, j int) bool { return infos[i].Name() < infos[j].Name() })

		nodes := make([]Node, 0, len(infos))
		for _, info := range infos {
			name := info.Name()
			if skip != nil && skip(name, info.IsDir()) {
				continue
			}
			p := filepath.Join(dir, name)
			if info.IsDir() {
				nodes = append(nodes, NewLazySubtree(name, dirChildren(fsys, p, skip)))
				continue
			}
			nodes = append(nodes, NewLazyLeaf(name, func() ([]byte, error) {
				return fsys.ReadFile(p)
			}))
		}
		return nodes, nil
	}
}
