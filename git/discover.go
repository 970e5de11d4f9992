package git

import (
	"path/filepath"

	"github.com/input-output-hk/cookbook-status/fs"
)

// Location is where a cookbook lives on disk.
type Location struct {
	// Dir is the cookbook directory.
	Dir string

	// Root is the enclosing repository's worktree root.
	Root string

	// Subpath is Dir relative to Root, slash separated, "" when equal.
	Subpath string
}

// FindCookbook returns the directory named name under the entries of
// cookbookPaths. When several entries hold it the last one wins.
func FindCookbook(fsys fs.ReadFS, cookbookPaths []string, name string) (string, error) {
	found := ""
	for _, p := range cookbookPaths {
		if p == "" {
			continue
		}
		candidate := filepath.Join(p, name)
		ok, err := fs.IsDir(fsys, candidate)
		if err != nil {
			return "", WrapErrorf(err, "failed to inspect %s", candidate)
		}
		if ok {
			found = candidate
		}
	}
	if found == "" {
		return "", WrapErrorf(ErrCookbookMissing, "%s", name)
	}
	return found, nil
}

// FindRoot walks up from dir to the first directory containing .git.
func FindRoot(fsys fs.ReadFS, dir string) (string, error) {
	current := filepath.Clean(dir)
	for {
		ok, err := fs.IsDir(fsys, filepath.Join(current, ".git"))
		if err != nil {
			return "", WrapErrorf(err, "failed to inspect %s", current)
		}
		if ok {
			return current, nil
		}
		parent := filepath.Dir(current)
		if parent == current {
			return "", WrapErrorf(ErrNotRepository, "%s", dir)
		}
		current = parent
	}
}

// RelPath returns dir relative to root in slash form, "" when they are
// the same directory.
func RelPath(root, dir string) (string, error) {
	rel, err := filepath.Rel(root, dir)
	if err != nil {
		return "", WrapErrorf(err, "%s is not inside %s", dir, root)
	}
	if rel == "." {
		return "", nil
	}
	return filepath.ToSlash(rel), nil
}

// Locate finds cookbook name in cookbookPaths together with its
// repository.
func Locate(fsys fs.ReadFS, cookbookPaths []string, name string) (*Location, error) {
	dir, err := FindCookbook(fsys, cookbookPaths, name)
	if err != nil {
		return nil, err
	}
	root, err := FindRoot(fsys, dir)
	if err != nil {
		return nil, err
	}
	subpath, err := RelPath(root, dir)
	if err != nil {
		return nil, err
	}
	return &Location{Dir: dir, Root: root, Subpath: subpath}, nil
}
