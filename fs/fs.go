// Package fs defines the filesystem abstraction used to read cookbooks,
// configuration files and repositories. Implementations live in
// subpackages (see fs/billy) so callers can switch between the OS and an
// in-memory tree without changing code.
package fs

import (
	"os"
	"path/filepath"
)

// ReadFS is the read-only subset of Filesystem.
type ReadFS interface {
	Open(name string) (File, error)
	ReadDir(dirname string) ([]os.FileInfo, error)
	ReadFile(path string) ([]byte, error)
	Stat(name string) (os.FileInfo, error)
	Exists(path string) (bool, error)
}

// Filesystem is a read-write filesystem.
type Filesystem interface {
	ReadFS

	Create(name string) (File, error)
	MkdirAll(path string, perm os.FileMode) error
	Remove(name string) error
	Walk(root string, walkFn filepath.WalkFunc) error
	WriteFile(filename string, data []byte, perm os.FileMode) error
}

// IsDir reports whether path exists and is a directory.
func IsDir(fsys ReadFS, path string) (bool, error) {
	ok, err := fsys.Exists(path)
	if err != nil || !ok {
		return false, err
	}
	info, err := fsys.Stat(path)
	if err != nil {
		return false, err
	}
	return info.IsDir(), nil
}
