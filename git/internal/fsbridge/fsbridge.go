// Package fsbridge connects the fs abstraction to go-git's storage layer.
package fsbridge

import (
	"fmt"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-git/v5/plumbing/cache"
	"github.com/go-git/go-git/v5/storage/filesystem"

	"github.com/input-output-hk/cookbook-status/fs"
	fsb "github.com/input-output-hk/cookbook-status/fs/billy"
)

// MinCacheSize is used when a non-positive object cache size is requested.
const MinCacheSize = 100

// ToBilly returns the billy filesystem behind fsys. Only filesystems from
// the fs/billy package can be bridged.
//
//nolint:ireturn // go-git storage is built on billy.Filesystem
func ToBilly(fsys fs.Filesystem) (billy.Filesystem, error) {
	b, ok := fsys.(*fsb.FS)
	if !ok {
		return nil, fmt.Errorf("filesystem must be a *billy.FS from fs/billy, got %T", fsys)
	}
	return b.Raw(), nil
}

// NewStorage returns git object storage rooted at dotGit with an LRU
// object cache of cacheSize entries.
func NewStorage(dotGit billy.Filesystem, cacheSize int) *filesystem.Storage {
	if cacheSize <= 0 {
		cacheSize = MinCacheSize
	}
	return filesystem.NewStorage(dotGit, cache.NewObjectLRU(cache.FileSize(cacheSize)))
}
