package billy

import (
	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/osfs"
)

// nativeOS resolves paths exactly like the os package does: absolute paths
// are absolute and relative paths are relative to the working directory.
type nativeOS struct {
	osfs.ChrootOS
}

// Chroot returns an OS filesystem rooted at path.
//
//nolint:ireturn // billy.Filesystem is dictated by upstream.
func (n *nativeOS) Chroot(path string) (billy.Filesystem, error) {
	return osfs.New(path), nil
}

// Root returns "/".
func (n *nativeOS) Root() string {
	return "/"
}

// NewNativeFS creates a filesystem that behaves like the host OS, used for
// paths supplied on the command line or in configuration.
func NewNativeFS() *FS {
	return &FS{fs: &nativeOS{}}
}
