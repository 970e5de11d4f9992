package fsbridge

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/go-git/go-billy/v5/memfs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/input-output-hk/cookbook-status/fs"
	fsb "github.com/input-output-hk/cookbook-status/fs/billy"
)

// plainFS satisfies fs.Filesystem without being billy backed.
type plainFS struct{}

//nolint:ireturn // test double
func (plainFS) Open(string) (fs.File, error)                { return nil, nil }
func (plainFS) ReadDir(string) ([]os.FileInfo, error)       { return nil, nil }
func (plainFS) ReadFile(string) ([]byte, error)             { return nil, nil }
func (plainFS) Stat(string) (os.FileInfo, error)            { return nil, nil }
func (plainFS) Exists(string) (bool, error)                 { return false, nil }
func (plainFS) Create(string) (fs.File, error)              { return nil, nil }
func (plainFS) MkdirAll(string, os.FileMode) error          { return nil }
func (plainFS) Remove(string) error                         { return nil }
func (plainFS) Walk(string, filepath.WalkFunc) error        { return nil }
func (plainFS) WriteFile(string, []byte, os.FileMode) error { return nil }

func TestToBilly(t *testing.T) {
	t.Run("billy backed", func(t *testing.T) {
		mem := memfs.New()
		raw, err := ToBilly(fsb.NewFS(mem))
		require.NoError(t, err)
		assert.Equal(t, mem, raw)
	})

	t.Run("other filesystem", func(t *testing.T) {
		raw, err := ToBilly(plainFS{})
		require.Error(t, err)
		assert.Nil(t, raw)
		assert.Contains(t, err.Error(), "fsbridge.plainFS")
	})
}

func TestNewStorage(t *testing.T) {
	for _, size := range []int{-1, 0, 500} {
		mem := memfs.New()
		storage := NewStorage(mem, size)
		require.NotNil(t, storage)
		assert.Equal(t, mem, storage.Filesystem())
	}
}
