package checksum

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/input-output-hk/cookbook-status/errors"
	"github.com/input-output-hk/cookbook-status/fs/billy"
)

func TestFromFilesystem(t *testing.T) {
	fsys := billy.NewInMemoryFS()
	files := map[string]string{
		"/cookbooks/apache2/metadata.rb":                      "name 'apache2'",
		"/cookbooks/apache2/recipes/default.rb":               "package 'httpd'",
		"/cookbooks/apache2/templates/default/httpd.conf.erb": "Listen 80",
		"/cookbooks/apache2/.git/HEAD":                        "ref: refs/heads/master",
	}
	for p, content := range files {
		require.NoError(t, fsys.WriteFile(p, []byte(content), 0o644))
	}

	got, err := Build(FromFilesystem(fsys, "/cookbooks/apache2", SkipVCS), "")
	require.NoError(t, err)

	assert.Equal(t, Map{
		"metadata.rb":                      Sum([]byte("name 'apache2'")),
		"recipes/default.rb":               Sum([]byte("package 'httpd'")),
		"templates/default/httpd.conf.erb": Sum([]byte("Listen 80")),
	}, got)
}

func TestFromFilesystem_NoSkip(t *testing.T) {
	fsys := billy.NewInMemoryFS()
	require.NoError(t, fsys.WriteFile("/cb/.git/HEAD", []byte("x"), 0o644))
	require.NoError(t, fsys.WriteFile("/cb/a.rb", []byte("a"), 0o644))

	got, err := Build(FromFilesystem(fsys, "/cb", nil), "")
	require.NoError(t, err)
	assert.Equal(t, []string{".git/HEAD", "a.rb"}, got.Paths())
}

func TestFromFilesystem_MissingDirectory(t *testing.T) {
	fsys := billy.NewInMemoryFS()

	_, err := Build(FromFilesystem(fsys, "/does/not/exist", SkipVCS), "")
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.CodeSnapshotUnavailable))
}

func TestSkipVCS(t *testing.T) {
	assert.True(t, SkipVCS(".git", true))
	assert.True(t, SkipVCS(".svn", true))
	assert.False(t, SkipVCS(".git", false))
	assert.False(t, SkipVCS(".gitignore", false))
	assert.False(t, SkipVCS("recipes", true))
}
