package manifest

import (
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/input-output-hk/cookbook-status/checksum"
	"github.com/input-output-hk/cookbook-status/errors"
)

func loadFixture(t *testing.T) *Manifest {
	t.Helper()
	f, err := os.Open("testdata/apache2-1.2.0.json")
	require.NoError(t, err)
	defer f.Close()

	m, err := Decode(f, nil)
	require.NoError(t, err)
	return m
}

func TestDecode(t *testing.T) {
	m := loadFixture(t)

	assert.Equal(t, "apache2", m.CookbookName)
	assert.Equal(t, "1.2.0", m.Version)
	require.Len(t, m.Entries, 6)

	// entries follow category order
	assert.Equal(t, Attributes, m.Entries[0].Category)
	assert.Equal(t, Recipes, m.Entries[1].Category)
	assert.Equal(t, RootFiles, m.Entries[3].Category)
	assert.Equal(t, Templates, m.Entries[5].Category)

	assert.Len(t, m.ByCategory(Recipes), 2)
	assert.Empty(t, m.ByCategory(Libraries))

	urls := m.URLs()
	assert.Len(t, urls, 2)
	assert.Contains(t, urls["recipes/default.rb"], "checksum-9b0e8d0a")
}

func TestDecode_CategorySelection(t *testing.T) {
	f, err := os.Open("testdata/apache2-1.2.0.json")
	require.NoError(t, err)
	defer f.Close()

	m, err := Decode(f, []Category{Recipes})
	require.NoError(t, err)
	require.Len(t, m.Entries, 2)
	for _, e := range m.Entries {
		assert.Equal(t, Recipes, e.Category)
	}
}

func TestDecode_VersionFromMetadata(t *testing.T) {
	doc := `{"cookbook_name":"ntp","metadata":{"version":"0.9.1"},"recipes":[]}`
	m, err := Decode(strings.NewReader(doc), nil)
	require.NoError(t, err)
	assert.Equal(t, "0.9.1", m.Version)
	assert.Empty(t, m.Entries)
}

func TestDecode_Malformed(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"not json", `<html>`},
		{"category not a list", `{"recipes": {"path": "x"}}`},
		{"missing path", `{"recipes": [{"name": "default.rb", "checksum": "abc"}]}`},
		{"missing checksum", `{"recipes": [{"name": "default.rb", "path": "recipes/default.rb"}]}`},
		{"bad version type", `{"version": 3}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode(strings.NewReader(tt.doc), nil)
			require.Error(t, err)
			assert.True(t, errors.HasCode(err, errors.CodeManifestMalformed), "got %v", err)
		})
	}
}

func TestToChecksumMap(t *testing.T) {
	m := loadFixture(t)

	got, err := ToChecksumMap(m)
	require.NoError(t, err)
	assert.Equal(t, checksum.Map{
		"attributes/default.rb":              "0e5d4b2a8f3bd2b6bd1ecf0b5c1ea3c1",
		"recipes/default.rb":                 "9b0e8d0a7a4bb8bd5f0c6e4fa2c8b1d7",
		"recipes/mod_ssl.rb":                 "2f1c5e7d4b3a9e8f6d0c1b2a3e4f5d6c",
		"metadata.rb":                        "6a1d3c5e7f9b0d2c4e6a8b0d2f4a6c8e",
		"metadata.json":                      "1111aaaa2222bbbb3333cccc4444dddd",
		"templates/default/apache2.conf.erb": "c3d2e1f0a9b8c7d6e5f4a3b2c1d0e9f8",
	}, got)
}

func TestAdapter_EmptyCategoriesSkipped(t *testing.T) {
	m := &Manifest{Entries: []Entry{
		{Category: Recipes, Path: "recipes/default.rb", Checksum: "aaa"},
	}}
	got, err := ToChecksumMap(m)
	require.NoError(t, err)
	assert.Equal(t, checksum.Map{"recipes/default.rb": "aaa"}, got)

	got, err = ToChecksumMap(&Manifest{})
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestAdapter_DuplicatePaths(t *testing.T) {
	m := &Manifest{Entries: []Entry{
		{Category: Templates, Path: "README.md", Checksum: "from-templates"},
		{Category: RootFiles, Path: "README.md", Checksum: "from-root-files"},
	}}

	t.Run("last category in iteration order wins", func(t *testing.T) {
		got, err := ToChecksumMap(m)
		require.NoError(t, err)
		// root_files is iterated before templates
		assert.Equal(t, "from-templates", got["README.md"])
	})

	t.Run("custom order", func(t *testing.T) {
		a := Adapter{Categories: []Category{Templates, RootFiles}}
		got, err := a.ToChecksumMap(m)
		require.NoError(t, err)
		assert.Equal(t, "from-root-files", got["README.md"])
	})

	t.Run("strict", func(t *testing.T) {
		a := Adapter{Strict: true}
		_, err := a.ToChecksumMap(m)
		require.Error(t, err)
		assert.True(t, errors.HasCode(err, errors.CodeAmbiguousPath))
	})

	t.Run("strict accepts identical duplicates", func(t *testing.T) {
		a := Adapter{Strict: true}
		got, err := a.ToChecksumMap(&Manifest{Entries: []Entry{
			{Category: Files, Path: "x", Checksum: "same"},
			{Category: Templates, Path: "x", Checksum: "same"},
		}})
		require.NoError(t, err)
		assert.Equal(t, "same", got["x"])
	})
}

func TestAdapter_FailsFast(t *testing.T) {
	m := &Manifest{Entries: []Entry{
		{Category: Attributes, Path: "attributes/default.rb", Checksum: "aaa"},
		{Category: Recipes, Name: "broken.rb", Path: "recipes/broken.rb"},
	}}

	got, err := ToChecksumMap(m)
	require.Error(t, err)
	assert.Nil(t, got)
	assert.True(t, errors.HasCode(err, errors.CodeManifestMalformed))
	assert.ErrorIs(t, err, ErrMissingField)
	assert.Contains(t, err.Error(), "recipes/broken.rb")
}

func TestAdapter_UnselectedCategoriesIgnored(t *testing.T) {
	m := &Manifest{Entries: []Entry{
		{Category: Recipes, Path: "recipes/default.rb", Checksum: "aaa"},
		{Category: Category("all_files"), Path: "broken"},
	}}
	got, err := ToChecksumMap(m)
	require.NoError(t, err)
	assert.Len(t, got, 1)
}

func TestAdapter_NilManifest(t *testing.T) {
	_, err := ToChecksumMap(nil)
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.CodeInvalidInput))
}
