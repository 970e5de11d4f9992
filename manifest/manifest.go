// Package manifest models the Chef server's description of one cookbook
// version and converts it into a checksum.Map that can be diffed against
// trees built by package checksum.
package manifest

// Category groups the files of a cookbook version.
type Category string

// Categories reported by the Chef server cookbook-version endpoint.
const (
	Attributes  Category = "attributes"
	Definitions Category = "definitions"
	Files       Category = "files"
	Libraries   Category = "libraries"
	Providers   Category = "providers"
	Recipes     Category = "recipes"
	RootFiles   Category = "root_files"
	Resources   Category = "resources"
	Templates   Category = "templates"
)

// DefaultCategories is the iteration order used when none is configured.
var DefaultCategories = []Category{
	Attributes, Definitions, Files, Libraries, Providers,
	Recipes, RootFiles, Resources, Templates,
}

// Entry is one file of a cookbook version.
type Entry struct {
	Category    Category `json:"-"`
	Name        string   `json:"name"`
	Path        string   `json:"path"`
	Checksum    string   `json:"checksum"`
	Specificity string   `json:"specificity,omitempty"`
	URL         string   `json:"url,omitempty"`
}

// Manifest is a cookbook version as recorded by the server.
type Manifest struct {
	CookbookName string
	Version      string
	Entries      []Entry
}

// URLs maps each entry path to its download URL. Paths without a URL are
// omitted.
func (m *Manifest) URLs() map[string]string {
	out := make(map[string]string, len(m.Entries))
	for _, e := range m.Entries {
		if e.URL != "" {
			out[e.Path] = e.URL
		}
	}
	return out
}

// ByCategory returns the entries of one category in manifest order.
func (m *Manifest) ByCategory(c Category) []Entry {
	var out []Entry
	for _, e := range m.Entries {
		if e.Category == c {
			out = append(out, e)
		}
	}
	return out
}
