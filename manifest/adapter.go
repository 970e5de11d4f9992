package manifest

import (
	"github.com/input-output-hk/cookbook-status/checksum"
	"github.com/input-output-hk/cookbook-status/errors"
)

// Adapter converts manifests into checksum maps.
type Adapter struct {
	// Categories restricts and orders the categories read. Nil means
	// DefaultCategories.
	Categories []Category

	// Strict makes two entries with the same path and different checksums
	// an AMBIGUOUS_PATH error. Otherwise the later entry wins.
	Strict bool
}

// ToChecksumMap returns a new map from entry path to checksum. Every entry
// of a selected category is validated before the map is built.
func (a *Adapter) ToChecksumMap(m *Manifest) (checksum.Map, error) {
	if m == nil {
		return nil, errors.New(errors.CodeInvalidInput, "manifest is nil")
	}
	selected := a.selected()
	for i, e := range m.Entries {
		if _, ok := selected[e.Category]; !ok {
			continue
		}
		if err := validateEntry(e); err != nil {
			return nil, errors.WithContext(err, map[string]interface{}{"index": i})
		}
	}

	out := make(checksum.Map)
	for _, c := range a.categories() {
		for _, e := range m.Entries {
			if e.Category != c {
				continue
			}
			if prev, ok := out[e.Path]; ok && a.Strict && prev != e.Checksum {
				return nil, errors.WrapWithContext(checksum.ErrAmbiguousPath, errors.CodeAmbiguousPath,
					"duplicate path in manifest", map[string]interface{}{"path": e.Path, "category": string(c)})
			}
			out[e.Path] = e.Checksum
		}
	}
	return out, nil
}

func (a *Adapter) categories() []Category {
	if a.Categories == nil {
		return DefaultCategories
	}
	return a.Categories
}

func (a *Adapter) selected() map[Category]struct{} {
	out := make(map[Category]struct{})
	for _, c := range a.categories() {
		out[c] = struct{}{}
	}
	return out
}

// ToChecksumMap converts m with the default Adapter.
func ToChecksumMap(m *Manifest) (checksum.Map, error) {
	var a Adapter
	return a.ToChecksumMap(m)
}

func validateEntry(e Entry) error {
	ctx := map[string]interface{}{"category": string(e.Category), "name": e.Name}
	if e.Path == "" {
		return errors.WrapWithContext(ErrMissingField, errors.CodeManifestMalformed, "manifest entry has no path", ctx)
	}
	if e.Checksum == "" {
		ctx["path"] = e.Path
		return errors.WrapWithContext(ErrMissingField, errors.CodeManifestMalformed, "manifest entry has no checksum", ctx)
	}
	return nil
}
