package manifest

import (
	"encoding/json"
	stderrors "errors"
	"io"

	"github.com/input-output-hk/cookbook-status/errors"
)

// ErrMissingField is wrapped by MANIFEST_MALFORMED errors caused by an
// entry without path or checksum.
var ErrMissingField = stderrors.New("missing required field")

// Decode parses a cookbook-version document as returned by
// GET /cookbooks/{name}/{version}. Only the given categories are read, in
// that order; nil means DefaultCategories. Missing category keys are
// treated as empty.
func Decode(r io.Reader, categories []Category) (*Manifest, error) {
	var doc map[string]json.RawMessage
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, errors.Wrap(err, errors.CodeManifestMalformed, "failed to decode cookbook version document")
	}
	if categories == nil {
		categories = DefaultCategories
	}

	m := &Manifest{}
	if err := decodeString(doc, "cookbook_name", &m.CookbookName); err != nil {
		return nil, err
	}
	if err := decodeString(doc, "version", &m.Version); err != nil {
		return nil, err
	}
	if m.Version == "" {
		// Older servers only report the version inside metadata.
		var meta struct {
			Version string `json:"version"`
		}
		if raw, ok := doc["metadata"]; ok {
			_ = json.Unmarshal(raw, &meta)
			m.Version = meta.Version
		}
	}

	for _, c := range categories {
		raw, ok := doc[string(c)]
		if !ok || isNull(raw) {
			continue
		}
		var entries []Entry
		if err := json.Unmarshal(raw, &entries); err != nil {
			return nil, errors.WrapWithContext(err, errors.CodeManifestMalformed,
				"failed to decode manifest category", map[string]interface{}{"category": string(c)})
		}
		for i := range entries {
			entries[i].Category = c
			if err := validateEntry(entries[i]); err != nil {
				return nil, errors.WithContext(err, map[string]interface{}{"index": i})
			}
		}
		m.Entries = append(m.Entries, entries...)
	}
	return m, nil
}

func decodeString(doc map[string]json.RawMessage, key string, dst *string) error {
	raw, ok := doc[key]
	if !ok || isNull(raw) {
		return nil
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return errors.WrapWithContext(err, errors.CodeManifestMalformed,
			"invalid manifest field", map[string]interface{}{"field": key})
	}
	return nil
}

func isNull(raw json.RawMessage) bool {
	return len(raw) == 0 || string(raw) == "null"
}
