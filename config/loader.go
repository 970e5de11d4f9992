package config

import (
	"bytes"
	"context"
	"path/filepath"

	"github.com/adrg/xdg"
	"gopkg.in/yaml.v3"

	"github.com/input-output-hk/cookbook-status/errors"
	"github.com/input-output-hk/cookbook-status/fs"
)

// DefaultPath returns the first existing configuration file in the XDG
// config directories.
func DefaultPath() (string, error) {
	p, err := xdg.SearchConfigFile(filepath.Join(AppName, FileName))
	if err != nil {
		return "", errors.Wrap(err, errors.CodeNotFound, "no configuration file found")
	}
	return p, nil
}

// Load reads the configuration at path from fsys. Fields the file leaves
// unset keep their Defaults.
func Load(ctx context.Context, fsys fs.ReadFS, path string) (*Config, error) {
	if err := ctx.Err(); err != nil {
		return nil, errors.Wrap(err, errors.CodeCanceled, "configuration load canceled")
	}

	data, err := fsys.ReadFile(path)
	if err != nil {
		return nil, errors.WrapWithContext(err, errors.CodeInvalidConfig,
			"failed to read configuration file", map[string]interface{}{"path": path})
	}

	cfg, err := Parse(data)
	if err != nil {
		return nil, errors.WithContext(err, map[string]interface{}{"path": path})
	}
	return cfg, nil
}

// LoadDefault loads the configuration from DefaultPath. When no file
// exists Defaults is returned.
func LoadDefault(ctx context.Context, fsys fs.ReadFS) (*Config, error) {
	p, err := DefaultPath()
	if err != nil {
		return Defaults(), nil
	}
	return Load(ctx, fsys, p)
}

// Parse decodes a YAML document over Defaults. Unknown keys are rejected.
func Parse(data []byte) (*Config, error) {
	cfg := Defaults()
	if len(bytes.TrimSpace(data)) == 0 {
		return cfg, nil
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil {
		return nil, errors.Wrap(err, errors.CodeInvalidConfig, "failed to parse configuration")
	}
	return cfg, nil
}
