// Package config loads the cookbook-status configuration file.
//
// The file is YAML and is looked up at
// $XDG_CONFIG_HOME/cookbook-status/config.yaml (then the XDG config dirs)
// unless an explicit path is given:
//
//	chef_server_url: https://chef.example.com/organizations/acme
//	node_name: jdoe
//	client_key: ~/.chef/jdoe.pem
//	cookbook_path: ~/chef-repo/cookbooks:~/chef-repo/site-cookbooks
//	git_url: https://git.example.com/cookbooks
//	git_auth:
//	  token: s3cret
//
// Command line flags are applied on top with Merge.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"
	"gopkg.in/yaml.v3"

	"github.com/input-output-hk/cookbook-status/diff"
	"github.com/input-output-hk/cookbook-status/errors"
	"github.com/input-output-hk/cookbook-status/git"
	"github.com/input-output-hk/cookbook-status/manifest"
)

// AppName is the configuration directory name under the XDG dirs.
const AppName = "cookbook-status"

// FileName is the configuration file name.
const FileName = "config.yaml"

// PathList is a list of paths. In YAML it is either a sequence or a
// single string separated like $PATH.
type PathList []string

// UnmarshalYAML implements yaml.Unmarshaler.
func (p *PathList) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.ScalarNode {
		*p = SplitPathList(node.Value)
		return nil
	}
	var list []string
	if err := node.Decode(&list); err != nil {
		return err
	}
	*p = list
	return nil
}

// SplitPathList splits s on the OS path list separator, dropping empty
// elements.
func SplitPathList(s string) PathList {
	var out PathList
	for _, part := range strings.Split(s, string(os.PathListSeparator)) {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// GitAuth holds credentials for cloning remote cookbook repositories.
type GitAuth struct {
	Token                 string `yaml:"token"`
	Username              string `yaml:"username"`
	SSHKey                string `yaml:"ssh_key"`
	SSHKeyPassphrase      string `yaml:"ssh_key_passphrase"`
	SSHAgent              bool   `yaml:"ssh_agent"`
	InsecureIgnoreHostKey bool   `yaml:"insecure_ignore_host_key"`
}

// Config is the tool configuration.
type Config struct {
	// ChefServerURL is the Chef server base URL, including the
	// organization path.
	ChefServerURL string `yaml:"chef_server_url"`

	// NodeName is the API client that signs requests.
	NodeName string `yaml:"node_name"`

	// ClientKey is the path of NodeName's private key.
	ClientKey string `yaml:"client_key"`

	// CookbookPath lists the directories searched for local cookbooks.
	CookbookPath PathList `yaml:"cookbook_path"`

	// GitURL is the base URL under which each cookbook has a
	// repository named <cookbook>.git.
	GitURL string `yaml:"git_url"`

	// GitBranch is the branch cloned from GitURL.
	GitBranch string `yaml:"git_branch"`

	// Ignore lists paths, globs and directory prefixes left out of diffs.
	Ignore []string `yaml:"ignore"`

	// Categories lists the manifest categories compared.
	Categories []string `yaml:"categories"`

	// MaxRevisions bounds the revision search. 0 means the full history.
	MaxRevisions int `yaml:"max_revisions"`

	GitAuth GitAuth `yaml:"git_auth"`
}

// Defaults returns the configuration used when no file sets a value.
func Defaults() *Config {
	categories := make([]string, len(manifest.DefaultCategories))
	for i, c := range manifest.DefaultCategories {
		categories[i] = string(c)
	}
	return &Config{
		GitBranch:  git.DefaultBranch,
		Ignore:     append([]string(nil), diff.DefaultIgnorePaths...),
		Categories: categories,
	}
}

// IgnoreSet compiles Ignore.
func (c *Config) IgnoreSet() (diff.IgnoreSet, error) {
	return diff.NewIgnoreSet(c.Ignore...)
}

// CategoryList returns Categories as manifest categories.
func (c *Config) CategoryList() []manifest.Category {
	out := make([]manifest.Category, len(c.Categories))
	for i, name := range c.Categories {
		out[i] = manifest.Category(name)
	}
	return out
}

// AuthConfig returns the git credentials.
func (c *Config) AuthConfig() git.AuthConfig {
	return git.AuthConfig{
		Token:                 c.GitAuth.Token,
		Username:              c.GitAuth.Username,
		SSHKeyPath:            c.GitAuth.SSHKey,
		SSHKeyPassphrase:      c.GitAuth.SSHKeyPassphrase,
		SSHAgent:              c.GitAuth.SSHAgent,
		InsecureIgnoreHostKey: c.GitAuth.InsecureIgnoreHostKey,
	}
}

// RemoteURL returns the repository URL of cookbook under GitURL.
func (c *Config) RemoteURL(cookbook string) (string, error) {
	if c.GitURL == "" {
		return "", errors.New(errors.CodeInvalidConfig, "git_url is not set")
	}
	return fmt.Sprintf("%s/%s.git", strings.TrimSuffix(c.GitURL, "/"), cookbook), nil
}

// ExpandPaths replaces a leading "~" in ClientKey, CookbookPath and
// GitAuth.SSHKey with the user's home directory.
func (c *Config) ExpandPaths() {
	c.ClientKey = expandHome(c.ClientKey)
	c.GitAuth.SSHKey = expandHome(c.GitAuth.SSHKey)
	for i, p := range c.CookbookPath {
		c.CookbookPath[i] = expandHome(p)
	}
}

func expandHome(p string) string {
	if p == "~" {
		return xdg.Home
	}
	if rest, ok := strings.CutPrefix(p, "~/"); ok {
		return filepath.Join(xdg.Home, rest)
	}
	return p
}
