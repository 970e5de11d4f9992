package config

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/input-output-hk/cookbook-status/errors"
	"github.com/input-output-hk/cookbook-status/manifest"
)

// Requirement selects settings that ValidateFor insists on.
type Requirement int

const (
	// NeedServer requires the registry settings.
	NeedServer Requirement = 1 << iota
	// NeedCookbookPath requires at least one cookbook directory.
	NeedCookbookPath
	// NeedGitURL requires git_url.
	NeedGitURL
)

// Validate checks the values that are always required to be well formed.
// All problems are reported in a single INVALID_CONFIGURATION error.
func (c *Config) Validate() error {
	return c.ValidateFor(0)
}

// ValidateFor is Validate plus the settings named by req.
func (c *Config) ValidateFor(req Requirement) error {
	var problems []string

	if c.ChefServerURL != "" {
		if u, err := url.Parse(c.ChefServerURL); err != nil || u.Scheme == "" || u.Host == "" {
			problems = append(problems, fmt.Sprintf("chef_server_url %q is not an absolute URL", c.ChefServerURL))
		}
	}
	if c.MaxRevisions < 0 {
		problems = append(problems, "max_revisions must not be negative")
	}
	if c.GitBranch == "" {
		problems = append(problems, "git_branch must not be empty")
	}
	if _, err := c.IgnoreSet(); err != nil {
		problems = append(problems, "ignore: "+err.Error())
	}
	problems = append(problems, validateCategories(c.Categories)...)

	if req&NeedServer != 0 {
		if c.ChefServerURL == "" {
			problems = append(problems, "chef_server_url is required")
		}
		if c.NodeName == "" {
			problems = append(problems, "node_name is required")
		}
		if c.ClientKey == "" {
			problems = append(problems, "client_key is required")
		}
	}
	if req&NeedCookbookPath != 0 && len(c.CookbookPath) == 0 {
		problems = append(problems, "cookbook_path is required")
	}
	if req&NeedGitURL != 0 && c.GitURL == "" {
		problems = append(problems, "git_url is required")
	}

	if len(problems) > 0 {
		return errors.New(errors.CodeInvalidConfig,
			"invalid configuration: "+strings.Join(problems, "; "))
	}
	return nil
}

func validateCategories(names []string) []string {
	if len(names) == 0 {
		return []string{"categories must not be empty"}
	}
	known := make(map[string]struct{}, len(manifest.DefaultCategories))
	for _, c := range manifest.DefaultCategories {
		known[string(c)] = struct{}{}
	}
	var problems []string
	for _, name := range names {
		if _, ok := known[name]; !ok {
			problems = append(problems, fmt.Sprintf("unknown category %q", name))
		}
	}
	return problems
}
