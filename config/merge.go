package config

// Overrides are values given on the command line. Zero values leave the
// configuration untouched.
type Overrides struct {
	ChefServerURL string
	NodeName      string
	ClientKey     string
	CookbookPath  []string
	GitURL        string
	GitBranch     string
	Ignore        []string
	MaxRevisions  int
}

// Merge applies o to c. Ignore entries are appended to the configured
// ones; every other set field replaces the configured value.
func (c *Config) Merge(o Overrides) {
	setString(&c.ChefServerURL, o.ChefServerURL)
	setString(&c.NodeName, o.NodeName)
	setString(&c.ClientKey, o.ClientKey)
	setString(&c.GitURL, o.GitURL)
	setString(&c.GitBranch, o.GitBranch)
	if len(o.CookbookPath) > 0 {
		c.CookbookPath = append(PathList(nil), o.CookbookPath...)
	}
	if len(o.Ignore) > 0 {
		c.Ignore = append(c.Ignore, o.Ignore...)
	}
	if o.MaxRevisions > 0 {
		c.MaxRevisions = o.MaxRevisions
	}
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
