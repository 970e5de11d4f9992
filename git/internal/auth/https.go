package auth

import (
	"fmt"
	"net/url"

	"github.com/go-git/go-git/v5/plumbing/transport"
	"github.com/go-git/go-git/v5/plumbing/transport/http"
)

// HTTPS serves basic auth for http:// and https:// remotes.
type HTTPS struct {
	auth *http.BasicAuth

	// Hosts restricts the provider to matching hosts. Empty means all.
	Hosts []string
}

// NewHTTPSBasic returns a provider sending username and password.
// A password given without a username is sent as the username, which is
// how most git hosts accept bare tokens.
func NewHTTPSBasic(username, password string) *HTTPS {
	if username == "" && password != "" {
		username, password = password, ""
	}
	return &HTTPS{auth: &http.BasicAuth{Username: username, Password: password}}
}

// NewHTTPSToken returns a provider sending token as the password.
func NewHTTPSToken(username, token string) *HTTPS {
	if username == "" {
		username = "token"
	}
	return &HTTPS{auth: &http.BasicAuth{Username: username, Password: token}}
}

// WithHosts restricts the provider to hosts.
func (p *HTTPS) WithHosts(hosts ...string) *HTTPS {
	p.Hosts = hosts
	return p
}

// Method implements Provider.
//
//nolint:ireturn // go-git requires returning transport.AuthMethod interface
func (p *HTTPS) Method(remoteURL string) (transport.AuthMethod, error) {
	u, err := url.Parse(remoteURL)
	if err != nil {
		return nil, fmt.Errorf("invalid URL: %w", err)
	}
	if u.Scheme != "https" && u.Scheme != "http" {
		return nil, fmt.Errorf("%w: https provider got %q", ErrUnsupportedURL, u.Scheme)
	}
	if !hostAllowed(u.Hostname(), p.Hosts) {
		return nil, nil
	}
	return p.auth, nil
}
