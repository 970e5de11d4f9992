// Package auth resolves go-git transport credentials for remote URLs.
package auth

import (
	"errors"
	"strings"

	"github.com/go-git/go-git/v5/plumbing/transport"
)

// ErrUnsupportedURL is returned by a provider asked about a URL scheme it
// does not serve. A Chain moves on to its next provider when it sees it.
var ErrUnsupportedURL = errors.New("unsupported URL scheme")

// Provider returns the go-git auth method for a remote URL.
//
// A nil method and nil error means the provider has nothing for this URL.
type Provider interface {
	Method(remoteURL string) (transport.AuthMethod, error)
}

// matchHost reports whether host matches pattern. Patterns are exact
// hostnames, "*.suffix" or "prefix.*".
func matchHost(host, pattern string) bool {
	if host == pattern {
		return true
	}
	if strings.Count(pattern, "*") != 1 {
		return false
	}
	if suffix, ok := strings.CutPrefix(pattern, "*."); ok {
		return host == suffix || strings.HasSuffix(host, "."+suffix)
	}
	if prefix, ok := strings.CutSuffix(pattern, ".*"); ok {
		return strings.HasPrefix(host, prefix+".")
	}
	return false
}

// hostAllowed reports whether host passes an allow list. An empty list
// allows every host.
func hostAllowed(host string, allowed []string) bool {
	if len(allowed) == 0 {
		return true
	}
	for _, pattern := range allowed {
		if matchHost(host, pattern) {
			return true
		}
	}
	return false
}
