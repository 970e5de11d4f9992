package auth

import (
	"errors"
	"fmt"

	"github.com/go-git/go-git/v5/plumbing/transport"
)

// Chain asks its providers in order and returns the first method found.
// Providers that do not serve the URL's scheme are skipped; any other
// provider error stops the chain.
type Chain struct {
	providers []Provider
}

// NewChain returns a chain over providers. Nil providers are dropped.
func NewChain(providers ...Provider) *Chain {
	c := &Chain{}
	for _, p := range providers {
		c.Add(p)
	}
	return c
}

// Add appends p to the chain.
func (c *Chain) Add(p Provider) *Chain {
	if p != nil {
		c.providers = append(c.providers, p)
	}
	return c
}

// Len is the number of providers in the chain.
func (c *Chain) Len() int {
	return len(c.providers)
}

// Method implements Provider.
//
//nolint:ireturn // transport.AuthMethod is an interface required by go-git
func (c *Chain) Method(remoteURL string) (transport.AuthMethod, error) {
	for i, p := range c.providers {
		method, err := p.Method(remoteURL)
		if errors.Is(err, ErrUnsupportedURL) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("auth provider %d: %w", i, err)
		}
		if method != nil {
			return method, nil
		}
	}
	return nil, nil
}
