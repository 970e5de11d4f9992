package auth

import (
	"fmt"
	"net/url"
	"os"
	"strings"

	"github.com/go-git/go-git/v5/plumbing/transport"
	"github.com/go-git/go-git/v5/plumbing/transport/ssh"
	gossh "golang.org/x/crypto/ssh"
)

// DefaultSSHUser is the login used when a URL names none.
const DefaultSSHUser = "git"

// SSH serves public key or agent auth for ssh remotes, including the
// scp-like "user@host:path" form.
type SSH struct {
	// KeyPath is a private key file. Ignored when Key is set.
	KeyPath string

	// Key is a PEM encoded private key.
	Key []byte

	// Passphrase decrypts the private key.
	Passphrase string

	// Agent uses the running ssh-agent instead of a key.
	Agent bool

	// HostKeyCallback verifies the server. Nil keeps go-git's
	// known_hosts based default.
	HostKeyCallback gossh.HostKeyCallback

	// Hosts restricts the provider to matching hosts. Empty means all.
	Hosts []string
}

// NewSSHKeyFile returns a provider reading the private key at path.
func NewSSHKeyFile(path, passphrase string) *SSH {
	return &SSH{KeyPath: path, Passphrase: passphrase}
}

// NewSSHKey returns a provider for an in-memory private key.
func NewSSHKey(pem []byte, passphrase string) *SSH {
	return &SSH{Key: pem, Passphrase: passphrase}
}

// NewSSHAgent returns a provider backed by ssh-agent.
func NewSSHAgent() *SSH {
	return &SSH{Agent: true}
}

// WithHostKeyCallback sets the host key verification callback.
func (p *SSH) WithHostKeyCallback(cb gossh.HostKeyCallback) *SSH {
	p.HostKeyCallback = cb
	return p
}

// WithHosts restricts the provider to hosts.
func (p *SSH) WithHosts(hosts ...string) *SSH {
	p.Hosts = hosts
	return p
}

// Method implements Provider.
//
//nolint:ireturn // go-git requires returning transport.AuthMethod interface
func (p *SSH) Method(remoteURL string) (transport.AuthMethod, error) {
	user, host, err := parseSSHURL(remoteURL)
	if err != nil {
		return nil, err
	}
	if !hostAllowed(host, p.Hosts) {
		return nil, nil
	}
	if user == "" {
		user = DefaultSSHUser
	}

	switch {
	case p.Agent:
		auth, err := ssh.NewSSHAgentAuth(user)
		if err != nil {
			return nil, fmt.Errorf("failed to create SSH agent auth: %w", err)
		}
		if p.HostKeyCallback != nil {
			auth.HostKeyCallback = p.HostKeyCallback
		}
		return auth, nil
	case len(p.Key) > 0:
		return p.publicKeys(user, p.Key)
	case p.KeyPath != "":
		pem, err := os.ReadFile(p.KeyPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read SSH private key: %w", err)
		}
		return p.publicKeys(user, pem)
	default:
		return nil, fmt.Errorf("no SSH credentials configured")
	}
}

//nolint:ireturn // go-git requires returning transport.AuthMethod interface
func (p *SSH) publicKeys(user string, pem []byte) (transport.AuthMethod, error) {
	auth, err := ssh.NewPublicKeys(user, pem, p.Passphrase)
	if err != nil {
		return nil, fmt.Errorf("failed to load SSH private key: %w", err)
	}
	if p.HostKeyCallback != nil {
		auth.HostKeyCallback = p.HostKeyCallback
	}
	return auth, nil
}

// parseSSHURL returns the user and host of an ssh remote.
func parseSSHURL(remoteURL string) (string, string, error) {
	if !strings.Contains(remoteURL, "://") {
		// scp-like: [user@]host:path
		hostPart, _, ok := strings.Cut(remoteURL, ":")
		if !ok || hostPart == "" {
			return "", "", fmt.Errorf("%w: %q", ErrUnsupportedURL, remoteURL)
		}
		user, host, found := strings.Cut(hostPart, "@")
		if !found {
			return "", user, nil
		}
		return user, host, nil
	}

	u, err := url.Parse(remoteURL)
	if err != nil {
		return "", "", fmt.Errorf("invalid URL: %w", err)
	}
	switch u.Scheme {
	case "ssh", "git+ssh", "ssh+git":
	default:
		return "", "", fmt.Errorf("%w: ssh provider got %q", ErrUnsupportedURL, u.Scheme)
	}
	return u.User.Username(), u.Hostname(), nil
}
