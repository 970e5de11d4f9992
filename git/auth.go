package git

import (
	gossh "golang.org/x/crypto/ssh"

	"github.com/input-output-hk/cookbook-status/git/internal/auth"
)

// AuthConfig holds the credentials available for cloning.
type AuthConfig struct {
	// Token is sent as the HTTPS password.
	Token string

	// Username accompanies Token. Defaults to "token".
	Username string

	// SSHKeyPath is a private key file for ssh remotes.
	SSHKeyPath string

	// SSHKeyPassphrase decrypts SSHKeyPath.
	SSHKeyPassphrase string

	// SSHAgent uses the running ssh-agent for ssh remotes.
	SSHAgent bool

	// InsecureIgnoreHostKey disables ssh host key verification.
	InsecureIgnoreHostKey bool
}

// Empty reports whether no credential is configured.
func (c AuthConfig) Empty() bool {
	return c.Token == "" && c.SSHKeyPath == "" && !c.SSHAgent
}

// NewAuthProvider builds a provider from cfg: HTTPS token auth for http(s)
// remotes and key or agent auth for ssh remotes. It returns nil when cfg
// is empty.
//
//nolint:ireturn // callers only need the AuthProvider behaviour
func NewAuthProvider(cfg AuthConfig) AuthProvider {
	if cfg.Empty() {
		return nil
	}

	chain := auth.NewChain()
	if cfg.Token != "" {
		chain.Add(auth.NewHTTPSToken(cfg.Username, cfg.Token))
	}

	var sshProvider *auth.SSH
	switch {
	case cfg.SSHAgent:
		sshProvider = auth.NewSSHAgent()
	case cfg.SSHKeyPath != "":
		sshProvider = auth.NewSSHKeyFile(cfg.SSHKeyPath, cfg.SSHKeyPassphrase)
	}
	if sshProvider != nil {
		if cfg.InsecureIgnoreHostKey {
			sshProvider.WithHostKeyCallback(gossh.InsecureIgnoreHostKey()) //nolint:gosec // opt-in
		}
		chain.Add(sshProvider)
	}
	return chain
}
