// Package registry fetches cookbook manifests from a Chef server.
package registry

import (
	"bytes"
	"context"
	"crypto/rsa"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/Masterminds/semver/v3"
	"github.com/sethgrid/pester"

	"github.com/input-output-hk/cookbook-status/errors"
	"github.com/input-output-hk/cookbook-status/manifest"
)

const (
	// LatestVersion asks the server for the newest cookbook version.
	LatestVersion = "_latest"

	// DefaultMaxRetries is the number of attempts per request.
	DefaultMaxRetries = 3

	// DefaultChefVersion is sent as X-Chef-Version.
	DefaultChefVersion = "11.0.0"

	// DefaultTimeout bounds a single attempt.
	DefaultTimeout = 30 * time.Second
)

// Doer sends HTTP requests. *pester.Client and *http.Client satisfy it.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Options configures a Client.
type Options struct {
	// ServerURL is the REQUIRED Chef server base URL, including the
	// organization path when there is one.
	ServerURL string

	// ClientName is the REQUIRED API client (node_name) that signs requests.
	ClientName string

	// Key is the REQUIRED private key of ClientName.
	Key *rsa.PrivateKey

	// HTTPClient sends requests. Defaults to a retrying pester client.
	HTTPClient Doer

	// MaxRetries is the number of attempts of the default HTTP client.
	MaxRetries int

	// ChefVersion is sent as X-Chef-Version.
	ChefVersion string

	// Categories selects the manifest categories read. Defaults to
	// manifest.DefaultCategories.
	Categories []manifest.Category

	// Logger receives retry and request logs. Nil is silent.
	Logger *slog.Logger

	// Now is the signing clock. Defaults to time.Now.
	Now func() time.Time
}

// Validate checks that the Options are usable.
func (o *Options) Validate() error {
	if o.ServerURL == "" {
		return errors.New(errors.CodeInvalidConfig, "chef server URL is required")
	}
	u, err := url.Parse(o.ServerURL)
	if err != nil {
		return errors.Wrap(err, errors.CodeInvalidConfig, "invalid chef server URL")
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return errors.Newf(errors.CodeInvalidConfig, "chef server URL must be http or https, got %q", o.ServerURL)
	}
	if o.ClientName == "" {
		return errors.New(errors.CodeInvalidConfig, "client name is required")
	}
	if o.Key == nil {
		return errors.New(errors.CodeInvalidConfig, "client key is required")
	}
	if o.MaxRetries < 0 {
		return errors.New(errors.CodeInvalidConfig, "MaxRetries cannot be negative")
	}
	return nil
}

func (o *Options) applyDefaults() {
	if o.MaxRetries == 0 {
		o.MaxRetries = DefaultMaxRetries
	}
	if o.ChefVersion == "" {
		o.ChefVersion = DefaultChefVersion
	}
	if o.Now == nil {
		o.Now = time.Now
	}
	if o.HTTPClient == nil {
		o.HTTPClient = newPesterClient(o.MaxRetries, o.Logger)
	}
}

func newPesterClient(maxRetries int, logger *slog.Logger) *pester.Client {
	client := pester.NewExtendedClient(&http.Client{Timeout: DefaultTimeout})
	client.Backoff = pester.ExponentialBackoff
	client.MaxRetries = maxRetries
	client.LogHook = func(e pester.ErrEntry) {
		if logger != nil {
			logger.Warn("retrying chef server request",
				"url", e.URL,
				"attempt", e.Attempt,
				"error", e.Err,
			)
		}
	}
	return client
}

// Client talks to the Chef server API.
type Client struct {
	base       *url.URL
	http       Doer
	signer     *signer
	opts       Options
	categories []manifest.Category
}

// New creates a Client.
func New(opts Options) (*Client, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	opts.applyDefaults()

	base, err := url.Parse(strings.TrimSuffix(opts.ServerURL, "/"))
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeInvalidConfig, "invalid chef server URL")
	}
	return &Client{
		base:       base,
		http:       opts.HTTPClient,
		signer:     &signer{clientName: opts.ClientName, key: opts.Key, now: opts.Now},
		opts:       opts,
		categories: opts.Categories,
	}, nil
}

// NormalizeVersion maps "" and "latest" to LatestVersion and checks that
// any other value is a version number.
func NormalizeVersion(version string) (string, error) {
	switch version {
	case "", "latest", LatestVersion:
		return LatestVersion, nil
	}
	if _, err := semver.NewVersion(version); err != nil {
		return "", errors.WrapWithContext(err, errors.CodeInvalidInput,
			"invalid cookbook version", map[string]interface{}{"version": version})
	}
	return version, nil
}

// CookbookVersion fetches the manifest of cookbook name at version
// ("" for the latest).
func (c *Client) CookbookVersion(ctx context.Context, name, version string) (*manifest.Manifest, error) {
	if name == "" || strings.Contains(name, "/") {
		return nil, errors.Newf(errors.CodeInvalidInput, "invalid cookbook name %q", name)
	}
	version, err := NormalizeVersion(version)
	if err != nil {
		return nil, err
	}

	body, err := c.get(ctx, "cookbooks", name, version)
	if err != nil {
		return nil, errors.WithContext(err, map[string]interface{}{"cookbook": name, "version": version})
	}
	defer body.Close()

	m, err := manifest.Decode(body, c.categories)
	if err != nil {
		return nil, errors.WithContext(err, map[string]interface{}{"cookbook": name, "version": version})
	}
	if m.CookbookName == "" {
		m.CookbookName = name
	}
	return m, nil
}

func (c *Client) get(ctx context.Context, elem ...string) (io.ReadCloser, error) {
	u := c.base.JoinPath(elem...)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeInternal, "failed to build request")
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Chef-Version", c.opts.ChefVersion)
	if err := c.signer.sign(req, nil); err != nil {
		return nil, err
	}

	if c.opts.Logger != nil {
		c.opts.Logger.DebugContext(ctx, "chef server request", "method", req.Method, "url", u.String())
	}

	resp, err := c.http.Do(req)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, errors.Wrap(ctxErr, errors.CodeCanceled, "chef server request canceled")
		}
		return nil, errors.Wrap(err, errors.CodeNetwork, "chef server request failed")
	}
	if resp.StatusCode == http.StatusOK {
		return resp.Body, nil
	}

	defer resp.Body.Close()
	detail := responseError(resp)
	ctxMap := map[string]interface{}{"status": resp.StatusCode}
	switch resp.StatusCode {
	case http.StatusUnauthorized, http.StatusForbidden:
		return nil, errors.WrapWithContext(detail, errors.CodeUnauthorized, "chef server rejected credentials", ctxMap)
	case http.StatusNotFound:
		return nil, errors.WrapWithContext(detail, errors.CodeNotFound, "cookbook version not found", ctxMap)
	default:
		return nil, errors.WrapWithContext(detail, errors.CodeNetwork, "unexpected chef server response", ctxMap)
	}
}

// responseError returns the server's error message, or the status text
// when the body is empty.
func responseError(resp *http.Response) error {
	data, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return fmt.Errorf("%d %s", resp.StatusCode, http.StatusText(resp.StatusCode))
	}
	return fmt.Errorf("%s", data)
}
