package registry

import (
	"crypto"
	"crypto/rand"
	"crypto/rsa"
	"crypto/sha1" //nolint:gosec // Chef authentication protocol 1.0 is defined over SHA-1
	"crypto/x509"
	"encoding/base64"
	"encoding/pem"
	"fmt"
	"net/http"
	"path"
	"strings"
	"time"

	"github.com/input-output-hk/cookbook-status/errors"
	"github.com/input-output-hk/cookbook-status/fs"
)

const (
	// SignVersion is the Chef authentication protocol version produced.
	SignVersion = "1.0"

	timestampLayout = "2006-01-02T15:04:05Z"
	authChunkSize   = 60
)

// signer adds Chef request-signing headers to requests.
type signer struct {
	clientName string
	key        *rsa.PrivateKey
	now        func() time.Time
}

func hashB64(data []byte) string {
	sum := sha1.Sum(data) //nolint:gosec // protocol 1.0
	return base64.StdEncoding.EncodeToString(sum[:])
}

// canonicalPath collapses repeated slashes and drops a trailing slash.
func canonicalPath(p string) string {
	return path.Clean("/" + p)
}

func (s *signer) canonicalRequest(method, urlPath string, body []byte, timestamp string) string {
	return strings.Join([]string{
		"Method:" + strings.ToUpper(method),
		"Hashed Path:" + hashB64([]byte(canonicalPath(urlPath))),
		"X-Ops-Content-Hash:" + hashB64(body),
		"X-Ops-Timestamp:" + timestamp,
		"X-Ops-UserId:" + s.clientName,
	}, "\n")
}

// sign sets the X-Ops-* headers on req for the given body.
func (s *signer) sign(req *http.Request, body []byte) error {
	timestamp := s.now().UTC().Format(timestampLayout)
	canonical := s.canonicalRequest(req.Method, req.URL.Path, body, timestamp)

	sig, err := rsa.SignPKCS1v15(rand.Reader, s.key, crypto.Hash(0), []byte(canonical))
	if err != nil {
		return errors.Wrap(err, errors.CodeInvalidConfig, "failed to sign request")
	}
	encoded := base64.StdEncoding.EncodeToString(sig)

	req.Header.Set("X-Ops-Sign", "algorithm=sha1;version="+SignVersion)
	req.Header.Set("X-Ops-UserId", s.clientName)
	req.Header.Set("X-Ops-Timestamp", timestamp)
	req.Header.Set("X-Ops-Content-Hash", hashB64(body))
	for i := 0; i*authChunkSize < len(encoded); i++ {
		end := min((i+1)*authChunkSize, len(encoded))
		req.Header.Set(fmt.Sprintf("X-Ops-Authorization-%d", i+1), encoded[i*authChunkSize:end])
	}
	return nil
}

// ParseKey parses a PEM encoded RSA private key in PKCS#1 or PKCS#8 form.
func ParseKey(data []byte) (*rsa.PrivateKey, error) {
	block, _ := pem.Decode(data)
	if block == nil {
		return nil, errors.New(errors.CodeInvalidConfig, "client key is not PEM encoded")
	}
	if key, err := x509.ParsePKCS1PrivateKey(block.Bytes); err == nil {
		return key, nil
	}
	parsed, err := x509.ParsePKCS8PrivateKey(block.Bytes)
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeInvalidConfig, "failed to parse client key")
	}
	key, ok := parsed.(*rsa.PrivateKey)
	if !ok {
		return nil, errors.Newf(errors.CodeInvalidConfig, "client key is %T, want RSA", parsed)
	}
	return key, nil
}

// LoadKey reads and parses the client key at path.
func LoadKey(fsys fs.ReadFS, keyPath string) (*rsa.PrivateKey, error) {
	data, err := fsys.ReadFile(keyPath)
	if err != nil {
		return nil, errors.WrapWithContext(err, errors.CodeInvalidConfig,
			"failed to read client key", map[string]interface{}{"path": keyPath})
	}
	key, err := ParseKey(data)
	if err != nil {
		return nil, errors.WithContext(err, map[string]interface{}{"path": keyPath})
	}
	return key, nil
}
