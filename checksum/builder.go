package checksum

import (
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"hash"

	"github.com/input-output-hk/cookbook-status/errors"
)

// Builder computes checksum maps from snapshot trees.
// The zero value is ready to use and hashes with MD5.
type Builder struct {
	// HashFunc creates the digest used for file content. Defaults to MD5,
	// the digest the Chef server records for cookbook files.
	HashFunc func() hash.Hash

	// Strict makes two leaves resolving to the same path with different
	// checksums an AMBIGUOUS_PATH error. Otherwise the later leaf wins.
	Strict bool
}

// Build walks tree and returns a new Map. Leaf keys are prefix + the
// slash-joined names from tree down to the leaf.
func (b *Builder) Build(tree Node, prefix string) (Map, error) {
	out := make(Map)
	if err := b.walk(tree, prefix, out); err != nil {
		return nil, err
	}
	return out, nil
}

// Sum returns the hex digest of data.
func (b *Builder) Sum(data []byte) string {
	newHash := b.HashFunc
	if newHash == nil {
		newHash = md5.New
	}
	h := newHash()
	_, _ = h.Write(data)
	return hex.EncodeToString(h.Sum(nil))
}

func (b *Builder) walk(n Node, prefix string, out Map) error {
	switch n := n.(type) {
	case *Leaf:
		path := prefix + n.Name()
		data, err := n.Content()
		if err != nil {
			return errors.WrapWithContext(err, errors.CodeSnapshotUnavailable,
				"failed to read file content", map[string]interface{}{"path": path})
		}
		return b.put(out, path, b.Sum(data))
	case *Subtree:
		childPrefix := prefix
		if n.Name() != "" {
			childPrefix = prefix + n.Name() + "/"
		}
		children, err := n.Children()
		if err != nil {
			return errors.WrapWithContext(err, errors.CodeSnapshotUnavailable,
				"failed to list directory", map[string]interface{}{"path": childPrefix})
		}
		for _, child := range children {
			if err := b.walk(child, childPrefix, out); err != nil {
				return err
			}
		}
		return nil
	case nil:
		return errors.New(errors.CodeInvalidInput, "nil tree node")
	default:
		return errors.New(errors.CodeInternal, fmt.Sprintf("unsupported tree node %T", n))
	}
}

func (b *Builder) put(out Map, path, sum string) error {
	if prev, ok := out[path]; ok && b.Strict && prev != sum {
		return errors.WrapWithContext(ErrAmbiguousPath, errors.CodeAmbiguousPath,
			"duplicate path in tree", map[string]interface{}{"path": path})
	}
	out[path] = sum
	return nil
}

// Build computes the checksum map of tree with the default Builder.
func Build(tree Node, prefix string) (Map, error) {
	var b Builder
	return b.Build(tree, prefix)
}

// Sum returns the MD5 hex digest of data.
func Sum(data []byte) string {
	var b Builder
	return b.Sum(data)
}
