package git

import (
	"errors"
	"io"
	"path"

	"github.com/go-git/go-git/v5/plumbing/filemode"
	"github.com/go-git/go-git/v5/plumbing/object"

	"github.com/input-output-hk/cookbook-status/checksum"
)

// TreeNode returns a lazy checksum tree over t. Blobs are read only when
// the tree is built. Submodule entries are left out.
func TreeNode(t *object.Tree) *checksum.Subtree {
	return checksum.NewLazyRoot(treeChildren(t))
}

func treeChildren(t *object.Tree) checksum.ChildrenFunc {
	return func() ([]checksum.Node, error) {
		nodes := make([]checksum.Node, 0, len(t.Entries))
		for i := range t.Entries {
			entry := t.Entries[i]
			switch entry.Mode {
			case filemode.Submodule:
				continue
			case filemode.Dir:
				nodes = append(nodes, checksum.NewLazySubtree(entry.Name, func() ([]checksum.Node, error) {
					sub, err := t.Tree(entry.Name)
					if err != nil {
						return nil, WrapErrorf(err, "failed to read tree %s", entry.Hash)
					}
					return treeChildren(sub)()
				}))
			default:
				nodes = append(nodes, checksum.NewLazyLeaf(entry.Name, func() ([]byte, error) {
					return readBlob(t, &entry)
				}))
			}
		}
		return nodes, nil
	}
}

func readBlob(t *object.Tree, entry *object.TreeEntry) ([]byte, error) {
	file, err := t.TreeEntryFile(entry)
	if err != nil {
		return nil, WrapErrorf(err, "failed to read blob %s", entry.Hash)
	}
	r, err := file.Reader()
	if err != nil {
		return nil, WrapErrorf(err, "failed to open blob %s", entry.Hash)
	}
	defer r.Close()

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, WrapErrorf(err, "failed to read blob %s", entry.Hash)
	}
	return data, nil
}

// commitTree returns the tree of c at subpath ("" or "." for the root).
func commitTree(c *object.Commit, subpath string) (*object.Tree, error) {
	tree, err := c.Tree()
	if err != nil {
		return nil, WrapErrorf(err, "failed to read tree of commit %s", c.Hash)
	}

	subpath = path.Clean("/" + subpath)[1:]
	if subpath == "" {
		return tree, nil
	}

	sub, err := tree.Tree(subpath)
	if errors.Is(err, object.ErrDirectoryNotFound) {
		return nil, WrapErrorf(ErrPathMissing, "%s at commit %s", subpath, c.Hash)
	}
	if err != nil {
		return nil, WrapErrorf(err, "failed to read %s at commit %s", subpath, c.Hash)
	}
	return sub, nil
}
