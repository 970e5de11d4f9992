// Package checksum turns tree-shaped snapshots into flat maps from
// relative path to content digest.
//
// A snapshot is described with two node kinds: *Leaf (a file with a name
// and content) and *Subtree (a directory with a name and children). The
// Builder walks such a tree and returns a fresh Map on every call:
//
//	root := checksum.NewRoot(
//	    checksum.NewLeaf("metadata.rb", []byte("name 'apache2'")),
//	    checksum.NewSubtree("recipes",
//	        checksum.NewLeaf("default.rb", []byte("package 'httpd'")),
//	    ),
//	)
//	m, err := checksum.Build(root, "")
//	// m["recipes/default.rb"] == "<md5 hex of the content>"
//
// Leaves and subtrees may produce their content and children lazily, so
// git trees and on-disk directories are only read while the builder walks
// them. A failing producer aborts the walk with its error.
package checksum
