package checksum

// Node is one node of a snapshot tree. The only implementations are
// *Leaf and *Subtree.
type Node interface {
	// Name is the node's own path segment.
	Name() string

	node()
}

// ContentFunc produces a leaf's bytes on demand.
type ContentFunc func() ([]byte, error)

// ChildrenFunc produces a subtree's children on demand.
type ChildrenFunc func() ([]Node, error)

// Leaf is a file.
type Leaf struct {
	name    string
	content ContentFunc
}

// NewLeaf returns a leaf with fixed content.
func NewLeaf(name string, content []byte) *Leaf {
	return &Leaf{name: name, content: func() ([]byte, error) { return content, nil }}
}

// NewLazyLeaf returns a leaf whose content is read when the tree is built.
func NewLazyLeaf(name string, content ContentFunc) *Leaf {
	return &Leaf{name: name, content: content}
}

// Name implements Node.
func (l *Leaf) Name() string { return l.name }

// Content returns the leaf's bytes.
func (l *Leaf) Content() ([]byte, error) {
	if l.content == nil {
		return nil, nil
	}
	return l.content()
}

func (*Leaf) node() {}

// Subtree is a directory.
// A subtree with an empty name is a root: it adds no path segment.
type Subtree struct {
	name     string
	children ChildrenFunc
}

// NewSubtree returns a subtree with a fixed list of children.
func NewSubtree(name string, children ...Node) *Subtree {
	return &Subtree{name: name, children: func() ([]Node, error) { return children, nil }}
}

// NewLazySubtree returns a subtree whose children are listed when the tree
// is built.
func NewLazySubtree(name string, children ChildrenFunc) *Subtree {
	return &Subtree{name: name, children: children}
}

// NewRoot returns an unnamed subtree.
func NewRoot(children ...Node) *Subtree {
	return NewSubtree("", children...)
}

// NewLazyRoot returns an unnamed subtree with lazily produced children.
func NewLazyRoot(children ChildrenFunc) *Subtree {
	return NewLazySubtree("", children)
}

// Name implements Node.
func (s *Subtree) Name() string { return s.name }

// Children returns the subtree's direct children in input order.
func (s *Subtree) Children() ([]Node, error) {
	if s.children == nil {
		return nil, nil
	}
	return s.children()
}

func (*Subtree) node() {}
