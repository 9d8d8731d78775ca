package tree

// RBNode is the intrusive node record. The parent link is a non-owning
// back reference; only rotations, attach and transplant write it.
type RBNode[T any] struct {
	parent *RBNode[T]
	left   *RBNode[T]
	right  *RBNode[T]
	val    T
	color  RBColor
}

func (node *RBNode[T]) Val() T {
	return node.val
}

func (node *RBNode[T]) Color() RBColor {
	return node.color
}

func (node *RBNode[T]) reset() {
	*node = RBNode[T]{}
}

// newSentinel returns the black nil leaf whose links point to itself.
// Every leaf edge and the root's parent edge reference it.
func newSentinel[T any]() *RBNode[T] {
	sentinel := &RBNode[T]{color: Black}
	sentinel.parent, sentinel.left, sentinel.right = sentinel, sentinel, sentinel
	return sentinel
}

func (s *RBSet[T]) isNil(node *RBNode[T]) bool {
	return node == s.sentinel
}

// reinstateSentinel restores the sentinel after transplant and delete
// fixup used it as a temporary anchor.
func (s *RBSet[T]) reinstateSentinel() {
	s.sentinel.parent, s.sentinel.left, s.sentinel.right = s.sentinel, s.sentinel, s.sentinel
	s.sentinel.color = Black
}

func (s *RBSet[T]) setLeftChild(parent, child *RBNode[T]) {
	parent.left = child
	if !s.isNil(child) {
		child.parent = parent
	}
}

func (s *RBSet[T]) setRightChild(parent, child *RBNode[T]) {
	parent.right = child
	if !s.isNil(child) {
		child.parent = parent
	}
}

func (s *RBSet[T]) direction(node *RBNode[T]) RBDirection {
	if s.isNil(node) {
		// impossible run to here
		panic( /* debug assertion */ "[rbtree] nil leaf node without direction")
	}
	if s.isNil(node.parent) {
		return Root
	}
	if node == node.parent.left {
		return Left
	}
	return Right
}

func (s *RBSet[T]) minimum(x *RBNode[T]) *RBNode[T] {
	for !s.isNil(x) && !s.isNil(x.left) {
		x = x.left
	}
	return x
}

func (s *RBSet[T]) maximum(x *RBNode[T]) *RBNode[T] {
	for !s.isNil(x) && !s.isNil(x.right) {
		x = x.right
	}
	return x
}

// The succ node of the current node is its next node in sorted order.
// Returns the sentinel after the last node.
func (s *RBSet[T]) successor(x *RBNode[T]) *RBNode[T] {
	if !s.isNil(x.right) {
		return s.minimum(x.right)
	}
	y := x.parent
	// Backtrack to the first ancestor reached from its left subtree.
	for !s.isNil(y) && x == y.right {
		x = y
		y = y.parent
	}
	return y
}

// The pred node of the current node is its previous node in sorted order.
func (s *RBSet[T]) predecessor(x *RBNode[T]) *RBNode[T] {
	if !s.isNil(x.left) {
		return s.maximum(x.left)
	}
	y := x.parent
	for !s.isNil(y) && x == y.left {
		x = y
		y = y.parent
	}
	return y
}

// owns walks the parent links up to the root. It is only used to guard
// erase against foreign or already erased positions.
func (s *RBSet[T]) owns(node *RBNode[T]) bool {
	if node == nil || s.isNil(node) || s.isNil(s.root) {
		return false
	}
	// A foreign sentinel links to itself.
	for x := node; x != nil && x.parent != x; x = x.parent {
		if x == s.root {
			return true
		}
		if s.isNil(x.parent) {
			return false
		}
	}
	return false
}
