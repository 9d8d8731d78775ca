package tree

import "iter"

// Iterator is a (set, node) position. It stays valid until the node it
// references is erased. The zero Iterator is not usable.
type Iterator[T any] struct {
	set  *RBSet[T]
	node *RBNode[T]
}

// IsEnd reports whether the iterator is past the last element.
func (it Iterator[T]) IsEnd() bool {
	return it.set == nil || it.node == nil || it.set.isNil(it.node)
}

func (it Iterator[T]) Valid() bool {
	return !it.IsEnd()
}

// Value returns the payload. Dereferencing End is a programming error.
func (it Iterator[T]) Value() T {
	if it.IsEnd() {
		panic( /* debug assertion */ "[rbtree] dereference end iterator")
	}
	return it.node.val
}

func (it Iterator[T]) Color() RBColor {
	if it.IsEnd() {
		return Black
	}
	return it.node.color
}

// Next advances to the successor. Next of End stays at End.
func (it Iterator[T]) Next() Iterator[T] {
	if it.IsEnd() {
		return it
	}
	return Iterator[T]{set: it.set, node: it.set.successor(it.node)}
}

// Prev moves to the predecessor. Prev of End is the maximum, Prev of
// the minimum is End.
func (it Iterator[T]) Prev() Iterator[T] {
	if it.set == nil {
		return it
	}
	if it.IsEnd() {
		return Iterator[T]{set: it.set, node: it.set.maximum(it.set.root)}
	}
	return Iterator[T]{set: it.set, node: it.set.predecessor(it.node)}
}

func (it Iterator[T]) Equal(that Iterator[T]) bool {
	if it.IsEnd() && that.IsEnd() {
		return it.set == that.set
	}
	return it.set == that.set && it.node == that.node
}

func (s *RBSet[T]) iterator(node *RBNode[T]) Iterator[T] {
	return Iterator[T]{set: s, node: node}
}

func (s *RBSet[T]) Begin() Iterator[T] {
	return s.iterator(s.minimum(s.root))
}

func (s *RBSet[T]) End() Iterator[T] {
	return s.iterator(s.sentinel)
}

// All yields the elements in ascending order. The set must not be
// mutated while ranging.
func (s *RBSet[T]) All() iter.Seq[T] {
	return func(yield func(T) bool) {
		for x := s.minimum(s.root); !s.isNil(x); x = s.successor(x) {
			if !yield(x.val) {
				return
			}
		}
	}
}

// Backward yields the elements in descending order.
func (s *RBSet[T]) Backward() iter.Seq[T] {
	return func(yield func(T) bool) {
		for x := s.maximum(s.root); !s.isNil(x); x = s.predecessor(x) {
			if !yield(x.val) {
				return
			}
		}
	}
}

// Foreach is the in-order walk, stopped when action returns false.
func (s *RBSet[T]) Foreach(action func(idx int64, color RBColor, val T) bool) {
	idx := int64(0)
	for x := s.minimum(s.root); !s.isNil(x); x = s.successor(x) {
		if !action(idx, x.color, x.val) {
			return
		}
		idx++
	}
}
