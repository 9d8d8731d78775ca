package tree

import (
	"go.uber.org/zap"

	"github.com/benz9527/xcontainer/lib/infra"
)

func assignVal[T any](val T) (T, error) {
	return val, nil
}

// cloneSubtree duplicates the subtree x of s into nodes taken from dst,
// children first. On failure every node created by this call is
// released before returning, so dst never sees a half built subtree.
// Recursion depth is bounded by the height of a balanced source.
func (s *RBSet[T]) cloneSubtree(dst *RBSet[T], x *RBNode[T], copyVal func(T) (T, error)) (*RBNode[T], error) {
	if s.isNil(x) {
		return dst.sentinel, nil
	}

	l, err := s.cloneSubtree(dst, x.left, copyVal)
	if err != nil {
		return nil, err
	}
	r, err := s.cloneSubtree(dst, x.right, copyVal)
	if err != nil {
		dst.destroySubtree(l)
		return nil, err
	}

	node, err := dst.newNode()
	if err != nil {
		dst.destroySubtree(l)
		dst.destroySubtree(r)
		return nil, err
	}
	val, err := copyVal(x.val)
	if err != nil {
		dst.destroyNode(node)
		dst.destroySubtree(l)
		dst.destroySubtree(r)
		return nil, infra.WrapErrorStackWithMessage(err, "[rbtree] clone payload")
	}

	node.val, node.color = val, x.color
	node.parent = dst.sentinel
	dst.setLeftChild(node, l)
	dst.setRightChild(node, r)
	return node, nil
}

// duplicate builds a detached copy of s whose nodes come from alloc.
func (s *RBSet[T]) duplicate(alloc NodeAllocator[T], copyVal func(T) (T, error)) (*RBSet[T], error) {
	dst := &RBSet[T]{
		sentinel: newSentinel[T](),
		less:     s.less,
		alloc:    alloc,
		cloner:   s.cloner,
		logger:   s.logger,
	}
	dst.root = dst.sentinel

	root, err := s.cloneSubtree(dst, s.root, copyVal)
	if err != nil {
		return nil, err
	}
	dst.root = root
	dst.size = s.size
	return dst, nil
}

func (s *RBSet[T]) payloadCopier() func(T) (T, error) {
	if s.cloner != nil {
		return s.cloner
	}
	return assignVal[T]
}

// Clone returns a structurally independent copy of s. The allocator,
// cloner and logger options override the ones inherited from s; the
// ordering is always the one of s.
func (s *RBSet[T]) Clone(opts ...RBSetOpt[T]) (*RBSet[T], error) {
	cfg := &RBSet[T]{
		alloc:  s.alloc,
		cloner: s.cloner,
		logger: s.logger,
	}
	for _, o := range opts {
		o(cfg)
	}

	copyVal := assignVal[T]
	if cfg.cloner != nil {
		copyVal = cfg.cloner
	}
	dst, err := s.duplicate(cfg.alloc, copyVal)
	if err != nil {
		cfg.logger.Warn("[rbtree] clone rolled back", zap.Int64("size", s.size), zap.Error(err))
		return nil, err
	}
	dst.cloner, dst.logger = cfg.cloner, cfg.logger
	cfg.logger.Debug("[rbtree] cloned", zap.Int64("size", dst.size))
	return dst, nil
}

// CopyFrom replaces the content of s by a copy of src, including its
// ordering. s is left untouched when the copy fails.
func (s *RBSet[T]) CopyFrom(src *RBSet[T]) error {
	if src == nil || src == s {
		return nil
	}
	tmp, err := src.duplicate(s.alloc, s.payloadCopier())
	if err != nil {
		s.logger.Warn("[rbtree] copy rolled back", zap.Int64("size", src.size), zap.Error(err))
		return err
	}
	s.Clear()
	s.adopt(tmp)
	s.less = src.less
	return nil
}

// MoveFrom transfers every element of src into s, replacing the content
// of s, and leaves src empty. Sets sharing the allocator exchange their
// roots in O(1). Otherwise the elements are rebuilt with the allocator
// of s; if that fails both sets are left untouched.
func (s *RBSet[T]) MoveFrom(src *RBSet[T]) error {
	if src == nil || src == s {
		return nil
	}
	if sameAllocator(s.alloc, src.alloc) {
		s.Clear()
		s.root, src.root = src.root, s.root
		s.sentinel, src.sentinel = src.sentinel, s.sentinel
		s.size, src.size = src.size, 0
		s.less = src.less
		s.logger.Debug("[rbtree] moved by root swap", zap.Int64("size", s.size))
		return nil
	}

	tmp, err := src.duplicate(s.alloc, assignVal[T])
	if err != nil {
		s.logger.Warn("[rbtree] move rolled back", zap.Int64("size", src.size), zap.Error(err))
		return err
	}
	s.Clear()
	s.adopt(tmp)
	s.less = src.less
	src.Clear()
	s.logger.Debug("[rbtree] moved by rebuild", zap.Int64("size", s.size))
	return nil
}

// Swap exchanges the whole content, ordering and allocator included.
// Iterators of both sets are invalidated.
func (s *RBSet[T]) Swap(other *RBSet[T]) {
	if other == nil || other == s {
		return
	}
	*s, *other = *other, *s
}

func (s *RBSet[T]) adopt(tmp *RBSet[T]) {
	s.root, s.sentinel, s.size = tmp.root, tmp.sentinel, tmp.size
	tmp.root, tmp.sentinel, tmp.size = nil, nil, 0
}
