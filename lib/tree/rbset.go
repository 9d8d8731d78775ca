package tree

import (
	"sync"

	"go.uber.org/zap"

	"github.com/benz9527/xcontainer/lib/infra"
	"github.com/benz9527/xcontainer/lib/xlog"
)

var (
	_ OrderedSet[uint8] = (*RBSet[uint8])(nil)

	defaultLogger = sync.OnceValue(func() *zap.Logger {
		return xlog.FromEnv("rbtree")
	})
)

// RBSet is a unique-key ordered set backed by a red-black tree with a
// per set sentinel node. It is not thread safe, see NewSyncRBSet.
type RBSet[T any] struct {
	root     *RBNode[T]
	sentinel *RBNode[T]
	size     int64
	less     infra.KeyLess[T]
	alloc    NodeAllocator[T]
	cloner   func(T) (T, error)
	logger   *zap.Logger
	isDesc   bool
}

type RBSetOpt[T any] func(*RBSet[T])

// WithRBSetDesc reverses the ordering given to the constructor.
func WithRBSetDesc[T any]() RBSetOpt[T] {
	return func(s *RBSet[T]) {
		s.isDesc = true
	}
}

func WithRBSetAllocator[T any](alloc NodeAllocator[T]) RBSetOpt[T] {
	return func(s *RBSet[T]) {
		if alloc != nil {
			s.alloc = alloc
		}
	}
}

// WithRBSetCloner sets the payload copy used by Clone and CopyFrom.
// Without it payloads are copied by assignment.
func WithRBSetCloner[T any](cloner func(T) (T, error)) RBSetOpt[T] {
	return func(s *RBSet[T]) {
		s.cloner = cloner
	}
}

func WithRBSetLogger[T any](logger *zap.Logger) RBSetOpt[T] {
	return func(s *RBSet[T]) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewRBSet creates an empty set ordered by less. less must be a strict
// weak ordering and must not change while the set holds elements.
func NewRBSet[T any](less infra.KeyLess[T], opts ...RBSetOpt[T]) *RBSet[T] {
	if less == nil {
		panic( /* debug assertion */ "[rbtree] nil key comparator")
	}
	s := &RBSet[T]{
		sentinel: newSentinel[T](),
		less:     less,
		alloc:    NewHeapAllocator[T](),
	}
	s.root = s.sentinel
	for _, o := range opts {
		o(s)
	}
	if s.isDesc {
		s.less = s.less.Reverse()
	}
	if s.logger == nil {
		s.logger = defaultLogger()
	}
	return s
}

// NewOrderedRBSet creates a set ordered by the natural < of K.
func NewOrderedRBSet[K infra.OrderedKey](opts ...RBSetOpt[K]) *RBSet[K] {
	return NewRBSet[K](infra.AscKeyComparator[K]().Less(), opts...)
}

func (s *RBSet[T]) Len() int64 {
	return s.size
}

func (s *RBSet[T]) IsEmpty() bool {
	return s.size == 0
}

func (s *RBSet[T]) newNode() (*RBNode[T], error) {
	node, err := s.alloc.Allocate()
	if err != nil {
		return nil, infra.WrapErrorStackWithMessage(err, "[rbtree] allocate node")
	}
	if node == nil {
		return nil, infra.WrapErrorStack(ErrRBTreeAllocNilNode)
	}
	return node, nil
}

func (s *RBSet[T]) destroyNode(node *RBNode[T]) {
	node.reset()
	s.alloc.Deallocate(node)
}

// destroySubtree releases every node below x without recursion.
func (s *RBSet[T]) destroySubtree(x *RBNode[T]) int64 {
	if x == nil || s.isNil(x) {
		return 0
	}
	released := int64(0)
	stack := make([]*RBNode[T], 0, 64)
	stack = append(stack, x)
	for l := len(stack); l > 0; l = len(stack) {
		node := stack[l-1]
		stack = stack[:l-1]
		if !s.isNil(node.left) {
			stack = append(stack, node.left)
		}
		if !s.isNil(node.right) {
			stack = append(stack, node.right)
		}
		s.destroyNode(node)
		released++
	}
	return released
}

// Insert adds val when no equal element exists. On a duplicate it returns
// the position of the existing element and false; no node is allocated.
func (s *RBSet[T]) Insert(val T) (Iterator[T], bool, error) {
	parent, dir, found := s.locate(val)
	if found != nil {
		return s.iterator(found), false, nil
	}
	z, err := s.newNode()
	if err != nil {
		s.logger.Warn("[rbtree] insert failed", zap.Int64("size", s.size), zap.Error(err))
		return s.End(), false, err
	}
	z.val = val
	s.attach(z, parent, dir)
	return s.iterator(z), true, nil
}

// Emplace allocates a node, builds the payload inside it and then links
// it. A build failure releases the node and leaves the set untouched. A
// duplicate payload releases the redundant node and returns the existing
// position.
func (s *RBSet[T]) Emplace(build func() (T, error)) (Iterator[T], bool, error) {
	z, err := s.newNode()
	if err != nil {
		s.logger.Warn("[rbtree] emplace failed", zap.Int64("size", s.size), zap.Error(err))
		return s.End(), false, err
	}
	val, err := build()
	if err != nil {
		s.destroyNode(z)
		s.logger.Warn("[rbtree] emplace payload construction failed", zap.Error(err))
		return s.End(), false, infra.WrapErrorStackWithMessage(err, "[rbtree] construct payload")
	}
	z.val = val

	parent, dir, found := s.locate(val)
	if found != nil {
		s.destroyNode(z)
		return s.iterator(found), false, nil
	}
	s.attach(z, parent, dir)
	return s.iterator(z), true, nil
}

// Erase removes the element at pos and returns its successor. pos must
// reference a live element of this set.
func (s *RBSet[T]) Erase(pos Iterator[T]) Iterator[T] {
	if pos.set != s || !s.owns(pos.node) {
		// impossible run to here
		panic( /* debug assertion */ "[rbtree] erase an invalid position")
	}
	z := pos.node
	next := s.successor(z)
	s.deleteNode(z)
	s.destroyNode(z)
	return s.iterator(next)
}

// EraseKey removes the element equal to val. Returns the number of
// removed elements, 0 or 1.
func (s *RBSet[T]) EraseKey(val T) int64 {
	it := s.Find(val)
	if it.IsEnd() {
		return 0
	}
	s.Erase(it)
	return 1
}

// EraseRange removes [first, last) and returns last.
func (s *RBSet[T]) EraseRange(first, last Iterator[T]) Iterator[T] {
	if first.set != s || last.set != s {
		// impossible run to here
		panic( /* debug assertion */ "[rbtree] erase a foreign range")
	}
	if first.Equal(s.Begin()) && last.IsEnd() {
		s.Clear()
		return s.End()
	}
	for !first.Equal(last) {
		first = s.Erase(first)
	}
	return first
}

func (s *RBSet[T]) Find(val T) Iterator[T] {
	if _, _, found := s.locate(val); found != nil {
		return s.iterator(found)
	}
	return s.End()
}

func (s *RBSet[T]) Contains(val T) bool {
	_, _, found := s.locate(val)
	return found != nil
}

func (s *RBSet[T]) Count(val T) int64 {
	if s.Contains(val) {
		return 1
	}
	return 0
}

// LowerBound returns the first element not less than val.
func (s *RBSet[T]) LowerBound(val T) Iterator[T] {
	res := s.sentinel
	for x := s.root; !s.isNil(x); {
		if !s.less(x.val, val) {
			res = x // last left turn
			x = x.left
		} else {
			x = x.right
		}
	}
	return s.iterator(res)
}

// UpperBound returns the first element greater than val.
func (s *RBSet[T]) UpperBound(val T) Iterator[T] {
	res := s.sentinel
	for x := s.root; !s.isNil(x); {
		if s.less(val, x.val) {
			res = x
			x = x.left
		} else {
			x = x.right
		}
	}
	return s.iterator(res)
}

// EqualRange returns [LowerBound(val), UpperBound(val)). The range holds
// at most one element.
func (s *RBSet[T]) EqualRange(val T) (Iterator[T], Iterator[T]) {
	lb := s.LowerBound(val)
	if !lb.IsEnd() && !s.less(val, lb.node.val) {
		return lb, lb.Next()
	}
	return lb, lb
}

func (s *RBSet[T]) Min() (T, bool) {
	if s.isNil(s.root) {
		return *new(T), false
	}
	return s.minimum(s.root).val, true
}

func (s *RBSet[T]) Max() (T, bool) {
	if s.isNil(s.root) {
		return *new(T), false
	}
	return s.maximum(s.root).val, true
}

func (s *RBSet[T]) ToSlice() []T {
	res := make([]T, 0, s.size)
	for v := range s.All() {
		res = append(res, v)
	}
	return res
}

// Clear releases every node to the allocator.
func (s *RBSet[T]) Clear() {
	released := s.destroySubtree(s.root)
	s.root = s.sentinel
	s.size = 0
	s.reinstateSentinel()
	if released > 0 {
		s.logger.Debug("[rbtree] cleared", zap.Int64("released", released))
	}
}
