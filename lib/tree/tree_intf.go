package tree

import (
	"errors"
	"iter"

	"github.com/benz9527/xcontainer/lib/infra"
)

// go install golang.org/x/tools/cmd/stringer@latest

//go:generate stringer -type=RBColor
type RBColor uint8

const (
	Black RBColor = iota
	Red
)

//go:generate stringer -type=RBDirection
type RBDirection int8

const (
	Left RBDirection = -1 + iota
	Root
	Right
)

var (
	ErrRBTreeEmpty           = errors.New("[rbtree] empty element to remove")
	ErrRBTreeKeyNotFound     = errors.New("[rbtree] key not found")
	ErrRBTreeReplaceDisabled = errors.New("[rbtree] replace disabled")
	ErrRBTreeArenaExhausted  = errors.New("[rbtree] node arena exhausted")
	ErrRBTreeAllocNilNode    = errors.New("[rbtree] allocator returns nil node")
)

// NodeAllocator supplies node storage one node at a time.
// Deallocate must not fail. Allocator values are compared with == to
// decide whether two sets can exchange nodes, so implementations should
// be pointers or other comparable types.
type NodeAllocator[T any] interface {
	Allocate() (*RBNode[T], error)
	Deallocate(node *RBNode[T])
}

// OrderedSet is a unique-key ordered set. It is not thread safe.
type OrderedSet[T any] interface {
	Len() int64
	IsEmpty() bool
	Insert(val T) (Iterator[T], bool, error)
	Emplace(build func() (T, error)) (Iterator[T], bool, error)
	Erase(pos Iterator[T]) Iterator[T]
	EraseKey(val T) int64
	EraseRange(first, last Iterator[T]) Iterator[T]
	Find(val T) Iterator[T]
	Contains(val T) bool
	Count(val T) int64
	LowerBound(val T) Iterator[T]
	UpperBound(val T) Iterator[T]
	EqualRange(val T) (Iterator[T], Iterator[T])
	Begin() Iterator[T]
	End() Iterator[T]
	Min() (T, bool)
	Max() (T, bool)
	Foreach(action func(idx int64, color RBColor, val T) bool)
	All() iter.Seq[T]
	Backward() iter.Seq[T]
	Clear()
}

// SyncOrderedSet is the value oriented view of an ordered set shared
// between goroutines. Iterators never escape the lock.
type SyncOrderedSet[T any] interface {
	Len() int64
	Insert(val T) (bool, error)
	Remove(val T) bool
	Contains(val T) bool
	Min() (T, bool)
	Max() (T, bool)
	LowerBound(val T) (T, bool)
	UpperBound(val T) (T, bool)
	Foreach(action func(idx int64, val T) bool)
	Snapshot() []T
}

type RBEntry[K infra.OrderedKey, V any] interface {
	Key() K
	Val() V
}

// RBTree is the key/value view built on the set engine.
type RBTree[K infra.OrderedKey, V any] interface {
	Len() int64
	Insert(key K, val V, ifNotPresent ...bool) error
	Load(key K) (V, bool)
	Remove(key K) (RBEntry[K, V], error)
	RemoveMin() (RBEntry[K, V], error)
	Foreach(action func(idx int64, color RBColor, key K, val V) bool)
	Release()
}
