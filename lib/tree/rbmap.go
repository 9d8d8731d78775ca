package tree

import (
	"go.uber.org/zap"

	"github.com/benz9527/xcontainer/lib/infra"
)

var _ RBTree[uint8, uint8] = (*rbTree[uint8, uint8])(nil)

type rbEntry[K infra.OrderedKey, V any] struct {
	key K
	val V
}

func (e *rbEntry[K, V]) Key() K {
	return e.key
}

func (e *rbEntry[K, V]) Val() V {
	return e.val
}

// rbTree orders (key, val) entries by key on top of the set engine.
type rbTree[K infra.OrderedKey, V any] struct {
	set      *RBSet[rbEntry[K, V]]
	logger   *zap.Logger
	arenaCap int
	isDesc   bool
}

type RBTreeOpt[K infra.OrderedKey, V any] func(*rbTree[K, V])

func WithRBTreeDesc[K infra.OrderedKey, V any]() RBTreeOpt[K, V] {
	return func(tree *rbTree[K, V]) {
		tree.isDesc = true
	}
}

// WithRBTreeArena takes the nodes from an unbounded arena of
// capPerChunk nodes per chunk instead of the heap.
func WithRBTreeArena[K infra.OrderedKey, V any](capPerChunk int) RBTreeOpt[K, V] {
	return func(tree *rbTree[K, V]) {
		tree.arenaCap = capPerChunk
	}
}

func WithRBTreeLogger[K infra.OrderedKey, V any](logger *zap.Logger) RBTreeOpt[K, V] {
	return func(tree *rbTree[K, V]) {
		tree.logger = logger
	}
}

func NewRBTree[K infra.OrderedKey, V any](opts ...RBTreeOpt[K, V]) RBTree[K, V] {
	tree := &rbTree[K, V]{}
	for _, o := range opts {
		o(tree)
	}

	keyCmp := infra.AscKeyComparator[K]()
	if tree.isDesc {
		keyCmp = infra.DescKeyComparator[K]()
	}
	setOpts := make([]RBSetOpt[rbEntry[K, V]], 0, 2)
	if tree.arenaCap > 0 {
		setOpts = append(setOpts, WithRBSetAllocator[rbEntry[K, V]](
			NewArenaAllocator[rbEntry[K, V]](tree.arenaCap, 0),
		))
	}
	if tree.logger != nil {
		setOpts = append(setOpts, WithRBSetLogger[rbEntry[K, V]](tree.logger))
	}
	tree.set = NewRBSet[rbEntry[K, V]](func(i, j rbEntry[K, V]) bool {
		return keyCmp(i.key, j.key) < 0
	}, setOpts...)
	return tree
}

func (tree *rbTree[K, V]) Len() int64 {
	return tree.set.Len()
}

// Insert adds the entry or replaces the value of an existing key. With
// ifNotPresent set, replacing is rejected by ErrRBTreeReplaceDisabled.
func (tree *rbTree[K, V]) Insert(key K, val V, ifNotPresent ...bool) error {
	it, inserted, err := tree.set.Insert(rbEntry[K, V]{key: key, val: val})
	if err != nil || inserted {
		return err
	}
	if /* disabled */ len(ifNotPresent) > 0 && ifNotPresent[0] {
		return ErrRBTreeReplaceDisabled
	}
	it.node.val.val = val
	return nil
}

func (tree *rbTree[K, V]) Load(key K) (V, bool) {
	it := tree.set.Find(rbEntry[K, V]{key: key})
	if it.IsEnd() {
		return *new(V), false
	}
	return it.node.val.val, true
}

func (tree *rbTree[K, V]) Remove(key K) (RBEntry[K, V], error) {
	if tree.set.IsEmpty() {
		return nil, ErrRBTreeEmpty
	}
	it := tree.set.Find(rbEntry[K, V]{key: key})
	if it.IsEnd() {
		return nil, ErrRBTreeKeyNotFound
	}
	res := it.node.val
	tree.set.Erase(it)
	return &res, nil
}

func (tree *rbTree[K, V]) RemoveMin() (RBEntry[K, V], error) {
	if tree.set.IsEmpty() {
		return nil, ErrRBTreeKeyNotFound
	}
	it := tree.set.Begin()
	res := it.node.val
	tree.set.Erase(it)
	return &res, nil
}

func (tree *rbTree[K, V]) Foreach(action func(idx int64, color RBColor, key K, val V) bool) {
	tree.set.Foreach(func(idx int64, color RBColor, e rbEntry[K, V]) bool {
		return action(idx, color, e.key, e.val)
	})
}

func (tree *rbTree[K, V]) Release() {
	tree.set.Clear()
}
