package tree

import "sync"

var _ SyncOrderedSet[uint8] = (*syncRBSet[uint8])(nil)

type syncRBSet[T any] struct {
	rwmu *sync.RWMutex
	impl *RBSet[T]
}

// NewSyncRBSet guards set by a read-write lock. The set must not be used
// directly afterwards.
func NewSyncRBSet[T any](set *RBSet[T]) SyncOrderedSet[T] {
	if set == nil {
		panic( /* debug assertion */ "[rbtree] nil set to guard")
	}
	return &syncRBSet[T]{
		rwmu: &sync.RWMutex{},
		impl: set,
	}
}

func (s *syncRBSet[T]) Len() int64 {
	s.rwmu.RLock()
	defer s.rwmu.RUnlock()
	return s.impl.Len()
}

func (s *syncRBSet[T]) Insert(val T) (bool, error) {
	s.rwmu.Lock()
	defer s.rwmu.Unlock()
	_, inserted, err := s.impl.Insert(val)
	return inserted, err
}

func (s *syncRBSet[T]) Remove(val T) bool {
	s.rwmu.Lock()
	defer s.rwmu.Unlock()
	return s.impl.EraseKey(val) > 0
}

func (s *syncRBSet[T]) Contains(val T) bool {
	s.rwmu.RLock()
	defer s.rwmu.RUnlock()
	return s.impl.Contains(val)
}

func (s *syncRBSet[T]) Min() (T, bool) {
	s.rwmu.RLock()
	defer s.rwmu.RUnlock()
	return s.impl.Min()
}

func (s *syncRBSet[T]) Max() (T, bool) {
	s.rwmu.RLock()
	defer s.rwmu.RUnlock()
	return s.impl.Max()
}

func (s *syncRBSet[T]) LowerBound(val T) (T, bool) {
	s.rwmu.RLock()
	defer s.rwmu.RUnlock()
	if it := s.impl.LowerBound(val); !it.IsEnd() {
		return it.node.val, true
	}
	return *new(T), false
}

func (s *syncRBSet[T]) UpperBound(val T) (T, bool) {
	s.rwmu.RLock()
	defer s.rwmu.RUnlock()
	if it := s.impl.UpperBound(val); !it.IsEnd() {
		return it.node.val, true
	}
	return *new(T), false
}

// Foreach holds the read lock during the whole walk; action must not
// call back into the set for writing.
func (s *syncRBSet[T]) Foreach(action func(idx int64, val T) bool) {
	s.rwmu.RLock()
	defer s.rwmu.RUnlock()
	s.impl.Foreach(func(idx int64, _ RBColor, val T) bool {
		return action(idx, val)
	})
}

func (s *syncRBSet[T]) Snapshot() []T {
	s.rwmu.RLock()
	defer s.rwmu.RUnlock()
	return s.impl.ToSlice()
}
