package tree

import (
	"errors"
	"testing"

	"github.com/samber/lo"
	"github.com/stretchr/testify/require"
)

func TestRBSetClone_Independent(t *testing.T) {
	src := newTestSet(t, 4, 2, 6, 1, 3, 5, 7)
	dst, err := src.Clone()
	require.NoError(t, err)
	require.NoError(t, Validate(dst))
	require.Equal(t, src.ToSlice(), dst.ToSlice())

	// same shape and colors
	srcColors, dstColors := make([]RBColor, 0, 7), make([]RBColor, 0, 7)
	src.Foreach(func(_ int64, color RBColor, _ int) bool {
		srcColors = append(srcColors, color)
		return true
	})
	dst.Foreach(func(_ int64, color RBColor, _ int) bool {
		dstColors = append(dstColors, color)
		return true
	})
	require.Equal(t, srcColors, dstColors)
	require.Equal(t, src.root.val, dst.root.val)

	_, _, err = dst.Insert(8)
	require.NoError(t, err)
	require.Equal(t, int64(1), dst.EraseKey(1))
	require.Equal(t, []int{1, 2, 3, 4, 5, 6, 7}, src.ToSlice())
	require.Equal(t, []int{2, 3, 4, 5, 6, 7, 8}, dst.ToSlice())
	require.NoError(t, Validate(src))
	require.NoError(t, Validate(dst))

	empty, err := NewOrderedRBSet[int]().Clone()
	require.NoError(t, err)
	require.True(t, empty.IsEmpty())
	require.NoError(t, Validate(empty))
}

func TestRBSetClone_AllocationFailureRollback(t *testing.T) {
	src := newTestSet(t, 1, 2, 3, 4, 5)
	alloc := &countingAllocator[int]{failAt: 4}
	dst, err := src.Clone(WithRBSetAllocator[int](alloc))
	require.ErrorIs(t, err, errTestAllocFailed)
	require.Nil(t, dst)
	require.Equal(t, int64(3), alloc.allocated)
	require.Equal(t, int64(3), alloc.released)
	require.Equal(t, int64(0), alloc.live())
	require.Equal(t, []int{1, 2, 3, 4, 5}, src.ToSlice())
	require.NoError(t, Validate(src))
}

func TestRBSetClone_EveryAllocationFailure(t *testing.T) {
	src := newTestSet(t, lo.Range(33)...)
	for failAt := int64(1); failAt <= 33; failAt++ {
		alloc := &countingAllocator[int]{failAt: failAt}
		_, err := src.Clone(WithRBSetAllocator[int](alloc))
		require.ErrorIs(t, err, errTestAllocFailed)
		require.Equal(t, failAt-1, alloc.allocated)
		require.Equal(t, int64(0), alloc.live())
	}
	alloc := &countingAllocator[int]{failAt: 34}
	dst, err := src.Clone(WithRBSetAllocator[int](alloc))
	require.NoError(t, err)
	require.Equal(t, int64(33), alloc.live())
	require.NoError(t, Validate(dst))
}

type payload struct {
	id   int
	data []byte
}

func TestRBSetClone_Cloner(t *testing.T) {
	less := func(i, j payload) bool { return i.id < j.id }
	deepCopy := func(p payload) (payload, error) {
		return payload{id: p.id, data: append([]byte(nil), p.data...)}, nil
	}
	src := NewRBSet[payload](less, WithRBSetCloner[payload](deepCopy))
	for i := 0; i < 10; i++ {
		_, _, err := src.Insert(payload{id: i, data: []byte{byte(i)}})
		require.NoError(t, err)
	}

	dst, err := src.Clone()
	require.NoError(t, err)
	dst.Find(payload{id: 3}).node.val.data[0] = 0xff
	require.Equal(t, byte(3), src.Find(payload{id: 3}).Value().data[0])

	// shallow copy shares the payload memory
	shallow, err := src.Clone(WithRBSetCloner[payload](nil))
	require.NoError(t, err)
	shallow.Find(payload{id: 3}).node.val.data[0] = 0xee
	require.Equal(t, byte(0xee), src.Find(payload{id: 3}).Value().data[0])

	errCopy := errors.New("copy failed")
	alloc := &countingAllocator[payload]{}
	copied := 0
	_, err = src.Clone(
		WithRBSetAllocator[payload](alloc),
		WithRBSetCloner[payload](func(p payload) (payload, error) {
			if copied == 6 {
				return payload{}, errCopy
			}
			copied++
			return p, nil
		}),
	)
	require.ErrorIs(t, err, errCopy)
	require.Contains(t, err.Error(), "[rbtree] clone payload")
	require.Equal(t, int64(7), alloc.allocated)
	require.Equal(t, int64(0), alloc.live())
	require.Equal(t, int64(10), src.Len())
}

func TestRBSetCopyFrom(t *testing.T) {
	src := newTestSet(t, 1, 2, 3)
	alloc := &countingAllocator[int]{}
	dst := NewOrderedRBSet[int](WithRBSetAllocator[int](alloc))
	for _, key := range []int{10, 20} {
		_, _, err := dst.Insert(key)
		require.NoError(t, err)
	}

	require.NoError(t, dst.CopyFrom(src))
	require.Equal(t, []int{1, 2, 3}, dst.ToSlice())
	require.Equal(t, []int{1, 2, 3}, src.ToSlice())
	require.Equal(t, int64(3), alloc.live())
	require.NoError(t, Validate(dst))

	// ordering follows the source
	desc := NewOrderedRBSet[int](WithRBSetDesc[int]())
	for _, key := range []int{1, 2, 3} {
		_, _, err := desc.Insert(key)
		require.NoError(t, err)
	}
	require.NoError(t, dst.CopyFrom(desc))
	require.Equal(t, []int{3, 2, 1}, dst.ToSlice())
	_, _, err := dst.Insert(4)
	require.NoError(t, err)
	require.Equal(t, []int{4, 3, 2, 1}, dst.ToSlice())
	require.NoError(t, Validate(dst))

	require.NoError(t, dst.CopyFrom(dst))
	require.NoError(t, dst.CopyFrom(nil))
	require.Equal(t, int64(4), dst.Len())
}

func TestRBSetCopyFrom_StrongGuarantee(t *testing.T) {
	src := newTestSet(t, lo.Range(8)...)
	alloc := &countingAllocator[int]{}
	dst := NewOrderedRBSet[int](WithRBSetAllocator[int](alloc))
	for _, key := range []int{100, 200} {
		_, _, err := dst.Insert(key)
		require.NoError(t, err)
	}
	alloc.failAt = alloc.attempts + 5

	require.ErrorIs(t, dst.CopyFrom(src), errTestAllocFailed)
	require.Equal(t, []int{100, 200}, dst.ToSlice())
	require.Equal(t, int64(2), alloc.live())
	require.NoError(t, Validate(dst))
	require.Equal(t, lo.Range(8), src.ToSlice())
}

func TestRBSetMoveFrom_SameAllocator(t *testing.T) {
	src := newTestSet(t, 1, 2, 3, 4)
	dst := newTestSet(t, 9)
	srcRoot := src.root

	require.NoError(t, dst.MoveFrom(src))
	require.Equal(t, srcRoot, dst.root)
	require.Equal(t, []int{1, 2, 3, 4}, dst.ToSlice())
	require.True(t, src.IsEmpty())
	require.Empty(t, src.ToSlice())
	require.NoError(t, Validate(src))
	require.NoError(t, Validate(dst))

	// both stay usable
	_, _, err := src.Insert(5)
	require.NoError(t, err)
	_, _, err = dst.Insert(0)
	require.NoError(t, err)
	require.Equal(t, []int{5}, src.ToSlice())
	require.Equal(t, []int{0, 1, 2, 3, 4}, dst.ToSlice())
	require.NoError(t, Validate(src))
	require.NoError(t, Validate(dst))

	arena := NewArenaAllocator[int](8, 0)
	a := NewOrderedRBSet[int](WithRBSetAllocator[int](arena))
	b := NewOrderedRBSet[int](WithRBSetAllocator[int](arena))
	for _, key := range lo.Range(10) {
		_, _, err := a.Insert(key)
		require.NoError(t, err)
	}
	require.NoError(t, b.MoveFrom(a))
	require.Equal(t, int64(10), arena.Live())
	require.Equal(t, lo.Range(10), b.ToSlice())
}

func TestRBSetMoveFrom_DifferentAllocator(t *testing.T) {
	srcAlloc := NewArenaAllocator[int](4, 0)
	src := NewOrderedRBSet[int](WithRBSetAllocator[int](srcAlloc))
	for _, key := range lo.Range(10) {
		_, _, err := src.Insert(key)
		require.NoError(t, err)
	}
	dstAlloc := &countingAllocator[int]{}
	dst := NewOrderedRBSet[int](WithRBSetAllocator[int](dstAlloc))
	_, _, err := dst.Insert(42)
	require.NoError(t, err)

	require.NoError(t, dst.MoveFrom(src))
	require.Equal(t, lo.Range(10), dst.ToSlice())
	require.True(t, src.IsEmpty())
	require.Equal(t, int64(0), srcAlloc.Live())
	require.Equal(t, int64(10), dstAlloc.live())
	require.NoError(t, Validate(dst))
	require.NoError(t, Validate(src))
}

func TestRBSetMoveFrom_FailureLeavesBothUntouched(t *testing.T) {
	src := newTestSet(t, lo.Range(10)...)
	// room for 8 nodes only
	arena := NewArenaAllocator[int](4, 2)
	dst := NewOrderedRBSet[int](WithRBSetAllocator[int](arena))
	_, _, err := dst.Insert(42)
	require.NoError(t, err)

	err = dst.MoveFrom(src)
	require.ErrorIs(t, err, ErrRBTreeArenaExhausted)
	require.Equal(t, []int{42}, dst.ToSlice())
	require.Equal(t, lo.Range(10), src.ToSlice())
	require.Equal(t, int64(1), arena.Live())
	require.NoError(t, Validate(dst))
	require.NoError(t, Validate(src))
}

func TestRBSetSwap(t *testing.T) {
	a := newTestSet(t, 1, 2, 3)
	b := NewOrderedRBSet[int](WithRBSetDesc[int]())
	for _, key := range []int{7, 8} {
		_, _, err := b.Insert(key)
		require.NoError(t, err)
	}

	a.Swap(b)
	require.Equal(t, []int{8, 7}, a.ToSlice())
	require.Equal(t, []int{1, 2, 3}, b.ToSlice())
	_, _, err := a.Insert(9)
	require.NoError(t, err)
	require.Equal(t, []int{9, 8, 7}, a.ToSlice())
	require.NoError(t, Validate(a))
	require.NoError(t, Validate(b))

	a.Swap(a)
	a.Swap(nil)
	require.Equal(t, []int{9, 8, 7}, a.ToSlice())
}
