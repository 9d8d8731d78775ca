package tree

import (
	"context"
	"testing"

	"github.com/samber/lo"
	"github.com/stretchr/testify/require"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
)

func TestHeapAllocator(t *testing.T) {
	alloc := NewHeapAllocator[int]()
	node, err := alloc.Allocate()
	require.NoError(t, err)
	require.NotNil(t, node)
	alloc.Deallocate(node)

	require.True(t, sameAllocator[int](alloc, NewHeapAllocator[int]()))
	require.False(t, sameAllocator[int](alloc, NewArenaAllocator[int](1, 0)))
}

func TestArenaAllocator(t *testing.T) {
	arena := NewArenaAllocator[string](4, 2)
	nodes := make([]*RBNode[string], 0, 8)
	for i := 0; i < 8; i++ {
		node, err := arena.Allocate()
		require.NoError(t, err)
		node.val = "x"
		nodes = append(nodes, node)
	}
	require.Equal(t, 2, arena.Chunks())
	require.Equal(t, int64(8), arena.Live())

	_, err := arena.Allocate()
	require.ErrorIs(t, err, ErrRBTreeArenaExhausted)
	require.Equal(t, int64(8), arena.Live())

	arena.Deallocate(nodes[3])
	arena.Deallocate(nodes[5])
	arena.Deallocate(nil)
	require.Equal(t, 2, arena.Recycled())
	require.Equal(t, int64(6), arena.Live())
	require.Equal(t, "", nodes[3].val)

	// last released first
	node, err := arena.Allocate()
	require.NoError(t, err)
	require.Same(t, nodes[5], node)
	node, err = arena.Allocate()
	require.NoError(t, err)
	require.Same(t, nodes[3], node)
	require.Equal(t, 2, arena.Chunks())

	_, err = arena.Allocate()
	require.ErrorIs(t, err, ErrRBTreeArenaExhausted)
}

func TestArenaAllocator_Defaults(t *testing.T) {
	arena := NewArenaAllocator[int](0, -1)
	for i := 0; i < 65; i++ {
		_, err := arena.Allocate()
		require.NoError(t, err)
	}
	require.Equal(t, 2, arena.Chunks())
}

func TestArenaAllocator_SetLifecycle(t *testing.T) {
	arena := NewArenaAllocator[int](32, 0)
	s := NewOrderedRBSet[int](WithRBSetAllocator[int](arena))
	keys := lo.Shuffle(lo.Range(1000))
	for _, key := range keys {
		_, _, err := s.Insert(key)
		require.NoError(t, err)
	}
	require.Equal(t, int64(1000), arena.Live())
	chunks := arena.Chunks()

	for _, key := range keys[:500] {
		require.Equal(t, int64(1), s.EraseKey(key))
	}
	require.Equal(t, int64(500), arena.Live())
	require.NoError(t, Validate(s))

	for _, key := range keys[:500] {
		_, _, err := s.Insert(key)
		require.NoError(t, err)
	}
	require.Equal(t, chunks, arena.Chunks())
	require.Equal(t, lo.Range(1000), s.ToSlice())

	s.Clear()
	require.Equal(t, int64(0), arena.Live())
}

func TestArenaAllocator_ExhaustedSetIsIntact(t *testing.T) {
	arena := NewArenaAllocator[int](2, 2)
	s := NewOrderedRBSet[int](WithRBSetAllocator[int](arena))
	for key := 0; key < 4; key++ {
		_, _, err := s.Insert(key)
		require.NoError(t, err)
	}
	_, ok, err := s.Insert(4)
	require.ErrorIs(t, err, ErrRBTreeArenaExhausted)
	require.False(t, ok)
	require.Equal(t, []int{0, 1, 2, 3}, s.ToSlice())
	require.NoError(t, Validate(s))

	// duplicates never allocate
	_, ok, err = s.Insert(2)
	require.NoError(t, err)
	require.False(t, ok)
}

func collectSums(t *testing.T, reader sdkmetric.Reader) map[string]int64 {
	t.Helper()
	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))
	res := make(map[string]int64)
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			sum, ok := m.Data.(metricdata.Sum[int64])
			require.True(t, ok, m.Name)
			for _, dp := range sum.DataPoints {
				res[m.Name] += dp.Value
			}
		}
	}
	return res
}

func TestMeteredAllocator(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	defer func() {
		require.NoError(t, provider.Shutdown(context.Background()))
	}()

	alloc := NewMeteredAllocator[int](NewArenaAllocator[int](4, 1), provider.Meter("rbtree-test"))
	s := NewOrderedRBSet[int](WithRBSetAllocator[int](alloc))
	for key := 0; key < 5; key++ {
		_, _, err := s.Insert(key)
		if key < 4 {
			require.NoError(t, err)
		} else {
			require.ErrorIs(t, err, ErrRBTreeArenaExhausted)
		}
	}
	require.Equal(t, int64(1), s.EraseKey(0))

	sums := collectSums(t, reader)
	require.Equal(t, int64(4), sums["rbtree.node.allocations"])
	require.Equal(t, int64(1), sums["rbtree.node.deallocations"])
	require.Equal(t, int64(1), sums["rbtree.node.alloc_failures"])
	require.Equal(t, int64(3), sums["rbtree.node.live"])

	s.Clear()
	sums = collectSums(t, reader)
	require.Equal(t, int64(4), sums["rbtree.node.deallocations"])
	require.Equal(t, int64(0), sums["rbtree.node.live"])
}

func TestMeteredAllocator_GlobalMeter(t *testing.T) {
	alloc := NewMeteredAllocator[int](nil, nil)
	s := NewOrderedRBSet[int](WithRBSetAllocator[int](alloc))
	_, ok, err := s.Insert(1)
	require.NoError(t, err)
	require.True(t, ok)

	// a metered allocator is one allocator, whatever it decorates
	other := NewOrderedRBSet[int](WithRBSetAllocator[int](alloc))
	require.NoError(t, other.MoveFrom(s))
	require.Equal(t, []int{1}, other.ToSlice())
}
