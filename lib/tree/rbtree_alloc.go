package tree

import (
	"context"

	"github.com/samber/lo"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
)

var (
	_ NodeAllocator[uint8] = HeapAllocator[uint8]{}
	_ NodeAllocator[uint8] = (*ArenaAllocator[uint8])(nil)
	_ NodeAllocator[uint8] = (*MeteredAllocator[uint8])(nil)
)

// HeapAllocator takes every node from the Go heap. All heap allocators of
// the same type compare equal, so sets using them exchange nodes freely.
type HeapAllocator[T any] struct{}

func NewHeapAllocator[T any]() HeapAllocator[T] {
	return HeapAllocator[T]{}
}

func (HeapAllocator[T]) Allocate() (*RBNode[T], error) {
	return new(RBNode[T]), nil
}

func (HeapAllocator[T]) Deallocate(*RBNode[T]) {}

// ArenaAllocator hands out nodes from fixed size chunks and reuses the
// released ones first. T's zero value is what a released node holds,
// so payload references do not outlive their node.
type ArenaAllocator[T any] struct {
	chunks      [][]RBNode[T]
	recycled    []*RBNode[T]
	offset      int // next free slot of the last chunk
	capPerChunk int
	maxChunks   int // 0 means unbounded
	live        int64
}

func NewArenaAllocator[T any](capPerChunk, maxChunks int) *ArenaAllocator[T] {
	if capPerChunk <= 0 {
		capPerChunk = 64
	}
	if maxChunks < 0 {
		maxChunks = 0
	}
	return &ArenaAllocator[T]{
		chunks:      make([][]RBNode[T], 0, 8),
		recycled:    make([]*RBNode[T], 0, capPerChunk),
		offset:      capPerChunk,
		capPerChunk: capPerChunk,
		maxChunks:   maxChunks,
	}
}

func (arena *ArenaAllocator[T]) Allocate() (*RBNode[T], error) {
	if rl := len(arena.recycled); rl > 0 {
		node := arena.recycled[rl-1]
		arena.recycled[rl-1] = nil
		arena.recycled = arena.recycled[:rl-1]
		arena.live++
		return node, nil
	}
	if arena.offset >= arena.capPerChunk {
		if arena.maxChunks > 0 && len(arena.chunks) >= arena.maxChunks {
			return nil, ErrRBTreeArenaExhausted
		}
		arena.chunks = append(arena.chunks, make([]RBNode[T], arena.capPerChunk))
		arena.offset = 0
	}
	node := &arena.chunks[len(arena.chunks)-1][arena.offset]
	arena.offset++
	arena.live++
	return node, nil
}

func (arena *ArenaAllocator[T]) Deallocate(node *RBNode[T]) {
	if node == nil {
		return
	}
	node.reset()
	arena.recycled = append(arena.recycled, node)
	arena.live--
}

// Live is the number of nodes handed out and not yet released.
func (arena *ArenaAllocator[T]) Live() int64 {
	return arena.live
}

func (arena *ArenaAllocator[T]) Chunks() int {
	return len(arena.chunks)
}

func (arena *ArenaAllocator[T]) Recycled() int {
	return len(arena.recycled)
}

// MeteredAllocator records the node lifecycle of the inner allocator.
type MeteredAllocator[T any] struct {
	inner       NodeAllocator[T]
	allocations metric.Int64Counter
	releases    metric.Int64Counter
	failures    metric.Int64Counter
	live        metric.Int64UpDownCounter
}

// NewMeteredAllocator decorates inner with OpenTelemetry instruments.
// A nil meter falls back to the global meter provider.
func NewMeteredAllocator[T any](inner NodeAllocator[T], meter metric.Meter) *MeteredAllocator[T] {
	if inner == nil {
		inner = NewHeapAllocator[T]()
	}
	if meter == nil {
		meter = otel.Meter("xcontainer/rbtree")
	}
	return &MeteredAllocator[T]{
		inner: inner,
		allocations: lo.Must[metric.Int64Counter](meter.Int64Counter(
			"rbtree.node.allocations",
			metric.WithDescription(`The rbtree nodes allocated.`),
		)),
		releases: lo.Must[metric.Int64Counter](meter.Int64Counter(
			"rbtree.node.deallocations",
			metric.WithDescription(`The rbtree nodes released.`),
		)),
		failures: lo.Must[metric.Int64Counter](meter.Int64Counter(
			"rbtree.node.alloc_failures",
			metric.WithDescription(`The rbtree node allocations failed.`),
		)),
		live: lo.Must[metric.Int64UpDownCounter](meter.Int64UpDownCounter(
			"rbtree.node.live",
			metric.WithDescription(`The rbtree nodes currently in use.`),
		)),
	}
}

func (m *MeteredAllocator[T]) Allocate() (*RBNode[T], error) {
	ctx := context.Background()
	node, err := m.inner.Allocate()
	if err != nil {
		m.failures.Add(ctx, 1)
		return nil, err
	}
	m.allocations.Add(ctx, 1)
	m.live.Add(ctx, 1)
	return node, nil
}

func (m *MeteredAllocator[T]) Deallocate(node *RBNode[T]) {
	ctx := context.Background()
	m.inner.Deallocate(node)
	m.releases.Add(ctx, 1)
	m.live.Add(ctx, -1)
}

// sameAllocator reports whether nodes of a may be released to b.
func sameAllocator[T any](a, b NodeAllocator[T]) (same bool) {
	defer func() {
		// Incomparable dynamic types panic on ==.
		if r := recover(); r != nil {
			same = false
		}
	}()
	return a == b
}
