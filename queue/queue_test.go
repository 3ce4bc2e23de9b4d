package queue

import (
	"container/heap"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPriorityQueueAscending(t *testing.T) {
	pq := &PriorityQueue{}
	for i, d := range []float32{3, 1, 2, 1} {
		heap.Push(pq, &Item{Snapshot: i, Difference: d})
	}

	var got []int
	for pq.Len() > 0 {
		got = append(got, heap.Pop(pq).(*Item).Snapshot)
	}
	assert.Equal(t, []int{1, 3, 2, 0}, got)
	assert.Nil(t, pq.Pop())
}

func TestPriorityQueueDescending(t *testing.T) {
	pq := &PriorityQueue{Descending: true}
	for i, d := range []float32{3, 1, 5} {
		heap.Push(pq, &Item{Snapshot: i, Difference: d})
	}
	assert.Equal(t, 2, pq.Top().Snapshot)
}

func TestBest(t *testing.T) {
	b := NewBest(2)
	diffs := []float32{4, 2, 9, 2, 1}
	for i, d := range diffs {
		b.Offer(Item{Snapshot: i, Rotation: i * 10, Difference: d})
	}

	got := b.Sorted()
	require.Len(t, got, 2)
	assert.Equal(t, 4, got[0].Snapshot)
	assert.Equal(t, 1, got[1].Snapshot)
	assert.Equal(t, 10, got[1].Rotation)
}

func TestBestFewerThanN(t *testing.T) {
	b := NewBest(5)
	b.Offer(Item{Snapshot: 0, Difference: 2})
	b.Offer(Item{Snapshot: 1, Difference: 1})

	got := b.Sorted()
	require.Len(t, got, 2)
	assert.Equal(t, 1, got[0].Snapshot)

	assert.Empty(t, NewBest(0).Sorted())
}
