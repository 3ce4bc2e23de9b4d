// Package queue provides a priority queue of snapshot matches.
package queue

import "container/heap"

// Compile time check to ensure PriorityQueue satisfies the heap interface.
var _ heap.Interface = (*PriorityQueue)(nil)

// Item is one snapshot's best match.
type Item struct {
	Snapshot   int     // Snapshot is the index of the matched snapshot.
	Rotation   int     // Rotation is the rotation index of the best match.
	Difference float32 // Difference is the priority of the item in the queue.
	Index      int     // Index is maintained by the heap.Interface methods.
}

// worse reports whether a ranks below b: larger difference, or on a tie,
// the later snapshot.
func worse(a, b *Item) bool {
	if a.Difference != b.Difference {
		return a.Difference > b.Difference
	}
	return a.Snapshot > b.Snapshot
}

// PriorityQueue implements heap.Interface and holds Items.
type PriorityQueue struct {
	Descending bool    // Descending puts the worst item on top instead of the best.
	Items      []*Item // Items contains the elements of the priority queue.
}

// Len returns the number of elements in the priority queue.
func (pq *PriorityQueue) Len() int { return len(pq.Items) }

// Less reports whether the element with index i should sort before the element with index j.
func (pq *PriorityQueue) Less(i, j int) bool {
	if pq.Descending {
		return worse(pq.Items[i], pq.Items[j])
	}
	return worse(pq.Items[j], pq.Items[i])
}

// Swap swaps the elements with indexes i and j.
func (pq *PriorityQueue) Swap(i, j int) {
	pq.Items[i], pq.Items[j] = pq.Items[j], pq.Items[i]
	pq.Items[i].Index, pq.Items[j].Index = i, j
}

// Push adds x to the priority queue.
func (pq *PriorityQueue) Push(x any) {
	item, _ := x.(*Item)
	item.Index = len(pq.Items)
	pq.Items = append(pq.Items, item)
}

// Pop removes and returns the top element from the priority queue.
func (pq *PriorityQueue) Pop() any {
	if len(pq.Items) == 0 {
		return nil
	}

	old := pq.Items
	n := len(old)
	item := old[n-1]
	old[n-1] = nil  // Avoid memory leak
	item.Index = -1 // For safety
	pq.Items = old[:n-1]

	return item
}

// Top returns the top element of the priority queue.
func (pq *PriorityQueue) Top() *Item {
	return pq.Items[0]
}

// Best keeps the n items with the smallest differences seen so far.
type Best struct {
	n  int
	pq PriorityQueue
}

// NewBest returns a collector for the n best items.
func NewBest(n int) *Best {
	return &Best{
		n:  n,
		pq: PriorityQueue{Descending: true, Items: make([]*Item, 0, n)},
	}
}

// Offer adds item if it ranks among the n best.
func (b *Best) Offer(item Item) {
	if b.n <= 0 {
		return
	}
	if b.pq.Len() < b.n {
		heap.Push(&b.pq, &item)
		return
	}
	if worse(b.pq.Top(), &item) {
		top := b.pq.Top()
		*top = item
		top.Index = 0
		heap.Fix(&b.pq, 0)
	}
}

// Sorted drains the collector and returns its items best first.
func (b *Best) Sorted() []Item {
	out := make([]Item, b.pq.Len())
	for i := len(out) - 1; i >= 0; i-- {
		out[i] = *heap.Pop(&b.pq).(*Item)
	}
	return out
}
