package scheduler

import (
	"container/heap"

	"github.com/joshharrison/planloom/internal/graph"
)

// readyQueue is a min-heap of ready nodes under less.
type readyQueue []*graph.Node

func (q readyQueue) Len() int           { return len(q) }
func (q readyQueue) Less(i, j int) bool { return less(q[i], q[j]) }
func (q readyQueue) Swap(i, j int)      { q[i], q[j] = q[j], q[i] }

func (q *readyQueue) Push(x any) { *q = append(*q, x.(*graph.Node)) }

func (q *readyQueue) Pop() any {
	old := *q
	n := len(old)
	node := old[n-1]
	old[n-1] = nil
	*q = old[:n-1]
	return node
}

func (q *readyQueue) push(n *graph.Node) { heap.Push(q, n) }
func (q *readyQueue) pop() *graph.Node   { return heap.Pop(q).(*graph.Node) }

// less reports whether a should be scheduled before b. A missing due date
// sorts after every real date; a missing estimate counts as zero hours and
// larger estimates go first. Input order settles the rest.
func less(a, b *graph.Node) bool {
	ad, bd := a.Task.DueDate, b.Task.DueDate
	switch {
	case ad != nil && bd == nil:
		return true
	case ad == nil && bd != nil:
		return false
	case ad != nil && bd != nil && !ad.Equal(*bd):
		return ad.Before(*bd)
	}

	if ah, bh := effectiveHours(a), effectiveHours(b); ah != bh {
		return ah > bh
	}
	return a.Index < b.Index
}

func effectiveHours(n *graph.Node) float64 {
	if n.Task.EstimatedHours == nil {
		return 0
	}
	return *n.Task.EstimatedHours
}
