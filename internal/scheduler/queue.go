// Package scheduler is the Prefetch Scheduler: after a successful player
// move, it enqueues background ENRICHMENT work for likely-next content
// (ungenerated neighbor rooms, NPC-rich rooms within two steps), subject to
// a per-move budget, and drains that queue through a bounded worker pool
// without ever preempting foreground requests.
package scheduler

import (
	"container/heap"
	"time"

	"github.com/aiwuxian/tile-crawler/internal/llm"
	"github.com/aiwuxian/tile-crawler/internal/models"
)

// Task is one unit of background work: generate/enrich the room at
// Coordinate. Priority follows the Request Router's table (internal/router
// .Configs) — ENRICHMENT sits at priority 4, below every foreground kind —
// so a Scheduler sharing a Router naturally lets player-visible requests
// starve prefetches under load rather than the reverse.
type Task struct {
	Kind       llm.RequestKind
	Coordinate models.Coordinate
	Priority   int
	EnqueuedAt time.Time
}

// taskHeap is a container/heap min-heap ordered by (Priority, EnqueuedAt):
// lower priority number dispatches first; ties broken FIFO so prefetches
// enqueued by an earlier move aren't starved by a later one.
type taskHeap []Task

func (h taskHeap) Len() int { return len(h) }
func (h taskHeap) Less(i, j int) bool {
	if h[i].Priority != h[j].Priority {
		return h[i].Priority < h[j].Priority
	}
	return h[i].EnqueuedAt.Before(h[j].EnqueuedAt)
}
func (h taskHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }

func (h *taskHeap) Push(x interface{}) {
	*h = append(*h, x.(Task))
}

func (h *taskHeap) Pop() interface{} {
	old := *h
	n := len(old)
	item := old[n-1]
	*h = old[:n-1]
	return item
}

var _ heap.Interface = (*taskHeap)(nil)
