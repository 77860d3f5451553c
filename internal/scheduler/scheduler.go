package scheduler

import (
	"container/heap"
	"context"
	"sync"
	"time"

	"github.com/aiwuxian/tile-crawler/internal/corelog"
	"github.com/aiwuxian/tile-crawler/internal/llm"
	"github.com/aiwuxian/tile-crawler/internal/models"
	"golang.org/x/sync/errgroup"
)

// MaxPrefetchPerMove bounds how many ENRICHMENT tasks a single move
// triggers.
const MaxPrefetchPerMove = 4

// Handler performs one Task's background generation. Errors are logged,
// never propagated to the caller — a failed prefetch just means that room
// generates lazily on the player's next visit instead, the same fallback
// the World State Store already provides.
type Handler func(ctx context.Context, task Task) error

// Scheduler is a priority queue of prefetch Tasks drained by a bounded pool
// of workers. One Scheduler is shared across a session's background work.
type Scheduler struct {
	mu      sync.Mutex
	cond    *sync.Cond
	queue   taskHeap
	pending map[models.Coordinate]bool // dedup: a coordinate already queued is not queued twice
	closed  bool
}

func New() *Scheduler {
	s := &Scheduler{pending: make(map[models.Coordinate]bool)}
	s.cond = sync.NewCond(&s.mu)
	heap.Init(&s.queue)
	return s
}

// Enqueue adds task to the queue unless its coordinate is already pending,
// per the dedup rule above. Threadsafe.
func (s *Scheduler) Enqueue(task Task) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed || s.pending[task.Coordinate] {
		return
	}
	if task.EnqueuedAt.IsZero() {
		task.EnqueuedAt = time.Now()
	}
	s.pending[task.Coordinate] = true
	heap.Push(&s.queue, task)
	s.cond.Signal()
}

// pop blocks until a task is available or the scheduler is closed.
func (s *Scheduler) pop() (Task, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for s.queue.Len() == 0 && !s.closed {
		s.cond.Wait()
	}
	if s.queue.Len() == 0 {
		return Task{}, false
	}
	task := heap.Pop(&s.queue).(Task)
	delete(s.pending, task.Coordinate)
	return task, true
}

// Close stops Run's dispatch loop once the queue drains; no further
// Enqueue calls are accepted.
func (s *Scheduler) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	s.cond.Broadcast()
}

// Run drains the queue through up to concurrency workers concurrently,
// using golang.org/x/sync/errgroup's SetLimit for the bounded fan-out as a
// long-lived pull loop rather than a single fan-out-and-wait. Run blocks
// until ctx is cancelled or Close is called and the queue drains; callers
// typically run it in its own goroutine for the lifetime of a session.
func (s *Scheduler) Run(ctx context.Context, concurrency int, handle Handler) error {
	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(concurrency)

	for {
		task, ok := s.popOrDone(egCtx)
		if !ok {
			break
		}
		eg.Go(func() error {
			if err := handle(egCtx, task); err != nil {
				corelog.Logger().Warn("prefetch task failed", "kind", task.Kind, "coordinate", task.Coordinate, "error", err)
			}
			return nil
		})
	}

	return eg.Wait()
}

// popOrDone blocks on pop() in a child goroutine so ctx cancellation can
// still interrupt the wait (sync.Cond has no native context support).
func (s *Scheduler) popOrDone(ctx context.Context) (Task, bool) {
	type result struct {
		task Task
		ok   bool
	}
	done := make(chan result, 1)
	go func() {
		task, ok := s.pop()
		done <- result{task, ok}
	}()

	select {
	case r := <-done:
		return r.task, r.ok
	case <-ctx.Done():
		s.Close()
		return Task{}, false
	}
}

// Len reports the current queue depth, for tests and metrics.
func (s *Scheduler) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.queue.Len()
}

// PlanAfterMove builds ENRICHMENT tasks for each ungenerated neighbor of the
// current room plus each NPC-rich room within two steps, truncated to
// MaxPrefetchPerMove with the drop count logged rather than silently
// discarded.
func PlanAfterMove(ungeneratedNeighbors, npcRichWithinTwoSteps []models.Coordinate) []Task {
	candidates := append([]models.Coordinate{}, ungeneratedNeighbors...)
	candidates = append(candidates, npcRichWithinTwoSteps...)

	if len(candidates) > MaxPrefetchPerMove {
		corelog.Logger().Warn("prefetch candidates exceeded per-move budget, truncating",
			"candidates", len(candidates), "budget", MaxPrefetchPerMove,
			"dropped", len(candidates)-MaxPrefetchPerMove)
		candidates = candidates[:MaxPrefetchPerMove]
	}

	priority := 4 // ENRICHMENT priority, per internal/router.Configs
	tasks := make([]Task, len(candidates))
	for i, c := range candidates {
		tasks[i] = Task{Kind: llm.KindEnrichment, Coordinate: c, Priority: priority}
	}
	return tasks
}
