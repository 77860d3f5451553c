package scheduler

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/aiwuxian/tile-crawler/internal/llm"
	"github.com/aiwuxian/tile-crawler/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPlanAfterMoveBuildsEnrichmentTasks(t *testing.T) {
	neighbors := []models.Coordinate{{X: 1, Y: 0, Z: 0}, {X: 0, Y: 1, Z: 0}}
	tasks := PlanAfterMove(neighbors, nil)
	require.Len(t, tasks, 2)
	for _, task := range tasks {
		assert.Equal(t, llm.KindEnrichment, task.Kind)
		assert.Equal(t, 4, task.Priority)
	}
}

func TestPlanAfterMoveTruncatesToBudget(t *testing.T) {
	var neighbors []models.Coordinate
	for i := 0; i < 10; i++ {
		neighbors = append(neighbors, models.Coordinate{X: i, Y: 0, Z: 0})
	}
	tasks := PlanAfterMove(neighbors, nil)
	assert.Len(t, tasks, MaxPrefetchPerMove)
}

func TestEnqueueDedupsByCoordinate(t *testing.T) {
	s := New()
	c := models.Coordinate{X: 1, Y: 1, Z: 0}
	s.Enqueue(Task{Coordinate: c, Priority: 4})
	s.Enqueue(Task{Coordinate: c, Priority: 4})
	assert.Equal(t, 1, s.Len())
}

func TestRunDispatchesHigherPriorityFirst(t *testing.T) {
	s := New()
	s.Enqueue(Task{Coordinate: models.Coordinate{X: 2, Y: 0, Z: 0}, Priority: 4})
	s.Enqueue(Task{Coordinate: models.Coordinate{X: 1, Y: 0, Z: 0}, Priority: 1})

	var mu sync.Mutex
	var order []int
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan struct{})
	go func() {
		s.Run(ctx, 1, func(ctx context.Context, task Task) error {
			mu.Lock()
			order = append(order, task.Priority)
			mu.Unlock()
			if len(order) == 2 {
				cancel()
			}
			return nil
		})
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("scheduler did not drain in time")
	}

	require.Len(t, order, 2)
	assert.Equal(t, []int{1, 4}, order, "priority 1 task must dispatch before priority 4")
}

func TestRunRespectsConcurrencyLimit(t *testing.T) {
	s := New()
	for i := 0; i < 6; i++ {
		s.Enqueue(Task{Coordinate: models.Coordinate{X: i, Y: 0, Z: 0}, Priority: 4})
	}

	var current, maxSeen int32
	ctx, cancel := context.WithCancel(context.Background())
	var processed int32

	done := make(chan struct{})
	go func() {
		s.Run(ctx, 2, func(ctx context.Context, task Task) error {
			n := atomic.AddInt32(&current, 1)
			for {
				old := atomic.LoadInt32(&maxSeen)
				if n <= old || atomic.CompareAndSwapInt32(&maxSeen, old, n) {
					break
				}
			}
			time.Sleep(20 * time.Millisecond)
			atomic.AddInt32(&current, -1)
			if atomic.AddInt32(&processed, 1) == 6 {
				cancel()
			}
			return nil
		})
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(3 * time.Second):
		t.Fatal("scheduler did not drain in time")
	}

	assert.LessOrEqual(t, int(atomic.LoadInt32(&maxSeen)), 2, "no more than the configured concurrency should run at once")
}

func TestHandlerErrorsDoNotStopDrain(t *testing.T) {
	s := New()
	s.Enqueue(Task{Coordinate: models.Coordinate{X: 1, Y: 0, Z: 0}, Priority: 4})
	s.Enqueue(Task{Coordinate: models.Coordinate{X: 2, Y: 0, Z: 0}, Priority: 4})

	ctx, cancel := context.WithCancel(context.Background())
	var processed int32

	done := make(chan struct{})
	go func() {
		s.Run(ctx, 2, func(ctx context.Context, task Task) error {
			if atomic.AddInt32(&processed, 1) == 2 {
				cancel()
			}
			return assertError()
		})
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("scheduler did not drain in time")
	}
	assert.Equal(t, int32(2), atomic.LoadInt32(&processed))
}

func assertError() error {
	return errTest
}

var errTest = &testError{}

type testError struct{}

func (e *testError) Error() string { return "simulated task failure" }
