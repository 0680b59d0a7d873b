package renderer

import (
	"context"
	"image"
	"math/rand"
	"testing"

	"github.com/df07/go-pathtracer/pkg/core"
)

func newTestSampler(seed int64) core.Sampler {
	return core.NewRandomSampler(rand.New(rand.NewSource(seed)))
}

func TestWorkerPoolRunsEveryTask(t *testing.T) {
	const tasks = 40
	pool := NewWorkerPool(4, tasks, func(task RenderTask) RenderStats {
		stats := newRenderStats(task.Bounds.Dx(), 1)
		stats.addPixel(task.Index, 0)
		return stats
	})
	pool.Start(context.Background())

	for i := 0; i < tasks; i++ {
		if err := pool.Submit(context.Background(), RenderTask{Index: i, Bounds: image.Rect(0, 0, 1, 1)}); err != nil {
			t.Fatal(err)
		}
	}

	seen := make(map[int]bool)
	for i := 0; i < tasks; i++ {
		result, ok := pool.Result()
		if !ok {
			t.Fatal("result queue closed early")
		}
		if result.Err != nil {
			t.Fatalf("task %d failed: %v", result.Index, result.Err)
		}
		if result.Stats.TotalSamples != result.Index {
			t.Errorf("task %d returned stats of another task", result.Index)
		}
		seen[result.Index] = true
	}
	pool.Stop()

	if len(seen) != tasks {
		t.Errorf("saw %d distinct tasks, want %d", len(seen), tasks)
	}
	if _, ok := pool.Result(); ok {
		t.Error("result queue should be closed after Stop")
	}
}

func TestWorkerPoolCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	called := false
	pool := NewWorkerPool(1, 1, func(RenderTask) RenderStats {
		called = true
		return RenderStats{}
	})
	pool.Start(ctx)
	defer pool.Stop()

	// Submit may race between the open queue and the done context
	if err := pool.Submit(ctx, RenderTask{}); err != nil {
		return
	}
	result, _ := pool.Result()
	if result.Err == nil {
		t.Error("expected the context error in the result")
	}
	if called {
		t.Error("work ran after cancellation")
	}
}

func TestWorkerPoolDefaultsToCPUCount(t *testing.T) {
	pool := NewWorkerPool(0, 1, func(RenderTask) RenderStats { return RenderStats{} })
	if pool.NumWorkers() <= 0 {
		t.Errorf("NumWorkers = %d, want positive", pool.NumWorkers())
	}
}
