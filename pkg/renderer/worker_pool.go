package renderer

import (
	"context"
	"image"
	"runtime"
	"sync"
)

// RenderTask is one region of the image handed to a worker
type RenderTask struct {
	Index  int             // Position in submission order, also seeds the task's random source
	Bounds image.Rectangle // Pixel bounds in buffer coordinates
}

// TaskResult contains the result from rendering a region
type TaskResult struct {
	Index int
	Stats RenderStats
	Err   error
}

// WorkerPool runs render tasks on a fixed set of goroutines
type WorkerPool struct {
	taskQueue   chan RenderTask
	resultQueue chan TaskResult
	numWorkers  int
	work        func(RenderTask) RenderStats
	wg          sync.WaitGroup
}

// NewWorkerPool creates a pool of numWorkers goroutines executing work.
// queueSize bounds the number of tasks in flight between a submit and its result.
func NewWorkerPool(numWorkers, queueSize int, work func(RenderTask) RenderStats) *WorkerPool {
	if numWorkers <= 0 {
		numWorkers = runtime.NumCPU()
	}
	queueSize = max(1, queueSize)

	return &WorkerPool{
		taskQueue:   make(chan RenderTask, queueSize),
		resultQueue: make(chan TaskResult, queueSize),
		numWorkers:  numWorkers,
		work:        work,
	}
}

// Start begins all workers. Tasks received after ctx is done are answered
// with ctx's error instead of being rendered.
func (wp *WorkerPool) Start(ctx context.Context) {
	for i := 0; i < wp.numWorkers; i++ {
		wp.wg.Add(1)
		go wp.run(ctx)
	}
}

// Stop gracefully shuts down all workers
func (wp *WorkerPool) Stop() {
	close(wp.taskQueue) // No more tasks
	wp.wg.Wait()        // Wait for workers to finish
	close(wp.resultQueue)
}

// Submit queues a task, giving up if ctx is done first
func (wp *WorkerPool) Submit(ctx context.Context, task RenderTask) error {
	select {
	case wp.taskQueue <- task:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Result retrieves a completed task result
func (wp *WorkerPool) Result() (TaskResult, bool) {
	result, ok := <-wp.resultQueue
	return result, ok
}

// NumWorkers returns the number of workers in the pool
func (wp *WorkerPool) NumWorkers() int {
	return wp.numWorkers
}

// run is the main worker loop
func (wp *WorkerPool) run(ctx context.Context) {
	defer wp.wg.Done()

	for task := range wp.taskQueue {
		if err := ctx.Err(); err != nil {
			wp.resultQueue <- TaskResult{Index: task.Index, Err: err}
			continue
		}
		wp.resultQueue <- TaskResult{Index: task.Index, Stats: wp.work(task)}
	}
}
