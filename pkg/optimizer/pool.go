package optimizer

import (
	"runtime"
	"sync"

	"github.com/df07/go-kdop-optimizer/pkg/core"
)

// SampleTask represents a batch of Monte-Carlo cost samples for the worker pool
type SampleTask struct {
	TaskID int
	Axes   []core.Vec3 // candidate axis set under evaluation (read-only)
	Start  int         // index of the first sample in this batch
	Count  int         // number of samples in this batch
}

// SampleResult contains the partial sum from one batch
type SampleResult struct {
	TaskID int
	Sum    float64
}

// WorkerPool evaluates sample batches in parallel. Each worker only reads
// its task and sends back a scalar partial sum, so the only cross-worker
// coordination is the caller's reduction over results.
type WorkerPool struct {
	taskQueue   chan SampleTask
	resultQueue chan SampleResult
	numWorkers  int
	evalBatch   func(SampleTask) float64
	wg          sync.WaitGroup
}

// NewWorkerPool creates a worker pool with the specified number of workers
func NewWorkerPool(numWorkers, queueDepth int, evalBatch func(SampleTask) float64) *WorkerPool {
	if numWorkers <= 0 {
		numWorkers = runtime.NumCPU()
	}
	if queueDepth <= 0 {
		queueDepth = numWorkers * 4
	}

	return &WorkerPool{
		taskQueue:   make(chan SampleTask, queueDepth),
		resultQueue: make(chan SampleResult, queueDepth),
		numWorkers:  numWorkers,
		evalBatch:   evalBatch,
	}
}

// Start begins all workers
func (wp *WorkerPool) Start() {
	for i := 0; i < wp.numWorkers; i++ {
		wp.wg.Add(1)
		go wp.run()
	}
}

// Stop gracefully shuts down all workers
func (wp *WorkerPool) Stop() {
	close(wp.taskQueue) // no more tasks
	wp.wg.Wait()        // wait for workers to finish
	close(wp.resultQueue)
}

// SubmitTask submits a sample batch to the worker pool
func (wp *WorkerPool) SubmitTask(task SampleTask) {
	wp.taskQueue <- task
}

// GetResult retrieves a completed batch result
func (wp *WorkerPool) GetResult() (SampleResult, bool) {
	result, ok := <-wp.resultQueue
	return result, ok
}

// GetNumWorkers returns the number of workers in the pool
func (wp *WorkerPool) GetNumWorkers() int {
	return wp.numWorkers
}

// run is the main worker loop
func (wp *WorkerPool) run() {
	defer wp.wg.Done()

	for task := range wp.taskQueue {
		wp.resultQueue <- SampleResult{
			TaskID: task.TaskID,
			Sum:    wp.evalBatch(task),
		}
	}
}
