// Package rungroup is the optional, explicitly-external parallel
// embedding for running one Compilation many times concurrently (e.g.
// many independent frames or many independent graph instances sharing
// no single Compilation). The rgraph package's core compile/materialize
// path stays single-threaded; rungroup only fans out across whole
// Compilation.Run calls.
//
// Grounded line-for-line on engine/scene/scene.go's compute pool: a
// worker.DynamicWorkerPool sized at construction time, fed
// worker.Task{ID, Do} values, with a sync.WaitGroup providing the
// per-batch barrier since the pool itself persists across batches.
package rungroup

import (
	"sync"
	"time"

	"github.com/Carmen-Shannon/automation/tools/worker"
)

// Pool runs independent jobs across a bounded set of persistent
// goroutines, avoiding per-batch spawn/teardown overhead the same way
// the teacher's per-frame compute pool does for animator prep.
type Pool struct {
	workers int
	pool    worker.DynamicWorkerPool
}

// New creates a Pool with workers persistent goroutines and a task
// queue sized queueSize. idleTimeout bounds how long a worker waits for
// a new task before retiring, mirroring
// worker.NewDynamicWorkerPool(workers, queueSize, idleTimeout).
func New(workers, queueSize int, idleTimeout time.Duration) *Pool {
	if workers <= 0 {
		workers = 1
	}
	if queueSize <= 0 {
		queueSize = 1
	}
	return &Pool{
		workers: workers,
		pool:    worker.NewDynamicWorkerPool(workers, queueSize, idleTimeout),
	}
}

// Job is one unit of work submitted to a Pool.
type Job func() error

// Run submits every job to the pool and blocks until all have
// completed, returning the first error encountered (if any). Jobs run
// in whatever order the pool schedules them; callers needing per-job
// results should capture output themselves inside the Job closure.
func (p *Pool) Run(jobs []Job) error {
	var wg sync.WaitGroup
	errs := make([]error, len(jobs))

	for i, job := range jobs {
		wg.Add(1)
		idx := i
		jobCap := job
		p.pool.SubmitTask(worker.Task{
			ID: idx,
			Do: func() (any, error) {
				defer wg.Done()
				errs[idx] = jobCap()
				return nil, nil
			},
		})
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}

// Workers reports how many persistent goroutines the pool was created
// with.
func (p *Pool) Workers() int {
	return p.workers
}
