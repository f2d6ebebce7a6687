package worker

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/jpaulsen/lawflow/internal/logger"
)

type Job interface {
	Run(context.Context) error
	Name() string
}

// Stats is a point-in-time snapshot of a pool's activity, reported on the
// health endpoint.
type Stats struct {
	Pending   int   `json:"pending"`
	Completed int64 `json:"completed"`
	Failed    int64 `json:"failed"`
}

type Pool struct {
	name      string
	jobs      chan Job
	wg        sync.WaitGroup
	workers   int
	queue     int
	cancel    context.CancelFunc
	log       *logger.Logger
	completed atomic.Int64
	failed    atomic.Int64
}

func NewPool(name string, workers, queueSize int) *Pool {
	if workers <= 0 {
		workers = 2
	}
	if queueSize <= 0 {
		queueSize = 64
	}
	log := logger.Default().WithPrefix("worker-pool").WithField("pool", name)
	log.Debug("creating worker pool with %d workers and queue size %d", workers, queueSize)
	return &Pool{
		name:    name,
		jobs:    make(chan Job, queueSize),
		workers: workers,
		queue:   queueSize,
		log:     log,
	}
}

func (p *Pool) Start(ctx context.Context) {
	ctx, cancel := context.WithCancel(ctx)
	p.cancel = cancel
	p.log.Info("starting worker pool with %d workers", p.workers)

	for i := 0; i < p.workers; i++ {
		p.wg.Add(1)
		go func(id int) {
			defer p.wg.Done()
			workerLog := p.log.WithField("worker_id", id)
			workerLog.Debug("worker started")

			for {
				select {
				case <-ctx.Done():
					workerLog.Debug("worker shutting down (context cancelled)")
					return
				case job := <-p.jobs:
					if job == nil {
						workerLog.Debug("worker shutting down (nil job received)")
						return
					}

					jobLog := workerLog.WithField("job", job.Name())
					jobLog.Debug("starting job")
					start := time.Now()

					// Create a context with the logger for the job
					jobCtx := logger.NewContext(ctx, jobLog)

					if err := job.Run(jobCtx); err != nil {
						p.failed.Add(1)
						jobLog.Error("job failed after %v: %v", time.Since(start), err)
					} else {
						p.completed.Add(1)
						jobLog.Info("job completed in %v", time.Since(start))
					}
				}
			}
		}(i + 1)
	}
}

func (p *Pool) Stop() {
	p.log.Info("stopping worker pool")
	if p.cancel != nil {
		p.cancel()
	}
	close(p.jobs)
	p.wg.Wait()
	p.log.Info("worker pool stopped")
}

func (p *Pool) Submit(job Job) {
	p.log.Debug("submitting job: %s", job.Name())
	p.jobs <- job
}

// Snapshot reports the pool's pending/completed/failed counts.
func (p *Pool) Snapshot() Stats {
	return Stats{
		Pending:   len(p.jobs),
		Completed: p.completed.Load(),
		Failed:    p.failed.Load(),
	}
}
