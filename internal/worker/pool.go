package worker

import (
	"context"
	"sync"
)

// Job represents a unit of work to be executed
type Job interface {
	Execute(ctx context.Context) Result
}

// Result represents the result of a job execution
type Result interface {
	GetError() error
}

// Pool runs jobs on a fixed number of goroutines. Results arrive in
// completion order, not submission order.
type Pool struct {
	workers    int
	jobQueue   chan Job
	results    chan Result
	wg         sync.WaitGroup
	ctx        context.Context
	cancelFunc context.CancelFunc
	closeOnce  sync.Once
}

// NewPool creates a pool bound to ctx; cancelling ctx stops the workers
func NewPool(ctx context.Context, workers int) *Pool {
	if workers <= 0 {
		workers = 1
	}

	ctx, cancel := context.WithCancel(ctx)

	return &Pool{
		workers:    workers,
		jobQueue:   make(chan Job, workers*2),
		results:    make(chan Result, workers*2),
		ctx:        ctx,
		cancelFunc: cancel,
	}
}

// Start starts the worker goroutines
func (p *Pool) Start() {
	for i := 0; i < p.workers; i++ {
		p.wg.Add(1)
		go p.worker()
	}
}

func (p *Pool) worker() {
	defer p.wg.Done()

	for {
		select {
		case <-p.ctx.Done():
			return
		case job, ok := <-p.jobQueue:
			if !ok {
				return
			}
			result := job.Execute(p.ctx)
			select {
			case p.results <- result:
			case <-p.ctx.Done():
				return
			}
		}
	}
}

// Submit queues a job. It returns without queueing once the pool is cancelled.
func (p *Pool) Submit(job Job) {
	select {
	case <-p.ctx.Done():
		return
	case p.jobQueue <- job:
	}
}

// Wait closes the queue, waits for the workers and returns every result.
// Submitting more jobs than the buffers hold before Wait blocks; use Collect.
func (p *Pool) Wait() []Result {
	close(p.jobQueue)
	return p.drain()
}

func (p *Pool) drain() []Result {
	go func() {
		p.wg.Wait()
		p.closeResults()
		p.cancelFunc()
	}()

	var results []Result
	for result := range p.results {
		results = append(results, result)
	}

	return results
}

// Collect feeds jobs from a separate goroutine, so result draining never
// blocks submission, then waits like Wait.
func (p *Pool) Collect(jobs []Job) []Result {
	go func() {
		for _, job := range jobs {
			p.Submit(job)
		}
		close(p.jobQueue)
	}()

	return p.drain()
}

// Shutdown stops the pool immediately
func (p *Pool) Shutdown() {
	p.cancelFunc()
	p.wg.Wait()
	p.closeResults()
}

func (p *Pool) closeResults() {
	p.closeOnce.Do(func() {
		close(p.results)
	})
}
