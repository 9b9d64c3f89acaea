package workerpool

import (
	"context"
	"log/slog"
	"sync"
)

type Job func(ctx context.Context)

type WorkerPool struct {
	queue chan Job
	wg    sync.WaitGroup
}

func NewWorkerPool(ctx context.Context, workerCount int, queueSize int) *WorkerPool {
	pool := &WorkerPool{
		queue: make(chan Job, queueSize),
	}

	for range workerCount {
		go pool.worker(ctx)
	}

	return pool
}

func (p *WorkerPool) worker(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			p.drain()
			return
		case job, ok := <-p.queue:
			if !ok {
				// queue closed
				return
			}
			job(ctx)
			p.wg.Done()
		}
	}
}

// drain releases queued jobs without running them so Wait does not
// hang after cancellation.
func (p *WorkerPool) drain() {
	for {
		select {
		case _, ok := <-p.queue:
			if !ok {
				return
			}
			p.wg.Done()
		default:
			return
		}
	}
}

// Submit queues a job, blocking while the queue is full. Jobs queued
// after Shutdown panic on the closed channel; submit and shut down
// from the same goroutine.
func (p *WorkerPool) Submit(job Job) {
	p.wg.Add(1)
	p.queue <- job
}

// Wait blocks until every submitted job has finished.
func (p *WorkerPool) Wait() {
	p.wg.Wait()
}

// Shutdown closes the queue and waits for in-flight jobs, giving up
// when ctx expires.
func (p *WorkerPool) Shutdown(ctx context.Context) {
	close(p.queue)

	done := make(chan struct{})

	go func() {
		p.wg.Wait()
		close(done)
	}()

	select {
	case <-ctx.Done():
		slog.Warn("worker pool shutdown timed out")
	case <-done:
	}
}
