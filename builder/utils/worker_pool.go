package utils

import (
	"context"
	"runtime"
	"sync"
)

// MaxWorkers caps the pool regardless of what the config asks for;
// page conversion is CPU-bound and oversubscribing only thrashes.
const MaxWorkers = 32

const taskBuffer = 4

// WorkerPool fans tasks out to a fixed set of goroutines. Submit
// blocks when the queue is full, which throttles the producer to
// roughly the conversion rate.
type WorkerPool[T any] struct {
	ctx     context.Context
	handler func(T)
	tasks   chan T
	wg      sync.WaitGroup
	workers int
}

func NewWorkerPool[T any](ctx context.Context, workers int, handler func(T)) *WorkerPool[T] {
	switch {
	case workers <= 0:
		workers = runtime.NumCPU()
	case workers > MaxWorkers:
		workers = MaxWorkers
	}
	return &WorkerPool[T]{
		ctx:     ctx,
		handler: handler,
		tasks:   make(chan T, workers*taskBuffer),
		workers: workers,
	}
}

func (p *WorkerPool[T]) Start() {
	for i := 0; i < p.workers; i++ {
		p.wg.Add(1)
		go func() {
			defer p.wg.Done()
			for {
				select {
				case <-p.ctx.Done():
					return
				case task, ok := <-p.tasks:
					if !ok {
						return
					}
					p.handler(task)
				}
			}
		}()
	}
}

// Submit enqueues a task. It drops the task if the context is
// already cancelled.
func (p *WorkerPool[T]) Submit(task T) {
	if p.ctx.Err() != nil {
		return
	}
	select {
	case <-p.ctx.Done():
	case p.tasks <- task:
	}
}

// Stop closes the queue and waits for in-flight tasks to finish.
func (p *WorkerPool[T]) Stop() {
	close(p.tasks)
	p.wg.Wait()
}
