// Package concurrency implements a simple channel based resource manager for concurrent operations.
package concurrency

import (
	"context"
	"sync"
)

// ResourceManager is a struct storing a channel of some given resource (e.g. an [hss.Evaluator])
// meant to be used concurrently, and the first error returned by a task.
//
// A resource is taken from the pool for the whole duration of a task, so that
// resources which are not safe for concurrent use (a stateful sampler for example)
// are never shared between two running tasks.
type ResourceManager[T any] struct {
	wg        sync.WaitGroup
	ctx       context.Context
	cancel    context.CancelFunc
	Resources chan T

	once sync.Once
	err  error
}

// NewResourceManager instantiates a new [ResourceManager] over the given resources.
// Tasks scheduled after ctx is done, or after a task has failed, are skipped.
func NewResourceManager[T any](ctx context.Context, resources []T) *ResourceManager[T] {

	if len(resources) == 0 {
		panic("cannot NewResourceManager: resources is empty")
	}

	Resources := make(chan T, len(resources))
	for i := range resources {
		Resources <- resources[i]
	}

	ctx, cancel := context.WithCancel(ctx)

	return &ResourceManager[T]{
		ctx:       ctx,
		cancel:    cancel,
		Resources: Resources,
	}
}

// Task is an abstract template for a function taking as input
// a resource of any kind that can be used concurrently.
type Task[T any] func(resource T) (err error)

// Run runs a [Task] concurrently as soon as a resource is available.
// The first error returned by a [Task] cancels all the tasks that
// have not yet started.
func (r *ResourceManager[T]) Run(f Task[T]) {
	r.wg.Add(1)
	go func() {
		defer r.wg.Done()

		var resource T
		select {
		case <-r.ctx.Done():
			r.fail(r.ctx.Err())
			return
		case resource = <-r.Resources:
		}

		defer func() { r.Resources <- resource }()

		// The context may have been cancelled while waiting.
		if r.ctx.Err() != nil {
			r.fail(r.ctx.Err())
			return
		}

		if err := f(resource); err != nil {
			r.fail(err)
		}
	}()
}

// Wait waits until all the scheduled [Task] have returned or have been
// skipped and returns the first encountered error, if any.
func (r *ResourceManager[T]) Wait() (err error) {
	r.wg.Wait()
	r.cancel()
	return r.err
}

func (r *ResourceManager[T]) fail(err error) {
	r.once.Do(func() {
		r.err = err
		r.cancel()
	})
}
