package pipeline

import (
	"context"
	"errors"
)

// Pool is a fixed set of reusable resources. Acquire blocks until an item
// is free, which bounds how many callers use the pool at once.
type Pool[T any] struct {
	items chan T
	size  int
}

// NewPool creates a Pool holding items.
func NewPool[T any](items ...T) *Pool[T] {
	p := &Pool[T]{
		items: make(chan T, len(items)),
		size:  len(items),
	}
	for _, item := range items {
		p.items <- item
	}
	return p
}

// Acquire checks out an item, waiting until one is available or ctx ends.
func (p *Pool[T]) Acquire(ctx context.Context) (T, error) {
	select {
	case item := <-p.items:
		return item, nil
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}

// Release returns an item obtained from Acquire.
func (p *Pool[T]) Release(item T) {
	p.items <- item
}

// Do runs fn with a checked-out item and returns the item afterwards,
// whichever way fn exits.
func (p *Pool[T]) Do(ctx context.Context, fn func(T) error) error {
	item, err := p.Acquire(ctx)
	if err != nil {
		return err
	}
	defer p.Release(item)
	return fn(item)
}

// Size returns the number of items the pool was created with.
func (p *Pool[T]) Size() int {
	return p.size
}

// Available returns the number of items currently checked in.
func (p *Pool[T]) Available() int {
	return len(p.items)
}

// Close waits for every item to be returned and closes each with fn.
func (p *Pool[T]) Close(ctx context.Context, fn func(T) error) error {
	var errs []error
	for range p.size {
		item, err := p.Acquire(ctx)
		if err != nil {
			errs = append(errs, err)
			break
		}
		if err := fn(item); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
