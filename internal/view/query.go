// Package view holds what every data-driven screen shares: the query cache
// that drives the fetch lifecycle and the guard that gates session-only paths.
package view

import (
	"context"
	"sync"
)

// State is the lifecycle of a fetched resource.
type State int

const (
	Idle State = iota
	Loading
	Success
	Error
	Mutating
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Loading:
		return "loading"
	case Success:
		return "success"
	case Error:
		return "error"
	case Mutating:
		return "mutating"
	}
	return "unknown"
}

// Result is what a screen renders. Data holds the last good value even while
// Err is set: a failed mutation or refetch must not blank a working screen.
type Result[T any] struct {
	State   State
	Data    T
	HasData bool
	Err     error
}

type entry[T any] struct {
	gen     uint64 // bumped per fetch and per invalidation; stale results are dropped
	state   State
	data    T
	hasData bool
	err     error
}

// Cache stores fetched results per key. All methods are safe for concurrent
// use; when the same key is fetched twice concurrently, only the result of
// the latest-issued fetch lands — an earlier in-flight completion is
// discarded instead of overwriting fresher data.
type Cache[T any] struct {
	mu      sync.Mutex
	entries map[string]*entry[T]
}

// NewCache returns an empty cache.
func NewCache[T any]() *Cache[T] {
	return &Cache[T]{entries: make(map[string]*entry[T])}
}

func (c *Cache[T]) ensure(key string) *entry[T] {
	e, ok := c.entries[key]
	if !ok {
		e = &entry[T]{}
		c.entries[key] = e
	}
	return e
}

func (e *entry[T]) result() Result[T] {
	return Result[T]{State: e.state, Data: e.data, HasData: e.hasData, Err: e.err}
}

// Get returns the current state for key without fetching.
func (c *Cache[T]) Get(key string) Result[T] {
	c.mu.Lock()
	defer c.mu.Unlock()
	if e, ok := c.entries[key]; ok {
		return e.result()
	}
	return Result[T]{State: Idle}
}

// Fetch runs fn and records the outcome under key. Previously fetched data
// stays visible while loading. If another Fetch or Invalidate for the same
// key supersedes this one while fn runs, its result is thrown away and the
// current state is returned instead.
func (c *Cache[T]) Fetch(ctx context.Context, key string, fn func(context.Context) (T, error)) Result[T] {
	c.mu.Lock()
	e := c.ensure(key)
	e.gen++
	gen := e.gen
	e.state = Loading
	c.mu.Unlock()

	data, err := fn(ctx)

	c.mu.Lock()
	defer c.mu.Unlock()
	if e.gen != gen {
		return e.result() // superseded
	}
	if err != nil {
		e.state = Error
		e.err = err
	} else {
		e.state = Success
		e.data = data
		e.hasData = true
		e.err = nil
	}
	return e.result()
}

// Invalidate marks key stale: the data stays visible, but the state drops
// back to Idle and any in-flight fetch result for the old generation is
// discarded. The next Fetch re-reads from the backend.
func (c *Cache[T]) Invalidate(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if e, ok := c.entries[key]; ok {
		e.gen++
		e.state = Idle
	}
}

// Mutate runs a write against the resource behind key. On success the key is
// invalidated so the next read refetches. On failure the prior data remains
// displayed with the error recorded alongside it.
func (c *Cache[T]) Mutate(ctx context.Context, key string, fn func(context.Context) error) error {
	c.mu.Lock()
	e := c.ensure(key)
	prev := e.state
	e.state = Mutating
	c.mu.Unlock()

	err := fn(ctx)

	c.mu.Lock()
	defer c.mu.Unlock()
	if err != nil {
		e.state = prev
		e.err = err
		return err
	}
	e.gen++
	e.state = Idle
	e.err = nil
	return nil
}
