/*
 * @Author:    thepoy
 * @File Name: queue.go
 */

// Package queue implements the LIFO queue shared by the download, cache and
// scrape stages of the crawl pipeline, with Python queue.Queue-style
// unfinished-task tracking so the pipeline can detect joint termination.
package queue

import (
	"sync"
	"time"
)

// Queue is a generic, goroutine-safe LIFO stack with blocking Get and
// task-done tracking. All three pipeline queues (download, cache, scrape)
// are instances of the same type; every producer and consumer is a
// goroutine, so a single implementation covers both the cooperative
// fetchers and the two dedicated workers that the distributed spec this
// module is modeled on keeps on separate interfaces.
type Queue[T any] struct {
	mu         sync.Mutex
	items      []T
	unfinished int
	signal     chan struct{}
}

// New returns an empty Queue.
func New[T any]() *Queue[T] {
	return &Queue[T]{signal: make(chan struct{})}
}

// Put pushes an item and increments the unfinished-task counter.
func (q *Queue[T]) Put(item T) {
	q.mu.Lock()
	q.items = append(q.items, item)
	q.unfinished++
	old := q.signal
	q.signal = make(chan struct{})
	q.mu.Unlock()
	close(old)
}

// Get blocks until an item is available, pops the most recently pushed one
// (LIFO), and returns it. The caller must call Done once it has finished
// processing the item.
func (q *Queue[T]) Get() T {
	for {
		q.mu.Lock()
		if len(q.items) > 0 {
			item := q.pop()
			q.mu.Unlock()
			return item
		}
		wait := q.signal
		q.mu.Unlock()
		<-wait
	}
}

// GetTimeout blocks for up to d for an item to become available. ok is
// false if the timeout elapsed with nothing to return; this is the ≤1s
// polling fallback the termination-detection loop relies on.
func (q *Queue[T]) GetTimeout(d time.Duration) (item T, ok bool) {
	deadline := time.Now().Add(d)
	for {
		q.mu.Lock()
		if len(q.items) > 0 {
			item = q.pop()
			q.mu.Unlock()
			return item, true
		}
		wait := q.signal
		q.mu.Unlock()

		remaining := time.Until(deadline)
		if remaining <= 0 {
			return item, false
		}

		timer := time.NewTimer(remaining)
		select {
		case <-wait:
			timer.Stop()
		case <-timer.C:
			return item, false
		}
	}
}

func (q *Queue[T]) pop() T {
	n := len(q.items)
	item := q.items[n-1]
	var zero T
	q.items[n-1] = zero
	q.items = q.items[:n-1]
	return item
}

// Done marks one previously-Get item as fully processed.
func (q *Queue[T]) Done() {
	q.mu.Lock()
	if q.unfinished > 0 {
		q.unfinished--
	}
	q.mu.Unlock()
}

// Len returns the number of items currently buffered (not counting items
// that were Get but not yet Done).
func (q *Queue[T]) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}

// Unfinished returns the number of items that have been Put but not yet
// Done — includes both buffered items and items currently being processed.
func (q *Queue[T]) Unfinished() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.unfinished
}

// Idle reports whether the queue is both empty and has no in-flight items,
// the per-queue half of the joint termination condition (§4.10).
func (q *Queue[T]) Idle() bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items) == 0 && q.unfinished == 0
}

// DrainAll removes and returns every buffered item, in push order, without
// touching the unfinished counter. Used by the snapshot protocol.
func (q *Queue[T]) DrainAll() []T {
	q.mu.Lock()
	defer q.mu.Unlock()

	out := make([]T, len(q.items))
	copy(out, q.items)
	q.items = q.items[:0]
	return out
}

// RestoreAll pushes a batch of items back in the order they appear in
// items, without affecting the unfinished counter's done-tracking
// semantics for already-drained work; each restored item is counted as a
// fresh unfinished task.
func (q *Queue[T]) RestoreAll(items []T) {
	if len(items) == 0 {
		return
	}
	q.mu.Lock()
	q.items = append(q.items, items...)
	q.unfinished += len(items)
	old := q.signal
	q.signal = make(chan struct{})
	q.mu.Unlock()
	close(old)
}
