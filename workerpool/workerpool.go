/*
 * @Author:    thepoy
 * @File Name: workerpool.go
 */

// Package workerpool supervises a fixed group of long-running goroutines,
// generalized from a task-channel dispatcher into a bare supervisor: the
// orchestrator decides what each goroutine does (fetch loop, cache-write
// loop, scrape loop), workerpool only owns lifecycle and panic handling.
package workerpool

import (
	"fmt"
	"runtime/debug"
	"sync"

	"github.com/go-predator/asyncrawler/log"
)

// ErrUnknownType is returned for a recovered panic whose value isn't an
// error.
var ErrUnknownType = fmt.Errorf("workerpool: recovered panic value is not an error")

// Group runs a fixed set of goroutines and recovers from panics in any of
// them, logging and recording each one. A worker that panics is not
// restarted, so it no longer counts toward the running workers.
type Group struct {
	wg  sync.WaitGroup
	log *log.Logger

	mu      sync.Mutex
	panics  []error
}

// New returns a Group that logs worker panics to logger. logger may be nil.
func New(logger *log.Logger) *Group {
	return &Group{log: logger}
}

// Go starts fn in its own goroutine under supervision. If fn panics, the
// panic is recovered, logged, and recorded rather than propagated — one
// worker's crash must not bring down the whole pipeline. Group always
// isolates panics, since a pipeline worker, unlike a one-off pool task,
// has no supervisor above the orchestrator to re-panic to.
func (g *Group) Go(fn func()) {
	g.wg.Add(1)
	go func() {
		defer g.wg.Done()
		defer func() {
			if r := recover(); r != nil {
				debug.PrintStack()
				err := asError(r)
				if g.log != nil {
					g.log.Error(err)
				}
				g.mu.Lock()
				g.panics = append(g.panics, err)
				g.mu.Unlock()
			}
		}()
		fn()
	}()
}

func asError(r interface{}) error {
	if e, ok := r.(error); ok {
		return e
	}
	return fmt.Errorf("%w: %v", ErrUnknownType, r)
}

// Wait blocks until every goroutine started with Go has returned.
func (g *Group) Wait() {
	g.wg.Wait()
}

// Panics returns every panic recovered from a worker so far, in the order
// they were recovered.
func (g *Group) Panics() []error {
	g.mu.Lock()
	defer g.mu.Unlock()
	out := make([]error, len(g.panics))
	copy(out, g.panics)
	return out
}
