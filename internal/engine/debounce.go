package engine

import (
	"sync"
	"time"
)

// intent is the fan-out of a scheduled fetch cycle.
type intent int

const (
	intentNone intent = iota
	// intentProducts refetches products only; facet counts are
	// invariant under sort and page changes.
	intentProducts
	// intentFull refetches products and facets; any filter change can
	// move every other facet's counts.
	intentFull
)

// debouncer collapses a burst of mutations into one trailing fetch.
// A later schedule supersedes the earlier pending intent, with full
// fan-out winning over products-only.
type debouncer struct {
	mu      sync.Mutex
	window  time.Duration
	timer   *time.Timer
	pending intent
	run     func(intent)
}

func newDebouncer(window time.Duration, run func(intent)) *debouncer {
	return &debouncer{window: window, run: run}
}

// schedule arms (or re-arms) the trailing timer with the merged intent.
func (d *debouncer) schedule(it intent) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if it > d.pending {
		d.pending = it
	}
	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.window, d.fire)
}

// fire consumes the pending intent and runs it.
func (d *debouncer) fire() {
	d.mu.Lock()
	it := d.pending
	d.pending = intentNone
	d.timer = nil
	d.mu.Unlock()

	if it != intentNone {
		d.run(it)
	}
}

// flush runs any pending intent immediately.
func (d *debouncer) flush() {
	d.mu.Lock()
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	d.mu.Unlock()
	d.fire()
}

// stop drops any pending intent without running it.
func (d *debouncer) stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	d.pending = intentNone
}
