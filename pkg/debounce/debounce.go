// Package debounce coalesces bursts of events into a single deferred call.
package debounce

import (
	"sync"
	"time"
)

const DefaultDelay = 300 * time.Millisecond

type Timer interface {
	Stop() bool
}

// Scheduler runs fn once after d. The standard implementation is
// time.AfterFunc, tests swap in a manual clock.
type Scheduler interface {
	AfterFunc(d time.Duration, fn func()) Timer
}

type timeScheduler struct{}

func (timeScheduler) AfterFunc(d time.Duration, fn func()) Timer {
	return time.AfterFunc(d, fn)
}

var RealTime Scheduler = timeScheduler{}

// Debouncer keeps at most one pending call. Every Trigger cancels the pending
// one and starts a new quiet period. A timer that already fired but lost the
// race against a newer Trigger is ignored by comparing generations.
type Debouncer struct {
	mu         sync.Mutex
	scheduler  Scheduler
	delay      time.Duration
	timer      Timer
	generation uint64
	stopped    bool
}

func New(delay time.Duration, scheduler Scheduler) *Debouncer {
	if scheduler == nil {
		scheduler = RealTime
	}
	if delay <= 0 {
		delay = DefaultDelay
	}
	return &Debouncer{
		scheduler: scheduler,
		delay:     delay,
	}
}

func (d *Debouncer) Trigger(fn func()) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.stopped {
		return
	}
	d.cancelUnsafe()
	generation := d.generation
	d.timer = d.scheduler.AfterFunc(d.delay, func() {
		d.mu.Lock()
		if d.stopped || generation != d.generation {
			d.mu.Unlock()
			return
		}
		d.timer = nil
		d.mu.Unlock()
		fn()
	})
}

func (d *Debouncer) cancelUnsafe() {
	d.generation++
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}

// Cancel drops the pending call, if any.
func (d *Debouncer) Cancel() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.cancelUnsafe()
}

func (d *Debouncer) Pending() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.timer != nil
}

// Stop cancels the pending call and ignores every later Trigger.
func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.cancelUnsafe()
	d.stopped = true
}
