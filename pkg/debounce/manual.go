package debounce

import (
	"slices"
	"sync"
	"time"
)

// ManualScheduler is a Scheduler driven by Advance instead of wall time.
// Due callbacks run synchronously on the goroutine calling Advance.
type ManualScheduler struct {
	mu     sync.Mutex
	now    time.Duration
	timers []*manualTimer
}

type manualTimer struct {
	owner   *ManualScheduler
	at      time.Duration
	fn      func()
	stopped bool
}

func (t *manualTimer) Stop() bool {
	t.owner.mu.Lock()
	defer t.owner.mu.Unlock()
	wasActive := !t.stopped
	t.stopped = true
	return wasActive
}

func NewManualScheduler() *ManualScheduler {
	return &ManualScheduler{}
}

func (m *ManualScheduler) AfterFunc(d time.Duration, fn func()) Timer {
	m.mu.Lock()
	defer m.mu.Unlock()
	t := &manualTimer{owner: m, at: m.now + d, fn: fn}
	m.timers = append(m.timers, t)
	return t
}

// Advance moves the clock forward and runs every timer that became due, in
// deadline order.
func (m *ManualScheduler) Advance(d time.Duration) {
	m.mu.Lock()
	m.now += d
	due := make([]*manualTimer, 0)
	rest := m.timers[:0]
	for _, t := range m.timers {
		switch {
		case t.stopped:
		case t.at <= m.now:
			t.stopped = true
			due = append(due, t)
		default:
			rest = append(rest, t)
		}
	}
	m.timers = rest
	m.mu.Unlock()

	slices.SortStableFunc(due, func(a, b *manualTimer) int {
		return int(a.at - b.at)
	})
	for _, t := range due {
		t.fn()
	}
}

// Pending returns the number of timers that have not fired or been stopped.
func (m *ManualScheduler) Pending() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, t := range m.timers {
		if !t.stopped {
			n++
		}
	}
	return n
}
