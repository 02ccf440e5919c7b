package common

import (
	"sync"
	"time"
)

// QueueProcessor is a function that processes a batch of items from the queue.
type QueueProcessor[V any] func(items []V)

// QueueHandler batches items and hands them to the processor from a single
// background goroutine, at most chunkSize at a time.
type QueueHandler[V any] struct {
	mu        sync.Mutex
	queue     []V
	processor QueueProcessor[V]
	chunkSize int
	interval  time.Duration
	wake      chan struct{}
	done      chan struct{}
	stopped   chan struct{}
	closeOnce sync.Once
}

func NewQueueHandler[V any](processor QueueProcessor[V], chunkSize int, interval time.Duration) *QueueHandler[V] {
	if interval <= 0 {
		interval = time.Second
	}
	q := &QueueHandler[V]{
		queue:     make([]V, 0),
		processor: processor,
		chunkSize: max(chunkSize, 1),
		interval:  interval,
		wake:      make(chan struct{}, 1),
		done:      make(chan struct{}),
		stopped:   make(chan struct{}),
	}
	go q.processQueue()
	return q
}

// Add adds items to the queue, full chunks wake the processor right away.
func (h *QueueHandler[V]) Add(item ...V) {
	h.mu.Lock()
	h.queue = append(h.queue, item...)
	full := len(h.queue) >= h.chunkSize
	h.mu.Unlock()
	if full {
		select {
		case h.wake <- struct{}{}:
		default:
		}
	}
}

func (h *QueueHandler[V]) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.queue)
}

func (h *QueueHandler[V]) next() []V {
	h.mu.Lock()
	defer h.mu.Unlock()
	if len(h.queue) == 0 {
		return nil
	}
	items := h.queue[:min(h.chunkSize, len(h.queue))]
	h.queue = h.queue[len(items):]
	return items
}

func (h *QueueHandler[V]) drain() {
	for items := h.next(); items != nil; items = h.next() {
		h.processor(items)
	}
}

func (h *QueueHandler[V]) processQueue() {
	defer close(h.stopped)
	ticker := time.NewTicker(h.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			h.drain()
		case <-h.wake:
			h.drain()
		case <-h.done:
			h.drain()
			return
		}
	}
}

// Close processes what is left in the queue and stops the goroutine.
func (h *QueueHandler[V]) Close() {
	h.closeOnce.Do(func() {
		close(h.done)
	})
	<-h.stopped
}
