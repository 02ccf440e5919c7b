package render

import "sync"

// Broadcaster fans views out to stream subscribers. A slow subscriber only
// ever sees the newest view, older undelivered ones are replaced.
type Broadcaster struct {
	mu     sync.Mutex
	nextId int
	subs   map[int]chan View
	latest *View
}

func NewBroadcaster() *Broadcaster {
	return &Broadcaster{subs: make(map[int]chan View)}
}

func (b *Broadcaster) Render(view View) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.latest != nil && view.Version < b.latest.Version {
		return
	}
	b.latest = &view
	for _, ch := range b.subs {
		select {
		case <-ch:
		default:
		}
		ch <- view
	}
}

// Subscribe returns a channel that first receives the latest view, if any.
// The returned func unsubscribes and closes the channel.
func (b *Broadcaster) Subscribe() (<-chan View, func()) {
	b.mu.Lock()
	defer b.mu.Unlock()
	ch := make(chan View, 1)
	id := b.nextId
	b.nextId++
	b.subs[id] = ch
	if b.latest != nil {
		ch <- *b.latest
	}
	var once sync.Once
	return ch, func() {
		once.Do(func() {
			b.mu.Lock()
			defer b.mu.Unlock()
			if _, ok := b.subs[id]; ok {
				delete(b.subs, id)
				close(ch)
			}
		})
	}
}

// Close ends every subscription.
func (b *Broadcaster) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	for id, ch := range b.subs {
		delete(b.subs, id)
		close(ch)
	}
}

func (b *Broadcaster) Subscribers() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.subs)
}
