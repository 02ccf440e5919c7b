package session

import (
	"context"
	"errors"
	"log"
	"sync"
	"time"

	"github.com/matst80/slask-browser/pkg/catalog"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	activeSessions = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "slaskbrowser_sessions_active",
		Help: "The number of browsing sessions held in memory",
	})
	storeErrors = promauto.NewCounter(prometheus.CounterOpts{
		Name: "slaskbrowser_session_store_errors_total",
		Help: "The total number of failed session store reads and writes",
	})
)

const storeTimeout = 2 * time.Second

// Manager maps session ids to browsers. A session missing in memory is
// restored from the store when possible, otherwise started fresh.
type Manager struct {
	mu       sync.Mutex
	catalog  *catalog.Catalog
	store    Store
	opts     Options
	sessions map[string]*Browser
}

func NewManager(c *catalog.Catalog, store Store, opts Options) *Manager {
	m := &Manager{
		catalog:  c,
		store:    store,
		sessions: make(map[string]*Browser),
	}
	onChange := opts.OnChange
	opts.OnChange = func(id string, state State) {
		m.save(id, state)
		if onChange != nil {
			onChange(id, state)
		}
	}
	m.opts = opts
	return m
}

func (m *Manager) save(id string, state State) {
	if m.store == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), storeTimeout)
	defer cancel()
	if err := m.store.Save(ctx, id, state); err != nil {
		storeErrors.Inc()
		log.Printf("Failed to save session %s: %v", id, err)
	}
}

func (m *Manager) restore(ctx context.Context, id string) State {
	initial := NewState(m.opts.PageSize)
	if m.store == nil {
		return initial
	}
	ctx, cancel := context.WithTimeout(ctx, storeTimeout)
	defer cancel()
	s, err := m.store.Load(ctx, id)
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			storeErrors.Inc()
			log.Printf("Failed to load session %s: %v", id, err)
		}
		return initial
	}
	return s
}

func (m *Manager) Get(ctx context.Context, id string) *Browser {
	m.mu.Lock()
	b, ok := m.sessions[id]
	m.mu.Unlock()
	if ok {
		return b
	}

	created := NewBrowser(id, m.catalog, m.restore(ctx, id), m.opts)

	m.mu.Lock()
	defer m.mu.Unlock()
	if b, ok = m.sessions[id]; ok {
		created.Close()
		return b
	}
	m.sessions[id] = created
	activeSessions.Set(float64(len(m.sessions)))
	return created
}

func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}

// Prune drops sessions idle for longer than maxIdle from memory. Their state
// stays in the store. Sessions with an open stream are kept.
func (m *Manager) Prune(maxIdle time.Duration) int {
	cutoff := time.Now().Add(-maxIdle)
	m.mu.Lock()
	idle := make([]*Browser, 0)
	for id, b := range m.sessions {
		if b.LastSeen().Before(cutoff) && !b.Streaming() {
			idle = append(idle, b)
			delete(m.sessions, id)
		}
	}
	activeSessions.Set(float64(len(m.sessions)))
	m.mu.Unlock()

	for _, b := range idle {
		b.Close()
	}
	return len(idle)
}

func (m *Manager) StartPruning(ctx context.Context, interval, maxIdle time.Duration) {
	ticker := time.NewTicker(interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				if n := m.Prune(maxIdle); n > 0 {
					log.Printf("Pruned %d idle sessions", n)
				}
			case <-ctx.Done():
				return
			}
		}
	}()
}

func (m *Manager) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	for id, b := range m.sessions {
		b.Close()
		delete(m.sessions, id)
	}
	activeSessions.Set(0)
}
