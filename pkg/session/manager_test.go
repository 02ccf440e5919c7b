package session

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/matst80/slask-browser/pkg/debounce"
	"github.com/matst80/slask-browser/pkg/render"
	"github.com/matst80/slask-browser/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestManager(store Store) *Manager {
	opts := DefaultOptions()
	opts.Scheduler = debounce.NewManualScheduler()
	return NewManager(testCatalog(), store, opts)
}

func TestManagerReturnsSameBrowser(t *testing.T) {
	m := newTestManager(nil)
	defer m.Close()
	ctx := context.Background()

	a := m.Get(ctx, "a")
	assert.Same(t, a, m.Get(ctx, "a"))
	assert.NotSame(t, a, m.Get(ctx, "b"))
	assert.Equal(t, 2, m.Len())
}

func TestManagerSavesAndRestores(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	m := newTestManager(store)
	b := m.Get(ctx, "visitor")
	b.SelectCategory("1")
	b.SetPriceSort(types.SortDescending)
	b.Step(1)
	m.Close()

	saved, err := store.Load(ctx, "visitor")
	require.NoError(t, err)
	assert.Equal(t, types.CategoryId("1"), saved.Criteria.Category)
	assert.Equal(t, 2, saved.Paging.CurrentPage)

	m = newTestManager(store)
	defer m.Close()
	view := m.Get(ctx, "visitor").View()
	assert.Equal(t, 2, view.Pagination.CurrentPage)
	assert.Equal(t, types.SortDescending, view.Criteria.PriceSort)
	assert.Equal(t, 19, view.Pagination.TotalItems)
}

func TestManagerPrune(t *testing.T) {
	m := newTestManager(nil)
	defer m.Close()
	m.Get(context.Background(), "idle")

	assert.Equal(t, 0, m.Prune(time.Hour))
	assert.Equal(t, 1, m.Len())
	assert.Equal(t, 1, m.Prune(-time.Second))
	assert.Equal(t, 0, m.Len())
}

type failingStore struct{}

func (failingStore) Load(context.Context, string) (State, error) {
	return State{}, errors.New("unavailable")
}

func (failingStore) Save(context.Context, string, State) error {
	return errors.New("unavailable")
}

func (failingStore) Delete(context.Context, string) error {
	return nil
}

func TestManagerSurvivesStoreErrors(t *testing.T) {
	m := newTestManager(failingStore{})
	defer m.Close()

	b := m.Get(context.Background(), "x")
	view := b.SetPageSize(20)
	assert.Equal(t, 20, view.Pagination.PageSize)
	assert.Equal(t, 1, view.Pagination.CurrentPage)
}

func TestMemoryStoreDelete(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()
	require.NoError(t, store.Save(ctx, "a", NewState(10)))
	require.NoError(t, store.Delete(ctx, "a"))

	_, err := store.Load(ctx, "a")
	assert.ErrorIs(t, err, ErrNotFound)
}

// blockingSink holds the first view until release is closed.
type blockingSink struct {
	once     sync.Once
	entered  chan struct{}
	release  chan struct{}
	mu       sync.Mutex
	versions []uint64
}

func (s *blockingSink) Render(v render.View) {
	s.once.Do(func() {
		close(s.entered)
		<-s.release
	})
	s.mu.Lock()
	defer s.mu.Unlock()
	s.versions = append(s.versions, v.Version)
}

func TestConcurrentEventsSaveLatestState(t *testing.T) {
	store := NewMemoryStore()
	sink := &blockingSink{entered: make(chan struct{}), release: make(chan struct{})}
	opts := DefaultOptions()
	opts.Scheduler = debounce.NewManualScheduler()
	opts.Sink = sink
	m := NewManager(testCatalog(), store, opts)
	defer m.Close()
	ctx := context.Background()
	b := m.Get(ctx, "x")

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		b.SelectCategory("1")
	}()
	<-sink.entered
	go func() {
		defer wg.Done()
		b.SelectCategory("2")
	}()
	time.Sleep(20 * time.Millisecond)
	close(sink.release)
	wg.Wait()

	saved, err := store.Load(ctx, "x")
	require.NoError(t, err)
	assert.Equal(t, b.State(), saved)
	assert.Equal(t, types.CategoryId("2"), saved.Criteria.Category)
	assert.Equal(t, []uint64{1, 2}, sink.versions)
}

func TestPruneKeepsStreamingSessions(t *testing.T) {
	m := newTestManager(nil)
	defer m.Close()
	b := m.Get(context.Background(), "watching")
	_, cancel := b.Subscribe()

	assert.Equal(t, 0, m.Prune(-time.Second))
	assert.Equal(t, 1, m.Len())

	cancel()
	assert.Equal(t, 1, m.Prune(-time.Second))
}
