package session

import (
	"sync"
	"time"

	"github.com/matst80/slask-browser/pkg/browse"
	"github.com/matst80/slask-browser/pkg/catalog"
	"github.com/matst80/slask-browser/pkg/debounce"
	"github.com/matst80/slask-browser/pkg/paging"
	"github.com/matst80/slask-browser/pkg/render"
	"github.com/matst80/slask-browser/pkg/types"
	"golang.org/x/text/language"
)

type Options struct {
	Engine    *browse.Engine
	PageSize  int
	Debounce  time.Duration
	Scheduler debounce.Scheduler
	// Sink receives every view next to the stream subscribers.
	Sink render.Sink
	// OnChange is called with the new state after every transition.
	OnChange func(id string, state State)
	// OnSearch is called after a debounced search evaluation.
	OnSearch func(id string, view render.View)
}

func DefaultOptions() Options {
	return Options{
		Engine:    browse.NewEngine(language.English),
		PageSize:  types.DefaultPageSize,
		Debounce:  debounce.DefaultDelay,
		Scheduler: debounce.RealTime,
	}
}

// Browser is one browsing session. All transitions run under one lock, so
// user events and the debounced search never interleave.
type Browser struct {
	// publishMu is taken before mu and held through publish, so views and
	// saved states go out in version order.
	publishMu sync.Mutex
	mu        sync.Mutex
	id        string
	catalog   *catalog.Catalog
	opts      Options
	state     State
	working   []types.Product
	version   uint64
	lastSeen  time.Time
	debouncer *debounce.Debouncer
	updates   *render.Broadcaster
}

func NewBrowser(id string, c *catalog.Catalog, initial State, opts Options) *Browser {
	if opts.Engine == nil {
		opts.Engine = browse.NewEngine(language.English)
	}
	if initial.Paging.PageSize < 1 {
		initial.Paging = paging.NewState(opts.PageSize)
	}
	b := &Browser{
		id:        id,
		catalog:   c,
		opts:      opts,
		state:     initial,
		lastSeen:  time.Now(),
		debouncer: debounce.New(opts.Debounce, opts.Scheduler),
		updates:   render.NewBroadcaster(),
	}
	b.working = b.opts.Engine.Recompute(c.Products(), initial.Criteria)
	total := paging.TotalPages(len(b.working), initial.Paging.PageSize)
	b.state.Paging = initial.Paging.Clamp(total)
	return b
}

func (b *Browser) Id() string {
	return b.id
}

func (b *Browser) viewUnsafe() render.View {
	page := paging.Slice(b.working, b.state.Paging.PageSize, b.state.Paging.CurrentPage)
	view := render.NewView(page, b.state.Criteria)
	view.Version = b.version
	return view
}

func (b *Browser) totalPagesUnsafe() int {
	return paging.TotalPages(len(b.working), b.state.Paging.PageSize)
}

// View returns the current view without changing anything.
func (b *Browser) View() render.View {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.lastSeen = time.Now()
	return b.viewUnsafe()
}

func (b *Browser) State() State {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.state
}

func (b *Browser) LastSeen() time.Time {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.lastSeen
}

func (b *Browser) Subscribe() (<-chan render.View, func()) {
	return b.updates.Subscribe()
}

// Streaming reports whether any stream is subscribed to this session.
func (b *Browser) Streaming() bool {
	return b.updates.Subscribers() > 0
}

// transition applies fn and publishes the result. When recompute is set the
// working set is derived again, which always starts over at page one.
// Sinks and hooks must not call transitions on the same browser.
func (b *Browser) transition(fn func(State) (State, bool), recompute bool) (render.View, bool) {
	b.publishMu.Lock()
	defer b.publishMu.Unlock()
	b.mu.Lock()
	b.lastSeen = time.Now()
	next, changed := fn(b.state)
	if !changed {
		view := b.viewUnsafe()
		b.mu.Unlock()
		return view, false
	}
	b.state = next
	if recompute {
		b.working = b.opts.Engine.Recompute(b.catalog.Products(), b.state.Criteria)
		b.state.Paging = b.state.Paging.Reset()
	}
	b.version++
	view := b.viewUnsafe()
	state := b.state
	b.mu.Unlock()

	b.publish(view, state)
	return view, true
}

func (b *Browser) publish(view render.View, state State) {
	b.updates.Render(view)
	if b.opts.Sink != nil {
		b.opts.Sink.Render(view)
	}
	if b.opts.OnChange != nil {
		b.opts.OnChange(b.id, state)
	}
}

func always(fn func(State) State) func(State) (State, bool) {
	return func(s State) (State, bool) {
		return fn(s), true
	}
}

// SearchChanged records the raw search text and schedules one evaluation
// after the quiet period. The evaluation reads whatever text is current when
// it runs. The returned view is the one before evaluation.
func (b *Browser) SearchChanged(text string) render.View {
	b.mu.Lock()
	b.lastSeen = time.Now()
	b.state = b.state.WithSearchInput(text)
	view := b.viewUnsafe()
	b.mu.Unlock()

	b.debouncer.Trigger(b.evaluateSearch)
	return view
}

func (b *Browser) evaluateSearch() {
	view, _ := b.transition(always(State.ApplySearch), true)
	if b.opts.OnSearch != nil {
		b.opts.OnSearch(b.id, view)
	}
}

// SearchPending reports whether a debounced evaluation is scheduled.
func (b *Browser) SearchPending() bool {
	return b.debouncer.Pending()
}

func (b *Browser) SelectCategory(id types.CategoryId) render.View {
	view, _ := b.transition(always(func(s State) State {
		return s.WithCategory(id)
	}), true)
	return view
}

func (b *Browser) SetPriceSort(d types.SortDirection) render.View {
	view, _ := b.transition(always(func(s State) State {
		return s.WithPriceSort(d)
	}), true)
	return view
}

func (b *Browser) SetNameSort(d types.SortDirection) render.View {
	view, _ := b.transition(always(func(s State) State {
		return s.WithNameSort(d)
	}), true)
	return view
}

func (b *Browser) SetPageSize(size int) render.View {
	view, _ := b.transition(always(func(s State) State {
		return s.WithPageSize(size)
	}), false)
	return view
}

// Step moves one page back (-1) or forward (1), out of range moves are
// ignored and reported as false.
func (b *Browser) Step(direction int) (render.View, bool) {
	return b.transition(func(s State) (State, bool) {
		p, ok := s.Paging.Step(direction, b.totalPagesUnsafe())
		s.Paging = p
		return s, ok
	}, false)
}

// JumpTo only accepts pages present in the current page window range,
// anything else is ignored.
func (b *Browser) JumpTo(page int) (render.View, bool) {
	return b.transition(func(s State) (State, bool) {
		if !s.Paging.InRange(page, b.totalPagesUnsafe()) {
			return s, false
		}
		s.Paging = s.Paging.JumpTo(page)
		return s, true
	}, false)
}

// Close cancels a pending search and ends the stream subscriptions.
func (b *Browser) Close() {
	b.debouncer.Stop()
	b.updates.Close()
}
