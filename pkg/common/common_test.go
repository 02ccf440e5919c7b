package common

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/matst80/slask-browser/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type countingTracker struct {
	mu       sync.Mutex
	sessions []string
	done     chan struct{}
}

func (c *countingTracker) TrackSession(sessionId string, r *http.Request) {
	c.mu.Lock()
	c.sessions = append(c.sessions, sessionId)
	c.mu.Unlock()
	c.done <- struct{}{}
}

func (c *countingTracker) TrackSearch(string, types.SearchTracking) {}

func (c *countingTracker) Close() error {
	return nil
}

func TestNewSessionIsIssuedAndTracked(t *testing.T) {
	trk := &countingTracker{done: make(chan struct{}, 1)}
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/view", nil)

	id := HandleSessionCookie(trk, rec, req)
	<-trk.done

	_, err := uuid.Parse(id)
	require.NoError(t, err)
	assert.Equal(t, []string{id}, trk.sessions)

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, SessionCookieName, cookies[0].Name)
	assert.Equal(t, id, cookies[0].Value)
}

func TestExistingSessionIsKept(t *testing.T) {
	id := uuid.NewString()
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/view", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: id})

	assert.Equal(t, id, HandleSessionCookie(nil, rec, req))
	assert.Empty(t, rec.Result().Cookies())
}

func TestInvalidSessionIsReplaced(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/view", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: "12345"})

	id := HandleSessionCookie(nil, rec, req)
	assert.NotEqual(t, "12345", id)
	assert.Len(t, rec.Result().Cookies(), 1)
}

func TestJsonHandlerWritesHttpErrors(t *testing.T) {
	handler := JsonHandler(nil, func(w http.ResponseWriter, r *http.Request, sessionId string, enc Encoder) error {
		return BadRequest(errors.New("bad page"))
	})
	rec := httptest.NewRecorder()
	handler(rec, httptest.NewRequest(http.MethodGet, "/api/page/jump?page=x", nil))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"error":"bad page"}`, rec.Body.String())
}

func TestJsonHandlerOptions(t *testing.T) {
	called := false
	handler := JsonHandler(nil, func(w http.ResponseWriter, r *http.Request, sessionId string, enc Encoder) error {
		called = true
		return nil
	})
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodOptions, "/api/view", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	handler(rec, req)

	assert.False(t, called)
	assert.Equal(t, http.StatusAccepted, rec.Code)
	assert.Equal(t, "http://localhost:3000", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestQueueHandlerBatches(t *testing.T) {
	var mu sync.Mutex
	batches := make([][]int, 0)
	q := NewQueueHandler(func(items []int) {
		mu.Lock()
		defer mu.Unlock()
		batches = append(batches, append([]int(nil), items...))
	}, 2, time.Hour)

	q.Add(1, 2, 3)
	q.Add(4, 5)
	q.Close()

	mu.Lock()
	defer mu.Unlock()
	total := 0
	for _, b := range batches {
		assert.LessOrEqual(t, len(b), 2)
		total += len(b)
	}
	assert.Equal(t, 5, total)
	assert.Equal(t, 0, q.Len())
}

func TestRunServersWithShutdown(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	srv := NewServerWithTimeouts(&http.Server{Addr: "127.0.0.1:0", Handler: http.NotFoundHandler()}, TimeoutConfig{ReadHeader: time.Second})
	hookRan := false

	go func() {
		time.Sleep(50 * time.Millisecond)
		cancel()
	}()
	err := RunServersWithShutdown(ctx, TimeoutConfig{Shutdown: time.Second}, []NamedServer{{Name: "test", Server: srv}}, func(ctx context.Context) error {
		hookRan = true
		return nil
	})

	assert.NoError(t, err)
	assert.True(t, hookRan)
	assert.Equal(t, time.Second, srv.ReadHeaderTimeout)
}
