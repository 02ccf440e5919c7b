package tracking

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/bytedance/sonic"
	"github.com/matst80/slask-browser/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type capture struct {
	mu     sync.Mutex
	events []any
	err    error
}

func (c *capture) publish(events []any) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.events = append(c.events, events...)
	return c.err
}

func TestEventsArePublishedOnClose(t *testing.T) {
	c := &capture{}
	rt := newTracking("se", c.publish)

	req := httptest.NewRequest(http.MethodGet, "/api/view", nil)
	req.Header.Set("X-Real-Ip", "10.0.0.1")
	req.Header.Set("User-Agent", "test-agent")
	rt.TrackSession("abc", req)
	rt.TrackSearch("abc", types.SearchTracking{
		Criteria:        types.Criteria{Search: "shoe", Category: "1"},
		NumberOfResults: 4,
		Page:            1,
		PageSize:        10,
	})
	require.NoError(t, rt.Close())

	require.Len(t, c.events, 2)
	session, ok := c.events[0].(*Session)
	require.True(t, ok)
	assert.Equal(t, "10.0.0.1", session.Ip)
	assert.Equal(t, "test-agent", session.UserAgent)
	assert.Equal(t, EventSession, session.Event)
	assert.Equal(t, "se", session.Country)

	data, err := sonic.Marshal(c.events[1])
	require.NoError(t, err)
	var decoded map[string]any
	require.NoError(t, sonic.Unmarshal(data, &decoded))
	assert.Equal(t, "abc", decoded["session_id"])
	assert.EqualValues(t, EventSearch, decoded["event"])
	assert.EqualValues(t, 4, decoded["noi"])
}

func TestPublishFailuresAreSwallowed(t *testing.T) {
	c := &capture{err: errors.New("broker down")}
	rt := newTracking("se", c.publish)
	rt.TrackSearch("abc", types.SearchTracking{})
	assert.NoError(t, rt.Close())
}

func TestClientIpFallbacks(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "192.0.2.1:1234"
	assert.Equal(t, "192.0.2.1:1234", clientIp(req))

	req.Header.Set("X-Forwarded-For", "203.0.113.7")
	assert.Equal(t, "203.0.113.7", clientIp(req))
}
