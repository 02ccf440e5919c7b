package tracking

import (
	"log"
	"net/http"
	"time"

	"github.com/matst80/slask-browser/pkg/common"
	"github.com/matst80/slask-browser/pkg/messaging"
	"github.com/matst80/slask-browser/pkg/types"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	amqp "github.com/rabbitmq/amqp091-go"
)

var (
	sentEvents = promauto.NewCounter(prometheus.CounterOpts{
		Name: "slaskbrowser_tracking_events_total",
		Help: "The total number of published tracking events",
	})
	failedEvents = promauto.NewCounter(prometheus.CounterOpts{
		Name: "slaskbrowser_tracking_failures_total",
		Help: "The total number of tracking events that could not be published",
	})
)

const (
	EventSession uint16 = 0
	EventSearch  uint16 = 1

	batchSize     = 50
	flushInterval = 2 * time.Second
)

type publisher func(events []any) error

// RabbitTracking queues events and publishes them in batches from a
// background goroutine, request handlers never wait for the broker.
type RabbitTracking struct {
	country    string
	connection *amqp.Connection
	queue      *common.QueueHandler[any]
}

func NewRabbitTracking(url, country string) (*RabbitTracking, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, err
	}
	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, err
	}
	defer ch.Close()
	if err = messaging.DefineTopic(ch, messaging.GlobalPrefix, messaging.TrackingTopic); err != nil {
		conn.Close()
		return nil, err
	}
	ret := newTracking(country, func(events []any) error {
		return messaging.SendChange(conn, messaging.GlobalPrefix, messaging.TrackingTopic, events...)
	})
	ret.connection = conn
	return ret, nil
}

func newTracking(country string, publish publisher) *RabbitTracking {
	return &RabbitTracking{
		country: country,
		queue: common.NewQueueHandler(func(events []any) {
			if err := publish(events); err != nil {
				failedEvents.Add(float64(len(events)))
				log.Printf("Error sending %d tracking events: %v", len(events), err)
				return
			}
			sentEvents.Add(float64(len(events)))
		}, batchSize, flushInterval),
	}
}

// Close publishes the queued events before closing the connection.
func (rt *RabbitTracking) Close() error {
	rt.queue.Close()
	if rt.connection == nil {
		return nil
	}
	return rt.connection.Close()
}

type BaseEvent struct {
	SessionId string `json:"session_id"`
	Country   string `json:"country,omitempty"`
	Context   string `json:"context,omitempty"`
	Event     uint16 `json:"event"`
	Timestamp int64  `json:"ts"`
}

func (rt *RabbitTracking) baseEvent(event uint16, sessionId string) *BaseEvent {
	return &BaseEvent{
		SessionId: sessionId,
		Country:   rt.country,
		Context:   "browse",
		Event:     event,
		Timestamp: time.Now().Unix(),
	}
}

type Session struct {
	*BaseEvent
	UserAgent    string `json:"user_agent,omitempty"`
	Ip           string `json:"ip,omitempty"`
	Language     string `json:"language,omitempty"`
	PragmaHeader string `json:"pragma,omitempty"`
}

func clientIp(r *http.Request) string {
	ip := r.Header.Get("X-Real-Ip")
	if ip == "" {
		ip = r.Header.Get("X-Forwarded-For")
	}
	if ip == "" {
		ip = r.RemoteAddr
	}
	return ip
}

func (rt *RabbitTracking) TrackSession(sessionId string, r *http.Request) {
	rt.queue.Add(&Session{
		BaseEvent:    rt.baseEvent(EventSession, sessionId),
		Language:     r.Header.Get("Accept-Language"),
		UserAgent:    r.UserAgent(),
		Ip:           clientIp(r),
		PragmaHeader: r.Header.Get("Pragma"),
	})
}

type SearchEventData struct {
	*BaseEvent
	types.SearchTracking
}

func (rt *RabbitTracking) TrackSearch(sessionId string, search types.SearchTracking) {
	rt.queue.Add(&SearchEventData{
		BaseEvent:      rt.baseEvent(EventSearch, sessionId),
		SearchTracking: search,
	})
}
