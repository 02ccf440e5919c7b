package server

import (
	"net/http"

	"github.com/matst80/slask-browser/pkg/common"
	"github.com/matst80/slask-browser/pkg/render"
	"github.com/matst80/slask-browser/pkg/session"
	"github.com/matst80/slask-browser/pkg/types"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	handledEvents = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "slaskbrowser_events_total",
		Help: "The total number of handled user events",
	}, []string{"event"})
	rejectedEvents = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "slaskbrowser_events_rejected_total",
		Help: "The total number of events that could not be decoded",
	}, []string{"event"})
	openStreams = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "slaskbrowser_streams_open",
		Help: "The number of connected view streams",
	})
)

func privateHeaders(w http.ResponseWriter) {
	w.Header().Set("Cache-Control", "private, no-store")
	w.Header().Set("Age", "0")
}

func publicHeaders(w http.ResponseWriter, cacheTime string) {
	w.Header().Set("Cache-Control", "public, max-age="+cacheTime)
	w.Header().Set("Age", "0")
}

// eventHandler decodes T from the request, applies it to the visitor's
// session and writes the resulting view with status.
func eventHandler[T any](ws *WebServer, name string, status int, apply func(b *session.Browser, event *T) render.View) http.HandlerFunc {
	counter := handledEvents.WithLabelValues(name)
	rejected := rejectedEvents.WithLabelValues(name)
	return common.JsonHandler(ws.Tracking, func(w http.ResponseWriter, r *http.Request, sessionId string, enc common.Encoder) error {
		var event T
		if err := types.DecodeEvent(r, &event); err != nil {
			rejected.Inc()
			return common.BadRequest(err)
		}
		counter.Inc()
		view := apply(ws.Sessions.Get(r.Context(), sessionId), &event)
		privateHeaders(w)
		w.WriteHeader(status)
		return enc.Encode(view)
	})
}

// TrackSearches turns evaluated searches into tracking events.
func TrackSearches(trk types.Tracking) func(sessionId string, view render.View) {
	return func(sessionId string, view render.View) {
		if trk == nil {
			return
		}
		trk.TrackSearch(sessionId, types.SearchTracking{
			Criteria:        view.Criteria,
			NumberOfResults: view.Pagination.TotalItems,
			Page:            view.Pagination.CurrentPage,
			PageSize:        view.Pagination.PageSize,
		})
	}
}
