package server

import (
	"log"
	"net/http"

	"github.com/bytedance/sonic"
	"github.com/matst80/slask-browser/pkg/common"
)

// Stream writes the session's views as json lines, the current one first
// and then every change, until the client goes away.
func (ws *WebServer) Stream(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming not supported", http.StatusInternalServerError)
		return
	}
	sessionId := common.HandleSessionCookie(ws.Tracking, w, r)
	b := ws.Sessions.Get(r.Context(), sessionId)

	updates, cancel := b.Subscribe()
	defer cancel()
	openStreams.Inc()
	defer openStreams.Dec()

	w.Header().Set("Content-Type", "application/jsonl+json; charset=UTF-8")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("X-Accel-Buffering", "no")
	w.WriteHeader(http.StatusOK)

	enc := sonic.ConfigDefault.NewEncoder(w)
	current := b.View()
	if err := enc.Encode(current); err != nil {
		return
	}
	flusher.Flush()
	last := current.Version

	for {
		select {
		case <-r.Context().Done():
			return
		case view, ok := <-updates:
			if !ok {
				return
			}
			if view.Version <= last {
				continue
			}
			if err := enc.Encode(view); err != nil {
				log.Printf("Failed to write stream for session %s: %v", sessionId, err)
				return
			}
			flusher.Flush()
			last = view.Version
		}
	}
}
