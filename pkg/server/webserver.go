package server

import (
	"net/http"
	"net/http/pprof"

	"github.com/matst80/slask-browser/pkg/catalog"
	"github.com/matst80/slask-browser/pkg/session"
	"github.com/matst80/slask-browser/pkg/types"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// WebServer exposes the browsing sessions over http, one session per
// visitor cookie.
type WebServer struct {
	Catalog  *catalog.Catalog
	Sessions *session.Manager
	Tracking types.Tracking
}

func NewWebServer(c *catalog.Catalog, sessions *session.Manager, trk types.Tracking) *WebServer {
	return &WebServer{
		Catalog:  c,
		Sessions: sessions,
		Tracking: trk,
	}
}

func (ws *WebServer) ClientHandler() *http.ServeMux {
	srv := http.NewServeMux()

	srv.HandleFunc("/health", ws.Health)
	srv.HandleFunc("GET /api/view", ws.View)
	srv.HandleFunc("GET /api/categories", ws.Categories)
	srv.HandleFunc("/api/search", ws.Search)
	srv.HandleFunc("/api/category", ws.SelectCategory)
	srv.HandleFunc("/api/sort/price", ws.SortByPrice)
	srv.HandleFunc("/api/sort/name", ws.SortByName)
	srv.HandleFunc("/api/page-size", ws.PageSize)
	srv.HandleFunc("/api/page/step", ws.StepPage)
	srv.HandleFunc("/api/page/jump", ws.JumpToPage)
	srv.HandleFunc("GET /api/stream", ws.Stream)

	return srv
}

// DebugHandler serves health, metrics and optionally pprof on a separate
// listener.
func (ws *WebServer) DebugHandler(enableProfiling bool) *http.ServeMux {
	srv := http.NewServeMux()
	srv.HandleFunc("/health", ws.Health)
	srv.Handle("/metrics", promhttp.Handler())
	if enableProfiling {
		srv.HandleFunc("/debug/pprof/", pprof.Index)
		srv.HandleFunc("/debug/pprof/cmdline", pprof.Cmdline)
		srv.HandleFunc("/debug/pprof/profile", pprof.Profile)
		srv.HandleFunc("/debug/pprof/symbol", pprof.Symbol)
		srv.HandleFunc("/debug/pprof/trace", pprof.Trace)
	}
	return srv
}

func (ws *WebServer) Health(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("ok"))
}
