package server

import (
	"net/http"

	"github.com/matst80/slask-browser/pkg/common"
	"github.com/matst80/slask-browser/pkg/render"
	"github.com/matst80/slask-browser/pkg/session"
	"github.com/matst80/slask-browser/pkg/types"
)

func (ws *WebServer) View(w http.ResponseWriter, r *http.Request) {
	common.JsonHandler(ws.Tracking, func(w http.ResponseWriter, r *http.Request, sessionId string, enc common.Encoder) error {
		privateHeaders(w)
		w.WriteHeader(http.StatusOK)
		return enc.Encode(ws.Sessions.Get(r.Context(), sessionId).View())
	})(w, r)
}

func (ws *WebServer) Categories(w http.ResponseWriter, r *http.Request) {
	common.JsonHandler(ws.Tracking, func(w http.ResponseWriter, r *http.Request, sessionId string, enc common.Encoder) error {
		publicHeaders(w, "3600")
		w.WriteHeader(http.StatusOK)
		return enc.Encode(ws.Catalog.Categories())
	})(w, r)
}

// Search only records the text, the filter runs after the quiet period and
// its view is pushed to the stream.
func (ws *WebServer) Search(w http.ResponseWriter, r *http.Request) {
	eventHandler(ws, "search", http.StatusAccepted, func(b *session.Browser, e *types.SearchEvent) render.View {
		return b.SearchChanged(e.Query)
	})(w, r)
}

func (ws *WebServer) SelectCategory(w http.ResponseWriter, r *http.Request) {
	eventHandler(ws, "category", http.StatusOK, func(b *session.Browser, e *types.CategoryEvent) render.View {
		return b.SelectCategory(e.CategoryId())
	})(w, r)
}

func (ws *WebServer) SortByPrice(w http.ResponseWriter, r *http.Request) {
	eventHandler(ws, "sort_price", http.StatusOK, func(b *session.Browser, e *types.SortEvent) render.View {
		return b.SetPriceSort(e.SortDirection())
	})(w, r)
}

func (ws *WebServer) SortByName(w http.ResponseWriter, r *http.Request) {
	eventHandler(ws, "sort_name", http.StatusOK, func(b *session.Browser, e *types.SortEvent) render.View {
		return b.SetNameSort(e.SortDirection())
	})(w, r)
}

func (ws *WebServer) PageSize(w http.ResponseWriter, r *http.Request) {
	eventHandler(ws, "page_size", http.StatusOK, func(b *session.Browser, e *types.PageSizeEvent) render.View {
		return b.SetPageSize(e.Size)
	})(w, r)
}

// StepPage and JumpToPage answer with the unchanged view when the target
// page is out of range.
func (ws *WebServer) StepPage(w http.ResponseWriter, r *http.Request) {
	eventHandler(ws, "page_step", http.StatusOK, func(b *session.Browser, e *types.StepEvent) render.View {
		view, _ := b.Step(e.Direction)
		return view
	})(w, r)
}

func (ws *WebServer) JumpToPage(w http.ResponseWriter, r *http.Request) {
	eventHandler(ws, "page_jump", http.StatusOK, func(b *session.Browser, e *types.JumpEvent) render.View {
		view, _ := b.JumpTo(e.Page)
		return view
	})(w, r)
}
