package common

import (
	"errors"
	"log"
	"net/http"

	"github.com/bytedance/sonic"
	"github.com/matst80/slask-browser/pkg/types"
)

// Encoder is the subset of sonic's stream encoder the handlers use.
type Encoder interface {
	Encode(v any) error
}

// HttpError carries the status a handler wants written for a failed request.
type HttpError struct {
	Status int
	Err    error
}

func (e *HttpError) Error() string {
	return e.Err.Error()
}

func (e *HttpError) Unwrap() error {
	return e.Err
}

func BadRequest(err error) error {
	return &HttpError{Status: http.StatusBadRequest, Err: err}
}

func JsonHandler(trk types.Tracking, fn func(w http.ResponseWriter, r *http.Request, sessionId string, enc Encoder) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodOptions {
			RespondToOptions(w, r)
			return
		}
		sessionId := HandleSessionCookie(trk, w, r)
		w.Header().Set("Content-Type", "application/json")
		if origin := r.Header.Get("Origin"); origin != "" {
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Access-Control-Allow-Credentials", "true")
		}

		err := fn(w, r, sessionId, sonic.ConfigDefault.NewEncoder(w))
		if err != nil {
			log.Printf("Error handling request %s %s: %v", r.Method, r.URL.Path, err)
			var httpErr *HttpError
			if errors.As(err, &httpErr) {
				w.WriteHeader(httpErr.Status)
				sonic.ConfigDefault.NewEncoder(w).Encode(map[string]string{"error": httpErr.Error()})
			}
		}
	}
}

func RespondToOptions(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Cache-Control", "public, max-age=3600")
	origin := r.Header.Get("Origin")
	if origin != "" {
		w.Header().Set("Access-Control-Allow-Origin", origin)
		w.Header().Set("Access-Control-Max-Age", "86400")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "*")
		w.Header().Set("Access-Control-Allow-Credentials", "true")
	}
	w.Header().Set("Age", "0")
	w.WriteHeader(http.StatusAccepted)
}
