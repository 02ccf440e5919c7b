package common

import (
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/matst80/slask-browser/pkg/types"
)

const SessionCookieName = "sid"

func generateSessionId() string {
	return uuid.NewString()
}

func setSessionCookie(w http.ResponseWriter, r *http.Request, sessionId string) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    sessionId,
		Domain:   strings.TrimPrefix(hostOnly(r.Host), "."),
		SameSite: http.SameSiteLaxMode,
		HttpOnly: true,
		MaxAge:   2592000,
		Path:     "/",
	})
}

func hostOnly(host string) string {
	if i := strings.LastIndex(host, ":"); i != -1 && !strings.HasSuffix(host, "]") {
		return host[:i]
	}
	return host
}

// HandleSessionCookie returns the visitor's session id, issuing a new one
// when the cookie is missing or not a valid id. New sessions are tracked.
func HandleSessionCookie(trk types.Tracking, w http.ResponseWriter, r *http.Request) string {
	if c, err := r.Cookie(SessionCookieName); err == nil {
		if _, err = uuid.Parse(c.Value); err == nil {
			return c.Value
		}
	}
	sessionId := generateSessionId()
	if trk != nil {
		go trk.TrackSession(sessionId, r)
	}
	setSessionCookie(w, r, sessionId)
	return sessionId
}
