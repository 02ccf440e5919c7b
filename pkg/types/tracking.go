package types

import (
	"net/http"
)

type SearchTracking struct {
	Criteria        Criteria `json:"criteria"`
	NumberOfResults int      `json:"noi"`
	Page            int      `json:"page"`
	PageSize        int      `json:"pageSize"`
}

type Tracking interface {
	TrackSession(sessionId string, r *http.Request)
	TrackSearch(sessionId string, search SearchTracking)
	Close() error
}
