package types

import (
	"io"
	"net/http"
	"net/url"

	"github.com/bytedance/sonic"
	"github.com/gorilla/schema"
)

const (
	DefaultPageSize = 10
	MaxPageSize     = 1000
)

type SearchEvent struct {
	Query string `json:"q" schema:"q"`
}

type CategoryEvent struct {
	Id CategoryId `json:"id" schema:"id"`
}

func (e *CategoryEvent) CategoryId() CategoryId {
	return NormalizeCategoryId(string(e.Id))
}

type SortEvent struct {
	Direction string `json:"dir" schema:"dir"`
}

func (e *SortEvent) SortDirection() SortDirection {
	return ParseSortDirection(e.Direction)
}

type PageSizeEvent struct {
	Size int `json:"size" schema:"size,default:10"`
}

type StepEvent struct {
	Direction int `json:"dir" schema:"dir"`
}

type JumpEvent struct {
	Page int `json:"page" schema:"page"`
}

type sanitizer interface {
	Sanitize()
}

func clamp[T int | float64](value, min, max T) T {
	if value < min {
		return min
	}
	if value > max {
		return max
	}
	return value
}

func (e *PageSizeEvent) Sanitize() {
	e.Size = clamp(e.Size, 1, MaxPageSize)
}

func (e *StepEvent) Sanitize() {
	switch {
	case e.Direction < 0:
		e.Direction = -1
	case e.Direction > 0:
		e.Direction = 1
	}
}

var decoder = schema.NewDecoder()

func init() {
	decoder.IgnoreUnknownKeys(true)
}

// DecodeEvent reads an event from the query string, or from a JSON body when
// one is posted.
func DecodeEvent[T any](r *http.Request, out *T) error {
	var err error
	if r.Method == http.MethodGet || r.Body == nil {
		err = decodeQuery(r.URL.Query(), out)
	} else {
		var body []byte
		body, err = io.ReadAll(r.Body)
		if err == nil {
			if len(body) == 0 {
				err = decodeQuery(r.URL.Query(), out)
			} else {
				err = sonic.Unmarshal(body, out)
			}
		}
	}
	if s, ok := any(out).(sanitizer); ok {
		s.Sanitize()
	}
	return err
}

func decodeQuery[T any](query url.Values, out *T) error {
	return decoder.Decode(out, query)
}
