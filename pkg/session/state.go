// Package session keeps the per visitor browsing state: filter criteria,
// pagination and the working set derived from them.
package session

import (
	"github.com/matst80/slask-browser/pkg/paging"
	"github.com/matst80/slask-browser/pkg/types"
)

// State is everything needed to rebuild a session, the working set is
// always derived from it and the catalog.
type State struct {
	// SearchInput is the raw text of the search box, Criteria.Search is the
	// value last applied by the debounced evaluation.
	SearchInput string         `json:"searchInput"`
	Criteria    types.Criteria `json:"criteria"`
	Paging      paging.State   `json:"paging"`
}

func NewState(pageSize int) State {
	return State{Paging: paging.NewState(pageSize)}
}

func (s State) WithSearchInput(text string) State {
	s.SearchInput = text
	return s
}

func (s State) ApplySearch() State {
	s.Criteria.Search = s.SearchInput
	s.Paging = s.Paging.Reset()
	return s
}

func (s State) WithCategory(id types.CategoryId) State {
	s.Criteria.Category = id
	s.Paging = s.Paging.Reset()
	return s
}

func (s State) WithPriceSort(d types.SortDirection) State {
	s.Criteria.PriceSort = d
	s.Paging = s.Paging.Reset()
	return s
}

func (s State) WithNameSort(d types.SortDirection) State {
	s.Criteria.NameSort = d
	s.Paging = s.Paging.Reset()
	return s
}

func (s State) WithPageSize(size int) State {
	s.Paging = s.Paging.WithPageSize(size)
	return s
}
