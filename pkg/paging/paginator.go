// Package paging slices a working set into pages and derives the
// navigation metadata shown next to a result table.
package paging

import "slices"

// Window sizes, up to fullWindow pages are listed without ellipsis markers.
const (
	fullWindow = 7
	edgePages  = 3
)

type Link struct {
	Page     int  `json:"page,omitempty"`
	Ellipsis bool `json:"ellipsis,omitempty"`
	Current  bool `json:"current,omitempty"`
}

type Page[T any] struct {
	Rows        []T    `json:"rows"`
	CurrentPage int    `json:"currentPage"`
	TotalPages  int    `json:"totalPages"`
	PageSize    int    `json:"pageSize"`
	TotalItems  int    `json:"totalItems"`
	From        int    `json:"from"`
	To          int    `json:"to"`
	Window      []Link `json:"window"`
	HasPrev     bool   `json:"hasPrev"`
	HasNext     bool   `json:"hasNext"`
}

func TotalPages(items, pageSize int) int {
	pageSize = max(pageSize, 1)
	return max(1, (items+pageSize-1)/pageSize)
}

// Slice returns the rows of the current page. The page number is not clamped,
// an out of range page yields no rows.
func Slice[T any](items []T, pageSize, currentPage int) Page[T] {
	pageSize = max(pageSize, 1)
	total := TotalPages(len(items), pageSize)
	page := Page[T]{
		Rows:        []T{},
		CurrentPage: currentPage,
		TotalPages:  total,
		PageSize:    pageSize,
		TotalItems:  len(items),
		Window:      Window(currentPage, total),
		HasPrev:     currentPage > 1,
		HasNext:     currentPage < total,
	}
	if currentPage < 1 {
		return page
	}
	start := (currentPage - 1) * pageSize
	if start >= len(items) {
		return page
	}
	end := min(start+pageSize, len(items))
	page.Rows = slices.Clone(items[start:end])
	page.From = start + 1
	page.To = end
	return page
}

// Window lists the page links to show. Past fullWindow pages it keeps the
// first and last page and a three page run around the current one, with at
// most two ellipsis markers.
func Window(currentPage, totalPages int) []Link {
	link := func(p int) Link {
		return Link{Page: p, Current: p == currentPage}
	}
	if totalPages <= fullWindow {
		ret := make([]Link, 0, totalPages)
		for p := 1; p <= totalPages; p++ {
			ret = append(ret, link(p))
		}
		return ret
	}

	ret := make([]Link, 0, fullWindow)
	ret = append(ret, link(1))
	if currentPage > edgePages {
		ret = append(ret, Link{Ellipsis: true})
	}

	start := max(2, currentPage-1)
	end := min(totalPages-1, currentPage+1)
	if currentPage <= edgePages {
		end = min(edgePages+1, totalPages-1)
	}
	if currentPage >= totalPages-2 {
		start = max(2, totalPages-edgePages)
	}
	for p := start; p <= end; p++ {
		ret = append(ret, link(p))
	}

	if currentPage < totalPages-2 {
		ret = append(ret, Link{Ellipsis: true})
	}
	return append(ret, link(totalPages))
}
