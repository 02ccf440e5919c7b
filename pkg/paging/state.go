package paging

type State struct {
	PageSize    int `json:"pageSize"`
	CurrentPage int `json:"currentPage"`
}

func NewState(pageSize int) State {
	return State{PageSize: max(pageSize, 1), CurrentPage: 1}
}

func (s State) Reset() State {
	s.CurrentPage = 1
	return s
}

// WithPageSize always goes back to the first page.
func (s State) WithPageSize(pageSize int) State {
	return NewState(pageSize)
}

// Step moves one page back or forward. A move that would leave
// [1, totalPages] is ignored and reported as false.
func (s State) Step(direction, totalPages int) (State, bool) {
	if direction != -1 && direction != 1 {
		return s, false
	}
	next := s.CurrentPage + direction
	if next < 1 || next > totalPages {
		return s, false
	}
	s.CurrentPage = next
	return s, true
}

// JumpTo sets the page as is. Callers only pass numbers taken from the
// current Window, which are always in range.
func (s State) JumpTo(page int) State {
	s.CurrentPage = page
	return s
}

func (s State) InRange(page, totalPages int) bool {
	return page >= 1 && page <= totalPages
}

// Clamp pulls the current page back into range, used when restoring a
// persisted state against a catalog that may have changed.
func (s State) Clamp(totalPages int) State {
	s.PageSize = max(s.PageSize, 1)
	s.CurrentPage = min(max(s.CurrentPage, 1), max(totalPages, 1))
	return s
}
