package types

import "strings"

type SortDirection string

const (
	SortNone       SortDirection = ""
	SortAscending  SortDirection = "asc"
	SortDescending SortDirection = "desc"
)

// ParseSortDirection accepts the dropdown values (asc/desc) and a few long
// forms. Anything else means no sorting.
func ParseSortDirection(value string) SortDirection {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "asc", "ascending", "up":
		return SortAscending
	case "desc", "descending", "down":
		return SortDescending
	}
	return SortNone
}

func (d SortDirection) IsSet() bool {
	return d == SortAscending || d == SortDescending
}

// Apply flips the sign of an ascending comparison result for descending order.
func (d SortDirection) Apply(cmp int) int {
	if d == SortDescending {
		return -cmp
	}
	return cmp
}

type Criteria struct {
	Search    string        `json:"search"`
	Category  CategoryId    `json:"category,omitempty"`
	PriceSort SortDirection `json:"priceSort,omitempty"`
	NameSort  SortDirection `json:"nameSort,omitempty"`
}

func (c Criteria) HasSort() bool {
	return c.PriceSort.IsSet() || c.NameSort.IsSet()
}

func (c Criteria) SearchTerm() string {
	return strings.TrimSpace(c.Search)
}

// IsEmpty reports whether the criteria would return the catalog unchanged.
func (c Criteria) IsEmpty() bool {
	return c.SearchTerm() == "" && !c.Category.IsSet() && !c.HasSort()
}
