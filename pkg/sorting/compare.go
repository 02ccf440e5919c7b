package sorting

import (
	"cmp"
	"slices"

	"github.com/matst80/slask-browser/pkg/types"
	"golang.org/x/text/cases"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// Collator compares display strings case-insensitively in locale order.
// A collator keeps internal buffers, so it must not be shared between goroutines.
type Collator struct {
	col  *collate.Collator
	fold cases.Caser
}

func NewCollator(tag language.Tag) *Collator {
	return &Collator{
		col:  collate.New(tag, collate.IgnoreCase),
		fold: cases.Fold(),
	}
}

func (c *Collator) Compare(a, b string) int {
	return c.col.CompareString(c.fold.String(a), c.fold.String(b))
}

// ProductComparator orders by price first and title second. Price dominates
// whenever its direction is set, title only breaks price ties.
func ProductComparator(priceSort, nameSort types.SortDirection, tag language.Tag) func(a, b types.Product) int {
	var col *Collator
	if nameSort.IsSet() {
		col = NewCollator(tag)
	}
	return func(a, b types.Product) int {
		if priceSort.IsSet() {
			if r := cmp.Compare(a.Price, b.Price); r != 0 {
				return priceSort.Apply(r)
			}
		}
		if col != nil {
			return nameSort.Apply(col.Compare(a.Title, b.Title))
		}
		return 0
	}
}

// SortProducts sorts in place. Without any sort direction the slice is left
// untouched, ties keep their incoming order.
func SortProducts(items []types.Product, c types.Criteria, tag language.Tag) {
	if !c.HasSort() {
		return
	}
	slices.SortStableFunc(items, ProductComparator(c.PriceSort, c.NameSort, tag))
}
