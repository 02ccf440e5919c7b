// Package catalog holds the product list fetched at startup and the
// category options derived from it.
package catalog

import (
	"slices"

	"github.com/matst80/slask-browser/pkg/sorting"
	"github.com/matst80/slask-browser/pkg/types"
	"golang.org/x/text/language"
)

// Catalog is set once and never changes afterwards, reloading means building
// a new one.
type Catalog struct {
	products   []types.Product
	categories []types.Category
}

func NewCatalog(products []types.Product, tag language.Tag) *Catalog {
	c := &Catalog{
		products: slices.Clone(products),
	}
	if c.products == nil {
		c.products = []types.Product{}
	}
	c.categories = BuildCategoryIndex(c.products, tag)
	return c
}

// Products returns the catalog in source order. The slice is shared and must
// be treated as read only.
func (c *Catalog) Products() []types.Product {
	return c.products
}

func (c *Catalog) Len() int {
	return len(c.products)
}

func (c *Catalog) Categories() []types.Category {
	return slices.Clone(c.categories)
}

// BuildCategoryIndex lists each category once, the first product carrying an
// id decides its name, sorted by name in locale order.
func BuildCategoryIndex(products []types.Product, tag language.Tag) []types.Category {
	seen := make(map[types.CategoryId]struct{})
	ret := make([]types.Category, 0)
	for _, p := range products {
		if p.Category == nil || !p.Category.Id.IsSet() {
			continue
		}
		if _, found := seen[p.Category.Id]; found {
			continue
		}
		seen[p.Category.Id] = struct{}{}
		ret = append(ret, *p.Category)
	}
	col := sorting.NewCollator(tag)
	slices.SortStableFunc(ret, func(a, b types.Category) int {
		return col.Compare(a.Name, b.Name)
	})
	return ret
}
