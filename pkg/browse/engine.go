// Package browse derives the working set, the filtered and sorted view of
// the catalog for a set of criteria.
package browse

import (
	"strings"

	"github.com/matst80/slask-browser/pkg/sorting"
	"github.com/matst80/slask-browser/pkg/types"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var (
	noRecomputes = promauto.NewCounter(prometheus.CounterOpts{
		Name: "slaskbrowser_recomputes_total",
		Help: "The total number of working set recomputes",
	})
)

type Engine struct {
	Language language.Tag
}

func NewEngine(tag language.Tag) *Engine {
	return &Engine{Language: tag}
}

// Recompute always returns a freshly allocated slice, the catalog is never
// reordered or aliased. An empty result is not an error.
func (e *Engine) Recompute(catalog []types.Product, c types.Criteria) []types.Product {
	noRecomputes.Inc()
	if c.IsEmpty() {
		return append(make([]types.Product, 0, len(catalog)), catalog...)
	}
	match := e.matcher(c)
	result := make([]types.Product, 0, len(catalog))
	for i := range catalog {
		if match(&catalog[i]) {
			result = append(result, catalog[i])
		}
	}
	sorting.SortProducts(result, c, e.Language)
	return result
}

func (e *Engine) matcher(c types.Criteria) func(p *types.Product) bool {
	category := c.Category
	term := c.SearchTerm()
	var fold cases.Caser
	if term != "" {
		fold = cases.Fold()
		term = fold.String(term)
	}
	return func(p *types.Product) bool {
		if category.IsSet() && !p.HasCategory(category) {
			return false
		}
		if term != "" && !strings.Contains(fold.String(p.Title), term) {
			return false
		}
		return true
	}
}

var defaultEngine = NewEngine(language.English)

func Recompute(catalog []types.Product, c types.Criteria) []types.Product {
	return defaultEngine.Recompute(catalog, c)
}
