// Package render turns a page of products into the plain data a display
// layer needs: table rows with fallbacks applied and pagination metadata.
package render

import (
	"fmt"
	"strconv"

	"github.com/matst80/slask-browser/pkg/paging"
	"github.com/matst80/slask-browser/pkg/types"
)

const (
	MaxDescriptionLength = 100
	NoDescription        = "No description"
	NoCategory           = "N/A"
	NoResults            = "No products found"
)

type Row struct {
	Id          types.ProductId  `json:"id"`
	Title       string           `json:"title"`
	Price       float64          `json:"price"`
	PriceLabel  string           `json:"priceLabel"`
	Category    string           `json:"category"`
	CategoryId  types.CategoryId `json:"categoryId,omitempty"`
	Description string           `json:"description"`
	Image       string           `json:"image"`
	SubImages   []string         `json:"subImages"`
}

type Pagination struct {
	CurrentPage int           `json:"currentPage"`
	TotalPages  int           `json:"totalPages"`
	PageSize    int           `json:"pageSize"`
	TotalItems  int           `json:"totalItems"`
	From        int           `json:"from"`
	To          int           `json:"to"`
	Window      []paging.Link `json:"window"`
	PrevEnabled bool          `json:"prevEnabled"`
	NextEnabled bool          `json:"nextEnabled"`
}

type View struct {
	Version    uint64         `json:"version"`
	Criteria   types.Criteria `json:"criteria"`
	Rows       []Row          `json:"rows"`
	Pagination Pagination     `json:"pagination"`
	Summary    string         `json:"summary"`
	Empty      bool           `json:"empty"`
	Message    string         `json:"message,omitempty"`
}

// Sink is the display side, it receives a view after every recompute or
// navigation.
type Sink interface {
	Render(view View)
}

func FormatPrice(price float64) string {
	return "$" + strconv.FormatFloat(price, 'f', -1, 64)
}

func ShortDescription(p *types.Product) string {
	desc, ok := p.GetDescription()
	if !ok {
		return NoDescription
	}
	runes := []rune(desc)
	if len(runes) > MaxDescriptionLength {
		return string(runes[:MaxDescriptionLength]) + "..."
	}
	return desc
}

func NewRow(p *types.Product) Row {
	row := Row{
		Id:          p.Id,
		Title:       p.Title,
		Price:       p.Price,
		PriceLabel:  FormatPrice(p.Price),
		Category:    NoCategory,
		Description: ShortDescription(p),
		Image:       MainImage(p.Images),
		SubImages:   SubImages(p.Images),
	}
	if p.Category != nil {
		row.CategoryId = p.Category.Id
		if p.Category.Name != "" {
			row.Category = p.Category.Name
		}
	}
	return row
}

func NewView(page paging.Page[types.Product], criteria types.Criteria) View {
	rows := make([]Row, len(page.Rows))
	for i := range page.Rows {
		rows[i] = NewRow(&page.Rows[i])
	}
	view := View{
		Criteria: criteria,
		Rows:     rows,
		Pagination: Pagination{
			CurrentPage: page.CurrentPage,
			TotalPages:  page.TotalPages,
			PageSize:    page.PageSize,
			TotalItems:  page.TotalItems,
			From:        page.From,
			To:          page.To,
			Window:      page.Window,
			PrevEnabled: page.HasPrev,
			NextEnabled: page.HasNext,
		},
		Summary: fmt.Sprintf("Showing %d - %d of %d products", page.From, page.To, page.TotalItems),
		Empty:   len(rows) == 0,
	}
	if view.Empty {
		view.Message = NoResults
	}
	return view
}
