package types

import (
	"bytes"
	"strconv"
	"strings"

	"github.com/bytedance/sonic"
)

type ProductId int64

// CategoryId is the canonical string form of a category id. The catalog API
// sends numbers while query parameters arrive as strings, both are normalized
// into this type so plain == comparison works.
type CategoryId string

const NoCategory CategoryId = ""

func (c CategoryId) IsSet() bool {
	return c != NoCategory
}

func NormalizeCategoryId(raw string) CategoryId {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return NoCategory
	}
	if f, err := strconv.ParseFloat(raw, 64); err == nil {
		return CategoryId(strconv.FormatFloat(f, 'f', -1, 64))
	}
	return CategoryId(raw)
}

func (c *CategoryId) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*c = NoCategory
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := sonic.Unmarshal(data, &s); err != nil {
			*c = NoCategory
			return nil
		}
		*c = NormalizeCategoryId(s)
		return nil
	}
	*c = NormalizeCategoryId(string(data))
	return nil
}

type Category struct {
	Id   CategoryId `json:"id"`
	Name string     `json:"name"`
}

type Product struct {
	Id          ProductId `json:"id"`
	Title       string    `json:"title"`
	Price       float64   `json:"price"`
	Description *string   `json:"description"`
	Category    *Category `json:"category"`
	Images      []string  `json:"images"`
}

func (p *Product) CategoryId() CategoryId {
	if p.Category == nil {
		return NoCategory
	}
	return p.Category.Id
}

func (p *Product) HasCategory(id CategoryId) bool {
	return p.Category != nil && p.Category.Id == id
}

func (p *Product) GetDescription() (string, bool) {
	if p.Description == nil || *p.Description == "" {
		return "", false
	}
	return *p.Description, true
}
