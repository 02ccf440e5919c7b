package catalog

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/matst80/slask-browser/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"
)

const sampleCatalog = `[
	{"id": 1, "title": "Sneaker", "price": 50, "description": "Fast",
	 "category": {"id": 1, "name": "Shoes"}, "images": ["[\"https://i.imgur.com/a.jpeg\"", "https://i.imgur.com/b.jpeg\"]"]},
	{"id": 2, "title": "Boot", "price": 80, "description": null,
	 "category": {"id": "1", "name": "Footwear"}, "images": []},
	{"id": 3, "title": "Tote", "price": 20,
	 "category": {"id": 2, "name": "Bags"}},
	{"id": 4, "title": "Loose item", "price": 5, "category": null}
]`

func serve(t *testing.T, status int, body string) *httptest.Server {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if len(r.URL.RawQuery) != 0 {
			t.Errorf("Expected no query parameters, got %s", r.URL.RawQuery)
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestFetchDecodesProducts(t *testing.T) {
	srv := serve(t, http.StatusOK, sampleCatalog)
	loader := NewLoader(srv.URL, time.Second, language.English)

	products, err := loader.Fetch(context.Background())
	require.NoError(t, err)
	require.Len(t, products, 4)

	assert.Equal(t, types.CategoryId("1"), products[0].CategoryId())
	assert.Equal(t, types.CategoryId("1"), products[1].CategoryId(), "string and numeric ids normalize to the same value")
	assert.Nil(t, products[1].Description)
	assert.Nil(t, products[3].Category)
	assert.Len(t, products[0].Images, 2)
}

func TestFetchReportsStatus(t *testing.T) {
	srv := serve(t, http.StatusInternalServerError, "boom")
	loader := NewLoader(srv.URL, time.Second, language.English)

	_, err := loader.Fetch(context.Background())
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnexpectedStatus))
}

func TestLoadDegradesToEmptyCatalog(t *testing.T) {
	cases := map[string]*Loader{
		"bad status": NewLoader(serve(t, http.StatusNotFound, "").URL, time.Second, language.English),
		"bad json":   NewLoader(serve(t, http.StatusOK, "{not json").URL, time.Second, language.English),
		"no server":  NewLoader("http://127.0.0.1:1/products", time.Second, language.English),
	}
	for name, loader := range cases {
		t.Run(name, func(t *testing.T) {
			c := loader.Load(context.Background())
			require.NotNil(t, c)
			assert.Equal(t, 0, c.Len())
			assert.NotNil(t, c.Products())
			assert.Empty(t, c.Categories())
		})
	}
}

func TestLoadBuildsCatalog(t *testing.T) {
	srv := serve(t, http.StatusOK, sampleCatalog)
	c := NewLoader(srv.URL, time.Second, language.English).Load(context.Background())

	assert.Equal(t, 4, c.Len())
	assert.Equal(t, "Tote", c.Products()[2].Title)

	// id 1 appears as Shoes first, the later Footwear name is ignored
	assert.Equal(t, []types.Category{
		{Id: "2", Name: "Bags"},
		{Id: "1", Name: "Shoes"},
	}, c.Categories())
}

func TestBuildCategoryIndex(t *testing.T) {
	products := []types.Product{
		{Id: 1, Category: &types.Category{Id: "1", Name: "Shoes"}},
		{Id: 2, Category: &types.Category{Id: "1", Name: "Shoes"}},
		{Id: 3, Category: &types.Category{Id: "2", Name: "Bags"}},
		{Id: 4},
	}
	categories := BuildCategoryIndex(products, language.English)
	require.Len(t, categories, 2)
	assert.Equal(t, "Bags", categories[0].Name)
	assert.Equal(t, "Shoes", categories[1].Name)
}

func TestCatalogIsNotAliased(t *testing.T) {
	products := []types.Product{{Id: 1, Title: "a"}}
	c := NewCatalog(products, language.English)
	products[0].Title = "b"
	assert.Equal(t, "a", c.Products()[0].Title)
}
