package catalog

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"github.com/bytedance/sonic"
	"github.com/matst80/slask-browser/pkg/types"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"golang.org/x/text/language"
)

const DefaultUrl = "https://api.escuelajs.co/api/v1/products"

var ErrUnexpectedStatus = errors.New("unexpected catalog response status")

var (
	loadFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "slaskbrowser_catalog_load_failures_total",
		Help: "The total number of failed catalog fetches",
	})
	totalProducts = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "slaskbrowser_catalog_products",
		Help: "The number of products in the loaded catalog",
	})
)

type Loader struct {
	Url      string
	Client   *http.Client
	Language language.Tag
}

func NewLoader(url string, timeout time.Duration, tag language.Tag) *Loader {
	if url == "" {
		url = DefaultUrl
	}
	return &Loader{
		Url:      url,
		Client:   &http.Client{Timeout: timeout},
		Language: tag,
	}
}

// Fetch reads the whole product list in one request, no paging or query
// parameters are sent.
func (l *Loader) Fetch(ctx context.Context) ([]types.Product, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, l.Url, nil)
	if err != nil {
		return nil, fmt.Errorf("creating catalog request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	client := l.Client
	if client == nil {
		client = http.DefaultClient
	}
	res, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching catalog: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode > 299 {
		return nil, fmt.Errorf("%w: %s", ErrUnexpectedStatus, res.Status)
	}
	body, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, fmt.Errorf("reading catalog: %w", err)
	}
	products := make([]types.Product, 0)
	if err = sonic.Unmarshal(body, &products); err != nil {
		return nil, fmt.Errorf("decoding catalog: %w", err)
	}
	return products, nil
}

// Load never fails, a broken source results in an empty catalog.
func (l *Loader) Load(ctx context.Context) *Catalog {
	start := time.Now()
	products, err := l.Fetch(ctx)
	if err != nil {
		loadFailures.Inc()
		log.Printf("Failed to load catalog from %s: %v", l.Url, err)
		products = nil
	} else {
		log.Printf("Loaded %d products in %v", len(products), time.Since(start))
	}
	c := NewCatalog(products, l.Language)
	totalProducts.Set(float64(c.Len()))
	return c
}
