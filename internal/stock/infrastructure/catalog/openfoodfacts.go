// Package catalog implements the product catalog lookup against the
// OpenFoodFacts v2 API. Lookups are best-effort enrichment: any failure
// degrades to "no metadata" so stock intake is never blocked.
package catalog

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/wyfcoding/stockkeeper/internal/stock/domain"
	"github.com/wyfcoding/stockkeeper/pkg/logger"
	"github.com/wyfcoding/stockkeeper/pkg/metrics"
)

// Config holds client settings.
type Config struct {
	BaseURL    string
	Timeout    int
	RetryCount int
	PageSize   int
}

// Client queries OpenFoodFacts. Implements domain.CatalogLookup.
type Client struct {
	http     *resty.Client
	pageSize int
	metrics  *metrics.Metrics
}

// NewClient creates an OpenFoodFacts client. m may be nil.
func NewClient(cfg Config, m *metrics.Metrics) *Client {
	pageSize := cfg.PageSize
	if pageSize <= 0 {
		pageSize = 20
	}
	client := resty.New().
		SetBaseURL(cfg.BaseURL).
		SetTimeout(time.Duration(cfg.Timeout) * time.Second).
		SetRetryCount(cfg.RetryCount).
		SetHeader("Accept", "application/json")

	return &Client{http: client, pageSize: pageSize, metrics: m}
}

type productPayload struct {
	ProductName string `json:"product_name"`
	Brands      string `json:"brands"`
	ImageURL    string `json:"image_url"`
	Categories  string `json:"categories"`
}

type productResponse struct {
	Code    string         `json:"code"`
	Status  int            `json:"status"`
	Product productPayload `json:"product"`
}

type searchResponse struct {
	Products []struct {
		Code string `json:"code"`
		productPayload
	} `json:"products"`
}

// GetByBarcode returns metadata for a barcode, or (nil, nil) when the
// catalog has nothing or is unreachable. It never returns an error that
// would block the ledger's creation path.
func (c *Client) GetByBarcode(ctx context.Context, barcode string) (*domain.Metadata, error) {
	defer c.observe("get_by_barcode")()

	var result productResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetResult(&result).
		Get(fmt.Sprintf("/product/%s", barcode))
	if err != nil {
		logger.Warn(ctx, "Catalog request failed", "barcode", barcode, "error", err)
		c.count("error")
		return nil, nil
	}

	if resp.StatusCode() == http.StatusNotFound {
		c.count("miss")
		return nil, nil
	}
	if !resp.IsSuccess() {
		logger.Warn(ctx, "Catalog returned non-success status",
			"barcode", barcode, "status", resp.StatusCode())
		c.count("error")
		return nil, nil
	}
	if result.Status != 1 || result.Product.ProductName == "" {
		c.count("miss")
		return nil, nil
	}

	c.count("hit")
	return &domain.Metadata{
		Barcode:  barcode,
		Name:     result.Product.ProductName,
		Brand:    result.Product.Brands,
		ImageURL: result.Product.ImageURL,
		Category: result.Product.Categories,
	}, nil
}

// SearchByName searches the catalog by product name. Failures degrade to
// an empty result.
func (c *Client) SearchByName(ctx context.Context, name string) ([]domain.Metadata, error) {
	defer c.observe("search_by_name")()

	var result searchResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetResult(&result).
		SetQueryParams(map[string]string{
			"search_terms": name,
			"page_size":    strconv.Itoa(c.pageSize),
		}).
		Get("/search")
	if err != nil {
		logger.Warn(ctx, "Catalog search failed", "name", name, "error", err)
		c.count("error")
		return []domain.Metadata{}, nil
	}
	if !resp.IsSuccess() {
		logger.Warn(ctx, "Catalog search returned non-success status",
			"name", name, "status", resp.StatusCode())
		c.count("error")
		return []domain.Metadata{}, nil
	}

	out := make([]domain.Metadata, 0, len(result.Products))
	for _, p := range result.Products {
		if p.ProductName == "" {
			continue
		}
		out = append(out, domain.Metadata{
			Barcode:  p.Code,
			Name:     p.ProductName,
			Brand:    p.Brands,
			ImageURL: p.ImageURL,
			Category: p.Categories,
		})
	}
	c.count("hit")
	return out, nil
}

func (c *Client) count(outcome string) {
	if c.metrics != nil {
		c.metrics.CatalogLookups.WithLabelValues(outcome).Inc()
	}
}

func (c *Client) observe(string) func() {
	if c.metrics == nil {
		return func() {}
	}
	start := time.Now()
	return func() {
		c.metrics.CatalogLookupTime.Observe(time.Since(start).Seconds())
	}
}
