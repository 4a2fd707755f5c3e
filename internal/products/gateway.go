package products

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/orderdeskhq/orderdesk-backend/pkg/config"
	"github.com/orderdeskhq/orderdesk-backend/pkg/logger"
)

const defaultLookupLimit = 8

// Product is the snapshot of catalog data the order service needs at pricing time.
type Product struct {
	ID          int64
	Name        string
	Description *string
	Price       decimal.Decimal
}

// Gateway resolves product data from the external product service.
type Gateway interface {
	Get(ctx context.Context, id int64) *Product
	GetBatch(ctx context.Context, ids []int64) map[int64]Product
}

// Client talks to the product service over HTTP.
type Client struct {
	httpClient  *http.Client
	baseURL     string
	lookupLimit int
	logg        *logger.Logger
}

// Option configures optional client behavior.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// WithLookupLimit caps how many product lookups run concurrently in a batch.
func WithLookupLimit(limit int) Option {
	return func(c *Client) {
		if limit > 0 {
			c.lookupLimit = limit
		}
	}
}

// NewClient builds the product service client from config.
func NewClient(cfg config.ProductServiceConfig, logg *logger.Logger, opts ...Option) (*Client, error) {
	baseURL := strings.TrimSpace(cfg.BaseURL)
	if baseURL == "" {
		return nil, fmt.Errorf("product service base URL is required")
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	client := &Client{
		baseURL:     strings.TrimRight(baseURL, "/"),
		httpClient:  &http.Client{Timeout: timeout},
		lookupLimit: cfg.LookupLimit,
		logg:        logg,
	}

	for _, opt := range opts {
		if opt != nil {
			opt(client)
		}
	}

	if client.lookupLimit <= 0 {
		client.lookupLimit = defaultLookupLimit
	}

	return client, nil
}

// Get fetches a single product. Any failure (transport, non-200, malformed
// body) resolves to nil; callers treat nil as "product unavailable".
func (c *Client) Get(ctx context.Context, id int64) *Product {
	if c == nil || id <= 0 {
		return nil
	}

	url := fmt.Sprintf("%s/products/%d", c.baseURL, id)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		c.warn(ctx, id, "build product request", err)
		return nil
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.warn(ctx, id, "execute product request", err)
		return nil
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		c.warn(ctx, id, "product request failed", fmt.Errorf("status %d", resp.StatusCode))
		return nil
	}

	var apiResp struct {
		ID          int64           `json:"id"`
		Name        string          `json:"name"`
		Description *string         `json:"description"`
		Price       decimal.Decimal `json:"price"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&apiResp); err != nil {
		c.warn(ctx, id, "decode product response", err)
		return nil
	}

	return &Product{
		ID:          id,
		Name:        apiResp.Name,
		Description: apiResp.Description,
		Price:       apiResp.Price,
	}
}

// GetBatch resolves each distinct id concurrently, bounded by the lookup
// limit. Ids that fail to resolve are omitted from the result; the map never
// contains partial entries.
func (c *Client) GetBatch(ctx context.Context, ids []int64) map[int64]Product {
	resolved := make(map[int64]Product, len(ids))
	if c == nil || len(ids) == 0 {
		return resolved
	}

	distinct := make([]int64, 0, len(ids))
	seen := make(map[int64]struct{}, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		distinct = append(distinct, id)
	}

	var mu sync.Mutex
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(c.lookupLimit)

	for _, id := range distinct {
		id := id
		g.Go(func() error {
			product := c.Get(gctx, id)
			if product == nil {
				return nil
			}
			mu.Lock()
			resolved[id] = *product
			mu.Unlock()
			return nil
		})
	}

	// Workers never return errors; Wait is just the join point.
	_ = g.Wait()

	return resolved
}

func (c *Client) warn(ctx context.Context, id int64, msg string, err error) {
	if c.logg == nil {
		return
	}
	ctx = c.logg.WithFields(ctx, map[string]any{"product_id": id})
	c.logg.Warn(ctx, fmt.Sprintf("%s: %v", msg, err))
}
