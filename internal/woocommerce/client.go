package woocommerce

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/rarebeats/api/internal/domain"
)

// restAPIPath is the base path for the WooCommerce REST API v3.
const restAPIPath = "/wp-json/wc/v3"

const (
	defaultTimeout = 30 * time.Second

	// statusPublish limits catalog queries to published products.
	statusPublish = "publish"
)

// maxResponseBytes caps how much of an upstream body is read; catalog pages
// comfortably fit well below this.
const maxResponseBytes = 8 << 20

// UpstreamError describes a failed call to the commerce platform. A zero
// StatusCode means the request never produced an HTTP response (transport
// failure); otherwise it carries the non-success status the platform
// returned.
type UpstreamError struct {
	Operation  string
	StatusCode int
	Err        error
}

// Error implements the error interface.
func (e *UpstreamError) Error() string {
	if e == nil {
		return ""
	}
	if e.StatusCode > 0 {
		return fmt.Sprintf("woocommerce: %s: status %d: %v", e.Operation, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("woocommerce: %s: %v", e.Operation, e.Err)
}

// Unwrap exposes the underlying error.
func (e *UpstreamError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// IsNotFound reports whether the platform answered 404 for the request.
func (e *UpstreamError) IsNotFound() bool {
	return e != nil && e.StatusCode == http.StatusNotFound
}

// IsTransport reports whether the request failed before any HTTP response.
func (e *UpstreamError) IsTransport() bool {
	return e != nil && e.StatusCode == 0
}

// IsNotFound reports whether err wraps an upstream 404.
func IsNotFound(err error) bool {
	var upstream *UpstreamError
	return errors.As(err, &upstream) && upstream.IsNotFound()
}

// Config holds the credentials and endpoint of the WooCommerce store.
type Config struct {
	// BaseURL is the store root, e.g. https://shop.example.com. The REST
	// path is appended internally.
	BaseURL        string
	ConsumerKey    string
	ConsumerSecret string

	// HTTPClient overrides the transport, primarily for tests.
	HTTPClient *http.Client
	Timeout    time.Duration
}

// Client queries the WooCommerce REST API (wc/v3) read-only. Authentication
// uses the consumer key/secret pair over HTTP basic auth, which the platform
// accepts for TLS-terminated endpoints.
type Client struct {
	httpClient     *http.Client
	baseURL        string
	consumerKey    string
	consumerSecret string
}

// New constructs a WooCommerce client from the given configuration.
func New(cfg Config) (*Client, error) {
	base := strings.TrimSuffix(strings.TrimSpace(cfg.BaseURL), "/")
	if base == "" {
		return nil, errors.New("woocommerce: store base URL is required")
	}
	if strings.TrimSpace(cfg.ConsumerKey) == "" || strings.TrimSpace(cfg.ConsumerSecret) == "" {
		return nil, errors.New("woocommerce: consumer key and secret are required")
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = defaultTimeout
		}
		httpClient = &http.Client{Timeout: timeout}
	}

	return &Client{
		httpClient:     httpClient,
		baseURL:        base,
		consumerKey:    strings.TrimSpace(cfg.ConsumerKey),
		consumerSecret: strings.TrimSpace(cfg.ConsumerSecret),
	}, nil
}

// ListProducts fetches one page of published products.
func (c *Client) ListProducts(ctx context.Context, page, perPage int) ([]domain.Product, error) {
	if page < 1 {
		page = 1
	}
	if perPage < 1 {
		perPage = 1
	}

	query := url.Values{}
	query.Set("per_page", strconv.Itoa(perPage))
	query.Set("page", strconv.Itoa(page))
	query.Set("status", statusPublish)

	var payload []productPayload
	if err := c.getJSON(ctx, "list_products", "/products", query, &payload); err != nil {
		return nil, err
	}

	products := make([]domain.Product, 0, len(payload))
	for _, p := range payload {
		products = append(products, p.toDomain())
	}
	return products, nil
}

// GetProduct fetches a single product by identifier.
func (c *Client) GetProduct(ctx context.Context, productID int64) (domain.Product, error) {
	var payload productPayload
	path := fmt.Sprintf("/products/%d", productID)
	if err := c.getJSON(ctx, "get_product", path, nil, &payload); err != nil {
		return domain.Product{}, err
	}
	return payload.toDomain(), nil
}

// ListVariations fetches the variation bodies a product declares.
func (c *Client) ListVariations(ctx context.Context, productID int64) ([]domain.Variation, error) {
	var payload []variationPayload
	path := fmt.Sprintf("/products/%d/variations", productID)
	if err := c.getJSON(ctx, "list_variations", path, nil, &payload); err != nil {
		return nil, err
	}

	variations := make([]domain.Variation, 0, len(payload))
	for _, v := range payload {
		variations = append(variations, v.toDomain())
	}
	return variations, nil
}

func (c *Client) getJSON(ctx context.Context, operation, path string, query url.Values, target any) error {
	endpoint := c.baseURL + restAPIPath + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return &UpstreamError{Operation: operation, Err: err}
	}
	req.SetBasicAuth(c.consumerKey, c.consumerSecret)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &UpstreamError{Operation: operation, Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return &UpstreamError{Operation: operation, Err: fmt.Errorf("read response: %w", err)}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &UpstreamError{
			Operation:  operation,
			StatusCode: resp.StatusCode,
			Err:        fmt.Errorf("unexpected status: %s", summarizeBody(body)),
		}
	}

	if err := json.Unmarshal(body, target); err != nil {
		return &UpstreamError{Operation: operation, Err: fmt.Errorf("decode response: %w", err)}
	}
	return nil
}

func summarizeBody(body []byte) string {
	text := strings.TrimSpace(string(body))
	if len(text) > 200 {
		text = text[:200]
	}
	if text == "" {
		return "empty body"
	}
	return text
}
