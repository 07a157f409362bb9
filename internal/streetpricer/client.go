package streetpricer

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"pricesync/internal/logger"
	"pricesync/internal/platforms"
)

const pageSize = 200

// SourceProduct is one authoritatively priced item. Snapshots are
// immutable per fetch; the source of truth stays upstream.
type SourceProduct struct {
	ID          string    `json:"id"`
	SKU         string    `json:"sku"`
	Name        string    `json:"name"`
	Price       float64   `json:"price"`
	Currency    string    `json:"currency"`
	LastUpdated time.Time `json:"last_updated"`
}

// Client fetches the authoritative price list from the StreetPricer API.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	logger     *logger.Logger
}

type productsResponse struct {
	Products []SourceProduct `json:"products"`
}

func NewClient(baseURL, apiKey string, timeout time.Duration, log *logger.Logger) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger: log,
	}
}

// FetchAllProducts pages through the price list until a short page signals
// the end. Any page failure comes back as a FetchError; a partial price
// list is never returned.
func (c *Client) FetchAllProducts(ctx context.Context) ([]SourceProduct, error) {
	var all []SourceProduct
	for page := 1; ; page++ {
		products, err := c.fetchPage(ctx, page)
		if err != nil {
			return nil, &platforms.FetchError{Platform: "streetpricer", Err: err}
		}
		all = append(all, products...)

		if len(products) < pageSize {
			break
		}
	}

	c.logger.Debug("StreetPricer price list fetched: %d products", len(all))
	return all, nil
}

func (c *Client) fetchPage(ctx context.Context, page int) ([]SourceProduct, error) {
	url := fmt.Sprintf("%s/v1/products?per_page=%d&page=%d", c.baseURL, pageSize, page)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to make request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("API request failed: %d - %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var productsResp productsResponse
	if err := json.NewDecoder(resp.Body).Decode(&productsResp); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	return productsResp.Products, nil
}
