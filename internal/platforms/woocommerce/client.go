package woocommerce

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"pricesync/internal/logger"
	"pricesync/internal/models"
	"pricesync/internal/platforms"
)

const pageSize = 100

// Client talks to the WooCommerce REST API (wc/v3) of a single store using
// consumer key/secret basic auth. WooCommerce products are flat, so every
// product maps to exactly one priceable unit.
type Client struct {
	baseURL        string
	consumerKey    string
	consumerSecret string
	httpClient     *http.Client
	logger         *logger.Logger
	authenticated  bool
}

type product struct {
	ID           int64  `json:"id"`
	Name         string `json:"name"`
	SKU          string `json:"sku"`
	Price        string `json:"price"`
	RegularPrice string `json:"regular_price"`
	Status       string `json:"status"`
	Permalink    string `json:"permalink"`
}

func NewClient(storeURL, consumerKey, consumerSecret string, log *logger.Logger) *Client {
	return &Client{
		baseURL:        strings.TrimRight(storeURL, "/"),
		consumerKey:    consumerKey,
		consumerSecret: consumerSecret,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		logger: log,
	}
}

// Authenticate probes the store with a single bounded request to validate
// reachability and credentials.
func (c *Client) Authenticate(ctx context.Context) error {
	url := fmt.Sprintf("%s/wp-json/wc/v3/products?per_page=1", c.baseURL)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return &platforms.AuthenticationError{Platform: "woocommerce", Err: err}
	}
	req.SetBasicAuth(c.consumerKey, c.consumerSecret)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &platforms.AuthenticationError{Platform: "woocommerce", Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return &platforms.AuthenticationError{
			Platform: "woocommerce",
			Err:      fmt.Errorf("probe returned %d: %s", resp.StatusCode, strings.TrimSpace(string(body))),
		}
	}

	c.authenticated = true
	return nil
}

// GetAllProducts pages through the store catalogue until a short page
// signals the end.
func (c *Client) GetAllProducts(ctx context.Context) ([]platforms.PlatformProduct, error) {
	if !c.authenticated {
		return nil, platforms.ErrNotAuthenticated
	}

	var all []platforms.PlatformProduct
	for page := 1; ; page++ {
		products, err := c.getProductsPage(ctx, page)
		if err != nil {
			return nil, err
		}

		for _, p := range products {
			all = append(all, platforms.PlatformProduct{
				ID:    fmt.Sprintf("%d", p.ID),
				SKU:   p.SKU,
				Title: p.Name,
				Price: p.RegularPrice,
				Raw: map[string]interface{}{
					"status":    p.Status,
					"permalink": p.Permalink,
				},
			})
		}

		if len(products) < pageSize {
			break
		}
	}

	c.logger.Debug("WooCommerce catalogue fetched: %d products", len(all))
	return all, nil
}

func (c *Client) getProductsPage(ctx context.Context, page int) ([]product, error) {
	url := fmt.Sprintf("%s/wp-json/wc/v3/products?per_page=%d&page=%d", c.baseURL, pageSize, page)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, &platforms.FetchError{Platform: "woocommerce", Err: err}
	}
	req.SetBasicAuth(c.consumerKey, c.consumerSecret)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &platforms.FetchError{Platform: "woocommerce", Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, &platforms.FetchError{
			Platform: "woocommerce",
			Err:      fmt.Errorf("API request failed: %d - %s", resp.StatusCode, strings.TrimSpace(string(body))),
		}
	}

	var products []product
	if err := json.NewDecoder(resp.Body).Decode(&products); err != nil {
		return nil, &platforms.FetchError{Platform: "woocommerce", Err: fmt.Errorf("failed to decode response: %w", err)}
	}

	return products, nil
}

// UpdateProductPrice sets regular_price on one product and touches nothing
// else. WooCommerce has no variants here, so variantID is ignored.
func (c *Client) UpdateProductPrice(ctx context.Context, productID, variantID string, price float64) error {
	if !c.authenticated {
		return platforms.ErrNotAuthenticated
	}

	url := fmt.Sprintf("%s/wp-json/wc/v3/products/%s", c.baseURL, productID)

	payload := map[string]string{"regular_price": platforms.FormatPrice(price)}
	jsonData, err := json.Marshal(payload)
	if err != nil {
		return &platforms.UpdateError{Platform: "woocommerce", ProductID: productID, Detail: err.Error()}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPut, url, bytes.NewBuffer(jsonData))
	if err != nil {
		return &platforms.UpdateError{Platform: "woocommerce", ProductID: productID, Detail: err.Error()}
	}
	req.SetBasicAuth(c.consumerKey, c.consumerSecret)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &platforms.UpdateError{Platform: "woocommerce", ProductID: productID, Detail: err.Error()}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return &platforms.UpdateError{
			Platform:  "woocommerce",
			ProductID: productID,
			Detail:    fmt.Sprintf("%d - %s", resp.StatusCode, strings.TrimSpace(string(body))),
		}
	}

	return nil
}

func factory(creds models.Credentials, log *logger.Logger) (platforms.Client, error) {
	storeURL := creds["store_url"]
	if storeURL == "" {
		return nil, fmt.Errorf("woocommerce credentials missing store_url")
	}
	return NewClient(storeURL, creds["consumer_key"], creds["consumer_secret"], log), nil
}

func init() {
	platforms.Register(models.PlatformWooCommerce, factory)
}
