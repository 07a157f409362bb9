package shopify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"pricesync/internal/logger"
	"pricesync/internal/models"
	"pricesync/internal/platforms"
)

const (
	apiVersion = "2023-10"
	pageSize   = 250
)

// Client talks to the Shopify Admin API of a single shop. Every product
// variant is its own priceable unit, so one Shopify product fans out into
// one PlatformProduct per variant.
type Client struct {
	baseURL       string
	accessToken   string
	httpClient    *http.Client
	logger        *logger.Logger
	authenticated bool
}

type shop struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type variant struct {
	ID       int64  `json:"id"`
	Title    string `json:"title"`
	Price    string `json:"price"`
	SKU      string `json:"sku"`
	Position int    `json:"position"`
}

type product struct {
	ID       int64     `json:"id"`
	Title    string    `json:"title"`
	Handle   string    `json:"handle"`
	Status   string    `json:"status"`
	Variants []variant `json:"variants"`
}

type productsResponse struct {
	Products []product `json:"products"`
}

func NewClient(shopDomain, accessToken string, log *logger.Logger) *Client {
	return &Client{
		baseURL:     fmt.Sprintf("https://%s.myshopify.com", shopDomain),
		accessToken: accessToken,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		logger: log,
	}
}

func (c *Client) url(path string) string {
	return fmt.Sprintf("%s/admin/api/%s/%s", c.baseURL, apiVersion, path)
}

// Authenticate validates the access token with a single shop info request.
func (c *Client) Authenticate(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url("shop.json"), nil)
	if err != nil {
		return &platforms.AuthenticationError{Platform: "shopify", Err: err}
	}
	req.Header.Set("X-Shopify-Access-Token", c.accessToken)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &platforms.AuthenticationError{Platform: "shopify", Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return &platforms.AuthenticationError{
			Platform: "shopify",
			Err:      fmt.Errorf("probe returned %d: %s", resp.StatusCode, strings.TrimSpace(string(body))),
		}
	}

	var shopResp struct {
		Shop shop `json:"shop"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&shopResp); err != nil {
		return &platforms.AuthenticationError{Platform: "shopify", Err: fmt.Errorf("failed to decode response: %w", err)}
	}

	c.logger.Debug("Authenticated against Shopify shop %q", shopResp.Shop.Name)
	c.authenticated = true
	return nil
}

// GetAllProducts pages through the catalogue with since_id cursoring until
// a short page signals the end, flattening variants as it goes.
func (c *Client) GetAllProducts(ctx context.Context) ([]platforms.PlatformProduct, error) {
	if !c.authenticated {
		return nil, platforms.ErrNotAuthenticated
	}

	var all []platforms.PlatformProduct
	var sinceID int64
	for {
		products, err := c.getProductsPage(ctx, sinceID)
		if err != nil {
			return nil, err
		}

		for _, p := range products {
			for _, v := range p.Variants {
				all = append(all, platforms.PlatformProduct{
					ID:        fmt.Sprintf("%d", p.ID),
					VariantID: fmt.Sprintf("%d", v.ID),
					SKU:       v.SKU,
					Title:     p.Title,
					Price:     v.Price,
					Raw: map[string]interface{}{
						"handle":        p.Handle,
						"status":        p.Status,
						"variant_title": v.Title,
					},
				})
			}
			sinceID = p.ID
		}

		if len(products) < pageSize {
			break
		}
	}

	c.logger.Debug("Shopify catalogue fetched: %d priceable units", len(all))
	return all, nil
}

func (c *Client) getProductsPage(ctx context.Context, sinceID int64) ([]product, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url("products.json"), nil)
	if err != nil {
		return nil, &platforms.FetchError{Platform: "shopify", Err: err}
	}
	req.Header.Set("X-Shopify-Access-Token", c.accessToken)
	req.Header.Set("Content-Type", "application/json")

	q := req.URL.Query()
	q.Set("limit", fmt.Sprintf("%d", pageSize))
	if sinceID > 0 {
		q.Set("since_id", fmt.Sprintf("%d", sinceID))
	}
	req.URL.RawQuery = q.Encode()

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &platforms.FetchError{Platform: "shopify", Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, &platforms.FetchError{
			Platform: "shopify",
			Err:      fmt.Errorf("API request failed: %d - %s", resp.StatusCode, strings.TrimSpace(string(body))),
		}
	}

	var productsResp productsResponse
	if err := json.NewDecoder(resp.Body).Decode(&productsResp); err != nil {
		return nil, &platforms.FetchError{Platform: "shopify", Err: fmt.Errorf("failed to decode response: %w", err)}
	}

	return productsResp.Products, nil
}

// UpdateProductPrice sets the price of one variant and leaves every other
// variant attribute alone.
func (c *Client) UpdateProductPrice(ctx context.Context, productID, variantID string, price float64) error {
	if !c.authenticated {
		return platforms.ErrNotAuthenticated
	}

	id, err := strconv.ParseInt(variantID, 10, 64)
	if err != nil {
		return &platforms.UpdateError{Platform: "shopify", ProductID: productID, Detail: fmt.Sprintf("invalid variant id %q", variantID)}
	}

	payload := struct {
		Variant struct {
			ID    int64  `json:"id"`
			Price string `json:"price"`
		} `json:"variant"`
	}{}
	payload.Variant.ID = id
	payload.Variant.Price = platforms.FormatPrice(price)

	jsonData, err := json.Marshal(payload)
	if err != nil {
		return &platforms.UpdateError{Platform: "shopify", ProductID: productID, Detail: err.Error()}
	}

	url := c.url(fmt.Sprintf("variants/%s.json", variantID))
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, url, bytes.NewBuffer(jsonData))
	if err != nil {
		return &platforms.UpdateError{Platform: "shopify", ProductID: productID, Detail: err.Error()}
	}
	req.Header.Set("X-Shopify-Access-Token", c.accessToken)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &platforms.UpdateError{Platform: "shopify", ProductID: productID, Detail: err.Error()}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return &platforms.UpdateError{
			Platform:  "shopify",
			ProductID: productID,
			Detail:    fmt.Sprintf("%d - %s", resp.StatusCode, strings.TrimSpace(string(body))),
		}
	}

	return nil
}

func factory(creds models.Credentials, log *logger.Logger) (platforms.Client, error) {
	shopDomain := creds["shop_domain"]
	if shopDomain == "" {
		return nil, fmt.Errorf("shopify credentials missing shop_domain")
	}
	return NewClient(shopDomain, creds["access_token"], log), nil
}

func init() {
	platforms.Register(models.PlatformShopify, factory)
}
