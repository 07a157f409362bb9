package platforms

import (
	"context"
	"fmt"

	"pricesync/internal/logger"
	"pricesync/internal/models"
)

// PlatformProduct is one priceable unit as reported by a sales channel.
// WooCommerce products are flat (VariantID empty); Shopify products carry
// one entry per variant. Channel-specific fields ride along in Raw and are
// never interpreted by the sync core.
type PlatformProduct struct {
	ID        string                 `json:"id"`
	VariantID string                 `json:"variant_id,omitempty"`
	SKU       string                 `json:"sku"`
	Title     string                 `json:"title"`
	Price     string                 `json:"price"`
	Raw       map[string]interface{} `json:"raw,omitempty"`
}

// Client is the uniform capability every channel integration implements.
// Authenticate must succeed before any data method is used; data methods
// called earlier fail with ErrNotAuthenticated.
type Client interface {
	Authenticate(ctx context.Context) error
	GetAllProducts(ctx context.Context) ([]PlatformProduct, error)
	UpdateProductPrice(ctx context.Context, productID, variantID string, price float64) error
}

// Factory builds a client for one store from its stored credentials.
type Factory func(creds models.Credentials, log *logger.Logger) (Client, error)

// FormatPrice renders a price the way every channel API expects it: a
// string with exactly two decimal places.
func FormatPrice(price float64) string {
	return fmt.Sprintf("%.2f", price)
}
