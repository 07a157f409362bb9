package streetpricer

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"pricesync/internal/logger"
	"pricesync/internal/platforms"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFetchAllProducts(t *testing.T) {

	t.Run("SendsBearerToken", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "Bearer sp_key", r.Header.Get("Authorization"))
			assert.Equal(t, "/v1/products", r.URL.Path)
			json.NewEncoder(w).Encode(productsResponse{})
		}))
		defer srv.Close()

		c := NewClient(srv.URL, "sp_key", 5*time.Second, logger.New("error"))
		products, err := c.FetchAllProducts(context.Background())
		require.NoError(t, err)
		assert.Empty(t, products)
	})

	t.Run("PaginatesUntilShortPage", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var resp productsResponse
			if r.URL.Query().Get("page") == "1" {
				for i := 0; i < pageSize; i++ {
					resp.Products = append(resp.Products, SourceProduct{
						ID: fmt.Sprintf("s%d", i), SKU: fmt.Sprintf("SKU%d", i), Price: 9.99,
					})
				}
			} else {
				resp.Products = []SourceProduct{{ID: "last", SKU: "LAST", Price: 1.23}}
			}
			json.NewEncoder(w).Encode(resp)
		}))
		defer srv.Close()

		c := NewClient(srv.URL, "sp_key", 5*time.Second, logger.New("error"))
		products, err := c.FetchAllProducts(context.Background())
		require.NoError(t, err)

		assert.Len(t, products, pageSize+1)
		assert.Equal(t, "LAST", products[pageSize].SKU)
	})

	t.Run("ServerErrorPropagates", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "maintenance", http.StatusServiceUnavailable)
		}))
		defer srv.Close()

		c := NewClient(srv.URL, "sp_key", 5*time.Second, logger.New("error"))
		_, err := c.FetchAllProducts(context.Background())
		require.Error(t, err)

		var fetchErr *platforms.FetchError
		require.ErrorAs(t, err, &fetchErr)
		assert.Equal(t, "streetpricer", fetchErr.Platform)
		assert.Contains(t, err.Error(), "503")
	})
}
