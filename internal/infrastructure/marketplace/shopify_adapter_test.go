package marketplace

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wms/backend/internal/domain/integration"
)

// newTestAdapter points an adapter at a local test server
func newTestAdapter(t *testing.T, handler http.Handler) *ShopifyAdapter {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	adapter, err := NewShopifyAdapter(integration.PlatformCodeShopify, integration.Credentials{
		"shop":         "test-store",
		"access_token": "shpat_test",
	}, 5*time.Second)
	require.NoError(t, err)
	adapter.baseURL = server.URL
	return adapter
}

func TestNewShopifyAdapter_RequiresCredentials(t *testing.T) {
	_, err := NewShopifyAdapter(integration.PlatformCodeShopify, integration.Credentials{"shop": "x"}, 0)
	assert.ErrorIs(t, err, integration.ErrCredentialIncomplete)
}

func TestShopifyAdapter_TestConnection(t *testing.T) {
	adapter := newTestAdapter(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/shop.json", r.URL.Path)
		assert.Equal(t, "shpat_test", r.Header.Get("X-Shopify-Access-Token"))
		w.Write([]byte(`{"shop":{"id":1,"name":"Test Store","email":"ops@test.example"}}`))
	}))

	result, err := adapter.TestConnection(context.Background())
	require.NoError(t, err)
	assert.True(t, result.OK)
	assert.Equal(t, "Test Store", result.Detail)
}

func TestShopifyAdapter_TestConnectionAuthFailure(t *testing.T) {
	adapter := newTestAdapter(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"errors":"Invalid API key or access token"}`))
	}))

	_, err := adapter.TestConnection(context.Background())
	assert.ErrorIs(t, err, integration.ErrPlatformAuthFailed)
}

func TestShopifyAdapter_FetchOrdersPage(t *testing.T) {
	adapter := newTestAdapter(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/orders.json", r.URL.Path)
		assert.Equal(t, "any", r.URL.Query().Get("status"))
		assert.NotEmpty(t, r.URL.Query().Get("created_at_min"))

		w.Header().Set("Link", `<https://test-store.myshopify.com/admin/api/2024-01/orders.json?page_info=nextTOKEN&limit=250>; rel="next"`)
		w.Write([]byte(`{"orders":[{
			"id": 450789469,
			"name": "#1001",
			"email": "buyer@example.com",
			"currency": "GBP",
			"total_price": "49.90",
			"created_at": "2026-08-30T10:15:00Z",
			"note": "leave at the side door",
			"line_items": [{"id": 1, "sku": "SHOP-SKU-1", "title": "Widget", "quantity": 2, "price": "24.95"}]
		}]}`))
	}))

	page, err := adapter.FetchOrdersPage(context.Background(), time.Now().Add(-7*24*time.Hour), "")
	require.NoError(t, err)
	require.Len(t, page.Orders, 1)
	assert.Equal(t, "nextTOKEN", page.NextCursor)

	got := page.Orders[0]
	assert.Equal(t, "450789469", got.ExternalID)
	assert.Equal(t, "#1001", got.OrderNumber)
	assert.Equal(t, "49.9", got.TotalPrice.String())
	require.Len(t, got.Lines, 1)
	assert.Equal(t, "SHOP-SKU-1", got.Lines[0].Sku)
	assert.Equal(t, 2, got.Lines[0].Quantity)

	// the ledger snapshot is the payload as sent, including fields the
	// adapter never declared
	assert.Contains(t, string(got.Raw), "leave at the side door")
}

func TestShopifyAdapter_FetchOrdersPageWithCursor(t *testing.T) {
	adapter := newTestAdapter(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// cursor requests must not carry filter params
		assert.Equal(t, "nextTOKEN", r.URL.Query().Get("page_info"))
		assert.Empty(t, r.URL.Query().Get("created_at_min"))
		w.Write([]byte(`{"orders":[]}`))
	}))

	page, err := adapter.FetchOrdersPage(context.Background(), time.Now(), "nextTOKEN")
	require.NoError(t, err)
	assert.Empty(t, page.Orders)
	assert.Empty(t, page.NextCursor, "last page has no next cursor")
}

func TestShopifyAdapter_PushInventory(t *testing.T) {
	var paths []string
	adapter := newTestAdapter(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		paths = append(paths, r.URL.Path)
		w.Write([]byte(`{"inventory_level":{}}`))
	}))

	err := adapter.PushInventory(context.Background(),
		integration.InventoryLevel{ExternalSku: "SHOP-SKU-1", ExternalProductID: "100:200", Quantity: 7})
	require.NoError(t, err)
	err = adapter.PushInventory(context.Background(),
		integration.InventoryLevel{ExternalSku: "SHOP-SKU-2", ExternalProductID: "100:201", Quantity: 0})
	require.NoError(t, err)
	assert.Equal(t, []string{"/inventory_levels/set.json", "/inventory_levels/set.json"}, paths)
}

func TestShopifyAdapter_PushInventoryRejectsBadReference(t *testing.T) {
	adapter := newTestAdapter(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("no request expected")
	}))

	err := adapter.PushInventory(context.Background(),
		integration.InventoryLevel{ExternalSku: "SHOP-SKU-1", ExternalProductID: "no-separator", Quantity: 1})
	assert.Error(t, err)
}

func TestShopifyAdapter_CreateFulfillment(t *testing.T) {
	adapter := newTestAdapter(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/orders/450789469/fulfillments.json", r.URL.Path)
		assert.Equal(t, http.MethodPost, r.Method)
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"fulfillment":{}}`))
	}))

	err := adapter.CreateFulfillment(context.Background(), &integration.FulfillmentRequest{
		ExternalOrderID: "450789469",
		TrackingNumber:  "RM123456789GB",
		TrackingCompany: "Royal Mail",
		NotifyCustomer:  true,
	})
	assert.NoError(t, err)
}

func TestParseNextPageInfo(t *testing.T) {
	tests := []struct {
		name   string
		header string
		want   string
	}{
		{
			name:   "next link present",
			header: `<https://s.myshopify.com/admin/api/2024-01/orders.json?page_info=abc&limit=250>; rel="next"`,
			want:   "abc",
		},
		{
			name:   "previous and next",
			header: `<https://s.myshopify.com/x?page_info=prev>; rel="previous", <https://s.myshopify.com/x?page_info=next123>; rel="next"`,
			want:   "next123",
		},
		{
			name:   "only previous",
			header: `<https://s.myshopify.com/x?page_info=prev>; rel="previous"`,
			want:   "",
		},
		{
			name:   "empty header",
			header: "",
			want:   "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, parseNextPageInfo(tt.header))
		})
	}
}
