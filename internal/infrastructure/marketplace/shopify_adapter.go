package marketplace

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/wms/backend/internal/domain/integration"
)

// Constants for the Shopify REST Admin API
const (
	// shopifyAPIVersion pins the Admin API version all requests target
	shopifyAPIVersion = "2024-01"
	// shopifyPageSize is the maximum order page size Shopify allows
	shopifyPageSize = 250
	// maxShopifyResponseSize limits the response body size to prevent memory exhaustion
	maxShopifyResponseSize = 10 * 1024 * 1024 // 10MB max response
)

// ShopifyAdapter implements the PlatformClient port against the Shopify REST
// Admin API. Credentials require "shop" (the myshopify subdomain) and
// "access_token".
type ShopifyAdapter struct {
	platform   integration.PlatformCode
	shop       string
	token      string
	baseURL    string
	httpClient *http.Client
}

// NewShopifyAdapter creates an adapter for one store. platform is SHOPIFY or
// SHOPIFY_WHOLESALE; both speak the same API against different stores.
func NewShopifyAdapter(platform integration.PlatformCode, creds integration.Credentials, timeout time.Duration) (*ShopifyAdapter, error) {
	shop := creds.Get("shop")
	token := creds.Get("access_token")
	if shop == "" || token == "" {
		return nil, integration.ErrCredentialIncomplete
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	return &ShopifyAdapter{
		platform:   platform,
		shop:       shop,
		token:      token,
		baseURL:    fmt.Sprintf("https://%s.myshopify.com/admin/api/%s", shop, shopifyAPIVersion),
		httpClient: &http.Client{Timeout: timeout},
	}, nil
}

// Platform returns the platform code this adapter handles
func (a *ShopifyAdapter) Platform() integration.PlatformCode {
	return a.platform
}

// ---------------------------------------------------------------------------
// Connection Probe
// ---------------------------------------------------------------------------

// TestConnection fetches shop metadata as a lightweight authenticated probe
func (a *ShopifyAdapter) TestConnection(ctx context.Context) (*integration.ConnectionTestResult, error) {
	body, _, err := a.doRequest(ctx, http.MethodGet, "/shop.json", nil)
	if err != nil {
		return nil, err
	}

	var resp shopifyShopResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("shopify: failed to parse shop response: %w", err)
	}

	return &integration.ConnectionTestResult{
		OK:     true,
		Detail: resp.Shop.Name,
	}, nil
}

// ---------------------------------------------------------------------------
// Order Operations
// ---------------------------------------------------------------------------

// FetchOrdersPage returns one page of orders created at or after since.
// Shopify paginates with opaque page_info cursors carried in the Link
// response header; when a cursor is presented only limit may accompany it.
func (a *ShopifyAdapter) FetchOrdersPage(ctx context.Context, since time.Time, cursor string) (*integration.OrdersPage, error) {
	query := url.Values{}
	query.Set("limit", fmt.Sprintf("%d", shopifyPageSize))
	if cursor != "" {
		query.Set("page_info", cursor)
	} else {
		query.Set("status", "any")
		query.Set("created_at_min", since.UTC().Format(time.RFC3339))
	}

	body, header, err := a.doRequest(ctx, http.MethodGet, "/orders.json?"+query.Encode(), nil)
	if err != nil {
		return nil, err
	}

	var resp shopifyOrdersResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("shopify: failed to parse orders response: %w", err)
	}

	// The ledger snapshot must be the payload as Shopify sent it, fields we
	// never declared included, so the raw order objects are decoded alongside
	// the typed ones.
	var raw struct {
		Orders []json.RawMessage `json:"orders"`
	}
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, fmt.Errorf("shopify: failed to parse orders response: %w", err)
	}

	page := &integration.OrdersPage{
		Orders:     make([]integration.ExternalOrder, 0, len(resp.Orders)),
		NextCursor: parseNextPageInfo(header.Get("Link")),
	}
	for i := range resp.Orders {
		order := convertShopifyOrder(&resp.Orders[i])
		if i < len(raw.Orders) {
			order.Raw = raw.Orders[i]
		}
		page.Orders = append(page.Orders, order)
	}
	return page, nil
}

// ---------------------------------------------------------------------------
// Inventory Operations
// ---------------------------------------------------------------------------

// PushInventory publishes one stock level via inventory_levels/set.
// ExternalProductID carries "<location_id>:<inventory_item_id>".
func (a *ShopifyAdapter) PushInventory(ctx context.Context, level integration.InventoryLevel) error {
	locationID, itemID, ok := strings.Cut(level.ExternalProductID, ":")
	if !ok {
		return fmt.Errorf("shopify: inventory reference %q is not location:item", level.ExternalProductID)
	}

	payload := map[string]any{
		"location_id":       locationID,
		"inventory_item_id": itemID,
		"available":         level.Quantity,
	}
	if _, _, err := a.doRequest(ctx, http.MethodPost, "/inventory_levels/set.json", payload); err != nil {
		return fmt.Errorf("shopify: push inventory for %s: %w", level.ExternalSku, err)
	}
	return nil
}

// ---------------------------------------------------------------------------
// Fulfillment Operations
// ---------------------------------------------------------------------------

// CreateFulfillment marks an order fulfilled with tracking details
func (a *ShopifyAdapter) CreateFulfillment(ctx context.Context, req *integration.FulfillmentRequest) error {
	payload := map[string]any{
		"fulfillment": map[string]any{
			"tracking_number":  req.TrackingNumber,
			"tracking_company": req.TrackingCompany,
			"notify_customer":  req.NotifyCustomer,
		},
	}

	path := fmt.Sprintf("/orders/%s/fulfillments.json", req.ExternalOrderID)
	_, _, err := a.doRequest(ctx, http.MethodPost, path, payload)
	return err
}

// ---------------------------------------------------------------------------
// Internal Helpers
// ---------------------------------------------------------------------------

// doRequest performs an HTTP request against the Admin API and returns the
// body and response headers. Error status codes become APIError so the retry
// policy can classify them.
func (a *ShopifyAdapter) doRequest(ctx context.Context, method, path string, payload any) ([]byte, http.Header, error) {
	var reqBody io.Reader
	if payload != nil {
		bodyBytes, err := json.Marshal(payload)
		if err != nil {
			return nil, nil, fmt.Errorf("shopify: failed to marshal request: %w", err)
		}
		reqBody = bytes.NewReader(bodyBytes)
	}

	req, err := http.NewRequestWithContext(ctx, method, a.baseURL+path, reqBody)
	if err != nil {
		return nil, nil, fmt.Errorf("shopify: failed to create request: %w", err)
	}
	req.Header.Set("X-Shopify-Access-Token", a.token)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", integration.ErrPlatformUnavailable, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxShopifyResponseSize))
	if err != nil {
		return nil, nil, fmt.Errorf("shopify: failed to read response: %w", err)
	}

	if resp.StatusCode >= 400 {
		return nil, nil, integration.NewAPIError(a.platform, resp.StatusCode, strings.TrimSpace(string(body)))
	}

	return body, resp.Header, nil
}

// parseNextPageInfo extracts the next-page cursor from a Link header.
// Shopify emits: <https://...?page_info=TOKEN&limit=250>; rel="next"
func parseNextPageInfo(linkHeader string) string {
	for _, part := range strings.Split(linkHeader, ",") {
		if !strings.Contains(part, `rel="next"`) {
			continue
		}
		start := strings.Index(part, "<")
		end := strings.Index(part, ">")
		if start < 0 || end <= start {
			continue
		}
		u, err := url.Parse(part[start+1 : end])
		if err != nil {
			continue
		}
		return u.Query().Get("page_info")
	}
	return ""
}

// convertShopifyOrder normalizes a Shopify order payload
func convertShopifyOrder(o *shopifyOrder) integration.ExternalOrder {
	order := integration.ExternalOrder{
		ExternalID:    o.ID.String(),
		OrderNumber:   o.Name,
		CustomerEmail: o.Email,
		Currency:      o.Currency,
		Lines:         make([]integration.ExternalLineItem, 0, len(o.LineItems)),
	}

	if total, err := decimal.NewFromString(o.TotalPrice); err == nil {
		order.TotalPrice = total
	}
	if placedAt, err := time.Parse(time.RFC3339, o.CreatedAt); err == nil {
		order.PlacedAt = placedAt
	}

	for _, item := range o.LineItems {
		line := integration.ExternalLineItem{
			Sku:      item.Sku,
			Title:    item.Title,
			Quantity: item.Quantity,
		}
		if price, err := decimal.NewFromString(item.Price); err == nil {
			line.UnitPrice = price
		}
		order.Lines = append(order.Lines, line)
	}
	return order
}

// Ensure ShopifyAdapter implements the PlatformClient interface
var _ integration.PlatformClient = (*ShopifyAdapter)(nil)
