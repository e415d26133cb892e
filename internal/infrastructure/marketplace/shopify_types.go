package marketplace

import "encoding/json"

// Shopify REST Admin API response payloads, limited to the fields consumed
// here. Numeric IDs arrive as JSON numbers and are kept as json.Number to
// avoid float precision loss on 64-bit identifiers.

// shopifyShopResponse wraps /shop.json
type shopifyShopResponse struct {
	Shop shopifyShop `json:"shop"`
}

// shopifyShop is the store metadata returned by the probe
type shopifyShop struct {
	ID    json.Number `json:"id"`
	Name  string      `json:"name"`
	Email string      `json:"email"`
}

// shopifyOrdersResponse wraps /orders.json
type shopifyOrdersResponse struct {
	Orders []shopifyOrder `json:"orders"`
}

// shopifyOrder is one order in the feed
type shopifyOrder struct {
	ID                json.Number       `json:"id"`
	Name              string            `json:"name"`
	Email             string            `json:"email"`
	Currency          string            `json:"currency"`
	TotalPrice        string            `json:"total_price"`
	FinancialStatus   string            `json:"financial_status"`
	FulfillmentStatus string            `json:"fulfillment_status"`
	CreatedAt         string            `json:"created_at"`
	LineItems         []shopifyLineItem `json:"line_items"`
}

// shopifyLineItem is one order line
type shopifyLineItem struct {
	ID       json.Number `json:"id"`
	Sku      string      `json:"sku"`
	Title    string      `json:"title"`
	Quantity int         `json:"quantity"`
	Price    string      `json:"price"`
}
