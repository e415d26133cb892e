package integration

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ---------------------------------------------------------------------------
// External Order Types
// ---------------------------------------------------------------------------

// ExternalLineItem is one line of an external order as the platform reports it
type ExternalLineItem struct {
	// Sku is the platform-side SKU of the line
	Sku string
	// Title is the platform-side product title
	Title string
	// Quantity is the ordered quantity
	Quantity int
	// UnitPrice is the per-unit price
	UnitPrice decimal.Decimal
}

// ExternalOrder is an order fetched from an external platform, normalized
// into the shape the import pipeline consumes
type ExternalOrder struct {
	// ExternalID is the order identifier assigned by the platform
	ExternalID string
	// OrderNumber is the customer-facing order number
	OrderNumber string
	// CustomerEmail is the buyer's email address
	CustomerEmail string
	// Currency is the ISO currency code
	Currency string
	// TotalPrice is the order total
	TotalPrice decimal.Decimal
	// PlacedAt is when the order was placed on the platform
	PlacedAt time.Time
	// Lines are the order line items
	Lines []ExternalLineItem
	// Raw is the platform payload as received, kept for the import ledger
	Raw []byte
}

// OrdersPage is one page of an external order feed
type OrdersPage struct {
	// Orders are the fetched orders
	Orders []ExternalOrder
	// NextCursor requests the following page; "" on the last page
	NextCursor string
}

// ConnectionTestResult is the outcome of a lightweight connectivity probe
type ConnectionTestResult struct {
	// OK is true when the platform answered and accepted the credentials
	OK bool
	// Detail is a short human-readable description (shop name, account id)
	Detail string
}

// InventoryLevel is one SKU's stock level to push to a platform
type InventoryLevel struct {
	// ExternalSku is the platform-side SKU
	ExternalSku string
	// ExternalProductID is the platform-side product/inventory identifier
	ExternalProductID string
	// Quantity is the available quantity to publish
	Quantity int
}

// FulfillmentRequest asks a platform to mark an order (partially) fulfilled
type FulfillmentRequest struct {
	// ExternalOrderID is the platform order to fulfill
	ExternalOrderID string
	// TrackingNumber is the carrier tracking reference
	TrackingNumber string
	// TrackingCompany is the carrier name
	TrackingCompany string
	// NotifyCustomer requests a customer notification from the platform
	NotifyCustomer bool
}

// ---------------------------------------------------------------------------
// PlatformClient
// ---------------------------------------------------------------------------

// PlatformClient is the port every marketplace adapter implements. Callers
// obtain clients from the factory, which wraps every adapter with rate
// limiting and retry before handing it out.
type PlatformClient interface {
	// Platform returns the platform code the client talks to
	Platform() PlatformCode

	// TestConnection runs a lightweight authenticated probe
	TestConnection(ctx context.Context) (*ConnectionTestResult, error)

	// FetchOrdersPage returns one page of orders placed at or after since.
	// Pass cursor "" for the first page; follow NextCursor until it is "".
	FetchOrdersPage(ctx context.Context, since time.Time, cursor string) (*OrdersPage, error)

	// PushInventory publishes one SKU's stock level to the platform. The
	// port is per-level so a rejected SKU never takes the rest of a push
	// pass down with it.
	PushInventory(ctx context.Context, level InventoryLevel) error

	// CreateFulfillment marks an external order fulfilled with tracking
	CreateFulfillment(ctx context.Context, req *FulfillmentRequest) error
}

// ClientFactory constructs platform clients for connections. Implementations
// decrypt the connection's credentials and wrap the adapter with the shared
// rate limiting and retry guards.
type ClientFactory interface {
	// ClientFor builds a guarded client for the connection.
	// Returns ErrPlatformNotSupported when no adapter exists for the platform
	// and ErrCredentialDecrypt when the credential blob cannot be opened.
	ClientFor(ctx context.Context, conn *Connection) (PlatformClient, error)
}

// ---------------------------------------------------------------------------
// Inventory read port
// ---------------------------------------------------------------------------

// StockProvider supplies available quantities for inventory push. It is a
// read-only view onto the warehouse stock owned by a collaborator system.
type StockProvider interface {
	// AvailableQuantity returns the sellable quantity for a catalog product
	AvailableQuantity(ctx context.Context, productID uuid.UUID) (int, error)
}
