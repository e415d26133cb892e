package order

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var (
	// ErrOrderLinesRequired indicates an order without line items
	ErrOrderLinesRequired = errors.New("order: at least one line item is required")
	// ErrQuantityInvalid indicates a non-positive line quantity
	ErrQuantityInvalid = errors.New("order: line quantity must be positive")
)

// Source identifies where an order originated
type Source string

const (
	// SourceIntegration marks orders created by the sync engine
	SourceIntegration Source = "INTEGRATION"
	// SourceManual marks orders entered by an operator
	SourceManual Source = "MANUAL"
)

// OrderLine is one product line of an internal order
type OrderLine struct {
	// ID is the unique identifier of the line
	ID uuid.UUID
	// ProductID references the catalog product
	ProductID uuid.UUID
	// Sku is the canonical SKU at time of import
	Sku string
	// Quantity is the ordered quantity
	Quantity int
	// UnitPrice is the per-unit price
	UnitPrice decimal.Decimal
}

// Order is the internal fulfillment order created from an imported external
// order. Fulfillment workflow beyond creation belongs to a collaborator.
type Order struct {
	// ID is the unique identifier of the order
	ID uuid.UUID
	// OrderNumber is the customer-facing number, carried from the platform
	OrderNumber string
	// Source identifies where the order originated
	Source Source
	// ConnectionID is the integration connection the order arrived through
	ConnectionID *uuid.UUID
	// CustomerEmail is the buyer's email address
	CustomerEmail string
	// Currency is the ISO currency code
	Currency string
	// TotalPrice is the order total
	TotalPrice decimal.Decimal
	// Lines are the order line items
	Lines []OrderLine
	// PlacedAt is when the order was placed on the originating channel
	PlacedAt time.Time
	// CreatedAt is when the internal order was created
	CreatedAt time.Time
}

// NewOrder creates an internal order from resolved line items
func NewOrder(orderNumber string, source Source, connectionID *uuid.UUID, customerEmail, currency string, totalPrice decimal.Decimal, lines []OrderLine, placedAt time.Time) (*Order, error) {
	if len(lines) == 0 {
		return nil, ErrOrderLinesRequired
	}
	for _, line := range lines {
		if line.Quantity <= 0 {
			return nil, ErrQuantityInvalid
		}
	}
	return &Order{
		ID:            uuid.New(),
		OrderNumber:   orderNumber,
		Source:        source,
		ConnectionID:  connectionID,
		CustomerEmail: customerEmail,
		Currency:      currency,
		TotalPrice:    totalPrice,
		Lines:         lines,
		PlacedAt:      placedAt,
		CreatedAt:     time.Now(),
	}, nil
}

// NewOrderLine creates an order line
func NewOrderLine(productID uuid.UUID, sku string, quantity int, unitPrice decimal.Decimal) OrderLine {
	return OrderLine{
		ID:        uuid.New(),
		ProductID: productID,
		Sku:       sku,
		Quantity:  quantity,
		UnitPrice: unitPrice,
	}
}

// OrderRepository defines the persistence port for internal orders
type OrderRepository interface {
	// Create persists a new order with its lines
	Create(ctx context.Context, o *Order) error
}
