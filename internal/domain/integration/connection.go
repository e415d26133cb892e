package integration

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// ---------------------------------------------------------------------------
// PlatformCode
// ---------------------------------------------------------------------------

// PlatformCode identifies an external sales channel or shipping carrier
type PlatformCode string

const (
	// PlatformCodeShopify represents a Shopify storefront
	PlatformCodeShopify PlatformCode = "SHOPIFY"
	// PlatformCodeShopifyWholesale represents a Shopify wholesale storefront
	PlatformCodeShopifyWholesale PlatformCode = "SHOPIFY_WHOLESALE"
	// PlatformCodeAmazonFBA represents Amazon fulfilled-by-Amazon
	PlatformCodeAmazonFBA PlatformCode = "AMAZON_FBA"
	// PlatformCodeAmazonMFN represents Amazon merchant-fulfilled
	PlatformCodeAmazonMFN PlatformCode = "AMAZON_MFN"
	// PlatformCodeAmazonFBABB represents the Amazon FBA secondary account
	PlatformCodeAmazonFBABB PlatformCode = "AMAZON_FBA_BB"
	// PlatformCodeAmazonEU represents the Amazon EU marketplace
	PlatformCodeAmazonEU PlatformCode = "AMAZON_EU"
	// PlatformCodeEbay represents eBay
	PlatformCodeEbay PlatformCode = "EBAY"
	// PlatformCodeTikTok represents TikTok Shop
	PlatformCodeTikTok PlatformCode = "TIKTOK"
	// PlatformCodeRoyalMail represents the Royal Mail shipping carrier
	PlatformCodeRoyalMail PlatformCode = "ROYAL_MAIL"
	// PlatformCodeDPD represents the DPD shipping carrier
	PlatformCodeDPD PlatformCode = "DPD"
)

// IsValid returns true if the platform code is known
func (c PlatformCode) IsValid() bool {
	switch c {
	case PlatformCodeShopify, PlatformCodeShopifyWholesale,
		PlatformCodeAmazonFBA, PlatformCodeAmazonMFN, PlatformCodeAmazonFBABB, PlatformCodeAmazonEU,
		PlatformCodeEbay, PlatformCodeTikTok,
		PlatformCodeRoyalMail, PlatformCodeDPD:
		return true
	default:
		return false
	}
}

// String returns the string representation of PlatformCode
func (c PlatformCode) String() string {
	return string(c)
}

// IsCarrier returns true if the platform is a shipping carrier rather than
// a sales channel. Carriers have no order feed or inventory push.
func (c PlatformCode) IsCarrier() bool {
	switch c {
	case PlatformCodeRoyalMail, PlatformCodeDPD:
		return true
	default:
		return false
	}
}

// CatalogField returns the product catalog column holding this channel's
// platform-specific SKU, or "" when the channel has none (eBay relies on
// explicit SKU mappings only).
func (c PlatformCode) CatalogField() string {
	switch c {
	case PlatformCodeShopify:
		return "ffd_sku"
	case PlatformCodeShopifyWholesale:
		return "ws_sku"
	case PlatformCodeAmazonFBA:
		return "amz_sku"
	case PlatformCodeAmazonMFN:
		return "amz_sku_m"
	case PlatformCodeAmazonFBABB:
		return "amz_sku_bb"
	case PlatformCodeAmazonEU:
		return "amz_sku_eu"
	default:
		return ""
	}
}

// ---------------------------------------------------------------------------
// Connection Entity
// ---------------------------------------------------------------------------

// Connection represents one configured link to an external marketplace or
// carrier. The credential blob is opaque to the domain; it is decrypted by
// the credential store only when a platform client is constructed.
type Connection struct {
	// ID is the unique identifier of the connection
	ID uuid.UUID
	// Platform identifies which external platform this connection targets
	Platform PlatformCode
	// AccountName is the operator-facing label for this connection
	AccountName string
	// CredentialBlob is the encrypted credential payload
	CredentialBlob []byte
	// IsActive indicates whether sync and health checks run for this connection
	IsActive bool
	// TokenExpiresAt is when the platform access token expires, if known
	TokenExpiresAt *time.Time
	// LastSyncAt is when the last sync or deep health check touched the platform
	LastSyncAt *time.Time
	// LastOrderSyncAt is the order feed watermark. Only a successful order
	// sync advances it; inventory pushes and health checks stamp LastSyncAt
	// without moving the watermark, so no order window is ever skipped.
	LastOrderSyncAt *time.Time
	// LastSyncError holds the error of the most recent attempt, "" on success
	LastSyncError string
	// CreatedAt is when the connection was configured
	CreatedAt time.Time
	// UpdatedAt is when the connection was last modified
	UpdatedAt time.Time
}

// RecordSyncSuccess stamps a successful platform interaction.
// The last-sync error is always the error of the most recent attempt,
// so success clears it.
func (c *Connection) RecordSyncSuccess(at time.Time) {
	c.LastSyncAt = &at
	c.LastSyncError = ""
	c.UpdatedAt = at
}

// RecordOrderSyncSuccess stamps a successful order sync and advances the
// order feed watermark
func (c *Connection) RecordOrderSyncSuccess(at time.Time) {
	c.RecordSyncSuccess(at)
	c.LastOrderSyncAt = &at
}

// RecordSyncFailure stamps a failed platform interaction
func (c *Connection) RecordSyncFailure(at time.Time, errMsg string) {
	c.LastSyncAt = &at
	c.LastSyncError = errMsg
	c.UpdatedAt = at
}

// DaysUntilTokenExpiry returns the number of days until the access token
// expires. The second return value is false when no expiry is tracked.
func (c *Connection) DaysUntilTokenExpiry(now time.Time) (float64, bool) {
	if c.TokenExpiresAt == nil {
		return 0, false
	}
	return c.TokenExpiresAt.Sub(now).Hours() / 24, true
}

// ---------------------------------------------------------------------------
// Credentials
// ---------------------------------------------------------------------------

// Credentials holds decrypted platform credentials as key/value pairs
// (e.g. "shop", "access_token" for Shopify).
type Credentials map[string]string

// Get returns the value for key, or "" when absent
func (c Credentials) Get(key string) string {
	return c[key]
}

// CredentialStore is the port for the opaque encrypt/decrypt capability.
// A decryption failure is a configuration error, never a health failure.
type CredentialStore interface {
	// Encrypt seals credentials into an opaque blob
	Encrypt(creds Credentials) ([]byte, error)
	// Decrypt opens a blob produced by Encrypt
	Decrypt(blob []byte) (Credentials, error)
}

// ---------------------------------------------------------------------------
// ConnectionRepository
// ---------------------------------------------------------------------------

// ConnectionRepository defines the persistence port for connections.
// The engine never deletes connections; deletion is a collaborator concern.
type ConnectionRepository interface {
	// FindByID finds a connection by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*Connection, error)

	// FindActive returns all active connections
	FindActive(ctx context.Context) ([]Connection, error)

	// FindActiveWithTokenExpiry returns active connections that track a
	// token expiry timestamp
	FindActiveWithTokenExpiry(ctx context.Context) ([]Connection, error)

	// Save creates or updates a connection
	Save(ctx context.Context, conn *Connection) error
}
