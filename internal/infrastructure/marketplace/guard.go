package marketplace

import (
	"context"
	"time"

	"github.com/wms/backend/internal/domain/integration"
	"github.com/wms/backend/internal/infrastructure/ratelimit"
	"github.com/wms/backend/internal/infrastructure/retry"
)

// rateLimitPolicy is the admission budget applied to one connection's calls
type rateLimitPolicy struct {
	maxRequests int
	window      time.Duration
}

// rateLimitFor returns the platform's call budget. Shopify's REST bucket
// refills at 2 requests per second; the default matches the most restrictive
// marketplace feed quota.
func rateLimitFor(platform integration.PlatformCode) rateLimitPolicy {
	switch platform {
	case integration.PlatformCodeShopify, integration.PlatformCodeShopifyWholesale:
		return rateLimitPolicy{maxRequests: 2, window: time.Second}
	default:
		return rateLimitPolicy{maxRequests: 30, window: time.Minute}
	}
}

// GuardedClient wraps a platform adapter so every outbound call passes the
// sliding-window limiter first and runs under the retry policy. The limiter
// key is the connection ID, so two connections to the same platform consume
// separate budgets.
type GuardedClient struct {
	inner   integration.PlatformClient
	limiter *ratelimit.SlidingWindowLimiter
	retrier *retry.Executor
	key     string
	policy  rateLimitPolicy
}

// NewGuardedClient wraps inner with rate limiting and retries
func NewGuardedClient(inner integration.PlatformClient, limiter *ratelimit.SlidingWindowLimiter, retrier *retry.Executor, key string) *GuardedClient {
	return &GuardedClient{
		inner:   inner,
		limiter: limiter,
		retrier: retrier,
		key:     key,
		policy:  rateLimitFor(inner.Platform()),
	}
}

// Platform returns the wrapped adapter's platform code
func (g *GuardedClient) Platform() integration.PlatformCode {
	return g.inner.Platform()
}

// guard acquires a rate-limit slot then runs op under the retry policy.
// The slot is re-acquired before every retry attempt so retries also count
// against the budget.
func (g *GuardedClient) guard(ctx context.Context, name string, op func(ctx context.Context) error) error {
	return g.retrier.Do(ctx, name, func(ctx context.Context) error {
		if err := g.limiter.Acquire(ctx, g.key, g.policy.maxRequests, g.policy.window); err != nil {
			return err
		}
		return op(ctx)
	})
}

// TestConnection probes the platform through the guards
func (g *GuardedClient) TestConnection(ctx context.Context) (*integration.ConnectionTestResult, error) {
	var result *integration.ConnectionTestResult
	err := g.guard(ctx, "test_connection", func(ctx context.Context) error {
		var opErr error
		result, opErr = g.inner.TestConnection(ctx)
		return opErr
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// FetchOrdersPage fetches one order page through the guards
func (g *GuardedClient) FetchOrdersPage(ctx context.Context, since time.Time, cursor string) (*integration.OrdersPage, error) {
	var page *integration.OrdersPage
	err := g.guard(ctx, "fetch_orders", func(ctx context.Context) error {
		var opErr error
		page, opErr = g.inner.FetchOrdersPage(ctx, since, cursor)
		return opErr
	})
	if err != nil {
		return nil, err
	}
	return page, nil
}

// PushInventory publishes one stock level through the guards
func (g *GuardedClient) PushInventory(ctx context.Context, level integration.InventoryLevel) error {
	return g.guard(ctx, "push_inventory", func(ctx context.Context) error {
		return g.inner.PushInventory(ctx, level)
	})
}

// CreateFulfillment creates a fulfillment through the guards
func (g *GuardedClient) CreateFulfillment(ctx context.Context, req *integration.FulfillmentRequest) error {
	return g.guard(ctx, "create_fulfillment", func(ctx context.Context) error {
		return g.inner.CreateFulfillment(ctx, req)
	})
}

// Ensure GuardedClient implements the PlatformClient interface
var _ integration.PlatformClient = (*GuardedClient)(nil)
