package marketplace

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/wms/backend/internal/domain/integration"
	"github.com/wms/backend/internal/infrastructure/ratelimit"
	"github.com/wms/backend/internal/infrastructure/retry"
)

// Factory builds guarded platform clients for connections. It decrypts the
// connection's credential blob, constructs the matching adapter and wraps it
// with the shared rate limiter and retry executor.
type Factory struct {
	credentials integration.CredentialStore
	limiter     *ratelimit.SlidingWindowLimiter
	retrier     *retry.Executor
	timeout     time.Duration
	logger      *zap.Logger
}

// NewFactory creates a client factory
func NewFactory(credentials integration.CredentialStore, limiter *ratelimit.SlidingWindowLimiter, retrier *retry.Executor, timeout time.Duration, logger *zap.Logger) *Factory {
	return &Factory{
		credentials: credentials,
		limiter:     limiter,
		retrier:     retrier,
		timeout:     timeout,
		logger:      logger,
	}
}

// ClientFor builds a guarded client for the connection
func (f *Factory) ClientFor(_ context.Context, conn *integration.Connection) (integration.PlatformClient, error) {
	if !conn.IsActive {
		return nil, integration.ErrConnectionInactive
	}

	creds, err := f.credentials.Decrypt(conn.CredentialBlob)
	if err != nil {
		f.logger.Error("failed to decrypt connection credentials",
			zap.String("connection_id", conn.ID.String()),
			zap.String("platform", conn.Platform.String()))
		return nil, fmt.Errorf("%w: %v", integration.ErrCredentialDecrypt, err)
	}

	adapter, err := f.buildAdapter(conn.Platform, creds)
	if err != nil {
		return nil, err
	}

	return NewGuardedClient(adapter, f.limiter, f.retrier, conn.ID.String()), nil
}

// buildAdapter constructs the raw adapter for a platform
func (f *Factory) buildAdapter(platform integration.PlatformCode, creds integration.Credentials) (integration.PlatformClient, error) {
	switch platform {
	case integration.PlatformCodeShopify, integration.PlatformCodeShopifyWholesale:
		return NewShopifyAdapter(platform, creds, f.timeout)
	default:
		return nil, fmt.Errorf("%w: %s", integration.ErrPlatformNotSupported, platform)
	}
}

// Ensure Factory implements the ClientFactory interface
var _ integration.ClientFactory = (*Factory)(nil)
