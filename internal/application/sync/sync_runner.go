package sync

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/wms/backend/internal/domain/catalog"
	"github.com/wms/backend/internal/domain/integration"
)

// OrderSyncResult summarizes one order sync pass
type OrderSyncResult struct {
	// Imported counts orders that created an internal order
	Imported int `json:"imported"`
	// Skipped counts orders with no resolvable line
	Skipped int `json:"skipped"`
	// Failed counts orders that errored during processing
	Failed int `json:"failed"`
	// AlreadyExists counts orders seen in an earlier pass
	AlreadyExists int `json:"already_exists"`
	// Total counts all orders the pass examined
	Total int `json:"total"`
}

// InventorySyncResult summarizes one inventory push pass
type InventorySyncResult struct {
	// Pushed counts stock levels published to the platform
	Pushed int `json:"pushed"`
	// Unmapped counts SKU mappings with no matching catalog product
	Unmapped int `json:"unmapped"`
	// Errors counts SKUs whose lookup or push failed; the pass continues
	// past them
	Errors int `json:"errors"`
}

// Config holds the runner's tunables
type Config struct {
	// OrderLookback is the since window when a connection has never synced
	OrderLookback time.Duration
}

// SyncRunner executes order and inventory sync passes per connection. Every
// platform call goes through the guarded client the factory hands out, so
// rate limiting and retries apply uniformly. Failures are isolated at two
// levels: one bad order never aborts its pass, and one failing connection
// never aborts a sweep over all connections.
type SyncRunner struct {
	connections integration.ConnectionRepository
	mappings    integration.SkuMappingRepository
	products    catalog.ProductRepository
	stock       integration.StockProvider
	syncLogs    integration.SyncLogRepository
	factory     integration.ClientFactory
	pipeline    *OrderImportPipeline
	config      Config
	logger      *zap.Logger

	// now is swapped in tests
	now func() time.Time
}

// NewSyncRunner creates a sync runner
func NewSyncRunner(
	connections integration.ConnectionRepository,
	mappings integration.SkuMappingRepository,
	products catalog.ProductRepository,
	stock integration.StockProvider,
	syncLogs integration.SyncLogRepository,
	factory integration.ClientFactory,
	pipeline *OrderImportPipeline,
	config Config,
	logger *zap.Logger,
) *SyncRunner {
	if config.OrderLookback <= 0 {
		config.OrderLookback = 7 * 24 * time.Hour
	}
	return &SyncRunner{
		connections: connections,
		mappings:    mappings,
		products:    products,
		stock:       stock,
		syncLogs:    syncLogs,
		factory:     factory,
		pipeline:    pipeline,
		config:      config,
		logger:      logger,
		now:         time.Now,
	}
}

// ---------------------------------------------------------------------------
// Order Sync
// ---------------------------------------------------------------------------

// SyncOrders pulls the full order feed of one connection and imports every
// order through the pipeline. The cursor chain is followed to the last page.
func (s *SyncRunner) SyncOrders(ctx context.Context, connectionID uuid.UUID) (*OrderSyncResult, error) {
	conn, err := s.connections.FindByID(ctx, connectionID)
	if err != nil {
		return nil, err
	}
	if !conn.IsActive {
		return nil, integration.ErrConnectionInactive
	}

	client, err := s.factory.ClientFor(ctx, conn)
	if err != nil {
		return nil, err
	}

	s.appendLog(ctx, conn.ID, integration.SyncTypeOrders, integration.SyncLogStatusInProgress, 0, "")

	// The watermark is the last successful order sync, never LastSyncAt:
	// inventory pushes and deep health checks stamp that one too, and using
	// it here would skip every order placed between the two.
	since := s.now().Add(-s.config.OrderLookback)
	if conn.LastOrderSyncAt != nil && conn.LastOrderSyncAt.After(since) {
		since = *conn.LastOrderSyncAt
	}

	result := &OrderSyncResult{}
	cursor := ""
	for {
		page, err := client.FetchOrdersPage(ctx, since, cursor)
		if err != nil {
			s.finishOrders(ctx, conn, result, err)
			return result, fmt.Errorf("fetch orders for %s: %w", conn.AccountName, err)
		}

		for i := range page.Orders {
			outcome, err := s.pipeline.Import(ctx, conn, &page.Orders[i])
			result.Total++
			switch outcome {
			case ImportOutcomeCreated:
				result.Imported++
			case ImportOutcomeSkipped:
				result.Skipped++
			case ImportOutcomeAlreadyExists:
				result.AlreadyExists++
			default:
				result.Failed++
				if err != nil {
					s.logger.Warn("order import failed, continuing pass",
						zap.String("connection_id", conn.ID.String()),
						zap.String("external_order_id", page.Orders[i].ExternalID),
						zap.Error(err))
				}
			}
		}

		if page.NextCursor == "" {
			break
		}
		cursor = page.NextCursor
	}

	s.finishOrders(ctx, conn, result, nil)
	s.logger.Info("order sync completed",
		zap.String("connection_id", conn.ID.String()),
		zap.String("account", conn.AccountName),
		zap.Int("imported", result.Imported),
		zap.Int("skipped", result.Skipped),
		zap.Int("failed", result.Failed),
		zap.Int("total", result.Total))
	return result, nil
}

// SyncAllOrders runs an order sync pass for every active connection.
// A failing connection is logged and skipped, never propagated.
func (s *SyncRunner) SyncAllOrders(ctx context.Context) {
	connections, err := s.connections.FindActive(ctx)
	if err != nil {
		s.logger.Error("failed to list active connections", zap.Error(err))
		return
	}

	for i := range connections {
		if connections[i].Platform.IsCarrier() {
			continue
		}
		if _, err := s.SyncOrders(ctx, connections[i].ID); err != nil {
			s.logger.Error("order sync failed for connection",
				zap.String("connection_id", connections[i].ID.String()),
				zap.String("account", connections[i].AccountName),
				zap.Error(err))
		}
	}
}

// finishOrders records the pass outcome on the sync log and the connection
func (s *SyncRunner) finishOrders(ctx context.Context, conn *integration.Connection, result *OrderSyncResult, passErr error) {
	now := s.now()
	if passErr != nil {
		s.appendLog(ctx, conn.ID, integration.SyncTypeOrders, integration.SyncLogStatusFailed, result.Imported, passErr.Error())
		conn.RecordSyncFailure(now, passErr.Error())
	} else {
		s.appendLog(ctx, conn.ID, integration.SyncTypeOrders, integration.SyncLogStatusSuccess, result.Imported, "")
		conn.RecordOrderSyncSuccess(now)
	}
	if err := s.connections.Save(ctx, conn); err != nil {
		s.logger.Error("failed to update connection sync state",
			zap.String("connection_id", conn.ID.String()),
			zap.Error(err))
	}
}

// ---------------------------------------------------------------------------
// Inventory Sync
// ---------------------------------------------------------------------------

// SyncInventory publishes current stock levels for every SKU mapping of one
// connection. Mappings pointing at unknown products are counted and skipped.
func (s *SyncRunner) SyncInventory(ctx context.Context, connectionID uuid.UUID) (*InventorySyncResult, error) {
	conn, err := s.connections.FindByID(ctx, connectionID)
	if err != nil {
		return nil, err
	}
	if !conn.IsActive {
		return nil, integration.ErrConnectionInactive
	}

	client, err := s.factory.ClientFor(ctx, conn)
	if err != nil {
		return nil, err
	}

	s.appendLog(ctx, conn.ID, integration.SyncTypeInventory, integration.SyncLogStatusInProgress, 0, "")

	mappings, err := s.mappings.FindByConnection(ctx, conn.ID)
	if err != nil {
		s.finishInventory(ctx, conn, 0, err)
		return nil, err
	}

	// One bad SKU never aborts the pass: lookup and push failures are
	// counted per item and the remaining mappings still go out.
	result := &InventorySyncResult{}
	for _, mapping := range mappings {
		product, err := s.products.FindBySku(ctx, mapping.InternalSku)
		if err != nil {
			result.Errors++
			s.logger.Warn("product lookup failed, skipping sku",
				zap.String("connection_id", conn.ID.String()),
				zap.String("internal_sku", mapping.InternalSku),
				zap.Error(err))
			continue
		}
		if product == nil {
			result.Unmapped++
			s.logger.Warn("sku mapping has no catalog product",
				zap.String("connection_id", conn.ID.String()),
				zap.String("internal_sku", mapping.InternalSku))
			continue
		}

		quantity, err := s.stock.AvailableQuantity(ctx, product.ID)
		if err != nil {
			result.Errors++
			s.logger.Warn("stock lookup failed, skipping sku",
				zap.String("connection_id", conn.ID.String()),
				zap.String("internal_sku", mapping.InternalSku),
				zap.Error(err))
			continue
		}

		level := integration.InventoryLevel{
			ExternalSku:       mapping.ExternalSku,
			ExternalProductID: mapping.ExternalProductID,
			Quantity:          quantity,
		}
		if err := client.PushInventory(ctx, level); err != nil {
			result.Errors++
			s.logger.Warn("inventory push failed, continuing pass",
				zap.String("connection_id", conn.ID.String()),
				zap.String("external_sku", mapping.ExternalSku),
				zap.Error(err))
			continue
		}
		result.Pushed++
	}

	s.finishInventory(ctx, conn, result.Pushed, nil)
	s.logger.Info("inventory sync completed",
		zap.String("connection_id", conn.ID.String()),
		zap.String("account", conn.AccountName),
		zap.Int("pushed", result.Pushed),
		zap.Int("unmapped", result.Unmapped),
		zap.Int("errors", result.Errors))
	return result, nil
}

// finishInventory records the pass outcome on the sync log and the connection
func (s *SyncRunner) finishInventory(ctx context.Context, conn *integration.Connection, pushed int, passErr error) {
	now := s.now()
	if passErr != nil {
		s.appendLog(ctx, conn.ID, integration.SyncTypeInventory, integration.SyncLogStatusFailed, pushed, passErr.Error())
		conn.RecordSyncFailure(now, passErr.Error())
	} else {
		s.appendLog(ctx, conn.ID, integration.SyncTypeInventory, integration.SyncLogStatusSuccess, pushed, "")
		conn.RecordSyncSuccess(now)
	}
	if err := s.connections.Save(ctx, conn); err != nil {
		s.logger.Error("failed to update connection sync state",
			zap.String("connection_id", conn.ID.String()),
			zap.Error(err))
	}
}

// appendLog writes a sync log entry; the audit trail is best effort
func (s *SyncRunner) appendLog(ctx context.Context, connID uuid.UUID, syncType integration.SyncType, status integration.SyncLogStatus, records int, errMsg string) {
	entry := integration.NewSyncLog(connID, syncType, status, records, errMsg)
	if err := s.syncLogs.Append(ctx, entry); err != nil {
		s.logger.Error("failed to append sync log",
			zap.String("connection_id", connID.String()),
			zap.Error(err))
	}
}
