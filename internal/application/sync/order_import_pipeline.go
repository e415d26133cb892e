package sync

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/wms/backend/internal/domain/integration"
	"github.com/wms/backend/internal/domain/order"
)

// ImportOutcome is what happened to one external order
type ImportOutcome string

const (
	// ImportOutcomeCreated means an internal order was created
	ImportOutcomeCreated ImportOutcome = "CREATED"
	// ImportOutcomeSkipped means no line resolved to a catalog product
	ImportOutcomeSkipped ImportOutcome = "SKIPPED"
	// ImportOutcomeFailed means processing errored after the ledger record was created
	ImportOutcomeFailed ImportOutcome = "FAILED"
	// ImportOutcomeAlreadyExists means the order was seen before and left untouched
	ImportOutcomeAlreadyExists ImportOutcome = "ALREADY_EXISTS"
)

// OrderImportPipeline turns external orders into internal orders exactly
// once per (connection, external order). The ledger record is created
// PENDING before any processing; its unique natural key makes concurrent
// passes over the same order resolve to one winner.
type OrderImportPipeline struct {
	imports  integration.OrderImportRepository
	orders   order.OrderRepository
	resolver *SkuResolver
	logger   *zap.Logger
}

// NewOrderImportPipeline creates an order import pipeline
func NewOrderImportPipeline(
	imports integration.OrderImportRepository,
	orders order.OrderRepository,
	resolver *SkuResolver,
	logger *zap.Logger,
) *OrderImportPipeline {
	return &OrderImportPipeline{
		imports:  imports,
		orders:   orders,
		resolver: resolver,
		logger:   logger,
	}
}

// Import processes one external order and reports the outcome. Only
// infrastructure failures before the ledger record exists surface as
// errors; once the record is persisted every failure is absorbed into a
// FAILED transition so one bad order never aborts a sync pass.
func (p *OrderImportPipeline) Import(ctx context.Context, conn *integration.Connection, ext *integration.ExternalOrder) (ImportOutcome, error) {
	if ext.ExternalID == "" {
		return ImportOutcomeFailed, integration.ErrExternalOrderInvalid
	}

	existing, err := p.imports.FindByNaturalKey(ctx, conn.ID, ext.ExternalID)
	if err != nil {
		return ImportOutcomeFailed, err
	}
	if existing != nil {
		return ImportOutcomeAlreadyExists, nil
	}

	record, err := integration.NewOrderImportRecord(conn.ID, ext.ExternalID, ext.Raw)
	if err != nil {
		return ImportOutcomeFailed, err
	}
	if err := p.imports.Create(ctx, record); err != nil {
		if errors.Is(err, integration.ErrImportRecordExists) {
			// Lost the race against a concurrent pass; the winner owns the order
			return ImportOutcomeAlreadyExists, nil
		}
		return ImportOutcomeFailed, err
	}

	outcome := p.process(ctx, conn, ext, record)
	if err := p.imports.Update(ctx, record); err != nil {
		p.logger.Error("failed to persist import record transition",
			zap.String("connection_id", conn.ID.String()),
			zap.String("external_order_id", ext.ExternalID),
			zap.Error(err))
		return ImportOutcomeFailed, err
	}
	return outcome, nil
}

// process resolves lines and creates the internal order, recording the
// terminal status on the ledger record
func (p *OrderImportPipeline) process(ctx context.Context, conn *integration.Connection, ext *integration.ExternalOrder, record *integration.OrderImportRecord) ImportOutcome {
	lines := make([]order.OrderLine, 0, len(ext.Lines))
	for _, item := range ext.Lines {
		product, err := p.resolver.Resolve(ctx, conn, item.Sku)
		if err != nil {
			p.logger.Error("sku resolution failed",
				zap.String("connection_id", conn.ID.String()),
				zap.String("external_order_id", ext.ExternalID),
				zap.String("sku", item.Sku),
				zap.Error(err))
			_ = record.MarkFailed(err.Error())
			return ImportOutcomeFailed
		}
		if product == nil {
			p.logger.Debug("line skipped, sku unresolved",
				zap.String("external_order_id", ext.ExternalID),
				zap.String("sku", item.Sku))
			continue
		}
		lines = append(lines, order.NewOrderLine(product.ID, product.Sku, item.Quantity, item.UnitPrice))
	}

	if len(lines) == 0 {
		_ = record.MarkSkipped()
		p.logger.Info("external order skipped, no line resolved",
			zap.String("connection_id", conn.ID.String()),
			zap.String("external_order_id", ext.ExternalID),
			zap.Int("line_count", len(ext.Lines)))
		return ImportOutcomeSkipped
	}

	connID := conn.ID
	internal, err := order.NewOrder(ext.OrderNumber, order.SourceIntegration, &connID,
		ext.CustomerEmail, ext.Currency, ext.TotalPrice, lines, ext.PlacedAt)
	if err != nil {
		_ = record.MarkFailed(err.Error())
		return ImportOutcomeFailed
	}
	if err := p.orders.Create(ctx, internal); err != nil {
		p.logger.Error("failed to create internal order",
			zap.String("external_order_id", ext.ExternalID),
			zap.Error(err))
		_ = record.MarkFailed(err.Error())
		return ImportOutcomeFailed
	}

	_ = record.MarkImported(internal.ID)
	p.logger.Info("external order imported",
		zap.String("connection_id", conn.ID.String()),
		zap.String("external_order_id", ext.ExternalID),
		zap.String("order_id", internal.ID.String()),
		zap.Int("lines", len(lines)))
	return ImportOutcomeCreated
}
