package handler

import (
	"context"
	"encoding/json"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/wms/backend/internal/application/monitoring"
	syncapp "github.com/wms/backend/internal/application/sync"
	"github.com/wms/backend/internal/domain/integration"
	"github.com/wms/backend/internal/interfaces/http/dto"
)

// SyncService triggers sync passes on demand
type SyncService interface {
	SyncOrders(ctx context.Context, connectionID uuid.UUID) (*syncapp.OrderSyncResult, error)
	SyncInventory(ctx context.Context, connectionID uuid.UUID) (*syncapp.InventorySyncResult, error)
}

// HealthService exposes monitor state and manual checks
type HealthService interface {
	Status(ctx context.Context) ([]monitoring.ConnectionStatus, error)
	StatusFor(ctx context.Context, connectionID uuid.UUID) (*monitoring.ConnectionStatus, error)
	CheckConnection(ctx context.Context, connectionID uuid.UUID) (*integration.HealthCheckResult, error)
}

// IntegrationHandler handles sync, health and alert API endpoints
type IntegrationHandler struct {
	BaseHandler
	syncService   SyncService
	healthService HealthService
	alerts        integration.AlertRecordRepository
	alertLimit    int
}

// NewIntegrationHandler creates a new IntegrationHandler
func NewIntegrationHandler(syncService SyncService, healthService HealthService, alerts integration.AlertRecordRepository, alertLimit int) *IntegrationHandler {
	return &IntegrationHandler{
		syncService:   syncService,
		healthService: healthService,
		alerts:        alerts,
		alertLimit:    alertLimit,
	}
}

// RegisterRoutes registers integration routes
func (h *IntegrationHandler) RegisterRoutes(rg *gin.RouterGroup) {
	connections := rg.Group("/connections")
	{
		connections.POST("/:id/sync/orders", h.SyncOrders)
		connections.POST("/:id/sync/inventory", h.SyncInventory)
	}

	integrations := rg.Group("/integrations")
	{
		integrations.GET("/health", h.Health)
		integrations.GET("/health/:id", h.HealthFor)
		integrations.POST("/health/:id/check", h.CheckNow)
	}

	rg.GET("/alerts", h.RecentAlerts)
}

// HealthCheckResponse represents a health check verdict in API responses
type HealthCheckResponse struct {
	ConnectionID   string `json:"connection_id"`
	Platform       string `json:"platform"`
	Healthy        bool   `json:"healthy"`
	LatencyMs      int64  `json:"latency_ms"`
	ProbeOK        bool   `json:"probe_ok"`
	RecentSyncs    int    `json:"recent_syncs"`
	RecentFailures int    `json:"recent_failures"`
	Error          string `json:"error,omitempty"`
}

// AlertResponse represents a dispatched alert in API responses
type AlertResponse struct {
	ID        string            `json:"id"`
	Type      string            `json:"type"`
	Severity  string            `json:"severity"`
	Message   string            `json:"message"`
	Data      map[string]string `json:"data,omitempty"`
	CreatedAt time.Time         `json:"created_at"`
}

// SyncOrders triggers an order sync pass for one connection
// POST /api/v1/connections/:id/sync/orders
func (h *IntegrationHandler) SyncOrders(c *gin.Context) {
	id, ok := h.connectionID(c)
	if !ok {
		return
	}

	result, err := h.syncService.SyncOrders(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}

// SyncInventory triggers an inventory push for one connection
// POST /api/v1/connections/:id/sync/inventory
func (h *IntegrationHandler) SyncInventory(c *gin.Context) {
	id, ok := h.connectionID(c)
	if !ok {
		return
	}

	result, err := h.syncService.SyncInventory(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}

// Health returns the monitor snapshot for all active connections
// GET /api/v1/integrations/health
func (h *IntegrationHandler) Health(c *gin.Context) {
	statuses, err := h.healthService.Status(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, statuses)
}

// HealthFor returns the monitor snapshot for one connection
// GET /api/v1/integrations/health/:id
func (h *IntegrationHandler) HealthFor(c *gin.Context) {
	id, ok := h.connectionID(c)
	if !ok {
		return
	}

	status, err := h.healthService.StatusFor(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, status)
}

// CheckNow runs an on-demand health check for one connection
// POST /api/v1/integrations/health/:id/check
func (h *IntegrationHandler) CheckNow(c *gin.Context) {
	id, ok := h.connectionID(c)
	if !ok {
		return
	}

	result, err := h.healthService.CheckConnection(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, HealthCheckResponse{
		ConnectionID:   result.ConnectionID.String(),
		Platform:       result.Platform.String(),
		Healthy:        result.Healthy,
		LatencyMs:      result.Latency.Milliseconds(),
		ProbeOK:        result.ProbeOK,
		RecentSyncs:    result.RecentSyncs,
		RecentFailures: result.RecentFailures,
		Error:          result.Error,
	})
}

// RecentAlerts returns the latest dispatched alerts, newest first
// GET /api/v1/alerts
func (h *IntegrationHandler) RecentAlerts(c *gin.Context) {
	records, err := h.alerts.FindRecent(c.Request.Context(), h.alertLimit)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	alerts := make([]AlertResponse, 0, len(records))
	for i := range records {
		record := &records[i]
		var data map[string]string
		if len(record.Data) > 0 {
			// payload is display-only; a corrupt blob degrades to empty data
			_ = json.Unmarshal(record.Data, &data)
		}
		alerts = append(alerts, AlertResponse{
			ID:        record.ID.String(),
			Type:      string(record.Type),
			Severity:  record.Severity.String(),
			Message:   record.Message,
			Data:      data,
			CreatedAt: record.CreatedAt,
		})
	}
	h.Success(c, alerts)
}

// connectionID parses and validates the :id path parameter
func (h *IntegrationHandler) connectionID(c *gin.Context) (uuid.UUID, bool) {
	var req dto.IDRequest
	if err := c.ShouldBindUri(&req); err != nil {
		h.BadRequest(c, "invalid connection ID")
		return uuid.Nil, false
	}
	id, err := uuid.Parse(req.ID)
	if err != nil {
		h.BadRequest(c, "invalid connection ID")
		return uuid.Nil, false
	}
	return id, true
}
