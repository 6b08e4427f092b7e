package event

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/washpoint/backend/internal/domain/loyalty"
	"github.com/washpoint/backend/internal/domain/shared"
	"github.com/washpoint/backend/internal/infrastructure/telemetry"
)

// MovementRecorder receives wallet ledger movements for metrics.
// *telemetry.BusinessMetrics implements it.
type MovementRecorder interface {
	RecordMovementWithPoints(ctx context.Context, tenantID uuid.UUID, movementType telemetry.MovementType, points int64)
}

// WalletMovementHandler feeds wallet ledger events from the bus into the
// business metrics counters. It is subscribed behind an IdempotentHandler so
// redeliveries from the outbox processor are counted once.
type WalletMovementHandler struct {
	recorder MovementRecorder
	logger   *zap.Logger
}

// NewWalletMovementHandler creates a new WalletMovementHandler
func NewWalletMovementHandler(recorder MovementRecorder, logger *zap.Logger) *WalletMovementHandler {
	return &WalletMovementHandler{
		recorder: recorder,
		logger:   logger,
	}
}

// EventTypes returns the wallet ledger movement event types
func (h *WalletMovementHandler) EventTypes() []string {
	return []string{
		loyalty.EventTypePointsEarned,
		loyalty.EventTypePointsRedeemed,
		loyalty.EventTypePointsAdjusted,
		loyalty.EventTypePointsExpired,
	}
}

// Handle records the movement carried by a wallet ledger event
func (h *WalletMovementHandler) Handle(ctx context.Context, e shared.DomainEvent) error {
	switch evt := e.(type) {
	case *loyalty.PointsEarnedEvent:
		h.recorder.RecordMovementWithPoints(ctx, evt.TenantID(), telemetry.MovementTypeEarn, evt.Points)
	case *loyalty.PointsRedeemedEvent:
		h.recorder.RecordMovementWithPoints(ctx, evt.TenantID(), telemetry.MovementTypeRedeem, evt.Points)
	case *loyalty.PointsAdjustedEvent:
		h.recorder.RecordMovementWithPoints(ctx, evt.TenantID(), telemetry.MovementTypeAdjust, evt.PointsDelta)
	case *loyalty.PointsExpiredEvent:
		h.recorder.RecordMovementWithPoints(ctx, evt.TenantID(), telemetry.MovementTypeExpire, evt.Points)
	default:
		h.logger.Debug("ignoring event without movement data",
			zap.String("event_type", e.EventType()),
		)
	}
	return nil
}

var _ shared.EventHandler = (*WalletMovementHandler)(nil)
