// Package telemetry provides OpenTelemetry integration for metrics collection.
package telemetry

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"
)

// BusinessMetrics provides business metrics for the loyalty platform.
// It tracks wallet movement activity and outstanding points liability.
type BusinessMetrics struct {
	meter  metric.Meter
	logger *zap.Logger

	// Counter metrics (monotonically increasing)
	walletMovementTotal *Counter
	pointsMovedTotal    *Counter

	// Gauge metrics (point-in-time values)
	pointsOutstanding *Gauge
	walletCount       *Gauge

	// Periodic collector
	stopChan    chan struct{}
	stopOnce    sync.Once
	collectOnce sync.Once

	// Data provider for periodic collection
	walletProvider WalletMetricsProvider
}

// WalletMetricsProvider provides wallet data for periodic metrics collection.
// This interface allows the telemetry layer to query wallet state without
// depending on the loyalty domain directly.
type WalletMetricsProvider interface {
	// GetOutstandingPoints returns the sum of available points across a tenant's wallets
	GetOutstandingPoints(ctx context.Context, tenantID uuid.UUID) (int64, error)

	// GetWalletCount returns the number of wallets holding a positive balance for a tenant
	GetWalletCount(ctx context.Context, tenantID uuid.UUID) (int64, error)
}

// BusinessMetricsConfig holds configuration for business metrics.
type BusinessMetricsConfig struct {
	Meter           metric.Meter
	Logger          *zap.Logger
	CollectInterval time.Duration // Default: 5 minutes
	WalletProvider  WalletMetricsProvider
}

// NewBusinessMetrics creates a new BusinessMetrics instance.
func NewBusinessMetrics(cfg BusinessMetricsConfig) (*BusinessMetrics, error) {
	if cfg.Meter == nil {
		return nil, ErrMeterNil
	}

	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	bm := &BusinessMetrics{
		meter:          cfg.Meter,
		logger:         logger,
		stopChan:       make(chan struct{}),
		walletProvider: cfg.WalletProvider,
	}

	// Initialize counter metrics
	var err error

	bm.walletMovementTotal, err = NewCounter(
		cfg.Meter,
		"washpoint_wallet_movement_total",
		"Total number of wallet ledger entries written",
		"{entries}",
	)
	if err != nil {
		return nil, err
	}

	bm.pointsMovedTotal, err = NewCounter(
		cfg.Meter,
		"washpoint_points_moved_total",
		"Total absolute points moved through wallet ledger entries",
		"{points}",
	)
	if err != nil {
		return nil, err
	}

	// Liability gauge metrics
	bm.pointsOutstanding, err = NewGauge(
		cfg.Meter,
		"washpoint_points_outstanding",
		"Points currently available across a tenant's wallets",
		"{points}",
	)
	if err != nil {
		return nil, err
	}

	bm.walletCount, err = NewGauge(
		cfg.Meter,
		"washpoint_wallets_with_balance",
		"Number of wallets holding a positive balance",
		"{wallets}",
	)
	if err != nil {
		return nil, err
	}

	return bm, nil
}

// =============================================================================
// Movement Metrics
// =============================================================================

// MovementType labels a wallet ledger entry for metrics.
type MovementType string

const (
	MovementTypeEarn   MovementType = "earn"
	MovementTypeRedeem MovementType = "redeem"
	MovementTypeAdjust MovementType = "adjust"
	MovementTypeExpire MovementType = "expire"
)

// RecordMovement records a wallet ledger entry.
// This should be called from the application layer after an entry is persisted.
func (bm *BusinessMetrics) RecordMovement(ctx context.Context, tenantID uuid.UUID, movementType MovementType) {
	bm.walletMovementTotal.Inc(ctx,
		AttrTenantID.String(tenantID.String()),
		AttrMovementType.String(string(movementType)),
	)
}

// RecordPointsMoved records the absolute points moved by a ledger entry.
func (bm *BusinessMetrics) RecordPointsMoved(ctx context.Context, tenantID uuid.UUID, movementType MovementType, points int64) {
	bm.pointsMovedTotal.Add(ctx, points,
		AttrTenantID.String(tenantID.String()),
		AttrMovementType.String(string(movementType)),
	)
}

// RecordMovementWithPoints is a convenience method that records both entry count and points.
func (bm *BusinessMetrics) RecordMovementWithPoints(ctx context.Context, tenantID uuid.UUID, movementType MovementType, points int64) {
	bm.RecordMovement(ctx, tenantID, movementType)

	if points < 0 {
		points = -points
	}
	bm.RecordPointsMoved(ctx, tenantID, movementType, points)
}

// =============================================================================
// Liability Metrics
// =============================================================================

// RecordOutstandingPoints records the current points liability for a tenant.
// This is a gauge metric that should be updated periodically.
func (bm *BusinessMetrics) RecordOutstandingPoints(ctx context.Context, tenantID uuid.UUID, points int64) {
	bm.pointsOutstanding.Record(ctx, points,
		AttrTenantID.String(tenantID.String()),
	)
}

// RecordWalletCount records the number of wallets with a positive balance.
// This is a gauge metric that should be updated periodically.
func (bm *BusinessMetrics) RecordWalletCount(ctx context.Context, tenantID uuid.UUID, count int64) {
	bm.walletCount.Record(ctx, count,
		AttrTenantID.String(tenantID.String()),
	)
}

// =============================================================================
// Periodic Collection
// =============================================================================

// TenantProvider provides tenant IDs for periodic metrics collection.
type TenantProvider interface {
	GetActiveTenantIDs(ctx context.Context) ([]uuid.UUID, error)
}

// StartPeriodicCollection starts periodic collection of gauge metrics.
// It collects wallet liability metrics every interval (default: 5 minutes).
// This is non-blocking - use Stop() to stop collection.
func (bm *BusinessMetrics) StartPeriodicCollection(ctx context.Context, tenantProvider TenantProvider, interval time.Duration) {
	bm.collectOnce.Do(func() {
		if interval <= 0 {
			interval = 5 * time.Minute
		}

		go bm.runPeriodicCollection(ctx, tenantProvider, interval)
	})
}

// runPeriodicCollection runs the periodic collection loop.
func (bm *BusinessMetrics) runPeriodicCollection(ctx context.Context, tenantProvider TenantProvider, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	// Collect immediately on start
	bm.collectWalletMetrics(ctx, tenantProvider)

	for {
		select {
		case <-bm.stopChan:
			bm.logger.Info("Stopping periodic business metrics collection")
			return
		case <-ctx.Done():
			bm.logger.Info("Context cancelled, stopping periodic business metrics collection")
			return
		case <-ticker.C:
			bm.collectWalletMetrics(ctx, tenantProvider)
		}
	}
}

// collectWalletMetrics collects wallet gauge metrics for all tenants.
func (bm *BusinessMetrics) collectWalletMetrics(ctx context.Context, tenantProvider TenantProvider) {
	if bm.walletProvider == nil {
		bm.logger.Debug("No wallet provider configured, skipping wallet metrics collection")
		return
	}

	tenantIDs, err := tenantProvider.GetActiveTenantIDs(ctx)
	if err != nil {
		bm.logger.Error("Failed to get tenant IDs for metrics collection", zap.Error(err))
		return
	}

	for _, tenantID := range tenantIDs {
		bm.collectTenantWalletMetrics(ctx, tenantID)
	}
}

// collectTenantWalletMetrics collects wallet metrics for a single tenant.
func (bm *BusinessMetrics) collectTenantWalletMetrics(ctx context.Context, tenantID uuid.UUID) {
	outstanding, err := bm.walletProvider.GetOutstandingPoints(ctx, tenantID)
	if err != nil {
		bm.logger.Warn("Failed to get outstanding points for tenant",
			zap.String("tenant_id", tenantID.String()),
			zap.Error(err),
		)
	} else {
		bm.RecordOutstandingPoints(ctx, tenantID, outstanding)
	}

	walletCount, err := bm.walletProvider.GetWalletCount(ctx, tenantID)
	if err != nil {
		bm.logger.Warn("Failed to get wallet count for tenant",
			zap.String("tenant_id", tenantID.String()),
			zap.Error(err),
		)
	} else {
		bm.RecordWalletCount(ctx, tenantID, walletCount)
	}
}

// Stop stops the periodic collection.
func (bm *BusinessMetrics) Stop() {
	bm.stopOnce.Do(func() {
		close(bm.stopChan)
	})
}

// =============================================================================
// Error Types
// =============================================================================

// ErrMeterNil is returned when meter is nil.
var ErrMeterNil = &MetricsError{Op: "NewBusinessMetrics", Err: "meter cannot be nil"}

// MetricsError represents a metrics-related error.
type MetricsError struct {
	Op  string
	Err string
}

func (e *MetricsError) Error() string {
	return e.Op + ": " + e.Err
}
