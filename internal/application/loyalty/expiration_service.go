package loyalty

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/washpoint/backend/internal/domain/loyalty"
	"github.com/washpoint/backend/internal/domain/shared"
)

// defaultSweepBatchSize bounds how many wallets one sweep pass examines
const defaultSweepBatchSize = 500

// ExpirationService removes expired points by appending expire entries
// through the same apply path every other wallet mutation uses.
//
// Consumption is FIFO: redeems and prior expirations consume the oldest earn
// lots first, so the expirable amount for a wallet is the earn points whose
// expiry has passed minus everything already debited, capped at the current
// available balance.
type ExpirationService struct {
	txRepo        loyalty.WalletTransactionRepository
	walletRepo    loyalty.WalletRepository
	walletService *WalletService
	batchSize     int
	logger        *zap.Logger
}

// NewExpirationService creates a new ExpirationService. A non-positive
// batchSize falls back to the default.
func NewExpirationService(
	txRepo loyalty.WalletTransactionRepository,
	walletRepo loyalty.WalletRepository,
	walletService *WalletService,
	batchSize int,
	logger *zap.Logger,
) *ExpirationService {
	if batchSize <= 0 {
		batchSize = defaultSweepBatchSize
	}
	return &ExpirationService{
		txRepo:        txRepo,
		walletRepo:    walletRepo,
		walletService: walletService,
		batchSize:     batchSize,
		logger:        logger,
	}
}

// SweepResult summarizes one sweep pass
type SweepResult struct {
	WalletsExamined int
	WalletsExpired  int
	PointsExpired   int64
	Errors          int
}

// Sweep expires overdue points across all tenants as of the given time
func (s *ExpirationService) Sweep(ctx context.Context, asOf time.Time) (*SweepResult, error) {
	candidates, err := s.txRepo.FindWalletsWithExpiringPoints(ctx, asOf, s.batchSize)
	if err != nil {
		return nil, err
	}

	result := &SweepResult{}
	for _, candidate := range candidates {
		result.WalletsExamined++

		expired, err := s.expireWallet(ctx, candidate, asOf)
		if err != nil {
			result.Errors++
			s.logger.Error("Wallet expiration failed",
				zap.String("tenant_id", candidate.TenantID.String()),
				zap.String("wallet_id", candidate.WalletID.String()),
				zap.Error(err),
			)
			continue
		}

		if expired > 0 {
			result.WalletsExpired++
			result.PointsExpired += expired
		}
	}

	s.logger.Info("Expiration sweep completed",
		zap.Int("wallets_examined", result.WalletsExamined),
		zap.Int("wallets_expired", result.WalletsExpired),
		zap.Int64("points_expired", result.PointsExpired),
		zap.Int("errors", result.Errors),
	)

	return result, nil
}

// expireWallet computes and expires the overdue points of a single wallet
func (s *ExpirationService) expireWallet(ctx context.Context, candidate loyalty.ExpiryCandidate, asOf time.Time) (int64, error) {
	expirable, err := s.ExpirablePoints(ctx, candidate, asOf)
	if err != nil {
		return 0, err
	}
	if expirable <= 0 {
		return 0, nil
	}

	actor := shared.SystemActor(candidate.TenantID)
	description := fmt.Sprintf("Points expired as of %s", asOf.Format("2006-01-02"))

	resp, err := s.walletService.Expire(ctx, actor, candidate.CustomerID, expirable, description)
	if err != nil {
		// Another request may have drained the wallet between the computation
		// and the apply; treat that as nothing to expire
		var domainErr *shared.DomainError
		if errors.As(err, &domainErr) && domainErr.Code == "NOTHING_TO_EXPIRE" {
			return 0, nil
		}
		return 0, err
	}

	return resp.PointsDelta * -1, nil
}

// ExpirablePoints returns how many points of a wallet are past expiry and
// still unconsumed under FIFO accounting, capped at the available balance
func (s *ExpirationService) ExpirablePoints(ctx context.Context, candidate loyalty.ExpiryCandidate, asOf time.Time) (int64, error) {
	expiredEarned, err := s.txRepo.SumEarnedExpiringBefore(ctx, candidate.TenantID, candidate.WalletID, asOf)
	if err != nil {
		return 0, err
	}
	if expiredEarned == 0 {
		return 0, nil
	}

	debited, err := s.txRepo.SumDebited(ctx, candidate.TenantID, candidate.WalletID)
	if err != nil {
		return 0, err
	}

	expirable := expiredEarned - debited
	if expirable <= 0 {
		return 0, nil
	}

	wallet, err := s.walletRepo.FindByIDForTenant(ctx, candidate.TenantID, candidate.WalletID)
	if err != nil {
		return 0, err
	}
	if expirable > wallet.AvailablePoints {
		expirable = wallet.AvailablePoints
	}

	return expirable, nil
}
