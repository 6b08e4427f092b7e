package loyalty

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/washpoint/backend/internal/domain/loyalty"
	"github.com/washpoint/backend/internal/domain/partner"
	"github.com/washpoint/backend/internal/domain/shared"
)

// applyRetries bounds reloads after an optimistic lock conflict
const applyRetries = 3

// WalletService is the single mutation path for wallet balances.
// Every earn, redeem, adjust, and expire flows through applyTransaction,
// which persists the wallet update and ledger entry atomically.
type WalletService struct {
	walletRepo   loyalty.WalletRepository
	txRepo       loyalty.WalletTransactionRepository
	programRepo  loyalty.LoyaltyProgramRepository
	customerRepo partner.CustomerRepository
	ledger       loyalty.WalletLedger
	idempotency  shared.IdempotencyStore
	idemConfig   shared.IdempotencyConfig
}

// NewWalletService creates a new WalletService. Movement events are published
// by the ledger itself through the transactional outbox, so the service holds
// no event bus.
func NewWalletService(
	walletRepo loyalty.WalletRepository,
	txRepo loyalty.WalletTransactionRepository,
	programRepo loyalty.LoyaltyProgramRepository,
	customerRepo partner.CustomerRepository,
	ledger loyalty.WalletLedger,
	idempotency shared.IdempotencyStore,
	idemConfig shared.IdempotencyConfig,
) *WalletService {
	return &WalletService{
		walletRepo:   walletRepo,
		txRepo:       txRepo,
		programRepo:  programRepo,
		customerRepo: customerRepo,
		ledger:       ledger,
		idempotency:  idempotency,
		idemConfig:   idemConfig,
	}
}

// Earn credits points for a paid wash, converting the currency amount through
// the tenant's active program and stamping the program's expiry on the entry
func (s *WalletService) Earn(ctx context.Context, actor shared.Actor, req EarnPointsRequest) (*TransactionResponse, error) {
	program, err := s.programRepo.FindActiveForTenant(ctx, actor.TenantID)
	if err != nil {
		return nil, err
	}

	points, err := program.PointsForAmount(req.Amount)
	if err != nil {
		return nil, err
	}
	if points == 0 {
		return nil, shared.NewDomainError("AMOUNT_TOO_SMALL", "Amount too small to earn any points")
	}

	if replay, dup, err := s.checkReference(ctx, actor.TenantID, req.Reference); err != nil {
		return nil, err
	} else if dup {
		return replay, nil
	}

	now := time.Now()
	expiresAt := program.ExpiryFrom(now)

	return s.apply(ctx, actor, req.CustomerID, true, func(wallet *loyalty.Wallet) (*loyalty.WalletTransaction, error) {
		balanceBefore := wallet.AvailablePoints
		if err := wallet.Earn(points); err != nil {
			return nil, err
		}

		entry, err := loyalty.CreateEarnTransaction(
			actor.TenantID, wallet.ID, req.CustomerID,
			points, balanceBefore,
			loyalty.WalletSourceTypeWashOrder,
		)
		if err != nil {
			return nil, err
		}

		entry.WithExpiresAt(expiresAt)
		s.decorate(entry, actor, req.SourceID, req.Reference, req.Description)
		return entry, nil
	})
}

// Redeem spends points on a discount. min_points_redeem is a balance floor:
// the wallet must hold at least that many points before any redemption goes
// through, regardless of how many are being spent.
func (s *WalletService) Redeem(ctx context.Context, actor shared.Actor, req RedeemPointsRequest) (*TransactionResponse, error) {
	program, err := s.programRepo.FindActiveForTenant(ctx, actor.TenantID)
	if err != nil {
		return nil, err
	}

	if replay, dup, err := s.checkReference(ctx, actor.TenantID, req.Reference); err != nil {
		return nil, err
	} else if dup {
		return replay, nil
	}

	return s.apply(ctx, actor, req.CustomerID, false, func(wallet *loyalty.Wallet) (*loyalty.WalletTransaction, error) {
		if !program.MeetsMinRedemption(wallet.AvailablePoints) {
			return nil, shared.NewDomainError("BELOW_MIN_REDEEM", "Balance is below the program's redemption minimum")
		}

		balanceBefore := wallet.AvailablePoints
		if err := wallet.Debit(req.Points); err != nil {
			return nil, err
		}

		entry, err := loyalty.CreateRedeemTransaction(
			actor.TenantID, wallet.ID, req.CustomerID,
			req.Points, balanceBefore,
			loyalty.WalletSourceTypeRedemption,
		)
		if err != nil {
			return nil, err
		}

		s.decorate(entry, actor, req.SourceID, req.Reference, req.Description)
		return entry, nil
	})
}

// Adjust applies a manual correction with an explicit direction. Admin only.
func (s *WalletService) Adjust(ctx context.Context, actor shared.Actor, req AdjustPointsRequest) (*TransactionResponse, error) {
	if !actor.IsAdmin() {
		return nil, shared.ErrForbidden
	}

	isIncrease := req.Direction == AdjustDirectionCredit

	return s.apply(ctx, actor, req.CustomerID, false, func(wallet *loyalty.Wallet) (*loyalty.WalletTransaction, error) {
		balanceBefore := wallet.AvailablePoints
		if isIncrease {
			if err := wallet.Credit(req.Points); err != nil {
				return nil, err
			}
		} else {
			if err := wallet.Debit(req.Points); err != nil {
				return nil, err
			}
		}

		entry, err := loyalty.CreateAdjustTransaction(
			actor.TenantID, wallet.ID, req.CustomerID,
			req.Points, isIncrease, balanceBefore,
		)
		if err != nil {
			return nil, err
		}

		s.decorate(entry, actor, "", "", req.Description)
		return entry, nil
	})
}

// Expire removes expired points from a wallet. Called by the expiration sweep
// with a system actor; the entry goes through the same atomic apply path.
func (s *WalletService) Expire(ctx context.Context, actor shared.Actor, customerID uuid.UUID, points int64, description string) (*TransactionResponse, error) {
	if !actor.IsSystem() && !actor.IsAdmin() {
		return nil, shared.ErrForbidden
	}

	return s.apply(ctx, actor, customerID, false, func(wallet *loyalty.Wallet) (*loyalty.WalletTransaction, error) {
		balanceBefore := wallet.AvailablePoints

		// Cap at the available balance so a sweep never drives it negative
		expiring := points
		if expiring > balanceBefore {
			expiring = balanceBefore
		}
		if expiring <= 0 {
			return nil, shared.NewDomainError("NOTHING_TO_EXPIRE", "No points available to expire")
		}

		if err := wallet.Debit(expiring); err != nil {
			return nil, err
		}

		entry, err := loyalty.CreateExpireTransaction(
			actor.TenantID, wallet.ID, customerID,
			expiring, balanceBefore,
		)
		if err != nil {
			return nil, err
		}

		if description != "" {
			entry.WithDescription(description)
		}
		return entry, nil
	})
}

// GetWallet retrieves a customer's wallet, creating nothing
func (s *WalletService) GetWallet(ctx context.Context, actor shared.Actor, customerID uuid.UUID) (*WalletResponse, error) {
	wallet, err := s.walletRepo.FindByCustomerID(ctx, actor.TenantID, customerID)
	if err != nil {
		return nil, err
	}

	response := ToWalletResponse(wallet)
	return &response, nil
}

// GetSummary retrieves a wallet's lifetime totals
func (s *WalletService) GetSummary(ctx context.Context, actor shared.Actor, customerID uuid.UUID) (*WalletSummaryResponse, error) {
	wallet, err := s.walletRepo.FindByCustomerID(ctx, actor.TenantID, customerID)
	if err != nil {
		return nil, err
	}

	totalRedeemed, err := s.txRepo.SumByWalletIDAndType(ctx, actor.TenantID, wallet.ID, loyalty.WalletTransactionTypeRedeem)
	if err != nil {
		return nil, err
	}

	totalExpired, err := s.txRepo.SumByWalletIDAndType(ctx, actor.TenantID, wallet.ID, loyalty.WalletTransactionTypeExpire)
	if err != nil {
		return nil, err
	}

	return &WalletSummaryResponse{
		CustomerID:      customerID,
		AvailablePoints: wallet.AvailablePoints,
		LifetimePoints:  wallet.LifetimePoints,
		TotalRedeemed:   totalRedeemed,
		TotalExpired:    totalExpired,
	}, nil
}

// ListTransactions retrieves a customer's ledger history, newest first
func (s *WalletService) ListTransactions(
	ctx context.Context,
	actor shared.Actor,
	customerID uuid.UUID,
	filter TransactionListFilter,
) ([]TransactionResponse, int64, error) {
	// Verify the customer exists within the tenant
	if _, err := s.customerRepo.FindByIDForTenant(ctx, actor.TenantID, customerID); err != nil {
		return nil, 0, err
	}

	domainFilter := loyalty.WalletTransactionFilter{
		Page:     filter.Page,
		PageSize: filter.PageSize,
	}

	if filter.TransactionType != "" {
		txType := loyalty.WalletTransactionType(filter.TransactionType)
		domainFilter.TransactionType = &txType
	}
	if filter.SourceType != "" {
		srcType := loyalty.WalletTransactionSourceType(filter.SourceType)
		domainFilter.SourceType = &srcType
	}
	if filter.DateFrom != "" {
		t, err := time.Parse("2006-01-02", filter.DateFrom)
		if err != nil {
			return nil, 0, shared.NewDomainError("VALIDATION_ERROR", "date_from must be a date in YYYY-MM-DD format")
		}
		domainFilter.DateFrom = &t
	}
	if filter.DateTo != "" {
		t, err := time.Parse("2006-01-02", filter.DateTo)
		if err != nil {
			return nil, 0, shared.NewDomainError("VALIDATION_ERROR", "date_to must be a date in YYYY-MM-DD format")
		}
		// Add 1 day to include the end date
		t = t.Add(24 * time.Hour)
		domainFilter.DateTo = &t
	}

	transactions, total, err := s.txRepo.FindByCustomerID(ctx, actor.TenantID, customerID, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	return ToTransactionResponses(transactions), total, nil
}

// apply loads the customer's wallet, runs the mutation, and persists wallet
// and entry atomically, retrying on version conflicts. Only earn may create a
// missing wallet; every other operation against a customer who never earned
// returns ErrNotFound without writing anything.
func (s *WalletService) apply(
	ctx context.Context,
	actor shared.Actor,
	customerID uuid.UUID,
	createWallet bool,
	mutate func(wallet *loyalty.Wallet) (*loyalty.WalletTransaction, error),
) (*TransactionResponse, error) {
	var lastErr error

	for attempt := 0; attempt < applyRetries; attempt++ {
		wallet, err := s.loadWallet(ctx, actor.TenantID, customerID, createWallet)
		if err != nil {
			return nil, err
		}

		entry, err := mutate(wallet)
		if err != nil {
			return nil, err
		}

		if err := s.ledger.Append(ctx, wallet, entry); err != nil {
			if errors.Is(err, shared.ErrConcurrencyConflict) {
				lastErr = err
				continue
			}
			return nil, err
		}

		response := ToTransactionResponse(entry)
		return &response, nil
	}

	return nil, lastErr
}

// loadWallet returns the customer's wallet. When create is set (first earn),
// a missing wallet is created for an existing, active customer; otherwise the
// lookup error passes through.
func (s *WalletService) loadWallet(ctx context.Context, tenantID, customerID uuid.UUID, create bool) (*loyalty.Wallet, error) {
	wallet, err := s.walletRepo.FindByCustomerID(ctx, tenantID, customerID)
	if err == nil {
		return wallet, nil
	}
	if !create || !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}

	customer, err := s.customerRepo.FindByIDForTenant(ctx, tenantID, customerID)
	if err != nil {
		return nil, err
	}
	if !customer.IsActive() {
		return nil, shared.NewDomainError("CUSTOMER_INACTIVE", "Customer is not active")
	}

	wallet, err = loyalty.NewWallet(tenantID, customerID)
	if err != nil {
		return nil, err
	}
	if err := s.walletRepo.Save(ctx, wallet); err != nil {
		return nil, err
	}

	return wallet, nil
}

// checkReference deduplicates requests carrying a client reference. When the
// reference was already processed, the original entry is returned.
func (s *WalletService) checkReference(ctx context.Context, tenantID uuid.UUID, reference string) (*TransactionResponse, bool, error) {
	if reference == "" || s.idempotency == nil || !s.idemConfig.Enabled {
		return nil, false, nil
	}

	key := "wallet:" + tenantID.String() + ":" + reference
	fresh, err := s.idempotency.MarkProcessed(ctx, key, s.idemConfig.TTL)
	if err != nil {
		// Idempotency store failures must not block wallet operations
		return nil, false, nil
	}
	if fresh {
		return nil, false, nil
	}

	existing, err := s.txRepo.FindByReference(ctx, tenantID, reference)
	if err != nil {
		return nil, false, err
	}
	if len(existing) == 0 {
		// Marked but never written (e.g., a crashed request); let it through
		return nil, false, nil
	}

	response := ToTransactionResponse(&existing[0])
	return &response, true, nil
}

// decorate applies the optional entry fields shared by all operations
func (s *WalletService) decorate(entry *loyalty.WalletTransaction, actor shared.Actor, sourceID, reference, description string) {
	if sourceID != "" {
		entry.WithSourceID(sourceID)
	}
	if reference != "" {
		entry.WithReference(reference)
	}
	if description != "" {
		entry.WithDescription(description)
	}
	if !actor.IsSystem() {
		entry.WithOperatorID(actor.UserID)
	}
}
