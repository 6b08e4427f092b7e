package loyalty

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/washpoint/backend/internal/domain/shared"
)

// LoyaltyProgramRepository defines the interface for program persistence
type LoyaltyProgramRepository interface {
	// FindByID finds a program by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*LoyaltyProgram, error)

	// FindByIDForTenant finds a program by ID within a tenant
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*LoyaltyProgram, error)

	// FindActiveForTenant returns the tenant's single active program
	FindActiveForTenant(ctx context.Context, tenantID uuid.UUID) (*LoyaltyProgram, error)

	// FindAllForTenant finds all programs for a tenant
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]LoyaltyProgram, error)

	// Save creates or updates a program
	Save(ctx context.Context, program *LoyaltyProgram) error

	// Activate atomically deactivates the tenant's current active program (if any)
	// and activates the given one, so at most one program stays active per tenant.
	// Retired programs are deactivated, never deleted.
	Activate(ctx context.Context, tenantID, programID uuid.UUID) error

	// CountForTenant counts programs for a tenant
	CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error)
}

// WalletRepository defines the interface for wallet persistence
type WalletRepository interface {
	// FindByID finds a wallet by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*Wallet, error)

	// FindByIDForTenant finds a wallet by ID within a tenant
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*Wallet, error)

	// FindByCustomerID finds a customer's wallet within a tenant
	FindByCustomerID(ctx context.Context, tenantID, customerID uuid.UUID) (*Wallet, error)

	// FindAllForTenant finds all wallets for a tenant
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]Wallet, error)

	// Save creates or updates a wallet
	Save(ctx context.Context, wallet *Wallet) error

	// SaveWithLock saves a wallet with optimistic locking (version check)
	// Returns shared.ErrConcurrencyConflict if the version has changed
	SaveWithLock(ctx context.Context, wallet *Wallet) error

	// TopByLifetimePoints returns the tenant's wallets ranked by lifetime points
	TopByLifetimePoints(ctx context.Context, tenantID uuid.UUID, limit int) ([]Wallet, error)

	// CountForTenant counts wallets for a tenant
	CountForTenant(ctx context.Context, tenantID uuid.UUID) (int64, error)
}

// WalletTransactionRepository defines the interface for ledger persistence.
// The ledger is append-only: there are no update or delete operations.
type WalletTransactionRepository interface {
	// Create appends a new ledger entry
	Create(ctx context.Context, tx *WalletTransaction) error

	// FindByID finds a ledger entry by ID
	FindByID(ctx context.Context, id uuid.UUID) (*WalletTransaction, error)

	// FindByWalletID returns a wallet's ledger entries matching the filter,
	// newest first, along with the total count
	FindByWalletID(ctx context.Context, tenantID, walletID uuid.UUID, filter WalletTransactionFilter) ([]WalletTransaction, int64, error)

	// FindByCustomerID returns a customer's ledger entries matching the filter,
	// newest first, along with the total count
	FindByCustomerID(ctx context.Context, tenantID, customerID uuid.UUID, filter WalletTransactionFilter) ([]WalletTransaction, int64, error)

	// FindByReference finds ledger entries carrying a client reference
	FindByReference(ctx context.Context, tenantID uuid.UUID, reference string) ([]WalletTransaction, error)

	// GetLatestByWalletID returns the most recent entry for a wallet
	GetLatestByWalletID(ctx context.Context, tenantID, walletID uuid.UUID) (*WalletTransaction, error)

	// SumByWalletIDAndType sums the absolute points moved by entries of a type
	SumByWalletIDAndType(ctx context.Context, tenantID, walletID uuid.UUID, txType WalletTransactionType) (int64, error)

	// SumByTenantAndTypeInPeriod sums the absolute points moved by entries of a
	// type across the tenant within a period
	SumByTenantAndTypeInPeriod(ctx context.Context, tenantID uuid.UUID, txType WalletTransactionType, from, to time.Time) (int64, error)

	// SumDebited sums the absolute points of all debit entries for a wallet
	SumDebited(ctx context.Context, tenantID, walletID uuid.UUID) (int64, error)

	// SumEarnedExpiringBefore sums earn points whose expiry falls before the given time
	SumEarnedExpiringBefore(ctx context.Context, tenantID, walletID uuid.UUID, asOf time.Time) (int64, error)

	// FindWalletsWithExpiringPoints returns wallets holding earn entries whose
	// expiry falls before the given time, up to limit
	FindWalletsWithExpiringPoints(ctx context.Context, asOf time.Time, limit int) ([]ExpiryCandidate, error)

	// CountActiveCustomersInPeriod counts distinct customers with ledger activity in a period
	CountActiveCustomersInPeriod(ctx context.Context, tenantID uuid.UUID, from, to time.Time) (int64, error)
}

// WalletTransactionFilter contains filter options for querying ledger entries
type WalletTransactionFilter struct {
	TransactionType *WalletTransactionType
	SourceType      *WalletTransactionSourceType
	DateFrom        *time.Time
	DateTo          *time.Time
	Page            int
	PageSize        int
}

// Offset returns the offset for pagination
func (f WalletTransactionFilter) Offset() int {
	if f.Page <= 0 {
		return 0
	}
	return (f.Page - 1) * f.Limit()
}

// Limit returns the limit for pagination
func (f WalletTransactionFilter) Limit() int {
	if f.PageSize <= 0 {
		return 20
	}
	if f.PageSize > 100 {
		return 100
	}
	return f.PageSize
}

// ExpiryCandidate identifies a wallet the expiration sweep should examine
type ExpiryCandidate struct {
	TenantID   uuid.UUID
	WalletID   uuid.UUID
	CustomerID uuid.UUID
}

// WalletLedger appends a ledger entry and persists the wallet balance change
// as one atomic unit. Implementations must run the wallet save (with version
// check) and the entry insert inside a single database transaction.
type WalletLedger interface {
	Append(ctx context.Context, wallet *Wallet, entry *WalletTransaction) error
}
