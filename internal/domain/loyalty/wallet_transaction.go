package loyalty

import (
	"time"

	"github.com/google/uuid"
	"github.com/washpoint/backend/internal/domain/shared"
)

// WalletTransactionType represents the type of a wallet ledger entry
type WalletTransactionType string

const (
	// WalletTransactionTypeEarn represents points earned on a paid wash (balance increase)
	WalletTransactionTypeEarn WalletTransactionType = "EARN"
	// WalletTransactionTypeRedeem represents points spent on a discount (balance decrease)
	WalletTransactionTypeRedeem WalletTransactionType = "REDEEM"
	// WalletTransactionTypeAdjust represents a manual correction (increase or decrease)
	WalletTransactionTypeAdjust WalletTransactionType = "ADJUST"
	// WalletTransactionTypeExpire represents points removed by the expiration sweep (balance decrease)
	WalletTransactionTypeExpire WalletTransactionType = "EXPIRE"
)

// String returns the string representation of WalletTransactionType
func (t WalletTransactionType) String() string {
	return string(t)
}

// IsValid returns true if the transaction type is valid
func (t WalletTransactionType) IsValid() bool {
	switch t {
	case WalletTransactionTypeEarn,
		WalletTransactionTypeRedeem,
		WalletTransactionTypeAdjust,
		WalletTransactionTypeExpire:
		return true
	}
	return false
}

// WalletTransactionSourceType represents the source document type for a ledger entry
type WalletTransactionSourceType string

const (
	// WalletSourceTypeWashOrder represents points earned from a paid wash
	WalletSourceTypeWashOrder WalletTransactionSourceType = "WASH_ORDER"
	// WalletSourceTypeRedemption represents a discount redemption at checkout
	WalletSourceTypeRedemption WalletTransactionSourceType = "REDEMPTION"
	// WalletSourceTypeManual represents a staff-initiated adjustment
	WalletSourceTypeManual WalletTransactionSourceType = "MANUAL"
	// WalletSourceTypeSystem represents a system-initiated entry (e.g., expiration sweep)
	WalletSourceTypeSystem WalletTransactionSourceType = "SYSTEM"
)

// String returns the string representation of WalletTransactionSourceType
func (s WalletTransactionSourceType) String() string {
	return string(s)
}

// IsValid returns true if the source type is valid
func (s WalletTransactionSourceType) IsValid() bool {
	switch s {
	case WalletSourceTypeWashOrder,
		WalletSourceTypeRedemption,
		WalletSourceTypeManual,
		WalletSourceTypeSystem:
		return true
	}
	return false
}

// WalletTransaction is an immutable record of a wallet balance change.
// Once created, entries are never modified - corrections are new entries.
type WalletTransaction struct {
	shared.BaseEntity
	TenantID        uuid.UUID
	WalletID        uuid.UUID
	CustomerID      uuid.UUID
	TransactionType WalletTransactionType
	PointsDelta     int64 // Signed: positive credits, negative debits
	BalanceAfter    int64 // Wallet balance snapshot after applying this entry
	SourceType      WalletTransactionSourceType
	SourceID        *string    // ID of source document (optional)
	Reference       string     // Client-supplied reference, used for idempotency
	Description     string     // Human-readable reason
	OperatorID      *uuid.UUID // User who performed the operation
	ExpiresAt       *time.Time // Set on earn entries when the program expires points
	TransactionDate time.Time
}

// NewWalletTransaction creates a new wallet ledger entry
func NewWalletTransaction(
	tenantID uuid.UUID,
	walletID uuid.UUID,
	customerID uuid.UUID,
	txType WalletTransactionType,
	pointsDelta int64,
	balanceAfter int64,
	sourceType WalletTransactionSourceType,
) (*WalletTransaction, error) {
	if tenantID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_TENANT", "Tenant ID cannot be empty")
	}
	if walletID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_WALLET", "Wallet ID cannot be empty")
	}
	if customerID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_CUSTOMER", "Customer ID cannot be empty")
	}
	if !txType.IsValid() {
		return nil, shared.NewDomainError("INVALID_TRANSACTION_TYPE", "Invalid wallet transaction type")
	}
	if pointsDelta == 0 {
		return nil, shared.NewDomainError("INVALID_POINTS", "Points delta cannot be zero")
	}
	if balanceAfter < 0 {
		return nil, shared.NewDomainError("INVALID_BALANCE", "Balance after cannot be negative")
	}
	if !sourceType.IsValid() {
		return nil, shared.NewDomainError("INVALID_SOURCE_TYPE", "Invalid source type")
	}

	tx := &WalletTransaction{
		BaseEntity:      shared.NewBaseEntity(),
		TenantID:        tenantID,
		WalletID:        walletID,
		CustomerID:      customerID,
		TransactionType: txType,
		PointsDelta:     pointsDelta,
		BalanceAfter:    balanceAfter,
		SourceType:      sourceType,
		TransactionDate: time.Now(),
	}

	return tx, nil
}

// WithSourceID sets the source document ID for the entry
func (t *WalletTransaction) WithSourceID(sourceID string) *WalletTransaction {
	t.SourceID = &sourceID
	return t
}

// WithReference sets the client reference for the entry
func (t *WalletTransaction) WithReference(reference string) *WalletTransaction {
	t.Reference = reference
	return t
}

// WithDescription sets the description for the entry
func (t *WalletTransaction) WithDescription(description string) *WalletTransaction {
	t.Description = description
	return t
}

// WithOperatorID sets the operator ID for the entry
func (t *WalletTransaction) WithOperatorID(operatorID uuid.UUID) *WalletTransaction {
	t.OperatorID = &operatorID
	return t
}

// WithExpiresAt sets the expiration timestamp for an earn entry
func (t *WalletTransaction) WithExpiresAt(expiresAt *time.Time) *WalletTransaction {
	t.ExpiresAt = expiresAt
	return t
}

// Points returns the absolute number of points moved by this entry
func (t *WalletTransaction) Points() int64 {
	if t.PointsDelta < 0 {
		return -t.PointsDelta
	}
	return t.PointsDelta
}

// IsCredit returns true if this entry increased the balance
func (t *WalletTransaction) IsCredit() bool {
	return t.PointsDelta > 0
}

// IsDebit returns true if this entry decreased the balance
func (t *WalletTransaction) IsDebit() bool {
	return t.PointsDelta < 0
}

// CreateEarnTransaction creates an earn entry for points credited on a paid wash
func CreateEarnTransaction(
	tenantID, walletID, customerID uuid.UUID,
	points, balanceBefore int64,
	sourceType WalletTransactionSourceType,
) (*WalletTransaction, error) {
	if points <= 0 {
		return nil, shared.NewDomainError("INVALID_POINTS", "Points must be positive")
	}
	return NewWalletTransaction(
		tenantID,
		walletID,
		customerID,
		WalletTransactionTypeEarn,
		points,
		balanceBefore+points,
		sourceType,
	)
}

// CreateRedeemTransaction creates a redeem entry, guarding the balance floor
func CreateRedeemTransaction(
	tenantID, walletID, customerID uuid.UUID,
	points, balanceBefore int64,
	sourceType WalletTransactionSourceType,
) (*WalletTransaction, error) {
	if points <= 0 {
		return nil, shared.NewDomainError("INVALID_POINTS", "Points must be positive")
	}
	if balanceBefore < points {
		return nil, shared.NewDomainError("INSUFFICIENT_POINTS", "Insufficient points for redemption")
	}
	return NewWalletTransaction(
		tenantID,
		walletID,
		customerID,
		WalletTransactionTypeRedeem,
		-points,
		balanceBefore-points,
		sourceType,
	)
}

// CreateAdjustTransaction creates a manual adjustment entry with an explicit direction
func CreateAdjustTransaction(
	tenantID, walletID, customerID uuid.UUID,
	points int64,
	isIncrease bool,
	balanceBefore int64,
) (*WalletTransaction, error) {
	if points <= 0 {
		return nil, shared.NewDomainError("INVALID_POINTS", "Points must be positive")
	}

	delta := points
	if !isIncrease {
		if balanceBefore < points {
			return nil, shared.NewDomainError("INSUFFICIENT_POINTS", "Insufficient points for adjustment")
		}
		delta = -points
	}

	return NewWalletTransaction(
		tenantID,
		walletID,
		customerID,
		WalletTransactionTypeAdjust,
		delta,
		balanceBefore+delta,
		WalletSourceTypeManual,
	)
}

// CreateExpireTransaction creates an expiration entry written by the sweep job
func CreateExpireTransaction(
	tenantID, walletID, customerID uuid.UUID,
	points, balanceBefore int64,
) (*WalletTransaction, error) {
	if points <= 0 {
		return nil, shared.NewDomainError("INVALID_POINTS", "Points must be positive")
	}
	if balanceBefore < points {
		return nil, shared.NewDomainError("INSUFFICIENT_POINTS", "Expired points exceed available balance")
	}
	return NewWalletTransaction(
		tenantID,
		walletID,
		customerID,
		WalletTransactionTypeExpire,
		-points,
		balanceBefore-points,
		WalletSourceTypeSystem,
	)
}
