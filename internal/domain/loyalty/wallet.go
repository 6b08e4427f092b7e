package loyalty

import (
	"time"

	"github.com/google/uuid"
	"github.com/washpoint/backend/internal/domain/shared"
)

// Wallet holds a customer's loyalty points balance for one tenant.
// AvailablePoints never goes negative; LifetimePoints only ever grows and
// counts earned points regardless of later redemption or expiration.
type Wallet struct {
	shared.TenantAggregateRoot
	CustomerID      uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_wallet_tenant_customer,priority:2"`
	AvailablePoints int64     `gorm:"not null;default:0"`
	LifetimePoints  int64     `gorm:"not null;default:0"`
}

// TableName returns the table name for GORM
func (Wallet) TableName() string {
	return "wallets"
}

// NewWallet creates an empty wallet for a customer
func NewWallet(tenantID, customerID uuid.UUID) (*Wallet, error) {
	if customerID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_CUSTOMER", "Customer ID cannot be empty")
	}

	return &Wallet{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		AvailablePoints:     0,
		LifetimePoints:      0,
		CustomerID:          customerID,
	}, nil
}

// Earn credits earned points, growing both the available and lifetime balances
func (w *Wallet) Earn(points int64) error {
	if points <= 0 {
		return shared.NewDomainError("INVALID_POINTS", "Points must be positive")
	}

	w.AvailablePoints += points
	w.LifetimePoints += points
	w.UpdatedAt = time.Now()
	w.IncrementVersion()

	return nil
}

// Credit adds points without touching the lifetime counter (manual adjustment up)
func (w *Wallet) Credit(points int64) error {
	if points <= 0 {
		return shared.NewDomainError("INVALID_POINTS", "Points must be positive")
	}

	w.AvailablePoints += points
	w.UpdatedAt = time.Now()
	w.IncrementVersion()

	return nil
}

// Debit removes points (redeem, expire, or manual adjustment down)
func (w *Wallet) Debit(points int64) error {
	if points <= 0 {
		return shared.NewDomainError("INVALID_POINTS", "Points must be positive")
	}
	if w.AvailablePoints < points {
		return shared.NewDomainError("INSUFFICIENT_POINTS", "Insufficient points available")
	}

	w.AvailablePoints -= points
	w.UpdatedAt = time.Now()
	w.IncrementVersion()

	return nil
}

// CanDebit returns true if the wallet holds at least the given points
func (w *Wallet) CanDebit(points int64) bool {
	return points > 0 && w.AvailablePoints >= points
}

// IsEmpty returns true if the wallet has no available points
func (w *Wallet) IsEmpty() bool {
	return w.AvailablePoints == 0
}
