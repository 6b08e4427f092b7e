package loyalty

import (
	"github.com/washpoint/backend/internal/domain/shared"
)

// Event type constants for wallet ledger movements
const (
	EventTypePointsEarned   = "WalletPointsEarned"
	EventTypePointsRedeemed = "WalletPointsRedeemed"
	EventTypePointsAdjusted = "WalletPointsAdjusted"
	EventTypePointsExpired  = "WalletPointsExpired"
)

// PointsEarnedEvent is published when a wash credits points to a wallet
type PointsEarnedEvent struct {
	shared.BaseDomainEvent
	CustomerID   string `json:"customer_id"`
	Points       int64  `json:"points"`
	BalanceAfter int64  `json:"balance_after"`
	Reference    string `json:"reference,omitempty"`
}

// NewPointsEarnedEvent creates a new PointsEarnedEvent from an earn entry
func NewPointsEarnedEvent(entry *WalletTransaction) *PointsEarnedEvent {
	return &PointsEarnedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypePointsEarned, AggregateTypeWallet, entry.WalletID, entry.TenantID),
		CustomerID:      entry.CustomerID.String(),
		Points:          entry.Points(),
		BalanceAfter:    entry.BalanceAfter,
		Reference:       entry.Reference,
	}
}

// PointsRedeemedEvent is published when points are spent on a discount
type PointsRedeemedEvent struct {
	shared.BaseDomainEvent
	CustomerID   string `json:"customer_id"`
	Points       int64  `json:"points"`
	BalanceAfter int64  `json:"balance_after"`
	Reference    string `json:"reference,omitempty"`
}

// NewPointsRedeemedEvent creates a new PointsRedeemedEvent from a redeem entry
func NewPointsRedeemedEvent(entry *WalletTransaction) *PointsRedeemedEvent {
	return &PointsRedeemedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypePointsRedeemed, AggregateTypeWallet, entry.WalletID, entry.TenantID),
		CustomerID:      entry.CustomerID.String(),
		Points:          entry.Points(),
		BalanceAfter:    entry.BalanceAfter,
		Reference:       entry.Reference,
	}
}

// PointsAdjustedEvent is published when an operator manually corrects a balance
type PointsAdjustedEvent struct {
	shared.BaseDomainEvent
	CustomerID   string `json:"customer_id"`
	PointsDelta  int64  `json:"points_delta"`
	BalanceAfter int64  `json:"balance_after"`
	Description  string `json:"description,omitempty"`
}

// NewPointsAdjustedEvent creates a new PointsAdjustedEvent from an adjust entry
func NewPointsAdjustedEvent(entry *WalletTransaction) *PointsAdjustedEvent {
	return &PointsAdjustedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypePointsAdjusted, AggregateTypeWallet, entry.WalletID, entry.TenantID),
		CustomerID:      entry.CustomerID.String(),
		PointsDelta:     entry.PointsDelta,
		BalanceAfter:    entry.BalanceAfter,
		Description:     entry.Description,
	}
}

// PointsExpiredEvent is published when the expiration sweep removes points
type PointsExpiredEvent struct {
	shared.BaseDomainEvent
	CustomerID   string `json:"customer_id"`
	Points       int64  `json:"points"`
	BalanceAfter int64  `json:"balance_after"`
}

// NewPointsExpiredEvent creates a new PointsExpiredEvent from an expire entry
func NewPointsExpiredEvent(entry *WalletTransaction) *PointsExpiredEvent {
	return &PointsExpiredEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypePointsExpired, AggregateTypeWallet, entry.WalletID, entry.TenantID),
		CustomerID:      entry.CustomerID.String(),
		Points:          entry.Points(),
		BalanceAfter:    entry.BalanceAfter,
	}
}

// EventForEntry builds the ledger movement event matching an entry's type.
// Returns nil for unknown types.
func EventForEntry(entry *WalletTransaction) shared.DomainEvent {
	switch entry.TransactionType {
	case WalletTransactionTypeEarn:
		return NewPointsEarnedEvent(entry)
	case WalletTransactionTypeRedeem:
		return NewPointsRedeemedEvent(entry)
	case WalletTransactionTypeAdjust:
		return NewPointsAdjustedEvent(entry)
	case WalletTransactionTypeExpire:
		return NewPointsExpiredEvent(entry)
	default:
		return nil
	}
}
