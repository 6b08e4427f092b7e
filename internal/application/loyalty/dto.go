package loyalty

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/washpoint/backend/internal/domain/loyalty"
)

// =============================================================================
// Program DTOs
// =============================================================================

// CreateProgramRequest represents a request to create a loyalty program
type CreateProgramRequest struct {
	Name              string          `json:"name" binding:"required,min=1,max=200"`
	PointsPerCurrency decimal.Decimal `json:"points_per_currency" binding:"required"`
	CurrencyPerPoint  decimal.Decimal `json:"currency_per_point" binding:"required"`
	MinPointsRedeem   int64           `json:"min_points_redeem" binding:"min=0"`
	ExpirationDays    int             `json:"expiration_days" binding:"min=0"`
	Description       string          `json:"description"`
}

// UpdateProgramRequest represents a request to update a loyalty program
type UpdateProgramRequest struct {
	Name              *string          `json:"name" binding:"omitempty,min=1,max=200"`
	PointsPerCurrency *decimal.Decimal `json:"points_per_currency"`
	CurrencyPerPoint  *decimal.Decimal `json:"currency_per_point"`
	MinPointsRedeem   *int64           `json:"min_points_redeem" binding:"omitempty,min=0"`
	ExpirationDays    *int             `json:"expiration_days" binding:"omitempty,min=0"`
	Description       *string          `json:"description"`
}

// ProgramResponse represents a loyalty program in API responses
type ProgramResponse struct {
	ID                uuid.UUID       `json:"id"`
	TenantID          uuid.UUID       `json:"tenant_id"`
	Name              string          `json:"name"`
	PointsPerCurrency decimal.Decimal `json:"points_per_currency"`
	CurrencyPerPoint  decimal.Decimal `json:"currency_per_point"`
	MinPointsRedeem   int64           `json:"min_points_redeem"`
	ExpirationDays    int             `json:"expiration_days"`
	IsActive          bool            `json:"is_active"`
	Description       string          `json:"description"`
	CreatedAt         time.Time       `json:"created_at"`
	UpdatedAt         time.Time       `json:"updated_at"`
	Version           int             `json:"version"`
}

// ToProgramResponse converts a domain LoyaltyProgram to ProgramResponse
func ToProgramResponse(p *loyalty.LoyaltyProgram) ProgramResponse {
	return ProgramResponse{
		ID:                p.ID,
		TenantID:          p.TenantID,
		Name:              p.Name,
		PointsPerCurrency: p.PointsPerCurrency,
		CurrencyPerPoint:  p.CurrencyPerPoint,
		MinPointsRedeem:   p.MinPointsRedeem,
		ExpirationDays:    p.ExpirationDays,
		IsActive:          p.IsActive,
		Description:       p.Description,
		CreatedAt:         p.CreatedAt,
		UpdatedAt:         p.UpdatedAt,
		Version:           p.Version,
	}
}

// ToProgramResponses converts a slice of programs
func ToProgramResponses(programs []loyalty.LoyaltyProgram) []ProgramResponse {
	responses := make([]ProgramResponse, len(programs))
	for i := range programs {
		responses[i] = ToProgramResponse(&programs[i])
	}
	return responses
}

// =============================================================================
// Wallet DTOs
// =============================================================================

// EarnPointsRequest represents a request to credit points for a paid wash
type EarnPointsRequest struct {
	CustomerID  uuid.UUID       `json:"customer_id" binding:"required"`
	Amount      decimal.Decimal `json:"amount" binding:"required"` // Currency amount paid
	SourceID    string          `json:"source_id"`                 // Wash order ID
	Reference   string          `json:"reference"`                 // Client reference, used for idempotency
	Description string          `json:"description"`
}

// RedeemPointsRequest represents a request to spend points on a discount
type RedeemPointsRequest struct {
	CustomerID  uuid.UUID `json:"customer_id" binding:"required"`
	Points      int64     `json:"points" binding:"required,gt=0"`
	SourceID    string    `json:"source_id"`
	Reference   string    `json:"reference"`
	Description string    `json:"description"`
}

// AdjustDirection is the explicit direction of a manual adjustment
type AdjustDirection string

const (
	AdjustDirectionCredit AdjustDirection = "credit"
	AdjustDirectionDebit  AdjustDirection = "debit"
)

// AdjustPointsRequest represents a manual correction with an explicit direction
type AdjustPointsRequest struct {
	CustomerID  uuid.UUID       `json:"customer_id" binding:"required"`
	Points      int64           `json:"points" binding:"required,gt=0"`
	Direction   AdjustDirection `json:"direction" binding:"required,oneof=credit debit"`
	Description string          `json:"description" binding:"required"`
}

// WalletResponse represents a wallet in API responses
type WalletResponse struct {
	ID              uuid.UUID `json:"id"`
	TenantID        uuid.UUID `json:"tenant_id"`
	CustomerID      uuid.UUID `json:"customer_id"`
	AvailablePoints int64     `json:"available_points"`
	LifetimePoints  int64     `json:"lifetime_points"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
	Version         int       `json:"version"`
}

// ToWalletResponse converts a domain Wallet to WalletResponse
func ToWalletResponse(w *loyalty.Wallet) WalletResponse {
	return WalletResponse{
		ID:              w.ID,
		TenantID:        w.TenantID,
		CustomerID:      w.CustomerID,
		AvailablePoints: w.AvailablePoints,
		LifetimePoints:  w.LifetimePoints,
		CreatedAt:       w.CreatedAt,
		UpdatedAt:       w.UpdatedAt,
		Version:         w.Version,
	}
}

// TransactionResponse represents a ledger entry in API responses
type TransactionResponse struct {
	ID              uuid.UUID  `json:"id"`
	WalletID        uuid.UUID  `json:"wallet_id"`
	CustomerID      uuid.UUID  `json:"customer_id"`
	TransactionType string     `json:"transaction_type"`
	PointsDelta     int64      `json:"points_delta"`
	BalanceAfter    int64      `json:"balance_after"`
	SourceType      string     `json:"source_type"`
	SourceID        *string    `json:"source_id,omitempty"`
	Reference       string     `json:"reference,omitempty"`
	Description     string     `json:"description,omitempty"`
	OperatorID      *uuid.UUID `json:"operator_id,omitempty"`
	ExpiresAt       *time.Time `json:"expires_at,omitempty"`
	TransactionDate time.Time  `json:"transaction_date"`
}

// ToTransactionResponse converts a domain WalletTransaction to TransactionResponse
func ToTransactionResponse(tx *loyalty.WalletTransaction) TransactionResponse {
	return TransactionResponse{
		ID:              tx.ID,
		WalletID:        tx.WalletID,
		CustomerID:      tx.CustomerID,
		TransactionType: tx.TransactionType.String(),
		PointsDelta:     tx.PointsDelta,
		BalanceAfter:    tx.BalanceAfter,
		SourceType:      tx.SourceType.String(),
		SourceID:        tx.SourceID,
		Reference:       tx.Reference,
		Description:     tx.Description,
		OperatorID:      tx.OperatorID,
		ExpiresAt:       tx.ExpiresAt,
		TransactionDate: tx.TransactionDate,
	}
}

// ToTransactionResponses converts a slice of ledger entries
func ToTransactionResponses(txs []loyalty.WalletTransaction) []TransactionResponse {
	responses := make([]TransactionResponse, len(txs))
	for i := range txs {
		responses[i] = ToTransactionResponse(&txs[i])
	}
	return responses
}

// TransactionListFilter represents filter options for ledger history
type TransactionListFilter struct {
	TransactionType string `form:"transaction_type" binding:"omitempty,oneof=EARN REDEEM ADJUST EXPIRE"`
	SourceType      string `form:"source_type" binding:"omitempty,oneof=WASH_ORDER REDEMPTION MANUAL SYSTEM"`
	DateFrom        string `form:"date_from"`
	DateTo          string `form:"date_to"`
	Page            int    `form:"page" binding:"min=0"`
	PageSize        int    `form:"page_size" binding:"min=0,max=100"`
}

// WalletSummaryResponse represents a wallet's lifetime totals
type WalletSummaryResponse struct {
	CustomerID      uuid.UUID `json:"customer_id"`
	AvailablePoints int64     `json:"available_points"`
	LifetimePoints  int64     `json:"lifetime_points"`
	TotalRedeemed   int64     `json:"total_redeemed"`
	TotalExpired    int64     `json:"total_expired"`
}

// =============================================================================
// Report DTOs
// =============================================================================

// TenantReportRequest selects the reporting period
type TenantReportRequest struct {
	DateFrom string `form:"date_from" binding:"required"`
	DateTo   string `form:"date_to" binding:"required"`
}

// TenantReportResponse summarizes tenant-wide loyalty activity over a period
type TenantReportResponse struct {
	PeriodStart     time.Time             `json:"period_start"`
	PeriodEnd       time.Time             `json:"period_end"`
	PointsEarned    int64                 `json:"points_earned"`
	PointsRedeemed  int64                 `json:"points_redeemed"`
	PointsExpired   int64                 `json:"points_expired"`
	PointsAdjusted  int64                 `json:"points_adjusted"`
	ActiveCustomers int64                 `json:"active_customers"`
	TopCustomers    []TopCustomerResponse `json:"top_customers"`
}

// TopCustomerResponse ranks a customer by lifetime points
type TopCustomerResponse struct {
	CustomerID      uuid.UUID `json:"customer_id"`
	CustomerName    string    `json:"customer_name"`
	AvailablePoints int64     `json:"available_points"`
	LifetimePoints  int64     `json:"lifetime_points"`
}
