package loyalty

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/washpoint/backend/internal/domain/shared"
)

// LoyaltyProgram defines how a tenant's customers earn and redeem points.
// At most one program per tenant is active at any time.
type LoyaltyProgram struct {
	shared.TenantAggregateRoot
	Name              string          `gorm:"type:varchar(200);not null"`
	PointsPerCurrency decimal.Decimal `gorm:"type:decimal(18,4);not null"` // Points earned per unit of currency spent
	CurrencyPerPoint  decimal.Decimal `gorm:"type:decimal(18,4);not null"` // Currency value of one point at redemption
	MinPointsRedeem   int64           `gorm:"not null;default:0"`          // Minimum balance required to redeem
	ExpirationDays    int             `gorm:"not null;default:0"`          // 0 means points never expire
	IsActive          bool            `gorm:"not null;default:false;index"`
	Description       string          `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (LoyaltyProgram) TableName() string {
	return "loyalty_programs"
}

// NewLoyaltyProgram creates a new loyalty program (inactive until activated)
func NewLoyaltyProgram(
	tenantID uuid.UUID,
	name string,
	pointsPerCurrency, currencyPerPoint decimal.Decimal,
	minPointsRedeem int64,
	expirationDays int,
) (*LoyaltyProgram, error) {
	if err := validateProgramName(name); err != nil {
		return nil, err
	}
	if err := validateProgramRates(pointsPerCurrency, currencyPerPoint); err != nil {
		return nil, err
	}
	if minPointsRedeem < 0 {
		return nil, shared.NewDomainError("INVALID_MIN_REDEEM", "Minimum redeemable points cannot be negative")
	}
	if expirationDays < 0 {
		return nil, shared.NewDomainError("INVALID_EXPIRATION_DAYS", "Expiration days cannot be negative")
	}

	program := &LoyaltyProgram{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		Name:                name,
		PointsPerCurrency:   pointsPerCurrency,
		CurrencyPerPoint:    currencyPerPoint,
		MinPointsRedeem:     minPointsRedeem,
		ExpirationDays:      expirationDays,
		IsActive:            false,
	}

	program.AddDomainEvent(NewProgramCreatedEvent(program))

	return program, nil
}

// Update updates the program's configuration
func (p *LoyaltyProgram) Update(
	name string,
	pointsPerCurrency, currencyPerPoint decimal.Decimal,
	minPointsRedeem int64,
	expirationDays int,
) error {
	if err := validateProgramName(name); err != nil {
		return err
	}
	if err := validateProgramRates(pointsPerCurrency, currencyPerPoint); err != nil {
		return err
	}
	if minPointsRedeem < 0 {
		return shared.NewDomainError("INVALID_MIN_REDEEM", "Minimum redeemable points cannot be negative")
	}
	if expirationDays < 0 {
		return shared.NewDomainError("INVALID_EXPIRATION_DAYS", "Expiration days cannot be negative")
	}

	p.Name = name
	p.PointsPerCurrency = pointsPerCurrency
	p.CurrencyPerPoint = currencyPerPoint
	p.MinPointsRedeem = minPointsRedeem
	p.ExpirationDays = expirationDays
	p.UpdatedAt = time.Now()
	p.IncrementVersion()

	p.AddDomainEvent(NewProgramUpdatedEvent(p))

	return nil
}

// SetDescription sets the program's description
func (p *LoyaltyProgram) SetDescription(description string) {
	p.Description = description
	p.UpdatedAt = time.Now()
	p.IncrementVersion()
}

// Activate marks the program as the tenant's active program.
// The caller must deactivate any other active program in the same transaction.
func (p *LoyaltyProgram) Activate() error {
	if p.IsActive {
		return shared.NewDomainError("ALREADY_ACTIVE", "Program is already active")
	}

	p.IsActive = true
	p.UpdatedAt = time.Now()
	p.IncrementVersion()

	p.AddDomainEvent(NewProgramActivatedEvent(p))

	return nil
}

// Deactivate deactivates the program
func (p *LoyaltyProgram) Deactivate() error {
	if !p.IsActive {
		return shared.NewDomainError("ALREADY_INACTIVE", "Program is already inactive")
	}

	p.IsActive = false
	p.UpdatedAt = time.Now()
	p.IncrementVersion()

	p.AddDomainEvent(NewProgramDeactivatedEvent(p))

	return nil
}

// PointsForAmount returns the points earned for a currency amount, rounded down
func (p *LoyaltyProgram) PointsForAmount(amount decimal.Decimal) (int64, error) {
	if amount.IsNegative() || amount.IsZero() {
		return 0, shared.NewDomainError("INVALID_AMOUNT", "Amount must be positive")
	}
	return amount.Mul(p.PointsPerCurrency).IntPart(), nil
}

// RedemptionValue returns the currency value of the given points
func (p *LoyaltyProgram) RedemptionValue(points int64) decimal.Decimal {
	return p.CurrencyPerPoint.Mul(decimal.NewFromInt(points))
}

// HasExpiration returns true if earned points expire
func (p *LoyaltyProgram) HasExpiration() bool {
	return p.ExpirationDays > 0
}

// ExpiryFrom returns the expiration timestamp for points earned at the given time,
// or nil if the program's points never expire
func (p *LoyaltyProgram) ExpiryFrom(earnedAt time.Time) *time.Time {
	if !p.HasExpiration() {
		return nil
	}
	expiresAt := earnedAt.AddDate(0, 0, p.ExpirationDays)
	return &expiresAt
}

// MeetsMinRedemption returns true if a wallet balance satisfies the program's
// redemption floor. Wallets holding fewer than MinPointsRedeem points cannot
// redeem at all.
func (p *LoyaltyProgram) MeetsMinRedemption(balance int64) bool {
	return balance >= p.MinPointsRedeem
}

// Validation functions

func validateProgramName(name string) error {
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", "Program name cannot be empty")
	}
	if len(name) > 200 {
		return shared.NewDomainError("INVALID_NAME", "Program name cannot exceed 200 characters")
	}
	return nil
}

func validateProgramRates(pointsPerCurrency, currencyPerPoint decimal.Decimal) error {
	if pointsPerCurrency.IsNegative() || pointsPerCurrency.IsZero() {
		return shared.NewDomainError("INVALID_EARN_RATE", "Points per currency must be positive")
	}
	if currencyPerPoint.IsNegative() || currencyPerPoint.IsZero() {
		return shared.NewDomainError("INVALID_REDEEM_RATE", "Currency per point must be positive")
	}
	return nil
}
