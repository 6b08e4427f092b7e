package loyalty

import (
	"context"
	"time"

	"github.com/washpoint/backend/internal/domain/loyalty"
	"github.com/washpoint/backend/internal/domain/partner"
	"github.com/washpoint/backend/internal/domain/shared"
)

// topCustomerLimit bounds the ranking section of the tenant report
const topCustomerLimit = 10

// ReportService aggregates tenant-level loyalty activity
type ReportService struct {
	txRepo       loyalty.WalletTransactionRepository
	walletRepo   loyalty.WalletRepository
	customerRepo partner.CustomerRepository
}

// NewReportService creates a new ReportService
func NewReportService(
	txRepo loyalty.WalletTransactionRepository,
	walletRepo loyalty.WalletRepository,
	customerRepo partner.CustomerRepository,
) *ReportService {
	return &ReportService{
		txRepo:       txRepo,
		walletRepo:   walletRepo,
		customerRepo: customerRepo,
	}
}

// TenantReport summarizes points issued, redeemed, expired, and adjusted over
// a period, along with active customer counts and the lifetime-points ranking
func (s *ReportService) TenantReport(ctx context.Context, actor shared.Actor, req TenantReportRequest) (*TenantReportResponse, error) {
	if !actor.IsAdmin() {
		return nil, shared.ErrForbidden
	}

	from, err := time.Parse("2006-01-02", req.DateFrom)
	if err != nil {
		return nil, shared.NewDomainError("INVALID_DATE", "date_from must be formatted as YYYY-MM-DD")
	}
	to, err := time.Parse("2006-01-02", req.DateTo)
	if err != nil {
		return nil, shared.NewDomainError("INVALID_DATE", "date_to must be formatted as YYYY-MM-DD")
	}
	// Include the end date
	to = to.Add(24 * time.Hour)
	if !from.Before(to) {
		return nil, shared.NewDomainError("INVALID_PERIOD", "date_from must be before date_to")
	}

	report := &TenantReportResponse{
		PeriodStart: from,
		PeriodEnd:   to,
	}

	sums := []struct {
		txType loyalty.WalletTransactionType
		target *int64
	}{
		{loyalty.WalletTransactionTypeEarn, &report.PointsEarned},
		{loyalty.WalletTransactionTypeRedeem, &report.PointsRedeemed},
		{loyalty.WalletTransactionTypeExpire, &report.PointsExpired},
		{loyalty.WalletTransactionTypeAdjust, &report.PointsAdjusted},
	}
	for _, sum := range sums {
		total, err := s.txRepo.SumByTenantAndTypeInPeriod(ctx, actor.TenantID, sum.txType, from, to)
		if err != nil {
			return nil, err
		}
		*sum.target = total
	}

	activeCustomers, err := s.txRepo.CountActiveCustomersInPeriod(ctx, actor.TenantID, from, to)
	if err != nil {
		return nil, err
	}
	report.ActiveCustomers = activeCustomers

	topWallets, err := s.walletRepo.TopByLifetimePoints(ctx, actor.TenantID, topCustomerLimit)
	if err != nil {
		return nil, err
	}

	report.TopCustomers = make([]TopCustomerResponse, 0, len(topWallets))
	for i := range topWallets {
		wallet := &topWallets[i]

		name := ""
		if customer, err := s.customerRepo.FindByIDForTenant(ctx, actor.TenantID, wallet.CustomerID); err == nil {
			name = customer.Name
		}

		report.TopCustomers = append(report.TopCustomers, TopCustomerResponse{
			CustomerID:      wallet.CustomerID,
			CustomerName:    name,
			AvailablePoints: wallet.AvailablePoints,
			LifetimePoints:  wallet.LifetimePoints,
		})
	}

	return report, nil
}
