package service

import (
	"context"
	"time"

	"github.com/fakturo-as/billing-api/internal/domain"
	"github.com/fakturo-as/billing-api/internal/repository"
	"go.uber.org/zap"
)

// DashboardService aggregates the landing page numbers: outstanding
// receivables, open and overdue invoice counts, and the current month's
// income and expense totals.
type DashboardService struct {
	invoiceRepo     *repository.InvoiceRepository
	transactionRepo *repository.TransactionRepository
	logger          *zap.Logger
}

func NewDashboardService(
	invoiceRepo *repository.InvoiceRepository,
	transactionRepo *repository.TransactionRepository,
	logger *zap.Logger,
) *DashboardService {
	return &DashboardService{
		invoiceRepo:     invoiceRepo,
		transactionRepo: transactionRepo,
		logger:          logger,
	}
}

func (s *DashboardService) GetMetrics(ctx context.Context) (*domain.DashboardMetricsDTO, error) {
	now := time.Now()

	outstanding, openCount, err := s.invoiceRepo.OutstandingTotals(ctx)
	if err != nil {
		return nil, err
	}

	overdue, err := s.invoiceRepo.OverdueCount(ctx, now)
	if err != nil {
		return nil, err
	}

	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	monthEnd := monthStart.AddDate(0, 1, 0).Add(-time.Second)

	income, err := s.transactionRepo.SumByType(ctx, domain.TransactionTypeIncome, monthStart, monthEnd)
	if err != nil {
		return nil, err
	}

	expense, err := s.transactionRepo.SumByType(ctx, domain.TransactionTypeExpense, monthStart, monthEnd)
	if err != nil {
		return nil, err
	}

	return &domain.DashboardMetricsDTO{
		OutstandingReceivables: outstanding,
		OpenInvoiceCount:       openCount,
		OverdueInvoiceCount:    overdue,
		MonthIncomeExclVAT:     income,
		MonthExpenseExclVAT:    expense,
	}, nil
}
