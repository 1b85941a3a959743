package service

import (
	"context"
	"fmt"

	"github.com/fakturo-as/billing-api/internal/auth"
	"github.com/fakturo-as/billing-api/internal/domain"
	"github.com/fakturo-as/billing-api/internal/repository"
	"go.uber.org/zap"
)

// TransactionService exposes the income/expense ledger. Document-driven
// entries are written by the invoice, purchase order and recurring services;
// this service only adds manual entries and reads.
type TransactionService struct {
	transactionRepo *repository.TransactionRepository
	logger          *zap.Logger
}

func NewTransactionService(transactionRepo *repository.TransactionRepository, logger *zap.Logger) *TransactionService {
	return &TransactionService{
		transactionRepo: transactionRepo,
		logger:          logger,
	}
}

// Create records a manual ledger entry. Gross is derived from the components
// so the three amounts always reconcile.
func (s *TransactionService) Create(ctx context.Context, req *domain.CreateTransactionRequest) (*domain.TransactionDTO, error) {
	uc := auth.MustFromContext(ctx)

	if !req.Type.IsValid() {
		return nil, ErrInvalidTransition
	}
	if req.AmountExclVAT.IsNegative() || req.VATAmount.IsNegative() {
		return nil, ErrInvalidAmount
	}
	if req.AmountExclVAT.IsZero() && req.VATAmount.IsZero() {
		return nil, ErrInvalidAmount
	}

	record := &domain.Transaction{
		CompanyID:     uc.CompanyID,
		Type:          req.Type,
		Source:        domain.TransactionSourceManual,
		Date:          req.Date,
		Party:         req.Party,
		Description:   req.Description,
		AmountExclVAT: req.AmountExclVAT,
		VATAmount:     req.VATAmount,
		GrossAmount:   req.AmountExclVAT.Add(req.VATAmount),
	}

	if err := s.transactionRepo.Create(ctx, nil, record); err != nil {
		return nil, fmt.Errorf("failed to create transaction: %w", err)
	}

	dto := domain.ToTransactionDTO(record)
	return &dto, nil
}

func (s *TransactionService) List(ctx context.Context, page, pageSize int, filter repository.TransactionFilter) ([]domain.TransactionDTO, int64, error) {
	if filter.Type != "" && !filter.Type.IsValid() {
		return nil, 0, ErrNotFound
	}
	if filter.Source != "" && !filter.Source.IsValid() {
		return nil, 0, ErrNotFound
	}

	transactions, total, err := s.transactionRepo.List(ctx, page, pageSize, filter)
	if err != nil {
		return nil, 0, err
	}

	dtos := make([]domain.TransactionDTO, 0, len(transactions))
	for i := range transactions {
		dtos = append(dtos, domain.ToTransactionDTO(&transactions[i]))
	}
	return dtos, total, nil
}
