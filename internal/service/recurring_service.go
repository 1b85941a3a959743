package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/fakturo-as/billing-api/internal/auth"
	"github.com/fakturo-as/billing-api/internal/domain"
	"github.com/fakturo-as/billing-api/internal/money"
	"github.com/fakturo-as/billing-api/internal/repository"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// RecurringService manages recurring transaction templates and materializes
// them into concrete ledger entries when their due date arrives.
type RecurringService struct {
	db              *gorm.DB
	recurringRepo   *repository.RecurringRepository
	transactionRepo *repository.TransactionRepository
	activity        *ActivityService
	logger          *zap.Logger
}

func NewRecurringService(
	db *gorm.DB,
	recurringRepo *repository.RecurringRepository,
	transactionRepo *repository.TransactionRepository,
	activity *ActivityService,
	logger *zap.Logger,
) *RecurringService {
	return &RecurringService{
		db:              db,
		recurringRepo:   recurringRepo,
		transactionRepo: transactionRepo,
		activity:        activity,
		logger:          logger,
	}
}

// templateVATRate returns the rate a template materializes with. The rate is
// not configurable per template: expense templates carry the standard 25%
// back-computed from the gross amount, income templates record gross with no
// VAT component.
func templateVATRate(t domain.TransactionType) domain.VATRate {
	if t == domain.TransactionTypeExpense {
		return domain.VATRateStandard
	}
	return domain.VATRateZero
}

func (s *RecurringService) Create(ctx context.Context, req *domain.CreateRecurringTemplateRequest) (*domain.RecurringTemplateDTO, error) {
	uc := auth.MustFromContext(ctx)

	if !req.Type.IsValid() {
		return nil, ErrInvalidTransition
	}
	if !req.Amount.IsPositive() {
		return nil, ErrInvalidAmount
	}

	template := &domain.RecurringTemplate{
		CompanyID:   uc.CompanyID,
		Name:        req.Name,
		Type:        req.Type,
		Party:       req.Party,
		Amount:      req.Amount,
		VATRate:     templateVATRate(req.Type),
		NextDueDate: req.NextDueDate,
		Frequency:   domain.RecurrenceMonthly,
		IsActive:    true,
	}
	if req.Frequency != "" {
		if !req.Frequency.IsValid() {
			return nil, ErrInvalidTransition
		}
		template.Frequency = req.Frequency
	}

	if err := s.recurringRepo.Create(ctx, template); err != nil {
		return nil, fmt.Errorf("failed to create recurring template: %w", err)
	}

	s.activity.Log(ctx, domain.ActivityTargetRecurring, template.ID, "Recurring template created", template.Name)

	dto := domain.ToRecurringTemplateDTO(template)
	return &dto, nil
}

func (s *RecurringService) GetByID(ctx context.Context, id uuid.UUID) (*domain.RecurringTemplateDTO, error) {
	template, err := s.getTemplate(ctx, id)
	if err != nil {
		return nil, err
	}
	dto := domain.ToRecurringTemplateDTO(template)
	return &dto, nil
}

func (s *RecurringService) Update(ctx context.Context, id uuid.UUID, req *domain.UpdateRecurringTemplateRequest) (*domain.RecurringTemplateDTO, error) {
	template, err := s.getTemplate(ctx, id)
	if err != nil {
		return nil, err
	}

	if !req.Amount.IsPositive() {
		return nil, ErrInvalidAmount
	}

	template.Name = req.Name
	template.Party = req.Party
	template.Amount = req.Amount
	template.NextDueDate = req.NextDueDate
	if req.Frequency != "" {
		if !req.Frequency.IsValid() {
			return nil, ErrInvalidTransition
		}
		template.Frequency = req.Frequency
	}
	if req.IsActive != nil {
		template.IsActive = *req.IsActive
	}

	if err := s.recurringRepo.Update(ctx, template); err != nil {
		return nil, fmt.Errorf("failed to update recurring template: %w", err)
	}

	s.activity.Log(ctx, domain.ActivityTargetRecurring, template.ID, "Recurring template updated", template.Name)

	dto := domain.ToRecurringTemplateDTO(template)
	return &dto, nil
}

func (s *RecurringService) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.getTemplate(ctx, id); err != nil {
		return err
	}
	return s.recurringRepo.Delete(ctx, id)
}

func (s *RecurringService) List(ctx context.Context, page, pageSize int) ([]domain.RecurringTemplateDTO, int64, error) {
	templates, total, err := s.recurringRepo.List(ctx, page, pageSize)
	if err != nil {
		return nil, 0, err
	}

	dtos := make([]domain.RecurringTemplateDTO, 0, len(templates))
	for i := range templates {
		dtos = append(dtos, domain.ToRecurringTemplateDTO(&templates[i]))
	}
	return dtos, total, nil
}

// Materialize creates ledger entries for every active template of the company
// whose next due date is on or before today. Each due template produces
// exactly one record per run, dated on its due date, and its next due date
// advances one calendar month from the prior value. A template that has
// fallen several months behind therefore catches up one month per run.
// The whole run commits or rolls back as a unit.
func (s *RecurringService) Materialize(ctx context.Context, companyID uuid.UUID, today time.Time) (*domain.MaterializeResultDTO, error) {
	result := &domain.MaterializeResultDTO{
		Transactions: []domain.TransactionDTO{},
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		templates, err := s.recurringRepo.ListDue(ctx, tx, companyID, today)
		if err != nil {
			return err
		}

		for i := range templates {
			template := &templates[i]

			exclVAT, vat := money.FromGross(template.Amount, int(template.VATRate))

			templateID := template.ID
			record := &domain.Transaction{
				CompanyID:           template.CompanyID,
				Type:                template.Type,
				Source:              domain.TransactionSourceRecurring,
				Date:                template.NextDueDate,
				Party:               template.Party,
				Description:         template.Name,
				AmountExclVAT:       exclVAT,
				VATAmount:           vat,
				GrossAmount:         template.Amount,
				RecurringTemplateID: &templateID,
			}
			if err := s.transactionRepo.Create(ctx, tx, record); err != nil {
				return err
			}

			next := template.NextDueDate.AddDate(0, 1, 0)
			if err := s.recurringRepo.UpdateNextDueDate(ctx, tx, template.ID, next); err != nil {
				return err
			}

			result.CreatedCount++
			result.Transactions = append(result.Transactions, domain.ToTransactionDTO(record))
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to materialize recurring transactions: %w", err)
	}

	if result.CreatedCount > 0 {
		s.logger.Info("recurring transactions materialized",
			zap.String("companyId", companyID.String()),
			zap.Int("created", result.CreatedCount))
	}

	return result, nil
}

// MaterializeForCaller runs the materializer for the authenticated company
func (s *RecurringService) MaterializeForCaller(ctx context.Context) (*domain.MaterializeResultDTO, error) {
	uc := auth.MustFromContext(ctx)
	return s.Materialize(ctx, uc.CompanyID, time.Now())
}

func (s *RecurringService) getTemplate(ctx context.Context, id uuid.UUID) (*domain.RecurringTemplate, error) {
	template, err := s.recurringRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return template, nil
}
