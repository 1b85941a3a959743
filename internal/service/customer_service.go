package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/fakturo-as/billing-api/internal/auth"
	"github.com/fakturo-as/billing-api/internal/domain"
	"github.com/fakturo-as/billing-api/internal/repository"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type CustomerService struct {
	customerRepo *repository.CustomerRepository
	activity     *ActivityService
	logger       *zap.Logger
}

func NewCustomerService(customerRepo *repository.CustomerRepository, activity *ActivityService, logger *zap.Logger) *CustomerService {
	return &CustomerService{
		customerRepo: customerRepo,
		activity:     activity,
		logger:       logger,
	}
}

func (s *CustomerService) Create(ctx context.Context, req *domain.CreateCustomerRequest) (*domain.CustomerDTO, error) {
	uc := auth.MustFromContext(ctx)

	customer := &domain.Customer{
		CompanyID:     uc.CompanyID,
		Name:          req.Name,
		OrgNumber:     req.OrgNumber,
		Email:         req.Email,
		Phone:         req.Phone,
		Address:       req.Address,
		City:          req.City,
		PostalCode:    req.PostalCode,
		Country:       req.Country,
		ContactPerson: req.ContactPerson,
		Notes:         req.Notes,
		IsActive:      true,
	}
	if customer.Country == "" {
		customer.Country = "Sweden"
	}

	if err := s.customerRepo.Create(ctx, customer); err != nil {
		return nil, fmt.Errorf("failed to create customer: %w", err)
	}

	s.activity.Log(ctx, domain.ActivityTargetCustomer, customer.ID, "Customer created", customer.Name)

	dto := domain.ToCustomerDTO(customer)
	return &dto, nil
}

func (s *CustomerService) GetByID(ctx context.Context, id uuid.UUID) (*domain.CustomerDTO, error) {
	customer, err := s.customerRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	dto := domain.ToCustomerDTO(customer)
	return &dto, nil
}

func (s *CustomerService) Update(ctx context.Context, id uuid.UUID, req *domain.UpdateCustomerRequest) (*domain.CustomerDTO, error) {
	customer, err := s.customerRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	customer.Name = req.Name
	customer.OrgNumber = req.OrgNumber
	customer.Email = req.Email
	customer.Phone = req.Phone
	customer.Address = req.Address
	customer.City = req.City
	customer.PostalCode = req.PostalCode
	if req.Country != "" {
		customer.Country = req.Country
	}
	customer.ContactPerson = req.ContactPerson
	customer.Notes = req.Notes

	if err := s.customerRepo.Update(ctx, customer); err != nil {
		return nil, fmt.Errorf("failed to update customer: %w", err)
	}

	s.activity.Log(ctx, domain.ActivityTargetCustomer, customer.ID, "Customer updated", customer.Name)

	dto := domain.ToCustomerDTO(customer)
	return &dto, nil
}

func (s *CustomerService) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.customerRepo.GetByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}
	return s.customerRepo.Delete(ctx, id)
}

func (s *CustomerService) List(ctx context.Context, page, pageSize int, search string) ([]domain.CustomerDTO, int64, error) {
	customers, total, err := s.customerRepo.List(ctx, page, pageSize, search)
	if err != nil {
		return nil, 0, err
	}

	dtos := make([]domain.CustomerDTO, 0, len(customers))
	for i := range customers {
		dtos = append(dtos, domain.ToCustomerDTO(&customers[i]))
	}
	return dtos, total, nil
}
