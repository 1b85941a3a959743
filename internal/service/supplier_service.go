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

type SupplierService struct {
	supplierRepo *repository.SupplierRepository
	activity     *ActivityService
	logger       *zap.Logger
}

func NewSupplierService(supplierRepo *repository.SupplierRepository, activity *ActivityService, logger *zap.Logger) *SupplierService {
	return &SupplierService{
		supplierRepo: supplierRepo,
		activity:     activity,
		logger:       logger,
	}
}

func (s *SupplierService) Create(ctx context.Context, req *domain.CreateSupplierRequest) (*domain.SupplierDTO, error) {
	uc := auth.MustFromContext(ctx)

	supplier := &domain.Supplier{
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
	if supplier.Country == "" {
		supplier.Country = "Sweden"
	}

	if err := s.supplierRepo.Create(ctx, supplier); err != nil {
		return nil, fmt.Errorf("failed to create supplier: %w", err)
	}

	s.activity.Log(ctx, domain.ActivityTargetSupplier, supplier.ID, "Supplier created", supplier.Name)

	dto := domain.ToSupplierDTO(supplier)
	return &dto, nil
}

func (s *SupplierService) GetByID(ctx context.Context, id uuid.UUID) (*domain.SupplierDTO, error) {
	supplier, err := s.supplierRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	dto := domain.ToSupplierDTO(supplier)
	return &dto, nil
}

func (s *SupplierService) Update(ctx context.Context, id uuid.UUID, req *domain.UpdateSupplierRequest) (*domain.SupplierDTO, error) {
	supplier, err := s.supplierRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	supplier.Name = req.Name
	supplier.OrgNumber = req.OrgNumber
	supplier.Email = req.Email
	supplier.Phone = req.Phone
	supplier.Address = req.Address
	supplier.City = req.City
	supplier.PostalCode = req.PostalCode
	if req.Country != "" {
		supplier.Country = req.Country
	}
	supplier.ContactPerson = req.ContactPerson
	supplier.Notes = req.Notes

	if err := s.supplierRepo.Update(ctx, supplier); err != nil {
		return nil, fmt.Errorf("failed to update supplier: %w", err)
	}

	s.activity.Log(ctx, domain.ActivityTargetSupplier, supplier.ID, "Supplier updated", supplier.Name)

	dto := domain.ToSupplierDTO(supplier)
	return &dto, nil
}

func (s *SupplierService) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.supplierRepo.GetByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}
	return s.supplierRepo.Delete(ctx, id)
}

func (s *SupplierService) List(ctx context.Context, page, pageSize int, search string) ([]domain.SupplierDTO, int64, error) {
	suppliers, total, err := s.supplierRepo.List(ctx, page, pageSize, search)
	if err != nil {
		return nil, 0, err
	}

	dtos := make([]domain.SupplierDTO, 0, len(suppliers))
	for i := range suppliers {
		dtos = append(dtos, domain.ToSupplierDTO(&suppliers[i]))
	}
	return dtos, total, nil
}
