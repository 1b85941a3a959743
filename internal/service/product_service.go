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

type ProductService struct {
	productRepo *repository.ProductRepository
	activity    *ActivityService
	logger      *zap.Logger
}

func NewProductService(productRepo *repository.ProductRepository, activity *ActivityService, logger *zap.Logger) *ProductService {
	return &ProductService{
		productRepo: productRepo,
		activity:    activity,
		logger:      logger,
	}
}

func (s *ProductService) Create(ctx context.Context, req *domain.CreateProductRequest) (*domain.ProductDTO, error) {
	uc := auth.MustFromContext(ctx)

	if !req.VATRate.IsValid() {
		return nil, ErrInvalidVATRate
	}

	product := &domain.Product{
		CompanyID:     uc.CompanyID,
		Name:          req.Name,
		SKU:           req.SKU,
		Description:   req.Description,
		UnitPrice:     req.UnitPrice,
		PurchasePrice: req.PurchasePrice,
		VATRate:       req.VATRate,
		Unit:          req.Unit,
		Stock:         req.Stock,
		TrackStock:    true,
		SupplierID:    req.SupplierID,
		IsActive:      true,
	}
	if req.TrackStock != nil {
		product.TrackStock = *req.TrackStock
	}

	if err := s.productRepo.Create(ctx, product); err != nil {
		return nil, fmt.Errorf("failed to create product: %w", err)
	}

	s.activity.Log(ctx, domain.ActivityTargetProduct, product.ID, "Product created", product.Name)

	dto := domain.ToProductDTO(product)
	return &dto, nil
}

func (s *ProductService) GetByID(ctx context.Context, id uuid.UUID) (*domain.ProductDTO, error) {
	product, err := s.productRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	dto := domain.ToProductDTO(product)
	return &dto, nil
}

func (s *ProductService) Update(ctx context.Context, id uuid.UUID, req *domain.UpdateProductRequest) (*domain.ProductDTO, error) {
	product, err := s.productRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	if !req.VATRate.IsValid() {
		return nil, ErrInvalidVATRate
	}

	product.Name = req.Name
	product.SKU = req.SKU
	product.Description = req.Description
	product.UnitPrice = req.UnitPrice
	product.PurchasePrice = req.PurchasePrice
	product.VATRate = req.VATRate
	product.Unit = req.Unit
	product.SupplierID = req.SupplierID
	if req.TrackStock != nil {
		product.TrackStock = *req.TrackStock
	}

	if err := s.productRepo.Update(ctx, product); err != nil {
		return nil, fmt.Errorf("failed to update product: %w", err)
	}

	s.activity.Log(ctx, domain.ActivityTargetProduct, product.ID, "Product updated", product.Name)

	dto := domain.ToProductDTO(product)
	return &dto, nil
}

// SetStock applies a manual stock correction to an absolute level
func (s *ProductService) SetStock(ctx context.Context, id uuid.UUID, req *domain.SetStockRequest) (*domain.ProductDTO, error) {
	product, err := s.productRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if !product.TrackStock {
		return nil, ErrStockNotTracked
	}

	if err := s.productRepo.SetStock(ctx, id, req.Stock); err != nil {
		return nil, fmt.Errorf("failed to set stock: %w", err)
	}

	s.activity.Log(ctx, domain.ActivityTargetProduct, product.ID, "Stock corrected",
		fmt.Sprintf("Stock set to %d. %s", req.Stock, req.Note))

	product, err = s.productRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	dto := domain.ToProductDTO(product)
	return &dto, nil
}

func (s *ProductService) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.productRepo.GetByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}
	return s.productRepo.Delete(ctx, id)
}

func (s *ProductService) List(ctx context.Context, page, pageSize int, search string) ([]domain.ProductDTO, int64, error) {
	products, total, err := s.productRepo.List(ctx, page, pageSize, search)
	if err != nil {
		return nil, 0, err
	}

	dtos := make([]domain.ProductDTO, 0, len(products))
	for i := range products {
		dtos = append(dtos, domain.ToProductDTO(&products[i]))
	}
	return dtos, total, nil
}
