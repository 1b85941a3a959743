package erpbridge

import (
	"context"
	"errors"
	"fmt"

	"github.com/fakturo-as/billing-api/internal/domain"
	"github.com/fakturo-as/billing-api/internal/repository"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	customerQuery = `SELECT CustomerNo, Name, OrgNo, Email, Phone, Address, City, PostalCode FROM dbo.Customer WHERE Blocked = 0`
	productQuery  = `SELECT ItemNo, Description, UnitPrice, PurchasePrice, Unit FROM dbo.Item WHERE Blocked = 0`
)

// Importer copies customer and product master data from the ERP into the
// local registries. Rows are matched on the ERP reference; matched rows are
// updated in place, unmatched ones created. Nothing is deleted locally when
// it disappears from the ERP.
type Importer struct {
	client       *Client
	customerRepo *repository.CustomerRepository
	productRepo  *repository.ProductRepository
	logger       *zap.Logger
}

func NewImporter(
	client *Client,
	customerRepo *repository.CustomerRepository,
	productRepo *repository.ProductRepository,
	logger *zap.Logger,
) *Importer {
	return &Importer{
		client:       client,
		customerRepo: customerRepo,
		productRepo:  productRepo,
		logger:       logger,
	}
}

// ImportResult summarizes one import run
type ImportResult struct {
	CustomersCreated int
	CustomersUpdated int
	ProductsCreated  int
	ProductsUpdated  int
}

// Run imports customers and products for one company. A failed row is
// logged and skipped; the run continues.
func (i *Importer) Run(ctx context.Context, companyID uuid.UUID) (*ImportResult, error) {
	if !i.client.IsEnabled() {
		return nil, fmt.Errorf("erp bridge not enabled")
	}

	result := &ImportResult{}

	if err := i.importCustomers(ctx, companyID, result); err != nil {
		return nil, err
	}
	if err := i.importProducts(ctx, companyID, result); err != nil {
		return nil, err
	}

	i.logger.Info("ERP import completed",
		zap.String("companyId", companyID.String()),
		zap.Int("customersCreated", result.CustomersCreated),
		zap.Int("customersUpdated", result.CustomersUpdated),
		zap.Int("productsCreated", result.ProductsCreated),
		zap.Int("productsUpdated", result.ProductsUpdated),
	)

	return result, nil
}

func (i *Importer) importCustomers(ctx context.Context, companyID uuid.UUID, result *ImportResult) error {
	rows, err := i.client.ExecuteQuery(ctx, customerQuery)
	if err != nil {
		return fmt.Errorf("failed to query erp customers: %w", err)
	}

	for _, row := range rows {
		ref := asString(row["CustomerNo"])
		name := asString(row["Name"])
		if ref == "" || name == "" {
			continue
		}

		existing, err := i.customerRepo.GetByERPReference(ctx, companyID, ref)
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			i.logger.Warn("failed to look up customer", zap.String("erpReference", ref), zap.Error(err))
			continue
		}

		if existing == nil {
			customer := &domain.Customer{
				CompanyID:    companyID,
				Name:         name,
				OrgNumber:    asString(row["OrgNo"]),
				Email:        asString(row["Email"]),
				Phone:        asString(row["Phone"]),
				Address:      asString(row["Address"]),
				City:         asString(row["City"]),
				PostalCode:   asString(row["PostalCode"]),
				Country:      "Sweden",
				ERPReference: ref,
				IsActive:     true,
			}
			if err := i.customerRepo.Create(ctx, customer); err != nil {
				i.logger.Warn("failed to create customer", zap.String("erpReference", ref), zap.Error(err))
				continue
			}
			result.CustomersCreated++
			continue
		}

		existing.Name = name
		existing.OrgNumber = asString(row["OrgNo"])
		existing.Email = asString(row["Email"])
		existing.Phone = asString(row["Phone"])
		existing.Address = asString(row["Address"])
		existing.City = asString(row["City"])
		existing.PostalCode = asString(row["PostalCode"])
		if err := i.customerRepo.Update(ctx, existing); err != nil {
			i.logger.Warn("failed to update customer", zap.String("erpReference", ref), zap.Error(err))
			continue
		}
		result.CustomersUpdated++
	}

	return nil
}

func (i *Importer) importProducts(ctx context.Context, companyID uuid.UUID, result *ImportResult) error {
	rows, err := i.client.ExecuteQuery(ctx, productQuery)
	if err != nil {
		return fmt.Errorf("failed to query erp products: %w", err)
	}

	for _, row := range rows {
		ref := asString(row["ItemNo"])
		name := asString(row["Description"])
		if ref == "" || name == "" {
			continue
		}

		existing, err := i.productRepo.GetByERPReference(ctx, companyID, ref)
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			i.logger.Warn("failed to look up product", zap.String("erpReference", ref), zap.Error(err))
			continue
		}

		unitPrice := asDecimal(row["UnitPrice"])
		purchasePrice := asDecimal(row["PurchasePrice"])

		if existing == nil {
			product := &domain.Product{
				CompanyID:     companyID,
				Name:          name,
				SKU:           ref,
				UnitPrice:     unitPrice,
				PurchasePrice: purchasePrice,
				VATRate:       domain.VATRateStandard,
				Unit:          asString(row["Unit"]),
				// Imported articles start without local stock tracking;
				// tracking is switched on per product when counted in.
				TrackStock:   false,
				ERPReference: ref,
				IsActive:     true,
			}
			if err := i.productRepo.Create(ctx, product); err != nil {
				i.logger.Warn("failed to create product", zap.String("erpReference", ref), zap.Error(err))
				continue
			}
			result.ProductsCreated++
			continue
		}

		existing.Name = name
		existing.UnitPrice = unitPrice
		existing.PurchasePrice = purchasePrice
		existing.Unit = asString(row["Unit"])
		if err := i.productRepo.Update(ctx, existing); err != nil {
			i.logger.Warn("failed to update product", zap.String("erpReference", ref), zap.Error(err))
			continue
		}
		result.ProductsUpdated++
	}

	return nil
}

func asString(v interface{}) string {
	switch s := v.(type) {
	case string:
		return s
	case []byte:
		return string(s)
	default:
		return ""
	}
}

func asDecimal(v interface{}) decimal.Decimal {
	switch n := v.(type) {
	case float64:
		return decimal.NewFromFloat(n)
	case int64:
		return decimal.NewFromInt(n)
	case []byte:
		d, err := decimal.NewFromString(string(n))
		if err != nil {
			return decimal.Zero
		}
		return d
	case string:
		d, err := decimal.NewFromString(n)
		if err != nil {
			return decimal.Zero
		}
		return d
	default:
		return decimal.Zero
	}
}
