package service_test

import (
	"context"
	"testing"

	"github.com/fakturo-as/billing-api/internal/dispatch"
	"github.com/fakturo-as/billing-api/internal/domain"
	"github.com/fakturo-as/billing-api/internal/repository"
	"github.com/fakturo-as/billing-api/internal/service"
	"github.com/fakturo-as/billing-api/internal/storage"
	"github.com/fakturo-as/billing-api/internal/testutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// fixture wires the full service graph against an in-memory database with
// one seeded tenant and an authenticated context for it.
type fixture struct {
	db      *gorm.DB
	ctx     context.Context
	company *domain.Company
	user    *domain.User

	invoices     *service.InvoiceService
	quotes       *service.QuoteService
	orders       *service.PurchaseOrderService
	recurring    *service.RecurringService
	transactions *service.TransactionService
	products     *service.ProductService
	customers    *service.CustomerService
	suppliers    *service.SupplierService
	dashboard    *service.DashboardService

	customerRepo    *repository.CustomerRepository
	supplierRepo    *repository.SupplierRepository
	productRepo     *repository.ProductRepository
	transactionRepo *repository.TransactionRepository
	sequenceRepo    *repository.NumberSequenceRepository
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	db := testutil.SetupTestDB(t)
	company := testutil.SeedCompany(t, db, "Acme AB")
	user := testutil.SeedUser(t, db, company.ID, "anna@acme.se")
	ctx := testutil.AuthContext(company.ID, user.ID)

	log := zap.NewNop()

	companyRepo := repository.NewCompanyRepository(db)
	customerRepo := repository.NewCustomerRepository(db)
	supplierRepo := repository.NewSupplierRepository(db)
	productRepo := repository.NewProductRepository(db)
	invoiceRepo := repository.NewInvoiceRepository(db)
	quoteRepo := repository.NewQuoteRepository(db)
	orderRepo := repository.NewPurchaseOrderRepository(db)
	transactionRepo := repository.NewTransactionRepository(db)
	recurringRepo := repository.NewRecurringRepository(db)
	sequenceRepo := repository.NewNumberSequenceRepository(db)
	activityRepo := repository.NewActivityRepository(db)
	fileRepo := repository.NewFileRepository(db)

	renderer, err := dispatch.NewHTMLRenderer()
	require.NoError(t, err)
	sender := dispatch.NewLogSender(log)
	store, err := storage.NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	activityService := service.NewActivityService(activityRepo, log)
	invoiceService := service.NewInvoiceService(
		db, invoiceRepo, customerRepo, productRepo, sequenceRepo,
		transactionRepo, fileRepo, companyRepo, activityService,
		renderer, sender, store, log,
	)

	return &fixture{
		db:      db,
		ctx:     ctx,
		company: company,
		user:    user,

		invoices: invoiceService,
		quotes: service.NewQuoteService(
			db, quoteRepo, customerRepo, sequenceRepo, invoiceService,
			activityService, log,
		),
		orders: service.NewPurchaseOrderService(
			db, orderRepo, supplierRepo, productRepo, sequenceRepo,
			transactionRepo, activityService, log,
		),
		recurring: service.NewRecurringService(
			db, recurringRepo, transactionRepo, activityService, log,
		),
		transactions: service.NewTransactionService(transactionRepo, log),
		products:     service.NewProductService(productRepo, activityService, log),
		customers:    service.NewCustomerService(customerRepo, activityService, log),
		suppliers:    service.NewSupplierService(supplierRepo, activityService, log),
		dashboard:    service.NewDashboardService(invoiceRepo, transactionRepo, log),

		customerRepo:    customerRepo,
		supplierRepo:    supplierRepo,
		productRepo:     productRepo,
		transactionRepo: transactionRepo,
		sequenceRepo:    sequenceRepo,
	}
}

func (f *fixture) seedCustomer(t *testing.T, name string) *domain.Customer {
	t.Helper()
	customer := &domain.Customer{
		CompanyID: f.company.ID,
		Name:      name,
		Country:   "Sweden",
		IsActive:  true,
	}
	require.NoError(t, f.db.Create(customer).Error)
	return customer
}

func (f *fixture) seedSupplier(t *testing.T, name string) *domain.Supplier {
	t.Helper()
	supplier := &domain.Supplier{
		CompanyID: f.company.ID,
		Name:      name,
		Country:   "Sweden",
		IsActive:  true,
	}
	require.NoError(t, f.db.Create(supplier).Error)
	return supplier
}

func (f *fixture) seedProduct(t *testing.T, name string, stock int, trackStock bool) *domain.Product {
	t.Helper()
	product := &domain.Product{
		CompanyID:  f.company.ID,
		Name:       name,
		UnitPrice:  d("100"),
		VATRate:    domain.VATRateStandard,
		Stock:      stock,
		TrackStock: trackStock,
		IsActive:   true,
	}
	require.NoError(t, f.db.Create(product).Error)
	// track_stock has a database default of true; GORM skips zero-value
	// fields with defaults on insert, so persist false explicitly.
	if !trackStock {
		require.NoError(t, f.db.Model(product).Update("track_stock", false).Error)
	}
	return product
}

func (f *fixture) productStock(t *testing.T, id interface{}) int {
	t.Helper()
	var product domain.Product
	require.NoError(t, f.db.First(&product, "id = ?", id).Error)
	return product.Stock
}

func d(s string) decimal.Decimal {
	v, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return v
}
