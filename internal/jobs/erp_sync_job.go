package jobs

import (
	"context"
	"time"

	"github.com/fakturo-as/billing-api/internal/erpbridge"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ERPSyncJobName is the name of the ERP master data import job
const ERPSyncJobName = "erp_sync"

// defaultERPSyncTimeout bounds one full import sweep
const defaultERPSyncTimeout = 15 * time.Minute

// ERPImporter imports master data for one company.
type ERPImporter interface {
	Run(ctx context.Context, companyID uuid.UUID) (*erpbridge.ImportResult, error)
}

// ERPSyncJob imports customer and product master data from the ERP for
// every active company.
type ERPSyncJob struct {
	importer  ERPImporter
	companies CompanyLister
	logger    *zap.Logger
	timeout   time.Duration
}

func NewERPSyncJob(importer ERPImporter, companies CompanyLister, logger *zap.Logger) *ERPSyncJob {
	return &ERPSyncJob{
		importer:  importer,
		companies: companies,
		logger:    logger,
		timeout:   defaultERPSyncTimeout,
	}
}

// Run executes one import sweep across all active companies
func (j *ERPSyncJob) Run() {
	ctx, cancel := context.WithTimeout(context.Background(), j.timeout)
	defer cancel()

	start := time.Now()

	companies, err := j.companies.ListActive(ctx)
	if err != nil {
		j.logger.Error("erp sync failed to list companies", zap.Error(err))
		return
	}

	for _, company := range companies {
		if _, err := j.importer.Run(ctx, company.ID); err != nil {
			j.logger.Error("erp import failed",
				zap.String("companyId", company.ID.String()),
				zap.Error(err))
		}
	}

	j.logger.Info("erp sync sweep completed",
		zap.Int("companies", len(companies)),
		zap.Duration("duration", time.Since(start)))
}

// RegisterERPSyncJob registers the import job with the scheduler
func RegisterERPSyncJob(scheduler *Scheduler, importer ERPImporter, companies CompanyLister, logger *zap.Logger, cronExpr string) error {
	job := NewERPSyncJob(importer, companies, logger)
	return scheduler.AddJob(ERPSyncJobName, cronExpr, job.Run)
}
