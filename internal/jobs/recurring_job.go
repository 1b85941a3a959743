package jobs

import (
	"context"
	"time"

	"github.com/fakturo-as/billing-api/internal/domain"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// RecurringJobName is the name of the recurring materializer job
const RecurringJobName = "recurring_materializer"

// defaultRecurringTimeout bounds one full materializer sweep
const defaultRecurringTimeout = 5 * time.Minute

// RecurringMaterializer runs the recurring transaction materializer for one
// company. The interface keeps the job from importing the service package.
type RecurringMaterializer interface {
	Materialize(ctx context.Context, companyID uuid.UUID, today time.Time) (*domain.MaterializeResultDTO, error)
}

// CompanyLister enumerates the tenants the job sweeps over.
type CompanyLister interface {
	ListActive(ctx context.Context) ([]domain.Company, error)
}

// RecurringJob materializes due recurring transactions for every active
// company. A failure in one company does not stop the sweep.
type RecurringJob struct {
	materializer RecurringMaterializer
	companies    CompanyLister
	logger       *zap.Logger
	timeout      time.Duration
}

func NewRecurringJob(materializer RecurringMaterializer, companies CompanyLister, logger *zap.Logger) *RecurringJob {
	return &RecurringJob{
		materializer: materializer,
		companies:    companies,
		logger:       logger,
		timeout:      defaultRecurringTimeout,
	}
}

// Run executes one materializer sweep. Called by the scheduler and, when
// configured, once at startup.
func (j *RecurringJob) Run() {
	ctx, cancel := context.WithTimeout(context.Background(), j.timeout)
	defer cancel()

	start := time.Now()
	today := time.Now()

	companies, err := j.companies.ListActive(ctx)
	if err != nil {
		j.logger.Error("recurring job failed to list companies", zap.Error(err))
		return
	}

	created := 0
	failed := 0
	for _, company := range companies {
		result, err := j.materializer.Materialize(ctx, company.ID, today)
		if err != nil {
			failed++
			j.logger.Error("recurring materializer failed",
				zap.String("companyId", company.ID.String()),
				zap.Error(err))
			continue
		}
		created += result.CreatedCount
	}

	j.logger.Info("recurring materializer sweep completed",
		zap.Int("companies", len(companies)),
		zap.Int("created", created),
		zap.Int("failed", failed),
		zap.Duration("duration", time.Since(start)))
}

// RegisterRecurringJob registers the materializer with the scheduler. When
// runOnStartup is true one sweep runs immediately in the background, so
// templates that came due while the API was down are caught up without
// waiting for the next scheduled run.
func RegisterRecurringJob(scheduler *Scheduler, materializer RecurringMaterializer, companies CompanyLister, logger *zap.Logger, cronExpr string, runOnStartup bool) error {
	job := NewRecurringJob(materializer, companies, logger)

	if runOnStartup {
		go job.Run()
	}

	return scheduler.AddJob(RecurringJobName, cronExpr, job.Run)
}
