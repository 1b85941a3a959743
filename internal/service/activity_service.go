package service

import (
	"context"
	"time"

	"github.com/fakturo-as/billing-api/internal/auth"
	"github.com/fakturo-as/billing-api/internal/domain"
	"github.com/fakturo-as/billing-api/internal/repository"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ActivityService records and reads the per-document event log. Entries are
// written best-effort: a failed log line never fails the operation it follows.
type ActivityService struct {
	activityRepo *repository.ActivityRepository
	logger       *zap.Logger
}

func NewActivityService(activityRepo *repository.ActivityRepository, logger *zap.Logger) *ActivityService {
	return &ActivityService{
		activityRepo: activityRepo,
		logger:       logger,
	}
}

func (s *ActivityService) Log(ctx context.Context, targetType domain.ActivityTargetType, targetID uuid.UUID, title, body string) {
	uc, ok := auth.FromContext(ctx)
	if !ok {
		return
	}

	activity := &domain.Activity{
		CompanyID:   uc.CompanyID,
		TargetType:  targetType,
		TargetID:    targetID,
		Title:       title,
		Body:        body,
		OccurredAt:  time.Now(),
		CreatorName: uc.DisplayName,
	}
	if uc.UserID != uuid.Nil {
		activity.CreatorID = uc.UserID.String()
	}

	if err := s.activityRepo.Create(ctx, activity); err != nil {
		s.logger.Warn("failed to record activity",
			zap.String("targetType", string(targetType)),
			zap.String("targetId", targetID.String()),
			zap.Error(err))
	}
}

func (s *ActivityService) ListByTarget(ctx context.Context, targetType domain.ActivityTargetType, targetID uuid.UUID) ([]domain.ActivityDTO, error) {
	if !targetType.IsValid() {
		return nil, ErrNotFound
	}

	activities, err := s.activityRepo.ListByTarget(ctx, targetType, targetID)
	if err != nil {
		return nil, err
	}

	dtos := make([]domain.ActivityDTO, 0, len(activities))
	for i := range activities {
		dtos = append(dtos, domain.ToActivityDTO(&activities[i]))
	}
	return dtos, nil
}
