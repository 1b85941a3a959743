package handler

import (
	"net/http"

	"github.com/fakturo-as/billing-api/internal/domain"
	"github.com/fakturo-as/billing-api/internal/service"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type ActivityHandler struct {
	activityService *service.ActivityService
	logger          *zap.Logger
}

func NewActivityHandler(activityService *service.ActivityService, logger *zap.Logger) *ActivityHandler {
	return &ActivityHandler{
		activityService: activityService,
		logger:          logger,
	}
}

// ListByTarget godoc
// @Summary List activities for a record
// @Description Get the activity trail for a document or registry record, newest first
// @Tags Activities
// @Produce json
// @Param targetType path string true "Target type" Enums(Invoice, Quote, PurchaseOrder, Customer, Supplier, Product, RecurringTemplate)
// @Param targetId path string true "Target ID" format(uuid)
// @Success 200 {array} domain.ActivityDTO
// @Failure 400 {object} domain.ErrorResponse
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /activities/{targetType}/{targetId} [get]
func (h *ActivityHandler) ListByTarget(w http.ResponseWriter, r *http.Request) {
	targetType := domain.ActivityTargetType(chi.URLParam(r, "targetType"))
	if !targetType.IsValid() {
		respondJSON(w, http.StatusBadRequest, domain.ErrorResponse{
			Error:   "Bad Request",
			Message: "Invalid activity target type",
		})
		return
	}

	targetID, err := uuid.Parse(chi.URLParam(r, "targetId"))
	if err != nil {
		respondJSON(w, http.StatusBadRequest, domain.ErrorResponse{
			Error:   "Bad Request",
			Message: "Invalid target ID format",
		})
		return
	}

	activities, err := h.activityService.ListByTarget(r.Context(), targetType, targetID)
	if err != nil {
		respondServiceError(w, h.logger, err, "list activities")
		return
	}

	respondJSON(w, http.StatusOK, activities)
}
