package handler

import (
	"net/http"

	"github.com/fakturo-as/billing-api/internal/service"
	"go.uber.org/zap"
)

type DashboardHandler struct {
	dashboardService *service.DashboardService
	logger           *zap.Logger
}

func NewDashboardHandler(dashboardService *service.DashboardService, logger *zap.Logger) *DashboardHandler {
	return &DashboardHandler{
		dashboardService: dashboardService,
		logger:           logger,
	}
}

// GetMetrics godoc
// @Summary Dashboard metrics
// @Description Outstanding receivables, open and overdue invoice counts, and current month income/expense
// @Tags Dashboard
// @Produce json
// @Success 200 {object} domain.DashboardMetricsDTO
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /dashboard/metrics [get]
func (h *DashboardHandler) GetMetrics(w http.ResponseWriter, r *http.Request) {
	metrics, err := h.dashboardService.GetMetrics(r.Context())
	if err != nil {
		respondServiceError(w, h.logger, err, "load dashboard metrics")
		return
	}

	respondJSON(w, http.StatusOK, metrics)
}
