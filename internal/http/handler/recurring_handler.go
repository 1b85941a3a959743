package handler

import (
	"encoding/json"
	"net/http"

	"github.com/fakturo-as/billing-api/internal/domain"
	"github.com/fakturo-as/billing-api/internal/service"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type RecurringHandler struct {
	recurringService *service.RecurringService
	logger           *zap.Logger
}

func NewRecurringHandler(recurringService *service.RecurringService, logger *zap.Logger) *RecurringHandler {
	return &RecurringHandler{
		recurringService: recurringService,
		logger:           logger,
	}
}

func parseTemplateID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondJSON(w, http.StatusBadRequest, domain.ErrorResponse{
			Error:   "Bad Request",
			Message: "Invalid template ID format",
		})
		return uuid.Nil, false
	}
	return id, true
}

// List godoc
// @Summary List recurring templates
// @Tags Recurring
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param pageSize query int false "Items per page (max 200)" default(20)
// @Success 200 {object} domain.PaginatedResponse{data=[]domain.RecurringTemplateDTO}
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /recurring-templates [get]
func (h *RecurringHandler) List(w http.ResponseWriter, r *http.Request) {
	page, pageSize := parsePagination(r)

	templates, total, err := h.recurringService.List(r.Context(), page, pageSize)
	if err != nil {
		respondServiceError(w, h.logger, err, "list recurring templates")
		return
	}

	respondJSON(w, http.StatusOK, domain.NewPaginatedResponse(templates, total, page, pageSize))
}

// GetByID godoc
// @Summary Get recurring template by ID
// @Tags Recurring
// @Produce json
// @Param id path string true "Template ID" format(uuid)
// @Success 200 {object} domain.RecurringTemplateDTO
// @Failure 404 {object} domain.ErrorResponse
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /recurring-templates/{id} [get]
func (h *RecurringHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, ok := parseTemplateID(w, r)
	if !ok {
		return
	}

	template, err := h.recurringService.GetByID(r.Context(), id)
	if err != nil {
		respondServiceError(w, h.logger, err, "get recurring template")
		return
	}

	respondJSON(w, http.StatusOK, template)
}

// Create godoc
// @Summary Create recurring template
// @Tags Recurring
// @Accept json
// @Produce json
// @Param request body domain.CreateRecurringTemplateRequest true "Template data"
// @Success 201 {object} domain.RecurringTemplateDTO
// @Failure 400 {object} domain.ErrorResponse
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /recurring-templates [post]
func (h *RecurringHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req domain.CreateRecurringTemplateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSON(w, http.StatusBadRequest, domain.ErrorResponse{
			Error:   "Bad Request",
			Message: "Invalid request body",
		})
		return
	}

	if err := validate.Struct(req); err != nil {
		respondValidationError(w, err)
		return
	}

	template, err := h.recurringService.Create(r.Context(), &req)
	if err != nil {
		respondServiceError(w, h.logger, err, "create recurring template")
		return
	}

	w.Header().Set("Location", "/api/v1/recurring-templates/"+template.ID.String())
	respondJSON(w, http.StatusCreated, template)
}

// Update godoc
// @Summary Update recurring template
// @Tags Recurring
// @Accept json
// @Produce json
// @Param id path string true "Template ID" format(uuid)
// @Param request body domain.UpdateRecurringTemplateRequest true "Template data"
// @Success 200 {object} domain.RecurringTemplateDTO
// @Failure 404 {object} domain.ErrorResponse
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /recurring-templates/{id} [put]
func (h *RecurringHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := parseTemplateID(w, r)
	if !ok {
		return
	}

	var req domain.UpdateRecurringTemplateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSON(w, http.StatusBadRequest, domain.ErrorResponse{
			Error:   "Bad Request",
			Message: "Invalid request body",
		})
		return
	}

	if err := validate.Struct(req); err != nil {
		respondValidationError(w, err)
		return
	}

	template, err := h.recurringService.Update(r.Context(), id, &req)
	if err != nil {
		respondServiceError(w, h.logger, err, "update recurring template")
		return
	}

	respondJSON(w, http.StatusOK, template)
}

// Delete godoc
// @Summary Delete recurring template
// @Tags Recurring
// @Param id path string true "Template ID" format(uuid)
// @Success 204 "No Content"
// @Failure 404 {object} domain.ErrorResponse
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /recurring-templates/{id} [delete]
func (h *RecurringHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := parseTemplateID(w, r)
	if !ok {
		return
	}

	if err := h.recurringService.Delete(r.Context(), id); err != nil {
		respondServiceError(w, h.logger, err, "delete recurring template")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Materialize godoc
// @Summary Materialize due templates
// @Description Create transactions for every active template whose next due date has passed. The scheduled job runs the same sweep nightly.
// @Tags Recurring
// @Produce json
// @Success 200 {object} domain.MaterializeResultDTO
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /recurring-templates/materialize [post]
func (h *RecurringHandler) Materialize(w http.ResponseWriter, r *http.Request) {
	result, err := h.recurringService.MaterializeForCaller(r.Context())
	if err != nil {
		respondServiceError(w, h.logger, err, "materialize recurring templates")
		return
	}

	respondJSON(w, http.StatusOK, result)
}
