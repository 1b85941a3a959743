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

type QuoteHandler struct {
	quoteService *service.QuoteService
	logger       *zap.Logger
}

func NewQuoteHandler(quoteService *service.QuoteService, logger *zap.Logger) *QuoteHandler {
	return &QuoteHandler{
		quoteService: quoteService,
		logger:       logger,
	}
}

func parseQuoteID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondJSON(w, http.StatusBadRequest, domain.ErrorResponse{
			Error:   "Bad Request",
			Message: "Invalid quote ID format",
		})
		return uuid.Nil, false
	}
	return id, true
}

// List godoc
// @Summary List quotes
// @Tags Quotes
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param pageSize query int false "Items per page (max 200)" default(20)
// @Param status query string false "Filter by status" Enums(draft, sent, accepted, declined, expired)
// @Success 200 {object} domain.PaginatedResponse{data=[]domain.QuoteDTO}
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /quotes [get]
func (h *QuoteHandler) List(w http.ResponseWriter, r *http.Request) {
	page, pageSize := parsePagination(r)
	status := domain.QuoteStatus(r.URL.Query().Get("status"))

	quotes, total, err := h.quoteService.List(r.Context(), page, pageSize, status)
	if err != nil {
		respondServiceError(w, h.logger, err, "list quotes")
		return
	}

	respondJSON(w, http.StatusOK, domain.NewPaginatedResponse(quotes, total, page, pageSize))
}

// GetByID godoc
// @Summary Get quote by ID
// @Tags Quotes
// @Produce json
// @Param id path string true "Quote ID" format(uuid)
// @Success 200 {object} domain.QuoteDTO
// @Failure 404 {object} domain.ErrorResponse
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /quotes/{id} [get]
func (h *QuoteHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, ok := parseQuoteID(w, r)
	if !ok {
		return
	}

	quote, err := h.quoteService.GetByID(r.Context(), id)
	if err != nil {
		respondServiceError(w, h.logger, err, "get quote")
		return
	}

	respondJSON(w, http.StatusOK, quote)
}

// Create godoc
// @Summary Create draft quote
// @Tags Quotes
// @Accept json
// @Produce json
// @Param request body domain.CreateQuoteRequest true "Quote data"
// @Success 201 {object} domain.QuoteDTO
// @Failure 400 {object} domain.ErrorResponse
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /quotes [post]
func (h *QuoteHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req domain.CreateQuoteRequest
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

	quote, err := h.quoteService.Create(r.Context(), &req)
	if err != nil {
		respondServiceError(w, h.logger, err, "create quote")
		return
	}

	w.Header().Set("Location", "/api/v1/quotes/"+quote.ID.String())
	respondJSON(w, http.StatusCreated, quote)
}

// Update godoc
// @Summary Update draft quote
// @Tags Quotes
// @Accept json
// @Produce json
// @Param id path string true "Quote ID" format(uuid)
// @Param request body domain.UpdateQuoteRequest true "Quote data"
// @Success 200 {object} domain.QuoteDTO
// @Failure 404 {object} domain.ErrorResponse
// @Failure 409 {object} domain.ErrorResponse "Quote is posted"
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /quotes/{id} [put]
func (h *QuoteHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := parseQuoteID(w, r)
	if !ok {
		return
	}

	var req domain.UpdateQuoteRequest
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

	quote, err := h.quoteService.Update(r.Context(), id, &req)
	if err != nil {
		respondServiceError(w, h.logger, err, "update quote")
		return
	}

	respondJSON(w, http.StatusOK, quote)
}

// Delete godoc
// @Summary Delete draft quote
// @Tags Quotes
// @Param id path string true "Quote ID" format(uuid)
// @Success 204 "No Content"
// @Failure 404 {object} domain.ErrorResponse
// @Failure 409 {object} domain.ErrorResponse "Quote is posted"
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /quotes/{id} [delete]
func (h *QuoteHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := parseQuoteID(w, r)
	if !ok {
		return
	}

	if err := h.quoteService.Delete(r.Context(), id); err != nil {
		respondServiceError(w, h.logger, err, "delete quote")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Send godoc
// @Summary Post quote
// @Description Post a draft quote: assigns the quote number and marks it sent
// @Tags Quotes
// @Produce json
// @Param id path string true "Quote ID" format(uuid)
// @Success 200 {object} domain.QuoteDTO
// @Failure 404 {object} domain.ErrorResponse
// @Failure 409 {object} domain.ErrorResponse "Invalid transition"
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /quotes/{id}/send [post]
func (h *QuoteHandler) Send(w http.ResponseWriter, r *http.Request) {
	id, ok := parseQuoteID(w, r)
	if !ok {
		return
	}

	quote, err := h.quoteService.Send(r.Context(), id)
	if err != nil {
		respondServiceError(w, h.logger, err, "post quote")
		return
	}

	respondJSON(w, http.StatusOK, quote)
}

// Accept godoc
// @Summary Accept quote
// @Tags Quotes
// @Produce json
// @Param id path string true "Quote ID" format(uuid)
// @Success 200 {object} domain.QuoteDTO
// @Failure 404 {object} domain.ErrorResponse
// @Failure 409 {object} domain.ErrorResponse "Invalid transition"
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /quotes/{id}/accept [post]
func (h *QuoteHandler) Accept(w http.ResponseWriter, r *http.Request) {
	h.setStatus(w, r, domain.QuoteStatusAccepted, "accept quote")
}

// Decline godoc
// @Summary Decline quote
// @Tags Quotes
// @Produce json
// @Param id path string true "Quote ID" format(uuid)
// @Success 200 {object} domain.QuoteDTO
// @Failure 404 {object} domain.ErrorResponse
// @Failure 409 {object} domain.ErrorResponse "Invalid transition"
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /quotes/{id}/decline [post]
func (h *QuoteHandler) Decline(w http.ResponseWriter, r *http.Request) {
	h.setStatus(w, r, domain.QuoteStatusDeclined, "decline quote")
}

// Expire godoc
// @Summary Expire quote
// @Tags Quotes
// @Produce json
// @Param id path string true "Quote ID" format(uuid)
// @Success 200 {object} domain.QuoteDTO
// @Failure 404 {object} domain.ErrorResponse
// @Failure 409 {object} domain.ErrorResponse "Invalid transition"
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /quotes/{id}/expire [post]
func (h *QuoteHandler) Expire(w http.ResponseWriter, r *http.Request) {
	h.setStatus(w, r, domain.QuoteStatusExpired, "expire quote")
}

func (h *QuoteHandler) setStatus(w http.ResponseWriter, r *http.Request, target domain.QuoteStatus, action string) {
	id, ok := parseQuoteID(w, r)
	if !ok {
		return
	}

	quote, err := h.quoteService.SetStatus(r.Context(), id, target)
	if err != nil {
		respondServiceError(w, h.logger, err, action)
		return
	}

	respondJSON(w, http.StatusOK, quote)
}

// Convert godoc
// @Summary Convert quote to invoice
// @Description Create a draft invoice from an accepted quote. A quote converts at most once.
// @Tags Quotes
// @Produce json
// @Param id path string true "Quote ID" format(uuid)
// @Success 201 {object} domain.InvoiceDTO
// @Failure 404 {object} domain.ErrorResponse
// @Failure 409 {object} domain.ErrorResponse "Quote not accepted or already converted"
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /quotes/{id}/convert [post]
func (h *QuoteHandler) Convert(w http.ResponseWriter, r *http.Request) {
	id, ok := parseQuoteID(w, r)
	if !ok {
		return
	}

	invoice, err := h.quoteService.Convert(r.Context(), id)
	if err != nil {
		respondServiceError(w, h.logger, err, "convert quote")
		return
	}

	w.Header().Set("Location", "/api/v1/invoices/"+invoice.ID.String())
	respondJSON(w, http.StatusCreated, invoice)
}
