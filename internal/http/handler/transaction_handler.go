package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/fakturo-as/billing-api/internal/domain"
	"github.com/fakturo-as/billing-api/internal/repository"
	"github.com/fakturo-as/billing-api/internal/service"
	"go.uber.org/zap"
)

type TransactionHandler struct {
	transactionService *service.TransactionService
	logger             *zap.Logger
}

func NewTransactionHandler(transactionService *service.TransactionService, logger *zap.Logger) *TransactionHandler {
	return &TransactionHandler{
		transactionService: transactionService,
		logger:             logger,
	}
}

// List godoc
// @Summary List transactions
// @Description Get the transaction ledger, newest first, with optional filters
// @Tags Transactions
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param pageSize query int false "Items per page (max 200)" default(20)
// @Param type query string false "Filter by type" Enums(income, expense)
// @Param source query string false "Filter by source" Enums(manual, invoice_payment, purchase_order, recurring)
// @Param dateFrom query string false "Start of date range" format(date)
// @Param dateTo query string false "End of date range" format(date)
// @Success 200 {object} domain.PaginatedResponse{data=[]domain.TransactionDTO}
// @Failure 400 {object} domain.ErrorResponse
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /transactions [get]
func (h *TransactionHandler) List(w http.ResponseWriter, r *http.Request) {
	page, pageSize := parsePagination(r)
	q := r.URL.Query()

	filter := repository.TransactionFilter{
		Type:   domain.TransactionType(q.Get("type")),
		Source: domain.TransactionSource(q.Get("source")),
	}

	if raw := q.Get("dateFrom"); raw != "" {
		t, err := time.Parse("2006-01-02", raw)
		if err != nil {
			respondJSON(w, http.StatusBadRequest, domain.ErrorResponse{
				Error:   "Bad Request",
				Message: "dateFrom must be formatted as YYYY-MM-DD",
			})
			return
		}
		filter.DateFrom = &t
	}
	if raw := q.Get("dateTo"); raw != "" {
		t, err := time.Parse("2006-01-02", raw)
		if err != nil {
			respondJSON(w, http.StatusBadRequest, domain.ErrorResponse{
				Error:   "Bad Request",
				Message: "dateTo must be formatted as YYYY-MM-DD",
			})
			return
		}
		filter.DateTo = &t
	}

	transactions, total, err := h.transactionService.List(r.Context(), page, pageSize, filter)
	if err != nil {
		respondServiceError(w, h.logger, err, "list transactions")
		return
	}

	respondJSON(w, http.StatusOK, domain.NewPaginatedResponse(transactions, total, page, pageSize))
}

// Create godoc
// @Summary Record manual transaction
// @Description Append a manual income or expense record to the ledger
// @Tags Transactions
// @Accept json
// @Produce json
// @Param request body domain.CreateTransactionRequest true "Transaction data"
// @Success 201 {object} domain.TransactionDTO
// @Failure 400 {object} domain.ErrorResponse
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /transactions [post]
func (h *TransactionHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req domain.CreateTransactionRequest
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

	transaction, err := h.transactionService.Create(r.Context(), &req)
	if err != nil {
		respondServiceError(w, h.logger, err, "create transaction")
		return
	}

	respondJSON(w, http.StatusCreated, transaction)
}
