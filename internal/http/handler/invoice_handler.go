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

type InvoiceHandler struct {
	invoiceService *service.InvoiceService
	fileService    *service.FileService
	logger         *zap.Logger
}

func NewInvoiceHandler(invoiceService *service.InvoiceService, fileService *service.FileService, logger *zap.Logger) *InvoiceHandler {
	return &InvoiceHandler{
		invoiceService: invoiceService,
		fileService:    fileService,
		logger:         logger,
	}
}

func parseInvoiceID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondJSON(w, http.StatusBadRequest, domain.ErrorResponse{
			Error:   "Bad Request",
			Message: "Invalid invoice ID format",
		})
		return uuid.Nil, false
	}
	return id, true
}

// List godoc
// @Summary List invoices
// @Tags Invoices
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param pageSize query int false "Items per page (max 200)" default(20)
// @Param status query string false "Filter by status" Enums(draft, sent, partially_paid, paid)
// @Success 200 {object} domain.PaginatedResponse{data=[]domain.InvoiceDTO}
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /invoices [get]
func (h *InvoiceHandler) List(w http.ResponseWriter, r *http.Request) {
	page, pageSize := parsePagination(r)
	status := domain.InvoiceStatus(r.URL.Query().Get("status"))

	invoices, total, err := h.invoiceService.List(r.Context(), page, pageSize, status)
	if err != nil {
		respondServiceError(w, h.logger, err, "list invoices")
		return
	}

	respondJSON(w, http.StatusOK, domain.NewPaginatedResponse(invoices, total, page, pageSize))
}

// GetByID godoc
// @Summary Get invoice by ID
// @Description Get an invoice with its items and payment history
// @Tags Invoices
// @Produce json
// @Param id path string true "Invoice ID" format(uuid)
// @Success 200 {object} domain.InvoiceDTO
// @Failure 404 {object} domain.ErrorResponse
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /invoices/{id} [get]
func (h *InvoiceHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, ok := parseInvoiceID(w, r)
	if !ok {
		return
	}

	invoice, err := h.invoiceService.GetByID(r.Context(), id)
	if err != nil {
		respondServiceError(w, h.logger, err, "get invoice")
		return
	}

	respondJSON(w, http.StatusOK, invoice)
}

// Create godoc
// @Summary Create draft invoice
// @Description Create a draft invoice. Totals are computed server-side from the items.
// @Tags Invoices
// @Accept json
// @Produce json
// @Param request body domain.CreateInvoiceRequest true "Invoice data"
// @Success 201 {object} domain.InvoiceDTO
// @Failure 400 {object} domain.ErrorResponse
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /invoices [post]
func (h *InvoiceHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req domain.CreateInvoiceRequest
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

	invoice, err := h.invoiceService.Create(r.Context(), &req)
	if err != nil {
		respondServiceError(w, h.logger, err, "create invoice")
		return
	}

	w.Header().Set("Location", "/api/v1/invoices/"+invoice.ID.String())
	respondJSON(w, http.StatusCreated, invoice)
}

// Update godoc
// @Summary Update draft invoice
// @Description Replace the editable fields of a draft invoice. Posted invoices are locked.
// @Tags Invoices
// @Accept json
// @Produce json
// @Param id path string true "Invoice ID" format(uuid)
// @Param request body domain.UpdateInvoiceRequest true "Invoice data"
// @Success 200 {object} domain.InvoiceDTO
// @Failure 404 {object} domain.ErrorResponse
// @Failure 409 {object} domain.ErrorResponse "Invoice is posted"
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /invoices/{id} [put]
func (h *InvoiceHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := parseInvoiceID(w, r)
	if !ok {
		return
	}

	var req domain.UpdateInvoiceRequest
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

	invoice, err := h.invoiceService.Update(r.Context(), id, &req)
	if err != nil {
		respondServiceError(w, h.logger, err, "update invoice")
		return
	}

	respondJSON(w, http.StatusOK, invoice)
}

// Delete godoc
// @Summary Delete draft invoice
// @Tags Invoices
// @Param id path string true "Invoice ID" format(uuid)
// @Success 204 "No Content"
// @Failure 404 {object} domain.ErrorResponse
// @Failure 409 {object} domain.ErrorResponse "Invoice is posted"
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /invoices/{id} [delete]
func (h *InvoiceHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := parseInvoiceID(w, r)
	if !ok {
		return
	}

	if err := h.invoiceService.Delete(r.Context(), id); err != nil {
		respondServiceError(w, h.logger, err, "delete invoice")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Send godoc
// @Summary Post invoice
// @Description Post a draft invoice: assigns the invoice number, decrements stock for product lines, and marks it sent.
// @Tags Invoices
// @Produce json
// @Param id path string true "Invoice ID" format(uuid)
// @Success 200 {object} domain.InvoiceDTO
// @Failure 404 {object} domain.ErrorResponse
// @Failure 409 {object} domain.ErrorResponse "Invalid transition"
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /invoices/{id}/send [post]
func (h *InvoiceHandler) Send(w http.ResponseWriter, r *http.Request) {
	id, ok := parseInvoiceID(w, r)
	if !ok {
		return
	}

	invoice, err := h.invoiceService.Send(r.Context(), id)
	if err != nil {
		respondServiceError(w, h.logger, err, "post invoice")
		return
	}

	respondJSON(w, http.StatusOK, invoice)
}

// ApplyPayment godoc
// @Summary Apply payment
// @Description Apply a payment to a posted invoice. The balance and status update atomically with the income record.
// @Tags Invoices
// @Accept json
// @Produce json
// @Param id path string true "Invoice ID" format(uuid)
// @Param request body domain.ApplyPaymentRequest true "Payment data"
// @Success 200 {object} domain.InvoiceDTO
// @Failure 400 {object} domain.ErrorResponse "Amount invalid or exceeds balance"
// @Failure 404 {object} domain.ErrorResponse
// @Failure 409 {object} domain.ErrorResponse "Invoice not posted or already paid"
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /invoices/{id}/payments [post]
func (h *InvoiceHandler) ApplyPayment(w http.ResponseWriter, r *http.Request) {
	id, ok := parseInvoiceID(w, r)
	if !ok {
		return
	}

	var req domain.ApplyPaymentRequest
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

	invoice, err := h.invoiceService.ApplyPayment(r.Context(), id, &req)
	if err != nil {
		respondServiceError(w, h.logger, err, "apply payment")
		return
	}

	respondJSON(w, http.StatusOK, invoice)
}

// ListPayments godoc
// @Summary List invoice payments
// @Tags Invoices
// @Produce json
// @Param id path string true "Invoice ID" format(uuid)
// @Success 200 {array} domain.PaymentDTO
// @Failure 404 {object} domain.ErrorResponse
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /invoices/{id}/payments [get]
func (h *InvoiceHandler) ListPayments(w http.ResponseWriter, r *http.Request) {
	id, ok := parseInvoiceID(w, r)
	if !ok {
		return
	}

	payments, err := h.invoiceService.ListPayments(r.Context(), id)
	if err != nil {
		respondServiceError(w, h.logger, err, "list payments")
		return
	}

	respondJSON(w, http.StatusOK, payments)
}

// SendByEmail godoc
// @Summary Email invoice
// @Description Render the invoice document, archive it and email it to the recipient
// @Tags Invoices
// @Accept json
// @Produce json
// @Param id path string true "Invoice ID" format(uuid)
// @Param request body domain.SendInvoiceEmailRequest true "Email data"
// @Success 200 {object} domain.FileDTO
// @Failure 400 {object} domain.ErrorResponse "Invoice not posted"
// @Failure 404 {object} domain.ErrorResponse
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /invoices/{id}/email [post]
func (h *InvoiceHandler) SendByEmail(w http.ResponseWriter, r *http.Request) {
	id, ok := parseInvoiceID(w, r)
	if !ok {
		return
	}

	var req domain.SendInvoiceEmailRequest
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

	file, err := h.invoiceService.SendByEmail(r.Context(), id, &req)
	if err != nil {
		respondServiceError(w, h.logger, err, "email invoice")
		return
	}

	respondJSON(w, http.StatusOK, file)
}

// ListFiles godoc
// @Summary List invoice documents
// @Tags Invoices
// @Produce json
// @Param id path string true "Invoice ID" format(uuid)
// @Success 200 {array} domain.FileDTO
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /invoices/{id}/files [get]
func (h *InvoiceHandler) ListFiles(w http.ResponseWriter, r *http.Request) {
	id, ok := parseInvoiceID(w, r)
	if !ok {
		return
	}

	files, err := h.fileService.ListByInvoice(r.Context(), id)
	if err != nil {
		respondServiceError(w, h.logger, err, "list invoice documents")
		return
	}

	respondJSON(w, http.StatusOK, files)
}
