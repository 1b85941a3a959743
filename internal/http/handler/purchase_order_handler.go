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

type PurchaseOrderHandler struct {
	orderService *service.PurchaseOrderService
	logger       *zap.Logger
}

func NewPurchaseOrderHandler(orderService *service.PurchaseOrderService, logger *zap.Logger) *PurchaseOrderHandler {
	return &PurchaseOrderHandler{
		orderService: orderService,
		logger:       logger,
	}
}

func parseOrderID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondJSON(w, http.StatusBadRequest, domain.ErrorResponse{
			Error:   "Bad Request",
			Message: "Invalid purchase order ID format",
		})
		return uuid.Nil, false
	}
	return id, true
}

// List godoc
// @Summary List purchase orders
// @Tags PurchaseOrders
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param pageSize query int false "Items per page (max 200)" default(20)
// @Param status query string false "Filter by status" Enums(draft, ordered, received, cancelled)
// @Success 200 {object} domain.PaginatedResponse{data=[]domain.PurchaseOrderDTO}
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /purchase-orders [get]
func (h *PurchaseOrderHandler) List(w http.ResponseWriter, r *http.Request) {
	page, pageSize := parsePagination(r)
	status := domain.PurchaseOrderStatus(r.URL.Query().Get("status"))

	orders, total, err := h.orderService.List(r.Context(), page, pageSize, status)
	if err != nil {
		respondServiceError(w, h.logger, err, "list purchase orders")
		return
	}

	respondJSON(w, http.StatusOK, domain.NewPaginatedResponse(orders, total, page, pageSize))
}

// GetByID godoc
// @Summary Get purchase order by ID
// @Tags PurchaseOrders
// @Produce json
// @Param id path string true "Purchase order ID" format(uuid)
// @Success 200 {object} domain.PurchaseOrderDTO
// @Failure 404 {object} domain.ErrorResponse
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /purchase-orders/{id} [get]
func (h *PurchaseOrderHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, ok := parseOrderID(w, r)
	if !ok {
		return
	}

	order, err := h.orderService.GetByID(r.Context(), id)
	if err != nil {
		respondServiceError(w, h.logger, err, "get purchase order")
		return
	}

	respondJSON(w, http.StatusOK, order)
}

// Create godoc
// @Summary Create draft purchase order
// @Tags PurchaseOrders
// @Accept json
// @Produce json
// @Param request body domain.CreatePurchaseOrderRequest true "Purchase order data"
// @Success 201 {object} domain.PurchaseOrderDTO
// @Failure 400 {object} domain.ErrorResponse
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /purchase-orders [post]
func (h *PurchaseOrderHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req domain.CreatePurchaseOrderRequest
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

	order, err := h.orderService.Create(r.Context(), &req)
	if err != nil {
		respondServiceError(w, h.logger, err, "create purchase order")
		return
	}

	w.Header().Set("Location", "/api/v1/purchase-orders/"+order.ID.String())
	respondJSON(w, http.StatusCreated, order)
}

// Update godoc
// @Summary Update draft purchase order
// @Tags PurchaseOrders
// @Accept json
// @Produce json
// @Param id path string true "Purchase order ID" format(uuid)
// @Param request body domain.UpdatePurchaseOrderRequest true "Purchase order data"
// @Success 200 {object} domain.PurchaseOrderDTO
// @Failure 404 {object} domain.ErrorResponse
// @Failure 409 {object} domain.ErrorResponse "Order is posted"
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /purchase-orders/{id} [put]
func (h *PurchaseOrderHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := parseOrderID(w, r)
	if !ok {
		return
	}

	var req domain.UpdatePurchaseOrderRequest
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

	order, err := h.orderService.Update(r.Context(), id, &req)
	if err != nil {
		respondServiceError(w, h.logger, err, "update purchase order")
		return
	}

	respondJSON(w, http.StatusOK, order)
}

// Delete godoc
// @Summary Delete draft purchase order
// @Tags PurchaseOrders
// @Param id path string true "Purchase order ID" format(uuid)
// @Success 204 "No Content"
// @Failure 404 {object} domain.ErrorResponse
// @Failure 409 {object} domain.ErrorResponse "Order is posted"
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /purchase-orders/{id} [delete]
func (h *PurchaseOrderHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := parseOrderID(w, r)
	if !ok {
		return
	}

	if err := h.orderService.Delete(r.Context(), id); err != nil {
		respondServiceError(w, h.logger, err, "delete purchase order")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// MarkOrdered godoc
// @Summary Place purchase order
// @Description Post a draft purchase order: assigns the order number and marks it ordered
// @Tags PurchaseOrders
// @Produce json
// @Param id path string true "Purchase order ID" format(uuid)
// @Success 200 {object} domain.PurchaseOrderDTO
// @Failure 404 {object} domain.ErrorResponse
// @Failure 409 {object} domain.ErrorResponse "Invalid transition"
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /purchase-orders/{id}/order [post]
func (h *PurchaseOrderHandler) MarkOrdered(w http.ResponseWriter, r *http.Request) {
	id, ok := parseOrderID(w, r)
	if !ok {
		return
	}

	order, err := h.orderService.MarkOrdered(r.Context(), id)
	if err != nil {
		respondServiceError(w, h.logger, err, "place purchase order")
		return
	}

	respondJSON(w, http.StatusOK, order)
}

// Receive godoc
// @Summary Receive purchase order
// @Description Mark the goods as received: increments stock for product lines and records the expense
// @Tags PurchaseOrders
// @Produce json
// @Param id path string true "Purchase order ID" format(uuid)
// @Success 200 {object} domain.PurchaseOrderDTO
// @Failure 404 {object} domain.ErrorResponse
// @Failure 409 {object} domain.ErrorResponse "Invalid transition"
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /purchase-orders/{id}/receive [post]
func (h *PurchaseOrderHandler) Receive(w http.ResponseWriter, r *http.Request) {
	id, ok := parseOrderID(w, r)
	if !ok {
		return
	}

	order, err := h.orderService.Receive(r.Context(), id)
	if err != nil {
		respondServiceError(w, h.logger, err, "receive purchase order")
		return
	}

	respondJSON(w, http.StatusOK, order)
}

// Cancel godoc
// @Summary Cancel purchase order
// @Tags PurchaseOrders
// @Produce json
// @Param id path string true "Purchase order ID" format(uuid)
// @Success 200 {object} domain.PurchaseOrderDTO
// @Failure 404 {object} domain.ErrorResponse
// @Failure 409 {object} domain.ErrorResponse "Invalid transition"
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /purchase-orders/{id}/cancel [post]
func (h *PurchaseOrderHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	id, ok := parseOrderID(w, r)
	if !ok {
		return
	}

	order, err := h.orderService.Cancel(r.Context(), id)
	if err != nil {
		respondServiceError(w, h.logger, err, "cancel purchase order")
		return
	}

	respondJSON(w, http.StatusOK, order)
}
