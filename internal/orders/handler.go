package orders

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	validatorv10 "github.com/go-playground/validator/v10"

	"github.com/jyotishankarp/minishop/internal/domain"
	"github.com/jyotishankarp/minishop/internal/validation"
)

type Handler struct {
	service  *Service
	validate *validatorv10.Validate
	logger   *slog.Logger
}

func NewHandler(service *Service, validate *validatorv10.Validate, logger *slog.Logger) *Handler {
	return &Handler{
		service:  service,
		validate: validate,
		logger:   logger,
	}
}

// Routes registers the order endpoints on mux.
func (h *Handler) Routes(mux *http.ServeMux) {
	mux.HandleFunc("POST /orders", h.HandleCreate)
	mux.HandleFunc("GET /orders", h.HandleList)
	mux.HandleFunc("GET /orders/{id}", h.HandleGet)
	mux.HandleFunc("PUT /orders/{id}", h.HandleUpdate)
	mux.HandleFunc("DELETE /orders/{id}", h.HandleRemove)
}

func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req validation.CreateOrderRequest
	if err := validation.DecodeAndValidate(h.validate, r, &req); err != nil {
		h.writeValidationError(w, err)
		return
	}

	items := make([]NewOrderItem, 0, len(req.Items))
	for _, item := range req.Items {
		items = append(items, NewOrderItem{ProductID: item.ProductID, Quantity: item.Quantity})
	}

	order, err := h.service.CreateOrder(r.Context(), items)
	if err != nil {
		if errors.Is(err, ErrProductsNotFound) {
			h.writeError(w, http.StatusBadRequest, ErrProductsNotFound.Error())
			return
		}
		h.logger.Error("failed to create order", "error", err)
		h.writeError(w, http.StatusBadGateway, "failed to resolve products")
		return
	}

	h.logger.Info("order created", "order_id", order.ID, "total_price", order.TotalPrice)
	h.writeJSON(w, http.StatusCreated, order)
}

func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	order, err := h.service.GetOrderWithProducts(r.Context(), id)
	if err != nil {
		if errors.Is(err, ErrOrderNotFound) {
			h.writeError(w, http.StatusNotFound, "order not found")
			return
		}
		h.logger.Error("failed to get order", "error", err, "order_id", id)
		h.writeError(w, http.StatusBadGateway, "failed to resolve products")
		return
	}

	h.writeJSON(w, http.StatusOK, order)
}

func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	orders, err := h.service.ListOrdersWithProducts(r.Context())
	if err != nil {
		h.logger.Error("failed to list orders", "error", err)
		h.writeError(w, http.StatusBadGateway, "failed to resolve products")
		return
	}

	h.logger.Info("orders listed", "count", len(orders))
	h.writeJSON(w, http.StatusOK, orders)
}

func (h *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	var req validation.UpdateOrderRequest
	if err := validation.DecodeAndValidate(h.validate, r, &req); err != nil {
		h.writeValidationError(w, err)
		return
	}

	order, err := h.service.UpdateOrderStatus(id, domain.OrderStatus(req.Status))
	if err != nil {
		if errors.Is(err, ErrOrderNotFound) {
			h.writeError(w, http.StatusNotFound, "order not found")
			return
		}
		if errors.Is(err, ErrInvalidTransition) {
			h.writeError(w, http.StatusConflict, err.Error())
			return
		}
		h.logger.Error("failed to update order", "error", err, "order_id", id)
		h.writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	h.logger.Info("order status updated", "order_id", order.ID, "status", order.Status)
	h.writeJSON(w, http.StatusOK, order)
}

func (h *Handler) HandleRemove(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	if !h.service.RemoveOrder(id) {
		h.writeError(w, http.StatusNotFound, "order not found")
		return
	}

	h.logger.Info("order removed", "order_id", id)
	h.writeJSON(w, http.StatusOK, map[string]bool{"deleted": true})
}

func (h *Handler) writeValidationError(w http.ResponseWriter, err error) {
	var verrs validation.Errors
	if errors.As(err, &verrs) {
		h.writeJSON(w, http.StatusBadRequest, map[string]any{
			"error":  "validation failed",
			"fields": verrs,
		})
		return
	}
	h.writeError(w, http.StatusBadRequest, err.Error())
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Error("failed to encode response", "error", err)
	}
}

func (h *Handler) writeError(w http.ResponseWriter, status int, message string) {
	h.writeJSON(w, status, map[string]string{"error": message})
}
