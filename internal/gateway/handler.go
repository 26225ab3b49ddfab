package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"time"

	validatorv10 "github.com/go-playground/validator/v10"

	"github.com/jyotishankarp/minishop/internal/validation"
)

// DefaultOrderTimeout bounds how long the gateway waits on order creation.
const DefaultOrderTimeout = 10 * time.Second

type Handler struct {
	productsProxy *ServiceProxy
	ordersProxy   *ServiceProxy
	validate      *validatorv10.Validate
	orderTimeout  time.Duration
	logger        *slog.Logger
}

func NewHandler(productsProxy, ordersProxy *ServiceProxy, validate *validatorv10.Validate, orderTimeout time.Duration, logger *slog.Logger) *Handler {
	if orderTimeout <= 0 {
		orderTimeout = DefaultOrderTimeout
	}
	return &Handler{
		productsProxy: productsProxy,
		ordersProxy:   ordersProxy,
		validate:      validate,
		orderTimeout:  orderTimeout,
		logger:        logger,
	}
}

func (h *Handler) HandleProducts(w http.ResponseWriter, r *http.Request) {
	h.proxyRequest(w, r, h.productsProxy, r.URL.Path)
}

func (h *Handler) HandleOrders(w http.ResponseWriter, r *http.Request) {
	h.proxyRequest(w, r, h.ordersProxy, r.URL.Path)
}

// HandleCreateOrder validates the payload before dispatch and bounds the
// downstream call with a deadline. The deadline travels with the request
// context, so the downstream call is cancelled rather than left running
// behind a fired timer.
func (h *Handler) HandleCreateOrder(w http.ResponseWriter, r *http.Request) {
	var req validation.CreateOrderRequest
	if err := validation.DecodeAndValidate(h.validate, r, &req); err != nil {
		var verrs validation.Errors
		if errors.As(err, &verrs) {
			h.writeJSON(w, http.StatusBadRequest, map[string]any{
				"error":  "validation failed",
				"fields": verrs,
			})
			return
		}
		h.writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	body, err := json.Marshal(req)
	if err != nil {
		h.logger.Error("failed to marshal order request", "error", err)
		h.writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.orderTimeout)
	defer cancel()

	resp, err := h.ordersProxy.Send(ctx, http.MethodPost, "/orders", "application/json", bytes.NewReader(body))
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			h.logger.Error("order creation timed out", "timeout", h.orderTimeout, "request_id", requestID(r))
			h.writeError(w, http.StatusGatewayTimeout, "order creation timed out")
			return
		}
		h.logger.Error("failed to dispatch order creation", "error", err, "request_id", requestID(r))
		h.writeError(w, http.StatusBadGateway, "service unavailable")
		return
	}

	h.relay(w, r, resp, "/orders")
}

func (h *Handler) proxyRequest(w http.ResponseWriter, r *http.Request, proxy *ServiceProxy, path string) {
	resp, err := proxy.ForwardRequest(r.Context(), r, path)
	if err != nil {
		h.logger.Error("failed to forward request", "error", err, "path", path, "request_id", requestID(r))
		h.writeError(w, http.StatusBadGateway, "service unavailable")
		return
	}

	h.relay(w, r, resp, path)
}

func (h *Handler) relay(w http.ResponseWriter, r *http.Request, resp *http.Response, path string) {
	defer func() { _ = resp.Body.Close() }()

	if contentType := resp.Header.Get("Content-Type"); contentType != "" {
		w.Header().Set("Content-Type", contentType)
	}

	w.WriteHeader(resp.StatusCode)

	h.logger.Info("request proxied",
		"method", r.Method,
		"path", path,
		"status", resp.StatusCode,
		"request_id", requestID(r),
	)

	if _, err := io.Copy(w, resp.Body); err != nil {
		h.logger.Error("failed to copy response body", "error", err)
	}
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
