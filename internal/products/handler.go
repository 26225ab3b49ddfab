package products

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	validatorv10 "github.com/go-playground/validator/v10"

	"github.com/jyotishankarp/minishop/internal/validation"
)

type Handler struct {
	store    *Store
	validate *validatorv10.Validate
	logger   *slog.Logger
}

func NewHandler(store *Store, validate *validatorv10.Validate, logger *slog.Logger) *Handler {
	return &Handler{
		store:    store,
		validate: validate,
		logger:   logger,
	}
}

// Routes registers the product endpoints on mux, including the internal
// batch lookup used by the orders service.
func (h *Handler) Routes(mux *http.ServeMux) {
	mux.HandleFunc("POST /products", h.HandleCreate)
	mux.HandleFunc("GET /products", h.HandleList)
	mux.HandleFunc("GET /products/{id}", h.HandleGet)
	mux.HandleFunc("PUT /products/{id}", h.HandleUpdate)
	mux.HandleFunc("DELETE /products/{id}", h.HandleRemove)
	mux.HandleFunc("POST /products/by-ids", h.HandleGetByIDs)
}

type createProductRequest struct {
	Name        string  `json:"name" validate:"required,min=3,max=100"`
	Description string  `json:"description" validate:"required,min=10"`
	Price       float64 `json:"price" validate:"gte=0"`
	Stock       int     `json:"stock" validate:"gte=0"`
	Category    string  `json:"category" validate:"required,min=2"`
}

func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req createProductRequest
	if err := validation.DecodeAndValidate(h.validate, r, &req); err != nil {
		h.writeValidationError(w, err)
		return
	}

	product := h.store.Create(ProductFields{
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Stock:       req.Stock,
		Category:    req.Category,
	})

	h.logger.Info("product created", "product_id", product.ID, "name", product.Name)
	h.writeJSON(w, http.StatusCreated, product)
}

func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	products := h.store.List()
	h.logger.Info("products listed", "count", len(products))
	h.writeJSON(w, http.StatusOK, products)
}

func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	product, ok := h.store.Get(id)
	if !ok {
		h.writeError(w, http.StatusNotFound, "product not found")
		return
	}

	h.writeJSON(w, http.StatusOK, product)
}

type updateProductRequest struct {
	Name        *string  `json:"name" validate:"omitempty,min=3,max=100"`
	Description *string  `json:"description" validate:"omitempty,min=10"`
	Price       *float64 `json:"price" validate:"omitempty,gte=0"`
	Stock       *int     `json:"stock" validate:"omitempty,gte=0"`
	Category    *string  `json:"category" validate:"omitempty,min=2"`
}

func (h *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	var req updateProductRequest
	if err := validation.DecodeAndValidate(h.validate, r, &req); err != nil {
		h.writeValidationError(w, err)
		return
	}

	product, ok := h.store.Update(id, ProductPatch{
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Stock:       req.Stock,
		Category:    req.Category,
	})
	if !ok {
		h.writeError(w, http.StatusNotFound, "product not found")
		return
	}

	h.logger.Info("product updated", "product_id", product.ID)
	h.writeJSON(w, http.StatusOK, product)
}

func (h *Handler) HandleRemove(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	if !h.store.Remove(id) {
		h.writeError(w, http.StatusNotFound, "product not found")
		return
	}

	h.logger.Info("product removed", "product_id", id)
	h.writeJSON(w, http.StatusOK, map[string]bool{"deleted": true})
}

type getByIDsRequest struct {
	IDs []string `json:"ids"`
}

// HandleGetByIDs is the internal batch lookup. It returns only the products
// that exist; the caller compares lengths to detect unknown ids.
func (h *Handler) HandleGetByIDs(w http.ResponseWriter, r *http.Request) {
	var req getByIDsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	products := h.store.GetByIDs(req.IDs)
	h.writeJSON(w, http.StatusOK, products)
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
