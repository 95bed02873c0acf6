package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/abhinimbalkar96-spec/blak-website/internal/catalog"
	"github.com/abhinimbalkar96-spec/blak-website/internal/domain"
	"github.com/abhinimbalkar96-spec/blak-website/pkg/httputil"
	"github.com/abhinimbalkar96-spec/blak-website/pkg/validator"
)

// ProductHandler serves the catalog read endpoint and the admin mutations,
// proxying to the product service and keeping the local cache coherent.
type ProductHandler struct {
	client *catalog.Client
	cache  *catalog.Cache
	logger *slog.Logger
}

func NewProductHandler(client *catalog.Client, cache *catalog.Cache, logger *slog.Logger) *ProductHandler {
	return &ProductHandler{client: client, cache: cache, logger: logger}
}

// List returns the catalog from the local cache.
func (h *ProductHandler) List(w http.ResponseWriter, r *http.Request) {
	products, err := h.cache.Products(r.Context())
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: products})
}

type productRequest struct {
	Name     string   `json:"name" validate:"required"`
	Price    int64    `json:"price" validate:"gte=0"`
	Stock    int      `json:"stock" validate:"gte=0"`
	Category string   `json:"category"`
	Sizes    []string `json:"sizes"`
	ImageURL string   `json:"image_url"`
}

func (r productRequest) toDomain(id string) domain.Product {
	return domain.Product{
		ID:       id,
		Name:     r.Name,
		Price:    r.Price,
		Stock:    r.Stock,
		Category: r.Category,
		Sizes:    r.Sizes,
		ImageURL: r.ImageURL,
	}
}

// Create adds a product to the catalog.
func (h *ProductHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req productRequest
	if err := validator.DecodeAndValidate(r, &req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	created, err := h.client.CreateProduct(r.Context(), req.toDomain(""))
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	h.cache.Invalidate()
	httputil.WriteJSON(w, http.StatusCreated, httputil.Response{Data: created})
}

// Update replaces a product's catalog entry.
func (h *ProductHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req productRequest
	if err := validator.DecodeAndValidate(r, &req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	updated, err := h.client.UpdateProduct(r.Context(), req.toDomain(id))
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	h.cache.Invalidate()
	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: updated})
}

// Delete removes a product from the catalog.
func (h *ProductHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := h.client.DeleteProduct(r.Context(), id); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	h.cache.Invalidate()
	w.WriteHeader(http.StatusNoContent)
}

// A zero delta is a valid no-op, so the field carries no required tag.
type adjustStockRequest struct {
	Delta int `json:"delta"`
}

// AdjustStock changes a product's stock level by a signed delta.
func (h *ProductHandler) AdjustStock(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req adjustStockRequest
	if err := validator.DecodeAndValidate(r, &req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	updated, err := h.client.AdjustStock(r.Context(), id, req.Delta)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	h.cache.Invalidate()
	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: updated})
}
