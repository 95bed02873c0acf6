package http

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/abhinimbalkar96-spec/blak-website/internal/cart"
	"github.com/abhinimbalkar96-spec/blak-website/internal/catalog"
	"github.com/abhinimbalkar96-spec/blak-website/internal/domain"
	"github.com/abhinimbalkar96-spec/blak-website/internal/pricing"
	"github.com/abhinimbalkar96-spec/blak-website/pkg/httputil"
	"github.com/abhinimbalkar96-spec/blak-website/pkg/validator"
)

// CartHandler serves the session cart endpoints.
type CartHandler struct {
	store   *cart.Store
	catalog *catalog.Cache
	logger  *slog.Logger
}

func NewCartHandler(store *cart.Store, cat *catalog.Cache, logger *slog.Logger) *CartHandler {
	return &CartHandler{store: store, catalog: cat, logger: logger}
}

// cartView is the priced cart summary returned by every cart endpoint.
type cartView struct {
	Items     []pricing.Line `json:"items"`
	ItemCount int            `json:"item_count"`
	Totals    pricing.Totals `json:"totals"`
}

func (h *CartHandler) view(r *http.Request, items []domain.LineItem) (cartView, error) {
	idx, err := h.catalog.Index(r.Context())
	if err != nil {
		return cartView{}, fmt.Errorf("price cart: %w", err)
	}
	return cartView{
		Items:     pricing.Lines(items, idx),
		ItemCount: domain.ItemCount(items),
		Totals:    pricing.Quote(items, idx),
	}, nil
}

func (h *CartHandler) respond(w http.ResponseWriter, r *http.Request, items []domain.LineItem) {
	view, err := h.view(r, items)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: view})
}

// Get returns the priced cart for the session.
func (h *CartHandler) Get(w http.ResponseWriter, r *http.Request) {
	items := h.store.Items(r.Context(), sessionFromContext(r.Context()))
	h.respond(w, r, items)
}

type addItemRequest struct {
	ProductID string `json:"product_id" validate:"required"`
	Size      string `json:"size"`
}

// AddItem adds one unit of a product to the cart.
func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	var req addItemRequest
	if err := validator.DecodeAndValidate(r, &req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	items := h.store.AddItem(r.Context(), sessionFromContext(r.Context()), req.ProductID, req.Size)
	h.respond(w, r, items)
}

type updateItemRequest struct {
	Quantity int    `json:"quantity"`
	Size     string `json:"size"`
}

// UpdateItem sets the quantity of a line item. A quantity of zero or less
// removes it.
func (h *CartHandler) UpdateItem(w http.ResponseWriter, r *http.Request) {
	productID := chi.URLParam(r, "productID")

	var req updateItemRequest
	if err := validator.DecodeAndValidate(r, &req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	items := h.store.UpdateQuantity(r.Context(), sessionFromContext(r.Context()), productID, req.Size, req.Quantity)
	h.respond(w, r, items)
}

// RemoveItem deletes a line item. The size, if any, comes from the query
// string so variants can be targeted.
func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	productID := chi.URLParam(r, "productID")
	size := r.URL.Query().Get("size")

	items := h.store.RemoveItem(r.Context(), sessionFromContext(r.Context()), productID, size)
	h.respond(w, r, items)
}

// Clear empties the cart.
func (h *CartHandler) Clear(w http.ResponseWriter, r *http.Request) {
	if err := h.store.Clear(r.Context(), sessionFromContext(r.Context())); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	h.respond(w, r, nil)
}
