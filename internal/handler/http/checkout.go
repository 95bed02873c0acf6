package http

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/abhinimbalkar96-spec/blak-website/internal/checkout"
	"github.com/abhinimbalkar96-spec/blak-website/pkg/httputil"
	"github.com/abhinimbalkar96-spec/blak-website/pkg/validator"
)

// CheckoutHandler serves order submission.
type CheckoutHandler struct {
	service *checkout.Service
	logger  *slog.Logger
}

func NewCheckoutHandler(service *checkout.Service, logger *slog.Logger) *CheckoutHandler {
	return &CheckoutHandler{service: service, logger: logger}
}

type checkoutRequest struct {
	Shipping      checkout.ShippingForm `json:"shipping"`
	PaymentMethod string                `json:"payment_method"`
}

// Submit places an order from the session's cart.
func (h *CheckoutHandler) Submit(w http.ResponseWriter, r *http.Request) {
	// The shipping form is validated by the checkout service after it has
	// been trimmed, so only decode here.
	var req checkoutRequest
	if err := validator.Decode(r, &req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}
	if req.PaymentMethod == "" {
		req.PaymentMethod = "card"
	}

	result, err := h.service.Submit(r.Context(), sessionFromContext(r.Context()), req.Shipping, req.PaymentMethod)
	if err != nil {
		var verr *validator.ValidationError
		if errors.As(err, &verr) {
			httputil.WriteValidationError(w, err)
			return
		}
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, httputil.Response{Data: result})
}
