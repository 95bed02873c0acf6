// Package checkout turns a session's cart into an order submission.
package checkout

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/abhinimbalkar96-spec/blak-website/internal/cart"
	"github.com/abhinimbalkar96-spec/blak-website/internal/catalog"
	"github.com/abhinimbalkar96-spec/blak-website/internal/domain"
	"github.com/abhinimbalkar96-spec/blak-website/internal/event"
	"github.com/abhinimbalkar96-spec/blak-website/internal/pricing"
	apperrors "github.com/abhinimbalkar96-spec/blak-website/pkg/errors"
	"github.com/abhinimbalkar96-spec/blak-website/pkg/httpclient"
	"github.com/abhinimbalkar96-spec/blak-website/pkg/validator"
)

const orderServiceName = "order-service"

// ShippingForm is the customer-provided checkout form. All fields are
// required; Email must additionally be well-formed.
type ShippingForm struct {
	Name       string `json:"name" validate:"required"`
	Email      string `json:"email" validate:"required,email"`
	Address    string `json:"address" validate:"required"`
	City       string `json:"city" validate:"required"`
	PostalCode string `json:"postal_code" validate:"required"`
	Country    string `json:"country" validate:"required"`
}

// trimmed returns the form with surrounding whitespace stripped from every
// field, so "   " fails the required check.
func (f ShippingForm) trimmed() ShippingForm {
	return ShippingForm{
		Name:       strings.TrimSpace(f.Name),
		Email:      strings.TrimSpace(f.Email),
		Address:    strings.TrimSpace(f.Address),
		City:       strings.TrimSpace(f.City),
		PostalCode: strings.TrimSpace(f.PostalCode),
		Country:    strings.TrimSpace(f.Country),
	}
}

// Result is returned to the caller on a successful submission.
type Result struct {
	OrderID string         `json:"order_id"`
	Totals  pricing.Totals `json:"totals"`
}

// Service submits orders built from the cart store. At most one submission
// per session may be in flight at a time.
type Service struct {
	store    *cart.Store
	catalog  *catalog.Cache
	orders   *httpclient.CircuitBreakerClient
	orderURL string
	events   *event.Producer
	logger   *slog.Logger

	mu       sync.Mutex
	inFlight map[string]bool
}

func NewService(store *cart.Store, cat *catalog.Cache, orders *httpclient.CircuitBreakerClient, orderURL string, events *event.Producer, logger *slog.Logger) *Service {
	return &Service{
		store:    store,
		catalog:  cat,
		orders:   orders,
		orderURL: orderURL,
		events:   events,
		logger:   logger,
		inFlight: make(map[string]bool),
	}
}

// Submit validates the form, prices the cart at submission time, and posts
// the order to the order service. The cart is cleared only after the order
// service accepts; any failure leaves it untouched so the customer can retry.
func (s *Service) Submit(ctx context.Context, sessionID string, form ShippingForm, paymentMethod string) (Result, error) {
	form = form.trimmed()
	if err := validator.Validate(form); err != nil {
		return Result{}, err
	}

	items := s.store.Items(ctx, sessionID)
	if len(items) == 0 {
		return Result{}, apperrors.InvalidInput("cart is empty")
	}

	if !s.acquire(sessionID) {
		return Result{}, apperrors.Conflict("checkout already in progress")
	}
	defer s.release(sessionID)

	idx, err := s.catalog.Index(ctx)
	if err != nil {
		return Result{}, fmt.Errorf("price cart: %w", err)
	}
	totals := pricing.Quote(items, idx)

	order := buildOrder(sessionID, items, totals, form, paymentMethod)
	orderID, err := s.postOrder(ctx, order)
	if err != nil {
		return Result{}, err
	}

	if err := s.store.Clear(ctx, sessionID); err != nil {
		// The order is already placed; a mirror failure here must not
		// fail the checkout.
		s.logger.Warn("clear cart after checkout failed", "session_id", sessionID, "error", err)
	}

	order.ID = orderID
	s.events.OrderSubmitted(order)
	return Result{OrderID: orderID, Totals: totals}, nil
}

func (s *Service) acquire(sessionID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.inFlight[sessionID] {
		return false
	}
	s.inFlight[sessionID] = true
	return true
}

func (s *Service) release(sessionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.inFlight, sessionID)
}

func buildOrder(sessionID string, items []domain.LineItem, totals pricing.Totals, form ShippingForm, paymentMethod string) domain.Order {
	orderItems := make([]domain.OrderItem, 0, len(items))
	for _, item := range items {
		orderItems = append(orderItems, domain.OrderItem{
			ProductID: item.ProductID,
			Quantity:  int64(item.Quantity),
			Size:      item.Size,
		})
	}
	return domain.Order{
		ID:        uuid.New().String(),
		SessionID: sessionID,
		Items:     orderItems,
		Subtotal:  totals.Subtotal,
		Shipping:  totals.Shipping,
		Total:     totals.Total,
		ShippingInfo: domain.ShippingDetails{
			Name:       form.Name,
			Email:      form.Email,
			Address:    form.Address,
			City:       form.City,
			PostalCode: form.PostalCode,
			Country:    form.Country,
		},
		PaymentMethod: paymentMethod,
		CreatedAt:     time.Now().UTC(),
	}
}

type orderResponse struct {
	Data struct {
		ID string `json:"id"`
	} `json:"data"`
}

// postOrder submits the order and returns the order service's ID for it. If
// the service accepts but returns no ID, the locally generated one stands.
func (s *Service) postOrder(ctx context.Context, order domain.Order) (string, error) {
	body, err := json.Marshal(order)
	if err != nil {
		return "", fmt.Errorf("marshal order: %w", err)
	}

	resp, err := s.orders.Post(ctx, s.orderURL+"/api/v1/orders", "application/json", bytes.NewReader(body))
	if err != nil {
		if errors.Is(err, httpclient.ErrCircuitOpen) {
			return "", apperrors.ServiceUnavailable("order service unavailable")
		}
		return "", fmt.Errorf("submit order: %w", err)
	}
	if resp.StatusCode != http.StatusCreated && resp.StatusCode != http.StatusOK {
		return "", httpclient.ParseResponseError(resp, orderServiceName)
	}
	defer resp.Body.Close()

	var out orderResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil || out.Data.ID == "" {
		return order.ID, nil
	}
	return out.Data.ID, nil
}
