package domain

import "time"

// OrderItem is a cart line item snapshot taken at submission time.
type OrderItem struct {
	ProductID string `json:"product_id"`
	Quantity  int64  `json:"quantity"`
	Size      string `json:"size,omitempty"`
}

// ShippingDetails is the customer-provided delivery information.
type ShippingDetails struct {
	Name       string `json:"name"`
	Email      string `json:"email"`
	Address    string `json:"address"`
	City       string `json:"city"`
	PostalCode string `json:"postal_code"`
	Country    string `json:"country"`
}

// Order is the submission payload sent to the order service. All amounts are
// in cents.
type Order struct {
	ID            string          `json:"id"`
	SessionID     string          `json:"session_id"`
	Items         []OrderItem     `json:"items"`
	Subtotal      int64           `json:"subtotal"`
	Shipping      int64           `json:"shipping"`
	Total         int64           `json:"total"`
	ShippingInfo  ShippingDetails `json:"shipping_info"`
	PaymentMethod string          `json:"payment_method"`
	CreatedAt     time.Time       `json:"created_at"`
}
