// Package pricing computes cart totals. All arithmetic is on int64 cents;
// the functions here are pure and take the catalog as input.
package pricing

import "github.com/abhinimbalkar96-spec/blak-website/internal/domain"

// ShippingCents is the flat shipping charge applied to every order.
const ShippingCents int64 = 1500

// Totals is a priced summary of a cart.
type Totals struct {
	Subtotal int64 `json:"subtotal"`
	Shipping int64 `json:"shipping"`
	Total    int64 `json:"total"`
}

// Line is a cart line item joined with its catalog product.
type Line struct {
	Item      domain.LineItem `json:"item"`
	Name      string          `json:"name"`
	UnitPrice int64           `json:"unit_price"`
	LineTotal int64           `json:"line_total"`
	ImageURL  string          `json:"image_url,omitempty"`
}

// Quote prices a cart against the catalog. Line items whose product is not in
// the catalog contribute nothing to the subtotal.
func Quote(items []domain.LineItem, catalog map[string]domain.Product) Totals {
	var subtotal int64
	for _, item := range items {
		p, ok := catalog[item.ProductID]
		if !ok {
			continue
		}
		subtotal += p.Price * int64(item.Quantity)
	}
	return Totals{
		Subtotal: subtotal,
		Shipping: ShippingCents,
		Total:    subtotal + ShippingCents,
	}
}

// Lines joins cart items with their catalog products. Items with no matching
// product are dropped from the result.
func Lines(items []domain.LineItem, catalog map[string]domain.Product) []Line {
	lines := make([]Line, 0, len(items))
	for _, item := range items {
		p, ok := catalog[item.ProductID]
		if !ok {
			continue
		}
		lines = append(lines, Line{
			Item:      item,
			Name:      p.Name,
			UnitPrice: p.Price,
			LineTotal: p.Price * int64(item.Quantity),
			ImageURL:  p.ImageURL,
		})
	}
	return lines
}
