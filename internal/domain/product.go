package domain

// Product is a catalog entry. Price is in cents to keep arithmetic exact.
type Product struct {
	ID       string   `json:"id"`
	Name     string   `json:"name"`
	Price    int64    `json:"price"`
	Stock    int      `json:"stock"`
	Category string   `json:"category,omitempty"`
	Sizes    []string `json:"sizes,omitempty"`
	ImageURL string   `json:"image_url,omitempty"`
}

// ProductIndex builds a lookup from product ID to product.
func ProductIndex(products []Product) map[string]Product {
	idx := make(map[string]Product, len(products))
	for _, p := range products {
		idx[p.ID] = p
	}
	return idx
}
