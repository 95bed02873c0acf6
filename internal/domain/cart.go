package domain

// LineItem is one (product, size) entry in a cart with an associated quantity.
// The (ProductID, Size) pair is the item's identity: at most one LineItem per
// pair exists in a cart at any time. Size is empty for products without
// variants, and an empty size is a distinct identity from any named size.
type LineItem struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
	Size      string `json:"size,omitempty"`
}

// FindLineIndex returns the index of the line item matching the given product
// ID and size, or -1 if not found.
func FindLineIndex(items []LineItem, productID, size string) int {
	for i := range items {
		if items[i].ProductID == productID && items[i].Size == size {
			return i
		}
	}
	return -1
}

// ItemCount returns the total quantity across all line items.
func ItemCount(items []LineItem) int {
	var count int
	for _, item := range items {
		count += item.Quantity
	}
	return count
}

// CloneItems returns a copy of the line item slice. Callers hand out clones so
// the store's internal state cannot be mutated through a read view.
func CloneItems(items []LineItem) []LineItem {
	out := make([]LineItem, len(items))
	copy(out, items)
	return out
}
