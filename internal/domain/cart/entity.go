// internal/domain/cart/entity.go
package cart

import "time"

// CartItem is a line in a cart. Items are keyed by BookID; title and
// price are snapshots for display and are re-resolved at checkout.
type CartItem struct {
	BookID         uint   `json:"book_id"`
	Title          string `json:"title"`
	UnitPriceCents int64  `json:"unit_price_cents"`
	Quantity       int    `json:"quantity"`
	CoverURL       string `json:"cover_url,omitempty"`
}

// Cart is the serialized cart stored in Redis, one blob per user or
// guest session.
type Cart struct {
	Items     []CartItem `json:"items"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// TotalCents returns the price per line
func (i *CartItem) TotalCents() int64 {
	return i.UnitPriceCents * int64(i.Quantity)
}

// Add merges an item into the cart. If a line with the same BookID
// already exists, its quantity is increased; display fields are
// refreshed from the incoming item.
func (c *Cart) Add(item CartItem) {
	if item.Quantity <= 0 {
		item.Quantity = 1
	}
	for idx := range c.Items {
		if c.Items[idx].BookID == item.BookID {
			c.Items[idx].Quantity += item.Quantity
			c.Items[idx].Title = item.Title
			c.Items[idx].UnitPriceCents = item.UnitPriceCents
			c.Items[idx].CoverURL = item.CoverURL
			c.UpdatedAt = time.Now().UTC()
			return
		}
	}
	c.Items = append(c.Items, item)
	c.UpdatedAt = time.Now().UTC()
}

// UpdateQuantity sets the quantity of a line. A quantity of zero or
// less removes the line. Returns false if no line matches.
func (c *Cart) UpdateQuantity(bookID uint, quantity int) bool {
	for idx := range c.Items {
		if c.Items[idx].BookID == bookID {
			if quantity <= 0 {
				c.Items = append(c.Items[:idx], c.Items[idx+1:]...)
			} else {
				c.Items[idx].Quantity = quantity
			}
			c.UpdatedAt = time.Now().UTC()
			return true
		}
	}
	return false
}

// Remove deletes a line by book ID. Returns false if no line matches.
func (c *Cart) Remove(bookID uint) bool {
	for idx := range c.Items {
		if c.Items[idx].BookID == bookID {
			c.Items = append(c.Items[:idx], c.Items[idx+1:]...)
			c.UpdatedAt = time.Now().UTC()
			return true
		}
	}
	return false
}

// Clear empties the cart
func (c *Cart) Clear() {
	c.Items = nil
	c.UpdatedAt = time.Now().UTC()
}

// TotalCents returns the cart total
func (c *Cart) TotalCents() int64 {
	var total int64
	for idx := range c.Items {
		total += c.Items[idx].TotalCents()
	}
	return total
}

// ItemCount returns the total number of units across all lines
func (c *Cart) ItemCount() int {
	var count int
	for idx := range c.Items {
		count += c.Items[idx].Quantity
	}
	return count
}

// IsEmpty reports whether the cart has no lines
func (c *Cart) IsEmpty() bool {
	return len(c.Items) == 0
}
