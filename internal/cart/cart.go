// Package cart holds the per-session shopping cart and its save-for-later list.
package cart

import (
	"slices"

	"github.com/shopspring/decimal"

	"github.com/tair/lumina-storefront/internal/catalog/domain"
)

// LineItem is a product in the cart or saved list with its quantity.
type LineItem struct {
	domain.Product
	Quantity int `json:"quantity"`
}

// Subtotal is price times quantity for one line.
func (l LineItem) Subtotal() decimal.Decimal {
	return decimal.NewFromFloat(l.Price).Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// Cart is the cart and saved list of one session. It is not safe for
// concurrent use; the owning session state serialises access.
type Cart struct {
	items []LineItem
	saved []LineItem
	open  bool
}

func New() *Cart {
	return &Cart{items: []LineItem{}, saved: []LineItem{}}
}

// Add puts qty units of product in the cart, merging with an existing line
// of the same product. qty below 1 counts as 1. The cart view opens.
func (c *Cart) Add(product domain.Product, qty int) {
	qty = max(qty, 1)
	if i := indexOf(c.items, product.ID); i >= 0 {
		c.items[i].Quantity += qty
	} else {
		c.items = append(c.items, LineItem{Product: product, Quantity: qty})
	}
	c.open = true
}

// Remove drops a line from the cart. Unknown ids are a no-op.
func (c *Cart) Remove(id uint) bool {
	n := len(c.items)
	c.items = slices.DeleteFunc(c.items, func(l LineItem) bool { return l.ID == id })
	return len(c.items) != n
}

// UpdateQuantity adds delta to a line's quantity, never going below 1.
func (c *Cart) UpdateQuantity(id uint, delta int) (int, bool) {
	i := indexOf(c.items, id)
	if i < 0 {
		return 0, false
	}
	c.items[i].Quantity = max(1, c.items[i].Quantity+delta)
	return c.items[i].Quantity, true
}

// SaveForLater moves a cart line to the saved list with its quantity. If the
// product is already saved the saved copy wins and the cart line is dropped.
func (c *Cart) SaveForLater(id uint) (LineItem, bool) {
	i := indexOf(c.items, id)
	if i < 0 {
		return LineItem{}, false
	}
	item := c.items[i]
	c.items = slices.Delete(c.items, i, i+1)
	if indexOf(c.saved, id) < 0 {
		c.saved = append(c.saved, item)
	}
	return item, true
}

// MoveToCart takes a product off the saved list and adds one unit of it to
// the cart with Add semantics.
func (c *Cart) MoveToCart(id uint) (LineItem, bool) {
	i := indexOf(c.saved, id)
	if i < 0 {
		return LineItem{}, false
	}
	item := c.saved[i]
	c.saved = slices.Delete(c.saved, i, i+1)
	c.Add(item.Product, 1)
	return item, true
}

// RemoveSaved drops a product from the saved list.
func (c *Cart) RemoveSaved(id uint) bool {
	n := len(c.saved)
	c.saved = slices.DeleteFunc(c.saved, func(l LineItem) bool { return l.ID == id })
	return len(c.saved) != n
}

// Count is the total number of units in the cart, saved items excluded.
func (c *Cart) Count() int {
	total := 0
	for _, l := range c.items {
		total += l.Quantity
	}
	return total
}

// Subtotal is the exact sum of price times quantity over cart lines.
func (c *Cart) Subtotal() decimal.Decimal {
	total := decimal.Zero
	for _, l := range c.items {
		total = total.Add(l.Subtotal())
	}
	return total
}

func (c *Cart) Items() []LineItem { return slices.Clone(c.items) }

func (c *Cart) Saved() []LineItem { return slices.Clone(c.saved) }

func (c *Cart) IsOpen() bool { return c.open }

// SetOpen shows or hides the cart view.
func (c *Cart) SetOpen(open bool) { c.open = open }

// Snapshot is the JSON view of a cart.
type Snapshot struct {
	Items    []LineItem      `json:"items"`
	Saved    []LineItem      `json:"saved"`
	Count    int             `json:"count"`
	Subtotal decimal.Decimal `json:"subtotal"`
	Open     bool            `json:"open"`
}

func (c *Cart) Snapshot() Snapshot {
	return Snapshot{
		Items:    c.Items(),
		Saved:    c.Saved(),
		Count:    c.Count(),
		Subtotal: c.Subtotal(),
		Open:     c.open,
	}
}

func indexOf(lines []LineItem, id uint) int {
	return slices.IndexFunc(lines, func(l LineItem) bool { return l.ID == id })
}
