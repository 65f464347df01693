package profile

import (
	"github.com/shopspring/decimal"

	"github.com/tair/lumina-storefront/internal/cart"
	"github.com/tair/lumina-storefront/internal/catalog/domain"
)

// OrderStatus is the fulfilment state of an order.
type OrderStatus string

const (
	OrderDelivered  OrderStatus = "Delivered"
	OrderProcessing OrderStatus = "Processing"
	OrderShipped    OrderStatus = "Shipped"
	OrderCancelled  OrderStatus = "Cancelled"
)

type Order struct {
	ID     string          `json:"id"`
	Date   string          `json:"date"`
	Total  decimal.Decimal `json:"total"`
	Status OrderStatus     `json:"status"`
	Items  []cart.LineItem `json:"items"`
}

// Order history is mocked; these counts stand in for orders and accounts
// that predate the sample data.
const (
	ArchivedOrders   = 124
	ArchivedAccounts = 45
	DemoAccounts     = 2
)

// SeedOrders builds the sample order history from the catalog.
func SeedOrders(products []domain.Product) []Order {
	byID := make(map[uint]domain.Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}
	line := func(id uint) cart.LineItem {
		return cart.LineItem{Product: byID[id], Quantity: 1}
	}

	return []Order{
		{ID: "ORD-7721-XJ", Date: "Oct 24, 2023", Total: decimal.RequireFromString("334.99"), Status: OrderDelivered, Items: []cart.LineItem{line(2), line(3)}},
		{ID: "ORD-9921-MC", Date: "Nov 02, 2023", Total: decimal.RequireFromString("59.99"), Status: OrderShipped, Items: []cart.LineItem{line(4)}},
		{ID: "ORD-1120-PL", Date: "Nov 15, 2023", Total: decimal.RequireFromString("129.99"), Status: OrderProcessing, Items: []cart.LineItem{line(1)}},
	}
}

// Revenue sums order totals.
func Revenue(orders []Order) decimal.Decimal {
	total := decimal.Zero
	for _, o := range orders {
		total = total.Add(o.Total)
	}
	return total
}
