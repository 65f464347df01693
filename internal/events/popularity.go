package events

import (
	"cmp"
	"context"
	"slices"
	"sync"
)

// ProductCount is one row of the popularity ranking.
type ProductCount struct {
	ProductID uint `json:"product_id"`
	Added     int  `json:"added"`
	Saved     int  `json:"saved"`
}

// Popularity tallies how often each product is added to carts and saved for
// later, across every session.
type Popularity struct {
	mu     sync.RWMutex
	counts map[uint]*ProductCount
}

func NewPopularity() *Popularity {
	return &Popularity{counts: make(map[uint]*ProductCount)}
}

// Register subscribes the tally to the event types it counts.
func (p *Popularity) Register(c *Consumer) {
	c.RegisterHandler(EventTypeItemAdded, p.Handle)
	c.RegisterHandler(EventTypeItemMovedToCart, p.Handle)
	c.RegisterHandler(EventTypeItemSaved, p.Handle)
}

// Handle records one event. Unknown types are ignored.
func (p *Popularity) Handle(_ context.Context, event CartEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	row, ok := p.counts[event.ProductID]
	if !ok {
		row = &ProductCount{ProductID: event.ProductID}
		p.counts[event.ProductID] = row
	}

	switch event.EventType {
	case EventTypeItemAdded, EventTypeItemMovedToCart:
		row.Added += max(event.Quantity, 1)
	case EventTypeItemSaved:
		row.Saved++
	}
	return nil
}

// Top returns the n most added products, most popular first. Ties are broken
// by saves, then by product id.
func (p *Popularity) Top(n int) []ProductCount {
	p.mu.RLock()
	rows := make([]ProductCount, 0, len(p.counts))
	for _, row := range p.counts {
		rows = append(rows, *row)
	}
	p.mu.RUnlock()

	slices.SortFunc(rows, func(a, b ProductCount) int {
		return cmp.Or(
			cmp.Compare(b.Added, a.Added),
			cmp.Compare(b.Saved, a.Saved),
			cmp.Compare(a.ProductID, b.ProductID),
		)
	})

	if n >= 0 && len(rows) > n {
		rows = rows[:n]
	}
	return rows
}

// Local returns a Publisher that feeds the tally in-process, for
// deployments without Kafka.
func (p *Popularity) Local() Publisher {
	return PublisherFunc(p.Handle)
}
