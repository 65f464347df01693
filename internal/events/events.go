// Package events carries storefront cart activity over Kafka and keeps the
// product popularity tally shown on the admin dashboard.
package events

import (
	"context"
	"time"
)

// CartEvent records a single mutation of a session's cart or saved list.
type CartEvent struct {
	EventID   string    `json:"event_id"`
	EventType string    `json:"event_type"`
	SessionID string    `json:"session_id"`
	UserID    uint      `json:"user_id,omitempty"`
	ProductID uint      `json:"product_id"`
	Quantity  int       `json:"quantity"`
	Timestamp time.Time `json:"timestamp"`
}

// Event types
const (
	EventTypeItemAdded       = "cart.item_added"
	EventTypeItemRemoved     = "cart.item_removed"
	EventTypeQuantityChanged = "cart.quantity_changed"
	EventTypeItemSaved       = "cart.item_saved"
	EventTypeItemMovedToCart = "cart.item_moved_to_cart"
	EventTypeSavedRemoved    = "cart.saved_removed"
)

// Kafka topics
const (
	TopicCartActivity = "storefront-cart-activity"
)

// Publisher sends cart events somewhere.
type Publisher interface {
	Publish(ctx context.Context, event CartEvent) error
}

// PublisherFunc adapts a function to Publisher.
type PublisherFunc func(ctx context.Context, event CartEvent) error

func (f PublisherFunc) Publish(ctx context.Context, event CartEvent) error {
	return f(ctx, event)
}

// NopPublisher drops every event. Used when no brokers are configured.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, CartEvent) error { return nil }

// Handler consumes one decoded cart event.
type Handler func(ctx context.Context, event CartEvent) error
