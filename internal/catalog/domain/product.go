package domain

import (
	"context"
	"errors"
	"slices"

	"github.com/lib/pq"
)

// ErrProductNotFound is the explicit "absent" result of a by-id lookup.
var ErrProductNotFound = errors.New("product not found")

// Product categories. CategoryAll disables the category predicate.
const (
	CategoryAll         = "All"
	CategoryElectronics = "Electronics"
	CategoryApparel     = "Apparel"
	CategoryHome        = "Home"
	CategoryAccessories = "Accessories"
	CategoryTravel      = "Travel"
)

// Product is immutable catalog reference data.
type Product struct {
	ID          uint           `json:"id" gorm:"primaryKey"`
	Name        string         `json:"name" gorm:"not null"`
	Description string         `json:"description"`
	Image       string         `json:"image"`
	Images      pq.StringArray `json:"images,omitempty" gorm:"type:text[]"`
	Category    string         `json:"category" gorm:"not null;index"`
	Price       float64        `json:"price" gorm:"not null"`
	Rating      float64        `json:"rating"`
	Stock       int            `json:"stock" gorm:"not null;default:0"`
	Colors      pq.StringArray `json:"colors,omitempty" gorm:"type:text[]"`
}

// TableName specifies the table name
func (Product) TableName() string {
	return "products"
}

// InStock reports whether at least one unit is available.
func (p *Product) InStock() bool {
	return p.Stock > 0
}

// HasColor reports whether color is one of the product's variants.
func (p *Product) HasColor(color string) bool {
	return slices.Contains(p.Colors, color)
}

// Review is a customer review attached to a product.
type Review struct {
	ID        uint   `json:"id" gorm:"primaryKey"`
	ProductID uint   `json:"product_id" gorm:"not null;index"`
	User      string `json:"user"`
	Rating    int    `json:"rating"`
	Date      string `json:"date"`
	Content   string `json:"content"`
	Avatar    string `json:"avatar"`
}

// TableName specifies the table name
func (Review) TableName() string {
	return "reviews"
}

// CategoryVisual pairs a category with its tile image.
type CategoryVisual struct {
	Name  string `json:"name"`
	Image string `json:"image"`
}

// ColorSwatch is a named color offered as a filter.
type ColorSwatch struct {
	Name string `json:"name"`
	Hex  string `json:"hex"`
}

// CatalogRepository defines read access to the catalog.
type CatalogRepository interface {
	FindAll(ctx context.Context) ([]Product, error)
	FindByID(ctx context.Context, id uint) (*Product, error)
	FindReviews(ctx context.Context, productID uint) ([]Review, error)
	Count(ctx context.Context) (int64, error)
}
