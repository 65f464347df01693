package profile

import (
	"errors"
	"slices"
	"strings"

	"github.com/tair/lumina-storefront/internal/catalog/domain"
)

var ErrIncompleteListing = errors.New("name, price and description are required")

const defaultListingImage = "https://images.unsplash.com/photo-1557683316-973673baf926?auto=format&fit=crop&q=80"

// listingIDBase keeps user listing ids clear of catalog ids.
const listingIDBase = 100000

// ListingInput is the "sell an item" form.
type ListingInput struct {
	Name        string  `json:"name"`
	Price       float64 `json:"price"`
	Category    string  `json:"category"`
	Description string  `json:"description"`
	Image       string  `json:"image"`
}

// Listings are products a user put up for sale during the session.
type Listings struct {
	nextID   uint
	products []domain.Product
}

func NewListings() *Listings {
	return &Listings{nextID: listingIDBase, products: []domain.Product{}}
}

func (l *Listings) Create(in ListingInput) (domain.Product, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Description = strings.TrimSpace(in.Description)
	if in.Name == "" || in.Description == "" || in.Price <= 0 {
		return domain.Product{}, ErrIncompleteListing
	}
	if in.Category == "" {
		in.Category = domain.CategoryElectronics
	}
	if in.Image == "" {
		in.Image = defaultListingImage
	}

	l.nextID++
	product := domain.Product{
		ID:          l.nextID,
		Name:        in.Name,
		Price:       in.Price,
		Category:    in.Category,
		Description: in.Description,
		Image:       in.Image,
		Rating:      0,
		Stock:       1,
		Colors:      []string{},
	}
	l.products = append(l.products, product)
	return product, nil
}

func (l *Listings) Delete(id uint) error {
	i := slices.IndexFunc(l.products, func(p domain.Product) bool { return p.ID == id })
	if i < 0 {
		return ErrNotFound
	}
	l.products = slices.Delete(l.products, i, i+1)
	return nil
}

func (l *Listings) List() []domain.Product { return slices.Clone(l.products) }
