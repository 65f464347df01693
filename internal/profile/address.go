package profile

import "strings"

// Address labels offered by the form. Any other non-empty label is kept.
const (
	LabelHome  = "Home"
	LabelWork  = "Work"
	LabelOther = "Other"
)

const defaultCountry = "USA"

type Address struct {
	ID      string `json:"id"`
	Label   string `json:"label"`
	Street  string `json:"street"`
	City    string `json:"city"`
	State   string `json:"state"`
	ZipCode string `json:"zip_code"`
	Country string `json:"country"`
	Default bool   `json:"is_default"`
}

func (a Address) GetID() string { return a.ID }

func (a Address) IsDefault() bool { return a.Default }

func (a Address) WithID(id string) Address {
	a.ID = id
	return a
}

func (a Address) WithDefault(isDefault bool) Address {
	a.Default = isDefault
	return a
}

func (a Address) Normalize() (Address, error) {
	a.Label = strings.TrimSpace(a.Label)
	if a.Label == "" {
		a.Label = LabelHome
	}
	a.Country = strings.TrimSpace(a.Country)
	if a.Country == "" {
		a.Country = defaultCountry
	}
	return a, nil
}

// SeedAddresses is the address book every new session starts with.
func SeedAddresses() []Address {
	return []Address{
		{ID: "addr-1", Label: LabelHome, Street: "123 Fashion Ave, Apt 4B", City: "New York", State: "NY", ZipCode: "10001", Country: "USA", Default: true},
		{ID: "addr-2", Label: LabelWork, Street: "456 Tech Blvd, Suite 200", City: "San Francisco", State: "CA", ZipCode: "94016", Country: "USA"},
	}
}

// NewAddressBook creates an address book with ids like "addr-<uuid>".
func NewAddressBook(seed ...Address) *Book[Address] {
	return NewBook("addr", seed...)
}
