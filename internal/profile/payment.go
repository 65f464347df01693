package profile

import (
	"errors"
	"fmt"
	"slices"
)

// Card networks accepted for a payment method.
const (
	NetworkVisa       = "Visa"
	NetworkMasterCard = "MasterCard"
	NetworkAmex       = "Amex"
	NetworkPayPal     = "PayPal"
)

var networks = []string{NetworkVisa, NetworkMasterCard, NetworkAmex, NetworkPayPal}

var (
	ErrInvalidLast4   = errors.New("last4 must be exactly 4 digits")
	ErrInvalidNetwork = errors.New("unsupported card network")
)

// PaymentMethod is a stored card reference. Only the last four digits are kept.
type PaymentMethod struct {
	ID         string `json:"id"`
	Network    string `json:"network"`
	Last4      string `json:"last4"`
	Expiry     string `json:"expiry"`
	CardHolder string `json:"card_holder"`
	Default    bool   `json:"is_default"`
}

func (p PaymentMethod) GetID() string { return p.ID }

func (p PaymentMethod) IsDefault() bool { return p.Default }

func (p PaymentMethod) WithID(id string) PaymentMethod {
	p.ID = id
	return p
}

func (p PaymentMethod) WithDefault(isDefault bool) PaymentMethod {
	p.Default = isDefault
	return p
}

func (p PaymentMethod) Normalize() (PaymentMethod, error) {
	if p.Network == "" {
		p.Network = NetworkVisa
	}
	if !slices.Contains(networks, p.Network) {
		return p, fmt.Errorf("%w: %q", ErrInvalidNetwork, p.Network)
	}
	if p.Last4 == "" {
		p.Last4 = "0000"
	}
	if !isDigits(p.Last4, 4) {
		return p, ErrInvalidLast4
	}
	return p, nil
}

func isDigits(s string, n int) bool {
	if len(s) != n {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// SeedPayments is the wallet every new session starts with.
func SeedPayments() []PaymentMethod {
	return []PaymentMethod{
		{ID: "pm-1", Network: NetworkVisa, Last4: "4242", Expiry: "12/25", CardHolder: "Demo User", Default: true},
		{ID: "pm-2", Network: NetworkMasterCard, Last4: "8888", Expiry: "09/24", CardHolder: "Demo User"},
	}
}

// NewPaymentBook creates a wallet with ids like "pm-<uuid>".
func NewPaymentBook(seed ...PaymentMethod) *Book[PaymentMethod] {
	return NewBook("pm", seed...)
}
