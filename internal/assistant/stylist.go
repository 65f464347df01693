package assistant

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/tair/lumina-storefront/internal/catalog/domain"
	"github.com/tair/lumina-storefront/pkg/logger"
)

const (
	// ApologyReply is what Reply answers when the completion service fails.
	ApologyReply = "I apologize, but I'm unable to reach the styling servers at the moment. Please try again."
	// EmptyReply stands in for a completion with no text.
	EmptyReply = "I'm having a bit of trouble connecting to my fashion senses right now."

	stylistTemperature = 0.7
)

const instructionTemplate = `
You are "Lumina," a sophisticated and helpful AI personal shopping stylist for an e-commerce store.
Your goal is to help customers find the perfect product from our catalog.

Here is our current product catalog data in JSON format:
%s

Rules:
1. Only recommend products that are in the catalog above.
2. If a user asks for something we don't have, politely suggest the closest alternative from our catalog or explain we don't carry it.
3. Keep your answers concise, friendly, and stylish.
4. When you mention a product, try to mention its price to be helpful.
5. Do not make up products.
`

// Stylist answers shopping questions grounded in the catalog. Every call is a
// single turn framed by the same system instruction.
type Stylist struct {
	completer   Completer
	instruction string
}

// NewStylist builds the system instruction from products.
func NewStylist(completer Completer, products []domain.Product) (*Stylist, error) {
	catalog, err := json.Marshal(products)
	if err != nil {
		return nil, fmt.Errorf("encode catalog: %w", err)
	}
	return &Stylist{
		completer:   completer,
		instruction: fmt.Sprintf(instructionTemplate, catalog),
	}, nil
}

// Instruction returns the system framing sent with every message.
func (s *Stylist) Instruction() string { return s.instruction }

// Ask returns the stylist's answer, or the completion error.
func (s *Stylist) Ask(ctx context.Context, message string) (string, error) {
	text, err := s.completer.Complete(ctx, CompletionRequest{
		SystemInstruction: s.instruction,
		Message:           message,
		Temperature:       stylistTemperature,
	})
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(text) == "" {
		return EmptyReply, nil
	}
	return text, nil
}

// Reply is Ask that never fails: errors become ApologyReply.
func (s *Stylist) Reply(ctx context.Context, message string) string {
	text, err := s.Ask(ctx, message)
	if err != nil {
		logger.Warn(ctx).Err(err).Msg("Stylist completion failed")
		return ApologyReply
	}
	return text
}
