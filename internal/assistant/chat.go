// Package assistant implements the storefront's AI stylist and the chat
// session that talks to it.
package assistant

import (
	"context"
	"errors"
	"slices"
	"strings"
	"sync"

	"github.com/tair/lumina-storefront/pkg/logger"
)

// ErrIgnored is returned by Send when the message was not sent: the input
// was blank or a reply is still pending.
var ErrIgnored = errors.New("message ignored")

const (
	// Greeting opens every transcript.
	Greeting = "Hi! I'm Lumina, your AI personal stylist. Looking for something specific or need style advice?"
	// FallbackReply replaces a failed reply in the transcript.
	FallbackReply = "Sorry, I had a connection hiccup."
)

// Role of a transcript message.
type Role string

const (
	RoleUser  Role = "user"
	RoleModel Role = "model"
)

type Message struct {
	Role    Role   `json:"role"`
	Text    string `json:"text"`
	IsError bool   `json:"is_error,omitempty"`
}

// State of a chat session.
type State string

const (
	StateIdle          State = "idle"
	StateAwaiting      State = "awaiting"
	StateIdleWithError State = "idle_with_error"
)

// Responder answers one user message with no conversation history.
type Responder interface {
	Ask(ctx context.Context, message string) (string, error)
}

// Chat is one session's conversation with the stylist. At most one request is
// outstanding at a time.
type Chat struct {
	responder Responder

	mu         sync.Mutex
	state      State
	transcript []Message
}

func NewChat(responder Responder) *Chat {
	return &Chat{
		responder:  responder,
		state:      StateIdle,
		transcript: []Message{{Role: RoleModel, Text: Greeting}},
	}
}

// Send appends text to the transcript, asks the responder and appends its
// reply. The returned message is the reply as recorded, which on failure is
// FallbackReply flagged as an error.
func (c *Chat) Send(ctx context.Context, text string) (Message, error) {
	c.mu.Lock()
	if strings.TrimSpace(text) == "" || c.state == StateAwaiting {
		c.mu.Unlock()
		return Message{}, ErrIgnored
	}
	c.transcript = append(c.transcript, Message{Role: RoleUser, Text: text})
	c.state = StateAwaiting
	c.mu.Unlock()

	// Only the current utterance is sent; the transcript is not replayed.
	reply, err := c.responder.Ask(ctx, text)

	c.mu.Lock()
	defer c.mu.Unlock()

	msg := Message{Role: RoleModel, Text: reply}
	c.state = StateIdle
	if err != nil {
		logger.Warn(ctx).Err(err).Msg("Chat reply failed")
		msg = Message{Role: RoleModel, Text: FallbackReply, IsError: true}
		c.state = StateIdleWithError
	}
	c.transcript = append(c.transcript, msg)
	return msg, nil
}

// Transcript returns a copy of every message so far.
func (c *Chat) Transcript() []Message {
	c.mu.Lock()
	defer c.mu.Unlock()
	return slices.Clone(c.transcript)
}

func (c *Chat) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}
