// Package breaker implements a consecutive-failure circuit breaker for calls
// to external services.
package breaker

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/tair/lumina-storefront/pkg/logger"
)

// ErrOpen is returned without calling through while the circuit is open.
var ErrOpen = errors.New("circuit breaker is open")

// State represents the state of a circuit breaker
type State string

const (
	StateClosed   State = "closed"    // Normal operation
	StateOpen     State = "open"      // Blocking requests
	StateHalfOpen State = "half-open" // Testing if service recovered
)

// Settings tune a Breaker.
type Settings struct {
	// MaxFailures is the number of consecutive failures that opens the circuit.
	MaxFailures int
	// OpenTimeout is how long the circuit stays open before probing.
	OpenTimeout time.Duration
	// HalfOpenSuccesses closes a half-open circuit after this many successes.
	HalfOpenSuccesses int
}

// DefaultSettings returns the settings used for outbound service calls.
func DefaultSettings() Settings {
	return Settings{MaxFailures: 5, OpenTimeout: 30 * time.Second, HalfOpenSuccesses: 3}
}

// Breaker implements the circuit breaker pattern
type Breaker struct {
	name     string
	settings Settings
	now      func() time.Time

	mu              sync.Mutex
	state           State
	failures        int
	successCount    int
	lastFailureTime time.Time
	lastStateChange time.Time
}

// New creates a new circuit breaker
func New(name string, settings Settings) *Breaker {
	if settings.MaxFailures < 1 {
		settings.MaxFailures = 1
	}
	if settings.HalfOpenSuccesses < 1 {
		settings.HalfOpenSuccesses = 1
	}
	b := &Breaker{
		name:     name,
		settings: settings,
		now:      time.Now,
		state:    StateClosed,
	}
	b.lastStateChange = b.now()
	return b
}

// Call executes fn with circuit breaker protection
func (b *Breaker) Call(fn func() error) error {
	if !b.allow() {
		return fmt.Errorf("%w for %s", ErrOpen, b.name)
	}

	err := fn()

	b.mu.Lock()
	defer b.mu.Unlock()
	if err != nil {
		b.onFailure()
	} else {
		b.onSuccess()
	}
	return err
}

func (b *Breaker) allow() bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.state == StateOpen && b.now().Sub(b.lastStateChange) > b.settings.OpenTimeout {
		b.setState(StateHalfOpen)
		b.successCount = 0
		logger.Logger.Info().
			Str("circuit", b.name).
			Msg("Circuit breaker transitioning to half-open")
	}
	return b.state != StateOpen
}

func (b *Breaker) onFailure() {
	b.failures++
	b.lastFailureTime = b.now()

	if b.state == StateHalfOpen {
		b.setState(StateOpen)
		logger.Logger.Warn().
			Str("circuit", b.name).
			Msg("Circuit breaker reopened after half-open failure")
	} else if b.state == StateClosed && b.failures >= b.settings.MaxFailures {
		b.setState(StateOpen)
		logger.Logger.Error().
			Str("circuit", b.name).
			Int("failures", b.failures).
			Int("threshold", b.settings.MaxFailures).
			Msg("Circuit breaker opened")
	}
}

func (b *Breaker) onSuccess() {
	switch b.state {
	case StateHalfOpen:
		b.successCount++
		if b.successCount >= b.settings.HalfOpenSuccesses {
			b.setState(StateClosed)
			b.failures = 0
			b.successCount = 0
			logger.Logger.Info().
				Str("circuit", b.name).
				Msg("Circuit breaker closed after successful recovery")
		}
	case StateClosed:
		b.failures = 0
	}
}

func (b *Breaker) setState(s State) {
	b.state = s
	b.lastStateChange = b.now()
}

// State returns the current state
func (b *Breaker) State() State {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.state
}

// Stats is a point-in-time view of a breaker, served by the health endpoint.
type Stats struct {
	Name            string    `json:"name"`
	State           State     `json:"state"`
	Failures        int       `json:"failures"`
	MaxFailures     int       `json:"max_failures"`
	LastFailureTime time.Time `json:"last_failure_time"`
	LastStateChange time.Time `json:"last_state_change"`
}

// Stats returns circuit breaker statistics
func (b *Breaker) Stats() Stats {
	b.mu.Lock()
	defer b.mu.Unlock()

	return Stats{
		Name:            b.name,
		State:           b.state,
		Failures:        b.failures,
		MaxFailures:     b.settings.MaxFailures,
		LastFailureTime: b.lastFailureTime,
		LastStateChange: b.lastStateChange,
	}
}
