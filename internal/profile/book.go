// Package profile manages the account side of a session: address book,
// payment methods, order history and the user's own listings.
package profile

import (
	"errors"
	"slices"

	"github.com/google/uuid"
)

// ErrNotFound is returned when an entry id is unknown.
var ErrNotFound = errors.New("entry not found")

// Entry is a record kept in a Book. Methods return modified copies so a
// Book never shares storage with its callers.
type Entry[T any] interface {
	GetID() string
	IsDefault() bool
	WithID(id string) T
	WithDefault(isDefault bool) T
	// Normalize fills form defaults and validates the entry.
	Normalize() (T, error)
}

// Book is an ordered collection in which at most one entry is the default.
type Book[T Entry[T]] struct {
	prefix  string
	newID   func() string
	entries []T
}

// NewBook creates a book whose generated ids look like "<prefix>-<uuid>".
func NewBook[T Entry[T]](prefix string, seed ...T) *Book[T] {
	return &Book[T]{
		prefix:  prefix,
		newID:   uuid.NewString,
		entries: slices.Clone(seed),
	}
}

// Create appends entry under a fresh id and returns it as stored.
func (b *Book[T]) Create(entry T) (T, error) {
	entry, err := entry.Normalize()
	if err != nil {
		return entry, err
	}
	entry = entry.WithID(b.prefix + "-" + b.newID())
	b.entries = append(b.entries, entry)
	return b.settle(len(b.entries) - 1), nil
}

// Update replaces the entry with the same id.
func (b *Book[T]) Update(entry T) (T, error) {
	i := b.index(entry.GetID())
	if i < 0 {
		var zero T
		return zero, ErrNotFound
	}
	entry, err := entry.Normalize()
	if err != nil {
		return entry, err
	}
	b.entries[i] = entry
	return b.settle(i), nil
}

// Delete removes an entry. Deleting the default leaves the book without one.
func (b *Book[T]) Delete(id string) error {
	i := b.index(id)
	if i < 0 {
		return ErrNotFound
	}
	b.entries = slices.Delete(b.entries, i, i+1)
	return nil
}

func (b *Book[T]) List() []T { return slices.Clone(b.entries) }

// Default returns the default entry, if any.
func (b *Book[T]) Default() (T, bool) {
	for _, e := range b.entries {
		if e.IsDefault() {
			return e, true
		}
	}
	var zero T
	return zero, false
}

// settle restores the single-default invariant after entries[i] was written:
// a default write clears every other default, and a lone entry is always
// the default.
func (b *Book[T]) settle(i int) T {
	written := b.entries[i]
	if written.IsDefault() {
		for j, e := range b.entries {
			if j != i && e.IsDefault() {
				b.entries[j] = e.WithDefault(false)
			}
		}
	} else if len(b.entries) == 1 {
		b.entries[0] = written.WithDefault(true)
	}
	return b.entries[i]
}

func (b *Book[T]) index(id string) int {
	return slices.IndexFunc(b.entries, func(e T) bool { return e.GetID() == id })
}
