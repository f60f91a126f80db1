package session

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"

	"github.com/wolfman30/jaideeclear-quotes/internal/quotes"
)

// CookieName carries the visitor's session id.
const CookieName = "jdc_session"

var ErrInvalidID = errors.New("session: invalid session id")

// Factory builds a controller around a state, restored or fresh.
type Factory func(st quotes.State) *quotes.Controller

// Store hands out the controller owned by a visitor session.
type Store interface {
	// Load returns the controller for id, creating a fresh one for unknown ids.
	Load(ctx context.Context, id string) (*quotes.Controller, error)
	Delete(ctx context.Context, id string) error
}

// NewID returns a fresh session id.
func NewID() string {
	return uuid.NewString()
}

// ValidID reports whether id looks like one produced by NewID.
func ValidID(id string) bool {
	id = strings.TrimSpace(id)
	if id == "" {
		return false
	}
	_, err := uuid.Parse(id)
	return err == nil
}
