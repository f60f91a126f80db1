package leads

import (
	"errors"
	"sort"
	"strings"

	"github.com/wolfman30/jaideeclear-quotes/internal/quotes"
)

var (
	// ErrLeadNotFound is returned when a lead is not found
	ErrLeadNotFound = errors.New("lead not found")

	// ErrInvalidLead is wrapped by ValidationError
	ErrInvalidLead = errors.New("leads: invalid quote request")
)

// ValidationError carries the per-field messages that rejected a lead.
type ValidationError struct {
	Fields quotes.ErrorMap
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, string(k))
	}
	sort.Strings(keys)
	return "leads: invalid quote request: " + strings.Join(keys, ", ")
}

func (e *ValidationError) Unwrap() error { return ErrInvalidLead }
