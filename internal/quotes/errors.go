package quotes

import "errors"

var (
	// ErrUnknownField is returned when a field key is not part of the form.
	ErrUnknownField = errors.New("quotes: unknown field")

	// ErrSubmitInFlight is returned while a submission is being delivered.
	ErrSubmitInFlight = errors.New("quotes: submission already in progress")

	// ErrNotInFormStep is returned for form operations attempted from the confirmation view.
	ErrNotInFormStep = errors.New("quotes: form is not active")
)
