package quotes

import (
	"fmt"
	"strings"
	"time"
)

// Field identifies one input of the quote request form.
type Field string

const (
	FieldName            Field = "name"
	FieldPhone           Field = "phone"
	FieldLocation        Field = "location"
	FieldMeasurementDate Field = "measurementDate"
)

// AllFields lists the form inputs in display order.
var AllFields = []Field{FieldName, FieldPhone, FieldLocation, FieldMeasurementDate}

// ParseField resolves a wire key into a Field.
func ParseField(key string) (Field, error) {
	f := Field(strings.TrimSpace(key))
	if !f.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownField, key)
	}
	return f, nil
}

// Valid reports whether f is one of the four form inputs.
func (f Field) Valid() bool {
	switch f {
	case FieldName, FieldPhone, FieldLocation, FieldMeasurementDate:
		return true
	}
	return false
}

// Fields holds the raw values typed by the visitor.
type Fields struct {
	Name            string `json:"name"`
	Phone           string `json:"phone"`
	Location        string `json:"location"`
	MeasurementDate string `json:"measurementDate"`
}

// Get returns the value stored for f.
func (f Fields) Get(field Field) string {
	switch field {
	case FieldName:
		return f.Name
	case FieldPhone:
		return f.Phone
	case FieldLocation:
		return f.Location
	case FieldMeasurementDate:
		return f.MeasurementDate
	}
	return ""
}

func (f *Fields) set(field Field, value string) {
	switch field {
	case FieldName:
		f.Name = value
	case FieldPhone:
		f.Phone = value
	case FieldLocation:
		f.Location = value
	case FieldMeasurementDate:
		f.MeasurementDate = value
	}
}

// ErrorMap holds the per-field validation messages currently active.
type ErrorMap map[Field]string

// Empty reports whether no field is failing.
func (m ErrorMap) Empty() bool { return len(m) == 0 }

func (m ErrorMap) clone() ErrorMap {
	out := make(ErrorMap, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// Step selects which view is rendered.
type Step string

const (
	StepForm         Step = "form"
	StepConfirmation Step = "confirmation"
)

// Outcome is the result of a Submit call.
type Outcome string

const (
	// OutcomeAccepted means validation passed and the sink delivered the request.
	OutcomeAccepted Outcome = "accepted"
	// OutcomeRejected means validation failed; the sink was not called.
	OutcomeRejected Outcome = "rejected"
	// OutcomeFailed means validation passed but the sink reported an error.
	OutcomeFailed Outcome = "failed"
)

// FailureNotice is the generic message shown after a sink failure.
const FailureNotice = "We couldn't send your request. Please try again."

// State is a point-in-time copy of a controller.
type State struct {
	Fields     Fields   `json:"fields"`
	Errors     ErrorMap `json:"errors,omitempty"`
	Step       Step     `json:"step"`
	Submitting bool     `json:"submitting"`
	Notice     string   `json:"notice,omitempty"`
	Generation uint64   `json:"generation"`

	// SubmissionID references the accepted request while in Confirmation.
	SubmissionID string `json:"submission_id,omitempty"`
	// PendingID is the id of a request not yet delivered. Retries after a
	// failure reuse it so sinks can treat a repeat as the same request.
	PendingID string `json:"pending_id,omitempty"`
}

// Submission is what the sink receives for a validated request.
type Submission struct {
	ID          string    `json:"id"`
	Source      string    `json:"source"`
	Fields      Fields    `json:"fields"`
	SubmittedAt time.Time `json:"submitted_at"`
}
