package leads

import (
	"strings"
	"time"

	"github.com/wolfman30/jaideeclear-quotes/internal/quotes"
)

// Lead is a stored quote request.
type Lead struct {
	ID              string    `json:"id" dynamodbav:"id"`
	Name            string    `json:"name" dynamodbav:"name"`
	Phone           string    `json:"phone" dynamodbav:"phone"`
	Location        string    `json:"location" dynamodbav:"location"`
	MeasurementDate string    `json:"measurement_date" dynamodbav:"measurementDate"`
	Source          string    `json:"source" dynamodbav:"source"`
	CreatedAt       time.Time `json:"created_at" dynamodbav:"createdAt"`
}

// CreateLeadRequest represents a quote request to be stored.
// ID may be preset so the stored lead shares the submission's id.
type CreateLeadRequest struct {
	ID              string `json:"-"`
	Name            string `json:"name"`
	Phone           string `json:"phone"`
	Location        string `json:"location"`
	MeasurementDate string `json:"measurement_date"`
	Source          string `json:"source"`
}

// FromSubmission converts a delivered submission into a create request.
func FromSubmission(sub quotes.Submission) *CreateLeadRequest {
	return &CreateLeadRequest{
		ID:              sub.ID,
		Name:            sub.Fields.Name,
		Phone:           sub.Fields.Phone,
		Location:        sub.Fields.Location,
		MeasurementDate: sub.Fields.MeasurementDate,
		Source:          sub.Source,
	}
}

// Normalize trims surrounding whitespace before storage.
func (r *CreateLeadRequest) Normalize() {
	r.Name = strings.TrimSpace(r.Name)
	r.Phone = strings.TrimSpace(r.Phone)
	r.Location = strings.TrimSpace(r.Location)
	r.MeasurementDate = strings.TrimSpace(r.MeasurementDate)
	r.Source = strings.TrimSpace(r.Source)
	if r.Source == "" {
		r.Source = "web"
	}
}

// Validate applies the same rules as the quote form.
func (r *CreateLeadRequest) Validate() error {
	errs := quotes.Validate(quotes.Fields{
		Name:            r.Name,
		Phone:           r.Phone,
		Location:        r.Location,
		MeasurementDate: r.MeasurementDate,
	})
	if !errs.Empty() {
		return &ValidationError{Fields: errs}
	}
	return nil
}

// ListFilter pages through stored leads, newest first.
type ListFilter struct {
	Limit  int
	Offset int
	Source string
}

func (f ListFilter) normalized() ListFilter {
	if f.Limit <= 0 || f.Limit > 100 {
		f.Limit = 50
	}
	if f.Offset < 0 {
		f.Offset = 0
	}
	return f
}
