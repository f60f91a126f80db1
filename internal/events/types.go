package events

import "time"

const EventTypeQuoteRequestedV1 = "quote.requested.v1"

// QuoteRequestedV1 is published once per accepted quote request.
type QuoteRequestedV1 struct {
	QuoteID         string    `json:"quote_id"`
	Source          string    `json:"source"`
	Name            string    `json:"name"`
	Phone           string    `json:"phone"`
	Location        string    `json:"location"`
	MeasurementDate string    `json:"measurement_date"`
	SubmittedAt     time.Time `json:"submitted_at"`
}

func (QuoteRequestedV1) EventType() string { return EventTypeQuoteRequestedV1 }
