package archive

import "time"

const recordVersion = "1.0"

// QuoteRecord is the JSON document written per accepted quote request.
type QuoteRecord struct {
	Version         string    `json:"version"`
	QuoteID         string    `json:"quote_id"`
	Source          string    `json:"source"`
	Name            string    `json:"name"`
	Phone           string    `json:"phone"`
	Location        string    `json:"location"`
	MeasurementDate string    `json:"measurement_date"`
	SubmittedAt     time.Time `json:"submitted_at"`
	ArchivedAt      time.Time `json:"archived_at"`
}

// ManifestEntry is one JSONL line in the monthly manifest file.
// Contact details stay out of the manifest; only the phone hash is kept.
type ManifestEntry struct {
	QuoteID         string `json:"quote_id"`
	S3Key           string `json:"s3_key"`
	Source          string `json:"source"`
	PhoneHash       string `json:"phone_hash"`
	MeasurementDate string `json:"measurement_date"`
	ArchivedAt      string `json:"archived_at"`
}
