package submission

import (
	"context"
	"time"

	"github.com/wolfman30/jaideeclear-quotes/internal/quotes"
	"github.com/wolfman30/jaideeclear-quotes/pkg/logging"
)

// DefaultDelay is how long DelaySink pretends to work.
const DefaultDelay = 1500 * time.Millisecond

// DelaySink waits a fixed time, logs the submission and succeeds.
// It stands in for a real backend during development.
type DelaySink struct {
	delay  time.Duration
	logger *logging.Logger
}

// NewDelaySink returns a DelaySink. A negative delay falls back to DefaultDelay.
func NewDelaySink(delay time.Duration, logger *logging.Logger) *DelaySink {
	if delay < 0 {
		delay = DefaultDelay
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &DelaySink{delay: delay, logger: logger}
}

func (s *DelaySink) Deliver(ctx context.Context, sub quotes.Submission) error {
	timer := time.NewTimer(s.delay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
	}
	s.logger.Info("quote request submitted",
		"quote_id", sub.ID,
		"name", sub.Fields.Name,
		"phone", sub.Fields.Phone,
		"location", sub.Fields.Location,
		"measurement_date", sub.Fields.MeasurementDate,
	)
	return nil
}
