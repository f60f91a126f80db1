package quotes

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/wolfman30/jaideeclear-quotes/pkg/logging"
)

var tracer = otel.Tracer("jaideeclear.internal.quotes")

// Option customizes a Controller.
type Option func(*Controller)

// WithLogger sets the logger used for sink failures.
func WithLogger(logger *logging.Logger) Option {
	return func(c *Controller) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithSource tags submissions with where they came from ("web", "api").
func WithSource(source string) Option {
	return func(c *Controller) { c.source = source }
}

// WithSubmitTimeout bounds each sink call. Zero means no limit beyond the sink's own.
func WithSubmitTimeout(d time.Duration) Option {
	return func(c *Controller) { c.timeout = d }
}

// WithClock overrides time.Now.
func WithClock(now func() time.Time) Option {
	return func(c *Controller) {
		if now != nil {
			c.now = now
		}
	}
}

// Controller owns the state of one quote request form for one visitor.
type Controller struct {
	mu    sync.Mutex
	state State

	sink      Sink
	logger    *logging.Logger
	source    string
	timeout   time.Duration
	now       func() time.Time
	claim     ClaimFunc
	listeners []func(State)
}

// NewController returns a controller in the Form step with empty fields.
func NewController(sink Sink, opts ...Option) *Controller {
	return Restore(State{}, sink, opts...)
}

// Restore rebuilds a controller from a persisted snapshot.
func Restore(st State, sink Sink, opts ...Option) *Controller {
	if st.Step == "" {
		st.Step = StepForm
	}
	st.Errors = st.Errors.clone()
	c := &Controller{
		state:  st,
		sink:   sink,
		logger: logging.Default(),
		source: "web",
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// OnChange registers fn to receive a snapshot after every state transition.
func (c *Controller) OnChange(fn func(State)) {
	if fn == nil {
		return
	}
	c.mu.Lock()
	c.listeners = append(c.listeners, fn)
	c.mu.Unlock()
}

// SetClaim installs fn to run before each delivery starts.
func (c *Controller) SetClaim(fn ClaimFunc) {
	c.mu.Lock()
	c.claim = fn
	c.mu.Unlock()
}

// Snapshot returns a copy of the current state.
func (c *Controller) Snapshot() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshotLocked()
}

func (c *Controller) snapshotLocked() State {
	st := c.state
	st.Errors = c.state.Errors.clone()
	return st
}

// Step returns the active view.
func (c *Controller) Step() Step {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state.Step
}

// ChangeField overwrites one field and clears its error, leaving other errors intact.
func (c *Controller) ChangeField(field Field, value string) error {
	if !field.Valid() {
		return ErrUnknownField
	}
	c.mu.Lock()
	if c.state.Submitting {
		c.mu.Unlock()
		return ErrSubmitInFlight
	}
	if c.state.Step != StepForm {
		c.mu.Unlock()
		return ErrNotInFormStep
	}
	c.state.Fields.set(field, value)
	delete(c.state.Errors, field)
	st := c.snapshotLocked()
	c.mu.Unlock()

	c.notify(st)
	return nil
}

// Validate runs the rules over the current fields without committing the result.
func (c *Controller) Validate() ErrorMap {
	c.mu.Lock()
	fields := c.state.Fields
	c.mu.Unlock()
	return Validate(fields)
}

// Submit validates, commits the errors and, when valid, delivers the request to the sink.
// The returned error is only set for misuse (already submitting, wrong step)
// or a failed claim; sink failures are reported as OutcomeFailed.
func (c *Controller) Submit(ctx context.Context) (Outcome, error) {
	c.mu.Lock()
	if c.state.Submitting {
		c.mu.Unlock()
		return "", ErrSubmitInFlight
	}
	if c.state.Step != StepForm {
		c.mu.Unlock()
		return "", ErrNotInFormStep
	}

	errs := Validate(c.state.Fields)
	c.state.Errors = errs
	c.state.Notice = ""
	if !errs.Empty() {
		st := c.snapshotLocked()
		c.mu.Unlock()
		c.notify(st)
		return OutcomeRejected, nil
	}

	c.state.Submitting = true
	gen := c.state.Generation
	if c.state.PendingID == "" {
		c.state.PendingID = uuid.NewString()
	}
	sub := Submission{
		ID:          c.state.PendingID,
		Source:      c.source,
		Fields:      c.state.Fields,
		SubmittedAt: c.now().UTC(),
	}
	st := c.snapshotLocked()
	claim := c.claim
	c.mu.Unlock()

	if claim != nil {
		if err := claim(ctx, st); err != nil {
			c.mu.Lock()
			if c.state.Generation == gen {
				c.state.Submitting = false
			}
			c.mu.Unlock()
			return "", err
		}
	}
	c.notify(st)

	err := c.deliver(ctx, sub)

	c.mu.Lock()
	outcome := OutcomeAccepted
	if c.state.Generation != gen {
		// Reset ran while the sink was busy; the result no longer applies to this form.
		c.mu.Unlock()
		if err != nil {
			return OutcomeFailed, nil
		}
		return outcome, nil
	}
	c.state.Submitting = false
	if err != nil {
		outcome = OutcomeFailed
		c.state.Notice = FailureNotice
	} else {
		c.state.Step = StepConfirmation
		c.state.SubmissionID = sub.ID
		c.state.PendingID = ""
	}
	st = c.snapshotLocked()
	c.mu.Unlock()

	c.notify(st)
	return outcome, nil
}

func (c *Controller) deliver(parent context.Context, sub Submission) (err error) {
	if parent == nil {
		parent = context.Background()
	}
	// Delivery must not be aborted by the caller going away.
	ctx := context.WithoutCancel(parent)
	var cancel context.CancelFunc
	if c.timeout > 0 {
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
	} else {
		ctx, cancel = context.WithCancel(ctx)
	}
	defer cancel()

	ctx, span := tracer.Start(ctx, "quotes.submit", trace.WithAttributes(
		attribute.String("quote.id", sub.ID),
		attribute.String("quote.source", sub.Source),
	))
	defer span.End()

	if c.sink == nil {
		err = errors.New("quotes: no submission sink configured")
	} else {
		defer func() {
			if r := recover(); r != nil {
				err = errors.New("quotes: submission sink panicked")
				c.logger.Error("submission sink panicked", "quote_id", sub.ID, "panic", r)
			}
		}()
		err = c.sink.Deliver(ctx, sub)
	}

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "delivery failed")
		c.logger.Error("quote submission failed", "error", err, "quote_id", sub.ID, "source", sub.Source)
		return err
	}
	c.logger.Info("quote submission delivered", "quote_id", sub.ID, "source", sub.Source)
	return nil
}

// Reset returns to an empty Form. It is unconditional; a delivery still in
// flight can no longer advance the step afterwards.
func (c *Controller) Reset() {
	c.mu.Lock()
	c.state = State{
		Step:       StepForm,
		Errors:     ErrorMap{},
		Generation: c.state.Generation + 1,
	}
	st := c.snapshotLocked()
	c.mu.Unlock()
	c.notify(st)
}

func (c *Controller) notify(st State) {
	c.mu.Lock()
	listeners := append([]func(State){}, c.listeners...)
	c.mu.Unlock()
	for _, fn := range listeners {
		fn(st)
	}
}
