package quotes

import "context"

// Sink delivers a validated quote request somewhere durable.
// Implementations must honor ctx and report failure through the returned error.
type Sink interface {
	Deliver(ctx context.Context, sub Submission) error
}

// SinkFunc adapts a function to the Sink interface.
type SinkFunc func(ctx context.Context, sub Submission) error

// Deliver calls fn.
func (fn SinkFunc) Deliver(ctx context.Context, sub Submission) error {
	return fn(ctx, sub)
}

// ClaimFunc reserves delivery of st for one holder when several controllers
// share a session. It returns ErrSubmitInFlight or ErrNotInFormStep when
// another holder already owns or finished the request.
type ClaimFunc func(ctx context.Context, st State) error
