package submission

import (
	"context"
	"fmt"

	"github.com/wolfman30/jaideeclear-quotes/internal/archive"
	"github.com/wolfman30/jaideeclear-quotes/internal/events"
	"github.com/wolfman30/jaideeclear-quotes/internal/leads"
	"github.com/wolfman30/jaideeclear-quotes/internal/notify"
	"github.com/wolfman30/jaideeclear-quotes/internal/quotes"
)

// RepositorySink stores each submission as a lead. The lead id equals the submission id.
type RepositorySink struct {
	repo leads.Repository
}

func NewRepositorySink(repo leads.Repository) *RepositorySink {
	return &RepositorySink{repo: repo}
}

func (s *RepositorySink) Deliver(ctx context.Context, sub quotes.Submission) error {
	if _, err := s.repo.Create(ctx, leads.FromSubmission(sub)); err != nil {
		return fmt.Errorf("submission: store lead: %w", err)
	}
	return nil
}

// QueueSink publishes a quote.requested.v1 event per submission.
type QueueSink struct {
	publisher events.Publisher
}

func NewQueueSink(publisher events.Publisher) *QueueSink {
	return &QueueSink{publisher: publisher}
}

func (s *QueueSink) Deliver(ctx context.Context, sub quotes.Submission) error {
	env, err := events.NewEnvelope("quote:"+sub.ID, ToEvent(sub), events.WithTimestamp(sub.SubmittedAt))
	if err != nil {
		return fmt.Errorf("submission: build event: %w", err)
	}
	if err := s.publisher.Publish(ctx, env); err != nil {
		return fmt.Errorf("submission: publish event: %w", err)
	}
	return nil
}

// ArchiveSink writes each submission to the S3 archive.
type ArchiveSink struct {
	store *archive.Store
}

func NewArchiveSink(store *archive.Store) *ArchiveSink {
	return &ArchiveSink{store: store}
}

func (s *ArchiveSink) Deliver(ctx context.Context, sub quotes.Submission) error {
	_, err := s.store.ArchiveQuote(ctx, archive.QuoteRecord{
		QuoteID:         sub.ID,
		Source:          sub.Source,
		Name:            sub.Fields.Name,
		Phone:           sub.Fields.Phone,
		Location:        sub.Fields.Location,
		MeasurementDate: sub.Fields.MeasurementDate,
		SubmittedAt:     sub.SubmittedAt,
	})
	return err
}

// NotifySink emails the operator inbox directly, without going through the queue.
type NotifySink struct {
	notifier *notify.QuoteNotifier
}

func NewNotifySink(notifier *notify.QuoteNotifier) *NotifySink {
	return &NotifySink{notifier: notifier}
}

func (s *NotifySink) Deliver(ctx context.Context, sub quotes.Submission) error {
	return s.notifier.NotifyQuoteRequested(ctx, ToEvent(sub))
}

// ToEvent maps a submission onto the published event payload.
func ToEvent(sub quotes.Submission) events.QuoteRequestedV1 {
	return events.QuoteRequestedV1{
		QuoteID:         sub.ID,
		Source:          sub.Source,
		Name:            sub.Fields.Name,
		Phone:           sub.Fields.Phone,
		Location:        sub.Fields.Location,
		MeasurementDate: sub.Fields.MeasurementDate,
		SubmittedAt:     sub.SubmittedAt,
	}
}
