package submission

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/wolfman30/jaideeclear-quotes/internal/observability/metrics"
	"github.com/wolfman30/jaideeclear-quotes/internal/quotes"
)

var tracer = otel.Tracer("jaideeclear.internal.submission")

type instrumented struct {
	name    string
	sink    quotes.Sink
	metrics *metrics.QuoteMetrics
}

// Instrument wraps sink with a span and a latency histogram labelled by name.
func Instrument(name string, sink quotes.Sink, m *metrics.QuoteMetrics) quotes.Sink {
	return &instrumented{name: name, sink: sink, metrics: m}
}

func (i *instrumented) Deliver(ctx context.Context, sub quotes.Submission) error {
	ctx, span := tracer.Start(ctx, "submission."+i.name, trace.WithAttributes(
		attribute.String("quote.id", sub.ID),
		attribute.String("submission.sink", i.name),
	))
	defer span.End()

	start := time.Now()
	err := i.sink.Deliver(ctx, sub)
	i.metrics.ObserveSink(i.name, err == nil, time.Since(start).Seconds())
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	return err
}
