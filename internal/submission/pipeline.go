package submission

import (
	"context"
	"fmt"

	"github.com/wolfman30/jaideeclear-quotes/internal/quotes"
	"github.com/wolfman30/jaideeclear-quotes/pkg/logging"
)

// Stage is one named step of a Pipeline.
type Stage struct {
	Name     string
	Sink     quotes.Sink
	Required bool
}

// Required builds a stage whose failure fails the submission.
func Required(name string, sink quotes.Sink) Stage {
	return Stage{Name: name, Sink: sink, Required: true}
}

// BestEffort builds a stage whose failure is only logged.
func BestEffort(name string, sink quotes.Sink) Stage {
	return Stage{Name: name, Sink: sink}
}

// Pipeline runs stages in order. It stops at the first required failure;
// stages after it are skipped.
type Pipeline struct {
	stages []Stage
	logger *logging.Logger
}

func NewPipeline(logger *logging.Logger, stages ...Stage) *Pipeline {
	if logger == nil {
		logger = logging.Default()
	}
	return &Pipeline{stages: stages, logger: logger}
}

// Stages returns the configured stage names in order.
func (p *Pipeline) Stages() []string {
	names := make([]string, 0, len(p.stages))
	for _, st := range p.stages {
		names = append(names, st.Name)
	}
	return names
}

func (p *Pipeline) Deliver(ctx context.Context, sub quotes.Submission) error {
	for _, st := range p.stages {
		if st.Sink == nil {
			continue
		}
		err := st.Sink.Deliver(ctx, sub)
		if err == nil {
			continue
		}
		if st.Required {
			return fmt.Errorf("submission: stage %s: %w", st.Name, err)
		}
		p.logger.Warn("best-effort submission stage failed", "stage", st.Name, "quote_id", sub.ID, "error", err)
	}
	return nil
}
