package bootstrap

import (
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/aws/aws-sdk-go-v2/service/sqs"

	"github.com/wolfman30/jaideeclear-quotes/internal/archive"
	appconfig "github.com/wolfman30/jaideeclear-quotes/internal/config"
	"github.com/wolfman30/jaideeclear-quotes/internal/events"
	"github.com/wolfman30/jaideeclear-quotes/internal/leads"
	"github.com/wolfman30/jaideeclear-quotes/internal/notify"
	"github.com/wolfman30/jaideeclear-quotes/internal/observability/metrics"
	"github.com/wolfman30/jaideeclear-quotes/internal/quotes"
	"github.com/wolfman30/jaideeclear-quotes/internal/submission"
	"github.com/wolfman30/jaideeclear-quotes/pkg/logging"
)

// Sink names accepted in SUBMISSION_SINKS.
const (
	SinkDelay      = "delay"
	SinkRepository = "repository"
	SinkQueue      = "queue"
	SinkArchive    = "archive"
	SinkNotify     = "notify"
)

// SinkDeps are the collaborators a submission pipeline may need.
type SinkDeps struct {
	Leads   leads.Repository
	AWS     *aws.Config
	Metrics *metrics.QuoteMetrics
	Logger  *logging.Logger
}

// BuildSink assembles the submission pipeline named by SUBMISSION_SINKS, in order.
// Delay, repository and queue stages are required; archive and notify are best effort.
func BuildSink(cfg *appconfig.Config, deps SinkDeps) (*submission.Pipeline, error) {
	logger := deps.Logger
	if logger == nil {
		logger = logging.Default()
	}
	if len(cfg.SubmissionSinks) == 0 {
		return nil, fmt.Errorf("bootstrap: SUBMISSION_SINKS is empty")
	}

	stages := make([]submission.Stage, 0, len(cfg.SubmissionSinks))
	for _, name := range cfg.SubmissionSinks {
		var (
			sink     quotes.Sink
			required = true
		)
		switch name {
		case SinkDelay:
			sink = submission.NewDelaySink(cfg.SubmitDelay, logger)
		case SinkRepository:
			if deps.Leads == nil {
				return nil, fmt.Errorf("bootstrap: repository sink needs a leads repository")
			}
			sink = submission.NewRepositorySink(deps.Leads)
		case SinkQueue:
			sink = submission.NewQueueSink(buildPublisher(cfg, deps.AWS, logger))
		case SinkArchive:
			if deps.AWS == nil || cfg.ArchiveBucket == "" {
				return nil, fmt.Errorf("bootstrap: archive sink needs ARCHIVE_BUCKET and aws config")
			}
			client := s3.NewFromConfig(*deps.AWS, func(o *s3.Options) {
				// LocalStack serves buckets on the path, not as subdomains
				o.UsePathStyle = cfg.AWSEndpointOverride != ""
			})
			sink = submission.NewArchiveSink(archive.NewStore(client, cfg.ArchiveBucket, logger.Logger))
			required = false
		case SinkNotify:
			sink = submission.NewNotifySink(BuildQuoteNotifier(cfg, deps.AWS, logger))
			required = false
		default:
			return nil, fmt.Errorf("bootstrap: unknown submission sink %q", name)
		}

		sink = submission.Instrument(name, sink, deps.Metrics)
		if required {
			stages = append(stages, submission.Required(name, sink))
		} else {
			stages = append(stages, submission.BestEffort(name, sink))
		}
	}

	pipeline := submission.NewPipeline(logger, stages...)
	logger.Info("submission pipeline configured", "stages", pipeline.Stages())
	return pipeline, nil
}

func buildPublisher(cfg *appconfig.Config, awsCfg *aws.Config, logger *logging.Logger) events.Publisher {
	if cfg.QuoteQueueURL == "" || awsCfg == nil {
		logger.Warn("QUOTE_QUEUE_URL not set; quote events kept in memory")
		return events.NewMemoryPublisher()
	}
	return events.NewSQSPublisher(sqs.NewFromConfig(*awsCfg), cfg.QuoteQueueURL)
}

// BuildQuoteNotifier wires the operator email: recipient, reply-to and the
// admin link under PUBLIC_BASE_URL.
func BuildQuoteNotifier(cfg *appconfig.Config, awsCfg *aws.Config, logger *logging.Logger) *notify.QuoteNotifier {
	return notify.NewQuoteNotifier(BuildEmailSender(cfg, awsCfg, logger), cfg.NotifyEmailTo, logger,
		notify.WithReplyTo(cfg.NotifyReplyTo),
		notify.WithAdminBaseURL(cfg.PublicBaseURL),
	)
}

// BuildEmailSender prefers SendGrid, then SES, and falls back to a logging stub.
func BuildEmailSender(cfg *appconfig.Config, awsCfg *aws.Config, logger *logging.Logger) notify.EmailSender {
	if logger == nil {
		logger = logging.Default()
	}
	if sender := notify.NewSendGridSender(notify.SendGridConfig{
		APIKey:    cfg.SendGridAPIKey,
		FromEmail: cfg.SendGridFromEmail,
		FromName:  cfg.SendGridFromName,
	}, logger); sender != nil {
		return sender
	}
	if cfg.SESFromEmail != "" && awsCfg != nil {
		return notify.NewSESSender(sesv2.NewFromConfig(*awsCfg), notify.SESConfig{
			FromEmail: cfg.SESFromEmail,
			FromName:  cfg.SendGridFromName,
		}, logger)
	}
	logger.Warn("no email provider configured; notifications are logged only")
	return notify.NewStubEmailSender(logger)
}
