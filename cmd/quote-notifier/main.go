package main

import (
	"context"
	"os"

	lambdaevents "github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	"github.com/aws/aws-sdk-go-v2/aws"

	"github.com/wolfman30/jaideeclear-quotes/cmd/mainconfig"
	"github.com/wolfman30/jaideeclear-quotes/internal/app/bootstrap"
	appconfig "github.com/wolfman30/jaideeclear-quotes/internal/config"
	"github.com/wolfman30/jaideeclear-quotes/internal/events"
	"github.com/wolfman30/jaideeclear-quotes/pkg/logging"
)

type quoteNotifier interface {
	NotifyQuoteRequested(ctx context.Context, evt events.QuoteRequestedV1) error
}

func main() {
	cfg := appconfig.Load()
	logger := logging.New(cfg.LogLevel)

	var awsCfg *aws.Config
	if cfg.SendGridAPIKey == "" && cfg.SESFromEmail != "" {
		loaded, err := mainconfig.LoadAWSConfig(context.Background(), cfg)
		if err != nil {
			logger.Error("failed to load AWS config", "error", err)
			os.Exit(1)
		}
		awsCfg = &loaded
	}

	notifier := bootstrap.BuildQuoteNotifier(cfg, awsCfg, logger)
	lambda.Start(func(ctx context.Context, evt lambdaevents.SQSEvent) (lambdaevents.SQSEventResponse, error) {
		return handle(ctx, notifier, logger, evt), nil
	})
}

// handle emails the owner for each quote event. Undecodable messages are
// dropped; send failures come back as batch item failures for SQS to retry.
func handle(ctx context.Context, notifier quoteNotifier, logger *logging.Logger, evt lambdaevents.SQSEvent) lambdaevents.SQSEventResponse {
	var resp lambdaevents.SQSEventResponse
	for _, record := range evt.Records {
		env, quote, err := events.DecodeQuoteRequested([]byte(record.Body))
		if err != nil {
			logger.Warn("dropping undecodable quote message", "message_id", record.MessageId, "error", err)
			continue
		}
		if err := notifier.NotifyQuoteRequested(ctx, quote); err != nil {
			logger.Error("quote notification failed",
				"message_id", record.MessageId,
				"event_id", env.EventID.String(),
				"quote_id", quote.QuoteID,
				"error", err,
			)
			resp.BatchItemFailures = append(resp.BatchItemFailures, lambdaevents.SQSBatchItemFailure{
				ItemIdentifier: record.MessageId,
			})
			continue
		}
		logger.Info("quote notification sent", "quote_id", quote.QuoteID, "event_id", env.EventID.String())
	}
	return resp
}
