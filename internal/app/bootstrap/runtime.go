package bootstrap

import (
	"context"
	"crypto/tls"
	"slices"
	"strings"

	"github.com/redis/go-redis/v9"

	appconfig "github.com/wolfman30/jaideeclear-quotes/internal/config"
	"github.com/wolfman30/jaideeclear-quotes/internal/quotes"
	"github.com/wolfman30/jaideeclear-quotes/internal/session"
	"github.com/wolfman30/jaideeclear-quotes/pkg/logging"
)

// BuildRedisClient returns a configured Redis client or nil when disabled.
// When verify is true, a ping is issued and failures return nil.
func BuildRedisClient(ctx context.Context, cfg *appconfig.Config, logger *logging.Logger, verify bool) *redis.Client {
	if cfg == nil || strings.TrimSpace(cfg.RedisAddr) == "" {
		return nil
	}
	if logger == nil {
		logger = logging.Default()
	}
	if ctx == nil {
		ctx = context.Background()
	}

	redisOptions := &redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
	}
	if cfg.RedisTLS {
		redisOptions.TLSConfig = &tls.Config{MinVersion: tls.VersionTLS12}
	}
	client := redis.NewClient(redisOptions)
	if !verify {
		return client
	}
	if err := client.Ping(ctx).Err(); err != nil {
		logger.Warn("redis not available, falling back to in-memory sessions", "error", err)
		_ = client.Close()
		return nil
	}
	return client
}

// ControllerFactory builds quote controllers bound to sink with the configured timeout.
func ControllerFactory(cfg *appconfig.Config, sink quotes.Sink, source string, logger *logging.Logger) session.Factory {
	opts := []quotes.Option{quotes.WithLogger(logger), quotes.WithSource(source)}
	if cfg != nil {
		opts = append(opts, quotes.WithSubmitTimeout(cfg.SubmitTimeout))
	}
	return func(st quotes.State) *quotes.Controller {
		return quotes.Restore(st, sink, opts...)
	}
}

// BuildSessionStore picks Redis-backed sessions when a client is available.
func BuildSessionStore(cfg *appconfig.Config, client *redis.Client, factory session.Factory, logger *logging.Logger) session.Store {
	if logger == nil {
		logger = logging.Default()
	}
	if client != nil {
		logger.Info("quote sessions stored in redis", "ttl", cfg.SessionTTL.String())
		return session.NewRedisStore(client, factory, cfg.SessionTTL, logger)
	}
	logger.Info("quote sessions stored in memory", "ttl", cfg.SessionTTL.String())
	return session.NewMemoryStore(factory, cfg.SessionTTL)
}

// NeedsAWS reports whether any configured component talks to AWS.
func NeedsAWS(cfg *appconfig.Config) bool {
	if cfg.LeadsBackend == "dynamodb" {
		return true
	}
	if slices.Contains(cfg.SubmissionSinks, SinkArchive) {
		return true
	}
	if slices.Contains(cfg.SubmissionSinks, SinkQueue) && cfg.QuoteQueueURL != "" {
		return true
	}
	return slices.Contains(cfg.SubmissionSinks, SinkNotify) && cfg.SendGridAPIKey == "" && cfg.SESFromEmail != ""
}
