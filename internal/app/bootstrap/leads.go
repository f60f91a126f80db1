package bootstrap

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/jackc/pgx/v5/pgxpool"

	appconfig "github.com/wolfman30/jaideeclear-quotes/internal/config"
	"github.com/wolfman30/jaideeclear-quotes/internal/leads"
	"github.com/wolfman30/jaideeclear-quotes/pkg/logging"
)

// HealthFunc is a readiness probe for a backing service.
type HealthFunc func(ctx context.Context) error

// LeadsStore is the repository plus its lifecycle hooks.
type LeadsStore struct {
	Repo   leads.Repository
	Health HealthFunc
	Close  func()
}

// BuildLeadsRepository opens the configured lead backend (memory, postgres, sqlite, dynamodb).
func BuildLeadsRepository(ctx context.Context, cfg *appconfig.Config, awsCfg *aws.Config, logger *logging.Logger) (*LeadsStore, error) {
	if logger == nil {
		logger = logging.Default()
	}
	noop := func() {}
	switch cfg.LeadsBackend {
	case "", "memory":
		logger.Info("leads stored in memory")
		return &LeadsStore{Repo: leads.NewInMemoryRepository(), Close: noop}, nil

	case "postgres":
		if cfg.DatabaseURL == "" {
			return nil, fmt.Errorf("bootstrap: DATABASE_URL is required for the postgres leads backend")
		}
		pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("bootstrap: connect postgres: %w", err)
		}
		if err := pool.Ping(ctx); err != nil {
			pool.Close()
			return nil, fmt.Errorf("bootstrap: ping postgres: %w", err)
		}
		logger.Info("leads stored in postgres")
		return &LeadsStore{Repo: leads.NewPostgresRepository(pool), Health: pool.Ping, Close: pool.Close}, nil

	case "sqlite":
		repo, err := leads.OpenSQLite(ctx, cfg.SQLitePath)
		if err != nil {
			return nil, err
		}
		logger.Info("leads stored in sqlite", "path", cfg.SQLitePath)
		return &LeadsStore{Repo: repo, Close: func() { _ = repo.Close() }}, nil

	case "dynamodb":
		if awsCfg == nil {
			return nil, fmt.Errorf("bootstrap: aws config is required for the dynamodb leads backend")
		}
		logger.Info("leads stored in dynamodb", "table", cfg.LeadsTable)
		return &LeadsStore{
			Repo:  leads.NewDynamoRepository(dynamodb.NewFromConfig(*awsCfg), cfg.LeadsTable),
			Close: noop,
		}, nil
	}
	return nil, fmt.Errorf("bootstrap: unknown LEADS_BACKEND %q", cfg.LeadsBackend)
}
