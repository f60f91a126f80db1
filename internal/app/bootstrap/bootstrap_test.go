package bootstrap

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appconfig "github.com/wolfman30/jaideeclear-quotes/internal/config"
	"github.com/wolfman30/jaideeclear-quotes/internal/events"
	"github.com/wolfman30/jaideeclear-quotes/internal/leads"
	"github.com/wolfman30/jaideeclear-quotes/internal/notify"
	"github.com/wolfman30/jaideeclear-quotes/internal/quotes"
	"github.com/wolfman30/jaideeclear-quotes/internal/session"
)

func TestBuildRedisClient(t *testing.T) {
	assert.Nil(t, BuildRedisClient(context.Background(), &appconfig.Config{}, nil, true))

	mr := miniredis.RunT(t)
	client := BuildRedisClient(context.Background(), &appconfig.Config{RedisAddr: mr.Addr()}, nil, true)
	require.NotNil(t, client)
	defer client.Close()

	assert.Nil(t, BuildRedisClient(context.Background(), &appconfig.Config{RedisAddr: "127.0.0.1:1"}, nil, true))
}

func TestBuildSessionStore(t *testing.T) {
	cfg := &appconfig.Config{SessionTTL: time.Hour, SubmitTimeout: time.Second}
	factory := ControllerFactory(cfg, quotes.SinkFunc(func(context.Context, quotes.Submission) error { return nil }), "web", nil)

	_, isMemory := BuildSessionStore(cfg, nil, factory, nil).(*session.MemoryStore)
	assert.True(t, isMemory)

	mr := miniredis.RunT(t)
	client := BuildRedisClient(context.Background(), &appconfig.Config{RedisAddr: mr.Addr()}, nil, false)
	defer client.Close()
	_, isRedis := BuildSessionStore(cfg, client, factory, nil).(*session.RedisStore)
	assert.True(t, isRedis)
}

func TestBuildLeadsRepository(t *testing.T) {
	ctx := context.Background()

	mem, err := BuildLeadsRepository(ctx, &appconfig.Config{LeadsBackend: "memory"}, nil, nil)
	require.NoError(t, err)
	_, ok := mem.Repo.(*leads.InMemoryRepository)
	assert.True(t, ok)

	lite, err := BuildLeadsRepository(ctx, &appconfig.Config{
		LeadsBackend: "sqlite",
		SQLitePath:   filepath.Join(t.TempDir(), "quotes.db"),
	}, nil, nil)
	require.NoError(t, err)
	defer lite.Close()
	_, err = lite.Repo.Create(ctx, &leads.CreateLeadRequest{
		Name: "Nok", Phone: "0812345678", Location: "Ari", MeasurementDate: "2025-12-01",
	})
	require.NoError(t, err)

	_, err = BuildLeadsRepository(ctx, &appconfig.Config{LeadsBackend: "postgres"}, nil, nil)
	assert.Error(t, err)
	_, err = BuildLeadsRepository(ctx, &appconfig.Config{LeadsBackend: "dynamodb"}, nil, nil)
	assert.Error(t, err)
	_, err = BuildLeadsRepository(ctx, &appconfig.Config{LeadsBackend: "mongo"}, nil, nil)
	assert.Error(t, err)
}

func TestBuildSinkPipeline(t *testing.T) {
	cfg := &appconfig.Config{
		SubmissionSinks: []string{SinkDelay, SinkRepository, SinkQueue, SinkNotify},
		NotifyEmailTo:   "jaideeclear@gmail.com",
	}
	repo := leads.NewInMemoryRepository()
	pipeline, err := BuildSink(cfg, SinkDeps{Leads: repo})
	require.NoError(t, err)
	assert.Equal(t, []string{"delay", "repository", "queue", "notify"}, pipeline.Stages())

	err = pipeline.Deliver(context.Background(), quotes.Submission{
		ID:     "quote-1",
		Source: "web",
		Fields: quotes.Fields{Name: "Nok", Phone: "0812345678", Location: "Ari", MeasurementDate: "2025-12-01"},
	})
	require.NoError(t, err)
	_, err = repo.GetByID(context.Background(), "quote-1")
	assert.NoError(t, err)
}

func TestBuildSinkErrors(t *testing.T) {
	_, err := BuildSink(&appconfig.Config{}, SinkDeps{})
	assert.Error(t, err)
	_, err = BuildSink(&appconfig.Config{SubmissionSinks: []string{"carrier-pigeon"}}, SinkDeps{})
	assert.Error(t, err)
	_, err = BuildSink(&appconfig.Config{SubmissionSinks: []string{SinkRepository}}, SinkDeps{})
	assert.Error(t, err)
	_, err = BuildSink(&appconfig.Config{SubmissionSinks: []string{SinkArchive}}, SinkDeps{})
	assert.Error(t, err)
}

func TestBuildEmailSenderFallsBackToStub(t *testing.T) {
	_, ok := BuildEmailSender(&appconfig.Config{}, nil, nil).(*notify.StubEmailSender)
	assert.True(t, ok)

	_, ok = BuildEmailSender(&appconfig.Config{SendGridAPIKey: "key", SendGridFromEmail: "a@b.c"}, nil, nil).(*notify.SendGridSender)
	assert.True(t, ok)
}

func TestBuildQuoteNotifierUsesStubWithoutProvider(t *testing.T) {
	n := BuildQuoteNotifier(&appconfig.Config{
		NotifyEmailTo: "jaideeclear@gmail.com",
		NotifyReplyTo: "sales@jaideeclear.com",
		PublicBaseURL: "https://quotes.jaideeclear.com",
	}, nil, nil)
	require.NotNil(t, n)
	assert.NoError(t, n.NotifyQuoteRequested(context.Background(), events.QuoteRequestedV1{QuoteID: "quote-1", Name: "Nok"}))
}

func TestNeedsAWS(t *testing.T) {
	assert.False(t, NeedsAWS(&appconfig.Config{SubmissionSinks: []string{SinkDelay}}))
	assert.True(t, NeedsAWS(&appconfig.Config{LeadsBackend: "dynamodb"}))
	assert.False(t, NeedsAWS(&appconfig.Config{SubmissionSinks: []string{SinkRepository, SinkQueue}}))
	assert.True(t, NeedsAWS(&appconfig.Config{SubmissionSinks: []string{SinkQueue}, QuoteQueueURL: "https://sqs.local/quotes"}))
	assert.True(t, NeedsAWS(&appconfig.Config{SubmissionSinks: []string{SinkArchive}}))
	assert.True(t, NeedsAWS(&appconfig.Config{SubmissionSinks: []string{SinkNotify}, SESFromEmail: "quotes@jaideeclear.com"}))
	assert.False(t, NeedsAWS(&appconfig.Config{SubmissionSinks: []string{SinkNotify}}))
}
