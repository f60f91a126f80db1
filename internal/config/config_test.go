package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("ENV", "")
	t.Setenv("LOG_LEVEL", "")
	t.Setenv("SUBMISSION_SINKS", "")
	t.Setenv("SUBMIT_DELAY", "")
	t.Setenv("LEADS_BACKEND", "")
	t.Setenv("NOTIFY_EMAIL_TO", "")
	t.Setenv("CORS_ALLOWED_ORIGINS", "")
	cfg := Load()
	if cfg.Port != "8080" {
		t.Fatalf("expected default port, got %s", cfg.Port)
	}
	if cfg.Env != "development" {
		t.Fatalf("expected default env, got %s", cfg.Env)
	}
	if cfg.SubmitDelay != 1500*time.Millisecond {
		t.Fatalf("expected default submit delay of 1.5s, got %s", cfg.SubmitDelay)
	}
	if len(cfg.SubmissionSinks) != 1 || cfg.SubmissionSinks[0] != "delay" {
		t.Fatalf("expected delay sink by default, got %v", cfg.SubmissionSinks)
	}
	if cfg.LeadsBackend != "memory" {
		t.Fatalf("expected memory leads backend, got %s", cfg.LeadsBackend)
	}
	if cfg.NotifyEmailTo != "jaideeclear@gmail.com" {
		t.Fatalf("expected default notify address, got %s", cfg.NotifyEmailTo)
	}
	if cfg.CORSAllowedOrigins != nil {
		t.Fatalf("expected no CORS origins, got %v", cfg.CORSAllowedOrigins)
	}
	if cfg.IsProduction() {
		t.Fatal("development should not be production")
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("ENV", "production")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("DATABASE_URL", "postgres://user@host/db")
	t.Setenv("LEADS_BACKEND", "Postgres")
	t.Setenv("SUBMISSION_SINKS", "repository, Queue,,email")
	t.Setenv("SUBMIT_DELAY", "250ms")
	t.Setenv("SESSION_TTL", "45m")
	t.Setenv("RATE_LIMIT_RPS", "0.5")
	t.Setenv("RATE_LIMIT_BURST", "3")
	t.Setenv("COOKIE_SECURE", "true")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://jaideeclear.com, https://www.jaideeclear.com")
	cfg := Load()
	if cfg.Port != "9090" {
		t.Fatalf("expected override port, got %s", cfg.Port)
	}
	if !cfg.IsProduction() {
		t.Fatalf("expected production env, got %s", cfg.Env)
	}
	if cfg.DatabaseURL != "postgres://user@host/db" {
		t.Fatalf("expected db override, got %s", cfg.DatabaseURL)
	}
	if cfg.LeadsBackend != "postgres" {
		t.Fatalf("expected lowercased backend, got %s", cfg.LeadsBackend)
	}
	want := []string{"repository", "queue", "email"}
	if len(cfg.SubmissionSinks) != len(want) {
		t.Fatalf("expected sinks %v, got %v", want, cfg.SubmissionSinks)
	}
	for i := range want {
		if cfg.SubmissionSinks[i] != want[i] {
			t.Fatalf("expected sinks %v, got %v", want, cfg.SubmissionSinks)
		}
	}
	if cfg.SubmitDelay != 250*time.Millisecond {
		t.Fatalf("expected submit delay override, got %s", cfg.SubmitDelay)
	}
	if cfg.SessionTTL != 45*time.Minute {
		t.Fatalf("expected session ttl override, got %s", cfg.SessionTTL)
	}
	if cfg.RateLimitRPS != 0.5 || cfg.RateLimitBurst != 3 {
		t.Fatalf("expected rate limit override, got %v/%d", cfg.RateLimitRPS, cfg.RateLimitBurst)
	}
	if !cfg.CookieSecure {
		t.Fatal("expected secure cookies")
	}
	if len(cfg.CORSAllowedOrigins) != 2 {
		t.Fatalf("expected two CORS origins, got %v", cfg.CORSAllowedOrigins)
	}
}

func TestInvalidValuesFallBack(t *testing.T) {
	t.Setenv("SUBMIT_DELAY", "soon")
	t.Setenv("RATE_LIMIT_BURST", "many")
	t.Setenv("REDIS_TLS", "maybe")
	cfg := Load()
	if cfg.SubmitDelay != 1500*time.Millisecond {
		t.Fatalf("expected fallback delay, got %s", cfg.SubmitDelay)
	}
	if cfg.RateLimitBurst != 10 {
		t.Fatalf("expected fallback burst, got %d", cfg.RateLimitBurst)
	}
	if cfg.RedisTLS {
		t.Fatal("expected fallback redis tls false")
	}
}

func TestHTTPWriteTimeoutCoversSubmit(t *testing.T) {
	cases := []struct {
		submit time.Duration
		want   time.Duration
	}{
		{submit: 30 * time.Second, want: 35 * time.Second},
		{submit: 2 * time.Second, want: 15 * time.Second},
		{submit: 0, want: 0},
	}
	for _, tc := range cases {
		cfg := &Config{SubmitTimeout: tc.submit}
		got := cfg.HTTPWriteTimeout()
		if got != tc.want {
			t.Fatalf("submit %s: expected write timeout %s, got %s", tc.submit, tc.want, got)
		}
		if tc.submit > 0 && got <= tc.submit {
			t.Fatalf("submit %s: write timeout %s would cut off the response", tc.submit, got)
		}
	}
}

func TestSecureCookies(t *testing.T) {
	if (&Config{Env: "development"}).SecureCookies() {
		t.Fatal("development defaults to insecure cookies")
	}
	if !(&Config{Env: "development", CookieSecure: true}).SecureCookies() {
		t.Fatal("COOKIE_SECURE should opt in")
	}
	if !(&Config{Env: "Production"}).SecureCookies() {
		t.Fatal("production always uses secure cookies")
	}
}
