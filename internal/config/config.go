package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds application configuration
type Config struct {
	Port          string
	Env           string
	PublicBaseURL string
	LogLevel      string
	CookieSecure  bool

	// Site content (brand, contact channels) override file
	SiteConfigPath string

	// Session storage
	RedisAddr     string
	RedisPassword string
	RedisTLS      bool
	SessionTTL    time.Duration

	// Submission pipeline
	SubmissionSinks []string
	SubmitDelay     time.Duration
	SubmitTimeout   time.Duration

	// Lead storage
	LeadsBackend string
	DatabaseURL  string
	SQLitePath   string
	LeadsTable   string

	// AWS
	AWSRegion           string
	AWSAccessKeyID      string
	AWSSecretAccessKey  string
	AWSEndpointOverride string
	QuoteQueueURL       string
	ArchiveBucket       string

	// Email notification
	SendGridAPIKey    string
	SendGridFromEmail string
	SendGridFromName  string
	SESFromEmail      string
	NotifyEmailTo     string
	NotifyReplyTo     string

	// HTTP surface
	AdminJWTSecret     string
	CORSAllowedOrigins []string
	RateLimitRPS       float64
	RateLimitBurst     int
}

// Load reads configuration from environment variables. A .env file in the
// working directory is honored when present; real environment values win.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		Port:           getEnv("PORT", "8080"),
		Env:            getEnv("ENV", "development"),
		PublicBaseURL:  getEnv("PUBLIC_BASE_URL", ""),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		CookieSecure:   getEnvAsBool("COOKIE_SECURE", false),
		SiteConfigPath: getEnv("SITE_CONFIG_PATH", ""),

		RedisAddr:     getEnv("REDIS_ADDR", ""),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisTLS:      getEnvAsBool("REDIS_TLS", false),
		SessionTTL:    getEnvAsDuration("SESSION_TTL", 2*time.Hour),

		SubmissionSinks: getEnvAsList("SUBMISSION_SINKS", []string{"delay"}),
		SubmitDelay:     getEnvAsDuration("SUBMIT_DELAY", 1500*time.Millisecond),
		SubmitTimeout:   getEnvAsDuration("SUBMIT_TIMEOUT", 30*time.Second),

		LeadsBackend: strings.ToLower(getEnv("LEADS_BACKEND", "memory")),
		DatabaseURL:  getEnv("DATABASE_URL", ""),
		SQLitePath:   getEnv("SQLITE_PATH", "quotes.db"),
		LeadsTable:   getEnv("LEADS_TABLE", "quote_requests"),

		AWSRegion:           getEnv("AWS_REGION", "ap-southeast-1"),
		AWSAccessKeyID:      getEnv("AWS_ACCESS_KEY_ID", ""),
		AWSSecretAccessKey:  getEnv("AWS_SECRET_ACCESS_KEY", ""),
		AWSEndpointOverride: getEnv("AWS_ENDPOINT_OVERRIDE", ""),
		QuoteQueueURL:       getEnv("QUOTE_QUEUE_URL", ""),
		ArchiveBucket:       getEnv("ARCHIVE_BUCKET", ""),

		SendGridAPIKey:    getEnv("SENDGRID_API_KEY", ""),
		SendGridFromEmail: getEnv("SENDGRID_FROM_EMAIL", ""),
		SendGridFromName:  getEnv("SENDGRID_FROM_NAME", "JaiDeeClear"),
		SESFromEmail:      getEnv("SES_FROM_EMAIL", ""),
		NotifyEmailTo:     getEnv("NOTIFY_EMAIL_TO", "jaideeclear@gmail.com"),
		NotifyReplyTo:     getEnv("NOTIFY_REPLY_TO", ""),

		AdminJWTSecret:     getEnv("ADMIN_JWT_SECRET", ""),
		CORSAllowedOrigins: getEnvAsList("CORS_ALLOWED_ORIGINS", nil),
		RateLimitRPS:       getEnvAsFloat("RATE_LIMIT_RPS", 2),
		RateLimitBurst:     getEnvAsInt("RATE_LIMIT_BURST", 10),
	}
}

// IsProduction reports whether ENV is production.
func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.Env, "production")
}

// SecureCookies reports whether session cookies carry the Secure flag.
// Production always does; COOKIE_SECURE opts in elsewhere.
func (c *Config) SecureCookies() bool {
	return c.CookieSecure || c.IsProduction()
}

const (
	minWriteTimeout    = 15 * time.Second
	writeTimeoutMargin = 5 * time.Second
)

// HTTPWriteTimeout bounds a response. A submit POST waits for delivery, so the
// bound covers SUBMIT_TIMEOUT plus a margin to render the result. Zero means
// delivery is unbounded and so is the write.
func (c *Config) HTTPWriteTimeout() time.Duration {
	if c.SubmitTimeout <= 0 {
		return 0
	}
	if d := c.SubmitTimeout + writeTimeoutMargin; d > minWriteTimeout {
		return d
	}
	return minWriteTimeout
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsInt retrieves an environment variable as an integer or returns a default value
func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseFloat(valueStr, 64); err == nil {
		return value
	}
	return defaultValue
}

// getEnvAsBool retrieves an environment variable as a boolean or returns a default value
func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseBool(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	if value, err := time.ParseDuration(valueStr); err == nil {
		return value
	}
	return defaultValue
}

// getEnvAsList splits a comma-separated variable, dropping blanks.
func getEnvAsList(key string, defaultValue []string) []string {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	var out []string
	for _, part := range strings.Split(valueStr, ",") {
		part = strings.ToLower(strings.TrimSpace(part))
		if part != "" {
			out = append(out, part)
		}
	}
	if len(out) == 0 {
		return defaultValue
	}
	return out
}
