package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"

	"github.com/noah-wardlow/tt/internal/oauth"
)

// Config represents the full runtime configuration tree.
type Config struct {
	App        AppConfig
	Database   DatabaseConfig
	Redis      RedisConfig
	Auth       AuthConfig
	OAuth      OAuthConfig
	Stripe     StripeConfig
	Cors       CORSConfig
	RateLimit  RateLimitConfig
	Monitoring MonitoringConfig
}

// AppConfig captures application-level settings.
type AppConfig struct {
	Name    string
	Env     string
	Version string
	Port    string
	BaseURL string
}

// DatabaseConfig stores database connectivity info.
type DatabaseConfig struct {
	Driver          string `validate:"oneof=postgres mysql"`
	DSN             string `validate:"required"`
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	AutoMigrate     bool
}

// RedisConfig stores redis connectivity info. An empty Addr disables redis
// and session/rate-limit state falls back to process memory.
type RedisConfig struct {
	Addr     string
	Username string
	Password string
	DB       int
	TLS      bool
}

// AuthConfig stores session and OAuth-state signing settings.
type AuthConfig struct {
	Secret     string `validate:"required"`
	SessionTTL time.Duration
	StateTTL   time.Duration
}

// ProviderCredentials holds one provider's OAuth client pair.
type ProviderCredentials struct {
	ClientID     string
	ClientSecret string
}

// OAuthConfig maps enabled providers to their credentials.
type OAuthConfig struct {
	Providers map[oauth.Provider]ProviderCredentials
}

// StripeConfig holds payments secrets. The Connect webhook uses its own
// signing secret, distinct from the standard webhook secret.
type StripeConfig struct {
	SecretKey            string
	WebhookSecret        string
	ConnectWebhookSecret string
	MaxRecentEvents      int
}

// CORSConfig declares cross-origin policy. Origins outside AllowedOrigins
// are answered with DefaultOrigin rather than rejected.
type CORSConfig struct {
	AllowedOrigins   []string
	DefaultOrigin    string `validate:"required"`
	AllowedMethods   []string
	AllowedHeaders   []string
	AllowCredentials bool
}

// RateLimitConfig manages throttling parameters for the auth routes.
type RateLimitConfig struct {
	Enabled           bool
	RequestsPerMinute int
	Burst             int
	RedisPrefix       string
}

// MonitoringConfig adds observability tunables.
type MonitoringConfig struct {
	PrometheusEnabled bool
	SentryDSN         string
	SentrySampleRate  float64
}

// Load reads from environment (optionally .env) and builds Config.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		App: AppConfig{
			Name:    getenv("APP_NAME", "tt-server"),
			Env:     getenv("APP_ENV", "development"),
			Version: getenv("APP_VERSION", "0.1.0"),
			Port:    getenv("PORT", "8787"),
			BaseURL: getenv("BASE_URL", "http://localhost:8787"),
		},
		Database: DatabaseConfig{
			Driver:          strings.ToLower(getenv("DB_DRIVER", "postgres")),
			DSN:             getenv("DB_DSN", "postgres://postgres:postgres@db:5432/tt?sslmode=disable"),
			MaxOpenConns:    getInt("DB_MAX_OPEN", 25),
			MaxIdleConns:    getInt("DB_MAX_IDLE", 10),
			ConnMaxLifetime: time.Duration(getInt("DB_CONN_MAX_LIFETIME_MIN", 30)) * time.Minute,
			AutoMigrate:     getBool("DB_AUTO_MIGRATE", true),
		},
		Redis: RedisConfig{
			Addr:     getenv("REDIS_ADDR", ""),
			Username: getenv("REDIS_USER", ""),
			Password: getenv("REDIS_PASSWORD", ""),
			DB:       getInt("REDIS_DB", 0),
			TLS:      getBool("REDIS_TLS", false),
		},
		Auth: AuthConfig{
			Secret:     getenv("AUTH_SECRET", "default-secret-change-me"),
			SessionTTL: time.Duration(getInt("SESSION_TTL_HOURS", 168)) * time.Hour,
			StateTTL:   time.Duration(getInt("OAUTH_STATE_TTL_MIN", 10)) * time.Minute,
		},
		OAuth: OAuthConfig{
			Providers: loadProviderCredentials(),
		},
		Stripe: StripeConfig{
			SecretKey:            getenv("STRIPE_SECRET_KEY", ""),
			WebhookSecret:        getenv("STRIPE_WEBHOOK_SECRET", ""),
			ConnectWebhookSecret: getenv("STRIPE_CONNECT_WEBHOOK_SECRET", ""),
			MaxRecentEvents:      getInt("STRIPE_EVENT_LOG_LIMIT", 200),
		},
		Cors: CORSConfig{
			AllowedOrigins:   splitAndTrim(getenv("CORS_ORIGINS", "http://localhost:3000,http://localhost:8787,https://tt-client.nmwardlow.workers.dev")),
			DefaultOrigin:    getenv("CORS_DEFAULT_ORIGIN", "https://tt-client.nmwardlow.workers.dev"),
			AllowedMethods:   splitAndTrim(getenv("CORS_METHODS", "GET,POST,PUT,DELETE,OPTIONS")),
			AllowedHeaders:   splitAndTrim(getenv("CORS_HEADERS", "Authorization,Content-Type")),
			AllowCredentials: getBool("CORS_ALLOW_CREDENTIALS", true),
		},
		RateLimit: RateLimitConfig{
			Enabled:           getBool("RATE_LIMIT_ENABLED", true),
			RequestsPerMinute: getInt("RATE_LIMIT_PER_MIN", 60),
			Burst:             getInt("RATE_LIMIT_BURST", 5),
			RedisPrefix:       getenv("RATE_LIMIT_PREFIX", "ratelimit"),
		},
		Monitoring: MonitoringConfig{
			PrometheusEnabled: getBool("PROMETHEUS_ENABLED", true),
			SentryDSN:         getenv("SENTRY_DSN", ""),
			SentrySampleRate:  getFloat("SENTRY_SAMPLE_RATE", 0.2),
		},
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// loadProviderCredentials reads client id/secret pairs for every enabled
// provider using the registry's env key derivation. Missing values load as
// empty strings; the auth service skips providers without credentials.
func loadProviderCredentials() map[oauth.Provider]ProviderCredentials {
	creds := make(map[oauth.Provider]ProviderCredentials)
	for _, p := range oauth.EnabledProviders() {
		creds[p] = ProviderCredentials{
			ClientID:     getenv(oauth.ClientIDEnvKey(p), ""),
			ClientSecret: getenv(oauth.ClientSecretEnvKey(p), ""),
		}
	}
	return creds
}

func (c *Config) validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

func getenv(key, def string) string {
	val := strings.TrimSpace(os.Getenv(key))
	if val == "" {
		return def
	}
	return val
}

func getInt(key string, def int) int {
	val := strings.TrimSpace(os.Getenv(key))
	if val == "" {
		return def
	}
	i, err := strconv.Atoi(val)
	if err != nil {
		return def
	}
	return i
}

func getBool(key string, def bool) bool {
	val := strings.TrimSpace(os.Getenv(key))
	if val == "" {
		return def
	}
	parsed, err := strconv.ParseBool(val)
	if err != nil {
		return def
	}
	return parsed
}

func getFloat(key string, def float64) float64 {
	val := strings.TrimSpace(os.Getenv(key))
	if val == "" {
		return def
	}
	parsed, err := strconv.ParseFloat(val, 64)
	if err != nil {
		return def
	}
	return parsed
}

func splitAndTrim(val string) []string {
	if val == "" {
		return nil
	}
	parts := strings.Split(val, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		trim := strings.TrimSpace(p)
		if trim != "" {
			out = append(out, trim)
		}
	}
	return out
}
