package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App struct {
		Name string `envconfig:"APP_NAME" default:"kongbun"`
		Port int    `envconfig:"PORT" default:"8080"`
	}

	DB struct {
		Driver   string `envconfig:"DB_DRIVER" default:"sqlite"`
		Host     string `envconfig:"DB_HOST" default:"localhost"`
		Port     int    `envconfig:"DB_PORT" default:"5432"`
		User     string `envconfig:"DB_USER" default:"postgres"`
		Password string `envconfig:"DB_PASSWORD" default:""`
		Name     string `envconfig:"DB_NAME" default:"kongbun"`
		Path     string `envconfig:"DB_PATH" default:"kongbun.db"`
	}

	Server struct {
		Timeout time.Duration `envconfig:"SERVER_TIMEOUT" default:"30s"`
	}

	Auth struct {
		JWTSecret string `envconfig:"AUTH_JWT_SECRET"`
		Issuer    string `envconfig:"AUTH_ISSUER" default:"kongbun"`
	}

	Ledger struct {
		CampaignTransitions string `envconfig:"LEDGER_CAMPAIGN_TRANSITIONS" default:"unrestricted"`
		RequireOpenCampaign bool   `envconfig:"LEDGER_REQUIRE_OPEN_CAMPAIGN" default:"false"`
	}

	Media struct {
		// Driver is one of "url", "s3" or "none".
		Driver     string        `envconfig:"MEDIA_DRIVER" default:"none"`
		BaseURL    string        `envconfig:"MEDIA_BASE_URL"`
		S3Bucket   string        `envconfig:"MEDIA_S3_BUCKET"`
		S3Region   string        `envconfig:"MEDIA_S3_REGION" default:"ap-southeast-1"`
		S3Endpoint string        `envconfig:"MEDIA_S3_ENDPOINT"`
		PresignTTL time.Duration `envconfig:"MEDIA_PRESIGN_TTL" default:"15m"`
	}

	Notify struct {
		WebhookURL string        `envconfig:"NOTIFY_WEBHOOK_URL"`
		Token      string        `envconfig:"NOTIFY_TOKEN"`
		Timeout    time.Duration `envconfig:"NOTIFY_TIMEOUT" default:"10s"`
	}

	Telemetry struct {
		Enabled  bool   `envconfig:"OTEL_ENABLED" default:"false"`
		Endpoint string `envconfig:"OTEL_EXPORTER_OTLP_ENDPOINT"`
	}

	CORS struct {
		AllowedOrigins []string `envconfig:"CORS_ALLOWED_ORIGINS"`
	}
}

// ConnectionString is the DSN for the configured driver: a Postgres URL, or
// the SQLite file path.
func (c *Config) ConnectionString() string {
	if strings.EqualFold(c.DB.Driver, "sqlite") {
		return c.DB.Path
	}

	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.DB.User, c.DB.Password),
		Host:     fmt.Sprintf("%s:%d", c.DB.Host, c.DB.Port),
		Path:     c.DB.Name,
		RawQuery: "sslmode=disable",
	}

	return u.String()
}

// ValidateAPI checks the settings only the HTTP API needs.
func (c *Config) ValidateAPI() error {
	if c.Auth.JWTSecret == "" {
		return errors.New("AUTH_JWT_SECRET is required")
	}

	return nil
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process config: %w", err)
	}

	switch cfg.Media.Driver {
	case "none", "url", "s3":
	default:
		return nil, fmt.Errorf("unknown media driver %q", cfg.Media.Driver)
	}

	return &cfg, nil
}
