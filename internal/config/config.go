package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/rs/zerolog/log"
)

// Config holds every environment input recognized by the feedback service.
type Config struct {
	Port string `envconfig:"PORT" default:"8080"`

	// Remote store. Both URL and key must be present to leave local-file mode.
	StoreURL    string `envconfig:"STORE_URL"`
	StoreKey    string `envconfig:"STORE_KEY"`
	StoreDBName string `envconfig:"STORE_DB_NAME" default:"feedback"`

	DataFile string `envconfig:"DATA_FILE" default:"data/submissions.json"`

	// Analysis provider
	GeminiAPIKey    string        `envconfig:"GEMINI_API_KEY"`
	AnalysisBaseURL string        `envconfig:"ANALYSIS_BASE_URL" default:"https://generativelanguage.googleapis.com/v1beta/openai/"`
	AnalysisModel   string        `envconfig:"ANALYSIS_MODEL" default:"gemini-2.5-flash"`
	AnalysisTimeout time.Duration `envconfig:"ANALYSIS_TIMEOUT" default:"30s"`

	DisplayTZ string `envconfig:"DISPLAY_TZ" default:"Local"`

	// Critical feedback alerts
	ResendAPIKey   string `envconfig:"RESEND_API_KEY"`
	AlertFromEmail string `envconfig:"ALERT_FROM_EMAIL"`
	AlertToEmail   string `envconfig:"ALERT_TO_EMAIL"`

	LogLevel           string `envconfig:"LOG_LEVEL" default:"info"`
	CORSAllowedOrigins string `envconfig:"CORS_ALLOWED_ORIGINS" default:"*"`
}

// Load reads an optional .env file and then the process environment.
func Load() (*Config, error) {
	// Missing .env is fine: in production the variables are set directly.
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("config: process environment: %w", err)
	}
	if cfg.AnalysisTimeout <= 0 {
		return nil, fmt.Errorf("config: ANALYSIS_TIMEOUT must be positive, got %s", cfg.AnalysisTimeout)
	}
	if _, err := cfg.Location(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// LogSummary reports the resolved configuration without leaking secrets.
func (c *Config) LogSummary() {
	log.Info().
		Str("port", c.Port).
		Bool("remote_store", c.RemoteConfigured()).
		Str("store_driver", c.StoreDriver()).
		Str("data_file", c.DataFile).
		Bool("analysis", c.AnalysisConfigured()).
		Str("analysis_model", c.AnalysisModel).
		Dur("analysis_timeout", c.AnalysisTimeout).
		Bool("email_alerts", c.EmailConfigured()).
		Str("display_tz", c.DisplayTZ).
		Msg("Configuration loaded")
}

// RemoteConfigured reports whether the remote store credential pair is present.
func (c *Config) RemoteConfigured() bool {
	return strings.TrimSpace(c.StoreURL) != "" && strings.TrimSpace(c.StoreKey) != ""
}

// StoreDriver derives the remote driver from the STORE_URL scheme.
// It returns "" when the remote store is not configured or the scheme is unknown.
func (c *Config) StoreDriver() string {
	if !c.RemoteConfigured() {
		return ""
	}
	u := strings.ToLower(strings.TrimSpace(c.StoreURL))
	switch {
	case strings.HasPrefix(u, "mongodb://"), strings.HasPrefix(u, "mongodb+srv://"):
		return "mongo"
	case strings.HasPrefix(u, "postgres://"), strings.HasPrefix(u, "postgresql://"):
		return "postgres"
	default:
		return ""
	}
}

func (c *Config) AnalysisConfigured() bool {
	return strings.TrimSpace(c.GeminiAPIKey) != ""
}

func (c *Config) EmailConfigured() bool {
	return c.ResendAPIKey != "" && c.AlertFromEmail != "" && c.AlertToEmail != ""
}

// AllowedOrigins splits CORS_ALLOWED_ORIGINS on commas.
func (c *Config) AllowedOrigins() []string {
	var out []string
	for _, o := range strings.Split(c.CORSAllowedOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			out = append(out, o)
		}
	}
	if len(out) == 0 {
		return []string{"*"}
	}
	return out
}

// Location resolves DISPLAY_TZ.
func (c *Config) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.DisplayTZ)
	if err != nil {
		return nil, fmt.Errorf("config: invalid DISPLAY_TZ %q: %w", c.DisplayTZ, err)
	}
	return loc, nil
}

func (c *Config) Addr() string {
	return ":" + c.Port
}
