// Package config loads service configuration from environment variables.
package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// SMTP configures the outgoing mail connection.
type SMTP struct {
	Host     string `env:"SMTP_HOST"`
	Port     int    `env:"SMTP_PORT" envDefault:"587"`
	Username string `env:"SMTP_USER"`
	Password string `env:"SMTP_PASS"`
	From     string `env:"SMTP_FROM" envDefault:"Event <noreply@example.com>"`
	ReplyTo  string `env:"SMTP_REPLY_TO"`

	// VerifyTimeout bounds the connectivity check before each send, so
	// a single registration cannot hang on an unreachable server.
	VerifyTimeout time.Duration `env:"SMTP_VERIFY_TIMEOUT" envDefault:"10s"`
}

// Event holds the details rendered into the credential email.
type Event struct {
	Name       string `env:"EVENT_NAME" envDefault:"Event"`
	Date       string `env:"EVENT_DATE"`
	Venue      string `env:"EVENT_VENUE"`
	Time       string `env:"EVENT_TIME"`
	ArtworkURL string `env:"ARTWORK_URL"`
}

// Config is the full service configuration.
type Config struct {
	Port       int    `env:"PORT" envDefault:"3000"`
	AppBaseURL string `env:"APP_BASE_URL"`

	// DataDir holds the JSON snapshot (db.json).
	DataDir string `env:"DATA_DIR" envDefault:"./data"`

	// PublicDir is served statically; QR artifacts land in
	// PublicDir/qrcodes keyed by visitor id.
	PublicDir string `env:"PUBLIC_DIR" envDefault:"./public"`

	// MirrorDBPath enables the SQLite mirror sink when set. Empty
	// means the mirror is disabled.
	MirrorDBPath string `env:"MIRROR_DB_PATH"`

	SMTP  SMTP
	Event Event
}

// Load parses configuration from environment variables.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if cfg.AppBaseURL == "" {
		cfg.AppBaseURL = fmt.Sprintf("http://localhost:%d", cfg.Port)
	}
	return cfg, nil
}
