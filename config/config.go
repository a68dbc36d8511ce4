package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

type Config struct {
	Port     string `env:"PORT" envDefault:"8080"`
	Env      string `env:"ENV" envDefault:"development"`
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`

	DatabaseURL    string `env:"DATABASE_URL,required"`
	DBMaxOpenConns int    `env:"DB_MAX_OPEN_CONNS" envDefault:"25"`
	DBMaxIdleConns int    `env:"DB_MAX_IDLE_CONNS" envDefault:"5"`

	// JWTSecret verifies the access tokens issued by the auth platform.
	JWTSecret string `env:"JWT_SECRET,required"`

	FrontendURL string   `env:"FRONTEND_URL" envDefault:"http://localhost:3000"`
	CORSOrigins []string `env:"CORS_ORIGINS" envSeparator:","`

	ResendAPIKey string `env:"RESEND_API_KEY"`
	ResendAPIURL string `env:"RESEND_API_URL" envDefault:"https://api.resend.com/emails"`
	FromEmail    string `env:"FROM_EMAIL" envDefault:"Financial App <onboarding@resend.dev>"`

	// InviteFunctionURL is the send-invite-email endpoint called by the
	// invitation workflow. Empty means this service's own function route.
	InviteFunctionURL string `env:"INVITE_FUNCTION_URL"`

	// InvitationTTL of zero disables invitation expiry.
	InvitationTTL time.Duration `env:"INVITATION_TTL" envDefault:"168h"`
	PurgeInterval time.Duration `env:"INVITATION_PURGE_INTERVAL" envDefault:"24h"`

	RateLimitRequests int           `env:"RATE_LIMIT_REQUESTS" envDefault:"100"`
	RateLimitWindow   time.Duration `env:"RATE_LIMIT_WINDOW" envDefault:"1m"`
}

// Load reads the given dotenv files (".env" when none are named) and parses
// the environment into a Config. Missing dotenv files are not an error.
func Load(files ...string) (*Config, error) {
	_ = godotenv.Load(files...)

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if cfg.InviteFunctionURL == "" {
		cfg.InviteFunctionURL = fmt.Sprintf("http://localhost:%s/functions/v1/send-invite-email", cfg.Port)
	}
	cfg.FrontendURL = strings.TrimRight(cfg.FrontendURL, "/")

	return &cfg, nil
}

func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// AllowedOrigins returns the CORS origins, always including the frontend.
func (c *Config) AllowedOrigins() []string {
	origins := []string{c.FrontendURL}
	for _, o := range c.CORSOrigins {
		o = strings.TrimSpace(o)
		if o != "" && o != c.FrontendURL {
			origins = append(origins, o)
		}
	}
	return origins
}
