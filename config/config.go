package config

import (
	"fmt"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
)

// Config holds everything the server reads from the environment.
// A .env file is honored in development; real deployments set these directly.
type Config struct {
	Port string `env:"PORT" envDefault:"8080"`

	// Either a full DATABASE_URL or the individual DB_* parts.
	DatabaseURL string `env:"DATABASE_URL"`
	DBHost      string `env:"DB_HOST" envDefault:"localhost"`
	DBPort      string `env:"DB_PORT" envDefault:"5432"`
	DBUser      string `env:"DB_USER" envDefault:"postgres"`
	DBPassword  string `env:"DB_PASSWORD"`
	DBName      string `env:"DB_NAME" envDefault:"sipwell"`

	JWTSecret   string `env:"JWT_SECRET,required"`
	AdminAPIKey string `env:"ADMIN_API_KEY"`

	// Optional read-through cache. Empty addr disables it.
	RedisAddr     string `env:"REDIS_ADDR"`
	RedisPassword string `env:"REDIS_PASSWORD"`

	// Outbound mail. Empty host disables sending (handy for local dev).
	SMTPHost string `env:"SMTP_HOST"`
	SMTPPort int    `env:"SMTP_PORT" envDefault:"587"`
	SMTPUser string `env:"SMTP_USER"`
	SMTPPass string `env:"SMTP_PASS"`
	MailFrom string `env:"MAIL_FROM" envDefault:"orders@sipwell.example"`

	// Hosted collaborators.
	AuthVerifyURL   string `env:"AUTH_VERIFY_URL"`
	GeocoderBaseURL string `env:"GEOCODER_BASE_URL" envDefault:"https://nominatim.openstreetmap.org"`

	// Node id feeding the order-number generator; must differ per replica.
	SnowflakeNode int64 `env:"SNOWFLAKE_NODE" envDefault:"1"`
}

// Load reads .env (if present) and parses the environment into a Config.
func Load() (*Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parse environment: %w", err)
	}
	return &cfg, nil
}

// DSN builds the postgres connection string from the individual parts.
func (c *Config) DSN() string {
	if c.DatabaseURL != "" {
		return c.DatabaseURL
	}
	return fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
		c.DBHost, c.DBUser, c.DBPassword, c.DBName, c.DBPort,
	)
}
