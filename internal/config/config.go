package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// DefaultEnvFile is loaded into the process environment when present.
const DefaultEnvFile = "config/config.env"

// Config is the service configuration.
type Config struct {
	AppPort     string
	DBDriver    string
	DatabaseDSN string
	DBDebug     bool
	TokenSecret string
	TokenTTL    time.Duration
	RabbitMQURL string
	SeedBooks   bool
}

// Load reads envFile (if it exists) and then the environment.
// Environment variables win over values from the file.
func Load(envFile string) (*Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("failed to load %s: %w", envFile, err)
		}
	}

	v := viper.New()
	v.SetDefault("APP_PORT", ":5700")
	v.SetDefault("DB_DRIVER", "sqlite")
	v.SetDefault("DATABASE_DSN", "book_rental.db")
	v.SetDefault("DB_DEBUG", false)
	v.SetDefault("TOKEN_TTL", "0s") // 0 issues tokens without expiry
	v.SetDefault("RABBITMQ_URL", "") // empty disables rental events
	v.SetDefault("SEED_BOOKS", true)
	v.AutomaticEnv()

	cfg := &Config{
		AppPort:     v.GetString("APP_PORT"),
		DBDriver:    v.GetString("DB_DRIVER"),
		DatabaseDSN: v.GetString("DATABASE_DSN"),
		DBDebug:     v.GetBool("DB_DEBUG"),
		TokenSecret: v.GetString("ACCESS_TOKEN_SECRET"),
		TokenTTL:    v.GetDuration("TOKEN_TTL"),
		RabbitMQURL: v.GetString("RABBITMQ_URL"),
		SeedBooks:   v.GetBool("SEED_BOOKS"),
	}

	if cfg.TokenSecret == "" {
		return nil, errors.New("ACCESS_TOKEN_SECRET is required")
	}
	if cfg.TokenTTL < 0 {
		return nil, fmt.Errorf("TOKEN_TTL must not be negative, got %s", cfg.TokenTTL)
	}

	log.Printf("Configuration loaded (db driver: %s, port: %s)", cfg.DBDriver, cfg.AppPort)
	return cfg, nil
}
