// Package config loads application configuration from the environment.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/iliyamo/paillette/internal/database"
)

// Config holds all runtime configuration values.  Each field corresponds to
// an environment variable.
type Config struct {
	Env          string        // APP_ENV: dev, test or prod
	Port         string        // APP_PORT
	DBDriver     string        // DB_DRIVER: mysql or sqlite3
	DBDSN        string        // DB_DSN, or built from DB_USER/DB_PASS/DB_HOST/DB_PORT/DB_NAME
	JWTSecret    string        // JWT_SECRET
	AccessTTLMin int           // ACCESS_TOKEN_TTL_MIN
	BcryptCost   int           // BCRYPT_COST
	UploadDir    string        // UPLOAD_DIR, where show images are written
	RabbitMQURL  string        // RABBITMQ_URL; empty disables event publishing
	EventLog     string        // EVENT_LOG, journal written by the consumer
	FilterTTL    time.Duration // FILTER_TTL, lifetime of a stored follow-up filter
}

// Load reads configuration values from an optional ./config.yml overlaid by
// the environment, applying defaults for everything but the secrets.  A missing required value is an error.
func Load() (Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yml")
	v.AddConfigPath(".")
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("read config file: %w", err)
		}
	}
	v.AutomaticEnv()
	v.SetDefault("APP_ENV", "dev")
	v.SetDefault("APP_PORT", "8080")
	v.SetDefault("DB_DRIVER", database.MySQL)
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", "3306")
	v.SetDefault("DB_NAME", "paillette")
	v.SetDefault("ACCESS_TOKEN_TTL_MIN", 60)
	v.SetDefault("BCRYPT_COST", 12)
	v.SetDefault("UPLOAD_DIR", "uploads")
	v.SetDefault("EVENT_LOG", "logs/events.log")
	v.SetDefault("FILTER_TTL", 12*time.Hour)
	if v.GetString("AMQP_URL") != "" && v.GetString("RABBITMQ_URL") == "" {
		v.Set("RABBITMQ_URL", v.GetString("AMQP_URL"))
	}

	cfg := Config{
		Env:          strings.ToLower(v.GetString("APP_ENV")),
		Port:         v.GetString("APP_PORT"),
		DBDriver:     v.GetString("DB_DRIVER"),
		DBDSN:        v.GetString("DB_DSN"),
		JWTSecret:    v.GetString("JWT_SECRET"),
		AccessTTLMin: v.GetInt("ACCESS_TOKEN_TTL_MIN"),
		BcryptCost:   v.GetInt("BCRYPT_COST"),
		UploadDir:    v.GetString("UPLOAD_DIR"),
		RabbitMQURL:  v.GetString("RABBITMQ_URL"),
		EventLog:     v.GetString("EVENT_LOG"),
		FilterTTL:    v.GetDuration("FILTER_TTL"),
	}

	switch cfg.DBDriver {
	case database.MySQL:
		if cfg.DBDSN == "" {
			user := v.GetString("DB_USER")
			if user == "" {
				return Config{}, fmt.Errorf("missing required env var: %s", "DB_USER")
			}
			cfg.DBDSN = database.MySQLDSN(user, v.GetString("DB_PASS"), v.GetString("DB_HOST"), v.GetString("DB_PORT"), v.GetString("DB_NAME"))
		}
	case database.SQLite:
		if cfg.DBDSN == "" {
			cfg.DBDSN = database.SQLiteDSN(v.GetString("DB_NAME") + ".db")
		}
	default:
		return Config{}, fmt.Errorf("unsupported DB_DRIVER %q", cfg.DBDriver)
	}
	if cfg.JWTSecret == "" {
		return Config{}, fmt.Errorf("missing required env var: %s", "JWT_SECRET")
	}
	if cfg.AccessTTLMin <= 0 {
		return Config{}, fmt.Errorf("invalid ACCESS_TOKEN_TTL_MIN: %d", cfg.AccessTTLMin)
	}
	if cfg.BcryptCost < 4 || cfg.BcryptCost > 31 {
		return Config{}, fmt.Errorf("invalid BCRYPT_COST: %d", cfg.BcryptCost)
	}
	return cfg, nil
}

// IsProd reports whether the application runs in production.
func (c Config) IsProd() bool { return c.Env == "prod" || c.Env == "production" }
