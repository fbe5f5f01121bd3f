package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
)

// DefaultSeedLoginKey is the bootstrap secret used when SEED_ADMIN_LOGIN_KEY is not set.
// It is a known value: startup logs a warning while it is in use.
const DefaultSeedLoginKey = "adminpass"

// MaxLoginKeyBytes is the longest secret bcrypt will hash.
const MaxLoginKeyBytes = 72

// Config holds all runtime configuration loaded from environment variables.
type Config struct {
	// Server
	Port           int           `mapstructure:"PORT"`
	Env            string        `mapstructure:"APP_ENV"` // development | production | test
	RequestTimeout time.Duration `mapstructure:"REQUEST_TIMEOUT"`
	RateLimit      int           `mapstructure:"RATE_LIMIT_PER_MINUTE"`
	LoginRateLimit int           `mapstructure:"LOGIN_RATE_LIMIT_PER_MINUTE"`
	CORSOrigin     string        `mapstructure:"CORS_ORIGIN"` // "*" or comma-separated origins

	// Database: postgres://... or sqlite://path/to/file.db
	DatabaseURL string        `mapstructure:"DATABASE_URL"`
	DBTimeout   time.Duration `mapstructure:"DB_TIMEOUT"`
	DBMaxOpen   int           `mapstructure:"DB_MAX_OPEN_CONNS"`
	DBMaxIdle   int           `mapstructure:"DB_MAX_IDLE_CONNS"`

	// Redis (session denylist)
	RedisURL string `mapstructure:"REDIS_URL"`

	// Auth
	JWTSecret          string `mapstructure:"JWT_SECRET"`
	JWTExpirationHours int    `mapstructure:"JWT_EXPIRATION_HOURS"`
	BcryptCost         int    `mapstructure:"BCRYPT_COST"`

	// Bootstrap administrator
	SeedAdminUsername string `mapstructure:"SEED_ADMIN_USERNAME"`
	SeedAdminLoginKey string `mapstructure:"SEED_ADMIN_LOGIN_KEY"`
	SeedAdminSaldo    string `mapstructure:"SEED_ADMIN_SALDO"`

	// Inventory
	StockAlertThreshold int `mapstructure:"STOCK_ALERT_THRESHOLD"`

	// Logging
	LogLevel      string `mapstructure:"LOG_LEVEL"`
	LogFile       string `mapstructure:"LOG_FILE"` // empty = console only
	LogMaxSizeMB  int    `mapstructure:"LOG_MAX_SIZE_MB"`
	LogMaxBackups int    `mapstructure:"LOG_MAX_BACKUPS"`
	LogMaxAgeDays int    `mapstructure:"LOG_MAX_AGE_DAYS"`
}

// Load reads configuration from environment variables (and optional .env file).
func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigName(".env")
	v.SetConfigType("env")
	v.AddConfigPath(".")
	v.AutomaticEnv()

	setDefaults(v)

	// Optional .env file for local development; missing is fine
	_ = v.ReadInConfig()

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("PORT", 5000)
	v.SetDefault("APP_ENV", "development")
	v.SetDefault("REQUEST_TIMEOUT", "15s")
	v.SetDefault("RATE_LIMIT_PER_MINUTE", 600)
	v.SetDefault("LOGIN_RATE_LIMIT_PER_MINUTE", 10)
	v.SetDefault("CORS_ORIGIN", "*")

	v.SetDefault("DATABASE_URL", "sqlite://socios_bot.db")
	v.SetDefault("DB_TIMEOUT", "5s")
	v.SetDefault("DB_MAX_OPEN_CONNS", 10)
	v.SetDefault("DB_MAX_IDLE_CONNS", 2)

	v.SetDefault("REDIS_URL", "redis://localhost:6379/0")

	// Keys without a default must still be registered or Unmarshal ignores the env var.
	v.SetDefault("JWT_SECRET", "")
	v.SetDefault("JWT_EXPIRATION_HOURS", 8)
	v.SetDefault("BCRYPT_COST", 10)

	v.SetDefault("SEED_ADMIN_USERNAME", "admin")
	v.SetDefault("SEED_ADMIN_LOGIN_KEY", DefaultSeedLoginKey)
	v.SetDefault("SEED_ADMIN_SALDO", "1000.00")

	v.SetDefault("STOCK_ALERT_THRESHOLD", 5)

	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FILE", "")
	v.SetDefault("LOG_MAX_SIZE_MB", 100)
	v.SetDefault("LOG_MAX_BACKUPS", 3)
	v.SetDefault("LOG_MAX_AGE_DAYS", 28)
}

// IsProduction reports whether APP_ENV is "production".
func (c *Config) IsProduction() bool { return c.Env == "production" }

// Validate rejects configurations that cannot run safely.
func (c *Config) Validate() error {
	var errs []error
	if c.Port <= 0 || c.Port > 65535 {
		errs = append(errs, fmt.Errorf("PORT fuera de rango: %d", c.Port))
	}
	if c.RateLimit <= 0 || c.LoginRateLimit <= 0 {
		errs = append(errs, errors.New("los limites de solicitudes deben ser positivos"))
	}
	if c.CORSOrigin == "" {
		errs = append(errs, errors.New("CORS_ORIGIN no puede estar vacio (use * para permitir todos)"))
	}
	if c.DatabaseURL == "" {
		errs = append(errs, errors.New("DATABASE_URL es obligatorio"))
	}
	if c.RequestTimeout <= 0 {
		errs = append(errs, errors.New("REQUEST_TIMEOUT debe ser positivo"))
	}
	if c.DBTimeout <= 0 {
		errs = append(errs, errors.New("DB_TIMEOUT debe ser positivo"))
	}
	if c.JWTExpirationHours <= 0 {
		errs = append(errs, errors.New("JWT_EXPIRATION_HOURS debe ser positivo"))
	}
	if c.BcryptCost < 4 || c.BcryptCost > 31 {
		errs = append(errs, fmt.Errorf("BCRYPT_COST fuera de rango (4-31): %d", c.BcryptCost))
	}
	if c.JWTSecret == "" {
		if c.IsProduction() {
			errs = append(errs, errors.New("JWT_SECRET es obligatorio en produccion"))
		} else {
			c.JWTSecret = "dev-only-secret"
		}
	}
	if c.SeedAdminUsername == "" || c.SeedAdminLoginKey == "" {
		errs = append(errs, errors.New("SEED_ADMIN_USERNAME y SEED_ADMIN_LOGIN_KEY no pueden estar vacios"))
	}
	if len(c.SeedAdminLoginKey) > MaxLoginKeyBytes {
		errs = append(errs, fmt.Errorf("SEED_ADMIN_LOGIN_KEY excede %d bytes", MaxLoginKeyBytes))
	}
	if _, err := decimal.NewFromString(c.SeedAdminSaldo); err != nil {
		errs = append(errs, fmt.Errorf("SEED_ADMIN_SALDO invalido: %w", err))
	}
	if c.StockAlertThreshold < 0 {
		errs = append(errs, errors.New("STOCK_ALERT_THRESHOLD no puede ser negativo"))
	}
	return errors.Join(errs...)
}

// UsesDefaultSeedSecret reports whether the bootstrap admin secret was left at its known default.
func (c *Config) UsesDefaultSeedSecret() bool {
	return c.SeedAdminLoginKey == DefaultSeedLoginKey
}
