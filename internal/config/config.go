package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

const (
	EnvAppEnv        = "MENUHUB_APP_ENV"
	EnvPort          = "MENUHUB_APP_PORT"
	EnvDBDSN         = "MENUHUB_DB_DSN"
	EnvRedisAddr     = "MENUHUB_REDIS_ADDR"
	EnvJWTSecret     = "MENUHUB_JWT_SECRET"
	EnvChatbotSecret = "MENUHUB_CHATBOT_SECRET"

	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

type Config struct {
	App     AppConfig
	DB      DBConfig
	Redis   RedisConfig
	JWT     JWTConfig
	Chatbot ChatbotConfig
	Jobs    JobsConfig
}

// Load reads a .env file when one exists and then the process environment.
func Load() (*Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	if strings.TrimSpace(c.DB.DSN) == "" {
		return fmt.Errorf("%s is required", EnvDBDSN)
	}
	if c.DB.MaxConns <= 0 {
		return fmt.Errorf("MENUHUB_DB_MAX_CONNS must be positive")
	}
	if c.Redis.CatalogTTL < 0 || c.Redis.IdempotencyTTL < 0 {
		return fmt.Errorf("redis TTLs cannot be negative")
	}
	if c.Jobs.UnlinkedReportInterval <= 0 {
		return fmt.Errorf("MENUHUB_JOBS_UNLINKED_REPORT_INTERVAL must be positive")
	}
	return nil
}

type AppConfig struct {
	Env       string `envconfig:"MENUHUB_APP_ENV" default:"dev"`
	Port      string `envconfig:"MENUHUB_APP_PORT" default:"8080"`
	LogLevel  string `envconfig:"MENUHUB_LOG_LEVEL" default:"info"`
	LogFormat string `envconfig:"MENUHUB_LOG_FORMAT" default:"json"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN            string        `envconfig:"MENUHUB_DB_DSN" required:"true"`
	MaxConns       int32         `envconfig:"MENUHUB_DB_MAX_CONNS" default:"20"`
	MinConns       int32         `envconfig:"MENUHUB_DB_MIN_CONNS" default:"2"`
	AcquireTimeout time.Duration `envconfig:"MENUHUB_DB_ACQUIRE_TIMEOUT" default:"5s"`
	AutoMigrate    bool          `envconfig:"MENUHUB_DB_AUTO_MIGRATE" default:"false"`
}

type RedisConfig struct {
	Addr           string        `envconfig:"MENUHUB_REDIS_ADDR" default:"localhost:6379"`
	Password       string        `envconfig:"MENUHUB_REDIS_PASSWORD"`
	DB             int           `envconfig:"MENUHUB_REDIS_DB" default:"0"`
	CatalogTTL     time.Duration `envconfig:"MENUHUB_REDIS_CATALOG_TTL" default:"5m"`
	IdempotencyTTL time.Duration `envconfig:"MENUHUB_REDIS_IDEMPOTENCY_TTL" default:"24h"`
}

type JWTConfig struct {
	Secret string `envconfig:"MENUHUB_JWT_SECRET" required:"true"`
	// TenantClaim names the claim holding the tenant id.
	TenantClaim string `envconfig:"MENUHUB_JWT_TENANT_CLAIM" default:"tenant_id"`
}

type ChatbotConfig struct {
	Secret string `envconfig:"MENUHUB_CHATBOT_SECRET"`
}

// Enabled reports whether the chatbot route should be mounted.
func (c ChatbotConfig) Enabled() bool {
	return strings.TrimSpace(c.Secret) != ""
}

type JobsConfig struct {
	UnlinkedReportInterval time.Duration `envconfig:"MENUHUB_JOBS_UNLINKED_REPORT_INTERVAL" default:"1h"`
	UnlinkedReportLookback time.Duration `envconfig:"MENUHUB_JOBS_UNLINKED_REPORT_LOOKBACK" default:"24h"`
}
