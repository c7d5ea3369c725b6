package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/flexprice/console/internal/types"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Configuration struct {
	Deployment DeploymentConfig `validate:"required"`
	Server     ServerConfig     `validate:"required"`
	Logging    LoggingConfig    `validate:"required"`
	Auth       AuthConfig
	Flexprice  FlexpriceConfig `validate:"required"`
	Drafts     DraftsConfig    `validate:"required"`
	Redis      RedisConfig
	Cache      CacheConfig
	Sentry     SentryConfig
	Pyroscope  PyroscopeConfig
	Metrics    MetricsConfig
}

type DeploymentConfig struct {
	Mode types.RunMode `validate:"required"`
}

type ServerConfig struct {
	Address         string        `validate:"required"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

type LoggingConfig struct {
	Level types.LogLevel `validate:"required"`
}

// AuthConfig holds the console session settings.
// With Enabled false every request runs as the default tenant, for local use only.
type AuthConfig struct {
	Enabled bool
	Secret  string `validate:"required_if=Enabled true"`
	Issuer  string
}

// FlexpriceConfig points at the billing API the console drives
type FlexpriceConfig struct {
	BaseURL      string        `mapstructure:"base_url" validate:"required,url"`
	APIKey       string        `mapstructure:"api_key"`
	Timeout      time.Duration `validate:"required"`
	RetryMax     int           `mapstructure:"retry_max" validate:"gte=0"`
	RetryWaitMin time.Duration `mapstructure:"retry_wait_min"`
	RetryWaitMax time.Duration `mapstructure:"retry_wait_max"`
	// RateLimit is the maximum number of requests per second sent to the API
	RateLimit float64 `mapstructure:"rate_limit" validate:"gt=0"`
	RateBurst int     `mapstructure:"rate_burst" validate:"gt=0"`
	// ReadyTimeout bounds the startup readiness probe, zero disables it
	ReadyTimeout time.Duration `mapstructure:"ready_timeout"`
}

type DraftsConfig struct {
	Store           types.DraftStoreType `validate:"required,oneof=memory redis"`
	TTL             time.Duration        `validate:"required"`
	CleanupInterval time.Duration        `mapstructure:"cleanup_interval"`
}

type RedisConfig struct {
	Address      string
	Password     string
	DB           int
	PoolSize     int           `mapstructure:"pool_size"`
	DialTimeout  time.Duration `mapstructure:"dial_timeout"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
}

type CacheConfig struct {
	Enabled bool
	TTL     time.Duration
}

type SentryConfig struct {
	Enabled     bool
	DSN         string
	Environment string
	SampleRate  float64 `mapstructure:"sample_rate"`
}

type PyroscopeConfig struct {
	Enabled         bool
	ServerAddress   string `mapstructure:"server_address"`
	ApplicationName string `mapstructure:"application_name"`
	BasicAuthUser   string `mapstructure:"basic_auth_user"`
	BasicAuthPass   string `mapstructure:"basic_auth_password"`
	SampleRate      uint32 `mapstructure:"sample_rate"`
	DisableGCRuns   bool   `mapstructure:"disable_gc_runs"`
}

type MetricsConfig struct {
	Enabled bool
	Path    string
}

func NewConfig() (*Configuration, error) {
	// .env is optional and only meant for local development
	_ = godotenv.Load()

	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./internal/config")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/flexprice-console")

	v.SetEnvPrefix("FLEXPRICE_CONSOLE")
	v.SetEnvKeyReplacer(strings.NewReplacer(
		".", "_",
		"-", "_",
	))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		if !errors.As(err, &viper.ConfigFileNotFoundError{}) {
			return nil, err
		}
		fmt.Printf("No config file found, using defaults and environment: %v\n", err)
	} else {
		fmt.Printf("Using config file: %s\n", v.ConfigFileUsed())
	}

	var config Configuration
	if err := v.Unmarshal(&config); err != nil {
		return nil, err
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &config, nil
}

// setDefaults registers every key so AutomaticEnv can override keys missing from the file
func setDefaults(v *viper.Viper) {
	defaults := GetDefaultConfig()

	v.SetDefault("deployment.mode", defaults.Deployment.Mode)
	v.SetDefault("server.address", defaults.Server.Address)
	v.SetDefault("server.shutdown_timeout", defaults.Server.ShutdownTimeout)
	v.SetDefault("logging.level", defaults.Logging.Level)
	v.SetDefault("auth.enabled", defaults.Auth.Enabled)
	v.SetDefault("auth.secret", "")
	v.SetDefault("auth.issuer", "")
	v.SetDefault("flexprice.base_url", defaults.Flexprice.BaseURL)
	v.SetDefault("flexprice.api_key", "")
	v.SetDefault("flexprice.timeout", defaults.Flexprice.Timeout)
	v.SetDefault("flexprice.retry_max", defaults.Flexprice.RetryMax)
	v.SetDefault("flexprice.retry_wait_min", defaults.Flexprice.RetryWaitMin)
	v.SetDefault("flexprice.retry_wait_max", defaults.Flexprice.RetryWaitMax)
	v.SetDefault("flexprice.rate_limit", defaults.Flexprice.RateLimit)
	v.SetDefault("flexprice.rate_burst", defaults.Flexprice.RateBurst)
	v.SetDefault("flexprice.ready_timeout", defaults.Flexprice.ReadyTimeout)
	v.SetDefault("drafts.store", defaults.Drafts.Store)
	v.SetDefault("drafts.ttl", defaults.Drafts.TTL)
	v.SetDefault("drafts.cleanup_interval", defaults.Drafts.CleanupInterval)
	v.SetDefault("redis.address", defaults.Redis.Address)
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.pool_size", defaults.Redis.PoolSize)
	v.SetDefault("redis.dial_timeout", defaults.Redis.DialTimeout)
	v.SetDefault("redis.read_timeout", defaults.Redis.ReadTimeout)
	v.SetDefault("redis.write_timeout", defaults.Redis.WriteTimeout)
	v.SetDefault("cache.enabled", defaults.Cache.Enabled)
	v.SetDefault("cache.ttl", defaults.Cache.TTL)
	v.SetDefault("sentry.enabled", false)
	v.SetDefault("sentry.dsn", "")
	v.SetDefault("sentry.environment", "local")
	v.SetDefault("sentry.sample_rate", 1.0)
	v.SetDefault("pyroscope.enabled", false)
	v.SetDefault("pyroscope.server_address", "")
	v.SetDefault("pyroscope.application_name", "flexprice-console")
	v.SetDefault("pyroscope.basic_auth_user", "")
	v.SetDefault("pyroscope.basic_auth_password", "")
	v.SetDefault("pyroscope.sample_rate", 100)
	v.SetDefault("pyroscope.disable_gc_runs", false)
	v.SetDefault("metrics.enabled", defaults.Metrics.Enabled)
	v.SetDefault("metrics.path", defaults.Metrics.Path)
}

func (c Configuration) Validate() error {
	validate := validator.New()
	return validate.Struct(c)
}

// GetDefaultConfig returns a default configuration for local development and tests
func GetDefaultConfig() *Configuration {
	return &Configuration{
		Deployment: DeploymentConfig{Mode: types.ModeLocal},
		Server: ServerConfig{
			Address:         ":8090",
			ShutdownTimeout: 10 * time.Second,
		},
		Logging: LoggingConfig{Level: types.LogLevelDebug},
		Flexprice: FlexpriceConfig{
			BaseURL:      "http://localhost:8080",
			Timeout:      30 * time.Second,
			RetryMax:     3,
			RetryWaitMin: 200 * time.Millisecond,
			RetryWaitMax: 2 * time.Second,
			RateLimit:    50,
			RateBurst:    10,
			ReadyTimeout: 30 * time.Second,
		},
		Drafts: DraftsConfig{
			Store:           types.DraftStoreMemory,
			TTL:             2 * time.Hour,
			CleanupInterval: 10 * time.Minute,
		},
		Redis: RedisConfig{
			Address:      "localhost:6379",
			PoolSize:     10,
			DialTimeout:  5 * time.Second,
			ReadTimeout:  3 * time.Second,
			WriteTimeout: 3 * time.Second,
		},
		Cache: CacheConfig{
			Enabled: true,
			TTL:     5 * time.Minute,
		},
		Metrics: MetricsConfig{
			Enabled: true,
			Path:    "/metrics",
		},
	}
}
