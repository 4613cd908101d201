package config

import (
	"errors"
	"fmt"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/ahamo-portal/portal/internal/types"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Configuration struct {
	Deployment DeploymentConfig `validate:"required"`
	Server     ServerConfig     `validate:"required"`
	Logging    LoggingConfig    `validate:"required"`
	Postgres   PostgresConfig
	Backend    BackendConfig
	Catalog    CatalogConfig    `validate:"required"`
	Cache      CacheConfig
	Simulation SimulationConfig `validate:"required"`
	RateLimit  RateLimitConfig  `mapstructure:"rate_limit"`
	Sentry     SentryConfig
}

type DeploymentConfig struct {
	Mode types.RunMode `validate:"required"`
}

type ServerConfig struct {
	Address string `validate:"required"`
}

type LoggingConfig struct {
	Level types.LogLevel `validate:"required"`
}

type PostgresConfig struct {
	Host            string
	Port            int
	User            string
	Password        string
	DBName          string        `mapstructure:"dbname"`
	SSLMode         string        `mapstructure:"sslmode"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
}

// BackendConfig points at the upstream plan catalog and contract services.
type BackendConfig struct {
	BaseURL  string `mapstructure:"base_url"`
	APIKey   string `mapstructure:"api_key"`
	Timeout  time.Duration
	RetryMax int `mapstructure:"retry_max"`
}

type CatalogConfig struct {
	Source          types.CatalogSource `validate:"required,oneof=postgres backend"`
	RefreshInterval time.Duration       `mapstructure:"refresh_interval"`

	// RetryInterval is how long a stale snapshot is served after a failed reload
	RetryInterval time.Duration `mapstructure:"retry_interval"`
}

type CacheConfig struct {
	Enabled bool
	TTL     time.Duration
}

type SimulationConfig struct {
	// TimeZone is the zone in which "today" is evaluated for effective dates.
	TimeZone string `mapstructure:"time_zone" validate:"required"`
	// AllowMidCycleDowngradeBelowCarryOver permits an immediate downgrade to a plan
	// whose capacity is below the data banked from the previous period.
	AllowMidCycleDowngradeBelowCarryOver bool `mapstructure:"allow_mid_cycle_downgrade_below_carry_over"`
	// OptionsConcurrency bounds the fan-out when comparing every catalog plan.
	OptionsConcurrency int `mapstructure:"options_concurrency"`
}

type RateLimitConfig struct {
	Enabled           bool
	RequestsPerSecond float64 `mapstructure:"requests_per_second"`
	Burst             int
}

type SentryConfig struct {
	Enabled     bool
	DSN         string
	Environment string
	SampleRate  float64 `mapstructure:"sample_rate"`
}

func NewConfig() (*Configuration, error) {
	// .env is optional and only used for local development
	_ = godotenv.Load()

	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./internal/config")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/ahamo-portal")

	setDefaults(v)

	v.SetEnvPrefix("PORTAL")
	v.SetEnvKeyReplacer(strings.NewReplacer(
		".", "_",
		"-", "_",
	))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		fmt.Printf("Error reading config file: %v\n", err)
		if !errors.As(err, &viper.ConfigFileNotFoundError{}) {
			return nil, err
		}
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

func setDefaults(v *viper.Viper) {
	defaults := GetDefaultConfig()

	v.SetDefault("deployment.mode", defaults.Deployment.Mode)
	v.SetDefault("server.address", defaults.Server.Address)
	v.SetDefault("logging.level", defaults.Logging.Level)
	v.SetDefault("postgres.host", defaults.Postgres.Host)
	v.SetDefault("postgres.port", defaults.Postgres.Port)
	v.SetDefault("postgres.user", defaults.Postgres.User)
	v.SetDefault("postgres.password", defaults.Postgres.Password)
	v.SetDefault("postgres.dbname", defaults.Postgres.DBName)
	v.SetDefault("postgres.sslmode", defaults.Postgres.SSLMode)
	v.SetDefault("postgres.max_open_conns", defaults.Postgres.MaxOpenConns)
	v.SetDefault("postgres.max_idle_conns", defaults.Postgres.MaxIdleConns)
	v.SetDefault("postgres.conn_max_lifetime", defaults.Postgres.ConnMaxLifetime)
	v.SetDefault("backend.base_url", defaults.Backend.BaseURL)
	v.SetDefault("backend.api_key", defaults.Backend.APIKey)
	v.SetDefault("backend.timeout", defaults.Backend.Timeout)
	v.SetDefault("backend.retry_max", defaults.Backend.RetryMax)
	v.SetDefault("catalog.source", defaults.Catalog.Source)
	v.SetDefault("catalog.refresh_interval", defaults.Catalog.RefreshInterval)
	v.SetDefault("catalog.retry_interval", defaults.Catalog.RetryInterval)
	v.SetDefault("cache.enabled", defaults.Cache.Enabled)
	v.SetDefault("cache.ttl", defaults.Cache.TTL)
	v.SetDefault("simulation.time_zone", defaults.Simulation.TimeZone)
	v.SetDefault("simulation.allow_mid_cycle_downgrade_below_carry_over", defaults.Simulation.AllowMidCycleDowngradeBelowCarryOver)
	v.SetDefault("simulation.options_concurrency", defaults.Simulation.OptionsConcurrency)
	v.SetDefault("rate_limit.enabled", defaults.RateLimit.Enabled)
	v.SetDefault("rate_limit.requests_per_second", defaults.RateLimit.RequestsPerSecond)
	v.SetDefault("rate_limit.burst", defaults.RateLimit.Burst)
	v.SetDefault("sentry.enabled", defaults.Sentry.Enabled)
	v.SetDefault("sentry.dsn", defaults.Sentry.DSN)
	v.SetDefault("sentry.environment", defaults.Sentry.Environment)
	v.SetDefault("sentry.sample_rate", defaults.Sentry.SampleRate)
}

func (c Configuration) Validate() error {
	validate := validator.New()
	if err := validate.Struct(c); err != nil {
		return err
	}
	if _, err := c.Simulation.Location(); err != nil {
		return err
	}
	if c.Catalog.Source == types.CatalogSourceBackend && c.Backend.BaseURL == "" {
		return errors.New("backend.base_url is required when catalog.source is backend")
	}
	return nil
}

// GetDefaultConfig returns a default configuration for local development
// This is useful for running scripts, tests or other non-web applications
func GetDefaultConfig() *Configuration {
	return &Configuration{
		Deployment: DeploymentConfig{Mode: types.ModeLocal},
		Server:     ServerConfig{Address: ":8080"},
		Logging:    LoggingConfig{Level: types.LogLevelDebug},
		Postgres: PostgresConfig{
			Host:            "localhost",
			Port:            5432,
			User:            "portal",
			Password:        "portal",
			DBName:          "portal",
			SSLMode:         "disable",
			MaxOpenConns:    10,
			MaxIdleConns:    5,
			ConnMaxLifetime: 30 * time.Minute,
		},
		Backend: BackendConfig{
			Timeout:  10 * time.Second,
			RetryMax: 3,
		},
		Catalog: CatalogConfig{
			Source:          types.CatalogSourcePostgres,
			RefreshInterval: 5 * time.Minute,
			RetryInterval:   30 * time.Second,
		},
		Cache: CacheConfig{
			Enabled: true,
			TTL:     10 * time.Minute,
		},
		Simulation: SimulationConfig{
			TimeZone:           "Asia/Tokyo",
			OptionsConcurrency: 4,
		},
		RateLimit: RateLimitConfig{
			Enabled:           true,
			RequestsPerSecond: 5,
			Burst:             10,
		},
		Sentry: SentryConfig{
			Environment: "local",
			SampleRate:  0.1,
		},
	}
}

// Location loads the configured simulation time zone.
func (c SimulationConfig) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.TimeZone)
	if err != nil {
		return nil, fmt.Errorf("invalid simulation.time_zone %q: %w", c.TimeZone, err)
	}
	return loc, nil
}

func (c PostgresConfig) GetDSN() string {
	return fmt.Sprintf(
		"user=%s password=%s dbname=%s host=%s port=%d sslmode=%s",
		c.User,
		c.Password,
		c.DBName,
		c.Host,
		c.Port,
		c.SSLMode,
	)
}
