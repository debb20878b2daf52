package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/cypherlabdev/value-bet-service/internal/fixtures"
	"github.com/cypherlabdev/value-bet-service/internal/messaging"
	"github.com/cypherlabdev/value-bet-service/internal/models"
	"github.com/cypherlabdev/value-bet-service/internal/provider"
	"github.com/cypherlabdev/value-bet-service/internal/service"
)

// Config holds all configuration for value-bet-service
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Provider ProviderConfig `mapstructure:"provider"`
	Analysis AnalysisConfig `mapstructure:"analysis"`
	Cache    CacheConfig    `mapstructure:"cache"`
	Redis    RedisConfig    `mapstructure:"redis"`
	Kafka    KafkaConfig    `mapstructure:"kafka"`
	Leagues  LeaguesConfig  `mapstructure:"leagues"`
	Parlay   ParlayConfig   `mapstructure:"parlay"`
	Logging  LoggingConfig  `mapstructure:"logging"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Port         int           `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
}

// ProviderConfig holds the upstream sports-data API settings
type ProviderConfig struct {
	BaseURL           string        `mapstructure:"base_url"`
	RequestTimeout    time.Duration `mapstructure:"request_timeout"`
	MaxAttempts       int           `mapstructure:"max_attempts"`
	BackoffBase       time.Duration `mapstructure:"backoff_base"`
	MaxJitter         time.Duration `mapstructure:"max_jitter"`
	RateLimitDelay    time.Duration `mapstructure:"rate_limit_delay"`
	RequestsPerSecond float64       `mapstructure:"requests_per_second"`
	Burst             int           `mapstructure:"burst"`
	UTCOffsetMinutes  int           `mapstructure:"utc_offset_minutes"`
	UserAgent         string        `mapstructure:"user_agent"`
	Referer           string        `mapstructure:"referer"`
	AcceptLanguage    string        `mapstructure:"accept_language"`
}

// AnalysisConfig holds model and orchestration parameters
type AnalysisConfig struct {
	HomeAdvantage       bool          `mapstructure:"home_advantage"`
	HomeAdvantageFactor float64       `mapstructure:"home_advantage_factor"`
	Mode                string        `mapstructure:"mode"` // pooled, venue_split
	LambdaLeague        float64       `mapstructure:"lambda_league"`
	Window              string        `mapstructure:"window"`
	ScoreGridCap        int           `mapstructure:"score_grid_cap"`
	Concurrency         int           `mapstructure:"concurrency"`
	FixtureTimeout      time.Duration `mapstructure:"fixture_timeout"`
}

// CacheConfig selects the provider response cache
type CacheConfig struct {
	Backend string        `mapstructure:"backend"` // memory, redis
	TTL     time.Duration `mapstructure:"ttl"`
}

// RedisConfig holds Redis configuration
type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// KafkaConfig holds Kafka configuration
type KafkaConfig struct {
	Enabled      bool          `mapstructure:"enabled"`
	Brokers      []string      `mapstructure:"brokers"`
	Topic        string        `mapstructure:"topic"` // Topic finished runs are published to
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
}

// LeaguesConfig lists leagues by relevance tier
type LeaguesConfig struct {
	High   []string `mapstructure:"high"`
	Medium []string `mapstructure:"medium"`
}

// ParlayConfig holds accumulator settings
type ParlayConfig struct {
	OneFixturePerSelection bool `mapstructure:"one_fixture_per_selection"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level  string `mapstructure:"level"`  // debug, info, warn, error
	Format string `mapstructure:"format"` // json, console
}

// LoadConfig loads configuration from file and environment variables
func LoadConfig(configPath string) (*Config, error) {
	v := viper.New()

	// Set defaults
	v.SetDefault("server.port", 8081)
	v.SetDefault("server.read_timeout", 30*time.Second)
	v.SetDefault("server.write_timeout", 90*time.Second)

	retry := provider.DefaultRetryPolicy()
	v.SetDefault("provider.base_url", "")
	v.SetDefault("provider.request_timeout", 10*time.Second)
	v.SetDefault("provider.max_attempts", retry.MaxAttempts)
	v.SetDefault("provider.backoff_base", retry.BackoffBase)
	v.SetDefault("provider.max_jitter", retry.MaxJitter)
	v.SetDefault("provider.rate_limit_delay", retry.RateLimitDelay)
	v.SetDefault("provider.requests_per_second", 4.0)
	v.SetDefault("provider.burst", 4)
	v.SetDefault("provider.utc_offset_minutes", -180)
	v.SetDefault("provider.user_agent", "")
	v.SetDefault("provider.referer", "")
	v.SetDefault("provider.accept_language", "")

	defaults := service.DefaultAnalyzerConfig()
	v.SetDefault("analysis.home_advantage", defaults.Options.HomeAdvantage)
	v.SetDefault("analysis.home_advantage_factor", defaults.HomeAdvantageFactor)
	v.SetDefault("analysis.mode", string(defaults.Options.Mode))
	v.SetDefault("analysis.lambda_league", defaults.Options.LambdaLeague)
	v.SetDefault("analysis.window", defaults.Window)
	v.SetDefault("analysis.score_grid_cap", defaults.ScoreGridCap)
	v.SetDefault("analysis.concurrency", defaults.Concurrency)
	v.SetDefault("analysis.fixture_timeout", defaults.FixtureTimeout)

	v.SetDefault("cache.backend", "memory")
	v.SetDefault("cache.ttl", 15*time.Minute)

	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)

	v.SetDefault("kafka.enabled", false)
	v.SetDefault("kafka.brokers", []string{"localhost:9092"})
	v.SetDefault("kafka.topic", "value_bets")
	v.SetDefault("kafka.write_timeout", 10*time.Second)

	v.SetDefault("leagues.high", fixtures.DefaultHighLeagues)
	v.SetDefault("leagues.medium", fixtures.DefaultMediumLeagues)

	v.SetDefault("parlay.one_fixture_per_selection", true)

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")

	// Read config file if provided
	if configPath != "" {
		v.SetConfigFile(configPath)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	// Override with environment variables
	v.SetEnvPrefix("VALUEBET")
	v.AutomaticEnv()
	// Replace . with _ for environment variables
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// Unmarshal to struct
	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &config, nil
}

// Validate rejects configuration the service cannot start with. A missing
// provider base URL is checked by the server, not here.
func (c *Config) Validate() error {
	if err := c.Analysis.Options().Validate(); err != nil {
		return fmt.Errorf("invalid analysis config: %w", err)
	}
	switch c.Cache.Backend {
	case "memory", "redis":
	default:
		return fmt.Errorf("invalid cache backend %q: want memory or redis", c.Cache.Backend)
	}
	if c.Analysis.Concurrency <= 0 {
		return fmt.Errorf("analysis concurrency must be positive, got %d", c.Analysis.Concurrency)
	}
	return nil
}

// Options returns the runtime-tunable subset of the analysis settings
func (c *AnalysisConfig) Options() models.Options {
	return models.Options{
		HomeAdvantage: c.HomeAdvantage,
		Mode:          models.StatsMode(c.Mode),
		LambdaLeague:  c.LambdaLeague,
	}
}

// ToClientConfig converts config to provider client configuration
func (c *ProviderConfig) ToClientConfig() provider.ClientConfig {
	return provider.ClientConfig{
		BaseURL:           c.BaseURL,
		RequestTimeout:    c.RequestTimeout,
		UserAgent:         c.UserAgent,
		Referer:           c.Referer,
		AcceptLanguage:    c.AcceptLanguage,
		RequestsPerSecond: c.RequestsPerSecond,
		Burst:             c.Burst,
		Retry: provider.RetryPolicy{
			MaxAttempts:    c.MaxAttempts,
			BackoffBase:    c.BackoffBase,
			MaxJitter:      c.MaxJitter,
			RateLimitDelay: c.RateLimitDelay,
		},
	}
}

// ToPublisherConfig converts config to Kafka publisher configuration
func (c *KafkaConfig) ToPublisherConfig() messaging.KafkaPublisherConfig {
	return messaging.KafkaPublisherConfig{
		Brokers:      c.Brokers,
		Topic:        c.Topic,
		WriteTimeout: c.WriteTimeout,
	}
}

// ToAnalyzerConfig converts config to orchestrator configuration
func (c *Config) ToAnalyzerConfig() service.AnalyzerConfig {
	return service.AnalyzerConfig{
		Concurrency:         c.Analysis.Concurrency,
		FixtureTimeout:      c.Analysis.FixtureTimeout,
		HomeAdvantageFactor: c.Analysis.HomeAdvantageFactor,
		ScoreGridCap:        c.Analysis.ScoreGridCap,
		Window:              c.Analysis.Window,
		UTCOffsetMinutes:    c.Provider.UTCOffsetMinutes,
		OnePerFixture:       c.Parlay.OneFixturePerSelection,
		Relevance:           fixtures.NewRelevanceTable(c.Leagues.High, c.Leagues.Medium),
		Options:             c.Analysis.Options(),
	}
}
