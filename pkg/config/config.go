// Package config loads crawler configuration from environment variables.
package config

import (
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

func init() {
	// Load .env file if it exists (silent fail if not)
	_ = godotenv.Load()
}

// Config holds all crawler configuration loaded from environment variables.
type Config struct {
	API    APIConfig
	Crawl  CrawlConfig
	Retry  RetryConfig
	Cache  CacheConfig
	Output OutputConfig
	Log    LogConfig

	// MetricsAddr enables a /metrics listener for the duration of the run
	// when set (e.g. ":9100"). Empty disables it.
	MetricsAddr string `envconfig:"METRICS_ADDR" default:""`
}

// APIConfig holds the upstream endpoint settings.
type APIConfig struct {
	ExploreURL string `envconfig:"EXPLORE_URL" default:"https://apis.roblox.com/explore-api/v1/get-sorts"`
	GamesURL   string `envconfig:"GAMES_URL" default:"https://games.roblox.com/v1/games"`
	UserAgent  string `envconfig:"USER_AGENT" default:"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/114.0.0.0 Safari/537.36"`

	// SessionID is the explore API session identifier. A fresh UUID is
	// generated per run when left empty.
	SessionID string `envconfig:"SESSION_ID" default:""`

	RequestTimeout time.Duration `envconfig:"REQUEST_TIMEOUT" default:"30s"`
}

// CrawlConfig holds pagination and batching settings.
type CrawlConfig struct {
	MaxGames   int           `envconfig:"MAX_GAMES" default:"60000"`
	BatchSize  int           `envconfig:"BATCH_SIZE" default:"50"`
	PageDelay  time.Duration `envconfig:"PAGE_DELAY" default:"1s"`
	BatchDelay time.Duration `envconfig:"BATCH_DELAY" default:"1s"`
}

// RetryConfig holds retry and backoff settings for the HTTP client.
type RetryConfig struct {
	MaxAttempts      int           `envconfig:"RETRY_MAX_ATTEMPTS" default:"5"`
	RateLimitBackoff time.Duration `envconfig:"RETRY_RATE_LIMIT_BACKOFF" default:"5s"`
	NetworkBackoff   time.Duration `envconfig:"RETRY_NETWORK_BACKOFF" default:"2s"`
	MaxBackoff       time.Duration `envconfig:"RETRY_MAX_BACKOFF" default:"60s"`
	Multiplier       float64       `envconfig:"RETRY_MULTIPLIER" default:"2.0"`
}

// CacheConfig holds the optional Redis response cache settings.
// The cache is disabled unless REDIS_ADDR is set.
type CacheConfig struct {
	RedisAddr     string        `envconfig:"REDIS_ADDR" default:""`
	RedisPassword string        `envconfig:"REDIS_PASSWORD" default:""`
	RedisDB       int           `envconfig:"REDIS_DB" default:"0"`
	TTL           time.Duration `envconfig:"CACHE_TTL" default:"5m"`
}

// OutputConfig holds output file settings.
type OutputConfig struct {
	Path string `envconfig:"OUTPUT_PATH" default:"roblox_games.csv"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `envconfig:"LOG_LEVEL" default:"info"`
	Pretty bool   `envconfig:"LOG_PRETTY" default:"false"`
}

// Enabled reports whether the response cache is configured.
func (c *CacheConfig) Enabled() bool {
	return c.RedisAddr != ""
}

// Load reads configuration from the environment and validates it.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("process environment: %w", err)
	}

	if cfg.Crawl.MaxGames < 0 {
		return nil, fmt.Errorf("MAX_GAMES must be >= 0 (got %d)", cfg.Crawl.MaxGames)
	}
	if cfg.Crawl.BatchSize < 1 {
		return nil, fmt.Errorf("BATCH_SIZE must be >= 1 (got %d)", cfg.Crawl.BatchSize)
	}
	if cfg.Retry.MaxAttempts < 1 {
		return nil, fmt.Errorf("RETRY_MAX_ATTEMPTS must be >= 1 (got %d)", cfg.Retry.MaxAttempts)
	}

	return &cfg, nil
}
