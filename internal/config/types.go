// Package config holds the static configuration consumed by the server.
// Loading is a thin convenience on top of a plain struct: loader.go overlays
// a YAML file on the defaults and applies the CHECKMK_PASSWORD override for
// cmd/serve; required-key validation happens in internal/app.
package config

import "time"

// Config is the top-level configuration structure.
type Config struct {
	Checkmk    CheckmkConfig    `yaml:"checkmk"`
	Advanced   AdvancedConfig   `yaml:"advanced"`
	Historical HistoricalConfig `yaml:"historical"`
	Features   FeaturesConfig   `yaml:"features"`
}

// CheckmkConfig describes how to reach and authenticate against a Checkmk site.
type CheckmkConfig struct {
	ServerURL   string `yaml:"server_url"`
	Username    string `yaml:"username"`
	Password    string `yaml:"password"`
	Site        string `yaml:"site"`
	VerifySSL   bool   `yaml:"verify_ssl"`
	CACertPath  string `yaml:"ca_cert_path,omitempty"`
}

// AdvancedConfig groups the cross-cutting utility knobs.
type AdvancedConfig struct {
	Cache     CacheConfig     `yaml:"cache"`
	Batch     BatchConfig     `yaml:"batch"`
	Streaming StreamingConfig `yaml:"streaming"`
	Recovery  RecoveryConfig  `yaml:"recovery"`
}

// CacheConfig configures the LRU+TTL cache (§4.4).
type CacheConfig struct {
	MaxSize         int           `yaml:"max_size"`
	DefaultTTL      time.Duration `yaml:"default_ttl"`
	CleanupInterval time.Duration `yaml:"cleanup_interval"`
}

// BatchConfig configures the batch executor (§4.6).
type BatchConfig struct {
	MaxConcurrent   int           `yaml:"max_concurrent"`
	RateLimit       float64       `yaml:"rate_limit"`
	MaxRetries      int           `yaml:"max_retries"`
	RetryBaseDelay  time.Duration `yaml:"retry_base_delay"`
}

// StreamingConfig configures the paginated streaming iterator (§4.5).
type StreamingConfig struct {
	DefaultBatchSize int `yaml:"default_batch_size"`
}

// RecoveryConfig configures retry and circuit-breaker behavior (§4.3).
type RecoveryConfig struct {
	CircuitBreaker CircuitBreakerConfig `yaml:"circuit_breaker"`
	Retry          RetryConfig          `yaml:"retry"`
}

// CircuitBreakerConfig tunes the per-endpoint-family breaker.
type CircuitBreakerConfig struct {
	FailureThreshold int           `yaml:"failure_threshold"`
	RecoveryTimeout  time.Duration `yaml:"recovery_timeout"`
}

// RetryConfig tunes the exponential-backoff retry policy.
type RetryConfig struct {
	MaxRetries int           `yaml:"max_retries"`
	BaseDelay  time.Duration `yaml:"base_delay"`
	Jitter     float64       `yaml:"jitter"`
}

// HistoricalSource selects where metric history data comes from.
type HistoricalSource string

const (
	// HistoricalSourceRESTAPI reads history through the Checkmk REST API.
	HistoricalSourceRESTAPI HistoricalSource = "rest_api"
	// HistoricalSourceScraper is accepted for configuration compatibility
	// but is not implemented in this build: the server must not error on
	// this value, it simply never selects the scraper.
	HistoricalSourceScraper HistoricalSource = "scraper"
)

// HistoricalConfig configures metric-history retrieval.
type HistoricalConfig struct {
	Source         HistoricalSource `yaml:"source"`
	CacheTTL       time.Duration    `yaml:"cache_ttl"`
	ScraperTimeout time.Duration    `yaml:"scraper_timeout"`
}

// FeaturesConfig gates optional tool categories.
type FeaturesConfig struct {
	EventConsole         bool `yaml:"event_console"`
	MetricsAPI           bool `yaml:"metrics_api"`
	BusinessIntelligence bool `yaml:"business_intelligence"`
}
