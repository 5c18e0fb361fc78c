package config

import "time"

// Default returns a Config populated with sane production defaults.
// Callers overlay a YAML file and environment secrets on top.
func Default() Config {
	return Config{
		Checkmk: CheckmkConfig{
			Site:      "cmk",
			VerifySSL: true,
		},
		Advanced: AdvancedConfig{
			Cache: CacheConfig{
				MaxSize:         1000,
				DefaultTTL:      300 * time.Second,
				CleanupInterval: 60 * time.Second,
			},
			Batch: BatchConfig{
				MaxConcurrent:  5,
				RateLimit:      10,
				MaxRetries:     3,
				RetryBaseDelay: 200 * time.Millisecond,
			},
			Streaming: StreamingConfig{
				DefaultBatchSize: 100,
			},
			Recovery: RecoveryConfig{
				CircuitBreaker: CircuitBreakerConfig{
					FailureThreshold: 5,
					RecoveryTimeout:  30 * time.Second,
				},
				Retry: RetryConfig{
					MaxRetries: 3,
					BaseDelay:  200 * time.Millisecond,
					Jitter:     0.2,
				},
			},
		},
		Historical: HistoricalConfig{
			Source:   HistoricalSourceRESTAPI,
			CacheTTL: 300 * time.Second,
		},
		Features: FeaturesConfig{
			EventConsole:         true,
			MetricsAPI:           true,
			BusinessIntelligence: true,
		},
	}
}
