package sazito

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultBaseURL is the platform API endpoint.
const DefaultBaseURL = "http://api.sazito.com:8080"

// Config holds everything a Client needs before it is constructed. Zero
// values are not defaults: start from DefaultConfig.
type Config struct {
	// Domain identifies the shop, without scheme (e.g. "mystore.sazito.com").
	Domain      string            `yaml:"domain"`
	BaseURL     string            `yaml:"base_url"`
	Timeout     time.Duration     `yaml:"timeout"`
	Retry       RetryConfig       `yaml:"retry"`
	Cache       CacheConfig       `yaml:"cache"`
	Headers     map[string]string `yaml:"headers"`
	Debug       bool              `yaml:"debug"`
	RateLimit   RateLimitConfig   `yaml:"rate_limit"`
	Deduplicate bool              `yaml:"deduplicate"`

	CircuitBreaker CircuitBreakerConfig `yaml:"circuit_breaker"`
}

// RetryConfig controls retries of 5xx responses.
type RetryConfig struct {
	Enabled    bool          `yaml:"enabled"`
	Retries    int           `yaml:"retries"`
	RetryDelay time.Duration `yaml:"retry_delay"`
	// Jitter adds up to this fraction of each delay. Zero keeps pure linear backoff.
	Jitter float64 `yaml:"jitter"`
}

// FamilyCache is the cache policy of one family.
type FamilyCache struct {
	Enabled bool          `yaml:"enabled"`
	TTL     time.Duration `yaml:"ttl"`
}

// CacheConfig maps each family to its policy. Families not present are not
// cached.
type CacheConfig map[Family]FamilyCache

// RateLimitConfig enables a client-side token bucket when RPS is positive.
type RateLimitConfig struct {
	RPS   float64 `yaml:"rps"`
	Burst int     `yaml:"burst"`
}

// CircuitBreakerConfig enables a per-client circuit breaker. Zero thresholds
// take the NewCircuitBreaker defaults.
type CircuitBreakerConfig struct {
	Enabled          bool          `yaml:"enabled"`
	FailureThreshold int           `yaml:"failure_threshold"`
	RecoveryTimeout  time.Duration `yaml:"recovery_timeout"`
	SuccessThreshold int           `yaml:"success_threshold"`
}

// DefaultConfig returns the stock configuration. Domain is left empty.
func DefaultConfig() Config {
	return Config{
		BaseURL: DefaultBaseURL,
		Timeout: 30 * time.Second,
		Retry: RetryConfig{
			Enabled:    true,
			Retries:    3,
			RetryDelay: time.Second,
		},
		Cache: DefaultCacheConfig(),
	}
}

// DefaultCacheConfig caches catalog and content families. Cart and orders
// are user specific and never cached.
func DefaultCacheConfig() CacheConfig {
	return CacheConfig{
		FamilyProducts:     {Enabled: true, TTL: 10 * time.Minute},
		FamilyCategories:   {Enabled: true, TTL: 10 * time.Minute},
		FamilyCart:         {Enabled: false},
		FamilyOrders:       {Enabled: false},
		FamilySearch:       {Enabled: true, TTL: 5 * time.Minute},
		FamilyCMS:          {Enabled: true, TTL: 10 * time.Minute},
		FamilyTags:         {Enabled: true, TTL: 10 * time.Minute},
		FamilyEntityRoutes: {Enabled: true, TTL: 10 * time.Minute},
	}
}

// Policy returns the cache policy of f and whether it caches at all.
func (c CacheConfig) Policy(f Family) (FamilyCache, bool) {
	p, ok := c[f]
	if !ok || !p.Enabled || p.TTL <= 0 {
		return p, false
	}
	return p, true
}

func (c CacheConfig) clone() CacheConfig {
	out := make(CacheConfig, len(c))
	for k, v := range c {
		out[k] = v
	}
	return out
}

// LoadConfig reads a YAML file over DefaultConfig. Sections that are present
// override field by field; each listed cache family replaces its default
// entry.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading config: %w", err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config: %w", err)
	}
	return cfg, nil
}

// Validate reports every problem in the configuration at once.
func (c Config) Validate() error {
	return configError(c.problems())
}

func (c Config) problems() []string {
	var errs []string

	errs = append(errs, c.validateTarget()...)
	errs = append(errs, c.validateRetry()...)
	errs = append(errs, c.validateCache()...)
	errs = append(errs, c.validateRateLimit()...)
	errs = append(errs, c.validateCircuitBreaker()...)

	return errs
}

func configError(errs []string) error {
	if len(errs) == 0 {
		return nil
	}
	return &Error{
		Kind:    KindValidation,
		Message: "configuration validation failed",
		Cause:   fmt.Errorf("validation errors: %v", errs),
	}
}

func (c Config) validateTarget() []string {
	var errs []string
	if c.Domain == "" {
		errs = append(errs, "domain is required")
	}
	if c.BaseURL == "" {
		errs = append(errs, "base_url is required")
	}
	if c.Timeout <= 0 {
		errs = append(errs, "timeout must be positive")
	}
	if c.Timeout > 10*time.Minute {
		errs = append(errs, "timeout > 10m may cause requests to hang for too long")
	}
	return errs
}

func (c Config) validateRetry() []string {
	var errs []string
	if c.Retry.Retries < 0 {
		errs = append(errs, "retry.retries must be non-negative")
	}
	if c.Retry.Retries > 100 {
		errs = append(errs, "retry.retries > 100 may cause excessive resource usage")
	}
	if c.Retry.RetryDelay < 0 {
		errs = append(errs, "retry.retry_delay must be non-negative")
	}
	if c.Retry.Jitter < 0 || c.Retry.Jitter > 1 {
		errs = append(errs, "retry.jitter must be between 0 and 1")
	}
	return errs
}

func (c Config) validateCache() []string {
	var errs []string
	for family, policy := range c.Cache {
		if !family.Valid() {
			errs = append(errs, fmt.Sprintf("cache: unknown family %q", family))
			continue
		}
		if policy.Enabled && policy.TTL <= 0 {
			errs = append(errs, fmt.Sprintf("cache.%s.ttl must be positive when enabled", family))
		}
	}
	return errs
}

func (c Config) validateRateLimit() []string {
	var errs []string
	if c.RateLimit.RPS < 0 {
		errs = append(errs, "rate_limit.rps must be non-negative")
	}
	if c.RateLimit.RPS > 0 && c.RateLimit.Burst < 1 {
		errs = append(errs, "rate_limit.burst must be at least 1 when rps is set")
	}
	return errs
}

func (c Config) validateCircuitBreaker() []string {
	var errs []string
	cb := c.CircuitBreaker
	if cb.FailureThreshold < 0 {
		errs = append(errs, "circuit_breaker.failure_threshold must be non-negative")
	}
	if cb.SuccessThreshold < 0 {
		errs = append(errs, "circuit_breaker.success_threshold must be non-negative")
	}
	if cb.RecoveryTimeout < 0 {
		errs = append(errs, "circuit_breaker.recovery_timeout must be non-negative")
	}
	return errs
}
