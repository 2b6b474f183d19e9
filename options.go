package sazito

import (
	"fmt"
	"net/http"
	"time"

	"go.opentelemetry.io/otel/trace"

	"github.com/Sazito/client-sdk/storage"
)

// WithConfig replaces the whole configuration. Options after it still apply.
func WithConfig(cfg Config) Option {
	return func(c *Client) {
		cfg.Cache = cfg.Cache.clone()
		c.config = cfg
	}
}

// WithDomain sets the shop domain sent in the x-forwarded-host header.
func WithDomain(domain string) Option {
	return func(c *Client) {
		c.config.Domain = domain
	}
}

// WithBaseURL points the client at another API host.
func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		c.config.BaseURL = baseURL
	}
}

// WithTimeout sets the per-attempt timeout
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.config.Timeout = d
	}
}

// WithMaxRetries sets the maximum number of retries of 5xx responses
func WithMaxRetries(n int) Option {
	return func(c *Client) {
		c.config.Retry.Enabled = true
		c.config.Retry.Retries = n
	}
}

// WithRetryDelay sets the base delay; retry n waits n times this long.
func WithRetryDelay(d time.Duration) Option {
	return func(c *Client) {
		c.config.Retry.RetryDelay = d
	}
}

// WithRetryJitter sets the jitter factor for backoff (0.0 to 1.0)
func WithRetryJitter(f float64) Option {
	return func(c *Client) {
		if f < 0 {
			f = 0
		}
		if f > 1 {
			f = 1
		}
		c.config.Retry.Jitter = f
	}
}

// WithoutRetries disables automatic retries.
func WithoutRetries() Option {
	return func(c *Client) {
		c.config.Retry.Enabled = false
	}
}

// WithRetryPolicy replaces the linear 5xx policy.
func WithRetryPolicy(p RetryPolicy) Option {
	return func(c *Client) {
		c.retryPolicy = p
	}
}

// WithCacheFamily sets the cache policy of one family.
func WithCacheFamily(f Family, enabled bool, ttl time.Duration) Option {
	return func(c *Client) {
		if c.config.Cache == nil {
			c.config.Cache = CacheConfig{}
		}
		c.config.Cache[f] = FamilyCache{Enabled: enabled, TTL: ttl}
	}
}

// WithCache sets a custom cache implementation
func WithCache(cache Cache) Option {
	return func(c *Client) {
		c.cache = cache
	}
}

// WithTransport sets the transport used for every attempt.
func WithTransport(rt http.RoundTripper) Option {
	return func(c *Client) {
		c.httpClient = &http.Client{Transport: rt}
	}
}

// WithHTTPClient sets a custom HTTP client. Its Timeout is ignored in
// favour of the configured per-attempt timeout.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		c.httpClient = client
	}
}

// WithMiddleware adds middleware to the client
func WithMiddleware(middleware ...Middleware) Option {
	return func(c *Client) {
		c.middleware = append(c.middleware, middleware...)
	}
}

// WithHeader adds a header to every request.
func WithHeader(key, value string) Option {
	return func(c *Client) {
		if c.config.Headers == nil {
			c.config.Headers = map[string]string{}
		}
		c.config.Headers[key] = value
	}
}

// WithDebug enables debug logging with default configuration
func WithDebug() Option {
	return func(c *Client) {
		c.config.Debug = true
	}
}

// WithDebugConfig sets custom debug configuration. The client keeps its own
// copy, so one DebugConfig can seed several clients.
func WithDebugConfig(config *DebugConfig) Option {
	return func(c *Client) {
		if config == nil {
			c.debug = nil
			return
		}
		cp := *config
		c.debug = &cp
		c.config.Debug = config.Enabled
	}
}

// WithLogger sets the logger for debug output and storage failures
func WithLogger(logger Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithRequestIDGenerator sets a custom function for generating request IDs
func WithRequestIDGenerator(gen func() string) Option {
	return func(c *Client) {
		if c.debug == nil {
			c.debug = DefaultDebugConfig()
		}
		c.debug.RequestIDGen = gen
	}
}

// WithMetrics enables Prometheus metrics collection
func WithMetrics() Option {
	return func(c *Client) {
		c.metrics = NewMetricsCollector()
	}
}

// WithMetricsCollector sets a custom metrics collector
func WithMetricsCollector(collector *MetricsCollector) Option {
	return func(c *Client) {
		c.metrics = collector
	}
}

// WithTracer sets the OpenTelemetry tracer used for request spans.
func WithTracer(tracer trace.Tracer) Option {
	return func(c *Client) {
		c.tracer = tracer
	}
}

// WithRateLimit enables a client-side limiter of rps requests per second.
func WithRateLimit(rps float64, burst int) Option {
	return func(c *Client) {
		c.config.RateLimit = RateLimitConfig{RPS: rps, Burst: burst}
	}
}

// WithCircuitBreaker enables a circuit breaker. While it is open every call
// fails with a network error wrapping ErrCircuitOpen and nothing is sent.
func WithCircuitBreaker(config CircuitBreakerConfig) Option {
	return func(c *Client) {
		config.Enabled = true
		c.config.CircuitBreaker = config
	}
}

// WithDeduplication coalesces concurrent identical GETs.
func WithDeduplication() Option {
	return func(c *Client) {
		c.config.Deduplicate = true
	}
}

// WithStorage sets where guest credentials are persisted.
func WithStorage(store storage.Storage) Option {
	return func(c *Client) {
		c.storage = store
	}
}

// WithCookieStorage sets where the auth token is persisted.
func WithCookieStorage(cookies storage.CookieStorage) Option {
	return func(c *Client) {
		c.cookies = cookies
	}
}

// WithClock replaces the clock used for cache expiry.
func WithClock(now func() time.Time) Option {
	return func(c *Client) {
		c.now = now
	}
}

// WithParams sets query parameters.
func WithParams(params Params) RequestOption {
	return func(o *requestOptions) {
		if o.params == nil {
			o.params = Params{}
		}
		for k, v := range params {
			o.params[k] = v
		}
	}
}

// withParams appends a WithParams option without writing into the backing
// array of the caller's variadic slice.
func withParams(opts []RequestOption, params Params) []RequestOption {
	return append(opts[:len(opts):len(opts)], WithParams(params))
}

// WithRequestRetries overrides the retry count for one call.
func WithRequestRetries(n int) RequestOption {
	return func(o *requestOptions) {
		o.retries = &n
	}
}

// WithRequestTimeout overrides the per-attempt timeout for one call.
func WithRequestTimeout(d time.Duration) RequestOption {
	return func(o *requestOptions) {
		o.timeout = d
	}
}

// WithRequestCache set to false bypasses the cache for one GET, both read
// and write.
func WithRequestCache(enabled bool) RequestOption {
	return func(o *requestOptions) {
		o.cache = &enabled
	}
}

// WithRequestHeader adds a header to one call. It overrides client headers.
func WithRequestHeader(key, value string) RequestOption {
	return func(o *requestOptions) {
		if o.headers == nil {
			o.headers = map[string]string{}
		}
		o.headers[key] = value
	}
}

// ValidateConfiguration validates the client configuration and returns an error if invalid
func (c *Client) ValidateConfiguration() error {
	var errs []string

	errs = append(errs, c.config.problems()...)
	errs = append(errs, c.validateMiddlewareConfig()...)
	errs = append(errs, c.validateHTTPClientConfig()...)

	return configError(errs)
}

func (c *Client) validateMiddlewareConfig() []string {
	var errs []string

	for i, middleware := range c.middleware {
		if middleware == nil {
			errs = append(errs, fmt.Sprintf("middleware[%d] cannot be nil", i))
		}
	}

	return errs
}

func (c *Client) validateHTTPClientConfig() []string {
	var errs []string

	if c.httpClient == nil {
		errs = append(errs, "HTTP client cannot be nil")
	}

	return errs
}
