package sazito

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/trace"

	"github.com/Sazito/client-sdk/internal/envelope"
	"github.com/Sazito/client-sdk/internal/transform"
	"github.com/Sazito/client-sdk/storage"
)

const maxResponseSize = 10 * 1024 * 1024

// Client executes requests against the platform API and exposes the
// resource services. Every call returns a *Response and never panics or
// returns a bare error. It is safe for concurrent use.
type Client struct {
	config        Config
	httpClient    *http.Client
	middleware    []Middleware
	retryPolicy   RetryPolicy
	cache         Cache
	storage       storage.Storage
	cookies       storage.CookieStorage
	credentials   *CredentialStore
	tokens        *TokenStore
	logger        Logger
	debug         *DebugConfig
	metrics       *MetricsCollector
	tracer        trace.Tracer
	limiter       *RateLimiter
	deduplication *DeduplicationTracker
	breaker       *CircuitBreaker
	now           func() time.Time

	validationError error

	Products     *ProductsService
	Categories   *CategoriesService
	Search       *SearchService
	CMS          *CMSService
	Tags         *TagsService
	Menu         *MenuService
	EntityRoutes *EntityRoutesService
	General      *GeneralService
	Cart         *CartService
	Invoices     *InvoicesService
	Shipping     *ShippingService
	Payments     *PaymentsService
	Orders       *OrdersService
	Users        *UsersService
	Feedbacks    *FeedbacksService
	Wallet       *WalletService
	Images       *ImagesService
	Visits       *VisitsService
	Booking      *BookingService
}

// New constructs a Client using the provided functional options. A best effort
// validation is performed; call IsValid / ValidationError for errors. While
// the configuration is invalid every call fails with a validation error and
// nothing is sent.
func New(options ...Option) *Client {
	client := &Client{
		config:     DefaultConfig(),
		httpClient: &http.Client{},
		middleware: []Middleware{},
		now:        time.Now,
	}

	for _, option := range options {
		option(client)
	}

	client.init()

	if err := client.ValidateConfiguration(); err != nil {
		client.validationError = err
		client.logger.Warn("invalid client configuration", "error", err)
	}

	return client
}

func (c *Client) init() {
	if c.now == nil {
		c.now = time.Now
	}
	if c.debug == nil {
		c.debug = DefaultDebugConfig()
	}
	c.debug.Enabled = c.config.Debug
	if c.debug.RequestIDGen == nil {
		c.debug.RequestIDGen = uuid.NewString
	}
	if c.logger == nil {
		c.logger = NewDefaultLogger(nil, c.config.Debug)
	}
	if c.cache == nil {
		c.cache = NewInMemoryCacheWithClock(c.now)
	}
	if c.retryPolicy == nil {
		c.retryPolicy = NewLinearRetryPolicy(c.config.Retry.RetryDelay, c.config.Retry.Jitter)
	}
	if c.tracer == nil {
		c.tracer = defaultTracer()
	}
	if c.config.RateLimit.RPS > 0 {
		c.limiter = NewRateLimiter(c.config.RateLimit.RPS, c.config.RateLimit.Burst)
	}
	if c.config.Deduplicate {
		c.deduplication = NewDeduplicationTracker()
	}
	if c.config.CircuitBreaker.Enabled {
		c.breaker = NewCircuitBreaker(c.config.CircuitBreaker)
		c.breaker.now = c.now
		c.breaker.onChange = func(from, to CircuitState) {
			c.metrics.RecordCircuitState(to)
			c.logger.Warn("Circuit breaker state changed", "from", from, "to", to)
		}
	}
	if c.storage == nil {
		c.storage = storage.NewMemory()
	}
	if c.cookies == nil {
		c.cookies = storage.NewStorageCookies(c.storage, c.now)
	}
	c.credentials = NewCredentialStore(c.storage, c.logger)
	c.tokens = NewTokenStore(c.cookies, c.logger)

	c.Products = &ProductsService{client: c}
	c.Categories = &CategoriesService{client: c}
	c.Search = &SearchService{client: c}
	c.CMS = &CMSService{client: c}
	c.Tags = &TagsService{client: c}
	c.Menu = &MenuService{client: c}
	c.EntityRoutes = &EntityRoutesService{client: c}
	c.General = &GeneralService{client: c}
	c.Cart = newCartService(c)
	c.Invoices = &InvoicesService{client: c}
	c.Shipping = &ShippingService{client: c}
	c.Payments = &PaymentsService{client: c}
	c.Orders = &OrdersService{client: c}
	c.Users = &UsersService{client: c}
	c.Feedbacks = &FeedbacksService{client: c}
	c.Wallet = &WalletService{client: c}
	c.Images = &ImagesService{client: c}
	c.Visits = &VisitsService{client: c}
	c.Booking = &BookingService{client: c}
}

// Get performs a GET, served from the cache when the family policy allows.
func (c *Client) Get(ctx context.Context, path string, opts ...RequestOption) *Response {
	return c.do(ctx, http.MethodGet, path, nil, opts)
}

// Post sends body, renamed to the wire shape, and invalidates the family.
func (c *Client) Post(ctx context.Context, path string, body any, opts ...RequestOption) *Response {
	return c.do(ctx, http.MethodPost, path, body, opts)
}

// Put sends body, renamed to the wire shape, and invalidates the family.
func (c *Client) Put(ctx context.Context, path string, body any, opts ...RequestOption) *Response {
	return c.do(ctx, http.MethodPut, path, body, opts)
}

// Delete invalidates the family and sends a DELETE.
func (c *Client) Delete(ctx context.Context, path string, opts ...RequestOption) *Response {
	return c.do(ctx, http.MethodDelete, path, nil, opts)
}

func (c *Client) do(ctx context.Context, method, path string, body any, opts []RequestOption) *Response {
	if ctx == nil {
		ctx = context.Background()
	}
	ro := &requestOptions{}
	for _, opt := range opts {
		opt(ro)
	}

	start := time.Now()
	family := FamilyFor(path)
	requestID := c.debug.RequestIDGen()

	ctx, span := c.startSpan(ctx, method, path, family)
	c.metrics.RecordRequestStart(method, family)

	if c.debug.Enabled && c.debug.LogRequests {
		c.logger.Debug("Starting request", "requestID", requestID, "method", method, "path", path, "family", family)
	}

	resp := c.dispatch(ctx, method, path, family, body, ro, requestID)

	c.metrics.RecordRequestEnd(method, family)
	c.metrics.RecordRequest(method, family, resp.Status, time.Since(start))
	if resp.Err != nil {
		resp.Err.RequestID = requestID
		resp.Err.Method = method
		c.metrics.RecordError(resp.Err.Kind, method, family)
	}

	if c.debug.Enabled && c.debug.LogRequests {
		fields := []any{"requestID", requestID, "method", method, "path", path, "status", resp.Status,
			"cached", resp.Cached, "attempts", resp.attempts, "duration", time.Since(start)}
		if resp.Err != nil {
			fields = append(fields, "kind", resp.Err.Kind, "error", resp.Err.Message)
		}
		c.logger.Debug("Request finished", fields...)
	}

	endSpan(span, resp, resp.attempts)
	return resp
}

func (c *Client) dispatch(ctx context.Context, method, path string, family Family, body any, ro *requestOptions, requestID string) *Response {
	if c.validationError != nil {
		return failure(&Error{Kind: KindValidation, Message: "invalid client configuration", Cause: c.validationError})
	}

	target, err := c.buildURL(path, ro.params)
	if err != nil {
		return failure(&Error{Kind: KindValidation, Message: "invalid request URL", Cause: err})
	}

	if method == http.MethodGet {
		return c.get(ctx, target, family, ro, requestID)
	}

	payload, err := encodeBody(body)
	if err != nil {
		return failure(&Error{Kind: KindValidation, Message: "request body is not JSON encodable", Cause: err, URL: target})
	}

	// Invalidate before sending: a mutation that fails may still have
	// changed server state.
	c.invalidate(family, requestID)

	return c.send(ctx, method, target, family, payload, ro, requestID)
}

func (c *Client) get(ctx context.Context, target string, family Family, ro *requestOptions, requestID string) *Response {
	key := CacheKey(http.MethodGet, target, ro.params)
	policy, cacheable := c.cachePolicy(ctx, family, ro)

	if cacheable {
		if value, ok := c.cache.Get(key, policy.TTL); ok {
			if c.debug.Enabled && c.debug.LogCache {
				c.logger.Debug("Cache hit", "requestID", requestID, "cacheKey", key)
			}
			c.metrics.RecordCacheHit(family)
			return &Response{Data: transform.Clone(value), Status: http.StatusOK, Cached: true}
		}
		c.metrics.RecordCacheMiss(family)
		if c.debug.Enabled && c.debug.LogCache {
			c.logger.Debug("Cache miss", "requestID", requestID, "cacheKey", key)
		}
	}

	fetch := func() *Response {
		resp := c.send(ctx, http.MethodGet, target, family, nil, ro, requestID)
		if cacheable && resp.OK() && resp.Data != nil {
			c.cache.Set(key, transform.Clone(resp.Data))
			c.recordCacheSize()
			if c.debug.Enabled && c.debug.LogCache {
				c.logger.Debug("Response cached", "requestID", requestID, "cacheKey", key, "ttl", policy.TTL)
			}
		}
		return resp
	}

	if c.deduplication == nil {
		return fetch()
	}

	resp, joined := c.deduplication.Do(ctx, key, fetch)
	if joined {
		c.metrics.RecordDeduplicationHit(family)
		if c.debug.Enabled && c.debug.LogRequests {
			c.logger.Debug("Deduplication hit", "requestID", requestID, "cacheKey", key)
		}
	}
	return resp
}

func (c *Client) cachePolicy(ctx context.Context, family Family, ro *requestOptions) (FamilyCache, bool) {
	if ro.cache != nil && !*ro.cache {
		return FamilyCache{}, false
	}
	if !cacheAllowedByContext(ctx) {
		return FamilyCache{}, false
	}
	return c.config.Cache.Policy(family)
}

func (c *Client) invalidate(family Family, requestID string) {
	pattern := family.InvalidationPattern()
	removed := c.cache.DeleteMatching(pattern)
	c.metrics.RecordInvalidation(family, removed)
	c.recordCacheSize()

	if c.debug.Enabled && c.debug.LogInvalidation {
		c.logger.Debug("Cache invalidated", "requestID", requestID, "family", family, "pattern", pattern, "removed", removed)
	}
}

func (c *Client) recordCacheSize() {
	if c.metrics == nil {
		return
	}
	if mem, ok := c.cache.(*InMemoryCache); ok {
		c.metrics.RecordCacheSize(mem.Len())
	}
}

func (c *Client) retryLimit(ro *requestOptions) int {
	if ro.retries != nil {
		return *ro.retries
	}
	if !c.config.Retry.Enabled {
		return 0
	}
	return c.config.Retry.Retries
}

// send runs the attempt loop: one transport call per attempt, each under its
// own timeout, retried sequentially while the policy allows.
func (c *Client) send(ctx context.Context, method, target string, family Family, payload []byte, ro *requestOptions, requestID string) *Response {
	limit := c.retryLimit(ro)
	timeout := c.config.Timeout
	if ro.timeout > 0 {
		timeout = ro.timeout
	}

	for attempt := 0; ; attempt++ {
		if attempt > 0 {
			if c.debug.Enabled && c.debug.LogRetries {
				c.logger.Info("Retry attempt", "requestID", requestID, "attempt", attempt, "maxRetries", limit, "url", target)
			}
			c.metrics.RecordRetry(method, family, attempt)
		}

		if err := c.waitRateLimit(ctx, family); err != nil {
			return c.networkFailure(ctx, err, method, target, attempt)
		}

		if c.breaker != nil && !c.breaker.Allow() {
			c.metrics.RecordCircuitRejection(family)
			return circuitOpen(method, target, attempt)
		}

		resp, raw, err := c.attempt(ctx, method, target, payload, ro.headers, timeout, requestID)
		c.recordOutcome(ctx, resp, err)
		if err != nil {
			if c.debug.Enabled && c.debug.LogRequests {
				c.logger.Warn("Request failed", "requestID", requestID, "url", target, "error", err)
			}
			return c.networkFailure(ctx, err, method, target, attempt)
		}

		if delay, retry := c.retryPolicy.ShouldRetry(resp, nil, attempt, limit); retry {
			if c.debug.Enabled && c.debug.LogRetries {
				c.logger.Info("Scheduling retry", "requestID", requestID, "attempt", attempt+1, "status", resp.StatusCode, "backoff", delay, "url", target)
			}
			if err := sleep(ctx, delay); err != nil {
				return c.networkFailure(ctx, err, method, target, attempt)
			}
			continue
		}

		out := c.classify(resp, raw, target)
		out.attempts = attempt + 1
		if out.Err != nil {
			out.Err.Attempts = out.attempts
		}
		return out
	}
}

// recordOutcome feeds one attempt to the circuit breaker. Attempts ended by
// the caller's own context are not counted.
func (c *Client) recordOutcome(ctx context.Context, resp *http.Response, err error) {
	switch {
	case c.breaker == nil:
	case err != nil:
		if ctx.Err() == nil {
			c.breaker.RecordFailure()
		}
	case IsRetryableStatus(resp.StatusCode):
		c.breaker.RecordFailure()
	default:
		c.breaker.RecordSuccess()
	}
}

func circuitOpen(method, target string, attempt int) *Response {
	resp := failure(&Error{
		Kind:     KindNetwork,
		Message:  "Circuit breaker is open",
		Cause:    ErrCircuitOpen,
		Method:   method,
		URL:      target,
		Attempts: attempt,
	})
	resp.attempts = attempt
	return resp
}

func (c *Client) waitRateLimit(ctx context.Context, family Family) error {
	if c.limiter == nil {
		return nil
	}
	waited, err := c.limiter.Wait(ctx)
	c.metrics.RecordRateLimitWait(family, waited)
	return err
}

// attempt performs one transport call and reads the whole body before the
// attempt deadline is released.
func (c *Client) attempt(ctx context.Context, method, target string, payload []byte, headers map[string]string, timeout time.Duration, requestID string) (*http.Response, []byte, error) {
	actx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	var body io.Reader
	if payload != nil {
		body = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(actx, method, target, body)
	if err != nil {
		return nil, nil, err
	}
	c.applyHeaders(req, headers, requestID)

	resp, err := c.executeMiddleware(req)
	if err != nil {
		return nil, nil, err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return nil, nil, fmt.Errorf("reading response body: %w", err)
	}
	return resp, raw, nil
}

func (c *Client) applyHeaders(req *http.Request, headers map[string]string, requestID string) {
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-forwarded-host", c.config.Domain)
	req.Header.Set("User-Agent", userAgent())
	if requestID != "" {
		req.Header.Set("X-Request-ID", requestID)
	}
	for k, v := range c.config.Headers {
		req.Header.Set(k, v)
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	// The platform expects the raw token, without a scheme.
	if token, ok := c.tokens.Token(); ok {
		req.Header.Set("Authorization", token)
	}
}

func (c *Client) executeMiddleware(req *http.Request) (*http.Response, error) {
	if len(c.middleware) == 0 {
		return c.httpClient.Do(req)
	}

	current := RoundTripperFunc(c.httpClient.Do)

	for i := len(c.middleware) - 1; i >= 0; i-- {
		middleware := c.middleware[i]
		next := current
		current = RoundTripperFunc(func(r *http.Request) (*http.Response, error) {
			return middleware(r, next)
		})
	}

	return current.RoundTrip(req)
}

// classify turns a finished HTTP exchange into a Response. Non-2xx statuses
// become api errors carrying the SDK-shaped body as details.
func (c *Client) classify(resp *http.Response, raw []byte, target string) *Response {
	payload := c.parseBody(resp.Header.Get("Content-Type"), raw)
	data := envelope.Unwrap(payload)

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return success(data, resp.StatusCode)
	}

	message := envelope.Message(data)
	if message == "" {
		message = envelope.Message(envelope.Result(payload))
	}
	if message == "" {
		message = statusText(resp)
	}
	if message == "" {
		message = "Request failed"
	}

	return failure(&Error{
		Kind:    KindAPI,
		Status:  resp.StatusCode,
		Message: message,
		Details: data,
		URL:     target,
	})
}

func (c *Client) parseBody(contentType string, raw []byte) any {
	if !strings.Contains(contentType, "application/json") {
		return string(raw)
	}
	if len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		if c.debug.Enabled {
			c.logger.Debug("Malformed JSON body, keeping text", "error", err)
		}
		return string(raw)
	}
	return v
}

func statusText(resp *http.Response) string {
	if text := strings.TrimSpace(strings.TrimPrefix(resp.Status, strconv.Itoa(resp.StatusCode))); text != "" {
		return text
	}
	return http.StatusText(resp.StatusCode)
}

func (c *Client) networkFailure(ctx context.Context, err error, method, target string, attempt int) *Response {
	var e *Error
	switch {
	case ctx.Err() != nil:
		e = cancelledError(ctx.Err())
	case errors.Is(err, context.DeadlineExceeded) || isTimeout(err):
		e = &Error{Kind: KindNetwork, Message: "Request timeout", Cause: err, timeout: true}
	default:
		msg := err.Error()
		if msg == "" {
			msg = "Network error"
		}
		e = &Error{Kind: KindNetwork, Message: msg, Cause: err}
	}
	e.Method = method
	e.URL = target
	e.Attempts = attempt + 1
	resp := failure(e)
	resp.attempts = attempt + 1
	return resp
}

func cancelledError(err error) *Error {
	if errors.Is(err, context.DeadlineExceeded) {
		return &Error{Kind: KindNetwork, Message: "Request timeout", Cause: err, timeout: true, aborted: true}
	}
	return &Error{Kind: KindNetwork, Message: "Request cancelled", Cause: err, aborted: true}
}

func isTimeout(err error) bool {
	var ne net.Error
	return errors.As(err, &ne) && ne.Timeout()
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func encodeBody(body any) ([]byte, error) {
	if body == nil {
		return nil, nil
	}
	if raw, ok := body.(rawBody); ok {
		return raw.data, nil
	}
	normalized, err := transform.Normalize(body)
	if err != nil {
		return nil, err
	}
	return json.Marshal(transform.ToWire(normalized))
}

// rawBody is a pre-encoded payload sent as is. Its content type travels as a
// request header.
type rawBody struct {
	data []byte
}

// buildURL joins the base URL and path and appends params. Nil params are
// skipped; keys are sorted.
func (c *Client) buildURL(path string, params Params) (string, error) {
	raw := strings.TrimRight(c.config.BaseURL, "/") + path
	if _, err := url.Parse(raw); err != nil {
		return "", err
	}

	values := url.Values{}
	for k, v := range params {
		if v == nil {
			continue
		}
		values.Set(k, formatParam(v))
	}
	if len(values) == 0 {
		return raw, nil
	}
	return raw + "?" + values.Encode(), nil
}

func formatParam(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(t), 'f', -1, 32)
	case bool:
		return strconv.FormatBool(t)
	case []string:
		return strings.Join(t, ",")
	case []any:
		parts := make([]string, len(t))
		for i, item := range t {
			parts[i] = formatParam(item)
		}
		return strings.Join(parts, ",")
	case fmt.Stringer:
		return t.String()
	default:
		return fmt.Sprint(v)
	}
}

// Config returns a copy of the active configuration.
func (c *Client) Config() Config {
	cfg := c.config
	cfg.Cache = c.config.Cache.clone()
	return cfg
}

// Cache exposes the cache store.
func (c *Client) Cache() Cache { return c.cache }

// Credentials exposes the guest credential store.
func (c *Client) Credentials() *CredentialStore { return c.credentials }

// Tokens exposes the auth token store.
func (c *Client) Tokens() *TokenStore { return c.tokens }

// SetAuthToken stores the token sent as the Authorization header.
func (c *Client) SetAuthToken(token string) { c.tokens.SetToken(token) }

// AuthToken returns the stored token.
func (c *Client) AuthToken() (string, bool) { return c.tokens.Token() }

// ClearAuth forgets the token.
func (c *Client) ClearAuth() { c.tokens.Clear() }

// IsAuthenticated reports whether a token is stored.
func (c *Client) IsAuthenticated() bool { return c.tokens.HasToken() }

// ClearCache drops every cached response.
func (c *Client) ClearCache() {
	c.cache.Clear()
	c.recordCacheSize()
}

// ClearCredentials drops every guest credential.
func (c *Client) ClearCredentials() { c.credentials.ClearAll() }

// ClearAll forgets the token, the cache and the credentials.
func (c *Client) ClearAll() {
	c.ClearAuth()
	c.ClearCache()
	c.ClearCredentials()
}

// IsValid reports whether configuration validation passed at construction.
func (c *Client) IsValid() bool {
	return c.validationError == nil
}

// ValidationError returns the configuration validation error, if any.
func (c *Client) ValidationError() error {
	return c.validationError
}
