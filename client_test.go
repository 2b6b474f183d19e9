package sazito

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

const (
	testDomain           = "shop.example.com"
	contentTypeJSON      = "application/json"
	expectedSuccessMsg   = "Expected success, got error: %v"
	expectedCallsMsg     = "Expected %d server calls, got %d"
	expectedKindMsg      = "Expected %s error, got %+v"
	failedWriteResponse  = "Failed to write response: %v"
	productListBody      = `{"result":{"products":[{"id":1,"title":"Shirt"}],"total_count":1}}`
	singleProductPayload = `{"result":{"product":{"first_name":"Ada","product_variants":[{"variant_id":7}]}}}`
)

func writeJSON(t *testing.T, w http.ResponseWriter, status int, body string) {
	t.Helper()
	w.Header().Set("Content-Type", contentTypeJSON)
	w.WriteHeader(status)
	if _, err := w.Write([]byte(body)); err != nil {
		t.Errorf(failedWriteResponse, err)
	}
}

// countingServer answers every request with handler and counts the calls.
func countingServer(t *testing.T, handler func(w http.ResponseWriter, r *http.Request, call int32)) (*httptest.Server, *int32) {
	t.Helper()
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		n := atomic.AddInt32(&calls, 1)
		handler(w, r, n)
	}))
	t.Cleanup(server.Close)
	return server, &calls
}

func newTestClient(t *testing.T, serverURL string, opts ...Option) *Client {
	t.Helper()
	base := []Option{
		WithDomain(testDomain),
		WithBaseURL(serverURL),
		WithRetryDelay(time.Millisecond),
		WithLogger(NopLogger()),
	}
	client := New(append(base, opts...)...)
	if !client.IsValid() {
		t.Fatalf("client configuration invalid: %v", client.ValidationError())
	}
	return client
}

func TestNew(t *testing.T) {
	client := New(WithDomain(testDomain))

	if client == nil {
		t.Fatal("New() returned nil")
	}
	cfg := client.Config()
	if cfg.Timeout != 30*time.Second {
		t.Errorf("Expected timeout=30s, got %v", cfg.Timeout)
	}
	if cfg.Retry.Retries != 3 || !cfg.Retry.Enabled {
		t.Errorf("Expected 3 enabled retries, got %+v", cfg.Retry)
	}
	if cfg.Retry.RetryDelay != time.Second {
		t.Errorf("Expected retry delay 1s, got %v", cfg.Retry.RetryDelay)
	}
	if cfg.BaseURL != DefaultBaseURL {
		t.Errorf("Expected base URL %s, got %s", DefaultBaseURL, cfg.BaseURL)
	}
	if p, ok := cfg.Cache.Policy(FamilyProducts); !ok || p.TTL != 10*time.Minute {
		t.Errorf("Expected products cached for 10m, got %+v (%v)", p, ok)
	}
	if _, ok := cfg.Cache.Policy(FamilyCart); ok {
		t.Error("Expected cart family not to be cached")
	}
	if client.Products == nil || client.Cart == nil || client.Wallet == nil {
		t.Error("Expected resource services to be initialised")
	}
}

func TestNewWithoutDomainFailsEveryCall(t *testing.T) {
	server, calls := countingServer(t, func(w http.ResponseWriter, r *http.Request, _ int32) {
		writeJSON(t, w, http.StatusOK, `{}`)
	})

	client := New(WithBaseURL(server.URL), WithLogger(NopLogger()))
	if client.IsValid() {
		t.Fatal("Expected client without domain to be invalid")
	}

	resp := client.Get(context.Background(), ProductsAPI)
	if resp.Err == nil || resp.Err.Kind != KindValidation {
		t.Fatalf(expectedKindMsg, KindValidation, resp.Err)
	}
	if !errors.Is(resp.Err, ErrValidation) {
		t.Error("Expected errors.Is(err, ErrValidation)")
	}
	if n := atomic.LoadInt32(calls); n != 0 {
		t.Errorf(expectedCallsMsg, 0, n)
	}
}

func TestGetUnwrapsAndRenames(t *testing.T) {
	server, _ := countingServer(t, func(w http.ResponseWriter, r *http.Request, _ int32) {
		if r.Method != http.MethodGet {
			t.Errorf("Expected GET method, got %s", r.Method)
		}
		writeJSON(t, w, http.StatusOK, singleProductPayload)
	})
	client := newTestClient(t, server.URL)

	resp := client.Get(context.Background(), "/api/v1/users/current")
	if !resp.OK() {
		t.Fatalf(expectedSuccessMsg, resp.Err)
	}
	if resp.Status != http.StatusOK {
		t.Errorf("Expected status 200, got %d", resp.Status)
	}

	data, ok := resp.Data.(map[string]any)
	if !ok {
		t.Fatalf("Expected map data, got %T", resp.Data)
	}
	if data["firstName"] != "Ada" {
		t.Errorf("Expected firstName=Ada, got %v", data["firstName"])
	}
	variants, ok := data["variants"].([]any)
	if !ok || len(variants) != 1 {
		t.Fatalf("Expected one variant, got %v", data["variants"])
	}
	if v := variants[0].(map[string]any); v["variantId"] != float64(7) {
		t.Errorf("Expected variantId=7, got %v", v)
	}
}

func TestNonJSONResponseIsText(t *testing.T) {
	server, _ := countingServer(t, func(w http.ResponseWriter, r *http.Request, _ int32) {
		w.Header().Set("Content-Type", "text/plain")
		if _, err := w.Write([]byte("plain body")); err != nil {
			t.Errorf(failedWriteResponse, err)
		}
	})
	client := newTestClient(t, server.URL)

	resp := client.Get(context.Background(), "/api/v1/users/current")
	if !resp.OK() {
		t.Fatalf(expectedSuccessMsg, resp.Err)
	}
	if resp.Data != "plain body" {
		t.Errorf("Expected text body, got %v", resp.Data)
	}
}

func TestRequestHeaders(t *testing.T) {
	var got http.Header
	server, _ := countingServer(t, func(w http.ResponseWriter, r *http.Request, _ int32) {
		got = r.Header.Clone()
		writeJSON(t, w, http.StatusOK, `{}`)
	})
	client := newTestClient(t, server.URL,
		WithHeader("X-Shop", "client"),
		WithHeader("X-Override", "client"),
		WithRequestIDGenerator(func() string { return "req-1" }),
	)
	client.SetAuthToken("jwt-token")

	resp := client.Get(context.Background(), "/api/v1/users/current", WithRequestHeader("X-Override", "call"))
	if !resp.OK() {
		t.Fatalf(expectedSuccessMsg, resp.Err)
	}

	checks := map[string]string{
		"Content-Type":     contentTypeJSON,
		"X-Forwarded-Host": testDomain,
		"Authorization":    "jwt-token",
		"X-Request-Id":     "req-1",
		"X-Shop":           "client",
		"X-Override":       "call",
	}
	for name, want := range checks {
		if v := got.Get(name); v != want {
			t.Errorf("Expected header %s=%q, got %q", name, want, v)
		}
	}
	if !strings.HasPrefix(got.Get("User-Agent"), "sazito-go-sdk/") {
		t.Errorf("Unexpected User-Agent %q", got.Get("User-Agent"))
	}
}

func TestNoAuthorizationWithoutToken(t *testing.T) {
	server, _ := countingServer(t, func(w http.ResponseWriter, r *http.Request, _ int32) {
		if auth := r.Header.Get("Authorization"); auth != "" {
			t.Errorf("Expected no Authorization header, got %q", auth)
		}
		writeJSON(t, w, http.StatusOK, `{}`)
	})
	client := newTestClient(t, server.URL)

	if resp := client.Get(context.Background(), "/api/v1/users/current"); !resp.OK() {
		t.Fatalf(expectedSuccessMsg, resp.Err)
	}
}

func TestQueryParams(t *testing.T) {
	server, _ := countingServer(t, func(w http.ResponseWriter, r *http.Request, _ int32) {
		if r.URL.RawQuery != "a=1&b=x&c=1.5&d=true&e=p%2Cq" {
			t.Errorf("Unexpected query %q", r.URL.RawQuery)
		}
		writeJSON(t, w, http.StatusOK, `{}`)
	})
	client := newTestClient(t, server.URL)

	resp := client.Get(context.Background(), OrdersAPI, WithParams(Params{
		"b":    "x",
		"a":    1,
		"c":    1.5,
		"d":    true,
		"e":    []string{"p", "q"},
		"skip": nil,
	}))
	if !resp.OK() {
		t.Fatalf(expectedSuccessMsg, resp.Err)
	}
}

func TestGetServedFromCache(t *testing.T) {
	server, calls := countingServer(t, func(w http.ResponseWriter, r *http.Request, _ int32) {
		writeJSON(t, w, http.StatusOK, productListBody)
	})
	client := newTestClient(t, server.URL)
	ctx := context.Background()

	first := client.Get(ctx, ProductsAPI, WithParams(Params{"page": 1}))
	second := client.Get(ctx, ProductsAPI, WithParams(Params{"page": 1}))

	if !first.OK() || !second.OK() {
		t.Fatalf("Expected both calls to succeed: %v / %v", first.Err, second.Err)
	}
	if n := atomic.LoadInt32(calls); n != 1 {
		t.Errorf(expectedCallsMsg, 1, n)
	}
	if first.Cached || !second.Cached {
		t.Errorf("Expected only the second response to be cached, got %v/%v", first.Cached, second.Cached)
	}

	// Mutating a returned value must not leak into the cache.
	second.Data.(map[string]any)["total"] = "changed"
	third := client.Get(ctx, ProductsAPI, WithParams(Params{"page": 1}))
	if third.Data.(map[string]any)["total"] == "changed" {
		t.Error("Cached value was mutated through a response")
	}

	other := client.Get(ctx, ProductsAPI, WithParams(Params{"page": 2}))
	if !other.OK() || other.Cached {
		t.Error("Expected a different page to miss the cache")
	}
	if n := atomic.LoadInt32(calls); n != 2 {
		t.Errorf(expectedCallsMsg, 2, n)
	}
}

func TestCacheBypass(t *testing.T) {
	tests := []struct {
		name string
		ctx  context.Context
		opts []RequestOption
	}{
		{"request option", context.Background(), []RequestOption{WithRequestCache(false)}},
		{"context", WithContextCacheDisabled(context.Background()), nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server, calls := countingServer(t, func(w http.ResponseWriter, r *http.Request, _ int32) {
				writeJSON(t, w, http.StatusOK, productListBody)
			})
			client := newTestClient(t, server.URL)

			client.Get(tt.ctx, ProductsAPI, tt.opts...)
			resp := client.Get(tt.ctx, ProductsAPI, tt.opts...)

			if resp.Cached {
				t.Error("Expected bypassed call not to be served from cache")
			}
			if n := atomic.LoadInt32(calls); n != 2 {
				t.Errorf(expectedCallsMsg, 2, n)
			}
			if client.Cache().Len() != 0 {
				t.Errorf("Expected nothing cached, got %d entries", client.Cache().Len())
			}
		})
	}
}

func TestDisabledFamilyNotCached(t *testing.T) {
	server, calls := countingServer(t, func(w http.ResponseWriter, r *http.Request, _ int32) {
		writeJSON(t, w, http.StatusOK, `{"result":{"cart":{"id":1}}}`)
	})
	client := newTestClient(t, server.URL)

	client.Get(context.Background(), CartsAPI+"/1")
	client.Get(context.Background(), CartsAPI+"/1")

	if n := atomic.LoadInt32(calls); n != 2 {
		t.Errorf(expectedCallsMsg, 2, n)
	}
}

func TestErrorsAreNotCached(t *testing.T) {
	server, calls := countingServer(t, func(w http.ResponseWriter, r *http.Request, _ int32) {
		writeJSON(t, w, http.StatusNotFound, `{"message":"missing"}`)
	})
	client := newTestClient(t, server.URL)

	client.Get(context.Background(), TagsAPI)
	client.Get(context.Background(), TagsAPI)

	if n := atomic.LoadInt32(calls); n != 2 {
		t.Errorf(expectedCallsMsg, 2, n)
	}
}

func TestCacheExpiresAfterTTL(t *testing.T) {
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	server, calls := countingServer(t, func(w http.ResponseWriter, r *http.Request, _ int32) {
		writeJSON(t, w, http.StatusOK, productListBody)
	})
	client := newTestClient(t, server.URL,
		WithClock(func() time.Time { return now }),
		WithCacheFamily(FamilyProducts, true, time.Minute),
	)
	ctx := context.Background()

	client.Get(ctx, ProductsAPI)
	now = now.Add(30 * time.Second)
	if resp := client.Get(ctx, ProductsAPI); !resp.Cached {
		t.Error("Expected entry within TTL to be served from cache")
	}

	now = now.Add(time.Minute)
	if resp := client.Get(ctx, ProductsAPI); resp.Cached {
		t.Error("Expected expired entry to be refetched")
	}
	if n := atomic.LoadInt32(calls); n != 2 {
		t.Errorf(expectedCallsMsg, 2, n)
	}
}

func TestMutationInvalidatesItsFamilyOnly(t *testing.T) {
	server, _ := countingServer(t, func(w http.ResponseWriter, r *http.Request, _ int32) {
		writeJSON(t, w, http.StatusOK, `{"result":{"ok":true}}`)
	})
	client := newTestClient(t, server.URL)
	ctx := context.Background()

	client.Get(ctx, ProductsAPI)
	client.Get(ctx, ProductsAPI+"/42")
	client.Get(ctx, TagsAPI)
	if client.Cache().Len() != 3 {
		t.Fatalf("Expected 3 cached entries, got %d", client.Cache().Len())
	}

	if resp := client.Post(ctx, ProductsAPI+"/42/rate", map[string]any{"score": 5}); !resp.OK() {
		t.Fatalf(expectedSuccessMsg, resp.Err)
	}

	if resp := client.Get(ctx, ProductsAPI); resp.Cached {
		t.Error("Expected products entry to be invalidated")
	}
	if resp := client.Get(ctx, TagsAPI); !resp.Cached {
		t.Error("Expected tags entry to survive a products mutation")
	}
}

func TestFailedMutationStillInvalidates(t *testing.T) {
	server, _ := countingServer(t, func(w http.ResponseWriter, r *http.Request, _ int32) {
		if r.Method == http.MethodDelete {
			writeJSON(t, w, http.StatusBadRequest, `{"message":"nope"}`)
			return
		}
		writeJSON(t, w, http.StatusOK, `{"result":{"tags":[]}}`)
	})
	client := newTestClient(t, server.URL)
	ctx := context.Background()

	client.Get(ctx, TagsAPI)
	if resp := client.Delete(ctx, TagsAPI+"/1"); resp.OK() {
		t.Fatal("Expected delete to fail")
	}
	if client.Cache().Len() != 0 {
		t.Errorf("Expected tags entries invalidated, %d left", client.Cache().Len())
	}
}

func TestRetryOn5xx(t *testing.T) {
	server, calls := countingServer(t, func(w http.ResponseWriter, r *http.Request, n int32) {
		if n < 3 {
			writeJSON(t, w, http.StatusInternalServerError, `{"message":"boom"}`)
			return
		}
		writeJSON(t, w, http.StatusOK, `{"result":{"ok":true}}`)
	})
	client := newTestClient(t, server.URL)

	resp := client.Get(context.Background(), OrdersAPI)
	if !resp.OK() {
		t.Fatalf(expectedSuccessMsg, resp.Err)
	}
	if n := atomic.LoadInt32(calls); n != 3 {
		t.Errorf(expectedCallsMsg, 3, n)
	}
	if resp.attempts != 3 {
		t.Errorf("Expected 3 attempts, got %d", resp.attempts)
	}
}

func TestRetriesExhausted(t *testing.T) {
	server, calls := countingServer(t, func(w http.ResponseWriter, r *http.Request, _ int32) {
		w.Header().Set("Content-Type", contentTypeJSON)
		w.WriteHeader(http.StatusServiceUnavailable)
	})
	client := newTestClient(t, server.URL, WithMaxRetries(2))

	resp := client.Get(context.Background(), OrdersAPI)
	if resp.Err == nil || resp.Err.Kind != KindAPI {
		t.Fatalf(expectedKindMsg, KindAPI, resp.Err)
	}
	if resp.Err.Status != http.StatusServiceUnavailable {
		t.Errorf("Expected status 503, got %d", resp.Err.Status)
	}
	if resp.Err.Message != "Service Unavailable" {
		t.Errorf("Expected status text as message, got %q", resp.Err.Message)
	}
	if resp.Err.Attempts != 3 {
		t.Errorf("Expected 3 attempts recorded, got %d", resp.Err.Attempts)
	}
	if n := atomic.LoadInt32(calls); n != 3 {
		t.Errorf(expectedCallsMsg, 3, n)
	}
	if !IsTransient(resp.Err) {
		t.Error("Expected 503 to be transient")
	}
}

func TestNoRetryOn4xx(t *testing.T) {
	server, calls := countingServer(t, func(w http.ResponseWriter, r *http.Request, _ int32) {
		writeJSON(t, w, http.StatusBadRequest, `{"message":"Invalid input","field_errors":{"email":"taken"}}`)
	})
	client := newTestClient(t, server.URL)

	resp := client.Post(context.Background(), UsersAPI+"/register", map[string]any{"email": "a@b.c"})
	if resp.Err == nil || resp.Err.Kind != KindAPI {
		t.Fatalf(expectedKindMsg, KindAPI, resp.Err)
	}
	if resp.Err.Status != http.StatusBadRequest || resp.Status != http.StatusBadRequest {
		t.Errorf("Expected status 400, got %d/%d", resp.Err.Status, resp.Status)
	}
	if resp.Err.Message != "Invalid input" {
		t.Errorf("Expected server message, got %q", resp.Err.Message)
	}
	details, ok := resp.Err.Details.(map[string]any)
	if !ok || details["fieldErrors"] == nil {
		t.Errorf("Expected SDK-shaped details, got %v", resp.Err.Details)
	}
	if n := atomic.LoadInt32(calls); n != 1 {
		t.Errorf(expectedCallsMsg, 1, n)
	}
	if IsTransient(resp.Err) {
		t.Error("Expected 400 not to be transient")
	}
}

func TestRetryOverrides(t *testing.T) {
	tests := []struct {
		name  string
		opts  []Option
		call  []RequestOption
		calls int32
	}{
		{"disabled", []Option{WithoutRetries()}, nil, 1},
		{"per call on disabled client", []Option{WithoutRetries()}, []RequestOption{WithRequestRetries(1)}, 2},
		{"per call zero", nil, []RequestOption{WithRequestRetries(0)}, 1},
		{"client max", []Option{WithMaxRetries(1)}, nil, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server, calls := countingServer(t, func(w http.ResponseWriter, r *http.Request, _ int32) {
				writeJSON(t, w, http.StatusBadGateway, `{}`)
			})
			client := newTestClient(t, server.URL, tt.opts...)

			client.Get(context.Background(), OrdersAPI, tt.call...)

			if n := atomic.LoadInt32(calls); n != tt.calls {
				t.Errorf(expectedCallsMsg, tt.calls, n)
			}
		})
	}
}

func TestTimeoutIsNetworkError(t *testing.T) {
	server, calls := countingServer(t, func(w http.ResponseWriter, r *http.Request, _ int32) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	})
	client := newTestClient(t, server.URL, WithTimeout(20*time.Millisecond))

	resp := client.Get(context.Background(), OrdersAPI)
	if resp.Err == nil || resp.Err.Kind != KindNetwork {
		t.Fatalf(expectedKindMsg, KindNetwork, resp.Err)
	}
	if resp.Err.Message != "Request timeout" {
		t.Errorf("Expected timeout message, got %q", resp.Err.Message)
	}
	if !errors.Is(resp.Err, ErrTimeout) || !resp.Err.Timeout() {
		t.Error("Expected timeout error to match ErrTimeout")
	}
	if resp.Status != 0 {
		t.Errorf("Expected no status for network errors, got %d", resp.Status)
	}
	if n := atomic.LoadInt32(calls); n != 1 {
		t.Errorf(expectedCallsMsg, 1, n)
	}
}

func TestRequestTimeoutOverride(t *testing.T) {
	server, _ := countingServer(t, func(w http.ResponseWriter, r *http.Request, _ int32) {
		select {
		case <-r.Context().Done():
		case <-time.After(100 * time.Millisecond):
		}
		writeJSON(t, w, http.StatusOK, `{}`)
	})
	client := newTestClient(t, server.URL)

	resp := client.Get(context.Background(), OrdersAPI, WithRequestTimeout(10*time.Millisecond))
	if resp.Err == nil || !resp.Err.Timeout() {
		t.Fatalf("Expected per-call timeout, got %+v", resp.Err)
	}
}

func TestTransportErrorNotRetried(t *testing.T) {
	var calls int32
	transport := RoundTripperFunc(func(*http.Request) (*http.Response, error) {
		atomic.AddInt32(&calls, 1)
		return nil, errors.New("connection refused")
	})
	client := newTestClient(t, "http://api.invalid", WithTransport(transport))

	resp := client.Get(context.Background(), OrdersAPI)
	if resp.Err == nil || resp.Err.Kind != KindNetwork {
		t.Fatalf(expectedKindMsg, KindNetwork, resp.Err)
	}
	if !strings.Contains(resp.Err.Message, "connection refused") {
		t.Errorf("Expected transport message, got %q", resp.Err.Message)
	}
	if calls != 1 {
		t.Errorf(expectedCallsMsg, 1, calls)
	}
}

func TestCancelledContext(t *testing.T) {
	server, _ := countingServer(t, func(w http.ResponseWriter, r *http.Request, _ int32) {
		writeJSON(t, w, http.StatusOK, `{}`)
	})
	client := newTestClient(t, server.URL)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	resp := client.Get(ctx, OrdersAPI)
	if resp.Err == nil || resp.Err.Kind != KindNetwork {
		t.Fatalf(expectedKindMsg, KindNetwork, resp.Err)
	}
	if resp.Err.Message != "Request cancelled" {
		t.Errorf("Expected cancellation message, got %q", resp.Err.Message)
	}
}

func TestPostBodyUsesWireNames(t *testing.T) {
	var body map[string]any
	server, _ := countingServer(t, func(w http.ResponseWriter, r *http.Request, _ int32) {
		raw, err := io.ReadAll(r.Body)
		if err != nil {
			t.Errorf("Failed to read body: %v", err)
		}
		if err := json.Unmarshal(raw, &body); err != nil {
			t.Errorf("Body is not JSON: %v", err)
		}
		writeJSON(t, w, http.StatusCreated, `{"result":{"cart":{"id":9,"unique_identifier":"abc"}}}`)
	})
	client := newTestClient(t, server.URL)

	resp := client.Post(context.Background(), CartsAPI, CreateCartInput{
		Variants: []Variant{{ID: 3, Count: 2}},
	})
	if !resp.OK() {
		t.Fatalf(expectedSuccessMsg, resp.Err)
	}
	if resp.Status != http.StatusCreated {
		t.Errorf("Expected status 201, got %d", resp.Status)
	}
	if _, ok := body["product_variants"]; !ok {
		t.Errorf("Expected product_variants in body, got %v", body)
	}
	data := resp.Data.(map[string]any)
	if data["identifier"] != "abc" {
		t.Errorf("Expected identifier renamed, got %v", data)
	}
}

func TestUnencodableBodyIsValidationError(t *testing.T) {
	server, calls := countingServer(t, func(w http.ResponseWriter, r *http.Request, _ int32) {
		writeJSON(t, w, http.StatusOK, `{}`)
	})
	client := newTestClient(t, server.URL)

	resp := client.Post(context.Background(), CartsAPI, map[string]any{"fn": func() {}})
	if resp.Err == nil || resp.Err.Kind != KindValidation {
		t.Fatalf(expectedKindMsg, KindValidation, resp.Err)
	}
	if n := atomic.LoadInt32(calls); n != 0 {
		t.Errorf(expectedCallsMsg, 0, n)
	}
}

func TestMiddlewareOrder(t *testing.T) {
	server, _ := countingServer(t, func(w http.ResponseWriter, r *http.Request, _ int32) {
		if r.Header.Get("X-Trace") != "outer,inner" {
			t.Errorf("Unexpected middleware order %q", r.Header.Get("X-Trace"))
		}
		writeJSON(t, w, http.StatusOK, `{}`)
	})

	tag := func(name string) Middleware {
		return func(req *http.Request, next RoundTripper) (*http.Response, error) {
			value := name
			if prev := req.Header.Get("X-Trace"); prev != "" {
				value = prev + "," + name
			}
			req.Header.Set("X-Trace", value)
			return next.RoundTrip(req)
		}
	}
	client := newTestClient(t, server.URL, WithMiddleware(tag("outer"), tag("inner")))

	if resp := client.Get(context.Background(), OrdersAPI); !resp.OK() {
		t.Fatalf(expectedSuccessMsg, resp.Err)
	}
}

func TestDeduplicatedGets(t *testing.T) {
	release := make(chan struct{})
	server, calls := countingServer(t, func(w http.ResponseWriter, r *http.Request, _ int32) {
		<-release
		writeJSON(t, w, http.StatusOK, `{"result":{"orders":[]}}`)
	})
	client := newTestClient(t, server.URL, WithDeduplication())

	const callers = 5
	var wg sync.WaitGroup
	responses := make([]*Response, callers)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			responses[i] = client.Get(context.Background(), OrdersAPI)
		}(i)
	}

	for atomic.LoadInt32(calls) == 0 {
		time.Sleep(time.Millisecond)
	}
	time.Sleep(50 * time.Millisecond)
	close(release)
	wg.Wait()

	if n := atomic.LoadInt32(calls); n != 1 {
		t.Errorf(expectedCallsMsg, 1, n)
	}
	for i, resp := range responses {
		if !resp.OK() {
			t.Errorf("caller %d failed: %v", i, resp.Err)
		}
	}
	responses[0].Data.(map[string]any)["mutated"] = true
	if _, leaked := responses[1].Data.(map[string]any)["mutated"]; leaked {
		t.Error("Deduplicated callers share the same data")
	}
}

func TestClearAll(t *testing.T) {
	server, _ := countingServer(t, func(w http.ResponseWriter, r *http.Request, _ int32) {
		writeJSON(t, w, http.StatusOK, productListBody)
	})
	client := newTestClient(t, server.URL)

	client.SetAuthToken("token")
	client.Credentials().SetCart(CartCredentials{ID: 1, Identifier: "x"})
	client.Get(context.Background(), ProductsAPI)

	if !client.IsAuthenticated() || client.Cache().Len() == 0 {
		t.Fatal("Expected token and cache entry before clearing")
	}

	client.ClearAll()

	if client.IsAuthenticated() {
		t.Error("Expected token to be cleared")
	}
	if _, ok := client.Credentials().Cart(); ok {
		t.Error("Expected cart credentials to be cleared")
	}
	if client.Cache().Len() != 0 {
		t.Errorf("Expected empty cache, got %d", client.Cache().Len())
	}
}

func TestUserAgentAndVersion(t *testing.T) {
	if !strings.HasPrefix(GetVersion(), "Sazito SDK "+Version) {
		t.Errorf("Unexpected version string %q", GetVersion())
	}
	if info := ReadBuildInfo(); info.GoVersion == "" || info.Commit == "" {
		t.Errorf("Incomplete build info %+v", info)
	}
	if userAgent() != "sazito-go-sdk/"+Version {
		t.Errorf("Unexpected user agent %q", userAgent())
	}
}
