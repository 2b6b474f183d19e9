package storage

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

// CookieOptions carries the security attributes a cookie is written with.
type CookieOptions struct {
	Path     string
	Domain   string
	MaxAge   time.Duration
	Secure   bool
	HTTPOnly bool
	SameSite http.SameSite
}

// DefaultCookieOptions returns the attributes used for the auth token: a
// 30 day, site-wide, HttpOnly, Secure, SameSite=Lax cookie.
func DefaultCookieOptions() CookieOptions {
	return CookieOptions{
		Path:     "/",
		MaxAge:   30 * 24 * time.Hour,
		Secure:   true,
		HTTPOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
}

// CookieStorage is a cookie-like medium for small secrets.
type CookieStorage interface {
	Get(name string) (string, bool, error)
	Set(name, value string, opts CookieOptions) error
	Remove(name string) error
}

// CookieJar keeps cookies in an http.CookieJar scoped to one URL, typically the
// jar of the http.Client used to reach the storefront.
type CookieJar struct {
	jar http.CookieJar
	url *url.URL
}

// NewCookieJar scopes jar to rawURL.
func NewCookieJar(jar http.CookieJar, rawURL string) (*CookieJar, error) {
	if jar == nil {
		return nil, fmt.Errorf("cookie jar: %w", ErrUnavailable)
	}
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("cookie jar url: %w", err)
	}
	return &CookieJar{jar: jar, url: u}, nil
}

func (c *CookieJar) Get(name string) (string, bool, error) {
	for _, cookie := range c.jar.Cookies(c.url) {
		if cookie.Name == name {
			return cookie.Value, true, nil
		}
	}
	return "", false, nil
}

func (c *CookieJar) Set(name, value string, opts CookieOptions) error {
	cookie := &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     opts.Path,
		Domain:   opts.Domain,
		Secure:   opts.Secure,
		HttpOnly: opts.HTTPOnly,
		SameSite: opts.SameSite,
	}
	if opts.MaxAge > 0 {
		cookie.MaxAge = int(opts.MaxAge / time.Second)
	}
	c.jar.SetCookies(c.url, []*http.Cookie{cookie})
	return nil
}

func (c *CookieJar) Remove(name string) error {
	c.jar.SetCookies(c.url, []*http.Cookie{{Name: name, Path: "/", MaxAge: -1}})
	return nil
}

// StorageCookies emulates cookies on top of a Storage, honouring MaxAge.
type StorageCookies struct {
	store Storage
	now   func() time.Time
}

type storedCookie struct {
	Value     string    `json:"value"`
	ExpiresAt time.Time `json:"expires_at,omitempty"`
}

// NewStorageCookies wraps store. A nil now uses time.Now.
func NewStorageCookies(store Storage, now func() time.Time) *StorageCookies {
	if now == nil {
		now = time.Now
	}
	return &StorageCookies{store: store, now: now}
}

func (s *StorageCookies) Get(name string) (string, bool, error) {
	raw, ok, err := s.store.Get(name)
	if err != nil || !ok {
		return "", false, err
	}
	var c storedCookie
	if err := json.Unmarshal([]byte(raw), &c); err != nil {
		return "", false, wrap("get", name, fmt.Errorf("decode cookie: %w", err))
	}
	if !c.ExpiresAt.IsZero() && s.now().After(c.ExpiresAt) {
		_ = s.store.Remove(name)
		return "", false, nil
	}
	return c.Value, true, nil
}

func (s *StorageCookies) Set(name, value string, opts CookieOptions) error {
	c := storedCookie{Value: value}
	if opts.MaxAge > 0 {
		c.ExpiresAt = s.now().Add(opts.MaxAge).UTC()
	}
	raw, err := json.Marshal(c)
	if err != nil {
		return wrap("set", name, err)
	}
	return s.store.Set(name, string(raw))
}

func (s *StorageCookies) Remove(name string) error {
	return s.store.Remove(name)
}

var (
	_ CookieStorage = (*CookieJar)(nil)
	_ CookieStorage = (*StorageCookies)(nil)
)
