package sazito

import (
	"time"

	"github.com/Sazito/client-sdk/storage"
)

// TokenCookieName is the cookie holding the auth token.
const TokenCookieName = "user_id_token"

// TokenStore keeps the auth token in a cookie-like store. Failures are
// logged and read as "no token".
type TokenStore struct {
	cookies storage.CookieStorage
	opts    storage.CookieOptions
	logger  Logger
}

// NewTokenStore wraps cookies with storage.DefaultCookieOptions. A nil
// cookies store keeps the token in process memory.
func NewTokenStore(cookies storage.CookieStorage, logger Logger) *TokenStore {
	if cookies == nil {
		cookies = storage.NewStorageCookies(storage.NewMemory(), time.Now)
	}
	if logger == nil {
		logger = NopLogger()
	}
	return &TokenStore{
		cookies: cookies,
		opts:    storage.DefaultCookieOptions(),
		logger:  logger,
	}
}

// Token returns the stored token.
func (t *TokenStore) Token() (string, bool) {
	token, ok, err := t.cookies.Get(TokenCookieName)
	if err != nil {
		t.logger.Warn("reading auth token failed", "error", err)
		return "", false
	}
	if !ok || token == "" {
		return "", false
	}
	return token, true
}

// SetToken stores token. An empty token clears it.
func (t *TokenStore) SetToken(token string) {
	if token == "" {
		t.Clear()
		return
	}
	if err := t.cookies.Set(TokenCookieName, token, t.opts); err != nil {
		t.logger.Warn("writing auth token failed", "error", err)
	}
}

// Clear removes the token.
func (t *TokenStore) Clear() {
	if err := t.cookies.Remove(TokenCookieName); err != nil {
		t.logger.Warn("removing auth token failed", "error", err)
	}
}

// HasToken reports whether a token is stored.
func (t *TokenStore) HasToken() bool {
	_, ok := t.Token()
	return ok
}
