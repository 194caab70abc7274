package filter

import (
	"context"
	"encoding/base64"
	"net/http"
	"sync"
	"time"
)

// MemoryStorage keeps values in a map.
type MemoryStorage struct {
	mu   sync.RWMutex
	data map[string][]byte
}

func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{data: make(map[string][]byte)}
}

func (m *MemoryStorage) Get(_ context.Context, key string) ([]byte, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.data[key]
	if !ok {
		return nil, false, nil
	}
	return append([]byte(nil), v...), true, nil
}

func (m *MemoryStorage) Set(_ context.Context, key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = append([]byte(nil), value...)
	return nil
}

// CookieMaxAge is how long the browser keeps the filter cookie.
const CookieMaxAge = 365 * 24 * time.Hour

// CookieStorage persists state in a browser cookie named after the key,
// holding base64url encoded JSON.
type CookieStorage struct {
	r      *http.Request
	w      http.ResponseWriter
	secure bool
}

func NewCookieStorage(w http.ResponseWriter, r *http.Request) *CookieStorage {
	return &CookieStorage{r: r, w: w, secure: r.TLS != nil}
}

func (c *CookieStorage) Get(_ context.Context, key string) ([]byte, bool, error) {
	ck, err := c.r.Cookie(key)
	if err != nil {
		return nil, false, nil
	}
	raw, err := base64.RawURLEncoding.DecodeString(ck.Value)
	if err != nil {
		return nil, false, err
	}
	return raw, true, nil
}

func (c *CookieStorage) Set(_ context.Context, key string, value []byte) error {
	http.SetCookie(c.w, &http.Cookie{
		Name:     key,
		Value:    base64.RawURLEncoding.EncodeToString(value),
		Path:     "/",
		MaxAge:   int(CookieMaxAge.Seconds()),
		HttpOnly: true,
		Secure:   c.secure,
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}
