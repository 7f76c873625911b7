package api

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCORS(t *testing.T) {
	s := newTestServer(t, quietRand)
	h := NewCORS([]string{"*"})(s.Routes())

	req := httptest.NewRequest(http.MethodOptions, "/api/travel", nil)
	req.Header.Set("Origin", "http://client.example")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Less(t, rec.Code, 300)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodGet, "/api/state", nil)
	req.Header.Set("Origin", "http://client.example")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestCORSRejectsUnknownOrigin(t *testing.T) {
	s := newTestServer(t, quietRand)
	h := NewCORS([]string{"http://client.example"})(s.Routes())

	req := httptest.NewRequest(http.MethodGet, "/api/state", nil)
	req.Header.Set("Origin", "http://elsewhere.example")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestRateLimiter(t *testing.T) {
	rl := NewRateLimiter(0.001, 2, zerolog.Nop())
	h := rl.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	get := func(addr string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, "/api/state", nil)
		req.RemoteAddr = addr
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		return rec
	}

	assert.Equal(t, http.StatusNoContent, get("10.0.0.1:5000").Code)
	assert.Equal(t, http.StatusNoContent, get("10.0.0.1:5001").Code)

	rec := get("10.0.0.1:5002")
	require.Equal(t, http.StatusTooManyRequests, rec.Code, "burst spent")
	assert.Equal(t, "1", rec.Header().Get("Retry-After"))

	assert.Equal(t, http.StatusNoContent, get("10.0.0.2:5000").Code, "clients are limited separately")

	rl.Prune()
	rl.mu.Lock()
	assert.Len(t, rl.clients, 2, "drained buckets are kept")
	rl.mu.Unlock()
}

func TestRateLimiterDisabled(t *testing.T) {
	rl := NewRateLimiter(0, 1, zerolog.Nop())
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {})
	h := rl.Middleware(next)
	for range 5 {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
		assert.Equal(t, http.StatusOK, rec.Code)
	}
}
