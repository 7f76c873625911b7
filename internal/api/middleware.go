/*
Package api
File: middleware.go
Description:
    HTTP middleware wrapped around the API routes: CORS so a client served
    from another origin can call the API, and a per-client rate limiter.
*/

package api

import (
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/rs/cors"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"
)

// NewCORS allows the given origins ("*" for any) to call the API.
func NewCORS(origins []string) func(http.Handler) http.Handler {
	c := cors.New(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type"},
	})
	return c.Handler
}

// RateLimiter throttles each client IP to a steady request rate.
type RateLimiter struct {
	perSecond rate.Limit
	burst     int
	log       zerolog.Logger

	mu      sync.Mutex
	clients map[string]*rate.Limiter
}

// NewRateLimiter creates a limiter. A perSecond of 0 or less disables it.
func NewRateLimiter(perSecond float64, burst int, log zerolog.Logger) *RateLimiter {
	return &RateLimiter{
		perSecond: rate.Limit(perSecond),
		burst:     max(burst, 1),
		log:       log,
		clients:   make(map[string]*rate.Limiter),
	}
}

func (rl *RateLimiter) limiter(ip string) *rate.Limiter {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	l, ok := rl.clients[ip]
	if !ok {
		l = rate.NewLimiter(rl.perSecond, rl.burst)
		rl.clients[ip] = l
	}
	return l
}

// Prune forgets clients whose bucket has refilled completely.
func (rl *RateLimiter) Prune() {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	now := time.Now()
	for ip, l := range rl.clients {
		if l.TokensAt(now) >= float64(rl.burst) {
			delete(rl.clients, ip)
		}
	}
}

// Middleware rejects requests over the limit with 429.
func (rl *RateLimiter) Middleware(next http.Handler) http.Handler {
	if rl.perSecond <= 0 {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ip := clientIP(r)
		if !rl.limiter(ip).Allow() {
			rl.log.Warn().Str("client_ip", ip).Str("path", r.URL.Path).Msg("Rate limit exceeded")
			w.Header().Set("Retry-After", "1")
			http.Error(w, "Rate limit exceeded", http.StatusTooManyRequests)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// clientIP strips the port from RemoteAddr.
func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
