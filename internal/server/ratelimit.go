package server

import (
	"sync"

	"golang.org/x/time/rate"
)

// RateLimiter enforces per-client and global request rate limits using
// token buckets.
type RateLimiter struct {
	mu        sync.Mutex
	global    *rate.Limiter
	clients   map[string]*rate.Limiter
	perClient rate.Limit
	burst     int
}

// NewRateLimiter creates a rate limiter. globalRPS is the total
// requests/second across all clients, clientRPS the per-client rate.
func NewRateLimiter(globalRPS, clientRPS float64, burst int) *RateLimiter {
	if burst < 1 {
		burst = 1
	}
	return &RateLimiter{
		global:    rate.NewLimiter(rate.Limit(globalRPS), burst),
		clients:   make(map[string]*rate.Limiter),
		perClient: rate.Limit(clientRPS),
		burst:     burst,
	}
}

// Allow checks whether a request from the given client is allowed.
func (rl *RateLimiter) Allow(client string) bool {
	if !rl.global.Allow() {
		return false
	}
	rl.mu.Lock()
	limiter, ok := rl.clients[client]
	if !ok {
		limiter = rate.NewLimiter(rl.perClient, rl.burst)
		rl.clients[client] = limiter
	}
	rl.mu.Unlock()
	return limiter.Allow()
}
