package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/labstack/echo/v4"
	"golang.org/x/time/rate"
)

// RateLimiter applies a per-IP token bucket. Stale buckets are pruned
// whenever a new IP shows up.
type RateLimiter struct {
	mutex   sync.Mutex
	clients map[string]*rateClient
	rate    rate.Limit
	burst   int
	ttl     time.Duration
}

type rateClient struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

func NewRateLimiter(r rate.Limit, burst int, ttl time.Duration) *RateLimiter {
	return &RateLimiter{
		clients: make(map[string]*rateClient),
		rate:    r,
		burst:   burst,
		ttl:     ttl,
	}
}

func (l *RateLimiter) Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if !l.allow(c.RealIP()) {
				return echo.NewHTTPError(http.StatusTooManyRequests, "too many requests")
			}
			return next(c)
		}
	}
}

func (l *RateLimiter) allow(ip string) bool {
	l.mutex.Lock()
	defer l.mutex.Unlock()

	client, ok := l.clients[ip]
	if !ok {
		client = &rateClient{limiter: rate.NewLimiter(l.rate, l.burst)}
		l.clients[ip] = client
		l.cleanup()
	}
	client.lastSeen = time.Now()
	return client.limiter.Allow()
}

func (l *RateLimiter) cleanup() {
	if l.ttl == 0 {
		return
	}
	cutoff := time.Now().Add(-l.ttl)
	for ip, client := range l.clients {
		if client.lastSeen.Before(cutoff) {
			delete(l.clients, ip)
		}
	}
}
