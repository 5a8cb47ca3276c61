package middleware

import (
	"sync"
	"time"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/time/rate"
)

// RateLimiter hands out one token bucket per client IP.
type RateLimiter struct {
	ips   map[string]*visitor
	mu    sync.Mutex
	rate  rate.Limit
	burst int
	idle  time.Duration
	now   func() time.Time
}

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

func NewRateLimiter(r rate.Limit, burst int) *RateLimiter {
	return &RateLimiter{
		ips:   make(map[string]*visitor),
		rate:  r,
		burst: burst,
		idle:  10 * time.Minute,
		now:   time.Now,
	}
}

// Allow reports whether the client at ip may make another request.
func (rl *RateLimiter) Allow(ip string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	v, ok := rl.ips[ip]
	if !ok {
		rl.evict(now)
		v = &visitor{limiter: rate.NewLimiter(rl.rate, rl.burst)}
		rl.ips[ip] = v
	}
	v.lastSeen = now
	return v.limiter.AllowN(now, 1)
}

// evict drops visitors idle for longer than rl.idle. Caller holds rl.mu.
func (rl *RateLimiter) evict(now time.Time) {
	for ip, v := range rl.ips {
		if now.Sub(v.lastSeen) > rl.idle {
			delete(rl.ips, ip)
		}
	}
}

// FormRateLimit limits public form submissions to perMinute per client IP.
func FormRateLimit(perMinute int) fiber.Handler {
	if perMinute <= 0 {
		perMinute = 10
	}
	return RateLimitMiddleware(NewRateLimiter(rate.Every(time.Minute/time.Duration(perMinute)), perMinute))
}

func RateLimitMiddleware(rl *RateLimiter) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if !rl.Allow(c.IP()) {
			return fiber.NewError(fiber.StatusTooManyRequests, "rate limit exceeded, try again later")
		}
		return c.Next()
	}
}
