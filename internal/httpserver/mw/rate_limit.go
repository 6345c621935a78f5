package mw

import (
	"math"
	"net/http"
	"strconv"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/MrSnakeDoc/toolhub/internal/utils"
)

type RateLimitConfig struct {
	Burst             int
	RefillPerIPPerMin int
	MaxEntries        int
	SweepInterval     time.Duration
	IdleTTL           time.Duration
	TrustProxy        bool // resolve IP from proxy headers when true
}

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

type limiter struct {
	cfg       RateLimitConfig
	limit     rate.Limit
	mu        sync.Mutex
	visitors  map[string]*visitor
	lastSweep time.Time
}

func newLimiter(cfg RateLimitConfig) *limiter {
	if cfg.SweepInterval <= 0 {
		cfg.SweepInterval = time.Minute
	}
	if cfg.IdleTTL <= 0 {
		cfg.IdleTTL = 15 * time.Minute
	}
	if cfg.Burst < 1 {
		cfg.Burst = 1
	}
	if cfg.RefillPerIPPerMin < 1 {
		cfg.RefillPerIPPerMin = 1
	}
	return &limiter{
		cfg:       cfg,
		limit:     rate.Limit(float64(cfg.RefillPerIPPerMin) / 60.0),
		visitors:  make(map[string]*visitor, 1024),
		lastSweep: time.Now(),
	}
}

func (l *limiter) get(key string, now time.Time) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()

	if now.Sub(l.lastSweep) >= l.cfg.SweepInterval ||
		(l.cfg.MaxEntries > 0 && len(l.visitors) >= l.cfg.MaxEntries) {
		l.sweepLocked(now)
	}
	v := l.visitors[key]
	if v == nil {
		v = &visitor{limiter: rate.NewLimiter(l.limit, l.cfg.Burst)}
		l.visitors[key] = v
	}
	v.lastSeen = now
	return v.limiter
}

func (l *limiter) sweepLocked(now time.Time) {
	for ip, v := range l.visitors {
		if now.Sub(v.lastSeen) > l.cfg.IdleTTL {
			delete(l.visitors, ip)
		}
	}
	l.lastSweep = now
}

// allow consumes one token for key. When refused it reports how many
// seconds until a token is available.
func (l *limiter) allow(key string, now time.Time) (ok bool, remaining int, retryAfterSec int) {
	lim := l.get(key, now)

	if lim.AllowN(now, 1) {
		return true, int(math.Floor(lim.TokensAt(now))), 0
	}

	r := lim.ReserveN(now, 1)
	delay := r.DelayFrom(now)
	r.CancelAt(now)

	sec := int(math.Ceil(delay.Seconds()))
	if sec < 1 {
		sec = 1
	}
	return false, 0, sec
}

// RateLimit applies a per-client token bucket.
func RateLimit(cfg RateLimitConfig) func(http.Handler) http.Handler {
	l := newLimiter(cfg)
	limitStr := strconv.Itoa(l.cfg.Burst)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := utils.ClientIP(r, l.cfg.TrustProxy)

			ok, remaining, retry := l.allow(key, time.Now())
			w.Header().Set("X-RateLimit-Limit", limitStr)
			if !ok {
				w.Header().Set("Retry-After", strconv.Itoa(retry))
				w.Header().Set("X-RateLimit-Remaining", "0")
				http.Error(w, http.StatusText(http.StatusTooManyRequests), http.StatusTooManyRequests)
				return
			}
			w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(max(remaining, 0)))

			next.ServeHTTP(w, r)
		})
	}
}
