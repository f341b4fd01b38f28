package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"github.com/inkpost/comments/utils"
)

// OpLimiter bounds how often a given network address may perform one kind of
// operation, independent of authentication. Each address gets a token bucket
// holding a full window's budget, refilled at limit-per-window pace, which
// reproduces a rolling window at its boundaries: the Nth request in a quiet
// window is admitted, the N+1th is not.
type OpLimiter struct {
	mu      sync.Mutex
	entries map[string]*limiterEntry
	limit   rate.Limit
	burst   int
}

type limiterEntry struct {
	limiter *rate.Limiter
	expires time.Time
}

// entryTTL controls how long an idle address keeps its bucket before the
// sweep drops it.
const entryTTL = 30 * time.Minute

// NewOpLimiter builds a limiter admitting at most max requests per address
// per rolling window.
func NewOpLimiter(max int, window time.Duration) *OpLimiter {
	if max < 1 {
		max = 1
	}
	return &OpLimiter{
		entries: map[string]*limiterEntry{},
		limit:   rate.Every(window / time.Duration(max)),
		burst:   max,
	}
}

// AllowAt reports whether the address may proceed at the given instant.
// Rejections consume nothing. Taking the time explicitly lets tests walk the
// window forward without sleeping.
func (l *OpLimiter) AllowAt(addr string, at time.Time) bool {
	l.mu.Lock()
	l.sweepLocked(at)
	entry, ok := l.entries[addr]
	if !ok {
		entry = &limiterEntry{limiter: rate.NewLimiter(l.limit, l.burst)}
		l.entries[addr] = entry
	}
	entry.expires = at.Add(entryTTL)
	l.mu.Unlock()

	return entry.limiter.AllowN(at, 1)
}

func (l *OpLimiter) sweepLocked(now time.Time) {
	for addr, entry := range l.entries {
		if now.After(entry.expires) {
			delete(l.entries, addr)
		}
	}
}

// RateGate applies the limiter per client IP and rejects with RateLimited.
func RateGate(l *OpLimiter, detail string) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		if !l.AllowAt(ctx.ClientIP(), time.Now()) {
			utils.Error(ctx, http.StatusTooManyRequests, 42901, utils.KindRateLimited, detail)
			ctx.Abort()
			return
		}
		ctx.Next()
	}
}
