package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

// limiterIdleTTL is how long a user's bucket may sit unused before it is
// dropped. An idle bucket has refilled anyway, so eviction never grants
// extra requests.
const limiterIdleTTL = 10 * time.Minute

type limiterEntry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// userLimiters holds one token bucket per user and sweeps idle entries so
// the map does not grow for the life of the process.
type userLimiters struct {
	mu        sync.Mutex
	rate      rate.Limit
	burst     int
	entries   map[int64]*limiterEntry
	lastSweep time.Time
}

func newUserLimiters(perMinute float64, burst int) *userLimiters {
	return &userLimiters{
		rate:    rate.Limit(perMinute / 60.0),
		burst:   burst,
		entries: make(map[int64]*limiterEntry),
	}
}

func (l *userLimiters) allow(userID int64, now time.Time) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	if now.Sub(l.lastSweep) >= limiterIdleTTL {
		for id, e := range l.entries {
			if now.Sub(e.lastSeen) >= limiterIdleTTL {
				delete(l.entries, id)
			}
		}
		l.lastSweep = now
	}

	e, ok := l.entries[userID]
	if !ok {
		e = &limiterEntry{limiter: rate.NewLimiter(l.rate, l.burst)}
		l.entries[userID] = e
	}
	e.lastSeen = now
	return e.limiter.Allow()
}

// PerUserRateLimit limits authenticated requests per user with a token
// bucket. perMinute refills the bucket; burst bounds short spikes. Must run
// after AuthMiddleware.
func PerUserRateLimit(perMinute float64, burst int) gin.HandlerFunc {
	limiters := newUserLimiters(perMinute, burst)

	return func(c *gin.Context) {
		if !limiters.allow(c.GetInt64("user_id"), time.Now()) {
			c.JSON(http.StatusTooManyRequests, gin.H{"error": "Too many messages, slow down a little"})
			c.Abort()
			return
		}
		c.Next()
	}
}
