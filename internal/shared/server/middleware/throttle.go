package middleware

import (
	"math"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"

	"letterdesk/internal/shared/server/respond"
)

const defaultThrottleGroup = "DEFAULT"

// ThrottleRule is a token-bucket rule: PerSecond refill rate and Burst capacity.
type ThrottleRule struct {
	PerSecond float64
	Burst     int
}

// ThrottleConfig maps request groups to rules. Requests whose group has no
// rule pass through untouched.
type ThrottleConfig struct {
	Rules    map[string]ThrottleRule
	GroupFor func(*gin.Context) string
	Buckets  *BucketSet
}

// BucketSet holds per-caller token buckets. Callers are keyed by client IP
// since the API is unauthenticated.
type BucketSet struct {
	mu      sync.Mutex
	buckets map[string]*bucket
	now     func() time.Time
}

type bucket struct {
	tokens float64
	last   time.Time
}

func NewBucketSet(now func() time.Time) *BucketSet {
	if now == nil {
		now = time.Now
	}
	return &BucketSet{
		buckets: make(map[string]*bucket),
		now:     now,
	}
}

// Throttle rejects over-rate requests with 429 and a Retry-After hint.
func Throttle(cfg ThrottleConfig) gin.HandlerFunc {
	if cfg.Buckets == nil {
		cfg.Buckets = NewBucketSet(nil)
	}
	return func(c *gin.Context) {
		group := defaultThrottleGroup
		if cfg.GroupFor != nil {
			if g := strings.TrimSpace(cfg.GroupFor(c)); g != "" {
				group = g
			}
		}
		rule, ok := cfg.Rules[group]
		if !ok {
			c.Next()
			return
		}
		key := strings.TrimSpace(c.ClientIP()) + "|" + group
		allowed, retryAfter := cfg.Buckets.take(key, rule)
		if allowed {
			c.Next()
			return
		}
		retryMs := int(retryAfter / time.Millisecond)
		if retryMs <= 0 {
			retryMs = 1000
		}
		retrySec := (retryMs + 999) / 1000
		c.Header("Retry-After", strconv.Itoa(retrySec))
		respond.Error(c, http.StatusTooManyRequests, "rate_limited", "Too many requests.",
			gin.H{"retry_after_ms": retryMs})
	}
}

func (s *BucketSet) take(key string, rule ThrottleRule) (bool, time.Duration) {
	if rule.PerSecond <= 0 || rule.Burst <= 0 {
		return true, 0
	}
	now := s.now()
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.buckets[key]
	if !ok {
		b = &bucket{tokens: float64(rule.Burst), last: now}
		s.buckets[key] = b
	}
	if elapsed := now.Sub(b.last).Seconds(); elapsed > 0 {
		b.tokens = math.Min(float64(rule.Burst), b.tokens+elapsed*rule.PerSecond)
		b.last = now
	}
	if b.tokens >= 1 {
		b.tokens--
		return true, 0
	}
	waitSec := (1 - b.tokens) / rule.PerSecond
	if waitSec < 0 {
		waitSec = 0
	}
	return false, time.Duration(math.Ceil(waitSec*1000)) * time.Millisecond
}
