package middleware

import (
	"bytes"
	"encoding/json"
	"io"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/classpoint/school-backend/pkg/config"
)

// AuthRateLimiter throttles login attempts per identifier to slow
// credential stuffing. Identifiers that keep failing get locked out
// for a configurable window.
type AuthRateLimiter struct {
	cfg      config.AuthRateLimitConfig
	logger   *zap.Logger
	mu       sync.Mutex
	limiters map[string]*limiterEntry
}

type limiterEntry struct {
	limiter     *rate.Limiter
	lockedUntil time.Time
	lastSeen    time.Time
}

func NewAuthRateLimiter(cfg config.AuthRateLimitConfig, logger *zap.Logger) *AuthRateLimiter {
	rl := &AuthRateLimiter{
		cfg:      cfg,
		logger:   logger.Named("ratelimit"),
		limiters: make(map[string]*limiterEntry),
	}
	go rl.cleanup()
	return rl
}

func (rl *AuthRateLimiter) getEntry(key string) *limiterEntry {
	entry, ok := rl.limiters[key]
	if !ok {
		entry = &limiterEntry{
			limiter: rate.NewLimiter(rate.Limit(float64(rl.cfg.RequestsPerMinute)/60.0), rl.cfg.Burst),
		}
		rl.limiters[key] = entry
	}
	entry.lastSeen = time.Now()
	return entry
}

// Allow reports whether an attempt for the given identifier may proceed.
func (rl *AuthRateLimiter) Allow(key string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	entry := rl.getEntry(key)
	if time.Now().Before(entry.lockedUntil) {
		return false
	}
	return entry.limiter.Allow()
}

// RecordFailure penalizes a failed attempt. Burning through the burst
// triggers a lockout.
func (rl *AuthRateLimiter) RecordFailure(key string) {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	entry := rl.getEntry(key)
	// A failure costs double to drain the bucket faster.
	if !entry.limiter.AllowN(time.Now(), 2) {
		entry.lockedUntil = time.Now().Add(time.Duration(rl.cfg.LockoutMinutes) * time.Minute)
		rl.logger.Warn("Identifier locked out after repeated failures",
			zap.String("identifier", key),
			zap.Time("locked_until", entry.lockedUntil))
	}
}

// cleanup evicts entries not seen for an hour.
func (rl *AuthRateLimiter) cleanup() {
	ticker := time.NewTicker(10 * time.Minute)
	defer ticker.Stop()

	for range ticker.C {
		rl.mu.Lock()
		cutoff := time.Now().Add(-1 * time.Hour)
		for key, entry := range rl.limiters {
			if entry.lastSeen.Before(cutoff) && time.Now().After(entry.lockedUntil) {
				delete(rl.limiters, key)
			}
		}
		rl.mu.Unlock()
	}
}

// Middleware applies the rate limit to login requests, keyed on the
// submitted username so one client cannot hammer a single account.
func (rl *AuthRateLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !rl.cfg.Enabled {
			c.Next()
			return
		}

		key := c.ClientIP()
		// Prefer the login identifier when the body carries one.
		if c.Request.Body != nil {
			body, err := io.ReadAll(c.Request.Body)
			if err == nil {
				c.Request.Body = io.NopCloser(bytes.NewReader(body))
				var payload struct {
					Identifier string `json:"identifier"`
				}
				if json.Unmarshal(body, &payload) == nil && payload.Identifier != "" {
					key = payload.Identifier
				}
			}
		}

		if !rl.Allow(key) {
			c.JSON(429, gin.H{"success": false, "message": "Too many attempts, try again later"})
			c.Abort()
			return
		}

		c.Next()

		if c.Writer.Status() == 401 {
			rl.RecordFailure(key)
		}
	}
}
