package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/TORRES240325/panel-socios-final/internal/apierror"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// windowEntry tracks requests per IP within a fixed window.
type windowEntry struct {
	count     int
	windowEnd time.Time
}

// Limiter is a per-IP fixed-window request counter. Expired entries are purged
// while handling requests, at most once every five windows.
type Limiter struct {
	limit  int
	window time.Duration
	msg    string

	mu        sync.Mutex
	entries   map[string]*windowEntry
	nextPurge time.Time
	now       func() time.Time
}

func NewLimiter(limit int, window time.Duration, msg string) *Limiter {
	return &Limiter{
		limit:   limit,
		window:  window,
		msg:     msg,
		entries: make(map[string]*windowEntry),
		now:     time.Now,
	}
}

// Allow records one request for ip and reports whether it is within the limit,
// together with the end of the current window.
func (l *Limiter) Allow(ip string) (bool, time.Time) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	if now.After(l.nextPurge) {
		l.purge(now)
		l.nextPurge = now.Add(5 * l.window)
	}

	entry, ok := l.entries[ip]
	if !ok || now.After(entry.windowEnd) {
		entry = &windowEntry{windowEnd: now.Add(l.window)}
		l.entries[ip] = entry
	}
	entry.count++
	return entry.count <= l.limit, entry.windowEnd
}

func (l *Limiter) purge(now time.Time) {
	purged := 0
	for ip, e := range l.entries {
		if now.After(e.windowEnd) {
			delete(l.entries, ip)
			purged++
		}
	}
	if purged > 0 {
		log.Debug().Int("purged", purged).Int("remaining", len(l.entries)).Msg("rate limiter purged")
	}
}

// Middleware rejects requests over the limit with 429.
func (l *Limiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		ok, windowEnd := l.Allow(c.ClientIP())
		if !ok {
			c.Header("Retry-After", windowEnd.UTC().Format(http.TimeFormat))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, apierror.New(l.msg))
			return
		}
		c.Next()
	}
}

// RateLimiter limits general API traffic per IP.
func RateLimiter(limit int, window time.Duration) gin.HandlerFunc {
	return NewLimiter(limit, window, "Demasiadas solicitudes. Intente nuevamente en un momento.").Middleware()
}

// LoginRateLimiter limits login attempts per IP per minute.
func LoginRateLimiter(limit int) gin.HandlerFunc {
	return NewLimiter(limit, time.Minute, "Demasiados intentos de login. Intente en 1 minuto.").Middleware()
}
