package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
)

type fixedWindow struct {
	start time.Time
	count int
}

// localCounter is the in-process fixed-window counter used when Redis is
// not configured. State is per limiter and per process.
type localCounter struct {
	mu      sync.Mutex
	size    time.Duration
	windows map[string]*fixedWindow
}

func newLocalCounter(size time.Duration) *localCounter {
	return &localCounter{size: size, windows: make(map[string]*fixedWindow)}
}

// incr counts one hit for id and returns the count in the current window.
func (l *localCounter) incr(id string, now time.Time) int {
	l.mu.Lock()
	defer l.mu.Unlock()

	w, ok := l.windows[id]
	if !ok || now.Sub(w.start) > l.size {
		// drop expired windows so the map does not grow with every client seen
		for k, old := range l.windows {
			if now.Sub(old.start) > l.size {
				delete(l.windows, k)
			}
		}
		w = &fixedWindow{start: now}
		l.windows[id] = w
	}
	w.count++
	return w.count
}

// SimpleRateLimit blocks clients (by IP) that send more than maxRequests
// per window.
func SimpleRateLimit(maxRequests int, window time.Duration) gin.HandlerFunc {
	counter := newLocalCounter(window)

	return func(c *gin.Context) {
		if counter.incr(c.ClientIP(), time.Now()) > maxRequests {
			RLBlocked.WithLabelValues(c.FullPath()).Inc()
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "rate limit exceeded"})
			return
		}

		RLRequests.WithLabelValues(c.FullPath()).Inc()
		c.Next()
	}
}
