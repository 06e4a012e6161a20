package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/shashiranjanraj/storefront/pkg/response"
)

// CounterStore counts requests per key within a fixed window. Hit returns
// the number of requests seen for key in the current window, including this
// one. Implementations: memoryStore (below) and RedisStore.
type CounterStore interface {
	Hit(key string, window time.Duration) (int, error)
}

// ─── In-memory store ──────────────────────────────────────────────────────────

// bucket tracks a windowed request count for one key.
type bucket struct {
	mu      sync.Mutex
	count   int
	resetAt time.Time
}

func (b *bucket) hit(window time.Duration) int {
	b.mu.Lock()
	defer b.mu.Unlock()

	now := time.Now()
	if now.After(b.resetAt) {
		b.count = 0
		b.resetAt = now.Add(window)
	}

	b.count++
	return b.count
}

type memoryStore struct {
	mu      sync.Mutex
	buckets map[string]*bucket
}

// NewMemoryStore returns a process-local CounterStore. A background
// goroutine evicts expired buckets every minute so long-running servers do
// not grow without bound.
func NewMemoryStore() CounterStore {
	s := &memoryStore{buckets: map[string]*bucket{}}

	go func() {
		ticker := time.NewTicker(time.Minute)
		defer ticker.Stop()
		for range ticker.C {
			now := time.Now()
			s.mu.Lock()
			for key, b := range s.buckets {
				b.mu.Lock()
				expired := now.After(b.resetAt)
				b.mu.Unlock()
				if expired {
					delete(s.buckets, key)
				}
			}
			s.mu.Unlock()
		}
	}()

	return s
}

func (s *memoryStore) Hit(key string, window time.Duration) (int, error) {
	s.mu.Lock()
	b, ok := s.buckets[key]
	if !ok {
		b = &bucket{resetAt: time.Now().Add(window)}
		s.buckets[key] = b
	}
	s.mu.Unlock()

	return b.hit(window), nil
}

// ─── Middleware ───────────────────────────────────────────────────────────────

// RateLimit returns a middleware that limits each client IP to max requests
// per window, counting via the given store. Store errors fail open: a broken
// Redis must not take the API down with it.
func RateLimit(store CounterStore, max int, window time.Duration) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ip := r.RemoteAddr
			if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
				ip = fwd
			}

			count, err := store.Hit(ip, window)
			if err == nil && count > max {
				response.Error(w, http.StatusTooManyRequests, "Too many requests")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
