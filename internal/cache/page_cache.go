// Package cache holds full HTTP responses for a fixed time.
package cache

import (
	"bytes"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/anonto42/yatube/backend/internal/pagination"
	"github.com/labstack/echo/v4"
)

// DefaultTTL is how long a cached feed page is served before it is rebuilt.
const DefaultTTL = 20 * time.Second

// Entry is a stored response.
type Entry struct {
	Status      int
	ContentType string
	Body        []byte
	expires     time.Time
}

// KeyFunc derives the cache key of a request.
type KeyFunc func(c echo.Context) string

// PageKey keys on path plus the parsed page number, so every page of a
// paginated listing is cached separately and other query values are ignored.
func PageKey(c echo.Context) string {
	page := pagination.ParsePage(c.QueryParam("page"))
	return c.Request().Method + " " + c.Request().URL.Path + "?page=" + strconv.Itoa(page)
}

// PageCache is a TTL cache of rendered responses. Entries expire only by
// elapsed time; writes to the underlying data never evict them.
type PageCache struct {
	ttl time.Duration
	now func() time.Time
	key KeyFunc

	mu      sync.Mutex
	entries map[string]Entry
}

// Option configures a PageCache.
type Option func(*PageCache)

// WithClock replaces time.Now, mainly for tests.
func WithClock(now func() time.Time) Option {
	return func(pc *PageCache) { pc.now = now }
}

// WithKeyFunc replaces PageKey.
func WithKeyFunc(k KeyFunc) Option {
	return func(pc *PageCache) { pc.key = k }
}

// New creates a cache whose entries live for ttl.
func New(ttl time.Duration, opts ...Option) *PageCache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	pc := &PageCache{ttl: ttl, now: time.Now, key: PageKey, entries: make(map[string]Entry)}
	for _, opt := range opts {
		opt(pc)
	}
	return pc
}

// Get returns the live entry for key.
func (pc *PageCache) Get(key string) (Entry, bool) {
	pc.mu.Lock()
	defer pc.mu.Unlock()
	e, ok := pc.entries[key]
	if !ok {
		return Entry{}, false
	}
	if !pc.now().Before(e.expires) {
		delete(pc.entries, key)
		return Entry{}, false
	}
	return e, true
}

// Set stores e under key for one TTL and drops any expired entries.
func (pc *PageCache) Set(key string, e Entry) {
	pc.mu.Lock()
	defer pc.mu.Unlock()
	now := pc.now()
	for k, old := range pc.entries {
		if !now.Before(old.expires) {
			delete(pc.entries, k)
		}
	}
	e.expires = now.Add(pc.ttl)
	pc.entries[key] = e
}

// Len reports the number of stored entries, expired or not.
func (pc *PageCache) Len() int {
	pc.mu.Lock()
	defer pc.mu.Unlock()
	return len(pc.entries)
}

// Middleware serves cached GET responses and stores successful ones.
func (pc *PageCache) Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if c.Request().Method != http.MethodGet {
				return next(c)
			}
			key := pc.key(c)
			if e, ok := pc.Get(key); ok {
				c.Response().Header().Set("X-Cache", "HIT")
				return c.Blob(e.Status, e.ContentType, e.Body)
			}

			res := c.Response()
			rec := &recorder{ResponseWriter: res.Writer}
			res.Writer = rec
			res.Header().Set("X-Cache", "MISS")
			err := next(c)
			res.Writer = rec.ResponseWriter
			if err != nil {
				return err
			}
			if res.Status == http.StatusOK {
				pc.Set(key, Entry{
					Status:      res.Status,
					ContentType: res.Header().Get(echo.HeaderContentType),
					Body:        bytes.Clone(rec.body.Bytes()),
				})
			}
			return nil
		}
	}
}

// recorder copies everything written to the client.
type recorder struct {
	http.ResponseWriter
	body bytes.Buffer
}

func (r *recorder) Write(b []byte) (int, error) {
	r.body.Write(b)
	return r.ResponseWriter.Write(b)
}

func (r *recorder) Flush() {
	if f, ok := r.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}
