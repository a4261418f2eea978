package mw

import (
	"bytes"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/patrickmn/go-cache"

	"faculty-locator-backend/internal/model"
)

type cachedResponse struct {
	status  int
	headers http.Header
	body    []byte
}

type bodyCacheWriter struct {
	gin.ResponseWriter
	body *bytes.Buffer
}

func (w bodyCacheWriter) Write(b []byte) (int, error) {
	w.body.Write(b)
	return w.ResponseWriter.Write(b)
}

func (w bodyCacheWriter) WriteString(s string) (int, error) {
	w.body.WriteString(s)
	return w.ResponseWriter.WriteString(s)
}

// ResponseCache caches GET responses until they expire or presence changes.
type ResponseCache struct {
	store *cache.Cache
	ttl   time.Duration

	mu         sync.Mutex
	generation uint64
}

// NewResponseCache creates a response cache whose entries live for ttl.
func NewResponseCache(ttl time.Duration) *ResponseCache {
	return &ResponseCache{
		store: cache.New(ttl, 2*ttl),
		ttl:   ttl,
	}
}

// Middleware returns the caching handler. A response whose handler overlapped
// a Flush is served but not stored.
func (rc *ResponseCache) Middleware() gin.HandlerFunc {
	return cacheHandler(rc.store, rc.ttl, rc)
}

// Flush drops every cached response and invalidates responses still being built.
func (rc *ResponseCache) Flush() {
	rc.mu.Lock()
	defer rc.mu.Unlock()
	rc.generation++
	rc.store.Flush()
}

// ObserveChange flushes the cache after a committed presence change, so a
// query never serves a record older than the last commit.
func (rc *ResponseCache) ObserveChange(_, _ model.PresenceRecord) {
	rc.Flush()
}

func (rc *ResponseCache) current() uint64 {
	rc.mu.Lock()
	defer rc.mu.Unlock()
	return rc.generation
}

// setIfCurrent stores the response only if no Flush happened since gen.
func (rc *ResponseCache) setIfCurrent(gen uint64, key string, resp cachedResponse, d time.Duration) {
	rc.mu.Lock()
	defer rc.mu.Unlock()
	if rc.generation != gen {
		return
	}
	rc.store.Set(key, resp, d)
}

// Cache is a middleware for in-memory caching of GET requests.
func Cache(store *cache.Cache, duration time.Duration) gin.HandlerFunc {
	return cacheHandler(store, duration, nil)
}

func cacheHandler(store *cache.Cache, duration time.Duration, rc *ResponseCache) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method != http.MethodGet {
			c.Next()
			return
		}

		key := c.Request.RequestURI
		if resp, found := store.Get(key); found {
			cached := resp.(cachedResponse)
			for k, v := range cached.headers {
				c.Writer.Header()[k] = v
			}
			c.Writer.WriteHeader(cached.status)
			c.Writer.Write(cached.body)
			c.Abort()
			return
		}

		var gen uint64
		if rc != nil {
			gen = rc.current()
		}

		blw := &bodyCacheWriter{body: bytes.NewBuffer(nil), ResponseWriter: c.Writer}
		c.Writer = blw

		c.Next()

		// Only cache successful responses
		if blw.Status() < 200 || blw.Status() >= 300 {
			return
		}
		response := cachedResponse{
			status:  blw.Status(),
			headers: blw.Header().Clone(),
			body:    blw.body.Bytes(),
		}
		if rc != nil {
			rc.setIfCurrent(gen, key, response, duration)
			return
		}
		store.Set(key, response, duration)
	}
}
