package handlers

import (
	"fmt"
	"io"
	"log"
	"net"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/gin-gonic/gin"

	"equimarket/internal/limiter"
)

type geocodeEntry struct {
	body    []byte
	expires time.Time
}

// GeocodeCache holds upstream responses for a short TTL so repeated searches
// for the same text do not hit the external service.
type GeocodeCache struct {
	mu      sync.Mutex
	ttl     time.Duration
	entries map[string]geocodeEntry
}

func NewGeocodeCache(ttl time.Duration) *GeocodeCache {
	return &GeocodeCache{
		ttl:     ttl,
		entries: make(map[string]geocodeEntry),
	}
}

func (gc *GeocodeCache) get(key string) ([]byte, bool) {
	gc.mu.Lock()
	defer gc.mu.Unlock()

	entry, ok := gc.entries[key]
	if !ok || time.Now().After(entry.expires) {
		delete(gc.entries, key)
		return nil, false
	}
	return entry.body, true
}

func (gc *GeocodeCache) put(key string, body []byte) {
	gc.mu.Lock()
	defer gc.mu.Unlock()
	gc.entries[key] = geocodeEntry{body: body, expires: time.Now().Add(gc.ttl)}
}

// Geocode proxies forward-geocoding queries to the upstream search API with a
// per-client fixed-window limit and a short response cache.
func Geocode(limit *limiter.Fixed, cache *GeocodeCache, baseURL string, client *http.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer handlePanic(c, "GEOCODE")

		c.Header("Access-Control-Allow-Origin", "*")

		query := strings.TrimSpace(c.Query("q"))
		if utf8.RuneCountInString(query) < 2 {
			c.JSON(http.StatusBadRequest, gin.H{"message": "q must be at least 2 characters"})
			return
		}

		if !limit.Allow(clientKey(c)) {
			c.JSON(http.StatusTooManyRequests, gin.H{"message": "too many requests"})
			return
		}

		if body, ok := cache.get(query); ok {
			c.Data(http.StatusOK, "application/json", body)
			return
		}

		endpoint := fmt.Sprintf("%s?q=%s&format=json&limit=5", baseURL, url.QueryEscape(query))
		req, err := http.NewRequestWithContext(c.Request.Context(), http.MethodGet, endpoint, nil)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "geocoding request failed"})
			return
		}
		req.Header.Set("User-Agent", "equimarket/1.0")

		resp, err := client.Do(req)
		if err != nil {
			log.Println("[GEOCODE] [ERROR] upstream request failed:", err)
			c.JSON(http.StatusInternalServerError, gin.H{"message": "geocoding service unavailable"})
			return
		}
		defer resp.Body.Close()

		if resp.StatusCode == http.StatusTooManyRequests {
			c.JSON(http.StatusTooManyRequests, gin.H{"message": "upstream rate limit exceeded"})
			return
		}
		if resp.StatusCode != http.StatusOK {
			log.Println("[GEOCODE] [ERROR] upstream status:", resp.StatusCode)
			c.JSON(http.StatusInternalServerError, gin.H{"message": "geocoding service unavailable"})
			return
		}

		body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "geocoding service unavailable"})
			return
		}

		cache.put(query, body)
		c.Data(http.StatusOK, "application/json", body)
	}
}

// clientKey buckets requests per caller: forwarded-for first, then the direct
// address. Clients behind a proxy that strips both share the "unknown" bucket.
func clientKey(c *gin.Context) string {
	if forwarded := strings.TrimSpace(c.GetHeader("X-Forwarded-For")); forwarded != "" {
		if idx := strings.Index(forwarded, ","); idx >= 0 {
			forwarded = forwarded[:idx]
		}
		return strings.TrimSpace(forwarded)
	}

	if host, _, err := net.SplitHostPort(c.Request.RemoteAddr); err == nil && host != "" {
		return host
	}
	if addr := strings.TrimSpace(c.Request.RemoteAddr); addr != "" {
		return addr
	}
	return "unknown"
}
