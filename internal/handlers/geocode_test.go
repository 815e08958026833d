package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"equimarket/internal/limiter"
)

func newGeocodeRouter(upstreamURL string, limit *limiter.Fixed, cache *GeocodeCache) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/api/geocode", Geocode(limit, cache, upstreamURL, &http.Client{Timeout: 2 * time.Second}))
	return r
}

func TestGeocodeRejectsShortQuery(t *testing.T) {
	r := newGeocodeRouter("http://127.0.0.1:0", limiter.NewFixed(10, time.Minute), NewGeocodeCache(time.Minute))

	// "%C3%A9" is a single two-byte character; length is counted in runes,
	// not bytes.
	for _, target := range []string{"/api/geocode", "/api/geocode?q=a", "/api/geocode?q=%C3%A9"} {
		w := httptest.NewRecorder()
		req := httptest.NewRequest("GET", target, nil)
		r.ServeHTTP(w, req)

		if w.Code != http.StatusBadRequest {
			t.Fatalf("expected 400 for %s, got %d", target, w.Code)
		}
	}
}

func TestGeocodeProxiesAndCaches(t *testing.T) {
	hits := 0
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		hits++
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[{"display_name":"Lexington, KY"}]`))
	}))
	defer upstream.Close()

	r := newGeocodeRouter(upstream.URL, limiter.NewFixed(10, time.Minute), NewGeocodeCache(time.Minute))

	for i := 0; i < 2; i++ {
		w := httptest.NewRecorder()
		req := httptest.NewRequest("GET", "/api/geocode?q=lexington", nil)
		r.ServeHTTP(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("request %d: expected 200, got %d", i+1, w.Code)
		}
		if w.Body.String() != `[{"display_name":"Lexington, KY"}]` {
			t.Fatalf("request %d: unexpected body %s", i+1, w.Body.String())
		}
		if w.Header().Get("Access-Control-Allow-Origin") != "*" {
			t.Fatalf("request %d: expected open CORS header", i+1)
		}
	}

	if hits != 1 {
		t.Fatalf("expected second request served from cache, upstream hits=%d", hits)
	}
}

func TestGeocodeSurfacesUpstreamRateLimit(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer upstream.Close()

	r := newGeocodeRouter(upstream.URL, limiter.NewFixed(10, time.Minute), NewGeocodeCache(time.Minute))

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/api/geocode?q=lexington", nil)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429, got %d", w.Code)
	}
}

func TestGeocodeUpstreamFailureIsServerError(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer upstream.Close()

	r := newGeocodeRouter(upstream.URL, limiter.NewFixed(10, time.Minute), NewGeocodeCache(time.Minute))

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/api/geocode?q=lexington", nil)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", w.Code)
	}
}

func TestGeocodeLocalRateLimit(t *testing.T) {
	hits := 0
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		hits++
		_, _ = w.Write([]byte(`[]`))
	}))
	defer upstream.Close()

	// Distinct queries defeat the cache so every allowed request reaches
	// upstream; the second request from the same client must be rejected
	// locally.
	r := newGeocodeRouter(upstream.URL, limiter.NewFixed(1, time.Minute), NewGeocodeCache(time.Minute))

	first := httptest.NewRecorder()
	reqA := httptest.NewRequest("GET", "/api/geocode?q=lexington", nil)
	reqA.Header.Set("X-Forwarded-For", "203.0.113.9")
	r.ServeHTTP(first, reqA)
	if first.Code != http.StatusOK {
		t.Fatalf("expected first request to pass, got %d", first.Code)
	}

	second := httptest.NewRecorder()
	reqB := httptest.NewRequest("GET", "/api/geocode?q=louisville", nil)
	reqB.Header.Set("X-Forwarded-For", "203.0.113.9")
	r.ServeHTTP(second, reqB)
	if second.Code != http.StatusTooManyRequests {
		t.Fatalf("expected second request rejected, got %d", second.Code)
	}

	if hits != 1 {
		t.Fatalf("expected one upstream hit, got %d", hits)
	}
}

func TestClientKeyFallbacks(t *testing.T) {
	c := newTestContext(t, "GET", "/api/geocode?q=x", "", nil)
	c.Request.Header.Set("X-Forwarded-For", "198.51.100.7, 10.0.0.1")
	if key := clientKey(c); key != "198.51.100.7" {
		t.Fatalf("expected first forwarded address, got %q", key)
	}

	c = newTestContext(t, "GET", "/api/geocode?q=x", "", nil)
	c.Request.RemoteAddr = "192.0.2.4:1234"
	if key := clientKey(c); key != "192.0.2.4" {
		t.Fatalf("expected remote host, got %q", key)
	}

	c = newTestContext(t, "GET", "/api/geocode?q=x", "", nil)
	c.Request.RemoteAddr = ""
	if key := clientKey(c); key != "unknown" {
		t.Fatalf("expected unknown fallback, got %q", key)
	}
}
