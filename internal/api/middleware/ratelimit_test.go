package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/flowtutor/flowtutor/internal/api/middleware"
)

func TestRateLimiter_Allow(t *testing.T) {
	rl := middleware.NewRateLimiter(5, time.Second, 5)

	key := "test-client"

	for i := 0; i < 5; i++ {
		if !rl.Allow(key) {
			t.Errorf("Request %d should be allowed", i+1)
		}
	}

	if rl.Allow(key) {
		t.Error("6th request should be denied")
	}
}

func TestRateLimiter_TokenRefill(t *testing.T) {
	rl := middleware.NewRateLimiter(10, 100*time.Millisecond, 2)

	key := "test-client"

	rl.Allow(key)
	rl.Allow(key)

	if rl.Allow(key) {
		t.Error("Should be denied after burst exhausted")
	}

	time.Sleep(110 * time.Millisecond)

	if !rl.Allow(key) {
		t.Error("Should be allowed after token refill")
	}
}

func TestRateLimiter_MultipleClients(t *testing.T) {
	rl := middleware.NewRateLimiter(2, time.Second, 2)

	rl.Allow("client-1")
	rl.Allow("client-1")

	if rl.Allow("client-1") {
		t.Error("Client 1 should be denied")
	}

	if !rl.Allow("client-2") {
		t.Error("Client 2 should be allowed")
	}
}

func TestRateLimiter_Remaining(t *testing.T) {
	rl := middleware.NewRateLimiter(5, time.Second, 5)
	key := "test-client"

	if remaining := rl.Remaining(key); remaining != 5 {
		t.Errorf("Remaining = %d; want 5", remaining)
	}

	rl.Allow(key)
	if remaining := rl.Remaining(key); remaining != 4 {
		t.Errorf("Remaining = %d; want 4", remaining)
	}
}

func TestModelRateLimit(t *testing.T) {
	cfg := middleware.RateLimitConfig{
		RequestsPerMinute:      60,
		ModelRequestsPerMinute: 1,
		BurstMultiplier:        1,
	}

	handler := middleware.ModelRateLimit(cfg, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/hints", nil)
	req.RemoteAddr = "10.0.0.1:1234"

	rec := httptest.NewRecorder()
	handler(rec, req)
	if rec.Code != http.StatusOK {
		t.Errorf("first request status = %d, want 200", rec.Code)
	}

	rec = httptest.NewRecorder()
	handler(rec, req)
	if rec.Code != http.StatusTooManyRequests {
		t.Errorf("second request status = %d, want 429", rec.Code)
	}
	if rec.Header().Get("Retry-After") != "60" {
		t.Errorf("Retry-After = %q, want 60", rec.Header().Get("Retry-After"))
	}
}

func TestDefaultRateLimitConfig(t *testing.T) {
	cfg := middleware.DefaultRateLimitConfig()

	if cfg.RequestsPerMinute <= 0 {
		t.Error("RequestsPerMinute must be positive")
	}
	if cfg.ModelRequestsPerMinute <= 0 {
		t.Error("ModelRequestsPerMinute must be positive")
	}
	if cfg.ModelRequestsPerMinute >= cfg.RequestsPerMinute {
		t.Error("model endpoints should be limited more strictly than general ones")
	}
}
