package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
)

func TestRateLimiter_WindowSemantics(t *testing.T) {
	rl := NewRateLimiter(10, time.Minute)
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	rl.now = func() time.Time { return now }

	// Requests 1..10 pass.
	for i := 1; i <= 10; i++ {
		if _, ok := rl.Allow("10.0.0.1"); !ok {
			t.Fatalf("request %d should be allowed", i)
		}
	}

	// Request 11 is rejected with a positive retry hint.
	retryAfter, ok := rl.Allow("10.0.0.1")
	if ok {
		t.Fatalf("request 11 should be rejected")
	}
	if retryAfter <= 0 {
		t.Fatalf("expected positive retry_after, got %d", retryAfter)
	}

	// A different source is unaffected.
	if _, ok := rl.Allow("10.0.0.2"); !ok {
		t.Fatalf("other IP should be allowed")
	}

	// After the window elapses the counter starts fresh.
	now = now.Add(61 * time.Second)
	if _, ok := rl.Allow("10.0.0.1"); !ok {
		t.Fatalf("post-window request should start a fresh bucket")
	}
	rl.mu.Lock()
	count := rl.buckets["10.0.0.1"].count
	rl.mu.Unlock()
	if count != 1 {
		t.Fatalf("expected fresh count 1, got %d", count)
	}
}

func TestRateLimiter_RetryAfterNeverZero(t *testing.T) {
	rl := NewRateLimiter(1, time.Minute)
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	now := base
	rl.now = func() time.Time { return now }

	rl.Allow("10.0.0.1")

	// A rejection right at the end of the window still reports at least 1s.
	now = base.Add(time.Minute - 100*time.Millisecond)
	retryAfter, ok := rl.Allow("10.0.0.1")
	if ok {
		t.Fatalf("expected rejection")
	}
	if retryAfter < 1 {
		t.Fatalf("expected retry_after >= 1, got %d", retryAfter)
	}
}

func TestRateLimiter_SweepEvictsExpiredBuckets(t *testing.T) {
	rl := NewRateLimiter(10, time.Minute)
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	rl.now = func() time.Time { return now }

	rl.Allow("10.0.0.1")
	rl.Allow("10.0.0.2")

	now = now.Add(2 * time.Minute)
	rl.Allow("10.0.0.3")
	rl.sweep()

	rl.mu.Lock()
	defer rl.mu.Unlock()
	if _, ok := rl.buckets["10.0.0.1"]; ok {
		t.Fatalf("expired bucket not swept")
	}
	if _, ok := rl.buckets["10.0.0.3"]; !ok {
		t.Fatalf("live bucket swept")
	}
}

func TestRateLimiter_Middleware(t *testing.T) {
	e := echo.New()
	rl := NewRateLimiter(1, time.Minute)
	mw := rl.Middleware()
	handler := mw(func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})

	do := func() *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/auth/login", nil)
		req.RemoteAddr = "203.0.113.7:51000"
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)
		if err := handler(c); err != nil {
			e.HTTPErrorHandler(err, c)
		}
		return rec
	}

	if rec := do(); rec.Code != http.StatusOK {
		t.Fatalf("first request: expected 200, got %d", rec.Code)
	}

	rec := do()
	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("second request: expected 429, got %d", rec.Code)
	}
	if rec.Header().Get("Retry-After") == "" {
		t.Fatalf("expected Retry-After header")
	}

	var body struct {
		Error      string `json:"error"`
		RetryAfter int64  `json:"retry_after"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body.RetryAfter <= 0 {
		t.Fatalf("expected positive retry_after in body, got %d", body.RetryAfter)
	}
}
