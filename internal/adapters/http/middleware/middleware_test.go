package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

// TestRateLimiter_AllowsWithinRate verifies the token bucket admits up
// to rate requests per interval and rejects the overflow.
func TestRateLimiter_AllowsWithinRate(t *testing.T) {
	rl := NewRateLimiter(3, time.Minute)
	for i := 0; i < 3; i++ {
		if !rl.Allow("10.0.0.1") {
			t.Fatalf("request %d must be allowed", i+1)
		}
	}
	if rl.Allow("10.0.0.1") {
		t.Error("request over the limit must be rejected")
	}
	// Another IP has its own bucket.
	if !rl.Allow("10.0.0.2") {
		t.Error("a different IP must not share the exhausted bucket")
	}
}

// TestRateLimit_KioskBudget verifies kiosk endpoints draw from the
// kiosk limiter so the shared tablet's typing bursts don't exhaust the
// budget of the admin pages.
func TestRateLimit_KioskBudget(t *testing.T) {
	base := NewRateLimiter(1, time.Minute)
	kiosk := NewRateLimiter(10, time.Minute)
	handler := RateLimit(base, kiosk)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	do := func(path string) int {
		req := httptest.NewRequest("GET", path, nil)
		req.RemoteAddr = "10.0.0.9:1234"
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, req)
		return rr.Code
	}

	// Search-as-you-type: several kiosk requests in a burst all pass.
	for i := 0; i < 5; i++ {
		if code := do("/api/students/search?q=an"); code != http.StatusOK {
			t.Fatalf("kiosk request %d: status = %d, want 200", i+1, code)
		}
	}
	if code := do("/api/checkin"); code != http.StatusOK {
		t.Errorf("check-in status = %d, want 200", code)
	}

	// The base budget is untouched by the kiosk burst, then exhausts.
	if code := do("/api/students"); code != http.StatusOK {
		t.Errorf("first admin request status = %d, want 200", code)
	}
	if code := do("/api/students"); code != http.StatusTooManyRequests {
		t.Errorf("second admin request status = %d, want 429", code)
	}
}

// TestKioskPath pins which endpoints count as kiosk traffic.
func TestKioskPath(t *testing.T) {
	cases := []struct {
		path string
		want bool
	}{
		{"/api/checkin", true},
		{"/api/checkin/confirm", true},
		{"/api/kiosk/launch", true},
		{"/api/students/search", true},
		{"/api/turmas/available-now", true},
		{"/api/students", false},
		{"/api/turmas", false},
		{"/agenda", false},
	}
	for _, tc := range cases {
		if got := kioskPath(tc.path); got != tc.want {
			t.Errorf("kioskPath(%q) = %v, want %v", tc.path, got, tc.want)
		}
	}
}

// TestSecurityHeaders verifies the CSP and companion headers are set.
func TestSecurityHeaders(t *testing.T) {
	handler := SecurityHeaders(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	req := httptest.NewRequest("GET", "/agenda", nil)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	csp := rr.Header().Get("Content-Security-Policy")
	if csp == "" {
		t.Fatal("Content-Security-Policy must be set")
	}
	if !strings.Contains(csp, "default-src 'self'") {
		t.Errorf("CSP must restrict to self, got %q", csp)
	}
	if strings.Contains(csp, "http") {
		t.Errorf("CSP must not allow cross-origin sources, got %q", csp)
	}
	if rr.Header().Get("X-Frame-Options") != "DENY" {
		t.Error("X-Frame-Options must be DENY")
	}
}
