// AngelaMos | 2026
// ratelimit_test.go

package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	redis_rate "github.com/go-redis/redis_rate/v10"

	"github.com/angelamos/marketplace-api/internal/gate"
)

func TestLocalLimiterExhaustsBurst(t *testing.T) {
	limiter := newLocalLimiter()
	limit := PerMinute(1, 3)

	for i := 0; i < 3; i++ {
		res, err := limiter.allow("test-key", limit)
		if err != nil {
			t.Fatalf("allow %d: unexpected error: %v", i, err)
		}
		if res.Allowed != 1 {
			t.Fatalf("allow %d: expected request within burst to pass", i)
		}
	}

	res, err := limiter.allow("test-key", limit)
	if err != nil {
		t.Fatalf("unexpected error past burst: %v", err)
	}
	if res.Allowed != 0 {
		t.Error("expected request past burst to be denied")
	}
	if res.RetryAfter <= 0 {
		t.Errorf("expected positive retry-after on denial, got %v", res.RetryAfter)
	}
}

func TestLocalLimiterIsolatesKeys(t *testing.T) {
	limiter := newLocalLimiter()
	limit := PerMinute(1, 1)

	if res, _ := limiter.allow("key-a", limit); res.Allowed != 1 {
		t.Fatal("expected first request on key-a to pass")
	}
	if res, _ := limiter.allow("key-a", limit); res.Allowed != 0 {
		t.Fatal("expected second request on key-a to be denied")
	}
	if res, _ := limiter.allow("key-b", limit); res.Allowed != 1 {
		t.Error("expected key-b to carry its own budget")
	}
}

func TestWriteRateLimitExceededEnvelope(t *testing.T) {
	rec := httptest.NewRecorder()
	writeRateLimitExceeded(rec, &redis_rate.Result{
		RetryAfter: 7 * time.Second,
	})

	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("expected status 429, got %d", rec.Code)
	}
	if got := rec.Header().Get("Retry-After"); got != "7" {
		t.Errorf("expected Retry-After 7, got %q", got)
	}

	var body struct {
		Success bool   `json:"success"`
		Message string `json:"message"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body.Success {
		t.Error("expected success=false")
	}
	if !strings.Contains(body.Message, "Rate limit exceeded") {
		t.Errorf("unexpected message %q", body.Message)
	}
}

func TestKeyByIP(t *testing.T) {
	tests := []struct {
		name       string
		remoteAddr string
		headers    map[string]string
		want       string
	}{
		{
			name:       "remote addr",
			remoteAddr: "10.1.2.3:5512",
			want:       "ratelimit:ip:10.1.2.3",
		},
		{
			name:       "x-forwarded-for takes last hop",
			remoteAddr: "10.1.2.3:5512",
			headers:    map[string]string{"X-Forwarded-For": "1.2.3.4, 5.6.7.8"},
			want:       "ratelimit:ip:5.6.7.8",
		},
		{
			name:       "x-real-ip",
			remoteAddr: "10.1.2.3:5512",
			headers:    map[string]string{"X-Real-IP": "9.9.9.9"},
			want:       "ratelimit:ip:9.9.9.9",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.RemoteAddr = tc.remoteAddr
			for k, v := range tc.headers {
				req.Header.Set(k, v)
			}
			if got := KeyByIP(req); got != tc.want {
				t.Errorf("expected %q, got %q", tc.want, got)
			}
		})
	}
}

func TestKeyByUserFallsBackToIP(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "10.1.2.3:5512"

	if got := KeyByUser(req); got != "ratelimit:ip:10.1.2.3" {
		t.Errorf("expected IP key for anonymous request, got %q", got)
	}

	actor := gate.Actor{ID: "user-1", SessionID: "sid-1"}
	req = req.WithContext(WithActor(req.Context(), actor))
	if got := KeyByUser(req); got != "ratelimit:user:user-1" {
		t.Errorf("expected user key for authenticated request, got %q", got)
	}
}

func TestNormalizeEndpointCollapsesIDs(t *testing.T) {
	path := "/v1/users/3b9f8a00-0e65-4b7a-9a4e-2f1d0c5b8e77"
	if got := normalizeEndpoint(path); got != "/v1/users/{id}" {
		t.Errorf("expected uuid segment collapsed, got %q", got)
	}
	if got := normalizeEndpoint("/v1/sellers/42"); got != "/v1/sellers/{id}" {
		t.Errorf("expected numeric segment collapsed, got %q", got)
	}
	if got := normalizeEndpoint("/v1/auth/login"); got != "/v1/auth/login" {
		t.Errorf("expected static path untouched, got %q", got)
	}
}
