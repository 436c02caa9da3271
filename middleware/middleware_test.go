package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

var okHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
	w.Write([]byte("ok"))
})

func TestRateLimiter(t *testing.T) {
	rl := NewRateLimiter(1, 2)
	h := rl.Limit(okHandler)

	do := func(remote string) int {
		req := httptest.NewRequest(http.MethodGet, "/abc", nil)
		req.RemoteAddr = remote
		w := httptest.NewRecorder()
		h.ServeHTTP(w, req)
		return w.Code
	}

	// Same host, different source ports share the burst
	if code := do("10.0.0.1:1111"); code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", code)
	}
	if code := do("10.0.0.1:2222"); code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", code)
	}
	if code := do("10.0.0.1:3333"); code != http.StatusTooManyRequests {
		t.Errorf("Expected 429 once the burst is spent, got %d", code)
	}

	if code := do("10.0.0.2:1111"); code != http.StatusOK {
		t.Errorf("Other hosts must have their own limiter, got %d", code)
	}
}

func TestClientIP(t *testing.T) {
	tests := []struct {
		remote string
		want   string
	}{
		{"192.168.1.5:5000", "192.168.1.5"},
		{"[::1]:8080", "::1"},
		{"no-port", "no-port"},
	}

	for _, tt := range tests {
		t.Run(tt.remote, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.RemoteAddr = tt.remote
			if got := clientIP(req); got != tt.want {
				t.Errorf("clientIP(%q) = %q, want %q", tt.remote, got, tt.want)
			}
		})
	}
}

func TestRequestLogger(t *testing.T) {
	h := RequestLogger(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

	if w.Code != http.StatusTeapot {
		t.Errorf("Expected status to pass through, got %d", w.Code)
	}
	if w.Header().Get(RequestIDHeader) == "" {
		t.Error("Expected a request id header")
	}
}

func TestStatusRecorder(t *testing.T) {
	w := httptest.NewRecorder()
	rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

	rec.Write([]byte("body"))
	rec.WriteHeader(http.StatusInternalServerError)

	if rec.status != http.StatusOK || w.Code != http.StatusOK {
		t.Errorf("Implicit 200 must stick, got recorder %d writer %d", rec.status, w.Code)
	}
}

func TestCORS(t *testing.T) {
	h := CORS(okHandler)

	t.Run("Preflight", func(t *testing.T) {
		w := httptest.NewRecorder()
		h.ServeHTTP(w, httptest.NewRequest(http.MethodOptions, "/api/shorten", nil))
		if w.Code != http.StatusNoContent {
			t.Errorf("Expected 204, got %d", w.Code)
		}
		if w.Body.Len() != 0 {
			t.Error("Preflight must not reach the handler")
		}
	})

	t.Run("Simple request", func(t *testing.T) {
		w := httptest.NewRecorder()
		h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/state", nil))
		if w.Header().Get("Access-Control-Allow-Origin") != "*" {
			t.Error("Expected CORS headers")
		}
		if w.Body.String() != "ok" {
			t.Errorf("Expected handler body, got %q", w.Body.String())
		}
	})
}
