package httpserver

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/yndnr/kvlite-go/internal/telemetry/logger"
)

func newBufferLogger(t *testing.T) (logger.Logger, *syncBuffer) {
	t.Helper()
	buf := &syncBuffer{}
	log, err := logger.New(logger.Config{Level: "debug", Format: "text", Output: buf})
	if err != nil {
		t.Fatalf("logger.New() error = %v", err)
	}
	t.Cleanup(func() { logger.SetLevel("info") })
	return log, buf
}

type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func (b *syncBuffer) Reset() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.buf.Reset()
}

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestRequestID(t *testing.T) {
	middleware := RequestID()
	handler := middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if GetRequestIDFromContext(r.Context()) == "" {
			t.Error("expected request ID in context")
		}
		if _, ok := r.Context().Value(ContextKeyStartTime).(time.Time); !ok {
			t.Error("expected start time in context")
		}
		w.WriteHeader(http.StatusOK)
	}))

	t.Run("generates request ID when not provided", func(t *testing.T) {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest("GET", "/test", nil))

		requestID := rec.Header().Get("X-Request-ID")
		if !strings.HasPrefix(requestID, "req-") {
			t.Errorf("expected request ID to start with 'req-', got %s", requestID)
		}
		// req- plus a 26 character ULID
		if len(requestID) != 30 {
			t.Errorf("request ID length = %d, want 30", len(requestID))
		}
	})

	t.Run("generated IDs differ", func(t *testing.T) {
		a, b := httptest.NewRecorder(), httptest.NewRecorder()
		handler.ServeHTTP(a, httptest.NewRequest("GET", "/test", nil))
		handler.ServeHTTP(b, httptest.NewRequest("GET", "/test", nil))
		if a.Header().Get("X-Request-ID") == b.Header().Get("X-Request-ID") {
			t.Error("expected distinct request IDs")
		}
	})

	t.Run("preserves existing request ID", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/test", nil)
		req.Header.Set("X-Request-ID", "existing-id-123")
		rec := httptest.NewRecorder()

		handler.ServeHTTP(rec, req)

		if got := rec.Header().Get("X-Request-ID"); got != "existing-id-123" {
			t.Errorf("expected 'existing-id-123', got %s", got)
		}
	})
}

func TestChain(t *testing.T) {
	var order []int

	step := func(n int) Middleware {
		return func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				order = append(order, n)
				next.ServeHTTP(w, r)
			})
		}
	}

	handler := Chain(
		http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			order = append(order, 4)
			w.WriteHeader(http.StatusOK)
		}),
		step(1), step(2), step(3),
	)

	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", "/test", nil))

	expected := []int{1, 2, 3, 4}
	if len(order) != len(expected) {
		t.Fatalf("expected %d calls, got %d", len(expected), len(order))
	}
	for i, v := range expected {
		if order[i] != v {
			t.Errorf("expected order[%d] = %d, got %d", i, v, order[i])
		}
	}
}

func TestRateLimit(t *testing.T) {
	t.Run("limits requests from same IP", func(t *testing.T) {
		handler := RateLimit(2)(okHandler())

		for i := 0; i < 2; i++ {
			req := httptest.NewRequest("GET", "/test", nil)
			req.RemoteAddr = "10.0.0.99:12345"
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)
			if rec.Code != http.StatusOK {
				t.Errorf("request %d: expected status 200, got %d", i+1, rec.Code)
			}
		}

		req := httptest.NewRequest("GET", "/test", nil)
		req.RemoteAddr = "10.0.0.99:12345"
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		if rec.Code != http.StatusTooManyRequests {
			t.Errorf("expected status 429, got %d", rec.Code)
		}
		if rec.Header().Get("Retry-After") != "1" {
			t.Errorf("Retry-After = %q, want 1", rec.Header().Get("Retry-After"))
		}
	})

	t.Run("different IPs have separate limits", func(t *testing.T) {
		handler := RateLimit(1)(okHandler())

		for _, addr := range []string{"192.168.100.1:12345", "192.168.100.2:12345"} {
			req := httptest.NewRequest("GET", "/test", nil)
			req.RemoteAddr = addr
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)
			if rec.Code != http.StatusOK {
				t.Errorf("%s: expected status 200, got %d", addr, rec.Code)
			}
		}
	})

	t.Run("tokens refill over time", func(t *testing.T) {
		handler := RateLimit(10)(okHandler())
		send := func() int {
			req := httptest.NewRequest("GET", "/test", nil)
			req.RemoteAddr = "10.0.0.88:12345"
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)
			return rec.Code
		}

		for i := 0; i < 10; i++ {
			send()
		}
		if code := send(); code != http.StatusTooManyRequests {
			t.Errorf("expected status 429, got %d", code)
		}

		time.Sleep(200 * time.Millisecond)

		if code := send(); code != http.StatusOK {
			t.Errorf("after refill: expected status 200, got %d", code)
		}
	})

	t.Run("zero disables limiting", func(t *testing.T) {
		handler := RateLimit(0)(okHandler())
		for i := 0; i < 100; i++ {
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, httptest.NewRequest("GET", "/test", nil))
			if rec.Code != http.StatusOK {
				t.Fatalf("request %d: status = %d", i, rec.Code)
			}
		}
	})
}

func TestRecover(t *testing.T) {
	log, buf := newBufferLogger(t)

	t.Run("recovers from panic", func(t *testing.T) {
		handler := Recover(log)(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
			panic("test panic")
		}))

		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest("GET", "/test", nil))

		if rec.Code != http.StatusInternalServerError {
			t.Errorf("expected status 500, got %d", rec.Code)
		}
		if !strings.Contains(buf.String(), "panic recovered") {
			t.Errorf("expected panic log, got: %s", buf.String())
		}
	})

	t.Run("passes through normal requests", func(t *testing.T) {
		rec := httptest.NewRecorder()
		Recover(log)(okHandler()).ServeHTTP(rec, httptest.NewRequest("GET", "/test", nil))

		if rec.Code != http.StatusOK {
			t.Errorf("expected status 200, got %d", rec.Code)
		}
	})
}

func TestAccess(t *testing.T) {
	log, buf := newBufferLogger(t)

	tests := []struct {
		name   string
		status int
		want   string
	}{
		{"logs successful requests", http.StatusOK, "request completed"},
		{"logs client errors", http.StatusBadRequest, "client error"},
		{"logs server errors", http.StatusInternalServerError, "completed with error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf.Reset()
			handler := Access(log)(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tt.status)
			}))

			req := httptest.NewRequest("GET", "/test", nil)
			req = req.WithContext(context.WithValue(req.Context(), ContextKeyRequestID, "test-req-123"))
			req = req.WithContext(context.WithValue(req.Context(), ContextKeyStartTime, time.Now()))

			handler.ServeHTTP(httptest.NewRecorder(), req)

			out := buf.String()
			if !strings.Contains(out, tt.want) {
				t.Errorf("expected %q in log, got: %s", tt.want, out)
			}
			if !strings.Contains(out, "test-req-123") {
				t.Errorf("expected request id in log, got: %s", out)
			}
		})
	}
}

func TestClientIP(t *testing.T) {
	tests := []struct {
		name    string
		headers map[string]string
		remote  string
		want    string
	}{
		{"X-Forwarded-For", map[string]string{"X-Forwarded-For": "10.0.0.1, 10.0.0.2"}, "192.168.1.1:12345", "10.0.0.1"},
		{"X-Real-IP", map[string]string{"X-Real-IP": "10.0.0.1"}, "192.168.1.1:12345", "10.0.0.1"},
		{"RemoteAddr", nil, "192.168.1.1:12345", "192.168.1.1"},
		{"IPv6 RemoteAddr", nil, "[::1]:8080", "::1"},
		{"RemoteAddr without port", nil, "192.168.1.1", "192.168.1.1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/test", nil)
			for k, v := range tt.headers {
				req.Header.Set(k, v)
			}
			req.RemoteAddr = tt.remote

			if got := clientIP(req); got != tt.want {
				t.Errorf("clientIP() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestResponseWriter(t *testing.T) {
	rec := httptest.NewRecorder()
	wrapped := &responseWriter{ResponseWriter: rec, statusCode: http.StatusOK}

	wrapped.WriteHeader(http.StatusCreated)

	if wrapped.statusCode != http.StatusCreated {
		t.Errorf("expected status 201, got %d", wrapped.statusCode)
	}
	if rec.Code != http.StatusCreated {
		t.Errorf("underlying status = %d, want 201", rec.Code)
	}
}
