package source

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"
)

func testClient(url string) *Client {
	return NewClient(url, time.Second).WithRetry(3, time.Millisecond)
}

func TestNewClient(t *testing.T) {
	client := NewClient("http://example.com/meta", 0)

	if client.httpClient == nil {
		t.Fatal("expected HTTP client to be initialized")
	}
	if client.httpClient.Timeout != DefaultHTTPTimeout {
		t.Errorf("expected timeout %v, got %v", DefaultHTTPTimeout, client.httpClient.Timeout)
	}
	if client.attempts != DefaultAttempts {
		t.Errorf("expected %d attempts, got %d", DefaultAttempts, client.attempts)
	}
}

func TestClient_WithBaseURL(t *testing.T) {
	original := NewClient("http://example.com/meta", 0)
	modified := original.WithBaseURL("http://localhost:8080")

	if modified.URL() != "http://localhost:8080" {
		t.Errorf("expected url %q, got %q", "http://localhost:8080", modified.URL())
	}
	// Verify original is unchanged (immutability)
	if original.URL() != "http://example.com/meta" {
		t.Errorf("original url was modified: got %q", original.URL())
	}
}

func TestClient_WithHTTPClient(t *testing.T) {
	original := NewClient("http://example.com/meta", 0)
	custom := &http.Client{Timeout: 5 * time.Second}

	modified := original.WithHTTPClient(custom)

	if modified.httpClient != custom {
		t.Error("expected custom HTTP client")
	}
	if original.httpClient == custom {
		t.Error("original HTTP client was modified")
	}
}

func TestClient_Zone(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"timezone field", `{"timezone":"Europe/Berlin"}`, "Europe/Berlin"},
		{"tz field", `{"tz":"Asia/Tokyo"}`, "Asia/Tokyo"},
		{"timezone wins", `{"timezone":"UTC","tz":"Asia/Tokyo"}`, "UTC"},
		{"trims space", `{"timezone":"  America/Chicago "}`, "America/Chicago"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if r.Header.Get("Accept") != "application/json" {
					t.Errorf("Accept = %q, want application/json", r.Header.Get("Accept"))
				}
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			got, err := testClient(srv.URL).Zone(context.Background())
			if err != nil {
				t.Fatalf("Zone() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("Zone() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestClient_Zone_RetriesServerError(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			http.Error(w, "warming up", http.StatusServiceUnavailable)
			return
		}
		_, _ = w.Write([]byte(`{"timezone":"Europe/London"}`))
	}))
	defer srv.Close()

	got, err := testClient(srv.URL).Zone(context.Background())
	if err != nil {
		t.Fatalf("Zone() error = %v", err)
	}
	if got != "Europe/London" {
		t.Errorf("Zone() = %q, want Europe/London", got)
	}
	if calls.Load() != 2 {
		t.Errorf("expected 2 calls, got %d", calls.Load())
	}
}

func TestClient_Zone_GivesUpAfterAttempts(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	if _, err := testClient(srv.URL).Zone(context.Background()); err == nil {
		t.Fatal("expected error after exhausting retries")
	}
	if calls.Load() != 3 {
		t.Errorf("expected 3 calls, got %d", calls.Load())
	}
}

func TestClient_Zone_Unrecoverable(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
	}{
		{"not found", http.StatusNotFound, "missing"},
		{"malformed body", http.StatusOK, "{not json"},
		{"no zone", http.StatusOK, `{"name":"sales"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var calls atomic.Int32
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				calls.Add(1)
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			if _, err := testClient(srv.URL).Zone(context.Background()); err == nil {
				t.Fatal("expected error")
			}
			if calls.Load() != 1 {
				t.Errorf("expected 1 call (no retry), got %d", calls.Load())
			}
		})
	}
}

func TestClient_Zone_NoZoneSentinel(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	_, err := testClient(srv.URL).Zone(context.Background())
	if !errors.Is(err, ErrNoZone) {
		t.Errorf("Zone() error = %v, want ErrNoZone", err)
	}
}

func TestClient_Zone_NoURL(t *testing.T) {
	if _, err := NewClient("", 0).Zone(context.Background()); err == nil {
		t.Error("expected error for empty url")
	}
}

func TestClient_Zone_ContextCanceled(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := testClient(srv.URL).Zone(ctx); err == nil {
		t.Error("expected error for canceled context")
	}
}
