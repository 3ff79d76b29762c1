package server

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"panthers-signup/internal/config"
)

func testConfig() *config.Config {
	return &config.Config{
		ServerPort:      "127.0.0.1:0",
		BackendURL:      "http://127.0.0.1:1",
		BackendTimeout:  time.Second,
		RedisURL:        "127.0.0.1:1",
		SessionTTL:      time.Hour,
		FormSessionTTL:  time.Hour,
		SubmitLockTTL:   5 * time.Second,
		ListingCacheTTL: time.Second,
		Age:             config.AgeRange{Min: 14, Max: 40},
		Capacity:        config.Capacity{Guard: 1, Forward: 2, Center: 2},
	}
}

func TestRoutes(t *testing.T) {
	s, err := New(testConfig())
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	defer s.redis.Close()

	for _, tc := range []struct {
		method, path string
		want         int
	}{
		{http.MethodGet, "/healthz", http.StatusOK},
		{http.MethodGet, "/static/site.css", http.StatusOK},
		{http.MethodGet, "/login", http.StatusOK},
		{http.MethodGet, "/signups", http.StatusSeeOther},
		{http.MethodGet, "/nope", http.StatusNotFound},
	} {
		rec := httptest.NewRecorder()
		s.router.ServeHTTP(rec, httptest.NewRequest(tc.method, tc.path, nil))
		if rec.Code != tc.want {
			t.Errorf("%s %s: status = %d, want %d", tc.method, tc.path, rec.Code, tc.want)
		}
	}
}

func TestServeStopsWithContext(t *testing.T) {
	srv := &http.Server{Addr: "127.0.0.1:0", Handler: http.NotFoundHandler()}
	ctx, cancel := context.WithCancel(context.Background())

	workerDone := make(chan struct{})
	done := make(chan error, 1)
	go func() {
		done <- serve(ctx, srv, func(ctx context.Context) error {
			<-ctx.Done()
			close(workerDone)
			return nil
		})
	}()

	time.Sleep(50 * time.Millisecond)
	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("serve() error = %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("serve did not stop")
	}
	select {
	case <-workerDone:
	default:
		t.Fatal("worker was not stopped")
	}
}
