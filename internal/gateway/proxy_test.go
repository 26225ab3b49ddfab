package gateway

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestServiceProxy_ForwardRequest(t *testing.T) {
	t.Run("forwards method, path and content type", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodPut {
				t.Errorf("expected PUT, got %s", r.Method)
			}
			if r.URL.Path != "/products/1" {
				t.Errorf("expected /products/1, got %s", r.URL.Path)
			}
			if r.Header.Get("Content-Type") != "application/json" {
				t.Errorf("expected application/json, got %s", r.Header.Get("Content-Type"))
			}
			body, _ := io.ReadAll(r.Body)
			if string(body) != `{"price":5}` {
				t.Errorf("unexpected body: %s", body)
			}
			w.WriteHeader(http.StatusOK)
		}))
		defer server.Close()

		proxy := NewServiceProxy(server.URL, server.Client())
		req := httptest.NewRequest(http.MethodPut, "/products/1", strings.NewReader(`{"price":5}`))
		req.Header.Set("Content-Type", "application/json")

		resp, err := proxy.ForwardRequest(context.Background(), req, "/products/1")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		defer func() { _ = resp.Body.Close() }()

		if resp.StatusCode != http.StatusOK {
			t.Errorf("expected status 200, got %d", resp.StatusCode)
		}
	})

	t.Run("respects context cancellation", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
		}))
		defer server.Close()

		proxy := NewServiceProxy(server.URL, server.Client())
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		req := httptest.NewRequest(http.MethodGet, "/products", nil)
		if _, err := proxy.ForwardRequest(ctx, req, "/products"); err == nil {
			t.Error("expected error for cancelled context")
		}
	})
}

func TestServiceProxy_Send(t *testing.T) {
	t.Run("deadline on the context reaches the downstream call", func(t *testing.T) {
		release := make(chan struct{})
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			select {
			case <-r.Context().Done():
			case <-release:
			}
		}))
		defer server.Close()
		defer close(release)

		proxy := NewServiceProxy(server.URL, server.Client())
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Millisecond)
		defer cancel()

		start := time.Now()
		_, err := proxy.Send(ctx, http.MethodPost, "/orders", "application/json", strings.NewReader(`{}`))
		if err == nil {
			t.Fatal("expected deadline error")
		}
		if !errors.Is(err, context.DeadlineExceeded) {
			t.Fatalf("expected deadline exceeded, got %v", err)
		}
		if time.Since(start) > time.Second {
			t.Error("call did not return promptly after the deadline")
		}
	})
}
