package orders

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/jyotishankarp/minishop/internal/domain"
	"github.com/jyotishankarp/minishop/internal/validation"
)

func newHandlerServer(t *testing.T, lookup ProductLookup) (*httptest.Server, *Store) {
	t.Helper()
	store := NewStore()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	service := NewService(store, lookup, nil, logger)
	handler := NewHandler(service, validation.New(), logger)

	mux := http.NewServeMux()
	handler.Routes(mux)
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server, store
}

func TestHandler_HandleCreate(t *testing.T) {
	t.Run("creates order from valid payload", func(t *testing.T) {
		server, _ := newHandlerServer(t, twoProducts())

		resp, err := http.Post(server.URL+"/orders", "application/json",
			strings.NewReader(`{"items":[{"productId":"1","quantity":2},{"productId":"2","quantity":1}]}`))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		defer func() { _ = resp.Body.Close() }()

		if resp.StatusCode != http.StatusCreated {
			t.Fatalf("expected status 201, got %d", resp.StatusCode)
		}

		var order domain.Order
		if err := json.NewDecoder(resp.Body).Decode(&order); err != nil {
			t.Fatalf("failed to decode response: %v", err)
		}
		if order.TotalPrice != 40 {
			t.Errorf("expected total 40, got %v", order.TotalPrice)
		}
		if order.Status != domain.OrderStatusPending {
			t.Errorf("expected status pending, got %s", order.Status)
		}
	})

	t.Run("empty items rejected before any store write", func(t *testing.T) {
		server, store := newHandlerServer(t, twoProducts())

		resp, err := http.Post(server.URL+"/orders", "application/json", strings.NewReader(`{"items":[]}`))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		defer func() { _ = resp.Body.Close() }()

		if resp.StatusCode != http.StatusBadRequest {
			t.Fatalf("expected status 400, got %d", resp.StatusCode)
		}
		if store.Len() != 0 {
			t.Errorf("expected no persisted orders, got %d", store.Len())
		}
	})

	t.Run("zero quantity rejected", func(t *testing.T) {
		server, store := newHandlerServer(t, twoProducts())

		resp, err := http.Post(server.URL+"/orders", "application/json",
			strings.NewReader(`{"items":[{"productId":"1","quantity":0}]}`))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		defer func() { _ = resp.Body.Close() }()

		if resp.StatusCode != http.StatusBadRequest {
			t.Fatalf("expected status 400, got %d", resp.StatusCode)
		}
		if store.Len() != 0 {
			t.Errorf("expected no persisted orders, got %d", store.Len())
		}
	})

	t.Run("unknown product id is a client error", func(t *testing.T) {
		server, store := newHandlerServer(t, twoProducts())

		resp, err := http.Post(server.URL+"/orders", "application/json",
			strings.NewReader(`{"items":[{"productId":"999","quantity":1}]}`))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		defer func() { _ = resp.Body.Close() }()

		if resp.StatusCode != http.StatusBadRequest {
			t.Fatalf("expected status 400, got %d", resp.StatusCode)
		}

		var body map[string]string
		if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
			t.Fatalf("failed to decode response: %v", err)
		}
		if body["error"] != ErrProductsNotFound.Error() {
			t.Errorf("unexpected error message: %s", body["error"])
		}
		if store.Len() != 0 {
			t.Errorf("expected no persisted orders, got %d", store.Len())
		}
	})

	t.Run("lookup failure is an upstream error", func(t *testing.T) {
		lookup := twoProducts()
		lookup.err = io.ErrUnexpectedEOF
		server, _ := newHandlerServer(t, lookup)

		resp, err := http.Post(server.URL+"/orders", "application/json",
			strings.NewReader(`{"items":[{"productId":"1","quantity":1}]}`))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		defer func() { _ = resp.Body.Close() }()

		if resp.StatusCode != http.StatusBadGateway {
			t.Fatalf("expected status 502, got %d", resp.StatusCode)
		}
	})
}

func TestHandler_HandleGetAndList(t *testing.T) {
	lookup := twoProducts()
	server, store := newHandlerServer(t, lookup)
	created := store.Create([]domain.OrderItem{
		{ProductID: "1", Quantity: 2, Price: 10},
		{ProductID: "2", Quantity: 1, Price: 20},
	}, 40)

	t.Run("get joins products", func(t *testing.T) {
		resp, err := http.Get(server.URL + "/orders/" + created.ID)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		defer func() { _ = resp.Body.Close() }()

		if resp.StatusCode != http.StatusOK {
			t.Fatalf("expected status 200, got %d", resp.StatusCode)
		}

		var order domain.OrderWithProducts
		if err := json.NewDecoder(resp.Body).Decode(&order); err != nil {
			t.Fatalf("failed to decode response: %v", err)
		}
		if len(order.Items) != 2 {
			t.Fatalf("expected 2 items, got %d", len(order.Items))
		}
		if order.Items[0].Product == nil {
			t.Error("expected product data on item")
		}
	})

	t.Run("get unknown returns 404", func(t *testing.T) {
		resp, err := http.Get(server.URL + "/orders/999")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		defer func() { _ = resp.Body.Close() }()

		if resp.StatusCode != http.StatusNotFound {
			t.Fatalf("expected status 404, got %d", resp.StatusCode)
		}
	})

	t.Run("list returns enriched orders", func(t *testing.T) {
		resp, err := http.Get(server.URL + "/orders")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		defer func() { _ = resp.Body.Close() }()

		if resp.StatusCode != http.StatusOK {
			t.Fatalf("expected status 200, got %d", resp.StatusCode)
		}

		var orders []domain.OrderWithProducts
		if err := json.NewDecoder(resp.Body).Decode(&orders); err != nil {
			t.Fatalf("failed to decode response: %v", err)
		}
		if len(orders) != 1 {
			t.Fatalf("expected 1 order, got %d", len(orders))
		}
	})
}

func TestHandler_HandleUpdate(t *testing.T) {
	put := func(t *testing.T, url, body string) *http.Response {
		t.Helper()
		req, _ := http.NewRequest(http.MethodPut, url, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		resp, err := http.DefaultClient.Do(req)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		return resp
	}

	t.Run("valid transition", func(t *testing.T) {
		server, store := newHandlerServer(t, twoProducts())
		created := store.Create(testItems(), 40)

		resp := put(t, server.URL+"/orders/"+created.ID, `{"status":"confirmed"}`)
		defer func() { _ = resp.Body.Close() }()

		if resp.StatusCode != http.StatusOK {
			t.Fatalf("expected status 200, got %d", resp.StatusCode)
		}
	})

	t.Run("unknown status fails validation", func(t *testing.T) {
		server, store := newHandlerServer(t, twoProducts())
		created := store.Create(testItems(), 40)

		resp := put(t, server.URL+"/orders/"+created.ID, `{"status":"misplaced"}`)
		defer func() { _ = resp.Body.Close() }()

		if resp.StatusCode != http.StatusBadRequest {
			t.Fatalf("expected status 400, got %d", resp.StatusCode)
		}
	})

	t.Run("invalid transition returns 409", func(t *testing.T) {
		server, store := newHandlerServer(t, twoProducts())
		created := store.Create(testItems(), 40)

		resp := put(t, server.URL+"/orders/"+created.ID, `{"status":"delivered"}`)
		defer func() { _ = resp.Body.Close() }()

		if resp.StatusCode != http.StatusConflict {
			t.Fatalf("expected status 409, got %d", resp.StatusCode)
		}
	})

	t.Run("unknown order returns 404", func(t *testing.T) {
		server, _ := newHandlerServer(t, twoProducts())

		resp := put(t, server.URL+"/orders/999", `{"status":"confirmed"}`)
		defer func() { _ = resp.Body.Close() }()

		if resp.StatusCode != http.StatusNotFound {
			t.Fatalf("expected status 404, got %d", resp.StatusCode)
		}
	})
}

func TestHandler_HandleRemove(t *testing.T) {
	server, store := newHandlerServer(t, twoProducts())
	created := store.Create(testItems(), 40)

	req, _ := http.NewRequest(http.MethodDelete, server.URL+"/orders/"+created.ID, nil)
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	_ = resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected status 200, got %d", resp.StatusCode)
	}

	resp, err = http.DefaultClient.Do(req.Clone(req.Context()))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	_ = resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected status 404 on second delete, got %d", resp.StatusCode)
	}
}
