package validation

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestCheck_CreateOrderRequest(t *testing.T) {
	v := New()

	t.Run("valid payload passes", func(t *testing.T) {
		req := CreateOrderRequest{Items: []OrderItemRequest{{ProductID: "1", Quantity: 2}}}
		if err := Check(v, req); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})

	t.Run("missing items", func(t *testing.T) {
		err := Check(v, CreateOrderRequest{})
		var verrs Errors
		if !errors.As(err, &verrs) {
			t.Fatalf("expected Errors, got %v", err)
		}
		if verrs["items"] == "" {
			t.Errorf("expected message for items, got %v", verrs)
		}
	})

	t.Run("empty items", func(t *testing.T) {
		err := Check(v, CreateOrderRequest{Items: []OrderItemRequest{}})
		var verrs Errors
		if !errors.As(err, &verrs) {
			t.Fatalf("expected Errors, got %v", err)
		}
	})

	t.Run("nested item failures carry the item path", func(t *testing.T) {
		err := Check(v, CreateOrderRequest{Items: []OrderItemRequest{
			{ProductID: "1", Quantity: 1},
			{ProductID: "", Quantity: 0},
		}})
		var verrs Errors
		if !errors.As(err, &verrs) {
			t.Fatalf("expected Errors, got %v", err)
		}
		if verrs["items[1].productId"] == "" {
			t.Errorf("expected message for items[1].productId, got %v", verrs)
		}
		if verrs["items[1].quantity"] == "" {
			t.Errorf("expected message for items[1].quantity, got %v", verrs)
		}
	})

	t.Run("negative quantity", func(t *testing.T) {
		err := Check(v, CreateOrderRequest{Items: []OrderItemRequest{{ProductID: "1", Quantity: -1}}})
		if err == nil {
			t.Fatal("expected error")
		}
	})
}

func TestCheck_UpdateOrderRequest(t *testing.T) {
	v := New()

	for _, status := range []string{"pending", "confirmed", "shipped", "delivered", "cancelled"} {
		if err := Check(v, UpdateOrderRequest{Status: status}); err != nil {
			t.Errorf("status %s: unexpected error: %v", status, err)
		}
	}

	err := Check(v, UpdateOrderRequest{Status: "returned"})
	var verrs Errors
	if !errors.As(err, &verrs) {
		t.Fatalf("expected Errors, got %v", err)
	}
	if !strings.Contains(verrs["status"], "one of") {
		t.Errorf("expected oneof message, got %q", verrs["status"])
	}
}

func TestDecodeAndValidate(t *testing.T) {
	v := New()

	t.Run("malformed json", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodPost, "/orders", strings.NewReader(`{`))
		var out CreateOrderRequest
		err := DecodeAndValidate(v, r, &out)
		var verrs Errors
		if !errors.As(err, &verrs) {
			t.Fatalf("expected Errors, got %v", err)
		}
		if verrs["body"] == "" {
			t.Errorf("expected body message, got %v", verrs)
		}
	})

	t.Run("valid body decodes", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodPost, "/orders",
			strings.NewReader(`{"items":[{"productId":"7","quantity":3}]}`))
		var out CreateOrderRequest
		if err := DecodeAndValidate(v, r, &out); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if out.Items[0].ProductID != "7" || out.Items[0].Quantity != 3 {
			t.Errorf("unexpected decode result: %+v", out)
		}
	})
}

func TestErrors_Error(t *testing.T) {
	e := Errors{"b": "second", "a": "first"}
	if got := e.Error(); got != "a: first; b: second" {
		t.Errorf("unexpected message: %q", got)
	}
}
