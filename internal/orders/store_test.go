package orders

import (
	"testing"

	"github.com/jyotishankarp/minishop/internal/domain"
)

func testItems() []domain.OrderItem {
	return []domain.OrderItem{
		{ProductID: "1", Quantity: 2, Price: 10},
		{ProductID: "2", Quantity: 1, Price: 20},
	}
}

func TestStore_Create(t *testing.T) {
	store := NewStore()

	first := store.Create(testItems(), 40)
	second := store.Create(testItems(), 40)

	if first.ID == second.ID {
		t.Errorf("expected distinct ids, both are %s", first.ID)
	}
	if first.Status != domain.OrderStatusPending {
		t.Errorf("expected status pending, got %s", first.Status)
	}
	if first.TotalPrice != 40 {
		t.Errorf("expected total 40, got %v", first.TotalPrice)
	}
	if first.CreatedAt.IsZero() {
		t.Error("expected createdAt to be set")
	}
}

func TestStore_UpdateStatus(t *testing.T) {
	store := NewStore()
	created := store.Create(testItems(), 40)

	updated, ok := store.UpdateStatus(created.ID, domain.OrderStatusConfirmed)
	if !ok {
		t.Fatal("expected update to succeed")
	}
	if updated.Status != domain.OrderStatusConfirmed {
		t.Errorf("expected status confirmed, got %s", updated.Status)
	}

	if _, ok := store.UpdateStatus("999", domain.OrderStatusConfirmed); ok {
		t.Error("expected update on unknown id to report not found")
	}
}

func TestStore_Remove_Idempotent(t *testing.T) {
	store := NewStore()
	created := store.Create(testItems(), 40)

	if !store.Remove(created.ID) {
		t.Error("expected first remove to return true")
	}
	if store.Remove(created.ID) {
		t.Error("expected second remove to return false")
	}
}

func TestStore_List_InsertionOrder(t *testing.T) {
	store := NewStore()
	a := store.Create(testItems(), 40)
	b := store.Create(testItems(), 40)

	list := store.List()
	if len(list) != 2 {
		t.Fatalf("expected 2 orders, got %d", len(list))
	}
	if list[0].ID != a.ID || list[1].ID != b.ID {
		t.Error("expected orders in insertion order")
	}
}
