package orders

import (
	"strconv"
	"sync"
	"time"

	"github.com/jyotishankarp/minishop/internal/domain"
)

// Store owns the order collection. Like the product store it is in-process
// memory behind a single mutex; ids come from an incrementing counter that is
// separate from the product counter.
type Store struct {
	mu        sync.Mutex
	orders    []domain.Order
	idCounter int
}

func NewStore() *Store {
	return &Store{idCounter: 1}
}

// Create persists a new order with status pending. The caller has already
// resolved the line item prices and the total.
func (s *Store) Create(items []domain.OrderItem, totalPrice float64) domain.Order {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now().UTC()
	order := domain.Order{
		ID:         strconv.Itoa(s.idCounter),
		Items:      items,
		TotalPrice: totalPrice,
		Status:     domain.OrderStatusPending,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	s.idCounter++
	s.orders = append(s.orders, order)
	return order
}

func (s *Store) Get(id string) (domain.Order, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, o := range s.orders {
		if o.ID == id {
			return o, true
		}
	}
	return domain.Order{}, false
}

// List returns all orders in insertion order.
func (s *Store) List() []domain.Order {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]domain.Order, len(s.orders))
	copy(out, s.orders)
	return out
}

// UpdateStatus sets the status of an order. Status is the only field that
// may change after creation.
func (s *Store) UpdateStatus(id string, status domain.OrderStatus) (domain.Order, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.orders {
		if s.orders[i].ID == id {
			s.orders[i].Status = status
			s.orders[i].UpdatedAt = time.Now().UTC()
			return s.orders[i], true
		}
	}
	return domain.Order{}, false
}

func (s *Store) Remove(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.orders {
		if s.orders[i].ID == id {
			s.orders = append(s.orders[:i], s.orders[i+1:]...)
			return true
		}
	}
	return false
}

// Len reports the number of stored orders.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.orders)
}
