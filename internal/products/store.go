package products

import (
	"strconv"
	"sync"
	"time"

	"github.com/jyotishankarp/minishop/internal/domain"
)

// Store owns the product collection. All data lives in process memory and is
// lost on restart. A single mutex serializes every operation, so the store
// behaves as if it handled one request at a time.
type Store struct {
	mu        sync.Mutex
	products  []domain.Product
	idCounter int
}

func NewStore() *Store {
	return &Store{idCounter: 1}
}

// ProductFields carries the caller-supplied attributes of a product.
// Bounds checking happens at the HTTP boundary, not here.
type ProductFields struct {
	Name        string
	Description string
	Price       float64
	Stock       int
	Category    string
}

// ProductPatch carries a partial update; nil fields are left unchanged.
type ProductPatch struct {
	Name        *string
	Description *string
	Price       *float64
	Stock       *int
	Category    *string
}

func (s *Store) Create(fields ProductFields) domain.Product {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now().UTC()
	product := domain.Product{
		ID:          strconv.Itoa(s.idCounter),
		Name:        fields.Name,
		Description: fields.Description,
		Price:       fields.Price,
		Stock:       fields.Stock,
		Category:    fields.Category,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	s.idCounter++
	s.products = append(s.products, product)
	return product
}

func (s *Store) Get(id string) (domain.Product, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, p := range s.products {
		if p.ID == id {
			return p, true
		}
	}
	return domain.Product{}, false
}

// List returns all products in insertion order.
func (s *Store) List() []domain.Product {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]domain.Product, len(s.products))
	copy(out, s.products)
	return out
}

func (s *Store) Update(id string, patch ProductPatch) (domain.Product, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.products {
		if s.products[i].ID != id {
			continue
		}
		p := &s.products[i]
		if patch.Name != nil {
			p.Name = *patch.Name
		}
		if patch.Description != nil {
			p.Description = *patch.Description
		}
		if patch.Price != nil {
			p.Price = *patch.Price
		}
		if patch.Stock != nil {
			p.Stock = *patch.Stock
		}
		if patch.Category != nil {
			p.Category = *patch.Category
		}
		p.UpdatedAt = time.Now().UTC()
		return *p, true
	}
	return domain.Product{}, false
}

func (s *Store) Remove(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.products {
		if s.products[i].ID == id {
			s.products = append(s.products[:i], s.products[i+1:]...)
			return true
		}
	}
	return false
}

// GetByIDs returns the products whose ids appear in ids, in store order.
// Unknown ids are dropped silently, so the result may be shorter than the
// request; callers that care must compare lengths.
func (s *Store) GetByIDs(ids []string) []domain.Product {
	s.mu.Lock()
	defer s.mu.Unlock()

	wanted := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		wanted[id] = struct{}{}
	}

	out := make([]domain.Product, 0, len(wanted))
	for _, p := range s.products {
		if _, ok := wanted[p.ID]; ok {
			out = append(out, p)
		}
	}
	return out
}

// Len reports the number of stored products.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.products)
}
