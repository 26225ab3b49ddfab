package orders

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"

	"github.com/jyotishankarp/minishop/internal/domain"
	"github.com/jyotishankarp/minishop/internal/messaging"
)

var (
	ErrOrderNotFound     = errors.New("order not found")
	ErrProductsNotFound  = errors.New("one or more products not found")
	ErrInvalidTransition = errors.New("invalid status transition")
)

// ProductLookup is the one capability the aggregator needs from the products
// service: resolve a batch of ids to the products that exist.
type ProductLookup interface {
	GetByIDs(ctx context.Context, ids []string) ([]domain.Product, error)
}

// NewOrderItem is a requested line item before prices are resolved.
type NewOrderItem struct {
	ProductID string
	Quantity  int
}

// Service composes the order store with the products service. Order creation
// resolves every referenced product, snapshots prices into the line items and
// persists all-or-nothing; reads join line items against current product data.
type Service struct {
	store    *Store
	products ProductLookup
	producer *messaging.Producer
	logger   *slog.Logger
	created  metric.Int64Counter
}

// NewService builds the aggregator. producer may be nil, in which case no
// order.created events are published.
func NewService(store *Store, products ProductLookup, producer *messaging.Producer, logger *slog.Logger) *Service {
	meter := otel.Meter("orders")
	created, err := meter.Int64Counter("orders_created_total",
		metric.WithDescription("Number of orders created."),
	)
	if err != nil {
		logger.Error("failed to create orders counter", "error", err)
	}

	return &Service{
		store:    store,
		products: products,
		producer: producer,
		logger:   logger,
		created:  created,
	}
}

// CreateOrder validates the referenced products, computes the total and
// persists the order with status pending. Any lookup failure aborts before
// anything is written.
func (s *Service) CreateOrder(ctx context.Context, items []NewOrderItem) (domain.Order, error) {
	distinct := distinctProductIDs(items)

	products, err := s.products.GetByIDs(ctx, distinct)
	if err != nil {
		return domain.Order{}, fmt.Errorf("resolve products: %w", err)
	}
	if len(products) != len(distinct) {
		return domain.Order{}, ErrProductsNotFound
	}

	byID := make(map[string]domain.Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}

	orderItems := make([]domain.OrderItem, 0, len(items))
	var total float64
	for _, item := range items {
		// An unresolved id contributes 0; unreachable while the count
		// check above holds.
		var price float64
		if p, ok := byID[item.ProductID]; ok {
			price = p.Price
		}
		orderItems = append(orderItems, domain.OrderItem{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			Price:     price,
		})
		total += price * float64(item.Quantity)
	}

	order := s.store.Create(orderItems, total)

	if s.created != nil {
		s.created.Add(ctx, 1)
	}

	if s.producer != nil {
		event := domain.OrderCreatedEvent{
			OrderID:    order.ID,
			Items:      order.Items,
			TotalPrice: order.TotalPrice,
			Timestamp:  order.CreatedAt,
		}
		if err := s.producer.Publish(ctx, order.ID, event); err != nil {
			s.logger.Error("failed to publish order created event", "error", err, "order_id", order.ID)
		}
	}

	return order, nil
}

// GetOrderWithProducts returns an order with each line item joined against
// the current product record. Items whose product has since been deleted
// keep a nil product rather than failing the read.
func (s *Service) GetOrderWithProducts(ctx context.Context, id string) (domain.OrderWithProducts, error) {
	order, ok := s.store.Get(id)
	if !ok {
		return domain.OrderWithProducts{}, ErrOrderNotFound
	}

	ids := make([]string, 0, len(order.Items))
	for _, item := range order.Items {
		ids = append(ids, item.ProductID)
	}

	products, err := s.products.GetByIDs(ctx, ids)
	if err != nil {
		return domain.OrderWithProducts{}, fmt.Errorf("resolve products: %w", err)
	}

	return enrich(order, indexByID(products)), nil
}

// ListOrdersWithProducts enriches every order using a single batch lookup
// over the union of referenced product ids, regardless of order count.
func (s *Service) ListOrdersWithProducts(ctx context.Context) ([]domain.OrderWithProducts, error) {
	orders := s.store.List()

	seen := make(map[string]struct{})
	var ids []string
	for _, order := range orders {
		for _, item := range order.Items {
			if _, ok := seen[item.ProductID]; ok {
				continue
			}
			seen[item.ProductID] = struct{}{}
			ids = append(ids, item.ProductID)
		}
	}

	byID := map[string]domain.Product{}
	if len(ids) > 0 {
		products, err := s.products.GetByIDs(ctx, ids)
		if err != nil {
			return nil, fmt.Errorf("resolve products: %w", err)
		}
		byID = indexByID(products)
	}

	out := make([]domain.OrderWithProducts, 0, len(orders))
	for _, order := range orders {
		out = append(out, enrich(order, byID))
	}
	return out, nil
}

// UpdateOrderStatus moves an order along the status state machine.
func (s *Service) UpdateOrderStatus(id string, status domain.OrderStatus) (domain.Order, error) {
	order, ok := s.store.Get(id)
	if !ok {
		return domain.Order{}, ErrOrderNotFound
	}

	if !domain.CanTransition(order.Status, status) {
		return domain.Order{}, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, order.Status, status)
	}

	updated, ok := s.store.UpdateStatus(id, status)
	if !ok {
		return domain.Order{}, ErrOrderNotFound
	}
	return updated, nil
}

// RemoveOrder deletes an order. Referenced products are untouched.
func (s *Service) RemoveOrder(id string) bool {
	return s.store.Remove(id)
}

func distinctProductIDs(items []NewOrderItem) []string {
	seen := make(map[string]struct{}, len(items))
	out := make([]string, 0, len(items))
	for _, item := range items {
		if _, ok := seen[item.ProductID]; ok {
			continue
		}
		seen[item.ProductID] = struct{}{}
		out = append(out, item.ProductID)
	}
	return out
}

func indexByID(products []domain.Product) map[string]domain.Product {
	byID := make(map[string]domain.Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}
	return byID
}

func enrich(order domain.Order, products map[string]domain.Product) domain.OrderWithProducts {
	items := make([]domain.OrderItemWithProduct, 0, len(order.Items))
	for _, item := range order.Items {
		enriched := domain.OrderItemWithProduct{OrderItem: item}
		if p, ok := products[item.ProductID]; ok {
			enriched.Product = &p
		}
		items = append(items, enriched)
	}
	return domain.OrderWithProducts{
		ID:         order.ID,
		Items:      items,
		TotalPrice: order.TotalPrice,
		Status:     order.Status,
		CreatedAt:  order.CreatedAt,
		UpdatedAt:  order.UpdatedAt,
	}
}
