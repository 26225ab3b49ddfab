package domain

import "time"

type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusConfirmed OrderStatus = "confirmed"
	OrderStatusShipped   OrderStatus = "shipped"
	OrderStatusDelivered OrderStatus = "delivered"
	OrderStatusCancelled OrderStatus = "cancelled"
)

// orderTransitions holds the allowed status transitions. Delivered and
// cancelled are terminal.
var orderTransitions = map[OrderStatus][]OrderStatus{
	OrderStatusPending:   {OrderStatusConfirmed, OrderStatusCancelled},
	OrderStatusConfirmed: {OrderStatusShipped, OrderStatusCancelled},
	OrderStatusShipped:   {OrderStatusDelivered},
}

// ValidStatus reports whether s is one of the known order statuses.
func ValidStatus(s OrderStatus) bool {
	switch s {
	case OrderStatusPending, OrderStatusConfirmed, OrderStatusShipped,
		OrderStatusDelivered, OrderStatusCancelled:
		return true
	}
	return false
}

// CanTransition reports whether an order may move from one status to the next.
func CanTransition(from, to OrderStatus) bool {
	for _, next := range orderTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

type OrderItem struct {
	ProductID string  `json:"productId"`
	Quantity  int     `json:"quantity"`
	Price     float64 `json:"price"`
}

type Order struct {
	ID         string      `json:"id"`
	Items      []OrderItem `json:"items"`
	TotalPrice float64     `json:"totalPrice"`
	Status     OrderStatus `json:"status"`
	CreatedAt  time.Time   `json:"createdAt"`
	UpdatedAt  time.Time   `json:"updatedAt"`
}

// OrderItemWithProduct is an order line joined with the current product
// record. Product is nil when the referenced product no longer exists.
type OrderItemWithProduct struct {
	OrderItem
	Product *Product `json:"product,omitempty"`
}

// OrderWithProducts is the read model returned by the orders service:
// an order whose items carry the products they reference. It is synthesized
// on demand and never stored.
type OrderWithProducts struct {
	ID         string                 `json:"id"`
	Items      []OrderItemWithProduct `json:"items"`
	TotalPrice float64                `json:"totalPrice"`
	Status     OrderStatus            `json:"status"`
	CreatedAt  time.Time              `json:"createdAt"`
	UpdatedAt  time.Time              `json:"updatedAt"`
}
