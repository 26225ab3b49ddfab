package validation

// CreateOrderRequest is the payload for POST /orders. The gateway checks it
// before dispatching and the orders service checks it again on arrival; both
// use the same definition.
type CreateOrderRequest struct {
	Items []OrderItemRequest `json:"items" validate:"required,min=1,dive"`
}

// OrderItemRequest is a single requested line item.
type OrderItemRequest struct {
	ProductID string `json:"productId" validate:"required"`
	Quantity  int    `json:"quantity" validate:"required,min=1"`
}

// UpdateOrderRequest is the payload for PUT /orders/{id}. Status is the only
// field an order exposes for mutation after creation.
type UpdateOrderRequest struct {
	Status string `json:"status" validate:"required,oneof=pending confirmed shipped delivered cancelled"`
}
