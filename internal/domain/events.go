package domain

import "time"

type OrderCreatedEvent struct {
	OrderID    string      `json:"order_id"`
	Items      []OrderItem `json:"items"`
	TotalPrice float64     `json:"total_price"`
	Timestamp  time.Time   `json:"timestamp"`
}
