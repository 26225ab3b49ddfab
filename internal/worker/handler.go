package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"

	"github.com/jyotishankarp/minishop/internal/domain"
)

// NotificationHandler consumes order.created events and emits a customer
// notification. It only observes: store state is never touched, so an order
// stays pending until someone updates it through the API.
type NotificationHandler struct {
	logger   *slog.Logger
	notified metric.Int64Counter
}

func NewNotificationHandler(logger *slog.Logger) *NotificationHandler {
	meter := otel.Meter("worker")
	notified, err := meter.Int64Counter("order_notifications_total",
		metric.WithDescription("Number of order confirmation notifications emitted."),
	)
	if err != nil {
		logger.Error("failed to create notifications counter", "error", err)
	}

	return &NotificationHandler{
		logger:   logger,
		notified: notified,
	}
}

func (h *NotificationHandler) Handle(ctx context.Context, payload []byte) error {
	var event domain.OrderCreatedEvent
	if err := json.Unmarshal(payload, &event); err != nil {
		return fmt.Errorf("unmarshal order created event: %w", err)
	}

	var units int
	for _, item := range event.Items {
		units += item.Quantity
	}

	h.logger.Info("order notification",
		"order_id", event.OrderID,
		"items", len(event.Items),
		"units", units,
		"total_price", event.TotalPrice,
		"created_at", event.Timestamp,
	)

	if h.notified != nil {
		h.notified.Add(ctx, 1)
	}

	return nil
}
