package test

import (
	"context"
	"testing"

	"github.com/testcontainers/testcontainers-go/modules/kafka"
)

// SetupKafka starts a throwaway Kafka broker for the event-pipeline tests
// and returns its bootstrap addresses.
func SetupKafka(ctx context.Context, t *testing.T) ([]string, func()) {
	t.Helper()

	container, err := kafka.Run(ctx,
		"confluentinc/confluent-local:7.8.0",
		kafka.WithClusterID("test-cluster"),
	)
	if err != nil {
		t.Fatalf("failed to start kafka container: %v", err)
	}

	brokers, err := container.Brokers(ctx)
	if err != nil {
		_ = container.Terminate(ctx)
		t.Fatalf("failed to get kafka brokers: %v", err)
	}

	cleanup := func() {
		if err := container.Terminate(ctx); err != nil {
			t.Logf("failed to terminate kafka container: %v", err)
		}
	}

	return brokers, cleanup
}
