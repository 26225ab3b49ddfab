package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/jyotishankarp/minishop/internal/messaging"
	"github.com/jyotishankarp/minishop/internal/worker"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	kafkaBrokers := os.Getenv("KAFKA_BROKERS")
	if kafkaBrokers == "" {
		logger.Error("KAFKA_BROKERS environment variable is required")
		os.Exit(1)
	}

	brokers := strings.Split(kafkaBrokers, ",")
	consumer := messaging.NewConsumer(brokers, "order.created", "notification-worker")
	defer func() { _ = consumer.Close() }()

	notificationHandler := worker.NewNotificationHandler(logger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		stop := make(chan os.Signal, 1)
		signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
		<-stop
		logger.Info("shutting down")
		cancel()
	}()

	logger.Info("starting notification worker", "brokers", brokers)

	if err := consumer.Consume(ctx, notificationHandler.Handle); err != nil {
		if ctx.Err() == context.Canceled {
			logger.Info("consumer stopped")
			return
		}
		logger.Error("consumer error", "error", err)
		os.Exit(1)
	}
}
