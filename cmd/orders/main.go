package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/jyotishankarp/minishop/internal/messaging"
	"github.com/jyotishankarp/minishop/internal/orders"
	"github.com/jyotishankarp/minishop/internal/telemetry"
	"github.com/jyotishankarp/minishop/internal/validation"
)

func main() {
	ctx := context.Background()
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	shutdownTracer, err := telemetry.InitTracerProvider(ctx, "orders", "0.1.0")
	if err != nil {
		logger.Error("failed to initialize tracer", "error", err)
		os.Exit(1)
	}
	defer func() { _ = shutdownTracer(ctx) }()

	productsServiceURL := os.Getenv("PRODUCTS_SERVICE_URL")
	if productsServiceURL == "" {
		logger.Error("PRODUCTS_SERVICE_URL is required")
		os.Exit(1)
	}

	var producer *messaging.Producer
	if kafkaBrokers := os.Getenv("KAFKA_BROKERS"); kafkaBrokers != "" {
		brokers := strings.Split(kafkaBrokers, ",")
		producer = messaging.NewProducer(brokers, "order.created")
		defer func() { _ = producer.Close() }()
	}

	httpClient := &http.Client{
		Timeout:   10 * time.Second,
		Transport: otelhttp.NewTransport(http.DefaultTransport),
	}

	store := orders.NewStore()
	productClient := orders.NewProductClient(productsServiceURL, httpClient)
	service := orders.NewService(store, productClient, producer, logger)
	handler := orders.NewHandler(service, validation.New(), logger)

	mux := http.NewServeMux()
	handler.Routes(mux)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8082"
	}

	server := &http.Server{
		Addr:         ":" + port,
		Handler:      mux,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("starting orders service", "port", port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	logger.Info("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Error("shutdown error", "error", err)
		os.Exit(1)
	}
}
