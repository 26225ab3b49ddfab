package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/jyotishankarp/minishop/internal/gateway"
	"github.com/jyotishankarp/minishop/internal/telemetry"
	"github.com/jyotishankarp/minishop/internal/validation"
)

func main() {
	ctx := context.Background()
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	shutdownTracer, err := telemetry.InitTracerProvider(ctx, "gateway", "0.1.0")
	if err != nil {
		logger.Error("failed to initialize tracer", "error", err)
		os.Exit(1)
	}
	defer func() { _ = shutdownTracer(ctx) }()

	metricsHandler, shutdownMeter, err := telemetry.InitMeterProvider("gateway", "0.1.0")
	if err != nil {
		logger.Error("failed to initialize meter", "error", err)
		os.Exit(1)
	}
	defer func() { _ = shutdownMeter(ctx) }()

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	productsServiceURL := os.Getenv("PRODUCTS_SERVICE_URL")
	if productsServiceURL == "" {
		logger.Error("PRODUCTS_SERVICE_URL is required")
		os.Exit(1)
	}

	ordersServiceURL := os.Getenv("ORDERS_SERVICE_URL")
	if ordersServiceURL == "" {
		logger.Error("ORDERS_SERVICE_URL is required")
		os.Exit(1)
	}

	orderTimeout := gateway.DefaultOrderTimeout
	if v := os.Getenv("GATEWAY_ORDER_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			logger.Error("invalid GATEWAY_ORDER_TIMEOUT", "error", err, "value", v)
			os.Exit(1)
		}
		orderTimeout = d
	}

	httpClient := &http.Client{
		Transport: otelhttp.NewTransport(http.DefaultTransport),
	}

	productsProxy := gateway.NewServiceProxy(productsServiceURL, httpClient)
	ordersProxy := gateway.NewServiceProxy(ordersServiceURL, httpClient)
	handler := gateway.NewHandler(productsProxy, ordersProxy, validation.New(), orderTimeout, logger)

	mux := http.NewServeMux()
	mux.HandleFunc("POST /products", telemetry.WithHTTPRoute(handler.HandleProducts))
	mux.HandleFunc("GET /products", telemetry.WithHTTPRoute(handler.HandleProducts))
	mux.HandleFunc("GET /products/{id}", telemetry.WithHTTPRoute(handler.HandleProducts))
	mux.HandleFunc("PUT /products/{id}", telemetry.WithHTTPRoute(handler.HandleProducts))
	mux.HandleFunc("DELETE /products/{id}", telemetry.WithHTTPRoute(handler.HandleProducts))
	mux.HandleFunc("POST /orders", telemetry.WithHTTPRoute(handler.HandleCreateOrder))
	mux.HandleFunc("GET /orders", telemetry.WithHTTPRoute(handler.HandleOrders))
	mux.HandleFunc("GET /orders/{id}", telemetry.WithHTTPRoute(handler.HandleOrders))
	mux.HandleFunc("PUT /orders/{id}", telemetry.WithHTTPRoute(handler.HandleOrders))
	mux.HandleFunc("DELETE /orders/{id}", telemetry.WithHTTPRoute(handler.HandleOrders))
	mux.Handle("GET /metrics", metricsHandler)

	server := &http.Server{
		Addr: ":" + port,
		Handler: gateway.WithRequestID(otelhttp.NewHandler(mux, "gateway",
			otelhttp.WithSpanNameFormatter(func(_ string, r *http.Request) string {
				if r.Pattern != "" {
					return r.Pattern
				}
				return r.Method + " " + r.URL.Path
			}),
		)),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	go func() {
		logger.Info("starting gateway", "port", port, "order_timeout", orderTimeout.String())
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
