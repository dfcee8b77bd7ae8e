package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"pizzeria-system/internal/config"
	"pizzeria-system/internal/database"
	"pizzeria-system/internal/logger"
	"pizzeria-system/internal/messaging"
	"pizzeria-system/internal/services/ordering"
	"pizzeria-system/internal/storage"
)

func main() {
	var (
		mode       = flag.String("mode", "server", "Service mode (server, notification-subscriber)")
		port       = flag.Int("port", 0, "HTTP port (overrides config)")
		configPath = flag.String("config", "config.yaml", "Path to the configuration file")
	)
	flag.Parse()

	log := logger.New(*mode)
	requestID := logger.GenerateRequestID()

	cfg, err := config.Load(*configPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			log.Info("config_defaulted", "No config file found, using defaults", requestID, map[string]interface{}{
				"path": *configPath,
			})
			cfg = config.Default()
		} else {
			fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
			os.Exit(1)
		}
	}
	if *port != 0 {
		cfg.Server.Port = *port
	}

	// Graceful shutdown on SIGINT/SIGTERM.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-sigChan
		log.Info("graceful_shutdown", "Received shutdown signal", requestID, nil)
		cancel()
	}()

	switch *mode {
	case "server":
		if err := runServer(ctx, cfg, log); err != nil {
			log.Error("service_failed", "Server failed", requestID, err, nil)
			os.Exit(1)
		}
	case "notification-subscriber":
		if err := runNotificationSubscriber(ctx, cfg, log); err != nil && !errors.Is(err, context.Canceled) {
			log.Error("service_failed", "Notification subscriber failed", requestID, err, nil)
			os.Exit(1)
		}
	default:
		log.Error("validation_failed", fmt.Sprintf("Unknown mode: %s", *mode), requestID, nil, nil)
		os.Exit(1)
	}

	log.Info("service_stopped", "Service stopped gracefully", requestID, nil)
}

// runServer wires the snapshot store, the optional reporting mirror and
// event publisher, and serves the HTTP API.
func runServer(ctx context.Context, cfg *config.Config, log *logger.Logger) error {
	requestID := logger.GenerateRequestID()

	store := storage.NewStore(cfg.Storage.OrdersFile, cfg.Storage.CatalogFile, log)

	var notifier ordering.Notifier
	if cfg.RabbitMQ.Enabled {
		conn, err := messaging.New(cfg, log)
		if err != nil {
			return fmt.Errorf("failed to initialize messaging: %w", err)
		}
		defer conn.Close()
		notifier = messaging.NewPublisher(conn, log)
		log.Info("rabbitmq_connected", "Connected to RabbitMQ", requestID, nil)
	}

	service := ordering.NewService(store, notifier, log)

	mirror, err := database.NewMirror(cfg.SQLite.Path, log)
	if err != nil {
		return fmt.Errorf("failed to open reporting mirror: %w", err)
	}
	defer mirror.Close()

	handler := ordering.NewHandler(service, mirror, log)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      handler.SetupRoutes(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info("service_started", fmt.Sprintf("Pizzeria server started on port %d", cfg.Server.Port), requestID, map[string]interface{}{
			"port":         cfg.Server.Port,
			"orders_file":  cfg.Storage.OrdersFile,
			"catalog_file": cfg.Storage.CatalogFile,
		})
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("server_failed", "HTTP server failed", requestID, err, nil)
		}
	}()

	<-ctx.Done()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	return server.Shutdown(shutdownCtx)
}

// runNotificationSubscriber consumes lifecycle events and logs them, the
// counter side of the event publisher.
func runNotificationSubscriber(ctx context.Context, cfg *config.Config, log *logger.Logger) error {
	requestID := logger.GenerateRequestID()

	conn, err := messaging.New(cfg, log)
	if err != nil {
		return fmt.Errorf("failed to initialize messaging: %w", err)
	}
	defer conn.Close()

	log.Info("service_started", "Notification subscriber started", requestID, nil)

	consumer := messaging.NewConsumer(conn, log)
	return consumer.Consume(ctx, func(ctx context.Context, event messaging.Event) error {
		log.Info("event_received", fmt.Sprintf("Order #%d: %s", event.OrderNumber, event.Type), requestID, map[string]interface{}{
			"event_type":   event.Type,
			"order_number": event.OrderNumber,
			"customer":     event.Customer,
			"status":       string(event.Status),
		})
		return nil
	})
}
