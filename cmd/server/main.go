package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/pitchside/fieldbook-gateway/internal/app"
	"github.com/pitchside/fieldbook-gateway/internal/config"
	"github.com/pitchside/fieldbook-gateway/internal/notify"
	"github.com/pitchside/fieldbook-gateway/internal/upstream"
)

func main() {
	// For receiving Ctrl+C / SIGTERM
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Load config
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	// Upstream booking platform client
	upstreamClient := upstream.NewHTTPClient(cfg.UpstreamBaseURL, &http.Client{
		Timeout: cfg.UpstreamTimeout,
	})

	// Event publisher (optional)
	events := notify.NewNoopPublisher()
	if cfg.AMQPURL != "" {
		events, err = notify.NewAMQPPublisher(cfg.AMQPURL, cfg.AMQPExchange)
		if err != nil {
			log.Fatalf("failed to connect to event broker: %v", err)
		}
	}
	defer events.Close()

	// Init app container
	container := app.NewContainer(app.Config{
		IsProduction:         cfg.IsProduction,
		ProdOrigins:          cfg.ProdOrigins,
		Upstream:             upstreamClient,
		Events:               events,
		JWTSecret:            cfg.JWTSecret,
		JWTTTL:               cfg.JWTAccessTokenTTL,
		PaymentDeadline:      cfg.PaymentDeadline,
		ExpiryTick:           cfg.ExpiryTick,
		ReloadDebounce:       cfg.ReloadDebounce,
		ReloadGrace:          cfg.ReloadGrace,
		MatchRequestPageSize: cfg.MatchRequestPageSize,
	})

	// Start the payment-expiry monitor
	container.ViewService.Monitor().Start()
	defer container.ViewService.Monitor().Stop()

	// Use http.Server for graceful shutdown
	server := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: container.Router,
	}

	// Run server in separate goroutine
	go func() {
		log.Printf("server running on %s", cfg.HTTPAddr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	// Wait for Ctrl+C
	<-ctx.Done()
	log.Println("shutdown signal received")

	// Create a shutdown context with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	// Shutdown HTTP server
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("server forced to shutdown: %v", err)
	}

	log.Println("server exited gracefully")
}
