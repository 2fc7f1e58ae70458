package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"ecoshop/internal/config"
	"ecoshop/internal/events"
	"ecoshop/internal/handler"
	"ecoshop/internal/metrics"
	"ecoshop/internal/service"
	"ecoshop/internal/store"
	"ecoshop/internal/worker"
)

func main() {
	cfg := config.New()

	// State
	hash, err := service.HashPassword(cfg.DemoPassword)
	if err != nil {
		slog.Error("failed to hash demo password", "error", err)
		os.Exit(1)
	}
	st := store.New()
	if err := store.Seed(st, hash); err != nil {
		slog.Error("failed to seed store", "error", err)
		os.Exit(1)
	}

	// Metrics
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(reg)

	// Events
	outbox := events.NewOutbox(events.DefaultOutboxCapacity)
	var publisher events.Publisher = events.LogPublisher{}
	if len(cfg.KafkaBrokers) > 0 {
		publisher = events.NewBreakerPublisher("kafka",
			events.NewKafkaPublisher(cfg.KafkaBrokers, cfg.KafkaTopic), 30*time.Second)
		slog.Info("publishing events to kafka", "brokers", cfg.KafkaBrokers, "topic", cfg.KafkaTopic)
	}

	// Services
	carts := service.NewCartService()
	processor := service.NewOrderProcessor(st, carts, service.RandomBonus{}, outbox, m)
	svc := handler.Services{
		Store:       st,
		Auth:        service.NewAuthService(st),
		Catalog:     service.NewCatalogService(),
		Carts:       carts,
		Checkout:    service.NewCheckoutService(carts, processor),
		Balance:     service.NewBalanceService(st),
		Donations:   service.NewDonationService(st, outbox, m),
		Impact:      service.NewImpactService(st),
		Marketplace: service.NewMarketplaceService(),
	}

	// Worker
	dispatchWorker := worker.NewDispatchWorker(outbox, publisher, m, cfg.DispatchInterval, cfg.DispatchBatchSize)

	srv := &http.Server{
		Addr:         cfg.RunAddress,
		Handler:      handler.NewRouter(svc, cfg.JWTSecret, metrics.Handler(reg)),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	ctx, cancel := context.WithCancel(context.Background())
	workerDone := make(chan struct{})
	go func() {
		defer close(workerDone)
		dispatchWorker.Start(ctx)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	slog.Info("starting server", "addr", cfg.RunAddress)

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server failed", "error", err)
		}
	}()

	<-quit
	slog.Info("shutting down...")

	ctxShut, cancelShut := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancelShut()

	if err := srv.Shutdown(ctxShut); err != nil {
		slog.Error("server shutdown failed", "error", err)
	}

	cancel() // stop worker, flushing what is left
	<-workerDone

	if err := publisher.Close(); err != nil {
		slog.Error("publisher close failed", "error", err)
	}

	slog.Info("server stopped")
}
