package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/ariefcatur/go-office-rentals.git/internal/booking"
	"github.com/ariefcatur/go-office-rentals.git/internal/config"
	"github.com/ariefcatur/go-office-rentals.git/internal/httpx"
	kafkax "github.com/ariefcatur/go-office-rentals.git/internal/kafka"
	"github.com/ariefcatur/go-office-rentals.git/internal/logger"
	"github.com/ariefcatur/go-office-rentals.git/internal/obs"
	"github.com/ariefcatur/go-office-rentals.git/internal/postgres"
	"github.com/ariefcatur/go-office-rentals.git/internal/redisx"
	"github.com/ariefcatur/go-office-rentals.git/internal/reservations"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		logger.New(logger.Config{}).Fatal("Invalid configuration", "error", err)
	}
	log := logger.New(logger.Config{Level: cfg.LogLevel, Format: cfg.LogFormat, Service: cfg.ServiceName})
	log.Info("Starting API", cfg.LogAttrs()...)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Tracing
	if cfg.OTELEnabled {
		shutdown, err := obs.InitTracer(ctx, obs.TracerConfig{
			ServiceName: cfg.ServiceName,
			Environment: cfg.Environment,
			Endpoint:    cfg.OTELEndpoint,
		})
		if err != nil {
			log.Fatal("Failed to init tracer", "error", err)
		}
		defer func() { _ = shutdown(context.Background()) }()
	}

	// DB
	db, err := postgres.Connect(ctx, cfg.PostgresDSN)
	if err != nil {
		log.Fatal("Failed to connect to Postgres", "error", err)
	}
	defer db.Close()
	if cfg.MigrateOnStart {
		if err := postgres.Migrate(ctx, db); err != nil {
			log.Fatal("Failed to migrate", "error", err)
		}
	}

	// Redis
	rdb := redisx.New(cfg.RedisAddr)
	defer rdb.Close()

	// Kafka producer
	prod := kafkax.NewProducer(cfg.KafkaBrokers, reservations.TopicReservationCreated, 1024, log)
	prod.Start(ctx)

	var locker booking.Locker
	switch cfg.LockBackend {
	case config.LockBackendLocal:
		locker = booking.NewKeyedMutex()
	default:
		locker = redisx.NewLocker(rdb)
	}

	repo := &reservations.Repo{DB: db}
	coord := booking.NewCoordinator(repo, locker, booking.Options{
		LockWait:  cfg.LockWait,
		LockLease: cfg.LockLease,
		Publisher: kafkax.NewEventPublisher(prod, cfg.ServiceName),
		Logger:    log,
	})

	router := httpx.NewRouter(log, cfg.RequestTimeout)
	rh := &httpx.ReservationsHandler{
		Booker:         coord,
		Query:          booking.NewQuery(repo),
		Offices:        repo,
		Redis:          rdb,
		Log:            log,
		IdempotencyTTL: cfg.IdempotencyTTL,
		CountCacheTTL:  cfg.CountCacheTTL,
	}
	rh.Register(router)

	srv := &http.Server{Addr: cfg.HTTPAddr, Handler: router, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		log.Info("HTTP listening", "addr", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Listen failed", "error", err)
		}
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig
	log.Info("Shutting down")

	ctx2, cancel2 := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel2()
	if err := srv.Shutdown(ctx2); err != nil {
		log.Warn("HTTP shutdown", "error", err)
	}
	prod.Close() // flush the inbox, close the writer
	prod.WaitClosed()
	cancel()
}
