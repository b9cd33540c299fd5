package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/ariefcatur/go-office-rentals.git/internal/config"
	kafkax "github.com/ariefcatur/go-office-rentals.git/internal/kafka"
	"github.com/ariefcatur/go-office-rentals.git/internal/logger"
	"github.com/ariefcatur/go-office-rentals.git/internal/projector"
	"github.com/ariefcatur/go-office-rentals.git/internal/redisx"
	"github.com/ariefcatur/go-office-rentals.git/internal/reservations"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		logger.New(logger.Config{}).Fatal("Invalid configuration", "error", err)
	}
	log := logger.New(logger.Config{Level: cfg.LogLevel, Format: cfg.LogFormat, Service: cfg.ServiceName + "-projector"})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	rdb := redisx.New(cfg.RedisAddr)
	defer rdb.Close()

	svc := &projector.Service{Redis: rdb, Log: log}
	cons := kafkax.NewConsumer(cfg.KafkaBrokers, cfg.ProjectorGroup, reservations.TopicReservationCreated, cfg.ProjectorWorkers, log)

	done := make(chan struct{})
	go func() {
		defer close(done)
		log.Info("Projector consumer started",
			"group", cfg.ProjectorGroup,
			"topic", reservations.TopicReservationCreated,
			"workers", cfg.ProjectorWorkers,
		)
		if err := cons.Start(ctx, svc.HandleReservationCreated); err != nil {
			log.Error("Consumer exited", "error", err)
			cancel()
		}
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-sig:
		log.Info("Shutting down consumer")
	case <-ctx.Done():
	}
	cancel()
	<-done
}
