package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/datium-labs/dspm-analyzer/internal/data/db"
	"github.com/datium-labs/dspm-analyzer/internal/data/repos"
	"github.com/datium-labs/dspm-analyzer/internal/events"
	"github.com/datium-labs/dspm-analyzer/internal/mq/worker"
	"github.com/datium-labs/dspm-analyzer/internal/platform/envutil"
	"github.com/datium-labs/dspm-analyzer/internal/platform/logger"
	"github.com/datium-labs/dspm-analyzer/internal/platform/rabbitmq"
	"github.com/datium-labs/dspm-analyzer/internal/services"
)

func main() {
	if err := godotenv.Load(); err != nil {
		fmt.Println("No .env file found, continuing with environment variables")
	}

	log, err := logger.New(os.Getenv("LOG_MODE"))
	if err != nil {
		fmt.Printf("Failed to init logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	pg, err := db.NewPostgresService(log)
	if err != nil {
		log.Fatal("postgres init failed", "error", err)
	}
	if err := pg.AutoMigrateAll(); err != nil {
		log.Fatal("postgres automigrate failed", "error", err)
	}
	gdb := pg.DB()

	objects := repos.NewDataObjectRepo(gdb, log)
	profiles := repos.NewObjectProfileRepo(gdb, log)
	guards := repos.NewGuardRepo(gdb, log)

	var bus events.IngestBus
	if envutil.GetEnv("REDIS_ADDR", "", log) != "" {
		bus, err = events.NewIngestBus(log)
		if err != nil {
			log.Warn("ingest event bus disabled", "error", err)
			bus = nil
		}
	}

	analyzer := services.NewAnalyzerService(gdb, log, objects, profiles, guards, bus)

	mq, err := rabbitmq.New(log)
	if err != nil {
		log.Fatal("rabbitmq init failed", "error", err)
	}
	defer mq.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	consumer := worker.NewIngestConsumer(mq.Channel, mq.IngestQueue, log, analyzer)
	if err := consumer.Start(ctx); err != nil {
		log.Fatal("ingest consumer start failed", "error", err)
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down consumer")
	cancel()
}
