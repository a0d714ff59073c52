package main

import (
	"context"
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"github.com/datium-labs/dspm-analyzer/internal/app"
	"github.com/datium-labs/dspm-analyzer/internal/observability"
)

func main() {
	if err := godotenv.Load(); err != nil {
		fmt.Println("No .env file found, continuing with environment variables")
	}

	a, err := app.New()
	if err != nil {
		fmt.Printf("Failed to init app: %v\n", err)
		os.Exit(1)
	}
	defer a.Close()

	ctx := context.Background()
	shutdownTracing := observability.InitTracing(ctx, a.Log, observability.OtelConfig{
		ServiceName: a.Cfg.ServiceName,
		Environment: a.Cfg.Environment,
	})
	if shutdownTracing != nil {
		defer func() { _ = shutdownTracing(ctx) }()
	}

	a.Log.Info("starting analyzer API", "addr", a.Cfg.HTTPAddr)
	if err := a.Run(); err != nil {
		a.Log.Fatal("server exited", "error", err)
	}
}
