// cmd/backend/main.go
package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"panthers-signup/internal/config"
	"panthers-signup/internal/server"
)

func main() {
	cfg, err := config.LoadBackend()
	if err != nil {
		log.Fatal("Failed to load config:", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	backend, err := server.NewBackend(ctx, cfg)
	if err != nil {
		log.Fatal("Failed to build backend:", err)
	}
	if err := backend.Start(ctx); err != nil {
		log.Fatal("Failed to start backend:", err)
	}
}
