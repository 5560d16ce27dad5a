package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ssd-technologies/trivium/internal/manifold"
	"github.com/ssd-technologies/trivium/internal/registry"
	"github.com/ssd-technologies/trivium/internal/server"
)

func main() {
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	dataDir := os.Getenv("TRIVIUM_DATA_DIR")
	if dataDir == "" {
		dataDir = "data"
	}

	secret := os.Getenv("TRIVIUM_FEED_SECRET")
	if secret == "" {
		log.Fatal("TRIVIUM_FEED_SECRET environment variable is required")
	}

	routeTTL := 24 * time.Hour
	if v := os.Getenv("TRIVIUM_ROUTE_TTL"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			log.Fatalf("Invalid TRIVIUM_ROUTE_TTL: %v", err)
		}
		routeTTL = d
	}

	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		log.Fatalf("Failed to create data directory: %v", err)
	}

	reg, err := registry.Open(dataDir + "/trivium.db")
	if err != nil {
		log.Fatalf("Failed to open route registry: %v", err)
	}
	defer reg.Close()

	if n, err := reg.PruneStale(routeTTL); err != nil {
		log.Fatalf("Failed to prune stale routes: %v", err)
	} else if n > 0 {
		log.Printf("Pruned %d stale routes", n)
	}

	router := manifold.NewRouter()
	if err := reg.Seed(router); err != nil {
		log.Fatalf("Failed to seed routing table: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	reg.StartPruner(ctx, time.Hour, routeTTL)

	srv := server.New(router, reg, secret)
	httpSrv := &http.Server{Addr: ":" + port, Handler: srv}

	// Graceful shutdown on SIGINT/SIGTERM.
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		log.Println("Shutting down...")
		cancel()
		shutdownCtx, stop := context.WithTimeout(context.Background(), 10*time.Second)
		defer stop()
		if err := httpSrv.Shutdown(shutdownCtx); err != nil {
			log.Printf("Shutdown error: %v", err)
		}
	}()

	fmt.Printf("Trivium running on http://localhost:%s\n", port)
	if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatalf("Server error: %v", err)
	}
}
