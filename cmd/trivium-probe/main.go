// trivium-probe is a minimal health-monitoring collaborator: it registers
// a route with the Trivium daemon and pushes periodic health updates over
// the websocket feed.
package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/ssd-technologies/trivium/internal/healthfeed"
)

func main() {
	feedURL := os.Getenv("TRIVIUM_FEED_URL")
	if feedURL == "" {
		feedURL = "ws://localhost:8080/ws/health"
	}

	secret := os.Getenv("TRIVIUM_FEED_SECRET")
	if secret == "" {
		log.Fatal("TRIVIUM_FEED_SECRET environment variable is required")
	}

	routeID := os.Getenv("TRIVIUM_ROUTE_ID")
	if routeID == "" {
		log.Fatal("TRIVIUM_ROUTE_ID environment variable is required")
	}

	destination := os.Getenv("TRIVIUM_DESTINATION")
	if destination == "" {
		destination = "workers-default"
	}

	interval := 15 * time.Second
	if v := os.Getenv("TRIVIUM_PROBE_INTERVAL"); v != "" {
		secs, err := strconv.Atoi(v)
		if err != nil || secs <= 0 {
			log.Fatalf("Invalid TRIVIUM_PROBE_INTERVAL: %q", v)
		}
		interval = time.Duration(secs) * time.Second
	}

	client, err := healthfeed.Dial(feedURL, secret)
	if err != nil {
		log.Fatalf("Failed to connect to health feed: %v", err)
	}
	defer client.Close()

	if err := client.RegisterRoute(healthfeed.RegisterPayload{
		RouteID:     routeID,
		Destination: destination,
		LoadFactor:  0,
		HealthScore: 1.0,
	}); err != nil {
		log.Fatalf("Failed to register route: %v", err)
	}
	log.Printf("Registered route %s -> %s", routeID, destination)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		log.Println("Shutting down...")
		cancel()
	}()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			score := measureHealth()
			if err := client.UpdateHealth(routeID, score); err != nil {
				log.Printf("Health update failed: %v", err)
				continue
			}
			log.Printf("Pushed health %.2f for %s", score, routeID)
		}
	}
}

// measureHealth samples local health. The probe ships a trivial
// always-healthy measurement; deployments replace this with a real check
// against the destination service.
func measureHealth() float64 {
	return 1.0
}
