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

	"github.com/webmixgamer/trinity-timeline/internal/adapter/orchestrator"
	"github.com/webmixgamer/trinity-timeline/internal/config"
	"github.com/webmixgamer/trinity-timeline/internal/domain"
	"github.com/webmixgamer/trinity-timeline/internal/engine"
	"github.com/webmixgamer/trinity-timeline/internal/repository"
	"github.com/webmixgamer/trinity-timeline/internal/service"
	handler "github.com/webmixgamer/trinity-timeline/internal/transport/http"
	"github.com/webmixgamer/trinity-timeline/internal/transport/ws"
	"github.com/webmixgamer/trinity-timeline/policy"
)

func main() {
	// Load configuration
	cfg := config.Load()

	log.Printf("Starting timeline service...")
	log.Printf("External HTTP Port: %d", cfg.HTTPPort)
	log.Printf("Internal HTTP Port: %d", cfg.InternalPort)
	log.Printf("Database: %s", cfg.DatabaseURL)

	// Initialize store
	db, err := store.NewSQLiteStore(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to initialize store: %v", err)
	}
	defer db.Close()

	// Initialize policy engine
	ctx := context.Background()
	policyEngine, err := policy.NewEngine(ctx, policy.DefaultPolicy)
	if err != nil {
		log.Fatalf("Failed to initialize policy engine: %v", err)
	}

	// Initialize viewer hub and stream server
	hub := ws.NewHub()
	stream := ws.NewServer(hub)

	// Initialize timeline engine; fresh frames fan out to viewers
	eng := engine.New(engine.Options{
		RefreshInterval:  cfg.LiveRefresh,
		DebounceInterval: cfg.RecomputeDebounce,
		BaseGridWidth:    cfg.BaseGridWidth,
		OnFrame: func(frame domain.Frame) {
			hub.Broadcast("frame", frame)
		},
	})

	// Initialize service
	svc := service.New(db, hub, eng, policyEngine, cfg)
	defer svc.Close()

	// Seed the engine from the store so the first frame has data
	if agents, err := db.ListAgents(ctx); err != nil {
		log.Printf("WARN: failed to load agents: %v", err)
	} else {
		eng.SetAgents(agents)
	}
	if events, err := db.ListEventsDesc(ctx, cfg.EventPageSize, time.Time{}); err != nil {
		log.Printf("WARN: failed to load events: %v", err)
	} else {
		eng.SetEvents(events)
	}

	// Optionally poll the upstream orchestration platform for its feed
	pollCtx, cancelPoll := context.WithCancel(ctx)
	defer cancelPoll()
	upstream := orchestrator.NewClient(cfg.UpstreamURL)
	if upstream.Enabled() && cfg.PollInterval > 0 {
		log.Printf("Polling upstream %s every %s", cfg.UpstreamURL, cfg.PollInterval)
		go runUpstreamPoll(pollCtx, upstream, svc, cfg.PollInterval, cfg.EventPageSize)
	}

	// Create servers
	externalServer := handler.NewExternalServer(svc, stream)
	internalServer := handler.NewInternalServer(svc)

	// Start external server
	go func() {
		addr := fmt.Sprintf(":%d", cfg.HTTPPort)
		if err := externalServer.Start(addr); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start external server: %v", err)
		}
	}()

	// Start internal server
	go func() {
		addr := fmt.Sprintf(":%d", cfg.InternalPort)
		if err := internalServer.Start(addr); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start internal server: %v", err)
		}
	}()

	log.Printf("External API started on port %d", cfg.HTTPPort)
	log.Printf("Internal API started on port %d", cfg.InternalPort)

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down timeline service...")

	// Graceful shutdown
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Shutdown both servers
	if err := externalServer.Shutdown(shutdownCtx); err != nil {
		log.Printf("Failed to shutdown external server gracefully: %v", err)
	}
	if err := internalServer.Shutdown(shutdownCtx); err != nil {
		log.Printf("Failed to shutdown internal server gracefully: %v", err)
	}

	log.Println("Timeline service stopped")
}

// runUpstreamPoll mirrors the upstream roster and event feed into the
// local store on a fixed interval. Push ingestion through the internal
// API remains the primary path; polling covers platforms that cannot
// push.
func runUpstreamPoll(ctx context.Context, client *orchestrator.Client, svc *service.Service, interval time.Duration, pageSize int) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	seen := make(map[string]struct{})
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			agents, err := client.FetchAgents(ctx)
			if err != nil {
				log.Printf("WARN: upstream agent poll failed: %v", err)
				continue
			}
			for i := range agents {
				if err := svc.UpsertAgent(ctx, &agents[i]); err != nil {
					log.Printf("WARN: failed to upsert agent %s: %v", agents[i].Name, err)
				}
			}

			events, err := client.FetchEvents(ctx, pageSize)
			if err != nil {
				log.Printf("WARN: upstream event poll failed: %v", err)
				continue
			}
			for i := range events {
				id := events[i].EventID
				if id == "" {
					continue
				}
				if _, ok := seen[id]; ok {
					continue
				}
				if err := svc.IngestEvent(ctx, &events[i]); err != nil {
					log.Printf("WARN: failed to ingest event %s: %v", id, err)
					continue
				}
				seen[id] = struct{}{}
			}
		}
	}
}
