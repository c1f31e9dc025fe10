// Package app wires the challenge engine runtime and gRPC lifecycle.
package app

import (
	"context"
	"fmt"
	"log"
	"net"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/louisbranch/costar.quest/internal/platform/timeouts"
	"github.com/louisbranch/costar.quest/internal/services/challenge/domain"
	"github.com/louisbranch/costar.quest/internal/services/challenge/lifecycle"
	"github.com/louisbranch/costar.quest/internal/services/challenge/oracle"
	challengesqlite "github.com/louisbranch/costar.quest/internal/services/challenge/storage/sqlite"
	"go.opentelemetry.io/contrib/instrumentation/google.golang.org/grpc/otelgrpc"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	grpc_health_v1 "google.golang.org/grpc/health/grpc_health_v1"
)

// Config controls challenge runtime startup and scheduling behavior.
type Config struct {
	Port      int
	DBPath    string
	OracleURL string

	// Oracle overrides the HTTP metadata client when set; tests inject a
	// fake through it.
	Oracle oracle.ActorMovieOracle

	// RolloverGrace delays the promotion run past the day boundary so the
	// metadata provider's own daily refresh settles first.
	RolloverGrace time.Duration
}

const (
	defaultPort          = 8093
	defaultDBPath        = "data/challenge.db"
	defaultRolloverGrace = 5 * time.Minute
)

// Run starts the challenge engine: storage, health surface, and the daily
// rollover loop. It blocks until the context is canceled.
func Run(ctx context.Context, cfg Config) error {
	if ctx == nil {
		ctx = context.Background()
	}
	if cfg.Port <= 0 {
		cfg.Port = defaultPort
	}
	if strings.TrimSpace(cfg.DBPath) == "" {
		cfg.DBPath = defaultDBPath
	}
	if cfg.RolloverGrace <= 0 {
		cfg.RolloverGrace = defaultRolloverGrace
	}

	source := cfg.Oracle
	if source == nil {
		client, err := oracle.NewHTTPClient(cfg.OracleURL)
		if err != nil {
			return fmt.Errorf("configure metadata oracle: %w", err)
		}
		source = client
	}

	if dir := filepath.Dir(cfg.DBPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create storage dir: %w", err)
		}
	}
	store, err := challengesqlite.Open(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("open challenge sqlite store: %w", err)
	}
	defer func() {
		if closeErr := store.Close(); closeErr != nil {
			log.Printf("close challenge store: %v", closeErr)
		}
	}()

	manager := lifecycle.NewManager(store, source)

	listener, err := net.Listen("tcp", fmt.Sprintf(":%d", cfg.Port))
	if err != nil {
		return fmt.Errorf("listen on challenge port %d: %w", cfg.Port, err)
	}
	defer listener.Close()

	grpcServer := grpc.NewServer(grpc.StatsHandler(otelgrpc.NewServerHandler()))
	healthServer := health.NewServer()
	grpc_health_v1.RegisterHealthServer(grpcServer, healthServer)
	healthServer.SetServingStatus("", grpc_health_v1.HealthCheckResponse_SERVING)
	healthServer.SetServingStatus("challenge.runtime", grpc_health_v1.HealthCheckResponse_SERVING)

	serveErr := make(chan error, 1)
	go func() {
		serveErr <- grpcServer.Serve(listener)
	}()
	defer func() {
		healthServer.Shutdown()
		grpcServer.GracefulStop()
		<-serveErr
	}()

	log.Printf("challenge server listening at %v", listener.Addr())
	return runRolloverLoop(ctx, manager, cfg.RolloverGrace)
}

// runRolloverLoop ensures today's challenges on startup, then promotes at
// every day boundary. Failures are logged and retried at the next boundary;
// EnsureDaily is self-healing, so a missed run only delays the refresh.
func runRolloverLoop(ctx context.Context, manager *lifecycle.Manager, grace time.Duration) error {
	if err := ensureDay(ctx, manager, domain.DayKey(time.Now())); err != nil {
		log.Printf("ensure daily challenges [%s]: %v", Classify(err).Code, err)
	}

	for {
		wait := time.Until(domain.NextRollover(time.Now()).Add(grace))
		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil
		case firedAt := <-timer.C:
			today := domain.DayKey(firedAt)
			tomorrow, err := domain.ShiftDay(today, 1)
			if err != nil {
				log.Printf("compute next day after %s: %v", today, err)
				continue
			}
			if err := promoteDay(ctx, manager, today, tomorrow); err != nil {
				log.Printf("promote challenges for %s [%s]: %v", today, Classify(err).Code, err)
			}
			if err := ensureDay(ctx, manager, today); err != nil {
				log.Printf("ensure daily challenges for %s [%s]: %v", today, Classify(err).Code, err)
			}
		}
	}
}

func ensureDay(ctx context.Context, manager *lifecycle.Manager, day string) error {
	ctx, cancel := context.WithTimeout(ctx, timeouts.Generation)
	defer cancel()
	_, err := manager.EnsureDaily(ctx, day)
	return err
}

func promoteDay(ctx context.Context, manager *lifecycle.Manager, today, tomorrow string) error {
	ctx, cancel := context.WithTimeout(ctx, timeouts.Rollover)
	defer cancel()
	return manager.PromoteNextToActive(ctx, today, tomorrow)
}
