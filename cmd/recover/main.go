package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"secret-recovery/internal/api"
	"secret-recovery/internal/config"
	"secret-recovery/internal/db"
	"secret-recovery/internal/logger"
	"secret-recovery/internal/notify"
	"secret-recovery/internal/runner"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lmicroseconds)

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Config error: %v", err)
	}
	appLogger := logger.New(500)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Initialize database
	var database db.Database
	if cfg.DatabaseURL == "" {
		appLogger.Warn("DATABASE_URL not set - using in-memory store")
		database = db.NewMock()
	} else {
		pg, err := db.New(ctx, cfg.DatabaseURL)
		if err != nil {
			log.Fatalf("Database error: %v", err)
		}
		database = pg
		appLogger.Info("Connected to database")
	}
	defer database.Close()

	// Initialize notifier
	notifier := notify.New(cfg.PushoverAppToken, cfg.PushoverUserKey)
	if notifier.IsEnabled() {
		appLogger.Info("Pushover notifications enabled")
	}

	rn := runner.New(database, appLogger, notifier, cfg)

	if paths := os.Args[1:]; len(paths) > 0 {
		code := runFiles(ctx, rn, paths)
		database.Close()
		stop()
		os.Exit(code)
	}

	if err := serve(ctx, cfg, rn, database, appLogger); err != nil {
		log.Fatalf("Server error: %v", err)
	}
}

// runFiles prints one line per file and returns the process exit status
func runFiles(ctx context.Context, rn *runner.Runner, paths []string) int {
	status := 0
	for _, res := range rn.Run(ctx, paths) {
		if res.Err != nil {
			fmt.Fprintf(os.Stderr, "%s: error: %v\n", res.Path, res.Err)
			status = 1
			continue
		}
		fmt.Printf("%s: %s\n", res.Path, res.Secret)
	}
	return status
}

func serve(ctx context.Context, cfg *config.Config, rn *runner.Runner, database db.Database, appLogger *logger.Logger) error {
	handler := api.NewHandler(rn, database, appLogger, cfg)
	mux := http.NewServeMux()
	handler.RegisterRoutes(mux)

	var servers []*http.Server
	for _, addr := range strings.Split(cfg.BindAddrs, ",") {
		servers = append(servers, &http.Server{
			Addr:              fmt.Sprintf("%s:%s", strings.TrimSpace(addr), cfg.Port),
			Handler:           mux,
			ReadHeaderTimeout: 10 * time.Second,
		})
	}

	g, gctx := errgroup.WithContext(ctx)
	for _, srv := range servers {
		srv := srv
		appLogger.Info("Starting server on %s", srv.Addr)
		g.Go(func() error {
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("listener %s: %w", srv.Addr, err)
			}
			return nil
		})
	}

	g.Go(func() error {
		<-gctx.Done()
		appLogger.Info("Shutting down...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		for _, srv := range servers {
			srv.Shutdown(shutdownCtx)
		}
		return nil
	})

	return g.Wait()
}
