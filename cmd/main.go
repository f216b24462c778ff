package main

import (
	"context"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/meetlink/signaling-service/config"
	"github.com/meetlink/signaling-service/internal/postgres"
	"github.com/meetlink/signaling-service/internal/relay"
	"github.com/meetlink/signaling-service/internal/service"
	httpx "github.com/meetlink/signaling-service/internal/transport/http"
	"github.com/meetlink/signaling-service/internal/transport/ws"
	"github.com/meetlink/signaling-service/pkg/logger"
)

func main() {
	// --- config ---
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	logger.Init(logger.Config{
		Env:       logger.Env(cfg.Logging.Env),
		Service:   cfg.Logging.Service,
		Version:   cfg.Logging.Version,
		Backend:   logger.Backend(cfg.Logging.Backend),
		AddSource: cfg.Logging.AddSource,
		Debug:     cfg.Logging.Debug,
	})
	slog.Info("starting signaling-service",
		"env", cfg.Logging.Env, "version", cfg.Logging.Version)

	// --- postgres ---
	ctx := context.Background()
	db, err := postgres.New(ctx, cfg.Postgres.DSN)
	if err != nil {
		log.Fatalf("postgres: %v", err)
	}
	defer db.Close()

	// --- repos ---
	userRepo := postgres.NewUserRepository(db.Pool)
	meetingRepo := postgres.NewMeetingRepository(db.Pool)
	partRepo := postgres.NewParticipantRepository(db.Pool)

	// --- services ---
	userSvc := service.NewUserService(userRepo)
	meetingSvc := service.NewMeetingService(meetingRepo, partRepo)
	sessionStore := service.NewSessionStore(meetingRepo, partRepo)

	// --- relay core ---
	registry := relay.NewRegistry()
	dispatcher := relay.NewDispatcher(registry)
	engine := relay.NewEngine(registry, dispatcher, sessionStore)

	// --- transports ---
	wsServer := ws.NewServer(engine)
	handler := httpx.NewHandler(userSvc, meetingSvc)
	router := httpx.NewRouter(handler, wsServer)

	httpSrv := &http.Server{
		Addr:         cfg.HTTP.Addr,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("http listen", "addr", cfg.HTTP.Addr)
		if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	// --- graceful shutdown ---
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		slog.Info("shutdown signal", "sig", sig)
	case err := <-errCh:
		slog.Error("server error", "err", err)
	}

	ctxShutdown, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_ = httpSrv.Shutdown(ctxShutdown)
	slog.Info("stopped")
}
