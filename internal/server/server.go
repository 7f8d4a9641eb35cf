package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"session-guard/internal/auth"
	"session-guard/internal/config"
	"session-guard/internal/middlewares"
	"session-guard/internal/version"
)

type Server struct {
	cfg         *config.Config
	logger      *slog.Logger
	appCtx      *middlewares.AppContext
	sessions    *auth.SessionManager
	provider    *auth.Provider
	httpServer  *http.Server
	debugServer *http.Server
	cancel      context.CancelFunc
}

func New(cfg *config.Config) (*Server, error) {
	logger := setupLogger(cfg)

	ctx, cancel := context.WithCancel(context.Background())

	sessionManager, err := auth.NewSessionManager(logger, cfg)
	if err != nil {
		cancel()
		return nil, fmt.Errorf("failed to create session manager: %w", err)
	}

	oidcProvider := auth.NewProvider(cfg.OIDC, logger)

	appCtx := middlewares.NewAppContext(ctx, cfg, logger, sessionManager, oidcProvider)

	router := setupRouter(appCtx, sessionManager)
	httpServer := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	var debugServer *http.Server
	if cfg.Server.Debug != nil && cfg.Server.Debug.Enabled {
		debugServer = &http.Server{
			Addr:              fmt.Sprintf("%s:%d", cfg.Server.Debug.Host, cfg.Server.Debug.Port),
			Handler:           setupDebugRouter(),
			ReadHeaderTimeout: 10 * time.Second,
		}
	}

	return &Server{
		cfg:         cfg,
		logger:      logger,
		appCtx:      appCtx,
		sessions:    sessionManager,
		provider:    oidcProvider,
		httpServer:  httpServer,
		debugServer: debugServer,
		cancel:      cancel,
	}, nil
}

// Start serves until a shutdown signal arrives or a listener fails.
func (s *Server) Start() error {
	s.logger.Info("Starting session-guard", "version", version.GetFullVersion())

	// the provider may come up after we do, discovery is retried on first use
	if err := s.provider.Warmup(s.appCtx); err != nil {
		s.logger.Warn("OIDC discovery failed at startup", "issuer", s.cfg.OIDC.IssuerURL, "error", err)
	}

	go func() {
		s.logger.Info("Server Started", "port", s.cfg.Server.Port, "external_url", s.cfg.Server.ExternalURL)
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("Server failed to start", "error", err)
			s.cancel()
		}
	}()

	if s.debugServer != nil {
		go func() {
			s.logger.Info("Metrics server starting", "address", s.debugServer.Addr)
			if err := s.debugServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				s.logger.Error("Metrics server failed to start", "error", err)
				s.cancel()
			}
		}()
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-quit:
		s.logger.Info("Shutdown signal received")
	case <-s.appCtx.Done():
		s.logger.Info("Context canceled")
	}

	return s.Shutdown()
}

func (s *Server) Shutdown() error {
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()
	defer s.cancel()

	s.logger.Info("Shutting Down Server")

	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		s.logger.Error("Server forced to shutdown", "error", err)
		return err
	}

	if s.debugServer != nil {
		if err := s.debugServer.Shutdown(shutdownCtx); err != nil {
			s.logger.Error("Debug server forced to shutdown", "error", err)
		}
	}

	if err := s.sessions.Close(); err != nil {
		s.logger.Warn("failed to close session store", "error", err)
	}

	s.logger.Info("Server Exited")
	return nil
}
