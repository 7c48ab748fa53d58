package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/patric-chuzhbe/suiteclient/internal/auth"
	"github.com/patric-chuzhbe/suiteclient/internal/config"
	"github.com/patric-chuzhbe/suiteclient/internal/devserver"
	"github.com/patric-chuzhbe/suiteclient/internal/logger"
	"github.com/patric-chuzhbe/suiteclient/internal/user"
)

const shutdownTimeout = 10 * time.Second

// DevServer runs the development backend.
type DevServer struct {
	cfg         *config.Config
	httpHandler http.Handler
}

// NewDevServer loads the configuration, initializes the logger and builds
// the devserver handler over an empty user registry.
func NewDevServer(opts ...config.InitOption) (*DevServer, error) {
	cfg, err := config.New(opts...)
	if err != nil {
		return nil, err
	}

	err = logger.Init(cfg.LogLevel)
	if err != nil {
		return nil, err
	}

	signingKey, err := cfg.SigningKey()
	if err != nil {
		return nil, fmt.Errorf("in app.NewDevServer(): error while decoding the signing key: %w", err)
	}

	return &DevServer{
		cfg: cfg,
		httpHandler: devserver.New(
			user.NewRegistry(),
			auth.New(signingKey, cfg.TokenLifetime),
		),
	}, nil
}

// Handler exposes the HTTP handler, mostly for tests.
func (s *DevServer) Handler() http.Handler {
	return s.httpHandler
}

// Run serves until SIGINT or SIGTERM arrives or ctx is done, then shuts the
// server down gracefully.
func (s *DevServer) Run(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Log.Infoln("devserver running", "RunAddr", s.cfg.RunAddr)

	server := &http.Server{
		Addr:              s.cfg.RunAddr,
		Handler:           s.httpHandler,
		ReadHeaderTimeout: 5 * time.Second,
	}

	serverErrCh := make(chan error, 1)
	go func() {
		serverErrCh <- server.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		logger.Log.Infoln("Received shutdown signal, stopping the devserver")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server shutdown error: %w", err)
		}

		return nil

	case err := <-serverErrCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server error: %w", err)
	}
}

// Close flushes the logger.
func (s *DevServer) Close() error {
	return logger.Sync()
}
