package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/NDQnhat/realestatepro-api/internal/config"
	"github.com/NDQnhat/realestatepro-api/internal/database"
	"github.com/NDQnhat/realestatepro-api/internal/notify"
	"github.com/NDQnhat/realestatepro-api/internal/revocation"
	"github.com/NDQnhat/realestatepro-api/internal/routes"
	"github.com/NDQnhat/realestatepro-api/pkg/logger"
	"github.com/gin-gonic/gin"
)

const shutdownGrace = 10 * time.Second

func main() {
	config.LoadConfig()
	cfg := config.AppConfig
	logger.Init(cfg.Env, cfg.LogLevel)
	logger.Info().Str("environment", cfg.Env).Msg("Starting RealEstatePro API...")

	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	database.Connect()
	if err := database.Migrate(database.DB); err != nil {
		logger.Fatal().Err(err).Msg("Failed to migrate database")
	}
	logger.Info().Msg("Database migrations complete")

	closeBackends := attachBackends(cfg)
	defer closeBackends()

	srv := &http.Server{
		Addr:         ":" + listenPort(cfg),
		Handler:      routes.NewRouter(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := serve(ctx, srv); err != nil {
		logger.Error().Err(err).Msg("Server stopped with error")
		closeBackends()
		os.Exit(1)
	}
	logger.Info().Msg("Server exited gracefully")
}

// attachBackends swaps in the optional shared backends: Redis for token
// revocation, RabbitMQ for message events. Either may be missing; the API
// then falls back to process memory and dropped events.
func attachBackends(cfg *config.Config) func() {
	var closers []func()

	if database.InitRedis() {
		revocation.Default = revocation.NewRedisStore(database.Redis)
		closers = append(closers, func() { _ = database.Redis.Close() })
	}

	if cfg.RabbitMQURL != "" {
		pub, err := notify.NewAMQPPublisher(cfg.RabbitMQURL, cfg.RabbitMQExchange)
		if err != nil {
			logger.Warn().Err(err).Msg("RabbitMQ unavailable, message events disabled")
		} else {
			notify.Default = pub
			closers = append(closers, func() { _ = pub.Close() })
		}
	}

	done := false
	return func() {
		if done {
			return
		}
		done = true
		for _, c := range closers {
			c()
		}
	}
}

func listenPort(cfg *config.Config) string {
	if cfg.Port == "" {
		return "5000"
	}
	return cfg.Port
}

// serve runs srv until ctx is cancelled, then drains in-flight requests.
func serve(ctx context.Context, srv *http.Server) error {
	errCh := make(chan error, 1)
	go func() {
		logger.Info().Str("addr", srv.Addr).Msg("Server starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info().Msg("Shutting down server gracefully...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
