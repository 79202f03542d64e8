// Command console serves the HOSPOS web administration console.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"

	"github.com/hospos/hospos-client/internal/api"
	"github.com/hospos/hospos-client/internal/api/handler"
	"github.com/hospos/hospos-client/internal/api/middleware"
	"github.com/hospos/hospos-client/internal/api/web"
	"github.com/hospos/hospos-client/internal/core/validation"
	"github.com/hospos/hospos-client/internal/infrastructure/backend"
	"github.com/hospos/hospos-client/internal/infrastructure/config"
	redisdb "github.com/hospos/hospos-client/internal/infrastructure/db/redis"
	"github.com/hospos/hospos-client/pkg/logger"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 1. Configuration and logging
	cfg, err := config.Load(ctx)
	if err != nil {
		bootLog := logger.Init(logger.Options{Pretty: true})
		bootLog.Fatal().Err(err).Msg("config")
	}
	log := logger.Init(logger.OptionsFor("console", cfg.Env, cfg.LogLevel))

	if err := cfg.ValidateConsole(); err != nil {
		log.Fatal().Err(err).Msg("invalid console configuration")
	}
	if cfg.Console.SessionSecret == "" {
		cfg.Console.SessionSecret = uuid.NewString()
		log.Warn().Msg("SESSION_SECRET not set; sessions will not survive a restart")
	}

	// 2. Session storage
	sessions, err := redisdb.Open(ctx, redisdb.Config{
		Addr:       cfg.Redis.Addr,
		DB:         cfg.Redis.DB,
		KeyPrefix:  cfg.Redis.KeyPrefix,
		SessionTTL: cfg.Console.SessionTTL,
	}, log)
	if err != nil {
		log.Fatal().Err(err).Msg("redis")
	}
	defer sessions.Close()

	// 3. Backend client
	client := backend.New(backend.Config{BaseURL: cfg.Backend.URL, Timeout: cfg.Backend.Timeout}, log)
	res := client.Resources()

	renderer, err := web.NewRenderer()
	if err != nil {
		log.Fatal().Err(err).Msg("templates")
	}

	// 4. Router
	e := api.NewRouter(api.Deps{
		Log:       log,
		Renderer:  renderer,
		Validator: validation.New(),
		Session: middleware.SessionConfig{
			Secret:  cfg.Console.SessionSecret,
			TTL:     cfg.Console.SessionTTL,
			Secure:  cfg.Console.CookieSecure,
			Storage: sessions,
		},
		Collections: handler.Collections{
			Products:   res.Products,
			Categories: res.Categories,
			Customers:  res.Customers,
			Bookings:   res.Bookings,
			Discounts:  res.Discounts,
			Users:      res.Users,
			Roles:      res.Roles,
			Locations:  res.Locations,
			Sales:      res.Sales,
			Payments:   res.Payments,
			Receipts:   res.Receipts,
		},
		Auth:  client,
		Admin: client,
		Checks: map[string]handler.Check{
			"redis":   sessions.Ping,
			"backend": client.Ping,
		},
	})

	// 5. Start and wait for a signal
	srv := &http.Server{
		Addr:         ":" + cfg.Console.Port,
		Handler:      e,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}
	go func() {
		log.Info().Str("addr", srv.Addr).Str("backend", cfg.Backend.URL).Msg("console listening")
		if err := e.StartServer(srv); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("shutdown")
	}
}
