package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"finsentinel-server/src/api"
	"finsentinel-server/src/config"
	"finsentinel-server/src/db"
	pgstore "finsentinel-server/src/db/sql"
	"finsentinel-server/src/db/sqlite"
	"finsentinel-server/src/events"
	"finsentinel-server/src/handlers"
	"finsentinel-server/src/logger"
	"finsentinel-server/src/services"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg := config.Load()
	log := logger.New(cfg.LogLevel, cfg.LogFormat)

	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx = logger.WithContext(ctx, log)

	store, err := openStore(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Str("backend", cfg.DataBackend).Msg("failed to open store")
	}
	defer store.Close()

	cache, err := db.NewCache()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create cache")
	}
	defer cache.Close()

	insights := services.NewInsightService(store)

	var publisher events.Publisher = events.NoopPublisher{}
	var amqpClient *events.Client
	if cfg.AMQPURL != "" {
		amqpClient, err = events.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to connect to AMQP broker")
		}
		defer amqpClient.Close()
		publisher = amqpClient
		log.Info().Str("exchange", cfg.AMQPExchange).Str("queue", cfg.AMQPQueue).Msg("AMQP messaging enabled")
	} else {
		log.Info().Msg("AMQP_URL not set, transaction events disabled")
	}

	router := api.NewRouter(api.Deps{
		Store:          store,
		Cache:          cache,
		Publisher:      publisher,
		Insights:       insights,
		Logger:         log,
		JWTSecret:      cfg.JWTSecret,
		JWTExpire:      cfg.JWTExpire,
		AllowedOrigins: cfg.AllowedOrigins,
		DemoMode:       cfg.DemoMode,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Info().Str("port", cfg.Port).Str("backend", cfg.DataBackend).Msg("API server running")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		log.Info().Msg("shutting down API server")
		return srv.Shutdown(shutdownCtx)
	})

	if amqpClient != nil {
		g.Go(func() error {
			// summaries cached before this instance was listening may be stale
			cache.ClearAllSummaries()
			err := amqpClient.ConsumeCacheInvalidations(gctx, cache.DelSummary)
			if errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		})
		g.Go(func() error {
			err := amqpClient.ConsumeTransactionsChanged(gctx, insights.HandleTransactionsChanged)
			if errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		})
	}

	if err := g.Wait(); err != nil {
		log.Error().Err(err).Msg("server stopped with error")
		return
	}
	log.Info().Msg("server stopped")
}

func openStore(ctx context.Context, cfg config.Config, log zerolog.Logger) (handlers.Store, error) {
	switch cfg.DataBackend {
	case config.BackendSQLite:
		log.Info().Str("path", cfg.SQLiteDBPath).Msg("using SQLite store")
		return sqlite.NewStore(cfg.SQLiteDBPath)
	default:
		if err := db.RunPostgresMigrations(cfg.DatabaseURL); err != nil {
			return nil, err
		}
		pool, err := db.Connect(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, err
		}
		log.Info().Msg("using Postgres store")
		return pgstore.NewPostgresStore(pool), nil
	}
}
