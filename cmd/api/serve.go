package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/BruksfildServices01/lefade-api/internal/audit"
	"github.com/BruksfildServices01/lefade-api/internal/cache"
	"github.com/BruksfildServices01/lefade-api/internal/config"
	dbpkg "github.com/BruksfildServices01/lefade-api/internal/db"
	"github.com/BruksfildServices01/lefade-api/internal/events"
	"github.com/BruksfildServices01/lefade-api/internal/identity"
	"github.com/BruksfildServices01/lefade-api/internal/payments"
	"github.com/BruksfildServices01/lefade-api/internal/plans"
	"github.com/BruksfildServices01/lefade-api/internal/routes"
)

const shutdownTimeout = 10 * time.Second

func serveCmd(cfg *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context(), cfg)
		},
	}
}

func runServe(parent context.Context, cfg *config.Config) error {
	if parent == nil {
		parent = context.Background()
	}
	ctx, cancel := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	db := dbpkg.NewDB(cfg)
	catalog := plans.NewCatalog(cfg.StripePriceStandard, cfg.StripePriceDeluxe)

	// the plans table must match the catalog before subscriptions reference it
	if cfg.IsDevelopment() {
		err := dbpkg.Migrate(db, catalog)
		if err != nil {
			return err
		}
	} else if err := dbpkg.SyncPlans(db, catalog); err != nil {
		return err
	}

	verifier, err := identity.FromSettings(ctx, cfg.AuthIssuer, cfg.AuthAudience, cfg.AuthJWKSURL, cfg.JWTSecret)
	if err != nil {
		return err
	}
	if verifier == nil {
		log.Warn().Msg("no identity provider configured; authenticated routes answer 503")
	}

	gateway := payments.New(cfg.StripeSecretKey)
	if !gateway.Enabled() {
		log.Warn().Msg("STRIPE_SECRET_KEY not set; payment processing disabled")
	}

	rdb := cache.NewRedisClient(cfg.RedisURL)
	if rdb != nil {
		defer rdb.Close()
	}

	sinks := []audit.Sink{audit.New(db)}
	var publisher *events.Publisher
	if cfg.BrokerEnabled() {
		publisher = events.NewPublisher(cfg.AMQPURL, cfg.AMQPQueue)
		defer publisher.Close()
		sinks = append(sinks, publisher)
	}
	dispatcher := audit.NewDispatcher(sinks...)
	// runs before publisher.Close so queued events still go out
	defer dispatcher.Close()

	if !cfg.IsDevelopment() {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery())

	routes.RegisterRoutes(r, routes.Deps{
		DB:       db,
		Config:   cfg,
		Gateway:  gateway,
		Verifier: verifier,
		Catalog:  catalog,
		Redis:    rdb,
		Audit:    dispatcher,
	})

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", cfg.Addr()).Str("env", cfg.AppEnv).Msg("server listening")
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

	log.Info().Msg("shutting down")
	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancelShutdown()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Warn().Err(err).Msg("server did not shut down cleanly")
		return err
	}
	return nil
}
