package main

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

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/brightbeginnings/daycare/internal/api"
	"github.com/brightbeginnings/daycare/internal/auth"
	"github.com/brightbeginnings/daycare/internal/config"
	"github.com/brightbeginnings/daycare/internal/jobs"
	"github.com/brightbeginnings/daycare/internal/middleware"
	"github.com/brightbeginnings/daycare/internal/remix"
)

const shutdownTimeout = 10 * time.Second

func newServeCmd(g *globals) *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API and the alert digest scheduler",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if cmd.Flags().Changed("addr") {
				g.cfg.ListenAddr = addr
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return serve(ctx, g.cfg, slog.Default())
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "Listen address (overrides DAYCARE_ADDR)")
	return cmd
}

func serve(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	kv, stores, err := openStores(cfg, logger)
	if err != nil {
		return err
	}
	defer kv.Close()

	if cfg.Seed {
		if err := stores.Seed(ctx); err != nil {
			return err
		}
	}

	// gen stays a nil interface without a key so remix reports it is unconfigured.
	var gen remix.Generator
	if cfg.RemixEnabled() {
		g, err := remix.NewGenAIGenerator(ctx, cfg.AIAPIKey, cfg.AIModel)
		if err != nil {
			return fmt.Errorf("failed to create AI client: %w", err)
		}
		logger.Info("Remix generator ready", "generator", g.Name())
		gen = g
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	handler := api.NewRouter(api.Deps{
		Employees: stores.Employees,
		Families:  stores.Families,
		Food:      stores.Food,
		Lessons:   stores.Lessons,
		News:      stores.News,
		Tours:     stores.Tours,
		Remix: remix.NewService(stores.Lessons, gen,
			remix.WithTimeout(cfg.AITimeout),
			remix.WithLogger(logger),
		),
		JWT:         auth.NewJWTManager(cfg.JWTSecret, cfg.SessionTTL),
		Registry:    reg,
		CORSOrigins: cfg.CORSAllowedOrigins,
		RemixLimit: middleware.RateLimitConfig{
			RequestsPerSecond: cfg.RateLimitRPS,
			Burst:             cfg.RateLimitBurst,
		},
		PINLimit: middleware.RateLimitConfig{
			RequestsPerSecond: cfg.PINRateLimitRPS,
			Burst:             cfg.PINRateLimitBurst,
		},
		Logger: logger,
	})

	srv := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      cfg.AITimeout + 30*time.Second,
		IdleTimeout:       120 * time.Second,
	}

	group, gctx := errgroup.WithContext(ctx)

	scheduler := jobs.NewScheduler(jobs.NewDigest(stores.Food, stores.Employees, reg, logger), logger)
	if err := scheduler.Start(gctx, cfg.AlertSchedule); err != nil {
		return err
	}

	group.Go(func() error {
		logger.Info("Server starting", "address", cfg.ListenAddr, "remix_enabled", cfg.RemixEnabled())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	})

	group.Go(func() error {
		<-gctx.Done()
		logger.Info("Shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		err := srv.Shutdown(shutdownCtx)
		scheduler.Stop()
		return err
	})

	return group.Wait()
}
