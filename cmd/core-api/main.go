package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/edvin/signalstart/internal/api"
	"github.com/edvin/signalstart/internal/codec"
	"github.com/edvin/signalstart/internal/config"
	"github.com/edvin/signalstart/internal/core"
	"github.com/edvin/signalstart/internal/logging"
	"github.com/edvin/signalstart/internal/platform"
	"github.com/edvin/signalstart/internal/stub"
	"github.com/edvin/signalstart/internal/workflow"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	if err := cfg.Validate("core-api"); err != nil {
		fmt.Fprintf(os.Stderr, "invalid config: %v\n", err)
		os.Exit(1)
	}

	logger := logging.NewLogger(cfg)

	dc, err := codec.NewDataConverter(cfg.PayloadCodec)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to build data converter")
	}
	reusePolicy, err := core.ParseIDReusePolicy(cfg.WorkflowIDReusePolicy)
	if err != nil {
		logger.Fatal().Err(err).Msg("invalid workflow ID reuse policy")
	}

	identity := platform.Identity("core-api")
	tc, err := platform.DialTemporal(cfg, identity, logger, dc)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to temporal")
	}
	defer tc.Close()

	coord := core.NewCoordinator(tc, core.Options{
		Namespace:     cfg.TemporalNamespace,
		Identity:      identity,
		DataConverter: dc,
		Logger:        logger,
		IDReusePolicy: reusePolicy,
	})

	registry := stub.NewRegistry()
	workflow.Define(registry)

	httpServer := &http.Server{
		Addr:        cfg.HTTPListenAddr,
		Handler:     api.NewServer(logger, coord, registry, cfg),
		ReadTimeout: 15 * time.Second,
		// No WriteTimeout: result requests block until the run completes.
		IdleTimeout: 60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info().Str("addr", cfg.HTTPListenAddr).Msg("starting core API server")
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info().Msg("shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return httpServer.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		logger.Fatal().Err(err).Msg("server stopped with error")
	}
}
