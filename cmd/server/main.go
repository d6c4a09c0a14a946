package main

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/DoyleJ11/battleship-backend/internal/config"
	"github.com/DoyleJ11/battleship-backend/internal/engine"
	"github.com/DoyleJ11/battleship-backend/internal/httpapi"
	"github.com/DoyleJ11/battleship-backend/internal/hub"
	"github.com/DoyleJ11/battleship-backend/internal/logging"
	"github.com/DoyleJ11/battleship-backend/internal/results"
	"github.com/DoyleJ11/battleship-backend/internal/ws"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 10 * time.Second

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}

	log, err := logging.New(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var (
		sinks   []results.Sink
		history httpapi.History
	)
	if cfg.DatabaseURL != "" {
		store, err := results.OpenStore(cfg.DatabaseURL)
		if err != nil {
			return err
		}
		defer store.Close()
		sinks = append(sinks, store)
		history = store
		log.Info("match history enabled")
	}
	if cfg.NatsURL != "" {
		pub, err := results.NewPublisher(cfg.NatsURL, cfg.NatsSubject)
		if err != nil {
			return err
		}
		defer pub.Close()
		sinks = append(sinks, pub)
		log.Info("match events enabled", zap.String("subject", cfg.NatsSubject))
	}
	pipeline := results.NewPipeline(log.Named("results"), cfg.ResultsBuffer, sinks...)

	seed := cfg.PlacementSeed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	g, gctx := errgroup.WithContext(ctx)

	h := hub.NewHub(gctx, hub.Options{
		Logger:    log.Named("hub"),
		Placement: engine.RandomPlacement(rand.New(rand.NewSource(seed)), engine.DefaultFleet),
		Recorder:  pipeline,
	})

	srv := &http.Server{
		Addr: cfg.Addr,
		Handler: httpapi.SetupRoutes(h, history, ws.Options{
			Logger:       log.Named("ws"),
			OutboxSize:   cfg.OutboxSize,
			PingInterval: cfg.PingInterval,
			WriteTimeout: cfg.WriteTimeout,
		}, log.Named("http")),
		ReadHeaderTimeout: 5 * time.Second,
	}

	// the pipeline outlives the hub so matches finished during shutdown still get recorded
	pipeCtx, pipeCancel := context.WithCancel(context.Background())
	defer pipeCancel()

	g.Go(func() error {
		log.Info("listening", zap.String("addr", cfg.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		return pipeline.Run(pipeCtx)
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info("shutting down")

		sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		err := srv.Shutdown(sctx)

		<-h.Done()
		pipeCancel()
		return err
	})

	return g.Wait()
}
