package main

import (
	"context"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/iamtinsae/mockify/internal/config"
	"github.com/iamtinsae/mockify/internal/events"
	"github.com/iamtinsae/mockify/internal/mock"
	"github.com/iamtinsae/mockify/internal/server"
	mocksync "github.com/iamtinsae/mockify/internal/sync"
)

var serveCmd = &cobra.Command{
	Use:     "serve",
	Short:   "Start the mockify server",
	GroupID: "system",
	// The server needs no client.
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return nil },
	RunE: func(cmd *cobra.Command, args []string) error {
		logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
		slog.SetDefault(logger)

		cfg, err := config.Load()
		if err != nil {
			return err
		}

		store, err := openStore(cfg, logger)
		if err != nil {
			return err
		}

		if cfg.SeedFile != "" {
			if err := applySeedFile(cmd.Context(), store, cfg.SeedFile, logger); err != nil {
				store.Close()
				return err
			}
		}

		var publisher events.Publisher
		if cfg.NATSURL != "" {
			pub, err := events.NewNATSPublisher(cfg.NATSURL)
			if err != nil {
				store.Close()
				return err
			}
			publisher = pub
			logger.Info("events enabled", "nats_url", cfg.NATSURL)
		} else {
			publisher = &events.NoopPublisher{}
			logger.Info("NATS events disabled (MOCKIFY_NATS_URL not set)")
		}

		engine := mock.NewEngine(mock.NewResolver(store), mock.WithListSize(cfg.ListSize))
		mockServer := server.NewMockServer(store, engine, publisher)

		httpServer := &http.Server{
			Addr:              cfg.HTTPAddr,
			Handler:           mockServer.NewHTTPHandler(cfg.AuthToken),
			ReadHeaderTimeout: 10 * time.Second,
		}
		go func() {
			logger.Info("HTTP server listening", "addr", cfg.HTTPAddr)
			if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				logger.Error("HTTP server error", "err", err)
			}
		}()

		// Optional gRPC listener carrying health and reflection.
		grpcServer, healthServer := server.NewGRPCServer(cfg.AuthToken)
		if cfg.GRPCAddr != "" {
			lis, err := net.Listen("tcp", cfg.GRPCAddr)
			if err != nil {
				_ = httpServer.Close()
				publisher.Close()
				store.Close()
				return err
			}
			go func() {
				logger.Info("gRPC health server listening", "addr", cfg.GRPCAddr)
				if err := grpcServer.Serve(lis); err != nil {
					logger.Error("gRPC server error", "err", err)
				}
			}()
		}

		var scheduler *mocksync.Scheduler
		if cfg.SyncInterval > 0 {
			if dests := syncDestinations(cfg, logger); len(dests) > 0 {
				scheduler = mocksync.NewScheduler(store, dests, cfg.SyncInterval, logger)
				scheduler.Start()
				logger.Info("sync scheduler started", "interval", cfg.SyncInterval)
			}
		}

		logger.Info("mockify server started",
			"http_addr", cfg.HTTPAddr,
			"grpc_addr", cfg.GRPCAddr,
			"list_size", engine.ListSize(),
		)

		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		sig := <-sigCh
		logger.Info("received signal, shutting down", "signal", sig)

		if scheduler != nil {
			scheduler.Stop()
			logger.Info("sync scheduler stopped")
		}

		healthServer.Shutdown()
		grpcServer.GracefulStop()
		logger.Info("gRPC server stopped")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Error("HTTP server shutdown error", "err", err)
		}
		logger.Info("HTTP server stopped")

		if err := publisher.Close(); err != nil {
			logger.Error("error closing publisher", "err", err)
		}
		if err := store.Close(); err != nil {
			logger.Error("error closing store", "err", err)
		}

		logger.Info("shutdown complete")
		return nil
	},
}
