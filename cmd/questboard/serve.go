package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aretw0/questboard"
	"github.com/aretw0/questboard/internal/config"
	"github.com/aretw0/questboard/internal/logging"
	"github.com/aretw0/questboard/pkg/adapters/httpapi"
	"github.com/aretw0/questboard/pkg/adapters/memory"
	redisstore "github.com/aretw0/questboard/pkg/adapters/redis"
	"github.com/aretw0/questboard/pkg/ports"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP event server",
	Long:  `Starts the questboard workflow engine in server mode, accepting chat events as JSON over HTTP.`,
	Run: func(cmd *cobra.Command, args []string) {
		envFile, _ := cmd.Flags().GetString("env-file")
		if envFile != "" {
			if err := godotenv.Load(envFile); err != nil {
				fmt.Printf("Error loading env file %s: %v\n", envFile, err)
				os.Exit(1)
			}
		} else {
			// Best effort: a local .env is optional.
			_ = godotenv.Load()
		}

		cfg, err := config.Load()
		if err != nil {
			fmt.Printf("Error loading configuration: %v\n", err)
			os.Exit(1)
		}

		logger := logging.New(cfg.LogLevel)

		var (
			store  ports.Store
			pinger httpapi.Pinger
		)
		switch cfg.StoreBackend {
		case config.BackendRedis:
			rs := redisstore.New(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB,
				redisstore.WithTimeout(cfg.StoreTimeout))
			defer rs.Close()
			store, pinger = rs, rs
		case config.BackendMemory:
			ms := memory.NewStore()
			store, pinger = ms, ms
		}

		registry := prometheus.NewRegistry()

		botOpts := []questboard.Option{
			questboard.WithStore(store),
			questboard.WithLogger(logger),
			questboard.WithMetricsRegistry(registry),
		}
		if cfg.InviteLinkBase != "" {
			botOpts = append(botOpts, questboard.WithInviteLinkBase(cfg.InviteLinkBase))
		}

		bot, err := questboard.New(cfg.MasterID, botOpts...)
		if err != nil {
			fmt.Printf("Error initializing questboard: %v\n", err)
			os.Exit(1)
		}

		handler := httpapi.NewHandler(bot,
			httpapi.WithLogger(logger),
			httpapi.WithPinger(pinger),
			httpapi.WithMetricsRegistry(registry),
		)

		srv := &http.Server{
			Addr:    cfg.HTTPAddr,
			Handler: handler,
		}

		// Channel to listen for errors coming from the listener.
		serverErrors := make(chan error, 1)

		go func() {
			logger.Info("starting questboard server", "addr", srv.Addr, "backend", cfg.StoreBackend)
			serverErrors <- srv.ListenAndServe()
		}()

		// Channel to listen for interrupt or terminate signals.
		shutdown := make(chan os.Signal, 1)
		signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

		// Blocking main and waiting for shutdown.
		select {
		case err := <-serverErrors:
			fmt.Printf("Server error: %v\n", err)
			os.Exit(1)

		case sig := <-shutdown:
			logger.Info("starting shutdown", "signal", sig.String())

			// Give outstanding requests a deadline for completion.
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()

			if err := srv.Shutdown(ctx); err != nil {
				logger.Error("graceful shutdown did not complete", "err", err)
				if err := srv.Close(); err != nil {
					logger.Error("error killing server", "err", err)
				}
			}
			logger.Info("questboard server stopped")
		}
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
