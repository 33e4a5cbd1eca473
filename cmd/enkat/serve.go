package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"enkat"
	"enkat/internal/logging"
	httpadapter "enkat/pkg/adapters/http"
	redisadapter "enkat/pkg/adapters/redis"
	"enkat/pkg/observability"
	"enkat/pkg/session"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	goredis "github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP survey server",
	Long: `Starts the engine in server mode, exposing a JSON API over HTTP.

Sessions are held in memory unless --redis points at a Redis instance,
in which case session state and recorded answers both live there.
Prometheus metrics are exposed on /metrics.`,
	Run: func(cmd *cobra.Command, args []string) {
		file, _ := cmd.Flags().GetString("file")
		port, _ := cmd.Flags().GetString("port")
		redisURL, _ := cmd.Flags().GetString("redis")
		ttl, _ := cmd.Flags().GetDuration("session-ttl")
		level, _ := cmd.Flags().GetString("log-level")

		logger := logging.New(logging.ParseLevel(level))

		handler, err := buildServer(file, redisURL, ttl, logger)
		if err != nil {
			fmt.Printf("Error initializing server: %v\n", err)
			os.Exit(1)
		}

		srv := &http.Server{
			Addr:    ":" + port,
			Handler: handler,
		}

		serverErrors := make(chan error, 1)
		go func() {
			fmt.Printf("Starting Enkat Server on %s\n", srv.Addr)
			fmt.Printf("Serving survey from: %s\n", file)
			serverErrors <- srv.ListenAndServe()
		}()

		shutdown := make(chan os.Signal, 1)
		signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

		select {
		case err := <-serverErrors:
			fmt.Printf("Server error: %v\n", err)
			os.Exit(1)

		case sig := <-shutdown:
			fmt.Printf("\nStart shutdown... Signal: %v\n", sig)

			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()

			if err := srv.Shutdown(ctx); err != nil {
				fmt.Printf("Graceful shutdown did not complete in %v: %v\n", 5*time.Second, err)
				if err := srv.Close(); err != nil {
					fmt.Printf("Error killing server: %v\n", err)
				}
			}
			fmt.Println("Enkat Server stopped gracefully")
		}
	},
}

func buildServer(file, redisURL string, ttl time.Duration, logger *slog.Logger) (http.Handler, error) {
	reg := prometheus.NewRegistry()
	metrics := observability.NewMetrics(reg, observability.WithLogger(logger))

	engineOpts := []enkat.Option{enkat.WithLogger(logger)}
	sessionOpts := []session.Option{session.WithLifecycleHooks(metrics.Hooks())}

	if redisURL != "" {
		redisOpts, err := goredis.ParseURL(redisURL)
		if err != nil {
			return nil, fmt.Errorf("invalid redis url: %w", err)
		}
		client := goredis.NewClient(redisOpts)

		var storeOpts []redisadapter.StoreOption
		if ttl > 0 {
			storeOpts = append(storeOpts, redisadapter.WithTTL(ttl))
		}
		engineOpts = append(engineOpts, enkat.WithStore(redisadapter.NewStore(client, storeOpts...)))
		sessionOpts = append(sessionOpts, session.WithSink(redisadapter.NewSink(client)))
	}

	eng, err := enkat.New(file, engineOpts...)
	if err != nil {
		return nil, err
	}

	api := httpadapter.NewHandler(eng.Provider(), eng.Manager(),
		httpadapter.WithLogger(logger),
		httpadapter.WithSessionOptions(sessionOpts...),
	)

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	mux.Handle("/", api)
	return mux, nil
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringP("port", "p", "8080", "Port to listen on")
	serveCmd.Flags().String("redis", "", "Redis URL for session state and responses (e.g. redis://localhost:6379/0)")
	serveCmd.Flags().Duration("session-ttl", 0, "Expire stored sessions after this duration (Redis only, 0 keeps them)")
	serveCmd.Flags().String("log-level", "info", "Log level: debug, info, warn or error")
}
