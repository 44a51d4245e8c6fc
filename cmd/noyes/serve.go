package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/aretw0/noyes"
	httpadapter "github.com/aretw0/noyes/internal/adapters/http"
	redisadapter "github.com/aretw0/noyes/pkg/adapters/redis"
	"github.com/aretw0/noyes/pkg/observability"
)

var serveCmd = &cobra.Command{
	Use:   "serve [file]",
	Short: "Serve a questionnaire over HTTP",
	Long: `Loads a questionnaire definition and exposes it as a JSON API: starting
and resuming runs, submitting answers and reviewing history. Run
metrics are published on /metrics.`,
	Run: func(cmd *cobra.Command, args []string) {
		port, _ := cmd.Flags().GetString("port")
		redisAddr, _ := cmd.Flags().GetString("redis")
		redisPassword, _ := cmd.Flags().GetString("redis-password")

		registry := prometheus.NewRegistry()
		metrics := observability.NewMetrics(registry)

		opts := []noyes.Option{noyes.WithLifecycleHooks(metrics.Hooks())}
		if redisAddr != "" {
			store := redisadapter.New(redisAddr, redisPassword, 0)
			opts = append(opts,
				noyes.WithRunStore(store),
				noyes.WithLocker(redisadapter.NewLocker(store.Client(), "noyes:lock:")),
			)
		}

		engine, q, err := loadEngine(cmd, opts...)
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			os.Exit(1)
		}
		if err := engine.Validate(commandContext(cmd), q.ID); err != nil {
			fmt.Printf("Questionnaire is not navigable: %v\n", err)
			os.Exit(1)
		}

		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
		mux.Handle("/", httpadapter.NewHandler(engine, newLogger(cmd)))

		srv := &http.Server{
			Addr:    ":" + port,
			Handler: mux,
		}

		serverErrors := make(chan error, 1)
		go func() {
			fmt.Printf("Serving questionnaire %q on %s\n", q.Slug, srv.Addr)
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
			fmt.Println("Server stopped gracefully")
		}
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringP("port", "p", "8080", "Port to listen on")
	serveCmd.Flags().String("redis", "", "Redis address for durable runs and distributed locking (e.g. localhost:6379)")
	serveCmd.Flags().String("redis-password", "", "Redis password")
}
