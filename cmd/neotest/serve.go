package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/nanzhong/neotest/alerting"
	neotesthttp "github.com/nanzhong/neotest/http"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/sync/errgroup"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "serve the report API",
	Args:  cobra.ExactArgs(0),
	RunE: func(cmd *cobra.Command, args []string) error {
		l, err := net.Listen("tcp", cfg.Addr)
		if err != nil {
			return fmt.Errorf("failed to listen on %s: %w", cfg.Addr, err)
		}

		alertManager := alerting.NewAlertManager(cfg.AlertURL, nil)
		if cfg.SlackWebhookURL != "" {
			alertManager.RegisterAlerter(alerting.NewSlackAlerter(cfg.SlackWebhookURL))
		}

		apiHandler := neotesthttp.NewAPIHandler(
			neotesthttp.WithAPIKey(cfg.APIKey),
			neotesthttp.WithAlertManager(alertManager),
			neotesthttp.WithLogger(slog.Default()),
			neotesthttp.WithMetricNames(cfg.MetricNames...),
		)

		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.Handler())
		mux.Handle("/api/", apiHandler)

		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		return serve(ctx, l, mux, cfg.ShutdownTimeout)
	},
}

func init() {
	serveCmd.Flags().String("addr", "0.0.0.0:8080", "The address to serve on")
	viper.BindPFlag("addr", serveCmd.Flags().Lookup("addr"))
	serveCmd.Flags().String("api-key", "", "The key API clients authenticate with, no auth if empty")
	viper.BindPFlag("api-key", serveCmd.Flags().Lookup("api-key"))
	serveCmd.Flags().Duration("shutdown-timeout", time.Minute, "How long running requests get to complete on shutdown")
	viper.BindPFlag("shutdown-timeout", serveCmd.Flags().Lookup("shutdown-timeout"))
	serveCmd.Flags().StringSlice("metric-names", nil, "Report names kept as metric labels, others are labelled other")
	viper.BindPFlag("metric-names", serveCmd.Flags().Lookup("metric-names"))
}

// serve serves handler on l until ctx is done, then shuts down and returns
// once running requests completed or shutdownTimeout elapsed.
func serve(ctx context.Context, l net.Listener, handler http.Handler, shutdownTimeout time.Duration) error {
	httpServer := &http.Server{
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	eg, ctx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		slog.Info("serving", "addr", l.Addr().String())
		if err := httpServer.Serve(l); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	eg.Go(func() error {
		<-ctx.Done()
		slog.Info("shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("failed to shutdown http server: %w", err)
		}
		slog.Info("serving ended")
		return nil
	})
	return eg.Wait()
}
