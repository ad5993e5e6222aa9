package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"econtab/internal/fetch"
	"econtab/internal/infrastructure"
	"econtab/internal/pipeline"
	"econtab/internal/realtime"
	transporthttp "econtab/internal/transport/http"
)

// NewServeCmd creates the serve command: the pipeline behind an HTTP
// API with metrics and a progress websocket.
func NewServeCmd() *cobra.Command {
	var port int
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP pipeline service",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := setup(cmd)
			if err != nil {
				return err
			}
			if port != 0 {
				cfg.Server.Port = port
			}
			logger := infrastructure.GetLogger()

			providers, err := infrastructure.InitializeOTel(infrastructure.DefaultOTelConfig(), logger)
			if err != nil {
				return fmt.Errorf("initializing telemetry: %w", err)
			}
			metrics, err := infrastructure.NewPipelineMetrics(providers.Meter)
			if err != nil {
				return fmt.Errorf("creating pipeline metrics: %w", err)
			}

			hub := realtime.NewHub(logger)
			runnerOpts := []pipeline.Option{
				pipeline.WithBrowser(fetch.NewBrowser(cfg.Fetch.Timeout, logger)),
				pipeline.WithMetrics(metrics),
				pipeline.WithProgress(hub.Publish),
			}
			if cfg.Fetch.SheetsCredentialsFile != "" {
				sheetsFetcher, err := fetch.NewSheets(cmd.Context(), cfg.Fetch.SheetsCredentialsFile, logger)
				if err != nil {
					return fmt.Errorf("creating sheets fetcher: %w", err)
				}
				runnerOpts = append(runnerOpts, pipeline.WithSheets(sheetsFetcher))
			}
			runner := pipeline.NewRunner(fetch.New(cfg.Fetch, logger), logger, runnerOpts...)

			router := transporthttp.NewRouter(cfg.Server, transporthttp.RouterDeps{
				Runner:     runner,
				Logger:     logger,
				ProgressWS: hub,
				Metrics:    providers.PrometheusHTTP,
			})

			srv := &http.Server{
				Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
				Handler:      router,
				ReadTimeout:  cfg.Server.ReadTimeout,
				WriteTimeout: cfg.Server.WriteTimeout,
				IdleTimeout:  cfg.Server.IdleTimeout,
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			g, ctx := errgroup.WithContext(ctx)
			g.Go(func() error {
				logger.Info("http server listening", "addr", srv.Addr)
				if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
					return err
				}
				return nil
			})
			g.Go(func() error {
				<-ctx.Done()
				logger.Info("shutting down")
				shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
				defer cancel()
				hub.Close()
				if err := srv.Shutdown(shutdownCtx); err != nil {
					return fmt.Errorf("server shutdown: %w", err)
				}
				return providers.Shutdown(shutdownCtx)
			})
			return g.Wait()
		},
	}
	cmd.Flags().IntVarP(&port, "port", "p", 0, "listen port (overrides configuration)")
	return cmd
}
