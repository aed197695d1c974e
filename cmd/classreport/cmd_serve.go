package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"classreport/internal/api"
	"classreport/internal/logging"
	"classreport/internal/metrics"
)

func newServeCmd(a *app) *cobra.Command {
	var flags struct {
		addr string
		data string
	}
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the report API over HTTP",
		Long: `Serve starts the HTTP API: record upload, filter options, report
generation (JSON and text), paginated record detail, xlsx export, /healthz
and /metrics. Records can be preloaded with --data.

SIGINT or SIGTERM triggers a graceful shutdown.`,
		Args: cobra.NoArgs,
	}
	cmd.Flags().StringVar(&flags.addr, "addr", "", "Listen address (default: listen_addr from config)")
	cmd.Flags().StringVar(&flags.data, "data", "", "Preload records from this file or directory")

	cmd.RunE = func(cmd *cobra.Command, _ []string) error {
		store, err := a.openStore(a.dataPath(flags.data), false)
		if err != nil {
			return err
		}
		addr := flags.addr
		if addr == "" {
			addr = a.cfg.ListenAddr
		}

		m := metrics.New()
		m.SetRecords(store.Len())
		gin.SetMode(gin.ReleaseMode)
		srv := api.New(store, api.Options{
			DefaultPageSize: a.cfg.DefaultPageSize,
			MaxPageSize:     a.cfg.MaxPageSize,
			MaxUploadBytes:  a.cfg.MaxUploadBytes,
			SheetNameLimit:  a.cfg.SheetNameLimit,
		}, m)
		httpSrv := &http.Server{Addr: addr, Handler: srv.Handler()}

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()
		log := logging.New("serve")

		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			log.Info("listening", "addr", addr, "records", store.Len(), "classes", a.cfg.Classes)
			if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		})
		g.Go(func() error {
			<-gctx.Done()
			log.Info("shutting down")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.ShutdownTimeout)
			defer cancel()
			return httpSrv.Shutdown(shutdownCtx)
		})
		return g.Wait()
	}
	return cmd
}
