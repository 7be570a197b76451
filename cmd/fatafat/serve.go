package main

import (
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/danielpatrickdp/fatafat-forecast/internal/api"
	"github.com/danielpatrickdp/fatafat-forecast/internal/rpc"
	"github.com/danielpatrickdp/fatafat-forecast/internal/watch"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API, the gRPC service and the history watcher",
	Long: `Serves predictions until interrupted:
  HTTP  server.http_addr   /api/*, /healthz, /metrics
  gRPC  server.grpc_addr   fatafat.v1.Forecast + grpc.health.v1 (skipped when empty)
  watch storage.history_file reloads on change (when watch.enabled)`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	p, store, err := openPredictor(cfg, logger)
	if err != nil {
		return err
	}
	defer store.Close()

	logger.Info("history loaded",
		zap.Int("observations", p.History().Len()),
		zap.String("timezone", p.Location().String()))

	g, ctx := errgroup.WithContext(ctx)

	router := api.NewRouter(p, api.Options{Logger: logger.Named("http")})
	g.Go(func() error {
		return api.Serve(ctx, cfg.Server.HTTPAddr, router, logger.Named("http"))
	})

	if cfg.Server.GRPCAddr != "" {
		srv := rpc.NewServer(p, time.Now)
		g.Go(func() error {
			return rpc.Serve(ctx, cfg.Server.GRPCAddr, srv, logger.Named("grpc"))
		})
	}

	if cfg.Watch.Enabled {
		w, err := watch.New(cfg.Storage.HistoryFile, p, cfg.Watcher(), logger.Named("watch"))
		if err != nil {
			return err
		}
		g.Go(func() error {
			return w.Run(ctx)
		})
	}

	if err := g.Wait(); err != nil {
		logger.Error("server stopped", zap.Error(err))
		return err
	}
	logger.Info("stopped")
	return nil
}
