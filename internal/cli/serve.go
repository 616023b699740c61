package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/idilsaglam/todolist/internal/liststore"
	"github.com/idilsaglam/todolist/internal/logging"
	"github.com/idilsaglam/todolist/internal/metrics"
	"github.com/idilsaglam/todolist/internal/rpc"
)

func (a *app) serveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the list server (JSON-RPC on /rpc, /healthz, /metrics)",
		Long: `serve holds the list in memory for as long as the process runs.
Stopping the server discards the list.`,
		Args: usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return a.serve(ctx)
		},
	}
	f := cmd.Flags()
	f.String("addr", "", "listen address (overrides server.addr)")
	f.String("log-format", "", "log format: json | console")
	f.String("log-level", "", "log level: debug | info | warn | error")
	_ = a.v.BindPFlag("server.addr", f.Lookup("addr"))
	_ = a.v.BindPFlag("log.format", f.Lookup("log-format"))
	_ = a.v.BindPFlag("log.level", f.Lookup("log-level"))
	return cmd
}

func (a *app) serve(ctx context.Context) error {
	logger, err := logging.New(a.cfg.Log.Level, a.cfg.Log.Format, a.verbose)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	store := liststore.New()

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	opts := rpc.OptionsFrom(a.cfg.Server)
	opts.Logger = logger
	opts.Metrics = metrics.New(reg, store.Len)
	opts.Gatherer = reg

	srv := rpc.NewServer(store, opts)
	logger.Info("todo server starting",
		zap.String("addr", srv.Addr()),
		zap.Bool("rate_limit", a.cfg.Server.RateLimit.Enabled))
	if err := srv.Run(ctx); err != nil {
		logger.Error("todo server failed", zap.Error(err))
		return err
	}
	logger.Info("todo server stopped")
	return nil
}
