package main

import (
	"context"
	"fmt"
	"io"
	"time"

	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/benz9527/xtree/lib/infra"
	"github.com/benz9527/xtree/lib/tree"
	"github.com/benz9527/xtree/observability"
	"github.com/benz9527/xtree/xlog"
)

const appName = "xtree"

type runtimeIO struct {
	out    io.Writer // display and console metrics
	logOut io.Writer // nil means the buffered stdout
}

// metricsReady is provided after the global meter provider installed,
// so the tree stats are bound to the exporter.
type metricsReady struct {
	enabled bool
}

func newLogger(lc fx.Lifecycle, cfg *config, rio runtimeIO) xlog.XLogger {
	opts := cfg.loggerOptions()
	if rio.logOut != nil {
		opts = append(opts, xlog.WithXLoggerWriter(rio.logOut))
	}
	logger := xlog.NewXLogger(opts...)
	lc.Append(fx.StopHook(func() {
		// Syncing stdout fails on some platforms, nothing left to report to.
		_ = logger.Close()
	}))
	return logger
}

func newMetrics(lc fx.Lifecycle, cfg *config, rio runtimeIO, logger xlog.XLogger) (metricsReady, error) {
	var (
		shutdown observability.ShutdownFunc
		err      error
	)
	switch cfg.stats {
	case statsConsole:
		shutdown, err = observability.NewConsoleMetricsExporter(rio.out, time.Minute, 5*time.Second)
	case statsPrometheus:
		shutdown, err = observability.NewPrometheusMetricsExporter()
	default:
		return metricsReady{}, nil
	}
	if err != nil {
		return metricsReady{}, infra.WrapErrorStack(err, "metrics exporter")
	}
	if err = observability.InitAppStats(appName); err != nil {
		return metricsReady{}, multierr.Append(
			infra.WrapErrorStack(err, "app stats"),
			shutdown(context.Background()),
		)
	}
	lc.Append(fx.StopHook(func(ctx context.Context) error {
		return shutdown(ctx)
	}))
	logger.Info("metrics exporter installed", zap.String("exporter", cfg.stats))
	return metricsReady{enabled: true}, nil
}

func newTree(lc fx.Lifecycle, m metricsReady) tree.OrderedTree[int64] {
	opts := make([]tree.BSTreeOpt[int64], 0, 1)
	if m.enabled {
		opts = append(opts, tree.WithBSTreeStats[int64](appName))
	}
	t := tree.NewBSTree[int64](opts...)
	lc.Append(fx.StopHook(t.Release))
	return t
}

func buildTree(cfg *config, t tree.OrderedTree[int64], logger xlog.XLogger) {
	if err := t.InsertAll(cfg.values...); err != nil {
		for _, e := range multierr.Errors(err) {
			logger.Warn("insert rejected", zap.String("reason", e.Error()))
		}
	}
	logger.Info("tree built",
		zap.Int64("len", t.Len()),
		zap.Int("height", t.Height()),
	)

	for _, v := range cfg.removes {
		if !t.Remove(v) {
			logger.Info("remove skipped, value absent", zap.Int64("value", v))
			continue
		}
		logger.Debug("value removed", zap.Int64("value", v))
	}
}

func run(lc fx.Lifecycle, cfg *config, rio runtimeIO, t tree.OrderedTree[int64], logger xlog.XLogger) {
	lc.Append(fx.StartHook(func() error {
		buildTree(cfg, t, logger)
		_, err := fmt.Fprintln(rio.out, t.String())
		return err
	}))
}

func appOptions(cfg *config, rio runtimeIO) fx.Option {
	return fx.Options(
		fx.Supply(cfg, rio),
		fx.WithLogger(func(logger xlog.XLogger) fxevent.Logger {
			return xlog.NewFxXLogger(logger)
		}),
		fx.Provide(
			newLogger,
			newMetrics,
			newTree,
		),
		fx.Invoke(run),
	)
}

func runApp(app *fx.App) error {
	startCtx, cancel := context.WithTimeout(context.Background(), app.StartTimeout())
	defer cancel()
	if err := app.Start(startCtx); err != nil {
		return err
	}

	stopCtx, cancel := context.WithTimeout(context.Background(), app.StopTimeout())
	defer cancel()
	return app.Stop(stopCtx)
}
