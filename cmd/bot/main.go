package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"

	"tweetwatch/internal/bot"
	"tweetwatch/internal/config"
	"tweetwatch/internal/dedup"
	"tweetwatch/internal/filter"
	"tweetwatch/internal/metrics"
	"tweetwatch/internal/resolver"
	"tweetwatch/internal/scheduler"
	"tweetwatch/internal/server"
	"tweetwatch/internal/watch"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("load config", "error", err)
		os.Exit(1)
	}

	log := newLogger(cfg.LogLevel)

	reg := watch.NewRegistry()
	ledger := dedup.New()
	res := resolver.New(http.DefaultClient, cfg.NitterMirrors, log)
	svc := watch.NewService(reg, res, ledger, log)

	b, err := bot.New(svc, reg, cfg, log)
	if err != nil {
		log.Error("create bot", "error", err)
		os.Exit(1)
	}

	sched := scheduler.New(reg, ledger, res, b, filter.IsRetweet, log)
	sched.SetTickInterval(cfg.TickInterval)
	sched.SetPacing(cfg.AccountDelay, cfg.ChannelDelay)
	b.SetScheduler(sched)

	metrics.MustRegister(prometheus.DefaultRegisterer)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if cfg.MetricsAddr != "" {
		server.Start(ctx, cfg.MetricsAddr, log)
	}

	log.Info("starting bot")

	go sched.Run(ctx)

	if err := b.Run(ctx); err != nil {
		log.Error("run bot", "error", err)
		os.Exit(1)
	}

	log.Info("bot stopped")
}

func newLogger(level string) *slog.Logger {
	var lvl slog.Level
	switch strings.ToLower(level) {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl}))
}
