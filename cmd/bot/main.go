package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"SignalBot/internal/collector"
	"SignalBot/internal/config"
	"SignalBot/internal/exchange"
	"SignalBot/internal/metrics"
	"SignalBot/internal/news"
	"SignalBot/internal/notifier"
	"SignalBot/internal/recorder"
	"SignalBot/internal/scheduler"
	"SignalBot/internal/strategy"
)

func main() {
	zerolog.TimeFieldFormat = time.RFC3339
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	log.Info().Msg("SignalBot starting")

	cfgPath := "configs/config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		cfgPath = v
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatal().Err(err).Msg("load config")
	}
	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("config validation")
	}
	if lvl, err := zerolog.ParseLevel(cfg.Log.Level); err == nil {
		zerolog.SetGlobalLevel(lvl)
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.NewMetrics(reg)

	ds := cfg.DataSource
	var fetcher collector.Fetcher
	switch ds.Provider {
	case "yahoo":
		fetcher = collector.NewYahooFetcher(cfg.Proxy, ds.Timeout)
	case "mock":
		fetcher = &collector.MockFetcher{Price: 60000}
	default:
		fetcher = collector.NewBinanceFetcher(ds.BaseURL, cfg.Proxy, ds.Timeout)
	}
	log.Info().Str("source", fetcher.Name()).Msg("data source ready")

	col := collector.NewCollector(fetcher, strategy.NewAnalyzer(cfg.Strategy.Lookback), ds.CandleLimit)
	col.Attempts = ds.FetchAttempts
	col.Backoff = ds.FetchBackoff
	col.Metrics = m

	var exec exchange.Executor
	if cfg.Exchange.Mode == config.ModeLive {
		exec = exchange.NewBinanceExecutor(cfg.Exchange.BaseURL, cfg.Exchange.APIKey, cfg.Exchange.APISecret, cfg.Proxy, ds.Timeout)
	} else {
		exec = exchange.NewPaperExecutor()
	}
	log.Info().Str("venue", exec.Name()).Msg("order executor ready")

	var ns scheduler.NewsSource
	if cfg.News.Enabled {
		ns = news.NewCoinGecko(cfg.News.BaseURL, cfg.Proxy)
	}

	tn := notifier.NewTelegramNotifier(cfg.Telegram.BotToken, cfg.Telegram.ChatID, cfg.Proxy)

	var rec recorder.Recorder
	if cfg.Database.SQLitePath != "" {
		sr, err := recorder.NewSQLiteRecorder(cfg.Database.SQLitePath)
		if err != nil {
			log.Warn().Err(err).Msg("init sqlite recorder failed, using noop")
			rec = recorder.NewNoopRecorder()
		} else {
			rec = sr
		}
	} else {
		rec = recorder.NewNoopRecorder()
	}
	defer rec.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var ms *metrics.Server
	if cfg.Metrics.Addr != "" {
		ms = metrics.NewServer(cfg.Metrics.Addr, reg)
		ms.Start()
	}

	sched := scheduler.NewScheduler(ctx, col, exec, ns, tn, rec, m)
	sched.BroadcastChat = cfg.Telegram.ChatID
	sched.AllowChats(cfg.Telegram.AllowedChats...)
	sched.DefaultSymbol = ds.Symbol
	sched.DefaultInterval = ds.Interval
	if err := sched.RegisterBroadcast(cfg.Schedule.SignalCron); err != nil {
		log.Fatal().Err(err).Msg("register cron tasks")
	}
	sched.Start()

	go tn.StartPolling(ctx, sched.HandleCommand)
	log.Info().Msg("telegram polling started")

	if os.Getenv("RUN_ON_START") == "true" {
		log.Info().Msg("RUN_ON_START enabled, broadcasting signal now")
		go sched.RunBroadcastNow()
	}

	log.Info().
		Str("symbol", ds.Symbol).
		Str("interval", ds.Interval).
		Int("lookback", cfg.Strategy.Lookback).
		Msg("SignalBot is running, press Ctrl+C to stop")

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	log.Info().Msg("shutdown signal received, stopping")
	cancel()
	sched.Stop()
	if ms != nil {
		shutdownCtx, done := context.WithTimeout(context.Background(), 5*time.Second)
		ms.Stop(shutdownCtx)
		done()
	}
	log.Info().Msg("SignalBot stopped")
}
