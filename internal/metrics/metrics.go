package metrics

import (
	"context"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"

	"SignalBot/internal/model"
)

// Metrics holds the bot's Prometheus collectors. A nil *Metrics is valid and
// records nothing.
type Metrics struct {
	CommandsTotal    *prometheus.CounterVec // labels: command
	FetchTotal       *prometheus.CounterVec // labels: source, result
	FetchDur         prometheus.Histogram
	AnalysisDur      prometheus.Histogram
	PlansTotal       *prometheus.CounterVec // labels: direction
	OrdersTotal      *prometheus.CounterVec // labels: venue, result
	NotificationsErr prometheus.Counter
}

// NewMetrics creates the collectors and registers them with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		CommandsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "signalbot_commands_total",
			Help: "Chat commands handled",
		}, []string{"command"}),
		FetchTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "signalbot_candle_fetch_total",
			Help: "Candle fetch attempts by source and result",
		}, []string{"source", "result"}),
		FetchDur: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "signalbot_candle_fetch_duration_seconds",
			Help:    "Candle fetch latency",
			Buckets: prometheus.DefBuckets,
		}),
		AnalysisDur: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "signalbot_analysis_duration_seconds",
			Help:    "Indicator, signal, backtest and plan computation time",
			Buckets: prometheus.ExponentialBuckets(0.0001, 4, 8),
		}),
		PlansTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "signalbot_plans_total",
			Help: "Trade plans produced by direction",
		}, []string{"direction"}),
		OrdersTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "signalbot_orders_total",
			Help: "Orders submitted by venue and result",
		}, []string{"venue", "result"}),
		NotificationsErr: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "signalbot_notification_errors_total",
			Help: "Telegram sends that failed after retries",
		}),
	}

	reg.MustRegister(
		m.CommandsTotal,
		m.FetchTotal,
		m.FetchDur,
		m.AnalysisDur,
		m.PlansTotal,
		m.OrdersTotal,
		m.NotificationsErr,
	)
	return m
}

func result(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}

func (m *Metrics) ObserveCommand(command string) {
	if m == nil {
		return
	}
	m.CommandsTotal.WithLabelValues(command).Inc()
}

func (m *Metrics) ObserveFetch(source string, d time.Duration, err error) {
	if m == nil {
		return
	}
	m.FetchTotal.WithLabelValues(source, result(err)).Inc()
	m.FetchDur.Observe(d.Seconds())
}

func (m *Metrics) ObserveAnalysis(d time.Duration, direction model.Signal) {
	if m == nil {
		return
	}
	m.AnalysisDur.Observe(d.Seconds())
	m.PlansTotal.WithLabelValues(string(direction)).Inc()
}

func (m *Metrics) ObserveOrder(venue string, err error) {
	if m == nil {
		return
	}
	m.OrdersTotal.WithLabelValues(venue, result(err)).Inc()
}

func (m *Metrics) ObserveNotificationError() {
	if m == nil {
		return
	}
	m.NotificationsErr.Inc()
}

// Server runs an HTTP server exposing /metrics and /healthz.
type Server struct {
	addr    string
	started time.Time
	srv     *http.Server
}

// NewServer creates a metrics and health server serving collectors from g.
func NewServer(addr string, g prometheus.Gatherer) *Server {
	s := &Server{addr: addr, started: time.Now()}
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(g, promhttp.HandlerOpts{}))
	mux.HandleFunc("/healthz", s.healthz)
	s.srv = &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	return s
}

// Handler exposes the routes for in-process use.
func (s *Server) Handler() http.Handler { return s.srv.Handler }

func (s *Server) healthz(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`{"status":"ok","uptime":"` + time.Since(s.started).Truncate(time.Second).String() + `"}`))
}

// Start launches the HTTP server in a goroutine.
func (s *Server) Start() {
	go func() {
		log.Info().Str("addr", s.addr).Msg("metrics server listening")
		if err := s.srv.ListenAndServe(); err != http.ErrServerClosed {
			log.Error().Err(err).Msg("metrics server error")
		}
	}()
}

// Stop gracefully shuts down the metrics server.
func (s *Server) Stop(ctx context.Context) {
	if err := s.srv.Shutdown(ctx); err != nil {
		log.Warn().Err(err).Msg("metrics server shutdown")
	}
}
