package scheduler

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"

	"SignalBot/internal/collector"
	"SignalBot/internal/exchange"
	"SignalBot/internal/metrics"
	"SignalBot/internal/model"
	"SignalBot/internal/notifier"
	"SignalBot/internal/recorder"
)

const historyLimit = 10

var knownCommands = map[string]bool{
	"/start": true, "/help": true, "/signal": true, "/order": true, "/orders": true,
}

// Messenger delivers replies and broadcasts.
type Messenger interface {
	SendWithRetry(ctx context.Context, chatID, text string, maxRetries int) error
}

// NewsSource returns recent headlines for a trading pair. Failures yield no items.
type NewsSource interface {
	Latest(ctx context.Context, pair string) []model.NewsItem
}

// Scheduler runs the periodic signal broadcast and answers chat commands.
type Scheduler struct {
	Cron      *cron.Cron
	Collector *collector.Collector
	Executor  exchange.Executor
	News      NewsSource
	Messenger Messenger
	Recorder  recorder.Recorder
	Metrics   *metrics.Metrics

	// TradingChats may use /order and /orders. Empty means no chat may.
	TradingChats map[string]bool

	BroadcastChat   string
	DefaultSymbol   string
	DefaultInterval string
	Ctx             context.Context
}

// NewScheduler creates a new Scheduler. news and m may be nil.
func NewScheduler(ctx context.Context, col *collector.Collector, exec exchange.Executor, news NewsSource,
	msg Messenger, rec recorder.Recorder, m *metrics.Metrics) *Scheduler {
	return &Scheduler{
		Cron:            cron.New(cron.WithSeconds()),
		Collector:       col,
		Executor:        exec,
		News:            news,
		Messenger:       msg,
		Recorder:        rec,
		Metrics:         m,
		DefaultSymbol:   "BTCUSDT",
		DefaultInterval: "1h",
		Ctx:             ctx,
	}
}

// AllowChats grants the given chat ids order rights.
func (s *Scheduler) AllowChats(ids ...string) {
	if s.TradingChats == nil {
		s.TradingChats = make(map[string]bool, len(ids))
	}
	for _, id := range ids {
		s.TradingChats[id] = true
	}
}

// RegisterBroadcast schedules the default signal report. An empty spec disables it.
func (s *Scheduler) RegisterBroadcast(spec string) error {
	if spec == "" {
		return nil
	}
	if _, err := s.Cron.AddFunc(spec, s.broadcastTask); err != nil {
		return fmt.Errorf("register broadcast task: %w", err)
	}
	return nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.Cron.Start()
	log.Info().Int("jobs", len(s.Cron.Entries())).Msg("scheduler started")
}

// Stop stops the cron scheduler and waits for running jobs.
func (s *Scheduler) Stop() {
	<-s.Cron.Stop().Done()
	log.Info().Msg("scheduler stopped")
}

// RunBroadcastNow executes the broadcast task immediately.
func (s *Scheduler) RunBroadcastNow() {
	s.broadcastTask()
}

func (s *Scheduler) broadcastTask() {
	log.Info().Str("symbol", s.DefaultSymbol).Str("interval", s.DefaultInterval).Msg("running scheduled signal")
	report := s.signalReport(s.Ctx, s.DefaultSymbol, s.DefaultInterval)
	s.trySend(s.BroadcastChat, report)
}

// HandleCommand processes a chat command and returns the reply. Plain text
// that is not a command gets no reply.
func (s *Scheduler) HandleCommand(ctx context.Context, chatID, text string) string {
	fields := strings.Fields(text)
	if len(fields) == 0 || !strings.HasPrefix(fields[0], "/") {
		return ""
	}
	// Group chats address commands as /signal@BotName.
	command, _, _ := strings.Cut(strings.ToLower(fields[0]), "@")
	args := fields[1:]
	if knownCommands[command] {
		s.Metrics.ObserveCommand(command)
	} else {
		s.Metrics.ObserveCommand("other")
	}

	switch command {
	case "/start", "/help":
		return notifier.HelpText
	case "/signal":
		symbol, interval := s.DefaultSymbol, s.DefaultInterval
		if len(args) > 0 {
			symbol = strings.ToUpper(args[0])
		}
		if len(args) > 1 {
			interval = args[1]
		}
		return s.signalReport(ctx, symbol, interval)
	case "/order":
		if !s.TradingChats[chatID] {
			log.Warn().Str("chat_id", chatID).Msg("order command from unauthorized chat")
			return notifier.NotAllowed
		}
		if len(args) != 3 {
			return notifier.OrderUsage
		}
		return s.placeOrder(ctx, chatID, args[0], args[1], args[2])
	case "/orders":
		if !s.TradingChats[chatID] {
			log.Warn().Str("chat_id", chatID).Msg("order history from unauthorized chat")
			return notifier.NotAllowed
		}
		events, err := s.Recorder.RecentOrders(historyLimit)
		if err != nil {
			log.Error().Err(err).Msg("load order history")
			return "Order history is unavailable."
		}
		return notifier.FormatOrderHistory(events)
	default:
		return notifier.HelpText
	}
}

func (s *Scheduler) signalReport(ctx context.Context, symbol, interval string) string {
	analysis, err := s.Collector.Collect(ctx, symbol, interval)
	switch {
	case errors.Is(err, model.ErrInsufficientData):
		log.Warn().Err(err).Str("symbol", symbol).Msg("not enough history")
		return notifier.FormatInsufficientData(symbol, interval)
	case err != nil:
		log.Error().Err(err).Str("symbol", symbol).Str("interval", interval).Msg("collect signal")
		return notifier.FormatDataUnavailable(symbol)
	}

	var news []model.NewsItem
	if s.News != nil {
		news = s.News.Latest(ctx, symbol)
	}
	log.Info().
		Str("symbol", analysis.Symbol).
		Str("interval", analysis.Interval).
		Str("signal", string(analysis.Plan.Direction)).
		Float64("win_rate", analysis.Backtest.WinRate).
		Msg("signal computed")
	return notifier.FormatSignalReport(analysis, news)
}

func (s *Scheduler) placeOrder(ctx context.Context, chatID, symbol, side, qty string) string {
	order, err := exchange.NewOrderRequest(symbol, side, qty)
	if err != nil {
		log.Warn().Err(err).Str("chat_id", chatID).Msg("rejected order command")
		return notifier.OrderUsage
	}

	conf, err := s.Executor.Submit(ctx, order)
	s.Metrics.ObserveOrder(s.Executor.Name(), err)

	evt := &recorder.OrderEvent{
		Timestamp: time.Now(),
		Venue:     s.Executor.Name(),
		Symbol:    order.Symbol,
		Side:      string(order.Side),
		Quantity:  order.Quantity.String(),
	}
	if err != nil {
		evt.Status = "FAILED"
		evt.Error = err.Error()
	} else {
		evt.OrderID = conf.OrderID
		evt.ClientOrderID = conf.ClientOrderID
		evt.Status = conf.Status
	}
	if recErr := s.Recorder.RecordOrder(evt); recErr != nil {
		log.Error().Err(recErr).Msg("record order")
	}

	if err != nil {
		log.Error().Err(err).Str("chat_id", chatID).Str("symbol", order.Symbol).Msg("order failed")
		return notifier.FormatOrderFailed(err)
	}
	return notifier.FormatOrderConfirmation(conf)
}

func (s *Scheduler) trySend(chatID, text string) {
	if chatID == "" {
		log.Warn().Msg("no broadcast chat configured, dropping scheduled report")
		return
	}
	if err := s.Messenger.SendWithRetry(s.Ctx, chatID, text, 3); err != nil {
		s.Metrics.ObserveNotificationError()
		log.Error().Err(err).Str("chat_id", chatID).Msg("send notification")
	}
}
