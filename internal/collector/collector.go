package collector

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"SignalBot/internal/metrics"
	"SignalBot/internal/model"
	"SignalBot/internal/strategy"
)

// Collector pulls one candle batch per request, retrying transient source
// failures, and runs the analysis over that batch.
type Collector struct {
	Fetcher  Fetcher
	Analyzer *strategy.Analyzer
	Limit    int
	Attempts int
	Backoff  time.Duration
	Metrics  *metrics.Metrics
}

// NewCollector creates a Collector with three attempts and a one second backoff.
func NewCollector(fetcher Fetcher, analyzer *strategy.Analyzer, limit int) *Collector {
	return &Collector{
		Fetcher:  fetcher,
		Analyzer: analyzer,
		Limit:    limit,
		Attempts: 3,
		Backoff:  time.Second,
	}
}

// Collect fetches candles for symbol/interval and analyzes them.
func (c *Collector) Collect(ctx context.Context, symbol, interval string) (*model.Analysis, error) {
	candles, err := c.Candles(ctx, symbol, interval)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	analysis, err := c.Analyzer.Analyze(candles)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", symbol, interval, err)
	}
	analysis.Symbol = strings.ToUpper(symbol)
	analysis.Interval = interval
	c.Metrics.ObserveAnalysis(time.Since(start), analysis.Plan.Direction)
	return analysis, nil
}

// Candles returns an ordered candle batch. Exhausted retries surface as
// ErrDataUnavailable; non-transient source errors are returned at once.
func (c *Collector) Candles(ctx context.Context, symbol, interval string) ([]model.Candle, error) {
	attempts := max(c.Attempts, 1)
	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		start := time.Now()
		candles, err := c.Fetcher.FetchCandles(ctx, symbol, interval, c.Limit)
		c.Metrics.ObserveFetch(c.Fetcher.Name(), time.Since(start), err)
		if err == nil {
			return normalize(candles), nil
		}
		lastErr = err

		var se *StatusError
		if errors.As(err, &se) && !se.Transient() {
			return nil, fmt.Errorf("fetch %s %s: %w", symbol, interval, err)
		}
		log.Warn().Err(err).
			Str("source", c.Fetcher.Name()).
			Str("symbol", symbol).
			Str("interval", interval).
			Int("attempt", attempt).
			Msg("fetch candles failed")

		if attempt == attempts {
			break
		}
		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("fetch %s %s: %w: %w", symbol, interval, model.ErrDataUnavailable, ctx.Err())
		case <-time.After(c.Backoff):
		}
	}
	return nil, fmt.Errorf("fetch %s %s after %d attempts: %w: %w",
		symbol, interval, attempts, model.ErrDataUnavailable, lastErr)
}

// normalize sorts bars chronologically and keeps the first bar of each
// open time so the sequence is strictly increasing.
func normalize(candles []model.Candle) []model.Candle {
	sort.SliceStable(candles, func(i, j int) bool { return candles[i].OpenTime.Before(candles[j].OpenTime) })
	out := candles[:0]
	for i, c := range candles {
		if i > 0 && !c.OpenTime.After(out[len(out)-1].OpenTime) {
			continue
		}
		out = append(out, c)
	}
	return out
}

// MockFetcher returns controllable fixed data for development and testing.
type MockFetcher struct {
	Price   float64
	Candles []model.Candle
	Err     error
	// FailTimes makes the first calls fail with Err before succeeding.
	FailTimes int
	Calls     int
}

func (m *MockFetcher) Name() string { return "mock" }

func (m *MockFetcher) FetchCandles(_ context.Context, _, _ string, limit int) ([]model.Candle, error) {
	m.Calls++
	if m.Err != nil && (m.FailTimes == 0 || m.Calls <= m.FailTimes) {
		return nil, m.Err
	}
	if m.Candles != nil {
		out := make([]model.Candle, len(m.Candles))
		copy(out, m.Candles)
		return out, nil
	}
	return generateMockCandles(m.Price, limit), nil
}

// generateMockCandles produces a choppy series that dips and then recovers.
func generateMockCandles(basePrice float64, count int) []model.Candle {
	candles := make([]model.Candle, count)
	start := time.Now().UTC().Truncate(time.Hour).Add(-time.Duration(count) * time.Hour)
	p := basePrice
	for i := 0; i < count; i++ {
		step := basePrice * 0.001
		switch {
		case i < count/2 && i%2 == 0:
			p -= 2 * step
		case i < count/2:
			p += step
		case i%2 == 0:
			p += 3 * step
		default:
			p -= 2 * step
		}
		candles[i] = model.Candle{
			OpenTime: start.Add(time.Duration(i) * time.Hour),
			Open:     p * 0.999,
			High:     p * 1.005,
			Low:      p * 0.995,
			Close:    p,
			Volume:   1000000,
		}
	}
	return candles
}
