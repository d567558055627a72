package collector

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"SignalBot/internal/model"
	"SignalBot/internal/strategy"
)

func newTestCollector(f Fetcher) *Collector {
	c := NewCollector(f, strategy.NewAnalyzer(100), 500)
	c.Backoff = time.Millisecond
	return c
}

func TestCandles_RetriesThenSucceeds(t *testing.T) {
	f := &MockFetcher{Price: 100, Err: errors.New("connection reset"), FailTimes: 2}
	c := newTestCollector(f)

	candles, err := c.Candles(context.Background(), "BTCUSDT", "1h")
	require.NoError(t, err)
	assert.Len(t, candles, 500)
	assert.Equal(t, 3, f.Calls)
}

func TestCandles_ExhaustedRetriesIsDataUnavailable(t *testing.T) {
	f := &MockFetcher{Err: errors.New("connection reset")}
	c := newTestCollector(f)

	_, err := c.Candles(context.Background(), "BTCUSDT", "1h")
	require.Error(t, err)
	assert.True(t, errors.Is(err, model.ErrDataUnavailable))
	assert.Equal(t, 3, f.Calls)
}

func TestCandles_PermanentErrorNotRetried(t *testing.T) {
	f := &MockFetcher{Err: &StatusError{Source: "binance", Code: http.StatusBadRequest, Body: "Invalid symbol."}}
	c := newTestCollector(f)

	_, err := c.Candles(context.Background(), "NOPE", "1h")
	require.Error(t, err)
	assert.False(t, errors.Is(err, model.ErrDataUnavailable))
	assert.Equal(t, 1, f.Calls)
}

func TestCandles_CancelledDuringBackoff(t *testing.T) {
	f := &MockFetcher{Err: errors.New("timeout")}
	c := newTestCollector(f)
	c.Backoff = time.Hour

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := c.Candles(ctx, "BTCUSDT", "1h")
	require.Error(t, err)
	assert.True(t, errors.Is(err, model.ErrDataUnavailable))
	assert.True(t, errors.Is(err, context.Canceled))
	assert.Equal(t, 1, f.Calls)
}

func TestStatusError_Transient(t *testing.T) {
	tests := []struct {
		code int
		want bool
	}{
		{http.StatusTooManyRequests, true},
		{http.StatusBadGateway, true},
		{http.StatusServiceUnavailable, true},
		{http.StatusBadRequest, false},
		{http.StatusNotFound, false},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprint(tt.code), func(t *testing.T) {
			assert.Equal(t, tt.want, (&StatusError{Code: tt.code}).Transient())
		})
	}
}

func TestNormalize_SortsAndDropsDuplicates(t *testing.T) {
	t0 := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	in := []model.Candle{
		{OpenTime: t0.Add(2 * time.Hour), Close: 3},
		{OpenTime: t0, Close: 1},
		{OpenTime: t0.Add(time.Hour), Close: 2},
		{OpenTime: t0.Add(time.Hour), Close: 9},
	}
	out := normalize(in)
	require.Len(t, out, 3)
	for i := 1; i < len(out); i++ {
		assert.True(t, out[i].OpenTime.After(out[i-1].OpenTime))
	}
	assert.Equal(t, []float64{1, 2, 3}, model.Closes(out))
}

func TestCollect_SinglePull(t *testing.T) {
	f := &MockFetcher{Price: 30000}
	c := newTestCollector(f)

	a, err := c.Collect(context.Background(), "btcusdt", "1h")
	require.NoError(t, err)
	assert.Equal(t, 1, f.Calls)
	assert.Equal(t, "BTCUSDT", a.Symbol)
	assert.Equal(t, "1h", a.Interval)
	assert.Equal(t, 500, a.CandleCount)
	assert.GreaterOrEqual(t, a.Backtest.WinRate, 0.0)
	assert.LessOrEqual(t, a.Backtest.WinRate, 100.0)
}

func TestCollect_TooFewCandles(t *testing.T) {
	f := &MockFetcher{Price: 100}
	c := newTestCollector(f)
	c.Limit = 10

	_, err := c.Collect(context.Background(), "BTCUSDT", "1h")
	require.Error(t, err)
	assert.True(t, errors.Is(err, model.ErrInsufficientData))
}

func TestBinanceFetcher_ParsesKlines(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/fapi/v1/klines", r.URL.Path)
		assert.Equal(t, "BTCUSDT", r.URL.Query().Get("symbol"))
		assert.Equal(t, "4h", r.URL.Query().Get("interval"))
		assert.Equal(t, "2", r.URL.Query().Get("limit"))
		w.Write([]byte(`[
			[1700000000000,"100.5","101.0","99.5","100.8","12.5",1700003599999,"1250.0",42,"6.0","600.0","0"],
			[1700003600000,"100.8","102.0","100.1","101.9","8.25",1700007199999,"830.0",31,"4.0","400.0","0"]
		]`))
	}))
	defer srv.Close()

	f := NewBinanceFetcher(srv.URL, "", 5*time.Second)
	candles, err := f.FetchCandles(context.Background(), "btcusdt", "4h", 2)
	require.NoError(t, err)
	require.Len(t, candles, 2)
	assert.Equal(t, time.UnixMilli(1700000000000).UTC(), candles[0].OpenTime)
	assert.Equal(t, 100.5, candles[0].Open)
	assert.Equal(t, 101.0, candles[0].High)
	assert.Equal(t, 99.5, candles[0].Low)
	assert.Equal(t, 100.8, candles[0].Close)
	assert.Equal(t, 12.5, candles[0].Volume)
	assert.Equal(t, 101.9, candles[1].Close)
}

func TestBinanceFetcher_StatusError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"code":-1121,"msg":"Invalid symbol."}`))
	}))
	defer srv.Close()

	f := NewBinanceFetcher(srv.URL, "", 5*time.Second)
	_, err := f.FetchCandles(context.Background(), "NOPE", "1h", 10)
	var se *StatusError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, http.StatusBadRequest, se.Code)
	assert.Equal(t, "Invalid symbol.", se.Body)
	assert.False(t, se.Transient())
}

func TestBinanceFetcher_MalformedKline(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[[1700000000000,"1"]]`))
	}))
	defer srv.Close()

	_, err := NewBinanceFetcher(srv.URL, "", time.Second).FetchCandles(context.Background(), "BTCUSDT", "1h", 1)
	assert.Error(t, err)
}

func TestYahooInterval(t *testing.T) {
	tests := []struct {
		interval string
		limit    int
		yi, rng  string
		wantErr  bool
	}{
		{"1h", 500, "60m", "1mo", false},
		{"1h", 1000, "60m", "730d", false},
		{"1d", 60, "1d", "6mo", false},
		{"1d", 500, "1d", "5y", false},
		{"1w", 100, "1wk", "10y", false},
		{"3h", 100, "", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.interval, func(t *testing.T) {
			yi, rng, err := yahooInterval(tt.interval, tt.limit)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.yi, yi)
			assert.Equal(t, tt.rng, rng)
		})
	}
}

func TestYahooFetcher_ParsesChartAndSkipsNullBars(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v8/finance/chart/BTC-USD", r.URL.Path)
		assert.Equal(t, "60m", r.URL.Query().Get("interval"))
		assert.Equal(t, "1mo", r.URL.Query().Get("range"))
		w.Write([]byte(`{"chart":{"result":[{
			"timestamp":[1700000000,1700003600,1700007200],
			"indicators":{"quote":[{
				"open":[100,null,102],
				"high":[101,null,103],
				"low":[99,null,101],
				"close":[100.5,null,102.5],
				"volume":[10,null,12]
			}]}
		}],"error":null}}`))
	}))
	defer srv.Close()

	f := NewYahooFetcher("", 5*time.Second)
	f.BaseURL = srv.URL
	candles, err := f.FetchCandles(context.Background(), "BTCUSDT", "1h", 100)
	require.NoError(t, err)
	require.Len(t, candles, 2)
	assert.Equal(t, time.Unix(1700000000, 0).UTC(), candles[0].OpenTime)
	assert.Equal(t, 100.5, candles[0].Close)
	assert.Equal(t, 102.5, candles[1].Close)
}

func TestYahooFetcher_APIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"chart":{"result":null,"error":{"code":"Not Found","description":"No data found, symbol may be delisted"}}}`))
	}))
	defer srv.Close()

	f := NewYahooFetcher("", 5*time.Second)
	f.BaseURL = srv.URL
	_, err := f.FetchCandles(context.Background(), "NOPE", "1d", 50)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "delisted")
}

func TestYahooFetcher_PartialNullBarSkipped(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"chart":{"result":[{
			"timestamp":[1700000000,1700086400,1700172800],
			"indicators":{"quote":[{
				"open":[10,11,12],
				"high":[12,13,14],
				"low":[9,10,11],
				"close":[11,null,13],
				"volume":[5,6,null]
			}]}
		}],"error":null}}`))
	}))
	defer srv.Close()

	f := NewYahooFetcher("", 5*time.Second)
	f.BaseURL = srv.URL
	candles, err := f.FetchCandles(context.Background(), "BTCUSDT", "1d", 50)
	require.NoError(t, err)
	require.Len(t, candles, 2)
	for _, c := range candles {
		assert.NotZero(t, c.Close)
	}
	assert.Equal(t, 11.0, candles[0].Close)
	assert.Equal(t, 13.0, candles[1].Close)
	assert.Zero(t, candles[1].Volume)
}
