package collector

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/tidwall/gjson"

	"SignalBot/internal/httpx"
	"SignalBot/internal/model"
)

const defaultBinanceFuturesURL = "https://fapi.binance.com"

// BinanceFetcher implements Fetcher using the Binance USD-M futures klines endpoint.
type BinanceFetcher struct {
	BaseURL string
	Client  *http.Client
}

// NewBinanceFetcher creates a fetcher with optional proxy support.
func NewBinanceFetcher(baseURL, proxyURL string, timeout time.Duration) *BinanceFetcher {
	if baseURL == "" {
		baseURL = defaultBinanceFuturesURL
	}
	return &BinanceFetcher{
		BaseURL: strings.TrimRight(baseURL, "/"),
		Client:  httpx.NewClient(proxyURL, timeout),
	}
}

func (f *BinanceFetcher) Name() string { return "binance" }

// FetchCandles pulls the most recent limit klines. Each kline arrives as a
// heterogeneous array: [openTime, "open", "high", "low", "close", "volume", ...].
func (f *BinanceFetcher) FetchCandles(ctx context.Context, symbol, interval string, limit int) ([]model.Candle, error) {
	q := url.Values{}
	q.Set("symbol", strings.ToUpper(symbol))
	q.Set("interval", interval)
	q.Set("limit", strconv.Itoa(limit))
	endpoint := fmt.Sprintf("%s/fapi/v1/klines?%s", f.BaseURL, q.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	resp, err := f.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("binance fetch: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("binance read body: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		msg := gjson.GetBytes(body, "msg").String()
		if msg == "" {
			msg = string(body)
		}
		return nil, &StatusError{Source: "binance", Code: resp.StatusCode, Body: msg}
	}
	if !gjson.ValidBytes(body) {
		return nil, fmt.Errorf("binance decode: invalid json")
	}

	rows := gjson.ParseBytes(body).Array()
	candles := make([]model.Candle, 0, len(rows))
	for _, row := range rows {
		fields := row.Array()
		if len(fields) < 6 {
			return nil, fmt.Errorf("binance decode: kline has %d fields", len(fields))
		}
		candles = append(candles, model.Candle{
			OpenTime: time.UnixMilli(fields[0].Int()).UTC(),
			Open:     fields[1].Float(),
			High:     fields[2].Float(),
			Low:      fields[3].Float(),
			Close:    fields[4].Float(),
			Volume:   fields[5].Float(),
		})
	}
	return candles, nil
}
