// Package news looks up recent project updates to show next to a signal.
// Lookups are best effort: failures are logged and yield no items.
package news

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	json "github.com/goccy/go-json"
	"github.com/rs/zerolog/log"

	"SignalBot/internal/httpx"
	"SignalBot/internal/model"
)

const defaultCoinGeckoURL = "https://api.coingecko.com/api/v3"

// quoteAssets are stripped from a trading pair to find the base coin.
var quoteAssets = []string{"USDT", "USDC", "BUSD", "FDUSD", "USD"}

// CoinGecko fetches status updates from the CoinGecko API.
type CoinGecko struct {
	BaseURL string
	Client  *http.Client
	Limit   int
	CoinIDs map[string]string // base asset -> CoinGecko coin id
}

// NewCoinGecko creates a client with optional proxy support.
func NewCoinGecko(baseURL, proxyURL string) *CoinGecko {
	if baseURL == "" {
		baseURL = defaultCoinGeckoURL
	}
	return &CoinGecko{
		BaseURL: strings.TrimRight(baseURL, "/"),
		Client:  httpx.NewClient(proxyURL, 10*time.Second),
		Limit:   3,
		CoinIDs: map[string]string{
			"BTC":  "bitcoin",
			"ETH":  "ethereum",
			"BNB":  "binancecoin",
			"SOL":  "solana",
			"XRP":  "ripple",
			"DOGE": "dogecoin",
			"ADA":  "cardano",
		},
	}
}

// BaseAsset strips the quote asset from a pair such as BTCUSDT.
func BaseAsset(pair string) string {
	pair = strings.ToUpper(pair)
	for _, q := range quoteAssets {
		if strings.HasSuffix(pair, q) && len(pair) > len(q) {
			return strings.TrimSuffix(pair, q)
		}
	}
	return pair
}

func (c *CoinGecko) coinID(pair string) string {
	base := BaseAsset(pair)
	if id, ok := c.CoinIDs[base]; ok {
		return id
	}
	return strings.ToLower(base)
}

type statusUpdates struct {
	StatusUpdates []struct {
		Description string `json:"description"`
		Category    string `json:"category"`
		CreatedAt   string `json:"created_at"`
		UserTitle   string `json:"user_title"`
		Project     struct {
			ID string `json:"id"`
		} `json:"project"`
	} `json:"status_updates"`
}

// Latest returns up to Limit recent updates for the pair's base coin.
func (c *CoinGecko) Latest(ctx context.Context, pair string) []model.NewsItem {
	items, err := c.fetch(ctx, c.coinID(pair))
	if err != nil {
		log.Warn().Err(err).Str("symbol", pair).Msg("fetch news failed")
		return nil
	}
	return items
}

func (c *CoinGecko) fetch(ctx context.Context, id string) ([]model.NewsItem, error) {
	endpoint := fmt.Sprintf("%s/coins/%s/status_updates", c.BaseURL, url.PathEscape(id))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("coingecko fetch: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("coingecko: status %d", resp.StatusCode)
	}

	var su statusUpdates
	if err := json.NewDecoder(resp.Body).Decode(&su); err != nil {
		return nil, fmt.Errorf("coingecko decode: %w", err)
	}

	items := make([]model.NewsItem, 0, c.Limit)
	for _, u := range su.StatusUpdates {
		if len(items) == c.Limit {
			break
		}
		items = append(items, model.NewsItem{
			Date:  u.CreatedAt,
			Title: headline(u.Description, u.Category),
			URL:   "https://www.coingecko.com/en/coins/" + id,
		})
	}
	return items, nil
}

func headline(description, category string) string {
	line, _, _ := strings.Cut(strings.TrimSpace(description), "\n")
	if r := []rune(line); len(r) > 80 {
		line = string(r[:77]) + "..."
	}
	if line == "" {
		return category
	}
	return line
}
