package exchange

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	json "github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"SignalBot/internal/httpx"
	"SignalBot/internal/model"
)

const defaultFuturesURL = "https://fapi.binance.com"

// BinanceExecutor places MARKET orders on Binance USD-M futures.
type BinanceExecutor struct {
	BaseURL    string
	APIKey     string
	APISecret  string
	RecvWindow time.Duration
	Client     *http.Client
	Now        func() time.Time
}

// NewBinanceExecutor creates an executor with optional proxy support.
func NewBinanceExecutor(baseURL, apiKey, apiSecret, proxyURL string, timeout time.Duration) *BinanceExecutor {
	if baseURL == "" {
		baseURL = defaultFuturesURL
	}
	return &BinanceExecutor{
		BaseURL:    strings.TrimRight(baseURL, "/"),
		APIKey:     apiKey,
		APISecret:  apiSecret,
		RecvWindow: 5 * time.Second,
		Client:     httpx.NewClient(proxyURL, timeout),
		Now:        time.Now,
	}
}

func (e *BinanceExecutor) Name() string { return "binance" }

type binanceOrder struct {
	OrderID       int64  `json:"orderId"`
	ClientOrderID string `json:"clientOrderId"`
	Symbol        string `json:"symbol"`
	Side          string `json:"side"`
	Status        string `json:"status"`
	OrigQty       string `json:"origQty"`
}

type binanceError struct {
	Code int    `json:"code"`
	Msg  string `json:"msg"`
}

// Submit sends a signed MARKET order. Any failure wraps ErrExecutionFailed; an
// accepted order whose reply cannot be decoded is returned as StatusUnconfirmed.
func (e *BinanceExecutor) Submit(ctx context.Context, order model.OrderRequest) (*model.OrderConfirmation, error) {
	clientID := "sb-" + strings.ReplaceAll(uuid.NewString(), "-", "")[:24]
	params := url.Values{}
	params.Set("symbol", order.Symbol)
	params.Set("side", string(order.Side))
	params.Set("type", "MARKET")
	params.Set("quantity", order.Quantity.String())
	params.Set("newClientOrderId", clientID)
	params.Set("recvWindow", strconv.FormatInt(e.RecvWindow.Milliseconds(), 10))
	params.Set("timestamp", strconv.FormatInt(e.Now().UnixMilli(), 10))
	payload := params.Encode()
	payload += "&signature=" + sign(e.APISecret, payload)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.BaseURL+"/fapi/v1/order", strings.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("%w: build request: %v", model.ErrExecutionFailed, err)
	}
	req.Header.Set("X-MBX-APIKEY", e.APIKey)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := e.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", model.ErrExecutionFailed, err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: read response: %v", model.ErrExecutionFailed, err)
	}

	if resp.StatusCode != http.StatusOK {
		var be binanceError
		if json.Unmarshal(body, &be) == nil && be.Msg != "" {
			return nil, fmt.Errorf("%w: binance %d: %s", model.ErrExecutionFailed, be.Code, be.Msg)
		}
		return nil, fmt.Errorf("%w: binance status %d: %s", model.ErrExecutionFailed, resp.StatusCode, string(body))
	}

	var bo binanceOrder
	if err := json.Unmarshal(body, &bo); err != nil {
		log.Warn().Err(err).
			Str("symbol", order.Symbol).
			Str("client_order_id", clientID).
			Msg("binance accepted order but the reply is unreadable")
		return &model.OrderConfirmation{
			ClientOrderID: clientID,
			Symbol:        order.Symbol,
			Side:          order.Side,
			Quantity:      order.Quantity,
			Status:        model.StatusUnconfirmed,
			Venue:         e.Name(),
			SubmittedAt:   e.Now(),
		}, nil
	}
	qty, err := decimal.NewFromString(bo.OrigQty)
	if err != nil {
		qty = order.Quantity
	}

	log.Info().
		Str("symbol", bo.Symbol).
		Str("side", bo.Side).
		Int64("order_id", bo.OrderID).
		Str("status", bo.Status).
		Msg("binance order accepted")

	return &model.OrderConfirmation{
		OrderID:       strconv.FormatInt(bo.OrderID, 10),
		ClientOrderID: bo.ClientOrderID,
		Symbol:        bo.Symbol,
		Side:          model.Side(bo.Side),
		Quantity:      qty,
		Status:        bo.Status,
		Venue:         e.Name(),
		SubmittedAt:   e.Now(),
	}, nil
}

func sign(secret, payload string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(payload))
	return hex.EncodeToString(mac.Sum(nil))
}
