package collector

import (
	"context"
	"fmt"
	"net/http"

	"SignalBot/internal/model"
)

// Fetcher defines the interface for pulling candle batches.
type Fetcher interface {
	FetchCandles(ctx context.Context, symbol, interval string, limit int) ([]model.Candle, error)
	Name() string
}

// StatusError is a non-200 reply from a candle source.
type StatusError struct {
	Source string
	Code   int
	Body   string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s: status %d, body: %s", e.Source, e.Code, e.Body)
}

// Transient reports whether a later attempt may succeed.
func (e *StatusError) Transient() bool {
	return e.Code == http.StatusTooManyRequests || e.Code >= 500
}
