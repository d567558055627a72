package exchange

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"SignalBot/internal/model"
)

// PaperExecutor simulates order execution without real broker calls.
type PaperExecutor struct {
	mu    sync.RWMutex
	fills []model.OrderConfirmation
}

// NewPaperExecutor creates a paper trading executor.
func NewPaperExecutor() *PaperExecutor {
	return &PaperExecutor{fills: make([]model.OrderConfirmation, 0, 64)}
}

func (p *PaperExecutor) Name() string { return "paper" }

// Submit fills the order immediately.
func (p *PaperExecutor) Submit(ctx context.Context, order model.OrderRequest) (*model.OrderConfirmation, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", model.ErrExecutionFailed, err)
	}
	fill := model.OrderConfirmation{
		OrderID:       "PAPER-" + uuid.NewString()[:8],
		ClientOrderID: uuid.NewString(),
		Symbol:        order.Symbol,
		Side:          order.Side,
		Quantity:      order.Quantity,
		Status:        "FILLED",
		Venue:         p.Name(),
		SubmittedAt:   time.Now(),
	}

	p.mu.Lock()
	p.fills = append(p.fills, fill)
	p.mu.Unlock()

	log.Info().
		Str("symbol", fill.Symbol).
		Str("side", string(fill.Side)).
		Str("qty", fill.Quantity.String()).
		Str("order_id", fill.OrderID).
		Msg("paper order filled")
	return &fill, nil
}

// Fills returns a snapshot of all fills.
func (p *PaperExecutor) Fills() []model.OrderConfirmation {
	p.mu.RLock()
	defer p.mu.RUnlock()
	cp := make([]model.OrderConfirmation, len(p.fills))
	copy(cp, p.fills)
	return cp
}
