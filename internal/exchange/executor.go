// Package exchange submits market orders to an execution venue. Orders are
// never retried: a failure is reported back to the user as is.
package exchange

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"SignalBot/internal/model"
)

// Executor places market orders.
type Executor interface {
	Submit(ctx context.Context, order model.OrderRequest) (*model.OrderConfirmation, error)
	Name() string
}

var validate = validator.New()

// NewOrderRequest parses and validates the raw fields of an order command.
func NewOrderRequest(symbol, side, quantity string) (model.OrderRequest, error) {
	qty, err := decimal.NewFromString(strings.TrimSpace(quantity))
	if err != nil {
		return model.OrderRequest{}, fmt.Errorf("%w: quantity %q: %v", model.ErrInvalidOrder, quantity, err)
	}
	if !qty.IsPositive() {
		return model.OrderRequest{}, fmt.Errorf("%w: quantity must be positive", model.ErrInvalidOrder)
	}

	req := model.OrderRequest{
		Symbol:   strings.ToUpper(strings.TrimSpace(symbol)),
		Side:     model.Side(strings.ToUpper(strings.TrimSpace(side))),
		Quantity: qty,
	}
	if err := validate.Struct(req); err != nil {
		return model.OrderRequest{}, fmt.Errorf("%w: %v", model.ErrInvalidOrder, err)
	}
	return req, nil
}
