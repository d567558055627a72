package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Side is the direction of a market order.
type Side string

const (
	SideBuy  Side = "BUY"
	SideSell Side = "SELL"
)

// OrderRequest is a market order as submitted by a user command.
type OrderRequest struct {
	Symbol   string          `validate:"required,alphanum,min=5,max=20"`
	Side     Side            `validate:"required,oneof=BUY SELL"`
	Quantity decimal.Decimal `validate:"-"`
}

// StatusUnconfirmed marks an order the venue accepted whose reply could not
// be read. The client order id is the only handle to look it up.
const StatusUnconfirmed = "UNCONFIRMED"

// OrderConfirmation is returned by the execution venue on acceptance.
type OrderConfirmation struct {
	OrderID       string
	ClientOrderID string
	Symbol        string
	Side          Side
	Quantity      decimal.Decimal
	Status        string
	Venue         string
	SubmittedAt   time.Time
}

// NewsItem is a short project update shown next to a signal.
type NewsItem struct {
	Date  string
	Title string
	URL   string
}
