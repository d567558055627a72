package recorder

import "time"

// OrderEvent is one order attempt, accepted or failed.
type OrderEvent struct {
	Timestamp     time.Time
	Venue         string
	Symbol        string
	Side          string
	Quantity      string
	OrderID       string
	ClientOrderID string
	Status        string // venue status, or "FAILED"
	Error         string
}

// Recorder journals order attempts for audit.
type Recorder interface {
	RecordOrder(evt *OrderEvent) error
	RecentOrders(limit int) ([]OrderEvent, error)
	Close() error
}
