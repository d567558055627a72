package model

import "errors"

var (
	// ErrInsufficientData means the candle sequence is too short to compute
	// the requested indicators.
	ErrInsufficientData = errors.New("insufficient data")
	// ErrDataUnavailable means the candle source exhausted its retries.
	ErrDataUnavailable = errors.New("data unavailable")
	// ErrExecutionFailed means the order venue rejected or failed an order.
	ErrExecutionFailed = errors.New("execution failed")
	// ErrInvalidOrder means an order command failed validation.
	ErrInvalidOrder = errors.New("invalid order")
)
