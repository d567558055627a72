package calculator

import (
	"errors"

	"SignalBot/internal/model"
)

// EMA computes the exponential moving average series of prices.
// The first defined value sits at index period-1 and is the simple average of
// the first period prices; later values follow ema = p*k + prev*(1-k) with
// k = 2/(period+1).
func EMA(prices []float64, period int) ([]model.Reading, error) {
	if period <= 0 {
		return nil, errors.New("period must be positive")
	}
	out := make([]model.Reading, len(prices))
	if len(prices) < period {
		return out, nil
	}

	seed, err := SMA(prices[:period], period)
	if err != nil {
		return nil, err
	}
	out[period-1] = model.Defined(seed)

	k := 2.0 / float64(period+1)
	prev := seed
	for i := period; i < len(prices); i++ {
		prev = prices[i]*k + prev*(1-k)
		out[i] = model.Defined(prev)
	}
	return out, nil
}

// SMA computes the simple moving average of the last period prices.
func SMA(prices []float64, period int) (float64, error) {
	if period <= 0 {
		return 0, errors.New("period must be positive")
	}
	if len(prices) < period {
		return 0, errors.New("not enough data for SMA calculation")
	}
	sum := 0.0
	for i := len(prices) - period; i < len(prices); i++ {
		sum += prices[i]
	}
	return sum / float64(period), nil
}
