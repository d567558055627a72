package calculator

import (
	"errors"
	"math"

	"SignalBot/internal/model"
)

// TrueRange returns max(high-low, |high-prevClose|, |low-prevClose|).
func TrueRange(curr model.Candle, prevClose float64) float64 {
	return math.Max(
		curr.High-curr.Low,
		math.Max(math.Abs(curr.High-prevClose), math.Abs(curr.Low-prevClose)),
	)
}

// ATR computes the average true range series as the rolling mean of the last
// period true ranges. True range needs a previous close, so the first defined
// value is at index period.
func ATR(candles []model.Candle, period int) ([]model.Reading, error) {
	if period <= 0 {
		return nil, errors.New("period must be positive")
	}
	out := make([]model.Reading, len(candles))
	if len(candles) < period+1 {
		return out, nil
	}

	tr := make([]float64, len(candles))
	for i := 1; i < len(candles); i++ {
		tr[i] = TrueRange(candles[i], candles[i-1].Close)
	}

	var sum float64
	for i := 1; i <= period; i++ {
		sum += tr[i]
	}
	out[period] = model.Defined(sum / float64(period))
	for i := period + 1; i < len(candles); i++ {
		sum += tr[i] - tr[i-period]
		out[i] = model.Defined(math.Max(sum/float64(period), 0))
	}
	return out, nil
}
