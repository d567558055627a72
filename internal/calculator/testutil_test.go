package calculator

import (
	"time"

	"SignalBot/internal/model"
)

func candlesFromCloses(closes []float64) []model.Candle {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	candles := make([]model.Candle, len(closes))
	prev := closes[0]
	for i, c := range closes {
		candles[i] = model.Candle{
			OpenTime: start.Add(time.Duration(i) * time.Hour),
			Open:     prev,
			High:     max(prev, c) + 1,
			Low:      min(prev, c) - 1,
			Close:    c,
			Volume:   1000,
		}
		prev = c
	}
	return candles
}

// zigzag returns n closes starting at start, alternating up and down moves.
func zigzag(start float64, n int, up, down float64) []float64 {
	out := make([]float64, n)
	p := start
	for i := range out {
		if i%2 == 0 {
			p += up
		} else {
			p -= down
		}
		out[i] = p
	}
	return out
}

func flat(price float64, n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = price
	}
	return out
}
