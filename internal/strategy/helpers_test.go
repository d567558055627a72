package strategy

import (
	"math"
	"time"

	"SignalBot/internal/model"
)

var na = math.NaN()

func readings(values ...float64) []model.Reading {
	out := make([]model.Reading, len(values))
	for i, v := range values {
		if !math.IsNaN(v) {
			out[i] = model.Defined(v)
		}
	}
	return out
}

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

// downThenRally drifts lower for 40 bars and then rallies for 60 bars, both
// legs choppy enough to keep RSI away from the extremes.
func downThenRally() []model.Candle {
	down := zigzag(100, 40, 1, 2)
	up := zigzag(down[len(down)-1], 60, 3, 2)
	return candlesFromCloses(append(down, up...))
}

func firstActionable(signals []model.Signal) int {
	for i, s := range signals {
		if s.Actionable() {
			return i
		}
	}
	return -1
}
