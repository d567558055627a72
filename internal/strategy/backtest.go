package strategy

import (
	"math"

	"SignalBot/internal/model"
)

// Backtest scores the last lookback actionable signals against the close of
// the bar right after each one. A LONG wins when that close is higher, a
// SHORT when it is lower. Signals on the final bar have no outcome and are
// left out of the sample.
func Backtest(candles []model.Candle, signals []model.Signal, lookback int) model.BacktestResult {
	result := model.BacktestResult{Lookback: lookback}
	if lookback <= 0 {
		return result
	}

	n := min(len(candles), len(signals))
	picked := make([]int, 0, lookback)
	for i := n - 1; i >= 0 && len(picked) < lookback; i-- {
		if signals[i].Actionable() {
			picked = append(picked, i)
		}
	}

	for _, i := range picked {
		if i+1 >= len(candles) {
			continue
		}
		result.SampleSize++
		if won(signals[i], candles[i].Close, candles[i+1].Close) {
			result.Wins++
		}
	}

	if result.SampleSize > 0 {
		rate := 100 * float64(result.Wins) / float64(result.SampleSize)
		result.WinRate = math.Round(rate*100) / 100
	}
	return result
}

func won(sig model.Signal, entry, next float64) bool {
	switch sig {
	case model.SignalLong:
		return next > entry
	case model.SignalShort:
		return next < entry
	}
	return false
}
