package calculator

import (
	"errors"

	"SignalBot/internal/model"
)

// RSI computes the Wilder-smoothed relative strength index series over closes.
// Index period is the first defined value: it averages the first period
// close-to-close changes; later values use Wilder smoothing.
func RSI(closes []float64, period int) ([]model.Reading, error) {
	if period <= 0 {
		return nil, errors.New("period must be positive")
	}
	out := make([]model.Reading, len(closes))
	if len(closes) < period+1 {
		return out, nil
	}

	var avgGain, avgLoss float64
	for i := 1; i <= period; i++ {
		gain, loss := splitChange(closes[i] - closes[i-1])
		avgGain += gain
		avgLoss += loss
	}
	avgGain /= float64(period)
	avgLoss /= float64(period)
	out[period] = model.Defined(rsiFromAverages(avgGain, avgLoss))

	p := float64(period)
	for i := period + 1; i < len(closes); i++ {
		gain, loss := splitChange(closes[i] - closes[i-1])
		avgGain = (avgGain*(p-1) + gain) / p
		avgLoss = (avgLoss*(p-1) + loss) / p
		out[i] = model.Defined(rsiFromAverages(avgGain, avgLoss))
	}
	return out, nil
}

func splitChange(change float64) (gain, loss float64) {
	if change > 0 {
		return change, 0
	}
	return 0, -change
}

// A window without movement is neutral.
func rsiFromAverages(avgGain, avgLoss float64) float64 {
	if avgLoss == 0 {
		if avgGain == 0 {
			return 50.0
		}
		return 100.0
	}
	rs := avgGain / avgLoss
	return 100.0 - 100.0/(1.0+rs)
}
