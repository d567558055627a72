package strategy

import (
	"fmt"

	"SignalBot/internal/model"
)

// RewardRisk is the take-profit distance in ATR units; the stop is one ATR.
const RewardRisk = 2.0

// BuildPlan derives entry, stop and target from the most recent signaled bar.
// Without any signal the plan has direction NONE and undefined prices.
func BuildPlan(candles []model.Candle, frame model.IndicatorFrame, signals []model.Signal) (model.TradePlan, error) {
	idx := lastSignal(signals)
	if idx < 0 {
		return model.TradePlan{Direction: model.SignalNone, BarIndex: -1}, nil
	}
	if idx >= len(candles) || idx >= frame.Len() {
		return model.TradePlan{}, fmt.Errorf("build plan: signal at bar %d outside %d candles: %w",
			idx, len(candles), model.ErrInsufficientData)
	}

	atr := frame.ATR[idx]
	if !atr.Valid {
		return model.TradePlan{}, fmt.Errorf("build plan: atr undefined at bar %d: %w", idx, model.ErrInsufficientData)
	}

	dir := signals[idx]
	entry := candles[idx].Close
	sign := 1.0
	if dir == model.SignalShort {
		sign = -1.0
	}

	return model.TradePlan{
		Direction:  dir,
		BarIndex:   idx,
		Entry:      model.Defined(entry),
		StopLoss:   model.Defined(entry - sign*atr.Value),
		TakeProfit: model.Defined(entry + sign*RewardRisk*atr.Value),
		Momentum:   frame.RSI[idx],
	}, nil
}

func lastSignal(signals []model.Signal) int {
	for i := len(signals) - 1; i >= 0; i-- {
		if signals[i].Actionable() {
			return i
		}
	}
	return -1
}
