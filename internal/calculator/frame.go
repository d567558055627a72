package calculator

import (
	"fmt"

	"SignalBot/internal/model"
)

// Default lookback periods.
const (
	FastPeriod = 10
	SlowPeriod = 30
	RSIPeriod  = 14
	ATRPeriod  = 14
)

// Params configures the indicator lookbacks.
type Params struct {
	Fast int
	Slow int
	RSI  int
	ATR  int
}

// DefaultParams returns the EMA(10)/EMA(30)/RSI(14)/ATR(14) setup.
func DefaultParams() Params {
	return Params{Fast: FastPeriod, Slow: SlowPeriod, RSI: RSIPeriod, ATR: ATRPeriod}
}

// MinCandles is the shortest sequence for which indicators are computed:
// the longest lookback plus one.
func (p Params) MinCandles() int {
	return max(p.Fast, p.Slow, p.RSI, p.ATR) + 1
}

// Compute derives the indicator frame for candles using the default periods.
func Compute(candles []model.Candle) (model.IndicatorFrame, error) {
	return DefaultParams().Compute(candles)
}

// Compute derives the indicator frame for candles. An empty sequence is
// ErrInsufficientData. A sequence shorter than MinCandles yields a frame with
// every reading undefined.
func (p Params) Compute(candles []model.Candle) (model.IndicatorFrame, error) {
	if len(candles) == 0 {
		return model.IndicatorFrame{}, fmt.Errorf("compute indicators: no candles: %w", model.ErrInsufficientData)
	}
	if len(candles) < p.MinCandles() {
		return undefinedFrame(len(candles)), nil
	}

	closes := model.Closes(candles)
	fast, err := EMA(closes, p.Fast)
	if err != nil {
		return model.IndicatorFrame{}, fmt.Errorf("ema fast: %w", err)
	}
	slow, err := EMA(closes, p.Slow)
	if err != nil {
		return model.IndicatorFrame{}, fmt.Errorf("ema slow: %w", err)
	}
	rsi, err := RSI(closes, p.RSI)
	if err != nil {
		return model.IndicatorFrame{}, fmt.Errorf("rsi: %w", err)
	}
	atr, err := ATR(candles, p.ATR)
	if err != nil {
		return model.IndicatorFrame{}, fmt.Errorf("atr: %w", err)
	}
	return model.IndicatorFrame{EMAFast: fast, EMASlow: slow, RSI: rsi, ATR: atr}, nil
}

func undefinedFrame(n int) model.IndicatorFrame {
	return model.IndicatorFrame{
		EMAFast: make([]model.Reading, n),
		EMASlow: make([]model.Reading, n),
		RSI:     make([]model.Reading, n),
		ATR:     make([]model.Reading, n),
	}
}
