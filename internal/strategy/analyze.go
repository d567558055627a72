package strategy

import (
	"fmt"

	"SignalBot/internal/calculator"
	"SignalBot/internal/model"
)

// Analyzer runs the indicator, signal, backtest and plan stages over one
// candle sequence.
type Analyzer struct {
	Params   calculator.Params
	Lookback int
}

// NewAnalyzer creates an Analyzer with default indicator periods.
func NewAnalyzer(lookback int) *Analyzer {
	return &Analyzer{Params: calculator.DefaultParams(), Lookback: lookback}
}

// Analyze computes the trade plan and the backtest from the same candles.
func (a *Analyzer) Analyze(candles []model.Candle) (*model.Analysis, error) {
	if len(candles) < a.Params.MinCandles() {
		return nil, fmt.Errorf("analyze: need %d candles, got %d: %w",
			a.Params.MinCandles(), len(candles), model.ErrInsufficientData)
	}

	frame, err := a.Params.Compute(candles)
	if err != nil {
		return nil, fmt.Errorf("analyze: %w", err)
	}
	signals := Label(frame)

	plan, err := BuildPlan(candles, frame, signals)
	if err != nil {
		return nil, fmt.Errorf("analyze: %w", err)
	}

	return &model.Analysis{
		CandleCount: len(candles),
		LastClose:   candles[len(candles)-1].Close,
		Plan:        plan,
		Backtest:    Backtest(candles, signals, a.Lookback),
	}, nil
}
