package model

// Signal is the directional label attached to a bar.
type Signal string

const (
	SignalLong  Signal = "LONG"
	SignalShort Signal = "SHORT"
	SignalNone  Signal = "NONE"
)

// Actionable reports whether the label calls for a trade.
func (s Signal) Actionable() bool {
	return s == SignalLong || s == SignalShort
}

// TradePlan is the entry/exit plan derived from the most recent signaled bar.
// Price fields are undefined when Direction is SignalNone.
type TradePlan struct {
	Direction  Signal
	BarIndex   int
	Entry      Reading
	StopLoss   Reading
	TakeProfit Reading
	Momentum   Reading // RSI at the signaled bar, display only
}

// BacktestResult summarizes how past signals played out on the next bar.
type BacktestResult struct {
	WinRate    float64 // percentage in [0,100]
	Wins       int
	SampleSize int
	Lookback   int
}

// Analysis bundles everything computed from a single candle pull.
type Analysis struct {
	Symbol      string
	Interval    string
	CandleCount int
	LastClose   float64
	Plan        TradePlan
	Backtest    BacktestResult
}
