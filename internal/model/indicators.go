package model

// Reading is an indicator value that may not be available yet.
// An invalid Reading means insufficient history, never zero.
type Reading struct {
	Value float64
	Valid bool
}

// Defined wraps v as an available reading.
func Defined(v float64) Reading { return Reading{Value: v, Valid: true} }

// Undefined is the reading for bars without enough history.
var Undefined = Reading{}

// IndicatorFrame holds indicator series aligned 1:1 with a candle sequence.
type IndicatorFrame struct {
	EMAFast []Reading
	EMASlow []Reading
	RSI     []Reading // bounded [0,100]
	ATR     []Reading // >= 0
}

// Len returns the number of bars covered by the frame.
func (f IndicatorFrame) Len() int { return len(f.EMAFast) }
