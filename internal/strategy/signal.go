package strategy

import "SignalBot/internal/model"

// RSI bounds that veto a crossover.
const (
	Overbought = 70.0
	Oversold   = 30.0
)

// Label assigns one signal per bar by comparing each bar with the one before
// it. Bar 0 and any transition where either bar lacks EMA or RSI readings
// are SignalNone.
func Label(frame model.IndicatorFrame) []model.Signal {
	n := frame.Len()
	signals := make([]model.Signal, n)
	for i := range signals {
		signals[i] = model.SignalNone
	}
	for i := 1; i < n; i++ {
		signals[i] = transition(frame, i-1, i)
	}
	return signals
}

func transition(f model.IndicatorFrame, prev, curr int) model.Signal {
	pf, ps, pr := f.EMAFast[prev], f.EMASlow[prev], f.RSI[prev]
	cf, cs, cr := f.EMAFast[curr], f.EMASlow[curr], f.RSI[curr]
	if !(pf.Valid && ps.Valid && pr.Valid && cf.Valid && cs.Valid && cr.Valid) {
		return model.SignalNone
	}

	switch {
	case pf.Value < ps.Value && cf.Value > cs.Value && cr.Value < Overbought:
		return model.SignalLong
	case pf.Value > ps.Value && cf.Value < cs.Value && cr.Value > Oversold:
		return model.SignalShort
	default:
		return model.SignalNone
	}
}
