package calculator

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"SignalBot/internal/model"
)

func TestCompute_EmptyIsInsufficientData(t *testing.T) {
	_, err := Compute(nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, model.ErrInsufficientData))
}

func TestCompute_ShortSeriesAllUndefined(t *testing.T) {
	minCandles := DefaultParams().MinCandles()
	for _, n := range []int{1, SlowPeriod - 1, SlowPeriod, minCandles - 1} {
		frame, err := Compute(candlesFromCloses(zigzag(100, n, 3, 2)))
		require.NoError(t, err)
		require.Equal(t, n, frame.Len())
		for i := 0; i < n; i++ {
			assert.False(t, frame.EMAFast[i].Valid, "n=%d i=%d", n, i)
			assert.False(t, frame.EMASlow[i].Valid, "n=%d i=%d", n, i)
			assert.False(t, frame.RSI[i].Valid, "n=%d i=%d", n, i)
			assert.False(t, frame.ATR[i].Valid, "n=%d i=%d", n, i)
			assert.Zero(t, frame.EMAFast[i].Value)
		}
	}
}

func TestCompute_AlignedAndWarmedUp(t *testing.T) {
	candles := candlesFromCloses(zigzag(100, 60, 3, 2))
	frame, err := Compute(candles)
	require.NoError(t, err)

	require.Len(t, frame.EMAFast, len(candles))
	require.Len(t, frame.EMASlow, len(candles))
	require.Len(t, frame.RSI, len(candles))
	require.Len(t, frame.ATR, len(candles))

	assert.False(t, frame.EMAFast[FastPeriod-2].Valid)
	assert.True(t, frame.EMAFast[FastPeriod-1].Valid)
	assert.False(t, frame.EMASlow[SlowPeriod-2].Valid)
	assert.True(t, frame.EMASlow[SlowPeriod-1].Valid)
	assert.False(t, frame.RSI[RSIPeriod-1].Valid)
	assert.True(t, frame.RSI[RSIPeriod].Valid)
	assert.False(t, frame.ATR[ATRPeriod-1].Valid)
	assert.True(t, frame.ATR[ATRPeriod].Valid)
}

func TestCompute_Idempotent(t *testing.T) {
	candles := candlesFromCloses(append(zigzag(100, 40, 1, 2), zigzag(80, 40, 3, 2)...))
	first, err := Compute(candles)
	require.NoError(t, err)
	second, err := Compute(candles)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestParams_MinCandles(t *testing.T) {
	assert.Equal(t, 31, DefaultParams().MinCandles())
	assert.Equal(t, 51, Params{Fast: 5, Slow: 20, RSI: 50, ATR: 7}.MinCandles())
}
