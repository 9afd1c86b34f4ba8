package telemetry

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRollingWindow_EvictsOldestBeyondCapacity(t *testing.T) {
	w := NewRollingWindow(3)
	w.Push(1)
	w.Push(2)
	w.Push(3)
	w.Push(4)

	require.Equal(t, 3, w.Len())
	summary, err := w.Summarize()
	require.NoError(t, err)
	assert.Equal(t, 2.0, summary.Min)
	assert.Equal(t, 4.0, summary.Max)
}

func TestRollingWindow_SummarizeEmptyIsError(t *testing.T) {
	w := NewRollingWindow(5)
	_, err := w.Summarize()
	assert.Error(t, err)
}

func TestRollingWindow_MeanAndStdDev(t *testing.T) {
	w := NewRollingWindow(10)
	for _, v := range []float64{10, 10, 10} {
		w.Push(v)
	}
	summary, err := w.Summarize()
	require.NoError(t, err)
	assert.Equal(t, 10.0, summary.Mean)
	assert.Equal(t, 0.0, summary.StdDev)
}
