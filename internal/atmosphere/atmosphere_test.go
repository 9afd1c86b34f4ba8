package atmosphere

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestContinuityAtLayerBoundary_11000(t *testing.T) {
	below := At(11000 - 1e-3)
	above := At(11000)

	assert.InEpsilon(t, below.Temperature(), above.Temperature(), 1e-3)
	assert.InEpsilon(t, below.Pressure(), above.Pressure(), 1e-3)
}

func TestContinuityAtLayerBoundary_25000(t *testing.T) {
	below := At(25000 - 1e-3)
	above := At(25000)

	assert.InEpsilon(t, below.Temperature(), above.Temperature(), 1e-3)
	assert.InEpsilon(t, below.Pressure(), above.Pressure(), 1e-3)
}

func TestOutOfRangeReturnsInvalidZeroedState(t *testing.T) {
	s := At(MinAltitudeM - 1)
	assert.False(t, s.Valid())
	assert.Equal(t, 0.0, s.Temperature())
	assert.Equal(t, 0.0, s.Pressure())

	s2 := At(MaxAltitudeM)
	assert.False(t, s2.Valid())
}

func TestSeaLevelApprox(t *testing.T) {
	s := At(0)
	assert.True(t, s.Valid())
	assert.InDelta(t, 288.2, s.Temperature(), 0.2)
	assert.Greater(t, s.Pressure(), 90000.0)
	assert.Less(t, s.Pressure(), 105000.0)
}

func TestDensityPositiveThroughoutRange(t *testing.T) {
	for h := MinAltitudeM; h < MaxAltitudeM; h += 5000 {
		s := At(h)
		if !s.Valid() {
			continue
		}
		assert.Greater(t, s.Density(), 0.0)
		assert.False(t, math.IsNaN(s.Density()))
	}
}
