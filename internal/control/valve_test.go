package control

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCtrl2PWM_VentClampsToNegativeRangeThenAbs(t *testing.T) {
	v := NewValveChannel("vent", Gains{}, -1, 0)
	assert.Equal(t, 1.0, v.Ctrl2PWM(-5)) // clamped to -1, abs -> 1
	assert.Equal(t, 0.0, v.Ctrl2PWM(5))  // clamped to 0, abs -> 0
	assert.InDelta(t, 0.3, v.Ctrl2PWM(-0.3), 1e-9)
}

func TestCtrl2PWM_DumpClampsToPositiveRangeThenAbs(t *testing.T) {
	v := NewValveChannel("dump", Gains{}, 0, 1)
	assert.Equal(t, 0.0, v.Ctrl2PWM(-5))
	assert.Equal(t, 1.0, v.Ctrl2PWM(5))
	assert.InDelta(t, 0.3, v.Ctrl2PWM(0.3), 1e-9)
}

func TestSetPWM_IgnoredWhileLocked(t *testing.T) {
	v := NewValveChannel("vent", Gains{}, -1, 0)
	assert.True(t, v.Locked())
	v.SetPWM(0.5)
	assert.Equal(t, 0.0, v.PWM())
}

func TestSetPWM_ClampsToUnitRangeWhenUnlocked(t *testing.T) {
	v := NewValveChannel("vent", Gains{}, -1, 0)
	v.Unlock()
	v.SetPWM(5)
	assert.Equal(t, 1.0, v.PWM())
	v.SetPWM(-5)
	assert.Equal(t, 0.0, v.PWM())
}

func TestForcePWM_BypassesLock(t *testing.T) {
	v := NewValveChannel("vent", Gains{}, -1, 0)
	assert.True(t, v.Locked())
	v.forcePWM(0.7)
	assert.Equal(t, 0.7, v.PWM())
}
