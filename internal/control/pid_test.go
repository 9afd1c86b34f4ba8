package control

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNextControlOutput_NoDerivativeKickOnFirstCall(t *testing.T) {
	pid := NewPidCore(100, Gains{Kp: 1, Ki: 0, Kd: 1}, Limits{P: 100, I: 100, D: 100, Output: 100})
	out := pid.NextControlOutput(90)
	// First call has no previous measurement, so D contributes 0: output
	// should equal the P term alone.
	assert.InDelta(t, 10.0, out, 1e-9)
}

func TestNextControlOutput_IntegralAntiWindup(t *testing.T) {
	pid := NewPidCore(100, Gains{Kp: 0, Ki: 10, Kd: 0}, Limits{P: 1, I: 2, D: 1, Output: 1})
	for i := 0; i < 10; i++ {
		pid.NextControlOutput(0)
	}
	out := pid.NextControlOutput(0)
	assert.LessOrEqual(t, out, 1.0)
}

func TestSetGains_PreservesIntegral(t *testing.T) {
	pid := NewPidCore(10, Gains{Kp: 0, Ki: 1, Kd: 0}, Limits{P: 100, I: 100, D: 100, Output: 100})
	pid.NextControlOutput(0)
	before := pid.integral
	pid.SetGains(Gains{Kp: 5, Ki: 1, Kd: 2})
	assert.Equal(t, before, pid.integral)
}

func TestResetIntegral(t *testing.T) {
	pid := NewPidCore(10, Gains{Kp: 0, Ki: 1, Kd: 0}, Limits{P: 100, I: 100, D: 100, Output: 100})
	pid.NextControlOutput(0)
	pid.ResetIntegral()
	assert.Equal(t, 0.0, pid.integral)
}

func TestClamp(t *testing.T) {
	assert.Equal(t, 5.0, clamp(10, 5))
	assert.Equal(t, -5.0, clamp(-10, 5))
	assert.Equal(t, 3.0, clamp(3, 5))
}
