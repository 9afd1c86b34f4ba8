// Package control implements the altitude-hold PID regulator, the valve
// PWM mapping, and the top-level control state machine.
package control

import "math"

// Gains is a PID gain triple.
type Gains struct {
	Kp, Ki, Kd float64
}

// Limits bounds each PID term and the summed output.
type Limits struct {
	P, I, D, Output float64
}

// PidCore computes a bounded control effort with anti-windup clamping on
// the integral term and derivative-on-measurement (not error) so setpoint
// steps don't produce a derivative kick.
type PidCore struct {
	setpoint float64
	gains    Gains
	limits   Limits

	integral       float64
	lastMeasurement float64
	haveLast        bool
}

// NewPidCore constructs a PidCore with the given setpoint, gains, and
// per-term/output clamps.
func NewPidCore(setpoint float64, gains Gains, limits Limits) *PidCore {
	return &PidCore{setpoint: setpoint, gains: gains, limits: limits}
}

func clamp(x, limit float64) float64 {
	if limit < 0 {
		limit = -limit
	}
	if x > limit {
		return limit
	}
	if x < -limit {
		return -limit
	}
	return x
}

// SetGains swaps in new gains without touching the accumulated integral.
// Call ResetIntegral separately if the integral should also be cleared.
func (p *PidCore) SetGains(g Gains) {
	p.gains = g
}

// SetSetpoint updates the target the PID converges toward.
func (p *PidCore) SetSetpoint(setpoint float64) {
	p.setpoint = setpoint
}

// Setpoint returns the current target.
func (p *PidCore) Setpoint() float64 { return p.setpoint }

// ResetIntegral zeroes the accumulated integral term.
func (p *PidCore) ResetIntegral() {
	p.integral = 0
}

// NextControlOutput computes the next bounded control effort for the given
// measurement: error = setpoint - measurement; P and I act on error, D
// acts on the change in measurement (not error) to avoid a derivative
// kick on setpoint changes.
func (p *PidCore) NextControlOutput(measurement float64) float64 {
	error := p.setpoint - measurement

	pTerm := clamp(p.gains.Kp*error, p.limits.P)

	p.integral = clamp(p.integral+p.gains.Ki*error, p.limits.I)
	iTerm := p.integral

	var dTerm float64
	if p.haveLast {
		dTerm = clamp(p.gains.Kd*(measurement-p.lastMeasurement), p.limits.D)
	}
	p.lastMeasurement = measurement
	p.haveLast = true

	return clamp(pTerm+iTerm-dTerm, p.limits.Output)
}

// abs is a small helper kept local to avoid pulling in extra imports for
// a one-liner elsewhere in the package.
func abs(x float64) float64 { return math.Abs(x) }
