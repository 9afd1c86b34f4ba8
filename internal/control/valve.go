package control

// ValveChannel holds a valve's current PWM, the PID gains used when this
// valve is the one actuating, and the control-effort bounds used to map a
// signed PID effort into this valve's PWM.
type ValveChannel struct {
	Name    string
	pwm     float64
	Gains   Gains
	MinCtrl float64
	MaxCtrl float64
	locked  bool
}

// NewValveChannel constructs a valve channel with the given name, gains,
// and control-effort clamp range. Valves start locked (PWM forced to 0
// and not settable) until the control manager unlocks them.
func NewValveChannel(name string, gains Gains, minCtrl, maxCtrl float64) *ValveChannel {
	return &ValveChannel{Name: name, Gains: gains, MinCtrl: minCtrl, MaxCtrl: maxCtrl, locked: true}
}

// Ctrl2PWM maps a signed PID control effort into this valve's PWM
// fraction: clamp to [MinCtrl, MaxCtrl], then take the magnitude. Result
// is always in [0, max(|MinCtrl|, |MaxCtrl|)] and is further clamped to
// [0,1] by SetPWM.
func (v *ValveChannel) Ctrl2PWM(effort float64) float64 {
	clamped := effort
	if clamped < v.MinCtrl {
		clamped = v.MinCtrl
	}
	if clamped > v.MaxCtrl {
		clamped = v.MaxCtrl
	}
	return abs(clamped)
}

// SetPWM sets the valve's PWM, clamped into [0,1]. Out-of-range values are
// clamped, not rejected. A locked valve silently ignores the request and
// keeps its current PWM.
func (v *ValveChannel) SetPWM(x float64) {
	if v.locked {
		return
	}
	if x < 0 {
		x = 0
	}
	if x > 1 {
		x = 1
	}
	v.pwm = x
}

// PWM reports the valve's current PWM setting.
func (v *ValveChannel) PWM() float64 { return v.pwm }

// Lock freezes the valve at its current PWM; further SetPWM calls are
// ignored until Unlock.
func (v *ValveChannel) Lock() { v.locked = true }

// Unlock allows SetPWM to take effect again.
func (v *ValveChannel) Unlock() { v.locked = false }

// Locked reports the valve's lock state.
func (v *ValveChannel) Locked() bool { return v.locked }

// forcePWM sets the PWM regardless of lock state, used internally by the
// control manager to zero both valves during the Init self test.
func (v *ValveChannel) forcePWM(x float64) {
	if x < 0 {
		x = 0
	}
	if x > 1 {
		x = 1
	}
	v.pwm = x
}
