package control

import (
	"time"

	"github.com/hab-systems/aerostat-mfc/internal/logging"
	"github.com/hab-systems/aerostat-mfc/internal/measurement"
	"github.com/sirupsen/logrus"
)

// Config is the controller's immutable configuration, built once at
// startup. Only SetTarget mutates the running controller afterward; every
// other knob here is fixed for the controller's lifetime.
type Config struct {
	TargetAltitudeM     float64
	VentGains           Gains
	DumpGains           Gains
	PIDLimits           Limits
	CtrlRateHz          float64
	AltitudeFloorM      float64
	AltitudeDeadzoneM   float64
	ReadyThresholdM     float64
	SpeedDeadzoneMS     float64
	TelemetryMaxAge     time.Duration
	MinBallastKg        float64
}

// DefaultConfig returns the spec's documented defaults with the given
// target altitude.
func DefaultConfig(targetAltitudeM float64) Config {
	return Config{
		TargetAltitudeM:   targetAltitudeM,
		VentGains:         Gains{Kp: 1e-5, Ki: 0, Kd: 1e-3},
		DumpGains:         Gains{Kp: 1e-8, Ki: 1e-5, Kd: 1e-3},
		PIDLimits:         Limits{P: 1, I: 1, D: 1, Output: 1},
		CtrlRateHz:        1,
		AltitudeFloorM:    15000,
		AltitudeDeadzoneM: 100,
		ReadyThresholdM:   1000,
		SpeedDeadzoneMS:   0.2,
		TelemetryMaxAge:   2 * time.Second,
		MinBallastKg:      0.01,
	}
}

// SelfTest is the power-on self test hook run once while in Init. It may
// block briefly; a real implementation would probe hardware here.
type SelfTest func() error

// Manager is the top-level altitude control state machine: deadzone
// logic, gain switching, staleness inhibition, and abort conditions.
type Manager struct {
	cfg Config

	mode Mode
	pid  *PidCore

	ventValve *ValveChannel
	dumpValve *ValveChannel

	cutdown CutdownLatch

	selfTest SelfTest
	logger   *logrus.Logger
}

// NewManager constructs a Manager in Init mode with the given config. The
// optional selfTest hook runs the first time Update is called; a nil hook
// is treated as an immediate pass.
func NewManager(cfg Config, selfTest SelfTest) *Manager {
	m := &Manager{
		cfg:       cfg,
		mode:      Init,
		pid:       NewPidCore(cfg.TargetAltitudeM, cfg.VentGains, cfg.PIDLimits),
		ventValve: NewValveChannel("vent", cfg.VentGains, -1, 0),
		dumpValve: NewValveChannel("dump", cfg.DumpGains, 0, 1),
		selfTest:  selfTest,
		logger:    logging.Logger,
	}
	return m
}

// Mode reports the current state machine mode.
func (m *Manager) Mode() Mode { return m.mode }

func (m *Manager) transition(to Mode) {
	from := m.mode
	m.mode = to
	m.logger.WithFields(logrus.Fields{"from": from.String(), "to": to.String()}).Info("control mode transition")
}

// runSelfTest executes the Init-state power-on self test. On success the
// controller transitions to Ready with both valves forced to 0. On
// failure the mode stays Init so a later Update call retries.
func (m *Manager) runSelfTest() {
	m.ventValve.Unlock()
	m.dumpValve.Unlock()
	m.ventValve.forcePWM(0)
	m.dumpValve.forcePWM(0)
	m.ventValve.Lock()
	m.dumpValve.Lock()

	if m.selfTest != nil {
		if err := m.selfTest(); err != nil {
			m.logger.WithError(err).Error("power-on self test failed")
			return
		}
	}
	m.transition(Ready)
}

// SetTarget updates the target altitude. Rejected (with a logged warning)
// if h is at or below the altitude floor; the stored target is left
// unchanged in that case.
func (m *Manager) SetTarget(h float64) {
	if h <= m.cfg.AltitudeFloorM {
		m.logger.WithFields(logrus.Fields{"requested": h, "floor": m.cfg.AltitudeFloorM}).
			Warn("rejected target altitude at or below the floor")
		return
	}
	m.cfg.TargetAltitudeM = h
	m.pid.SetSetpoint(h)
}

// Update runs one control cycle given the latest altitude, ascent-rate,
// and ballast-mass measurements, and returns the (vent, dump) PWM pair
// actually commanded along with the status bits for this cycle.
func (m *Manager) Update(altitude, ascentRate measurement.Measurement[float64], ballastMassKg float64) (Command, Status) {
	switch m.mode {
	case Init:
		m.runSelfTest()
		return Command{}, 0
	case Ready:
		return m.updateReady(altitude)
	case Stabilize:
		return m.updateStabilize(altitude, ascentRate, ballastMassKg)
	case Safe:
		return m.updateSafe()
	case Abort:
		return m.updateAbort(ballastMassKg)
	default:
		return Command{}, StatusProblem
	}
}

func (m *Manager) updateReady(altitude measurement.Measurement[float64]) (Command, Status) {
	errAbs := absf(altitude.Value - m.cfg.TargetAltitudeM)
	m.logger.WithFields(logrus.Fields{"altitude": altitude.Value, "distance_to_target": errAbs}).Debug("ready: awaiting capture window")

	if altitude.Value > m.cfg.AltitudeFloorM && errAbs <= m.cfg.ReadyThresholdM {
		m.pid.ResetIntegral()
		m.transition(Stabilize)
	}
	return Command{}, 0
}

func (m *Manager) updateStabilize(altitude, ascentRate measurement.Measurement[float64], ballastMassKg float64) (Command, Status) {
	if ballastMassKg <= m.cfg.MinBallastKg {
		m.enterAbort()
		return m.updateAbort(ballastMassKg)
	}

	var gains Gains
	if ascentRate.Value > 0 {
		gains = m.cfg.VentGains
	} else {
		gains = m.cfg.DumpGains
	}
	m.pid.SetGains(gains)
	effort := m.pid.NextControlOutput(altitude.Value)

	if altitude.Value <= m.cfg.AltitudeFloorM {
		m.enterAbort()
		return m.updateAbort(ballastMassKg)
	}

	ventCandidate := m.ventValve.Ctrl2PWM(effort)
	dumpCandidate := m.dumpValve.Ctrl2PWM(effort)

	altitudeError := altitude.Value - m.cfg.TargetAltitudeM

	var status Status
	if absf(altitudeError) < m.cfg.AltitudeDeadzoneM {
		status |= StatusAltitudeDeadzone
	}
	if absf(ascentRate.Value) < m.cfg.SpeedDeadzoneMS {
		status |= StatusSpeedDeadzone
	}
	stale := altitude.IsStale(m.cfg.TelemetryMaxAge) || ascentRate.IsStale(m.cfg.TelemetryMaxAge)
	if stale {
		status |= StatusStaleTelemetry
	}
	if ventCandidate <= 1e-3 && dumpCandidate <= 1e-3 {
		status |= StatusValveDeadzone
	}

	allow := !status.Has(StatusStaleTelemetry) && !status.Has(StatusValveDeadzone) &&
		!(status.Has(StatusAltitudeDeadzone) && status.Has(StatusSpeedDeadzone))

	m.ventValve.Unlock()
	m.dumpValve.Unlock()

	var cmd Command
	if allow {
		status |= StatusActive
		if ascentRate.Value > 0 {
			m.ventValve.SetPWM(ventCandidate)
			m.dumpValve.SetPWM(0)
			status |= StatusVent
		} else {
			m.dumpValve.SetPWM(dumpCandidate)
			m.ventValve.SetPWM(0)
			status |= StatusDump
		}
	} else {
		m.ventValve.SetPWM(0)
		m.dumpValve.SetPWM(0)
		m.pid.ResetIntegral()
	}
	cmd = Command{VentPWM: m.ventValve.PWM(), DumpPWM: m.dumpValve.PWM()}

	m.logger.WithFields(logrus.Fields{"mode": m.mode.String(), "status": status, "vent_pwm": cmd.VentPWM, "dump_pwm": cmd.DumpPWM}).Debug("stabilize update")
	return cmd, status
}

func (m *Manager) enterAbort() {
	m.transition(Abort)
}

func (m *Manager) updateSafe() (Command, Status) {
	m.ventValve.Unlock()
	m.dumpValve.Unlock()
	m.ventValve.SetPWM(0)
	m.dumpValve.SetPWM(0)
	m.ventValve.Lock()
	m.dumpValve.Lock()
	return Command{}, StatusProblem
}

func (m *Manager) updateAbort(ballastMassKg float64) (Command, Status) {
	m.ventValve.Unlock()
	m.dumpValve.Unlock()
	m.ventValve.SetPWM(0)
	m.ventValve.Lock()

	if ballastMassKg <= 0 {
		m.dumpValve.SetPWM(0)
		m.dumpValve.Lock()
		m.transition(Safe)
		return Command{}, StatusProblem
	}

	m.dumpValve.SetPWM(1)
	m.dumpValve.Lock()
	return Command{VentPWM: 0, DumpPWM: 1}, StatusProblem | StatusDump | StatusActive
}

// Cutdown returns the controller's independent cutdown latch, separate
// from the Abort/Safe altitude-hold machinery.
func (m *Manager) Cutdown() *CutdownLatch { return &m.cutdown }

func absf(x float64) float64 {
	if x < 0 {
		return -x
	}
	return x
}
