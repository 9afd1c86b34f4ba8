// Package asyncsim drives the physics integrator at a fixed rate on its
// own goroutine: it owns the running SimInstant, accepts take-latest
// actuator commands, and publishes an atomic SimOutput snapshot each tick.
package asyncsim

import (
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/hab-systems/aerostat-mfc/internal/logging"
	"github.com/hab-systems/aerostat-mfc/internal/simcore"
	"github.com/sirupsen/logrus"
)

// Command is the latest actuator command accepted from the control loop.
type Command struct {
	VentPWM float64
	DumpPWM float64
}

// SimOutput is the value-type snapshot of one physics tick, safe to copy
// and hand to any number of readers.
type SimOutput struct {
	TimeS         float64
	AltitudeM     float64
	AscentRateMS  float64
	AccelMS2      float64
	BallastMassKg float64
	LiftGasMassKg float64
	VentPWM       float64
	DumpPWM       float64
	GrossLiftN    float64
	FreeLiftN     float64
	AtmoTempK     float64
	AtmoPresPa    float64
}

func outputFromInstant(inst *simcore.Instant) SimOutput {
	return SimOutput{
		TimeS:         inst.TimeS,
		AltitudeM:     inst.AltitudeM,
		AscentRateMS:  inst.AscentRateMS,
		AccelMS2:      inst.AccelMS2,
		BallastMassKg: inst.BallastMassKg,
		LiftGasMassKg: inst.Balloon.LiftGas.Mass(),
		VentPWM:       inst.VentPWM,
		DumpPWM:       inst.DumpPWM,
		GrossLiftN:    inst.GrossLiftN,
		FreeLiftN:     inst.FreeLiftN,
		AtmoTempK:     inst.Atmosphere.Temperature(),
		AtmoPresPa:    inst.Atmosphere.Pressure(),
	}
}

// AsyncSim is the simulator's worker thread. Create, Start once, then
// SendCommand/GetSimOutput freely from any goroutine, and Join to wait for
// shutdown. Calling Start twice is a programmer error, matching the
// reference implementation's panic-on-double-start contract.
type AsyncSim struct {
	runID  string
	cfg    simcore.Config
	rateHz float64
	sink   *CSVSink
	logger *logrus.Logger

	startInst *simcore.Instant

	mu      sync.Mutex
	latest  SimOutput
	started bool

	commandCh chan Command
	done      chan struct{}
	runErr    error
}

// New constructs an AsyncSim that will integrate from the given initial
// conditions at rateHz once started. sink may be nil to disable CSV
// tracing.
func New(cfg simcore.Config, rateHz, initialAltitudeM, initialVelocityMS, ballastMassKg, liftGasMassKg float64, sink *CSVSink) *AsyncSim {
	startInst := simcore.Init(cfg, initialAltitudeM, initialVelocityMS, ballastMassKg, liftGasMassKg)
	return &AsyncSim{
		runID:     uuid.NewString(),
		cfg:       cfg,
		rateHz:    rateHz,
		sink:      sink,
		logger:    logging.Logger,
		startInst: startInst,
		latest:    outputFromInstant(startInst),
		commandCh: make(chan Command, 1),
		done:      make(chan struct{}),
	}
}

// RunID returns the unique identifier stamped on this simulator run, for
// correlating its CSV trace and log lines with other runs.
func (a *AsyncSim) RunID() string { return a.runID }

// GetSimOutput returns a snapshot of the most recently published tick.
// Safe to call from any goroutine at any time.
func (a *AsyncSim) GetSimOutput() SimOutput {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.latest
}

// SendCommand delivers the latest actuator command to the simulator. If a
// command is already pending and unconsumed, it is replaced: only the
// newest command applies on the next tick.
func (a *AsyncSim) SendCommand(cmd Command) {
	for {
		select {
		case a.commandCh <- cmd:
			return
		default:
		}
		select {
		case <-a.commandCh:
		default:
		}
	}
}

// Start spawns the worker goroutine. Calling Start twice panics.
func (a *AsyncSim) Start() {
	a.mu.Lock()
	if a.started {
		a.mu.Unlock()
		panic("asyncsim: Start called twice")
	}
	a.started = true
	a.mu.Unlock()

	go a.run()
}

// Join blocks until the worker goroutine exits and returns the error that
// ended it: an error on a blown cycle, nil once the vehicle reaches the
// ground while descending.
func (a *AsyncSim) Join() error {
	<-a.done
	return a.runErr
}

func (a *AsyncSim) run() {
	defer close(a.done)

	rate := NewRate(a.rateHz)
	inst := a.startInst

	var ventPWM, dumpPWM float64

	for {
		if err := rate.Sleep(); err != nil {
			a.logger.WithError(err).WithField("run_id", a.runID).Error("simulator rate cycle blown")
			a.runErr = fmt.Errorf("simulator: %w", err)
			return
		}

		select {
		case cmd := <-a.commandCh:
			ventPWM = cmd.VentPWM
			dumpPWM = cmd.DumpPWM
		default:
		}

		inst.VentPWM = ventPWM
		inst.DumpPWM = dumpPWM
		inst = simcore.Step(inst, a.cfg)

		out := outputFromInstant(inst)
		a.mu.Lock()
		a.latest = out
		a.mu.Unlock()

		if a.sink != nil {
			if err := a.sink.WriteRow(out); err != nil {
				a.logger.WithError(err).Warn("csv sink write failed")
			}
		}

		if inst.AltitudeM <= 0 && inst.AscentRateMS < 0 {
			a.logger.Info("simulation reached ground with negative ascent rate, stopping")
			return
		}
	}
}
