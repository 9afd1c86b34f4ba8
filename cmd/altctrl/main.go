// Command alt-ctrl runs the altitude-hold control loop: it subscribes to
// altitude telemetry on the bus, drives the ControlManager state machine
// at its configured rate, and publishes the resulting actuator commands.
package main

import (
	"flag"
	"os"
	"time"

	"github.com/hab-systems/aerostat-mfc/internal/bus"
	"github.com/hab-systems/aerostat-mfc/internal/config"
	"github.com/hab-systems/aerostat-mfc/internal/control"
	"github.com/hab-systems/aerostat-mfc/internal/logging"
	"github.com/hab-systems/aerostat-mfc/internal/measurement"
	"github.com/sirupsen/logrus"
)

func main() {
	os.Exit(run())
}

func run() int {
	configPath := flag.String("config", "", "path to the controller YAML config")
	flag.Parse()

	logger := logging.Logger

	if *configPath == "" {
		logger.Error("alt-ctrl: --config is required")
		return 1
	}

	ctrlCfg, err := config.LoadController(*configPath)
	if err != nil {
		logger.WithError(err).Error("alt-ctrl: failed to load controller config")
		return 1
	}

	b, err := bus.Start()
	if err != nil {
		logger.WithError(err).Error("alt-ctrl: failed to start pub/sub bus")
		return 1
	}
	defer b.Close()

	altitudeCache := bus.NewMessageCache[bus.AltitudeBoardTlm]()
	sub, err := bus.Subscribe[bus.AltitudeBoardTlm](b, bus.EndpointNucleus, bus.TopicAltitude, func(tlm bus.AltitudeBoardTlm) {
		altitudeCache.Update(tlm)
	})
	if err != nil {
		logger.WithError(err).Error("alt-ctrl: failed to subscribe to altitude telemetry")
		return 1
	}
	defer sub.Unsubscribe()

	mgr := control.NewManager(ctrlCfg.ToControlConfig(), nil)

	groundSub, err := bus.Subscribe[bus.GroundCommand](b, bus.EndpointNucleus, bus.TopicGround, func(gc bus.GroundCommand) {
		latch := mgr.Cutdown()
		if gc.Arm {
			latch.Arm()
		} else {
			latch.Disarm()
		}
		if gc.Cutdown {
			latch.LatchGround()
			logger.Warn("alt-ctrl: ground commanded cutdown latched")
		}
	})
	if err != nil {
		logger.WithError(err).Error("alt-ctrl: failed to subscribe to ground commands")
		return 1
	}
	defer groundSub.Unsubscribe()

	var prevAltitude float64
	var haveAltitude bool

	cycle := time.Duration(float64(time.Second) / ctrlCfg.CtrlRateHz)
	ticker := time.NewTicker(cycle)
	defer ticker.Stop()

	for range ticker.C {
		m, ok := altitudeCache.Get()

		var altitudeMeas, ascentRateMeas measurement.Measurement[float64]
		if ok {
			altitudeMeas = measurement.At(float64(m.Value.Altitude), m.Timestamp)
			ascentRate := 0.0
			if haveAltitude {
				ascentRate = (float64(m.Value.Altitude) - prevAltitude) / cycle.Seconds()
			}
			ascentRateMeas = measurement.At(ascentRate, m.Timestamp)
			prevAltitude = float64(m.Value.Altitude)
			haveAltitude = true
		} else {
			altitudeMeas = measurement.New(0)
			ascentRateMeas = measurement.New(0)
		}

		ballastMassKg := 0.0
		if ok {
			ballastMassKg = float64(m.Value.BallastMass)
		}

		cmd, status := mgr.Update(altitudeMeas, ascentRateMeas, ballastMassKg)

		if mgr.Cutdown().ShouldCutdown() {
			cmd.DumpPWM = 1
			logger.Warn("alt-ctrl: cutdown latch active, forcing dump valve open")
		}

		logger.WithFields(logrus.Fields{
			"mode": mgr.Mode().String(), "status": status,
			"cutdown": mgr.Cutdown().ShouldCutdown(),
			"vent_pwm": cmd.VentPWM, "dump_pwm": cmd.DumpPWM,
		}).Info("alt-ctrl: control cycle")

		pwm := bus.PWMCommand{VentPWM: float32(cmd.VentPWM), DumpPWM: float32(cmd.DumpPWM)}
		if err := bus.Publish(b, bus.EndpointNucleusPWM, bus.TopicPWMs, pwm); err != nil {
			logger.WithError(err).Warn("alt-ctrl: pwm publish failed")
		}
	}

	return 0
}
