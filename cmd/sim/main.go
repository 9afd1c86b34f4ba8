// Command sim runs the balloon flight dynamics simulator: it integrates
// physics at a fixed rate, publishes telemetry on the bus, consumes
// actuator commands, and traces every tick to a CSV file.
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/hab-systems/aerostat-mfc/internal/asyncsim"
	"github.com/hab-systems/aerostat-mfc/internal/bus"
	"github.com/hab-systems/aerostat-mfc/internal/config"
	"github.com/hab-systems/aerostat-mfc/internal/logging"
	"golang.org/x/sync/errgroup"
)

func main() {
	os.Exit(run())
}

func run() int {
	logger := logging.Logger

	if len(os.Args) < 2 || os.Args[1] != "start" {
		fmt.Fprintln(os.Stderr, "usage: sim start --sim-config <FILE> --outfile <CSV>")
		return 1
	}

	startCmd := flag.NewFlagSet("start", flag.ExitOnError)
	simConfigPath := startCmd.String("sim-config", "", "path to the simulator YAML config")
	outfile := startCmd.String("outfile", "sim_trace.csv", "CSV trace output path")
	startCmd.Parse(os.Args[2:])

	if *simConfigPath == "" {
		logger.Error("sim: --sim-config is required")
		return 1
	}

	simCfg, err := config.LoadSimulator(*simConfigPath)
	if err != nil {
		logger.WithError(err).Error("sim: failed to load simulator config")
		return 1
	}

	f, err := os.Create(*outfile)
	if err != nil {
		logger.WithError(err).Error("sim: failed to create CSV outfile")
		return 1
	}
	defer f.Close()

	sink, err := asyncsim.NewCSVSink(f)
	if err != nil {
		logger.WithError(err).Error("sim: failed to initialize CSV sink")
		return 1
	}

	b, err := bus.Start()
	if err != nil {
		logger.WithError(err).Error("sim: failed to start pub/sub bus")
		return 1
	}
	defer b.Close()

	relay, err := bus.NewUDPIngressRelay(bus.DefaultUDPIngressAddr, b, bus.EndpointNucleus)
	if err != nil {
		logger.WithError(err).Error("sim: failed to start udp ingress relay")
		return 1
	}
	defer relay.Stop()
	go relay.Run()

	cfg := simCfg.ToSimCoreConfig()
	sim := asyncsim.New(cfg, simCfg.PhysicsRateHz, simCfg.InitialAltitudeM,
		simCfg.InitialVelocityMS, simCfg.BallastMassKg, simCfg.LiftGasMassKg, sink)

	sub, err := bus.Subscribe[bus.PWMCommand](b, bus.EndpointNucleusPWM, bus.TopicPWMs, func(cmd bus.PWMCommand) {
		sim.SendCommand(asyncsim.Command{VentPWM: float64(cmd.VentPWM), DumpPWM: float64(cmd.DumpPWM)})
	})
	if err != nil {
		logger.WithError(err).Error("sim: failed to subscribe to pwm commands")
		return 1
	}
	defer sub.Unsubscribe()

	sim.Start()

	stopPublishing := make(chan struct{})
	var g errgroup.Group

	g.Go(func() error {
		err := sim.Join()
		close(stopPublishing)
		return err
	})

	g.Go(func() error {
		publishCycle := time.Duration(float64(time.Second) / simCfg.PhysicsRateHz)
		publishTicker := time.NewTicker(publishCycle)
		defer publishTicker.Stop()
		for {
			select {
			case <-stopPublishing:
				return nil
			case <-publishTicker.C:
				out := sim.GetSimOutput()
				tlm := bus.AltitudeBoardTlm{Altitude: float32(out.AltitudeM), BallastMass: float32(out.BallastMassKg)}
				if err := bus.Publish(b, bus.EndpointNucleus, bus.TopicAltitude, tlm); err != nil {
					logger.WithError(err).Warn("sim: telemetry publish failed")
				}
			}
		}
	})

	if err := g.Wait(); err != nil {
		logger.WithError(err).WithField("run_id", sim.RunID()).Error("sim: simulator worker exited with error")
		return 1
	}
	fmt.Printf("sim: run %s complete\n", sim.RunID())
	return 0
}
