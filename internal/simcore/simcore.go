// Package simcore implements the one-step numerical integrator that
// propagates the balloon's vertical motion: mass flows, burst detection,
// drag-regime selection, and semi-implicit Euler integration.
package simcore

import (
	"github.com/hab-systems/aerostat-mfc/internal/atmosphere"
	"github.com/hab-systems/aerostat-mfc/internal/balloon"
	"github.com/hab-systems/aerostat-mfc/internal/force"
	"github.com/hab-systems/aerostat-mfc/internal/gasvolume"
)

// Config holds the fixed parameters of a simulation run: time step,
// vehicle mass properties, and the two mass-flow-controlled valves.
type Config struct {
	DeltaT                float64 // [s]
	DryMassKg             float64
	LiftGasSpecies        gasvolume.Species
	BoxAreaM2             float64
	BoxDragCoeff          float64
	BalloonPart           balloon.PartID
	ParachuteAreaM2       float64
	ParachuteOpenAltitude float64 // [m]
	ParachuteDragCoeff    float64
	VentMassFlowKgS       float64 // [kg/s] at PWM=1
	DumpMassFlowKgS       float64 // [kg/s] at PWM=1
}

// Instant is the per-step state record of the integrator: everything
// needed to resume the simulation from this point, plus the derived
// telemetry fields.
type Instant struct {
	TimeS         float64
	AltitudeM     float64
	AscentRateMS  float64
	AccelMS2      float64
	Atmosphere    atmosphere.State
	Balloon       *balloon.Balloon
	BallastMassKg float64
	VentPWM       float64
	DumpPWM       float64

	// Derived, telemetry-only.
	GrossLiftN float64
	FreeLiftN  float64
}

// Init builds the initial Instant for a simulation run from a Config and
// starting conditions.
func Init(cfg Config, initialAltitudeM, initialVelocityMS, ballastMassKg, liftGasMassKg float64) *Instant {
	atmo := atmosphere.At(initialAltitudeM)
	gas := gasvolume.New(cfg.LiftGasSpecies, liftGasMassKg)
	gas.UpdateFromAmbient(atmo)
	b := balloon.New(cfg.BalloonPart, gas)

	inst := &Instant{
		TimeS:         0,
		AltitudeM:     initialAltitudeM,
		AscentRateMS:  initialVelocityMS,
		AccelMS2:      0,
		Atmosphere:    atmo,
		Balloon:       b,
		BallastMassKg: ballastMassKg,
	}
	inst.updateDerived()
	return inst
}

func (inst *Instant) updateDerived() {
	volume := inst.Balloon.LiftGas.VolumeM3()
	density := inst.Balloon.LiftGas.Density()
	atmoDensity := inst.Atmosphere.Density()
	totalDryMass := inst.Balloon.DryMassKg + inst.BallastMassKg
	inst.GrossLiftN = force.GrossLift(volume, density, atmoDensity)
	inst.FreeLiftN = force.FreeLift(volume, density, atmoDensity, totalDryMass)
}

// Step advances prev by one Config.DeltaT and returns the new Instant.
// prev is not mutated; the returned Instant owns its own Balloon/GasVolume.
//
// Order of operations (see spec): sample atmosphere at the previous
// altitude, equilibrate the lift gas, apply mass flows, evaluate burst,
// choose the drag regime, compute net force and acceleration, integrate
// with semi-implicit Euler, then resample the atmosphere at the new
// altitude.
func Step(prev *Instant, cfg Config) *Instant {
	atmo := atmosphere.At(prev.AltitudeM)

	gas := gasvolume.New(prev.Balloon.LiftGas.Species(), prev.Balloon.LiftGas.Mass())
	gas.SetTemperature(prev.Balloon.LiftGas.Temperature())
	gas.SetPressure(prev.Balloon.LiftGas.Pressure())
	gas.UpdateFromAmbient(atmo)

	b := &balloon.Balloon{
		PartID:              prev.Balloon.PartID,
		LiftGas:             gas,
		DryMassKg:           prev.Balloon.DryMassKg,
		MaxVolumeM3:         prev.Balloon.MaxVolumeM3,
		DragCoeff:           prev.Balloon.DragCoeff,
		RecommendedFreeLift: prev.Balloon.RecommendedFreeLift,
		Intact:              prev.Balloon.Intact,
	}

	ballastMass := prev.BallastMassKg - prev.DumpPWM*cfg.DumpMassFlowKgS*cfg.DeltaT
	if ballastMass < 0 {
		ballastMass = 0
	}
	gas.SetMass(gas.Mass() - prev.VentPWM*cfg.VentMassFlowKgS*cfg.DeltaT)

	totalDryMass := cfg.DryMassKg + ballastMass

	b.CheckBurst()

	var projectedArea, dragCoeff float64
	switch {
	case b.Intact:
		projectedArea = force.SphereAreaFromVolume(gas.VolumeM3())
		dragCoeff = b.DragCoeff
	case prev.AltitudeM <= cfg.ParachuteOpenAltitude:
		projectedArea = cfg.ParachuteAreaM2
		dragCoeff = cfg.ParachuteDragCoeff
	default:
		projectedArea = cfg.BoxAreaM2
		dragCoeff = cfg.BoxDragCoeff
	}

	netForce := force.Net(prev.AltitudeM, prev.AscentRateMS, gas.VolumeM3(), gas.Density(),
		atmo.Density(), projectedArea, dragCoeff, totalDryMass)
	accel := netForce / totalDryMass

	ascentRate := prev.AscentRateMS + accel*cfg.DeltaT
	altitude := prev.AltitudeM + ascentRate*cfg.DeltaT

	newAtmo := atmosphere.At(altitude)

	next := &Instant{
		TimeS:         prev.TimeS + cfg.DeltaT,
		AltitudeM:     altitude,
		AscentRateMS:  ascentRate,
		AccelMS2:      accel,
		Atmosphere:    newAtmo,
		Balloon:       b,
		BallastMassKg: ballastMass,
		VentPWM:       prev.VentPWM,
		DumpPWM:       prev.DumpPWM,
	}
	next.updateDerived()
	return next
}
