// Package balloon models the latex envelope carrying the lift gas: a
// burst limit, a drag coefficient, and the permanent loss of lift once
// the envelope fails.
package balloon

import (
	"math"

	"github.com/hab-systems/aerostat-mfc/internal/gasvolume"
)

// PartID is a closed enumeration over the balloon part catalogue. There is
// deliberately no extension point — new parts require a new PartID and a
// table entry, not an open interface.
type PartID int

const (
	Hab800 PartID = iota
	Hab1200
	Hab1500
	Hab2000
	Hab3000
)

func (p PartID) String() string {
	switch p {
	case Hab800:
		return "HAB-800"
	case Hab1200:
		return "HAB-1200"
	case Hab1500:
		return "HAB-1500"
	case Hab2000:
		return "HAB-2000"
	case Hab3000:
		return "HAB-3000"
	default:
		return "unknown"
	}
}

type partSpec struct {
	dryMassKg           float64
	burstDiameterM      float64
	dragCoeff           float64
	recommendedFreeLift float64
}

var catalogue = map[PartID]partSpec{
	Hab800:  {dryMassKg: 0.8, burstDiameterM: 7.0, dragCoeff: 0.3, recommendedFreeLift: 0.970},
	Hab1200: {dryMassKg: 1.2, burstDiameterM: 8.63, dragCoeff: 0.25, recommendedFreeLift: 1.19},
	Hab1500: {dryMassKg: 1.5, burstDiameterM: 9.44, dragCoeff: 0.25, recommendedFreeLift: 1.28},
	Hab2000: {dryMassKg: 2.0, burstDiameterM: 10.54, dragCoeff: 0.25, recommendedFreeLift: 1.42},
	Hab3000: {dryMassKg: 3.0, burstDiameterM: 13.0, dragCoeff: 0.25, recommendedFreeLift: 1.67},
}

func sphereVolumeFromDiameter(diameterM float64) float64 {
	r := diameterM / 2
	return (4.0 / 3.0) * math.Pi * r * r * r
}

// Balloon is an envelope wrapping a lift-gas volume. Once the envelope
// bursts it stays burst: Intact never returns to true.
type Balloon struct {
	PartID              PartID
	LiftGas             *gasvolume.Volume
	DryMassKg           float64
	MaxVolumeM3         float64
	DragCoeff           float64
	RecommendedFreeLift float64
	Intact              bool
}

// New constructs a Balloon of the given part wrapping liftGas, intact.
func New(part PartID, liftGas *gasvolume.Volume) *Balloon {
	spec := catalogue[part]
	return &Balloon{
		PartID:              part,
		LiftGas:             liftGas,
		DryMassKg:           spec.dryMassKg,
		MaxVolumeM3:         sphereVolumeFromDiameter(spec.burstDiameterM),
		DragCoeff:           spec.dragCoeff,
		RecommendedFreeLift: spec.recommendedFreeLift,
		Intact:              true,
	}
}

// burst permanently loses the lift gas and zeroes drag: once burst there
// is no lift contribution and the integrator must pick a free-fall or
// parachute drag regime instead.
func (b *Balloon) burst() {
	b.Intact = false
	b.DragCoeff = 0
	b.LiftGas.SetMass(0)
}

// CheckBurst evaluates the burst condition (current lift-gas volume
// exceeds the part's rated max volume) and transitions the balloon to
// !Intact if so. A no-op once already burst.
func (b *Balloon) CheckBurst() {
	if !b.Intact {
		return
	}
	if b.LiftGas.VolumeM3() > b.MaxVolumeM3 {
		b.burst()
	}
}
