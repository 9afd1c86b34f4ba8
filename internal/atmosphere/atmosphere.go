// Package atmosphere implements the COESA 1976 (US Standard Atmosphere)
// piecewise temperature/pressure model used by the flight dynamics
// simulator.
package atmosphere

import (
	"fmt"
	"math"

	"github.com/hab-systems/aerostat-mfc/internal/gasvolume"
	"github.com/hab-systems/aerostat-mfc/internal/logging"
)

// MinAltitudeM and MaxAltitudeM bound the validity of the COESA layers
// used here. Outside this range the model has no defined temperature or
// pressure curve.
const (
	MinAltitudeM = -57.0
	MaxAltitudeM = 85000.0
)

// State is a sample of the atmosphere at a given altitude: temperature,
// pressure, and the density derived from them for dry air.
type State struct {
	AltitudeM   float64
	temperature float64 // [K]
	pressure    float64 // [Pa]
	density     float64 // [kg/m^3]
	valid       bool
}

// Temperature returns the sample's temperature (K).
func (s State) Temperature() float64 { return s.temperature }

// Pressure returns the sample's pressure (Pa).
func (s State) Pressure() float64 { return s.pressure }

// Density returns the sample's density (kg/m^3).
func (s State) Density() float64 { return s.density }

// Valid reports whether the altitude fell inside the model's accepted
// range. An invalid sample is zeroed; callers must treat it as a terminal
// excursion per spec.
func (s State) Valid() bool { return s.valid }

// At evaluates the COESA model at the given altitude. Altitudes outside
// [MinAltitudeM, MaxAltitudeM) return a zeroed, invalid State and log the
// excursion — the integrator treats that as a terminal condition.
func At(altitudeM float64) State {
	t, err := coesaTemperature(altitudeM)
	if err != nil {
		logging.Logger.WithField("altitude_m", altitudeM).Error(err.Error())
		return State{AltitudeM: altitudeM}
	}
	p, err := coesaPressure(altitudeM, t)
	if err != nil {
		logging.Logger.WithField("altitude_m", altitudeM).Error(err.Error())
		return State{AltitudeM: altitudeM}
	}
	rho := gasvolume.Air.MolarMass() * p / (gasvolume.R * t)
	return State{
		AltitudeM:   altitudeM,
		temperature: t,
		pressure:    p,
		density:     rho,
		valid:       true,
	}
}

func coesaTemperature(altitudeM float64) (float64, error) {
	switch {
	case altitudeM >= MinAltitudeM && altitudeM < 11000:
		return celsiusToKelvin(15.04 - 0.00649*altitudeM), nil
	case altitudeM >= 11000 && altitudeM < 25000:
		return celsiusToKelvin(-56.46), nil
	case altitudeM >= 25000 && altitudeM < MaxAltitudeM:
		return celsiusToKelvin(-131.21 + 0.00299*altitudeM), nil
	default:
		return 0, fmt.Errorf("altitude %gm is outside the accepted range [%g, %g)m", altitudeM, MinAltitudeM, MaxAltitudeM)
	}
}

func coesaPressure(altitudeM, temperatureK float64) (float64, error) {
	switch {
	case altitudeM >= MinAltitudeM && altitudeM < 11000:
		return 101.29 * math.Pow(temperatureK/288.08, 5.256) * 1000, nil
	case altitudeM >= 11000 && altitudeM < 25000:
		return 22.65 * math.Exp(1.73-0.000157*altitudeM) * 1000, nil
	case altitudeM >= 25000 && altitudeM < MaxAltitudeM:
		return 2.488 * math.Pow(temperatureK/216.6, -11.388) * 1000, nil
	default:
		return 0, fmt.Errorf("altitude %gm is outside the accepted range [%g, %g)m", altitudeM, MinAltitudeM, MaxAltitudeM)
	}
}

func celsiusToKelvin(c float64) float64 { return c + 273.15 }
