// Package config loads the YAML configuration records consumed by the
// cmd/ entrypoints. The core control and simulation packages never parse
// configuration themselves — they take fully-populated structs — so this
// package is the only place a malformed file surfaces as a fatal error.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/hab-systems/aerostat-mfc/internal/balloon"
	"github.com/hab-systems/aerostat-mfc/internal/control"
	"github.com/hab-systems/aerostat-mfc/internal/gasvolume"
	"github.com/hab-systems/aerostat-mfc/internal/simcore"
	"go.yaml.in/yaml/v2"
)

// Simulator mirrors the on-disk simulator configuration record.
type Simulator struct {
	PhysicsRateHz         float64 `yaml:"physics_rate_hz"`
	InitialAltitudeM      float64 `yaml:"initial_altitude_m"`
	InitialVelocityMS     float64 `yaml:"initial_velocity_m_s"`
	DryMassKg             float64 `yaml:"dry_mass_kg"`
	BallastMassKg         float64 `yaml:"ballast_mass_kg"`
	LiftGasMassKg         float64 `yaml:"lift_gas_mass_kg"`
	LiftGasSpecies        string  `yaml:"lift_gas_species"`
	BalloonPart           string  `yaml:"balloon_part"`
	BoxAreaM2             float64 `yaml:"box_area_m2"`
	BoxDragCoeff          float64 `yaml:"box_drag_coeff"`
	ParachuteAreaM2       float64 `yaml:"parachute_area_m2"`
	ParachuteOpenAltitude float64 `yaml:"parachute_open_altitude_m"`
	ParachuteDragCoeff    float64 `yaml:"parachute_drag_coeff"`
	VentMassFlowKgS       float64 `yaml:"vent_valve_mass_flow_kg_s"`
	DumpMassFlowKgS       float64 `yaml:"dump_valve_mass_flow_kg_s"`
}

// Controller mirrors the on-disk controller configuration record.
type Controller struct {
	TargetAltitudeM   float64 `yaml:"target_altitude_m"`
	VentKp            float64 `yaml:"vent_kp"`
	VentKi            float64 `yaml:"vent_ki"`
	VentKd            float64 `yaml:"vent_kd"`
	DumpKp            float64 `yaml:"dump_kp"`
	DumpKi            float64 `yaml:"dump_ki"`
	DumpKd            float64 `yaml:"dump_kd"`
	CtrlRateHz        float64 `yaml:"ctrl_rate_hz"`
	AltitudeFloorM    float64 `yaml:"altitude_floor_m"`
	ErrorDeadzoneM    float64 `yaml:"error_deadzone_m"`
	ErrorReadyThresholdM float64 `yaml:"error_ready_threshold_m"`
	SpeedDeadzoneMS   float64 `yaml:"speed_deadzone_m_s"`
	TlmMaxAgeS        float64 `yaml:"tlm_max_age_s"`
	MinBallastKg      float64 `yaml:"min_ballast_kg"`
}

// LoadSimulator reads and parses a simulator configuration file.
func LoadSimulator(path string) (Simulator, error) {
	var s Simulator
	raw, err := os.ReadFile(path)
	if err != nil {
		return s, fmt.Errorf("config: read simulator config %q: %w", path, err)
	}
	if err := yaml.Unmarshal(raw, &s); err != nil {
		return s, fmt.Errorf("config: parse simulator config %q: %w", path, err)
	}
	return s, nil
}

// LoadController reads and parses a controller configuration file.
func LoadController(path string) (Controller, error) {
	var c Controller
	raw, err := os.ReadFile(path)
	if err != nil {
		return c, fmt.Errorf("config: read controller config %q: %w", path, err)
	}
	if err := yaml.Unmarshal(raw, &c); err != nil {
		return c, fmt.Errorf("config: parse controller config %q: %w", path, err)
	}
	return c, nil
}

var speciesByName = map[string]gasvolume.Species{
	"air": gasvolume.Air, "he": gasvolume.He, "h2": gasvolume.H2,
	"n2": gasvolume.N2, "o2": gasvolume.O2, "ar": gasvolume.Ar,
	"co2": gasvolume.CO2, "ne": gasvolume.Ne, "kr": gasvolume.Kr,
	"xe": gasvolume.Xe, "ch4": gasvolume.CH4,
}

var partByName = map[string]balloon.PartID{
	"hab-800": balloon.Hab800, "hab-1200": balloon.Hab1200,
	"hab-1500": balloon.Hab1500, "hab-2000": balloon.Hab2000,
	"hab-3000": balloon.Hab3000,
}

// ToSimCoreConfig translates the on-disk record into the typed
// simcore.Config the integrator consumes, resolving string-keyed gas
// species and balloon parts to their enum values. Unknown names fall
// back to Air / HAB-800 respectively.
func (s Simulator) ToSimCoreConfig() simcore.Config {
	species, ok := speciesByName[s.LiftGasSpecies]
	if !ok {
		species = gasvolume.Air
	}
	part, ok := partByName[s.BalloonPart]
	if !ok {
		part = balloon.Hab800
	}
	return simcore.Config{
		DeltaT:                1.0 / s.PhysicsRateHz,
		DryMassKg:             s.DryMassKg,
		LiftGasSpecies:        species,
		BoxAreaM2:             s.BoxAreaM2,
		BoxDragCoeff:          s.BoxDragCoeff,
		BalloonPart:           part,
		ParachuteAreaM2:       s.ParachuteAreaM2,
		ParachuteOpenAltitude: s.ParachuteOpenAltitude,
		ParachuteDragCoeff:    s.ParachuteDragCoeff,
		VentMassFlowKgS:       s.VentMassFlowKgS,
		DumpMassFlowKgS:       s.DumpMassFlowKgS,
	}
}

// ToControlConfig translates the on-disk record into the typed
// control.Config the altitude controller consumes.
func (c Controller) ToControlConfig() control.Config {
	return control.Config{
		TargetAltitudeM:   c.TargetAltitudeM,
		VentGains:         control.Gains{Kp: c.VentKp, Ki: c.VentKi, Kd: c.VentKd},
		DumpGains:         control.Gains{Kp: c.DumpKp, Ki: c.DumpKi, Kd: c.DumpKd},
		PIDLimits:         control.Limits{P: 1, I: 1, D: 1, Output: 1},
		CtrlRateHz:        c.CtrlRateHz,
		AltitudeFloorM:    c.AltitudeFloorM,
		AltitudeDeadzoneM: c.ErrorDeadzoneM,
		ReadyThresholdM:   c.ErrorReadyThresholdM,
		SpeedDeadzoneMS:   c.SpeedDeadzoneMS,
		TelemetryMaxAge:   time.Duration(c.TlmMaxAgeS * float64(time.Second)),
		MinBallastKg:      c.MinBallastKg,
	}
}
