package asyncsim

import (
	"encoding/csv"
	"fmt"
	"io"
)

var csvHeader = []string{
	"time_s", "altitude_m", "ascent_rate_m_s", "acceleration_m_s2",
	"lift_gas_mass_kg", "ballast_mass_kg", "vent_pwm", "dump_pwm",
	"gross_lift_N", "free_lift_N", "atmo_temp_K", "atmo_pres_Pa",
}

// CSVSink is the simulator's peripheral trace writer: one header row then
// one row per physics tick, flushed after every record so a crash loses
// at most the in-flight write.
type CSVSink struct {
	w *csv.Writer
}

// NewCSVSink wraps writer and immediately writes the header row.
func NewCSVSink(writer io.Writer) (*CSVSink, error) {
	w := csv.NewWriter(writer)
	if err := w.Write(csvHeader); err != nil {
		return nil, fmt.Errorf("write csv header: %w", err)
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("flush csv header: %w", err)
	}
	return &CSVSink{w: w}, nil
}

// WriteRow appends one tick's SimOutput as a CSV row and flushes.
func (s *CSVSink) WriteRow(o SimOutput) error {
	row := []string{
		fmt.Sprintf("%g", o.TimeS),
		fmt.Sprintf("%g", o.AltitudeM),
		fmt.Sprintf("%g", o.AscentRateMS),
		fmt.Sprintf("%g", o.AccelMS2),
		fmt.Sprintf("%g", o.LiftGasMassKg),
		fmt.Sprintf("%g", o.BallastMassKg),
		fmt.Sprintf("%g", o.VentPWM),
		fmt.Sprintf("%g", o.DumpPWM),
		fmt.Sprintf("%g", o.GrossLiftN),
		fmt.Sprintf("%g", o.FreeLiftN),
		fmt.Sprintf("%g", o.AtmoTempK),
		fmt.Sprintf("%g", o.AtmoPresPa),
	}
	if err := s.w.Write(row); err != nil {
		return fmt.Errorf("write csv row: %w", err)
	}
	s.w.Flush()
	return s.w.Error()
}
