package asyncsim

import (
	"fmt"
	"time"
)

// Rate is a monotonic-clock cycle pacer. Sleep blocks for exactly
// cycleTime - (now - end_of_last_sleep), preserving the long-run average
// rate rather than just sleeping cycleTime every call (which would drift
// by however long the cycle body itself took).
type Rate struct {
	cycleTime       time.Duration
	endOfLastSleep  time.Time
	haveLastSleep   bool
}

// NewRate constructs a Rate that paces at rateHz cycles per second.
func NewRate(rateHz float64) *Rate {
	return &Rate{cycleTime: time.Duration(float64(time.Second) / rateHz)}
}

// ErrBlownCycle indicates the cycle body took longer than the requested
// period; the caller's loop has fallen behind and cannot safely continue
// at rate.
type ErrBlownCycle struct {
	CycleTime time.Duration
	Elapsed   time.Duration
}

func (e *ErrBlownCycle) Error() string {
	return fmt.Sprintf("blown cycle: elapsed %s exceeds cycle time %s", e.Elapsed, e.CycleTime)
}

// Sleep blocks until the next cycle boundary. It returns ErrBlownCycle,
// without sleeping, if the previous cycle ran long enough that the next
// boundary has already passed — this is fatal per the control system's
// timing contract, not something to silently absorb.
func (r *Rate) Sleep() error {
	now := time.Now()

	var sleepDuration time.Duration
	if r.haveLastSleep {
		elapsed := now.Sub(r.endOfLastSleep)
		if elapsed > r.cycleTime {
			return &ErrBlownCycle{CycleTime: r.cycleTime, Elapsed: elapsed}
		}
		sleepDuration = r.cycleTime - elapsed
	} else {
		sleepDuration = r.cycleTime
	}

	time.Sleep(sleepDuration)
	r.endOfLastSleep = time.Now()
	r.haveLastSleep = true
	return nil
}
