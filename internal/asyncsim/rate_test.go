package asyncsim

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRate_FirstSleepTakesOneFullCycle(t *testing.T) {
	r := NewRate(100) // 10ms cycle
	start := time.Now()
	err := r.Sleep()
	require.NoError(t, err)
	assert.GreaterOrEqual(t, time.Since(start), 9*time.Millisecond)
}

func TestRate_BlownCycleReturnsErrorWithoutSleeping(t *testing.T) {
	r := NewRate(1000) // 1ms cycle, easy to blow by sleeping longer than that ourselves
	require.NoError(t, r.Sleep())

	time.Sleep(10 * time.Millisecond)

	start := time.Now()
	err := r.Sleep()
	require.Error(t, err)
	assert.Less(t, time.Since(start), 2*time.Millisecond, "blown cycle must return immediately, not sleep")

	var blown *ErrBlownCycle
	require.ErrorAs(t, err, &blown)
}
