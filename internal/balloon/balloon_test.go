package balloon

import (
	"testing"

	"github.com/hab-systems/aerostat-mfc/internal/gasvolume"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewIsIntact(t *testing.T) {
	b := New(Hab1200, gasvolume.New(gasvolume.He, 1))
	assert.True(t, b.Intact)
	assert.Greater(t, b.MaxVolumeM3, 0.0)
}

func TestCheckBurst_TransitionsWhenOverVolume(t *testing.T) {
	gas := gasvolume.New(gasvolume.He, 10000) // absurdly large mass to force V > V_burst
	b := New(Hab800, gas)

	b.CheckBurst()

	require.False(t, b.Intact)
	assert.Equal(t, 0.0, b.DragCoeff)
	assert.Equal(t, 0.0, b.LiftGas.Mass())
}

func TestCheckBurst_NoOpOnceBurst(t *testing.T) {
	gas := gasvolume.New(gasvolume.He, 10000)
	b := New(Hab800, gas)
	b.CheckBurst()
	require.False(t, b.Intact)

	b.LiftGas.SetMass(5) // simulate something trying to refill post-burst
	b.CheckBurst()
	assert.False(t, b.Intact, "burst is permanent")
}

func TestCheckBurst_StaysIntactUnderLimit(t *testing.T) {
	gas := gasvolume.New(gasvolume.He, 0.01)
	b := New(Hab3000, gas)
	b.CheckBurst()
	assert.True(t, b.Intact)
}
