package control

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCutdownLatch_RequiresArmAndLatch(t *testing.T) {
	var c CutdownLatch
	assert.False(t, c.ShouldCutdown())

	c.LatchGround()
	assert.False(t, c.ShouldCutdown(), "latched but not armed must not fire")

	c.Arm()
	assert.True(t, c.ShouldCutdown())
}

func TestCutdownLatch_EitherLatchFiresWhenArmed(t *testing.T) {
	var c CutdownLatch
	c.Arm()
	c.LatchController()
	assert.True(t, c.ShouldCutdown())
}

func TestCutdownLatch_DisarmSuppressesFiring(t *testing.T) {
	var c CutdownLatch
	c.Arm()
	c.LatchGround()
	c.Disarm()
	assert.False(t, c.ShouldCutdown())
}

func TestCutdownLatch_ResetClearsLatchesNotArm(t *testing.T) {
	var c CutdownLatch
	c.Arm()
	c.LatchGround()
	c.Reset()
	assert.False(t, c.ShouldCutdown())
	assert.True(t, c.Armed())
}
