package force

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGravity_NegativeAndNearStandardAtSeaLevel(t *testing.T) {
	g := Gravity(0)
	assert.InDelta(t, -standardG, g, 1e-9)
}

func TestGravity_WeakensWithAltitude(t *testing.T) {
	g0 := Gravity(0)
	g1 := Gravity(30000)
	assert.Less(t, math.Abs(g1), math.Abs(g0))
}

func TestWeight_IsNegativeForPositiveMass(t *testing.T) {
	w := Weight(0, 10)
	assert.Less(t, w, 0.0)
}

func TestBuoyancy_PositiveWhenLessDenseThanAmbient(t *testing.T) {
	b := Buoyancy(0, 10, 0.1, 1.2)
	assert.Greater(t, b, 0.0)
}

func TestDrag_OpposesVelocity(t *testing.T) {
	up := Drag(5, 1.2, 1.0, 0.3)
	down := Drag(-5, 1.2, 1.0, 0.3)
	assert.Less(t, up, 0.0)
	assert.Greater(t, down, 0.0)
}

func TestDrag_ZeroVelocityIsZeroForce(t *testing.T) {
	assert.Equal(t, 0.0, Drag(0, 1.2, 1.0, 0.3))
}

func TestSphereAreaFromVolume_KnownSphere(t *testing.T) {
	r := 1.0
	v := (4.0 / 3.0) * math.Pi * r * r * r
	area := SphereAreaFromVolume(v)
	assert.InDelta(t, math.Pi*r*r, area, 1e-9)
}

func TestFreeLift_SubtractsDryMass(t *testing.T) {
	gross := GrossLift(10, 0.1, 1.2)
	free := FreeLift(10, 0.1, 1.2, 5)
	assert.InDelta(t, gross-5, free, 1e-9)
}
