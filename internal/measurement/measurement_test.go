package measurement

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestIsStale_StrictlyGreaterThan(t *testing.T) {
	now := time.Now()
	m := At(42, now.Add(-2*time.Second))

	assert.False(t, m.IsStale(2*time.Second), "exactly max_age old must not be stale")
	assert.True(t, m.IsStale(1900*time.Millisecond), "older than max_age must be stale")
}

func TestAge(t *testing.T) {
	ts := time.Now().Add(-5 * time.Second)
	m := At("x", ts)
	assert.InDelta(t, 5*time.Second, m.Age(), float64(50*time.Millisecond))
}

func TestNewStampsCurrentTime(t *testing.T) {
	before := time.Now()
	m := New(1.0)
	after := time.Now()

	assert.False(t, m.Timestamp.Before(before))
	assert.False(t, m.Timestamp.After(after))
}
