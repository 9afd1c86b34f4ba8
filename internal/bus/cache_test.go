package bus

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMessageCache_EmptyIsStaleAndHasNoValue(t *testing.T) {
	c := NewMessageCache[int]()
	_, ok := c.Get()
	assert.False(t, ok)
	assert.True(t, c.Stale(time.Hour))
}

func TestMessageCache_UpdateThenGet(t *testing.T) {
	c := NewMessageCache[AltitudeBoardTlm]()
	c.Update(AltitudeBoardTlm{Altitude: 25000})

	m, ok := c.Get()
	require.True(t, ok)
	assert.Equal(t, float32(25000), m.Value.Altitude)
	assert.False(t, c.Stale(time.Hour))
}

func TestMessageCache_StaleAfterMaxAge(t *testing.T) {
	c := NewMessageCache[int]()
	c.Update(1)
	assert.True(t, c.Stale(-time.Nanosecond))
}
