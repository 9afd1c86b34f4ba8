package bus

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestPublishSubscribe_RoundTrip(t *testing.T) {
	b, err := Start()
	require.NoError(t, err)
	defer b.Close()

	received := make(chan AltitudeBoardTlm, 1)
	sub, err := Subscribe[AltitudeBoardTlm](b, EndpointNucleus, TopicAltitude, func(tlm AltitudeBoardTlm) {
		received <- tlm
	})
	require.NoError(t, err)
	defer sub.Unsubscribe()

	err = Publish(b, EndpointNucleus, TopicAltitude, AltitudeBoardTlm{Altitude: 12345, BallastMass: 1})
	require.NoError(t, err)

	select {
	case tlm := <-received:
		require.Equal(t, float32(12345), tlm.Altitude)
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for published frame")
	}
}

func TestSubscribe_IgnoresOtherTopicsOnSameEndpoint(t *testing.T) {
	b, err := Start()
	require.NoError(t, err)
	defer b.Close()

	received := make(chan PWMCommand, 1)
	sub, err := Subscribe[PWMCommand](b, EndpointNucleus, TopicPWMs, func(cmd PWMCommand) {
		received <- cmd
	})
	require.NoError(t, err)
	defer sub.Unsubscribe()

	err = Publish(b, EndpointNucleus, TopicAltitude, AltitudeBoardTlm{Altitude: 1})
	require.NoError(t, err)

	select {
	case <-received:
		t.Fatal("should not have received a frame for a different topic")
	case <-time.After(300 * time.Millisecond):
	}
}

// TestTwoIndependentStarts_ShareOneBroker exercises the multi-process
// rendezvous Start relies on: the first Bus to start hosts the embedded
// broker, and a second, independently-started Bus must be able to dial
// into that same broker and exchange a frame with it.
func TestTwoIndependentStarts_ShareOneBroker(t *testing.T) {
	first, err := Start()
	require.NoError(t, err)
	defer first.Close()

	second, err := Start()
	require.NoError(t, err)
	defer second.Close()

	received := make(chan AltitudeBoardTlm, 1)
	sub, err := Subscribe[AltitudeBoardTlm](second, EndpointNucleus, TopicAltitude, func(tlm AltitudeBoardTlm) {
		received <- tlm
	})
	require.NoError(t, err)
	defer sub.Unsubscribe()

	err = Publish(first, EndpointNucleus, TopicAltitude, AltitudeBoardTlm{Altitude: 999})
	require.NoError(t, err)

	select {
	case tlm := <-received:
		require.Equal(t, float32(999), tlm.Altitude)
	case <-time.After(2 * time.Second):
		t.Fatal("second Bus never received a frame published by the first Bus; two independently-started processes cannot share telemetry")
	}
}

func TestPublishSubscribe_GroundCommandRoundTrip(t *testing.T) {
	b, err := Start()
	require.NoError(t, err)
	defer b.Close()

	received := make(chan GroundCommand, 1)
	sub, err := Subscribe[GroundCommand](b, EndpointNucleus, TopicGround, func(gc GroundCommand) {
		received <- gc
	})
	require.NoError(t, err)
	defer sub.Unsubscribe()

	err = Publish(b, EndpointNucleus, TopicGround, GroundCommand{Arm: true, Cutdown: true})
	require.NoError(t, err)

	select {
	case gc := <-received:
		require.True(t, gc.Arm)
		require.True(t, gc.Cutdown)
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for ground command frame")
	}
}
