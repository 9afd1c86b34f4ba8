// Package bus implements the flight computer's pub/sub telemetry and
// command fabric: topic framing, a MessagePack body codec, and a small
// UDP ingress relay, carried over an embedded NATS server so the
// simulator and control processes can run either in-process or as
// separate OS processes without changing the wire format.
package bus

import (
	"fmt"
	"net"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/hab-systems/aerostat-mfc/internal/logging"
	"github.com/nats-io/nats-server/v2/server"
	"github.com/nats-io/nats.go"
	"github.com/sirupsen/logrus"
	"github.com/vmihailenco/msgpack/v5"
)

// Named pub/sub endpoints, matching the reference bus's local named
// sockets: telemetry fan-out and actuator command fan-out are kept on
// separate subjects so a subscriber to one never sees traffic from the
// other.
const (
	EndpointNucleus    = "nucleus"
	EndpointNucleusPWM = "nucleus_pwm"
)

// DefaultBusAddr is the well-known address the three deployable binaries
// (sim, alt-ctrl, status) rendezvous on. Overridable with MFC_BUS_ADDR so
// a deployment can move the broker off the default port.
const DefaultBusAddr = "nats://127.0.0.1:60953"

// Bus is a client connection to the flight computer's shared NATS broker,
// carrying Frame-encoded messages on the named endpoints above. srv is
// non-nil only on the one process that ended up hosting the embedded
// broker the others dialed into.
type Bus struct {
	srv *server.Server
	nc  *nats.Conn
}

// Start connects to the shared broker at MFC_BUS_ADDR (or DefaultBusAddr).
// Whichever of the sim/alt-ctrl/status processes starts first finds no one
// listening and boots the embedded NATS server itself; every later process
// just dials in as a plain client. This makes the three OS processes share
// one bus instead of each getting its own private, unreachable broker.
func Start() (*Bus, error) {
	addr := os.Getenv("MFC_BUS_ADDR")
	if addr == "" {
		addr = DefaultBusAddr
	}

	if nc, err := nats.Connect(addr, nats.Timeout(2*time.Second)); err == nil {
		return &Bus{nc: nc}, nil
	}

	host, portStr, err := net.SplitHostPort(strings.TrimPrefix(addr, "nats://"))
	if err != nil {
		return nil, fmt.Errorf("bus: parse bus address %q: %w", addr, err)
	}
	port, err := strconv.Atoi(portStr)
	if err != nil {
		return nil, fmt.Errorf("bus: parse bus port %q: %w", portStr, err)
	}

	opts := &server.Options{
		Host:           host,
		Port:           port,
		NoLog:          true,
		NoSigs:         true,
		MaxControlLine: 4096,
	}
	srv, err := server.NewServer(opts)
	if err != nil {
		return nil, fmt.Errorf("bus: start embedded nats server: %w", err)
	}
	go srv.Start()
	if !srv.ReadyForConnections(5 * time.Second) {
		return nil, fmt.Errorf("bus: embedded nats server did not become ready")
	}

	nc, err := nats.Connect(srv.ClientURL())
	if err != nil {
		srv.Shutdown()
		return nil, fmt.Errorf("bus: connect to embedded nats server: %w", err)
	}

	return &Bus{srv: srv, nc: nc}, nil
}

// Close drains the client connection and, if this process is the one
// hosting the embedded broker, shuts it down too.
func (b *Bus) Close() {
	b.nc.Drain()
	if b.srv != nil {
		b.srv.Shutdown()
		b.srv.WaitForShutdown()
	}
}

// Publish encodes value with MessagePack and publishes it framed as
// topic:body on endpoint.
func Publish(b *Bus, endpoint, topic string, value any) error {
	body, err := msgpack.Marshal(value)
	if err != nil {
		return fmt.Errorf("bus: marshal body for topic %q: %w", topic, err)
	}
	frame := Frame{Topic: topic, Body: body}
	if err := b.nc.Publish(endpoint, frame.Encode()); err != nil {
		return fmt.Errorf("bus: publish to endpoint %q: %w", endpoint, err)
	}
	return nil
}

// Subscribe subscribes to endpoint and invokes onTopic for every frame
// whose topic matches topic, decoding the body into a freshly allocated
// T. Malformed frames and undecodable bodies are dropped with a log entry,
// matching the reference relay's "drop and log" handling of bad input;
// frames for other topics on the same endpoint are skipped silently.
func Subscribe[T any](b *Bus, endpoint, topic string, onValue func(T)) (*nats.Subscription, error) {
	logger := logging.Logger
	sub, err := b.nc.Subscribe(endpoint, func(msg *nats.Msg) {
		frame, err := DecodeFrame(msg.Data)
		if err != nil {
			logger.WithError(err).WithField("endpoint", endpoint).Warn("bus: dropping malformed frame")
			return
		}
		if frame.Topic != topic {
			return
		}
		var value T
		if err := msgpack.Unmarshal(frame.Body, &value); err != nil {
			logger.WithError(err).WithFields(logrus.Fields{"endpoint": endpoint, "topic": topic}).
				Warn("bus: dropping frame with malformed body")
			return
		}
		onValue(value)
	})
	if err != nil {
		return nil, fmt.Errorf("bus: subscribe to endpoint %q: %w", endpoint, err)
	}
	return sub, nil
}
