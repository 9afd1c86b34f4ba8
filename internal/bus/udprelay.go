package bus

import (
	"fmt"
	"net"

	"github.com/hab-systems/aerostat-mfc/internal/logging"
	"github.com/sirupsen/logrus"
	"github.com/vmihailenco/msgpack/v5"
)

// DefaultUDPIngressAddr is the reference relay's default listen address
// for the sensor bus.
const DefaultUDPIngressAddr = "127.0.0.1:6666"

// UDPIngressRelay listens for tagged UDP datagrams (a 1-byte extension
// tag followed by a MessagePack body) and republishes each one on the
// topic the tag maps to. It is the only writer of the cross-process
// pub/sub fanout from the sensor bus's perspective.
type UDPIngressRelay struct {
	conn     *net.UDPConn
	bus      *Bus
	endpoint string
	logger   *logrus.Logger
	stopCh   chan struct{}
}

// NewUDPIngressRelay binds addr (UDP) and prepares to republish received
// frames onto bus's endpoint.
func NewUDPIngressRelay(addr string, b *Bus, endpoint string) (*UDPIngressRelay, error) {
	udpAddr, err := net.ResolveUDPAddr("udp", addr)
	if err != nil {
		return nil, fmt.Errorf("bus: resolve udp ingress addr %q: %w", addr, err)
	}
	conn, err := net.ListenUDP("udp", udpAddr)
	if err != nil {
		return nil, fmt.Errorf("bus: listen udp ingress on %q: %w", addr, err)
	}
	return &UDPIngressRelay{
		conn:     conn,
		bus:      b,
		endpoint: endpoint,
		logger:   logging.Logger,
		stopCh:   make(chan struct{}),
	}, nil
}

// Run blocks, relaying datagrams until Stop is called. Other read errors
// are logged and the loop keeps reading. Intended to be the body of its
// own goroutine ("telemetry ingress" thread).
func (r *UDPIngressRelay) Run() {
	buf := make([]byte, 65507)
	for {
		n, _, err := r.conn.ReadFromUDP(buf)
		if err != nil {
			select {
			case <-r.stopCh:
				return
			default:
			}
			r.logger.WithError(err).Warn("udp ingress read failed")
			continue
		}
		r.handleDatagram(buf[:n])
	}
}

func (r *UDPIngressRelay) handleDatagram(raw []byte) {
	if len(raw) < 1 {
		r.logger.Warn("udp ingress: dropping empty datagram")
		return
	}
	tag := raw[0]
	topic, ok := extensionTagTopics[tag]
	if !ok {
		r.logger.WithField("tag", tag).Warn("udp ingress: dropping datagram with unknown extension tag")
		return
	}

	body := raw[1:]
	// Validate the body decodes as a MessagePack value before
	// republishing; a malformed body is dropped rather than forwarded.
	var probe any
	if err := msgpack.Unmarshal(body, &probe); err != nil {
		r.logger.WithError(err).WithField("topic", topic).Warn("udp ingress: dropping malformed body")
		return
	}

	frame := Frame{Topic: topic, Body: body}
	if err := r.bus.nc.Publish(r.endpoint, frame.Encode()); err != nil {
		r.logger.WithError(err).WithField("topic", topic).Warn("udp ingress: republish failed")
	}
}

// Stop closes the listening socket, unblocking Run.
func (r *UDPIngressRelay) Stop() {
	close(r.stopCh)
	r.conn.Close()
}
