// Command status prints a rolling summary of the most recent altitude
// telemetry observed on the bus: a peripheral ground-station view, not
// part of the control loop itself.
package main

import (
	"fmt"
	"os"
	"time"

	"github.com/hab-systems/aerostat-mfc/internal/bus"
	"github.com/hab-systems/aerostat-mfc/internal/logging"
	"github.com/hab-systems/aerostat-mfc/internal/telemetry"
)

func main() {
	os.Exit(run())
}

func run() int {
	logger := logging.Logger

	b, err := bus.Start()
	if err != nil {
		logger.WithError(err).Error("status: failed to start pub/sub bus")
		return 1
	}
	defer b.Close()

	window := telemetry.NewRollingWindow(60)

	sub, err := bus.Subscribe[bus.AltitudeBoardTlm](b, bus.EndpointNucleus, bus.TopicAltitude, func(tlm bus.AltitudeBoardTlm) {
		window.Push(float64(tlm.Altitude))
	})
	if err != nil {
		logger.WithError(err).Error("status: failed to subscribe to altitude telemetry")
		return 1
	}
	defer sub.Unsubscribe()

	ticker := time.NewTicker(2 * time.Second)
	defer ticker.Stop()

	fmt.Println("status: waiting for telemetry...")
	for range ticker.C {
		summary, err := window.Summarize()
		if err != nil {
			continue
		}
		fmt.Printf("altitude: mean=%.1fm stddev=%.2fm min=%.1fm max=%.1fm (n=%d)\n",
			summary.Mean, summary.StdDev, summary.Min, summary.Max, window.Len())
	}
	return 0
}
