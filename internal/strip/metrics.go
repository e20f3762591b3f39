package strip

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	updatesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "led_frames_transmitted_total",
		Help: "Number of LED frames successfully clocked out on the bus",
	})

	transmitFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "led_transmit_failures_total",
		Help: "Number of LED frame transmissions that failed",
	})
)
