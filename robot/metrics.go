package robot

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// LoopOverruns counts cycles that took longer than the loop period.
	LoopOverruns = promauto.NewCounter(prometheus.CounterOpts{
		Name: "bringup_loop_overruns_total",
		Help: "Total number of control cycles that exceeded the loop period.",
	})

	// LoopDuration observes the time spent in each control cycle.
	LoopDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "bringup_loop_duration_seconds",
		Help:    "Time spent running one control cycle.",
		Buckets: []float64{.001, .0025, .005, .01, .015, .02, .03, .05, .1},
	})

	// DSPackets counts control packets accepted from the driver station.
	DSPackets = promauto.NewCounter(prometheus.CounterOpts{
		Name: "bringup_ds_packets_total",
		Help: "Total number of driver station control packets received.",
	})

	// CurrentMode is 1 for the active mode and 0 for the others.
	CurrentMode = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "bringup_mode",
		Help: "Active robot mode (1 = active).",
	}, []string{"mode"})
)

func setModeGauge(m Mode) {
	for _, mode := range []Mode{Disabled, Autonomous, Teleop, Test} {
		v := 0.0
		if mode == m {
			v = 1
		}
		CurrentMode.WithLabelValues(mode.String()).Set(v)
	}
}
