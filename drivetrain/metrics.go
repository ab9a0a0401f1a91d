package drivetrain

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// CANFramesSent counts frames handed to the bus, by frame name.
	CANFramesSent = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "bringup_can_frames_sent_total",
		Help: "Total number of CAN frames transmitted, by frame.",
	}, []string{"frame"})

	// CANTxErrors counts failed transmits, by frame name.
	CANTxErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "bringup_can_tx_errors_total",
		Help: "Total number of CAN transmit failures, by frame.",
	}, []string{"frame"})

	// DriveSource counts drive cycles by which path served them.
	DriveSource = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "bringup_drive_cycles_total",
		Help: "Total number of drive requests, by source (override/mixer).",
	}, []string{"source"})
)
