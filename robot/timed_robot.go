package robot

import (
	"context"
	"fmt"
	"time"

	"swerve-bringup/utils"
)

const DefaultPeriod = 20 * time.Millisecond

// ModeSource reports the mode the robot should be in this cycle.
type ModeSource interface {
	Mode() Mode
}

// TimedRobot calls a Lifecycle at a fixed period, handling mode
// transitions between cycles. All callbacks run on the Run goroutine.
type TimedRobot struct {
	Period time.Duration

	program Lifecycle
	modes   ModeSource
	log     *utils.Logger

	mode   Mode
	cycles uint64
}

func NewTimedRobot(program Lifecycle, modes ModeSource, period time.Duration, log *utils.Logger) *TimedRobot {
	if period <= 0 {
		period = DefaultPeriod
	}
	if log == nil {
		log = utils.NewNopLogger()
	}
	return &TimedRobot{
		Period:  period,
		program: program,
		modes:   modes,
		log:     log,
		mode:    Disabled,
	}
}

// Mode is the mode of the last completed cycle.
func (r *TimedRobot) Mode() Mode { return r.mode }

func (r *TimedRobot) Cycles() uint64 { return r.cycles }

// Run calls RobotInit, enters Disabled and then ticks until ctx ends. The
// current mode's Exit runs before returning.
func (r *TimedRobot) Run(ctx context.Context) error {
	if err := r.program.RobotInit(); err != nil {
		return fmt.Errorf("robot init: %w", err)
	}

	r.log.Info("Starting loop: period=%s", r.Period)
	r.mode = Disabled
	setModeGauge(r.mode)
	enter(r.program, r.mode)

	ticker := time.NewTicker(r.Period)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			exit(r.program, r.mode)
			r.log.Info("Loop stopped after %d cycles", r.cycles)
			return ctx.Err()
		case <-ticker.C:
			r.Step()
		}
	}
}

// Step runs a single cycle.
func (r *TimedRobot) Step() {
	start := time.Now()

	if next := r.modes.Mode(); next != r.mode {
		r.log.Info("Mode %s -> %s", r.mode, next)
		exit(r.program, r.mode)
		r.mode = next
		setModeGauge(r.mode)
		enter(r.program, r.mode)
	}

	periodic(r.program, r.mode)
	r.program.RobotPeriodic()
	r.cycles++

	took := time.Since(start)
	LoopDuration.Observe(took.Seconds())
	if took > r.Period {
		LoopOverruns.Inc()
		r.log.Warn("Loop overrun: cycle %d took %.1f ms (period %.1f ms)",
			r.cycles, took.Seconds()*1000, r.Period.Seconds()*1000)
	}
}
