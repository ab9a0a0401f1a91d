package autonomous

import (
	"time"

	"swerve-bringup/command"
	"swerve-bringup/drivetrain"
	"swerve-bringup/utils"
)

// Driver is the part of the drivetrain a routine needs.
type Driver interface {
	Drive(x, y, rotation float64, fieldOriented bool) error
	Stop()
}

// RoutineCommand plays a Routine against a Driver, one request per cycle.
type RoutineCommand struct {
	routine Routine
	drive   Driver
	log     *utils.Logger
	now     func() time.Time

	start   time.Time
	elapsed float64
	failed  bool
}

func NewRoutineCommand(r Routine, drive Driver, log *utils.Logger) *RoutineCommand {
	if log == nil {
		log = utils.NewNopLogger()
	}
	return &RoutineCommand{routine: r, drive: drive, log: log, now: time.Now}
}

func (c *RoutineCommand) Initialize() {
	c.start = c.now()
	c.elapsed = 0
	c.failed = false
	c.log.Info("Autonomous routine %q started: duration=%.2fs segments=%d",
		c.routine.Meta.Name, c.routine.Timing.DurationS, len(c.routine.Segments))
}

func (c *RoutineCommand) Execute() {
	c.elapsed = c.now().Sub(c.start).Seconds()
	req := c.routine.Eval(c.elapsed)
	if err := c.drive.Drive(req.X, req.Y, req.Rotation, req.FieldOriented); err != nil {
		c.log.Error("Autonomous drive failed at t=%.3f: %v", c.elapsed, err)
		c.failed = true
		return
	}
	c.log.Trace("AUTO t=%.3f x=%.2f y=%.2f rot=%.2f", c.elapsed, req.X, req.Y, req.Rotation)
}

func (c *RoutineCommand) IsFinished() bool {
	return c.failed || c.elapsed >= c.routine.Timing.DurationS
}

func (c *RoutineCommand) End(interrupted bool) {
	c.drive.Stop()
	if interrupted {
		c.log.Warn("Autonomous routine %q interrupted at t=%.3f", c.routine.Meta.Name, c.elapsed)
		return
	}
	c.log.Info("Autonomous routine %q completed", c.routine.Meta.Name)
}

// NewFactory returns a drivetrain.AutonomousFactory that plays r.
func NewFactory(r Routine, log *utils.Logger) drivetrain.AutonomousFactory {
	return func(d *drivetrain.Drive) (command.Command, error) {
		return NewRoutineCommand(r, d, log), nil
	}
}
