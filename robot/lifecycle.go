// Package robot is the fixed-period lifecycle loop, driver station link
// and controller input the robot program is built on.
package robot

import "fmt"

// Mode is the operating mode selected by the driver station.
type Mode int

const (
	Disabled Mode = iota
	Autonomous
	Teleop
	Test
)

func (m Mode) String() string {
	switch m {
	case Disabled:
		return "disabled"
	case Autonomous:
		return "autonomous"
	case Teleop:
		return "teleop"
	case Test:
		return "test"
	default:
		return fmt.Sprintf("mode(%d)", int(m))
	}
}

// ParseMode accepts the names produced by Mode.String.
func ParseMode(s string) (Mode, error) {
	switch s {
	case "disabled", "":
		return Disabled, nil
	case "autonomous", "auto":
		return Autonomous, nil
	case "teleop":
		return Teleop, nil
	case "test":
		return Test, nil
	default:
		return Disabled, fmt.Errorf("unknown mode %q", s)
	}
}

// Lifecycle is the set of callbacks the loop invokes. Embed Base to get
// no-op defaults for the ones a program does not need.
type Lifecycle interface {
	RobotInit() error
	RobotPeriodic()

	DisabledInit()
	DisabledPeriodic()
	DisabledExit()

	AutonomousInit()
	AutonomousPeriodic()
	AutonomousExit()

	TeleopInit()
	TeleopPeriodic()
	TeleopExit()

	TestInit()
	TestPeriodic()
	TestExit()
}

type Base struct{}

func (Base) RobotInit() error    { return nil }
func (Base) RobotPeriodic()      {}
func (Base) DisabledInit()       {}
func (Base) DisabledPeriodic()   {}
func (Base) DisabledExit()       {}
func (Base) AutonomousInit()     {}
func (Base) AutonomousPeriodic() {}
func (Base) AutonomousExit()     {}
func (Base) TeleopInit()         {}
func (Base) TeleopPeriodic()     {}
func (Base) TeleopExit()         {}
func (Base) TestInit()           {}
func (Base) TestPeriodic()       {}
func (Base) TestExit()           {}

func enter(l Lifecycle, m Mode) {
	switch m {
	case Disabled:
		l.DisabledInit()
	case Autonomous:
		l.AutonomousInit()
	case Teleop:
		l.TeleopInit()
	case Test:
		l.TestInit()
	}
}

func periodic(l Lifecycle, m Mode) {
	switch m {
	case Disabled:
		l.DisabledPeriodic()
	case Autonomous:
		l.AutonomousPeriodic()
	case Teleop:
		l.TeleopPeriodic()
	case Test:
		l.TestPeriodic()
	}
}

func exit(l Lifecycle, m Mode) {
	switch m {
	case Disabled:
		l.DisabledExit()
	case Autonomous:
		l.AutonomousExit()
	case Teleop:
		l.TeleopExit()
	case Test:
		l.TestExit()
	}
}
