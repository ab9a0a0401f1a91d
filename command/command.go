// Package command holds schedulable units of robot work and the
// cooperative scheduler that runs them once per control cycle.
package command

// Command is a unit of work run by a Scheduler. Initialize is called once
// when scheduled, Execute once per cycle until IsFinished reports true, and
// End once when the command finishes or is interrupted.
type Command interface {
	Initialize()
	Execute()
	IsFinished() bool
	End(interrupted bool)
}

// InstantCommand runs fn once on Initialize and finishes immediately.
type InstantCommand struct {
	fn func()
}

func NewInstantCommand(fn func()) *InstantCommand {
	return &InstantCommand{fn: fn}
}

func (c *InstantCommand) Initialize() {
	if c.fn != nil {
		c.fn()
	}
}

func (c *InstantCommand) Execute()         {}
func (c *InstantCommand) IsFinished() bool { return true }
func (c *InstantCommand) End(bool)         {}

// RunCommand calls fn every cycle until cancelled.
type RunCommand struct {
	fn  func()
	end func()
}

// NewRunCommand builds a command that never finishes on its own. end, if
// set, runs when the command is cancelled.
func NewRunCommand(fn func(), end func()) *RunCommand {
	return &RunCommand{fn: fn, end: end}
}

func (c *RunCommand) Initialize() {}

func (c *RunCommand) Execute() {
	if c.fn != nil {
		c.fn()
	}
}

func (c *RunCommand) IsFinished() bool { return false }

func (c *RunCommand) End(bool) {
	if c.end != nil {
		c.end()
	}
}
