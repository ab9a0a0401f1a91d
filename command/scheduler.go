package command

import (
	"errors"
	"fmt"
	"reflect"
)

// ErrNotComparable is returned when a command's dynamic type cannot be
// compared for identity. Use pointer commands.
var ErrNotComparable = errors.New("command type is not comparable")

// Scheduler runs scheduled commands from the robot loop. It is not safe for
// concurrent use; every call must come from the loop goroutine.
type Scheduler struct {
	scheduled []Command
}

func NewScheduler() *Scheduler {
	return &Scheduler{}
}

// Schedule initializes cmd and adds it to the run list. Nil and already
// scheduled commands are ignored. Commands are tracked by identity, so
// their dynamic type must be comparable.
func (s *Scheduler) Schedule(cmd Command) error {
	if cmd == nil {
		return nil
	}
	if !isComparable(cmd) {
		return fmt.Errorf("%w: %T", ErrNotComparable, cmd)
	}
	if s.IsScheduled(cmd) {
		return nil
	}
	cmd.Initialize()
	s.scheduled = append(s.scheduled, cmd)
	return nil
}

func (s *Scheduler) IsScheduled(cmd Command) bool {
	return s.indexOf(cmd) >= 0
}

// Cancel interrupts cmd if it is scheduled.
func (s *Scheduler) Cancel(cmd Command) {
	i := s.indexOf(cmd)
	if i < 0 {
		return
	}
	s.remove(i)
	cmd.End(true)
}

func (s *Scheduler) CancelAll() {
	pending := s.scheduled
	s.scheduled = nil
	for _, cmd := range pending {
		cmd.End(true)
	}
}

// Run advances every scheduled command by one cycle.
func (s *Scheduler) Run() {
	// Commands finishing in this pass are removed; iterate over a snapshot
	// so End callbacks that schedule or cancel do not disturb the walk.
	snapshot := append([]Command(nil), s.scheduled...)
	for _, cmd := range snapshot {
		if !s.IsScheduled(cmd) {
			continue
		}
		cmd.Execute()
		if cmd.IsFinished() {
			s.remove(s.indexOf(cmd))
			cmd.End(false)
		}
	}
}

func (s *Scheduler) Len() int { return len(s.scheduled) }

func isComparable(cmd Command) bool {
	return reflect.TypeOf(cmd).Comparable()
}

func (s *Scheduler) indexOf(cmd Command) int {
	if cmd == nil || !isComparable(cmd) {
		return -1
	}
	for i, c := range s.scheduled {
		if c == cmd {
			return i
		}
	}
	return -1
}

func (s *Scheduler) remove(i int) {
	s.scheduled = append(s.scheduled[:i], s.scheduled[i+1:]...)
}
