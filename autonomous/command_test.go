package autonomous

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"swerve-bringup/command"
	"swerve-bringup/drivetrain"
)

type recordingDriver struct {
	requests []drivetrain.DriveRequest
	stops    int
	err      error
}

func (d *recordingDriver) Drive(x, y, rotation float64, fieldOriented bool) error {
	d.requests = append(d.requests, drivetrain.DriveRequest{X: x, Y: y, Rotation: rotation, FieldOriented: fieldOriented})
	return d.err
}

func (d *recordingDriver) Stop() { d.stops++ }

type fakeClock struct{ t time.Time }

func (c *fakeClock) now() time.Time          { return c.t }
func (c *fakeClock) advance(d time.Duration) { c.t = c.t.Add(d) }

func newTestCommand(t *testing.T, drv *recordingDriver) (*RoutineCommand, *fakeClock) {
	t.Helper()
	r, err := ParseRoutine([]byte(squareJSON))
	require.NoError(t, err)
	clk := &fakeClock{t: time.Unix(1000, 0)}
	c := NewRoutineCommand(r, drv, nil)
	c.now = clk.now
	return c, clk
}

func TestRoutineCommand_PlaysRoutineThenStops(t *testing.T) {
	drv := &recordingDriver{}
	c, clk := newTestCommand(t, drv)
	s := command.NewScheduler()

	s.Schedule(c)
	for i := 0; i < 10 && s.IsScheduled(c); i++ {
		s.Run()
		clk.advance(500 * time.Millisecond)
	}

	require.False(t, s.IsScheduled(c))
	assert.Equal(t, []drivetrain.DriveRequest{
		{X: 0.5}, {X: 0.5},
		{Y: 0.5}, {Y: 0.5},
		{}, {Rotation: -0.5}, {Rotation: -0.5}, {Rotation: -0.5},
		{},
	}, drv.requests)
	assert.Equal(t, 1, drv.stops)
}

func TestRoutineCommand_CancelStops(t *testing.T) {
	drv := &recordingDriver{}
	c, _ := newTestCommand(t, drv)
	s := command.NewScheduler()

	s.Schedule(c)
	s.Run()
	s.Cancel(c)

	assert.Equal(t, 1, drv.stops)
	assert.Len(t, drv.requests, 1)
}

func TestRoutineCommand_DriveErrorEndsRoutine(t *testing.T) {
	drv := &recordingDriver{err: errors.New("override fault")}
	c, _ := newTestCommand(t, drv)
	s := command.NewScheduler()

	s.Schedule(c)
	s.Run()

	assert.False(t, s.IsScheduled(c))
	assert.Equal(t, 1, drv.stops)
}
