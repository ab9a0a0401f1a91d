package drivetrain

import (
	"context"
	"errors"
	"sync"

	"go.einride.tech/can"

	"swerve-bringup/command"
)

type fakeMotor struct {
	id      int
	outputs []float64
	err     error
}

func (m *fakeMotor) DeviceID() int { return m.id }

func (m *fakeMotor) SetControl(req DutyCycleOut) error {
	m.outputs = append(m.outputs, req.Output)
	return m.err
}

func (m *fakeMotor) last() float64 {
	if len(m.outputs) == 0 {
		return -99
	}
	return m.outputs[len(m.outputs)-1]
}

type fakeVendor struct {
	motors []*fakeMotor
	buses  []string
	failAt int // device id that fails to construct, 0 for none
}

func (v *fakeVendor) NewMotor(deviceID int, canbus string) (MotorController, error) {
	if v.failAt != 0 && deviceID == v.failAt {
		return nil, errors.New("device not found")
	}
	m := &fakeMotor{id: deviceID}
	v.motors = append(v.motors, m)
	v.buses = append(v.buses, canbus)
	return m, nil
}

func (v *fakeVendor) byID(id int) *fakeMotor {
	for _, m := range v.motors {
		if m.id == id {
			return m
		}
	}
	return nil
}

type fakeOverride struct {
	err      error
	auto     command.Command
	requests [][4]float64
}

func (o *fakeOverride) Drive(x, y, rotation float64, fieldOriented bool) error {
	fo := 0.0
	if fieldOriented {
		fo = 1
	}
	o.requests = append(o.requests, [4]float64{x, y, rotation, fo})
	return o.err
}

func (o *fakeOverride) AutonomousCommand() command.Command { return o.auto }

type fakeWriter struct {
	mu     sync.Mutex
	frames []can.Frame
	err    error
}

func (w *fakeWriter) WriteFrame(_ context.Context, f can.Frame) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.err != nil {
		return w.err
	}
	w.frames = append(w.frames, f)
	return nil
}

func (w *fakeWriter) Close() error { return nil }
