package drivetrain

import "errors"

var (
	// ErrVendorUnavailable means no motor-controller vendor could be set up.
	// Nothing in the drivetrain works without one.
	ErrVendorUnavailable = errors.New("motor controller vendor unavailable")
	ErrUnknownBus        = errors.New("unknown CAN bus")
)

// DutyCycleOut is an open-loop output request in [-1, 1].
type DutyCycleOut struct {
	Output       float64
	BrakeNeutral bool
}

// MotorController is one actuator on a shared bus.
type MotorController interface {
	SetControl(req DutyCycleOut) error
	DeviceID() int
}

// Vendor creates motor handles for device IDs on a named bus.
type Vendor interface {
	NewMotor(deviceID int, canbus string) (MotorController, error)
}
