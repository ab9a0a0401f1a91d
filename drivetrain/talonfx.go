package drivetrain

import (
	"context"
	"fmt"
	"time"

	"go.einride.tech/can"

	"swerve-bringup/utils"
)

const (
	dutyCycleFrame   = "DUTY_CYCLE_OUT"
	robotEnableFrame = "ROBOT_ENABLE"

	defaultTxTimeout = 5 * time.Millisecond
)

// PhoenixVendor drives TalonFX controllers by encoding control requests
// with the CAN map and writing them to per-bus SocketCAN writers.
type PhoenixVendor struct {
	cmap      *utils.CANMap
	buses     map[string]utils.CANWriter
	txTimeout time.Duration
	log       *utils.Logger
}

// NewPhoenixVendor fails with ErrVendorUnavailable when the map lacks the
// duty cycle frame or no bus is available.
func NewPhoenixVendor(cmap *utils.CANMap, buses map[string]utils.CANWriter, log *utils.Logger) (*PhoenixVendor, error) {
	if cmap == nil || !cmap.HasFrame(dutyCycleFrame) {
		return nil, fmt.Errorf("%w: CAN map has no %s frame", ErrVendorUnavailable, dutyCycleFrame)
	}
	if len(buses) == 0 {
		return nil, fmt.Errorf("%w: no CAN bus configured", ErrVendorUnavailable)
	}
	if log == nil {
		log = utils.NewNopLogger()
	}
	return &PhoenixVendor{
		cmap:      cmap,
		buses:     buses,
		txTimeout: defaultTxTimeout,
		log:       log,
	}, nil
}

func (v *PhoenixVendor) NewMotor(deviceID int, canbus string) (MotorController, error) {
	if v == nil {
		return nil, ErrVendorUnavailable
	}
	w, ok := v.buses[canbus]
	if !ok {
		return nil, fmt.Errorf("%w %q for device %d", ErrUnknownBus, canbus, deviceID)
	}
	if deviceID < 0 || deviceID > utils.MaxDeviceID {
		return nil, fmt.Errorf("device id %d out of range 0..%d", deviceID, utils.MaxDeviceID)
	}
	v.log.Debug("TalonFX %d on %s", deviceID, canbus)
	return &TalonFX{id: deviceID, canbus: canbus, vendor: v, bus: w}, nil
}

// Heartbeat sends the enable frame to every bus. Maps without the frame
// skip it.
func (v *PhoenixVendor) Heartbeat(enabled bool) error {
	if !v.cmap.HasFrame(robotEnableFrame) {
		return nil
	}
	f, err := v.cmap.EncodeEinrideFrame(robotEnableFrame, map[string]float64{"enabled": boolToFloat(enabled)})
	if err != nil {
		return err
	}
	var firstErr error
	for name, w := range v.buses {
		if err := v.transmit(w, robotEnableFrame, f); err != nil && firstErr == nil {
			firstErr = fmt.Errorf("bus %s: %w", name, err)
		}
	}
	return firstErr
}

func (v *PhoenixVendor) transmit(w utils.CANWriter, frameName string, f can.Frame) error {
	ctx, cancel := context.WithTimeout(context.Background(), v.txTimeout)
	defer cancel()
	if err := w.WriteFrame(ctx, f); err != nil {
		CANTxErrors.WithLabelValues(frameName).Inc()
		return err
	}
	CANFramesSent.WithLabelValues(frameName).Inc()
	return nil
}

// TalonFX is a handle to one motor controller on a bus.
type TalonFX struct {
	id     int
	canbus string
	vendor *PhoenixVendor
	bus    utils.CANWriter
}

func (m *TalonFX) DeviceID() int { return m.id }

func (m *TalonFX) SetControl(req DutyCycleOut) error {
	f, err := m.vendor.cmap.EncodeDeviceFrame(dutyCycleFrame, m.id, map[string]float64{
		"output":        req.Output,
		"brake_neutral": boolToFloat(req.BrakeNeutral),
	})
	if err != nil {
		return fmt.Errorf("talonfx %d: %w", m.id, err)
	}
	if err := m.vendor.transmit(m.bus, dutyCycleFrame, f); err != nil {
		return fmt.Errorf("talonfx %d on %s: %w", m.id, m.canbus, err)
	}
	return nil
}

func boolToFloat(b bool) float64 {
	if b {
		return 1.0
	}
	return 0.0
}
