// Package drivetrain is the swerve drivetrain bring-up layer: motor
// handles, the open-loop bring-up mix and the seam for a generated
// drivetrain that replaces it.
package drivetrain

import (
	"errors"
	"fmt"

	"swerve-bringup/command"
	"swerve-bringup/utils"
)

// Option configures a Drive at construction.
type Option func(*Drive)

// WithOverride hands drive requests and autonomous selection to o.
func WithOverride(o Override) Option {
	return func(d *Drive) { d.override = o }
}

func WithAutonomousFactory(f AutonomousFactory) Option {
	return func(d *Drive) { d.autoFactory = f }
}

// DriveRequest is one cycle's drive command.
type DriveRequest struct {
	X             float64 `json:"x"`
	Y             float64 `json:"y"`
	Rotation      float64 `json:"rotation"`
	FieldOriented bool    `json:"field_oriented"`
}

// Drive owns the drive and steer motors of all four modules. It is driven
// from the robot loop only and holds no locks.
type Drive struct {
	consts Constants
	mixer  MixerConfig
	log    *utils.Logger

	override    Override
	autoFactory AutonomousFactory

	driveMotors []MotorController
	steerMotors []MotorController

	last Outputs
}

// NewDrive creates every motor handle in module order. A nil vendor is
// fatal and no motors are created.
func NewDrive(vendor Vendor, consts Constants, log *utils.Logger, opts ...Option) (*Drive, error) {
	if vendor == nil {
		return nil, fmt.Errorf("%w: install or configure the motor controller vendor first", ErrVendorUnavailable)
	}
	if err := consts.Validate(); err != nil {
		return nil, fmt.Errorf("drive constants: %w", err)
	}
	if log == nil {
		log = utils.NewNopLogger()
	}

	d := &Drive{
		consts: consts,
		mixer:  consts.Mixer(),
		log:    log,
	}
	for _, opt := range opts {
		opt(d)
	}

	if d.override == nil {
		log.Warn("No drivetrain override configured; using open-loop bring-up mix")
	} else {
		log.Info("Drivetrain override: %s", describeOverride(d.override))
	}

	if err := d.initHardware(vendor); err != nil {
		return nil, err
	}
	return d, nil
}

func (d *Drive) initHardware(vendor Vendor) error {
	for _, m := range d.consts.Modules {
		dm, err := vendor.NewMotor(m.DriveMotorID, d.consts.CANBusName)
		if err != nil {
			return fmt.Errorf("module %s drive motor: %w", m.Name, err)
		}
		d.driveMotors = append(d.driveMotors, dm)

		sm, err := vendor.NewMotor(m.SteerMotorID, d.consts.CANBusName)
		if err != nil {
			return fmt.Errorf("module %s steer motor: %w", m.Name, err)
		}
		d.steerMotors = append(d.steerMotors, sm)
	}
	d.log.Info("Drivetrain ready: %d modules on %s", len(d.consts.Modules), d.consts.CANBusName)
	return nil
}

// Drive commands one control cycle. With an override, the override serves
// the request unless it reports ErrUnsupportedRequest, in which case the
// bring-up mix runs instead; other override errors are returned. The
// bring-up path never fails: transmit errors are logged per motor.
func (d *Drive) Drive(x, y, rotation float64, fieldOriented bool) error {
	if d.override != nil {
		err := d.override.Drive(x, y, rotation, fieldOriented)
		switch {
		case err == nil:
			DriveSource.WithLabelValues("override").Inc()
			return nil
		case !errors.Is(err, ErrUnsupportedRequest):
			return fmt.Errorf("drivetrain override: %w", err)
		}
	}

	DriveSource.WithLabelValues("mixer").Inc()
	// fieldOriented is not applied by the bring-up mix.
	out := Mix(d.mixer, x, y, rotation)
	d.apply(out)
	return nil
}

func (d *Drive) apply(out Outputs) {
	for i, m := range d.driveMotors {
		d.set(m, out.Drive[i])
	}
	// Steer motors get the rotation command directly for basic validation.
	for _, m := range d.steerMotors {
		d.set(m, out.Steer)
	}
	d.last = out
}

func (d *Drive) set(m MotorController, output float64) {
	if err := m.SetControl(DutyCycleOut{Output: output}); err != nil {
		d.log.Warn("Set duty cycle %.3f failed: %v", output, err)
	}
}

// Stop sets every drive and steer motor to zero output.
func (d *Drive) Stop() {
	d.apply(Outputs{})
}

// Outputs returns the most recent outputs written by the bring-up mix or
// Stop.
func (d *Drive) Outputs() Outputs {
	return d.last
}

// AutonomousCommand picks, in order: the override's command, the
// autonomous factory's command, or a command that stops the drivetrain.
func (d *Drive) AutonomousCommand() command.Command {
	if d.override != nil {
		if cmd := d.override.AutonomousCommand(); cmd != nil {
			return cmd
		}
	}

	if d.autoFactory != nil {
		cmd, err := d.autoFactory(d)
		if err != nil {
			d.log.Warn("Autonomous factory failed: %v", err)
		} else if cmd != nil {
			return cmd
		}
	}

	d.log.Warn("No autonomous command source found; using stop command")
	return command.NewInstantCommand(d.Stop)
}
