package main

import (
	"swerve-bringup/command"
	"swerve-bringup/robot"
	"swerve-bringup/utils"
)

// DriveSubsystem is what the robot program needs from the drivetrain.
type DriveSubsystem interface {
	Drive(x, y, rotation float64, fieldOriented bool) error
	Stop()
	AutonomousCommand() command.Command
}

// Robot is the bring-up robot program run by robot.TimedRobot.
type Robot struct {
	robot.Base

	ds             *robot.DriverStation
	controllerPort int
	log            *utils.Logger

	newDrive  func() (DriveSubsystem, error)
	heartbeat func(enabled bool) error

	scheduler         *command.Scheduler
	driverController  *robot.XboxController
	drive             DriveSubsystem
	autonomousCommand command.Command
	heartbeatFailing  bool
}

// NewRobot wires the program. newDrive runs in RobotInit; heartbeat may be
// nil.
func NewRobot(ds *robot.DriverStation, controllerPort int, newDrive func() (DriveSubsystem, error),
	heartbeat func(bool) error, log *utils.Logger) *Robot {
	if log == nil {
		log = utils.NewNopLogger()
	}
	return &Robot{
		ds:             ds,
		controllerPort: controllerPort,
		newDrive:       newDrive,
		heartbeat:      heartbeat,
		log:            log,
	}
}

func (r *Robot) RobotInit() error {
	r.scheduler = command.NewScheduler()
	r.driverController = robot.NewXboxController(r.controllerPort, r.ds)
	d, err := r.newDrive()
	if err != nil {
		return err
	}
	r.drive = d
	return nil
}

func (r *Robot) RobotPeriodic() {
	r.scheduler.Run()
	if r.heartbeat == nil {
		return
	}
	// Report only the first failure and the recovery, not every cycle.
	err := r.heartbeat(r.ds.Enabled())
	switch {
	case err != nil && !r.heartbeatFailing:
		r.log.Warn("Enable heartbeat failed: %v", err)
		r.heartbeatFailing = true
	case err == nil && r.heartbeatFailing:
		r.log.Info("Enable heartbeat recovered")
		r.heartbeatFailing = false
	}
}

// DisabledInit drops every scheduled command before stopping, so nothing
// drives the motors again while disabled.
func (r *Robot) DisabledInit() {
	r.scheduler.CancelAll()
	r.autonomousCommand = nil
	r.drive.Stop()
}

func (r *Robot) AutonomousInit() {
	r.cancelAutonomous()
	r.autonomousCommand = r.drive.AutonomousCommand()
	if err := r.scheduler.Schedule(r.autonomousCommand); err != nil {
		r.log.Error("Cannot schedule autonomous command: %v", err)
		r.autonomousCommand = nil
	}
}

func (r *Robot) TeleopInit() {
	r.cancelAutonomous()
}

func (r *Robot) cancelAutonomous() {
	if r.autonomousCommand != nil {
		r.scheduler.Cancel(r.autonomousCommand)
		r.autonomousCommand = nil
	}
}

func (r *Robot) TeleopPeriodic() {
	// Right stick controls translation; left X controls robot rotation.
	xDisplacement := -r.driverController.RightY()
	yDisplacement := -r.driverController.RightX()
	rotation := -r.driverController.LeftX()
	if err := r.drive.Drive(xDisplacement, yDisplacement, rotation, false); err != nil {
		r.log.Error("Drive failed: %v", err)
	}
}

// Shutdown leaves every motor at zero output.
func (r *Robot) Shutdown() {
	if r.scheduler != nil {
		r.scheduler.CancelAll()
	}
	if r.drive != nil {
		r.drive.Stop()
	}
	if r.heartbeat != nil {
		_ = r.heartbeat(false)
	}
}
