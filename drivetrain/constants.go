package drivetrain

import (
	"fmt"

	"swerve-bringup/utils"
)

// ModuleConstants identifies the two actuators of one swerve module.
type ModuleConstants struct {
	Name         string `yaml:"name" json:"name"`
	DriveMotorID int    `yaml:"drive_motor_id" json:"drive_motor_id"`
	SteerMotorID int    `yaml:"steer_motor_id" json:"steer_motor_id"`
}

// Constants holds the drivetrain hardware layout and bring-up shaping.
// Modules are ordered front-left, front-right, back-left, back-right.
type Constants struct {
	CANBusName string            `yaml:"canbus_name"`
	Modules    []ModuleConstants `yaml:"modules"`

	TranslationDeadband  float64 `yaml:"translation_deadband"`
	RotationDeadband     float64 `yaml:"rotation_deadband"`
	MaxTranslationOutput float64 `yaml:"max_translation_output"`
	MaxRotationOutput    float64 `yaml:"max_rotation_output"`
}

const moduleCount = 4

func DefaultConstants() Constants {
	return Constants{
		CANBusName: "rio",
		Modules: []ModuleConstants{
			{Name: "front_left", DriveMotorID: 1, SteerMotorID: 2},
			{Name: "front_right", DriveMotorID: 3, SteerMotorID: 4},
			{Name: "back_left", DriveMotorID: 5, SteerMotorID: 6},
			{Name: "back_right", DriveMotorID: 7, SteerMotorID: 8},
		},
		TranslationDeadband:  0.08,
		RotationDeadband:     0.08,
		MaxTranslationOutput: 0.4,
		MaxRotationOutput:    0.3,
	}
}

func (c Constants) Mixer() MixerConfig {
	return MixerConfig{
		TranslationDeadband:  c.TranslationDeadband,
		RotationDeadband:     c.RotationDeadband,
		MaxTranslationOutput: c.MaxTranslationOutput,
		MaxRotationOutput:    c.MaxRotationOutput,
	}
}

func (c Constants) Validate() error {
	if c.CANBusName == "" {
		return fmt.Errorf("canbus_name is empty")
	}
	if len(c.Modules) != moduleCount {
		return fmt.Errorf("expected %d modules, got %d", moduleCount, len(c.Modules))
	}
	seen := make(map[int]string, 2*moduleCount)
	for _, m := range c.Modules {
		for _, id := range []int{m.DriveMotorID, m.SteerMotorID} {
			if id < 0 || id > utils.MaxDeviceID {
				return fmt.Errorf("module %s: device id %d out of range 0..%d", m.Name, id, utils.MaxDeviceID)
			}
			if other, dup := seen[id]; dup {
				return fmt.Errorf("module %s: device id %d already used by %s", m.Name, id, other)
			}
			seen[id] = m.Name
		}
	}
	if c.TranslationDeadband < 0 || c.TranslationDeadband >= 1 {
		return fmt.Errorf("invalid translation_deadband: %f", c.TranslationDeadband)
	}
	if c.RotationDeadband < 0 || c.RotationDeadband >= 1 {
		return fmt.Errorf("invalid rotation_deadband: %f", c.RotationDeadband)
	}
	if c.MaxTranslationOutput <= 0 || c.MaxTranslationOutput > 1 {
		return fmt.Errorf("invalid max_translation_output: %f", c.MaxTranslationOutput)
	}
	if c.MaxRotationOutput <= 0 || c.MaxRotationOutput > 1 {
		return fmt.Errorf("invalid max_rotation_output: %f", c.MaxRotationOutput)
	}
	return nil
}
