package drivetrain

import "math"

// MixerConfig is the per-axis shaping applied before mixing.
type MixerConfig struct {
	TranslationDeadband  float64
	RotationDeadband     float64
	MaxTranslationOutput float64
	MaxRotationOutput    float64
}

// Wheel order inside Outputs.Drive.
const (
	FrontLeft = iota
	FrontRight
	BackLeft
	BackRight
)

// Outputs are the duty cycles for one control cycle.
type Outputs struct {
	Drive [moduleCount]float64
	Steer float64
}

// ApplyDeadband zeroes v when its magnitude is below deadband. NaN reads
// as zero.
func ApplyDeadband(v, deadband float64) float64 {
	if math.IsNaN(v) || math.Abs(v) < deadband {
		return 0
	}
	return v
}

// Clamp limits v to [-1, 1]. NaN maps to 0 so a bad input never reaches a
// motor as full output.
func Clamp(v float64) float64 {
	if math.IsNaN(v) {
		return 0
	}
	return math.Max(-1, math.Min(1, v))
}

// Mix is the open-loop bring-up mix. It is not swerve kinematics: each
// wheel gets a signed sum of the shaped axes and every steer motor gets the
// same rotation command.
//
//	front-left  = x + y + ω
//	front-right = x - y - ω
//	back-left   = x - y + ω
//	back-right  = x + y - ω
func Mix(cfg MixerConfig, x, y, rotation float64) Outputs {
	x = ApplyDeadband(x, cfg.TranslationDeadband) * cfg.MaxTranslationOutput
	y = ApplyDeadband(y, cfg.TranslationDeadband) * cfg.MaxTranslationOutput
	omega := ApplyDeadband(rotation, cfg.RotationDeadband) * cfg.MaxRotationOutput

	var out Outputs
	out.Drive[FrontLeft] = Clamp(x + y + omega)
	out.Drive[FrontRight] = Clamp(x - y - omega)
	out.Drive[BackLeft] = Clamp(x - y + omega)
	out.Drive[BackRight] = Clamp(x + y - omega)
	out.Steer = Clamp(omega)
	return out
}
