// Package autonomous runs timed, open-loop drive routines loaded from JSON.
package autonomous

import (
	"encoding/json"
	"fmt"
	"os"

	"swerve-bringup/drivetrain"
)

// Routine defines a complete autonomous routine
type Routine struct {
	Meta     RoutineMeta             `json:"meta"`
	Timing   RoutineTiming           `json:"timing"`
	Defaults drivetrain.DriveRequest `json:"defaults"`
	Segments []RoutineSegment        `json:"segments"`
}

// RoutineMeta contains routine metadata
type RoutineMeta struct {
	Name        string `json:"name"`
	Version     int    `json:"version"`
	Description string `json:"description"`
}

type RoutineTiming struct {
	DurationS float64 `json:"duration_s"`
}

// RoutineSegment applies one drive request over [T0, T1). A negative T1
// runs to the end of the routine.
type RoutineSegment struct {
	T0            float64 `json:"t0"`
	T1            float64 `json:"t1"`
	X             float64 `json:"x"`
	Y             float64 `json:"y"`
	Rotation      float64 `json:"rotation"`
	FieldOriented bool    `json:"field_oriented,omitempty"`
	Comment       string  `json:"comment,omitempty"`
}

// LoadRoutine loads a routine from a JSON file
func LoadRoutine(path string) (Routine, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Routine{}, fmt.Errorf("read file: %w", err)
	}
	r, err := ParseRoutine(data)
	if err != nil {
		return Routine{}, fmt.Errorf("%s: %w", path, err)
	}
	return r, nil
}

func ParseRoutine(data []byte) (Routine, error) {
	var r Routine
	if err := json.Unmarshal(data, &r); err != nil {
		return Routine{}, fmt.Errorf("unmarshal: %w", err)
	}
	if err := r.Validate(); err != nil {
		return Routine{}, err
	}
	return r, nil
}

func (r Routine) Validate() error {
	if r.Timing.DurationS <= 0 {
		return fmt.Errorf("invalid duration_s: %f", r.Timing.DurationS)
	}
	prevEnd := 0.0
	for i, seg := range r.Segments {
		if seg.T0 < prevEnd {
			return fmt.Errorf("segment %d starts at %.2fs, before previous segment ends at %.2fs", i, seg.T0, prevEnd)
		}
		if seg.T1 >= 0 && seg.T1 <= seg.T0 {
			return fmt.Errorf("segment %d: t1 %.2f must be after t0 %.2f", i, seg.T1, seg.T0)
		}
		if seg.T1 < 0 {
			if i != len(r.Segments)-1 {
				return fmt.Errorf("segment %d: open-ended segment must be last", i)
			}
			prevEnd = r.Timing.DurationS
		} else {
			prevEnd = seg.T1
		}
		for name, v := range map[string]float64{"x": seg.X, "y": seg.Y, "rotation": seg.Rotation} {
			if v < -1 || v > 1 {
				return fmt.Errorf("segment %d: %s %.2f outside [-1, 1]", i, name, v)
			}
		}
	}
	return nil
}

// Eval returns the drive request active at t seconds into the routine
func (r *Routine) Eval(t float64) drivetrain.DriveRequest {
	for _, seg := range r.Segments {
		t1 := seg.T1
		if t1 < 0 {
			t1 = r.Timing.DurationS
		}
		if t >= seg.T0 && t < t1 {
			return drivetrain.DriveRequest{
				X:             seg.X,
				Y:             seg.Y,
				Rotation:      seg.Rotation,
				FieldOriented: seg.FieldOriented,
			}
		}
	}
	return r.Defaults
}
