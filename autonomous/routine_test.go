package autonomous

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"swerve-bringup/drivetrain"
)

const squareJSON = `{
  "meta": {"name": "square", "version": 1},
  "timing": {"duration_s": 4},
  "defaults": {"x": 0, "y": 0, "rotation": 0},
  "segments": [
    {"t0": 0, "t1": 1, "x": 0.5},
    {"t0": 1, "t1": 2, "y": 0.5, "comment": "strafe"},
    {"t0": 2.5, "t1": -1, "rotation": -0.5}
  ]
}`

func TestParseRoutine_Eval(t *testing.T) {
	r, err := ParseRoutine([]byte(squareJSON))
	require.NoError(t, err)

	assert.Equal(t, drivetrain.DriveRequest{X: 0.5}, r.Eval(0))
	assert.Equal(t, drivetrain.DriveRequest{X: 0.5}, r.Eval(0.999))
	assert.Equal(t, drivetrain.DriveRequest{Y: 0.5}, r.Eval(1))
	assert.Equal(t, drivetrain.DriveRequest{}, r.Eval(2.2))
	assert.Equal(t, drivetrain.DriveRequest{Rotation: -0.5}, r.Eval(3.9))
	assert.Equal(t, drivetrain.DriveRequest{}, r.Eval(4))
}

func TestParseRoutine_Rejects(t *testing.T) {
	cases := map[string]string{
		"bad json":      `{`,
		"no duration":   `{"timing": {"duration_s": 0}}`,
		"overlap":       `{"timing": {"duration_s": 3}, "segments": [{"t0": 0, "t1": 2}, {"t0": 1, "t1": 3}]}`,
		"empty segment": `{"timing": {"duration_s": 3}, "segments": [{"t0": 1, "t1": 1}]}`,
		"open not last": `{"timing": {"duration_s": 3}, "segments": [{"t0": 0, "t1": -1}, {"t0": 1, "t1": 2}]}`,
		"out of range":  `{"timing": {"duration_s": 3}, "segments": [{"t0": 0, "t1": 1, "x": 1.5}]}`,
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := ParseRoutine([]byte(body))
			assert.Error(t, err)
		})
	}
}

func TestLoadRoutine(t *testing.T) {
	path := filepath.Join(t.TempDir(), "square.json")
	require.NoError(t, os.WriteFile(path, []byte(squareJSON), 0o644))

	r, err := LoadRoutine(path)
	require.NoError(t, err)
	assert.Equal(t, "square", r.Meta.Name)
	assert.Len(t, r.Segments, 3)

	_, err = LoadRoutine(filepath.Join(t.TempDir(), "none.json"))
	assert.Error(t, err)
}
