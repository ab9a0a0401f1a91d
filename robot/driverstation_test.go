package robot

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

type stepClock struct{ t time.Time }

func (c *stepClock) now() time.Time { return c.t }

func TestDriverStation_ModeAndTimeout(t *testing.T) {
	clk := &stepClock{t: time.Unix(100, 0)}
	ds := NewDriverStation(500*time.Millisecond, nil)
	ds.now = clk.now

	assert.Equal(t, Disabled, ds.Mode(), "no packet yet")

	require.NoError(t, ds.Update(ControlPacket{Mode: "teleop", Enabled: true}))
	assert.Equal(t, Teleop, ds.Mode())
	assert.True(t, ds.Enabled())

	clk.t = clk.t.Add(400 * time.Millisecond)
	assert.Equal(t, Teleop, ds.Mode())

	clk.t = clk.t.Add(200 * time.Millisecond)
	assert.Equal(t, Disabled, ds.Mode(), "link timed out")

	require.NoError(t, ds.Update(ControlPacket{Mode: "autonomous", Enabled: false}))
	assert.Equal(t, Disabled, ds.Mode(), "not enabled")

	assert.Error(t, ds.Update(ControlPacket{Mode: "practice", Enabled: true}))
}

func TestDriverStation_Joysticks(t *testing.T) {
	ds := NewDriverStation(0, nil)
	require.NoError(t, ds.Update(ControlPacket{
		Mode:    "teleop",
		Enabled: true,
		Joysticks: []Joystick{
			{Axes: []float64{0.1, -0.2, 0, 0, 0.4, -0.5}, Buttons: 0b101},
		},
	}))

	xbox := NewXboxController(0, ds)
	assert.Equal(t, 0.1, xbox.LeftX())
	assert.Equal(t, -0.2, xbox.LeftY())
	assert.Equal(t, 0.4, xbox.RightX())
	assert.Equal(t, -0.5, xbox.RightY())

	js := ds.Joystick(0)
	assert.True(t, js.Button(0))
	assert.False(t, js.Button(1))
	assert.True(t, js.Button(2))

	missing := NewXboxController(3, ds)
	assert.Equal(t, 0.0, missing.RightY())
	assert.Equal(t, 0.0, Joystick{Axes: []float64{1}}.Axis(5))
}

func dialControl(t *testing.T, srv *httptest.Server) (*websocket.Conn, *http.Response, error) {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws/control"
	return websocket.DefaultDialer.Dial(url, nil)
}

func TestDriverStation_ControlSocket(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	ds := NewDriverStation(time.Second, nil)
	srv := httptest.NewServer(ds.Handler(map[string]string{"canbus": "rio"}))
	defer srv.Close()

	ws, _, err := dialControl(t, srv)
	require.NoError(t, err)

	require.NoError(t, ws.WriteJSON(ControlPacket{
		Mode:      "teleop",
		Enabled:   true,
		Joysticks: []Joystick{{Axes: []float64{0, 0, 0, 0, 0, 1}}},
	}))
	var status ControlStatus
	require.NoError(t, ws.ReadJSON(&status))
	assert.Equal(t, ControlStatus{Mode: "teleop", Enabled: true}, status)
	assert.Equal(t, 1.0, ds.Joystick(0).Axis(5))

	require.NoError(t, ws.WriteJSON(ControlPacket{Mode: "bogus", Enabled: true}))
	require.NoError(t, ws.ReadJSON(&status))
	assert.Contains(t, status.Error, "unknown mode")
	assert.Equal(t, "teleop", status.Mode)

	// A second controller is turned away while the first is connected.
	_, resp, err := dialControl(t, srv)
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	resp.Body.Close()

	require.NoError(t, ws.Close())
	assert.Eventually(t, func() bool { return ds.Mode() == Disabled }, time.Second, 5*time.Millisecond)

	// The slot frees up once the first client is gone.
	assert.Eventually(t, func() bool {
		ws2, resp, err := dialControl(t, srv)
		if resp != nil && resp.Body != nil {
			resp.Body.Close()
		}
		if err != nil {
			return false
		}
		ws2.Close()
		return true
	}, time.Second, 10*time.Millisecond)
}

func TestDriverStation_InfoAndMetrics(t *testing.T) {
	ds := NewDriverStation(0, nil)
	srv := httptest.NewServer(ds.Handler(map[string]string{"canbus": "rio"}))
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/info.json")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))

	mresp, err := http.Get(srv.URL + "/metrics")
	require.NoError(t, err)
	defer mresp.Body.Close()
	assert.Equal(t, http.StatusOK, mresp.StatusCode)
}
