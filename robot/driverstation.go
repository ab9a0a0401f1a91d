package robot

import (
	"encoding/json"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"swerve-bringup/utils"
)

const DefaultDSTimeout = 500 * time.Millisecond

// ControlPacket is what the driver station client sends on /ws/control.
type ControlPacket struct {
	Mode      string     `json:"mode"`
	Enabled   bool       `json:"enabled"`
	Joysticks []Joystick `json:"joysticks"`
}

// Joystick is one controller's raw state. Axes are nominally in [-1, 1].
type Joystick struct {
	Axes    []float64 `json:"axes"`
	Buttons uint32    `json:"buttons"`
}

func (j Joystick) Axis(i int) float64 {
	if i < 0 || i >= len(j.Axes) {
		return 0
	}
	return j.Axes[i]
}

func (j Joystick) Button(i int) bool {
	if i < 0 || i >= 32 {
		return false
	}
	return j.Buttons&(1<<uint(i)) != 0
}

// ControlStatus is sent back after every packet.
type ControlStatus struct {
	Mode    string `json:"mode"`
	Enabled bool   `json:"enabled"`
	Error   string `json:"error,omitempty"`
}

// DriverStation holds the latest control state received from the driver
// station client. Packets arrive on HTTP goroutines; the robot loop reads
// snapshots.
type DriverStation struct {
	mu         sync.Mutex
	mode       Mode
	enabled    bool
	joysticks  []Joystick
	lastPacket time.Time

	timeout time.Duration
	now     func() time.Time
	ctrl    controlLock
	log     *utils.Logger

	upgrader websocket.Upgrader
}

func NewDriverStation(timeout time.Duration, log *utils.Logger) *DriverStation {
	if timeout <= 0 {
		timeout = DefaultDSTimeout
	}
	if log == nil {
		log = utils.NewNopLogger()
	}
	return &DriverStation{
		timeout: timeout,
		now:     time.Now,
		log:     log,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
	}
}

// Update applies one control packet.
func (ds *DriverStation) Update(p ControlPacket) error {
	mode, err := ParseMode(p.Mode)
	if err != nil {
		return err
	}
	ds.mu.Lock()
	defer ds.mu.Unlock()
	ds.mode = mode
	ds.enabled = p.Enabled
	ds.joysticks = p.Joysticks
	ds.lastPacket = ds.now()
	DSPackets.Inc()
	return nil
}

// Mode is the requested mode, or Disabled when the robot is not enabled or
// the link has gone quiet for longer than the timeout.
func (ds *DriverStation) Mode() Mode {
	ds.mu.Lock()
	defer ds.mu.Unlock()
	if !ds.enabled || ds.lastPacket.IsZero() {
		return Disabled
	}
	if ds.now().Sub(ds.lastPacket) > ds.timeout {
		return Disabled
	}
	return ds.mode
}

func (ds *DriverStation) Enabled() bool {
	return ds.Mode() != Disabled
}

// Joystick returns the state of the controller on port, zero if absent.
func (ds *DriverStation) Joystick(port int) Joystick {
	ds.mu.Lock()
	defer ds.mu.Unlock()
	if port < 0 || port >= len(ds.joysticks) {
		return Joystick{}
	}
	return ds.joysticks[port]
}

func (ds *DriverStation) disable() {
	ds.mu.Lock()
	defer ds.mu.Unlock()
	ds.enabled = false
	ds.joysticks = nil
}

// Handler serves the control websocket, a JSON info document and
// Prometheus metrics.
func (ds *DriverStation) Handler(info any) http.Handler {
	r := chi.NewRouter()
	r.Get("/ws/control", ds.handleControl)
	r.Get("/info.json", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("Cache-Control", "no-cache")
		_ = json.NewEncoder(w).Encode(info)
	})
	r.Handle("/metrics", promhttp.Handler())
	return r
}

func (ds *DriverStation) handleControl(w http.ResponseWriter, r *http.Request) {
	w.Header().Add("Cache-Control", "no-cache")
	if err := ds.ctrl.Lock(); err != nil {
		http.Error(w, err.Error(), http.StatusConflict)
		return
	}
	defer ds.ctrl.Unlock()

	ws, err := ds.upgrader.Upgrade(w, r, nil)
	if err != nil {
		ds.log.Warn("Error upgrading control websocket: %v", err)
		return
	}
	defer ws.Close()
	// Losing the controlling client disables the robot.
	defer ds.disable()

	ds.log.Info("Driver station connected from %s", r.RemoteAddr)
	for {
		var p ControlPacket
		if err := ws.ReadJSON(&p); err != nil {
			if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				ds.log.Info("Driver station disconnected")
			} else {
				ds.log.Warn("Error reading from control socket: %v", err)
			}
			return
		}

		status := ControlStatus{}
		if err := ds.Update(p); err != nil {
			status.Error = err.Error()
		}
		mode := ds.Mode()
		status.Mode = mode.String()
		status.Enabled = mode != Disabled
		if err := ws.WriteJSON(status); err != nil {
			ds.log.Warn("Error writing control status: %v", err)
			return
		}
	}
}

var errControlInUse = errors.New("driver station already connected")

// controlLock admits one controlling client at a time without blocking.
type controlLock struct {
	mu    sync.Mutex
	inuse bool
}

func (l *controlLock) Lock() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.inuse {
		return errControlInUse
	}
	l.inuse = true
	return nil
}

func (l *controlLock) Unlock() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.inuse = false
}
