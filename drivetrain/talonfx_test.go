package drivetrain

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"swerve-bringup/utils"
)

const vendorCANMap = `direction,frame_id,frame_name,cycle_ms,dlc,signal_name,start_bit,bit_length,endianness,signed,factor,offset,min,max,default,unit,comment,extended
tx,0x2040080,DUTY_CYCLE_OUT,20,8,output,0,16,little,true,0.000030517578125,0,-1,1,0,frac,duty,true
tx,0x2040080,DUTY_CYCLE_OUT,20,8,brake_neutral,16,1,little,false,1,0,0,1,0,bool,brake,true
tx,0x401BF,ROBOT_ENABLE,20,8,enabled,0,1,little,false,1,0,0,1,0,bool,enable,true
`

func newTestVendor(t *testing.T, w *fakeWriter) *PhoenixVendor {
	t.Helper()
	cmap, err := utils.ParseCANMap(strings.NewReader(vendorCANMap))
	require.NoError(t, err)
	v, err := NewPhoenixVendor(cmap, map[string]utils.CANWriter{"rio": w}, utils.NewNopLogger())
	require.NoError(t, err)
	return v
}

func TestNewPhoenixVendor_Unavailable(t *testing.T) {
	_, err := NewPhoenixVendor(nil, map[string]utils.CANWriter{"rio": &fakeWriter{}}, nil)
	assert.ErrorIs(t, err, ErrVendorUnavailable)

	cmap, err := utils.ParseCANMap(strings.NewReader(vendorCANMap))
	require.NoError(t, err)
	_, err = NewPhoenixVendor(cmap, nil, nil)
	assert.ErrorIs(t, err, ErrVendorUnavailable)
}

func TestTalonFX_SetControlEncodesDeviceFrame(t *testing.T) {
	w := &fakeWriter{}
	v := newTestVendor(t, w)

	m, err := v.NewMotor(5, "rio")
	require.NoError(t, err)
	assert.Equal(t, 5, m.DeviceID())

	require.NoError(t, m.SetControl(DutyCycleOut{Output: 0.5}))

	require.Len(t, w.frames, 1)
	f := w.frames[0]
	assert.Equal(t, uint32(0x2040085), f.ID)
	assert.True(t, f.IsExtended)
	assert.Equal(t, byte(0x00), f.Data[0])
	assert.Equal(t, byte(0x40), f.Data[1])
}

func TestTalonFX_UnknownBus(t *testing.T) {
	v := newTestVendor(t, &fakeWriter{})
	_, err := v.NewMotor(1, "canivore")
	assert.ErrorIs(t, err, ErrUnknownBus)

	_, err = v.NewMotor(99, "rio")
	assert.Error(t, err)

	_, err = v.NewMotor(utils.BroadcastDeviceID, "rio")
	assert.Error(t, err, "broadcast id is not a device")
}

func TestNewDrive_TypedNilVendor(t *testing.T) {
	var v *PhoenixVendor
	_, err := NewDrive(v, DefaultConstants(), nil)
	assert.ErrorIs(t, err, ErrVendorUnavailable)
}

func TestTalonFX_TransmitError(t *testing.T) {
	w := &fakeWriter{err: errors.New("no buffer space")}
	v := newTestVendor(t, w)
	m, err := v.NewMotor(1, "rio")
	require.NoError(t, err)

	err = m.SetControl(DutyCycleOut{})
	assert.ErrorContains(t, err, "no buffer space")
}

func TestPhoenixVendor_Heartbeat(t *testing.T) {
	w := &fakeWriter{}
	v := newTestVendor(t, w)

	require.NoError(t, v.Heartbeat(true))

	require.Len(t, w.frames, 1)
	assert.Equal(t, uint32(0x401BF), w.frames[0].ID)
	assert.Equal(t, byte(1), w.frames[0].Data[0])
}

func TestDrive_OverPhoenixVendor(t *testing.T) {
	w := &fakeWriter{}
	v := newTestVendor(t, w)
	d, err := NewDrive(v, DefaultConstants(), utils.NewNopLogger())
	require.NoError(t, err)

	d.Stop()

	// drive motors first, then steer motors
	want := []int{1, 3, 5, 7, 2, 4, 6, 8}
	require.Len(t, w.frames, len(want))
	for i, f := range w.frames {
		_, dev := utils.SplitArbitrationID(f.ID)
		assert.Equal(t, want[i], dev)
		assert.Equal(t, []byte{0, 0}, f.Data[:2])
	}
}
