package utils

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCANMap_MergesSignalsPerFrame(t *testing.T) {
	m := mustParseTestMap(t)

	assert.Equal(t, []string{"DUTY_CYCLE_OUT", "ROBOT_ENABLE"}, m.FrameNames())
	fd, err := m.FrameByName("DUTY_CYCLE_OUT")
	require.NoError(t, err)
	assert.True(t, fd.Extended)
	assert.Equal(t, 20, fd.CycleMS)
	require.Len(t, fd.Signals, 2)
	assert.Equal(t, "output", fd.Signals[0].Name)

	_, err = m.FrameByID(0x401BF)
	assert.NoError(t, err)
	assert.True(t, m.HasFrame("ROBOT_ENABLE"))
	assert.False(t, m.HasFrame("STATUS_1"))
}

func TestParseCANMap_Rejects(t *testing.T) {
	header := "direction,frame_id,frame_name,cycle_ms,dlc,signal_name,start_bit,bit_length,endianness,signed,factor,offset,min,max,default,unit,comment\n"
	cases := map[string]string{
		"missing column": "direction,frame_id\ntx,1\n",
		"bad endianness": header + "tx,0x10,F,20,8,s,0,8,big,false,1,0,0,1,0,,\n",
		"bad dlc":        header + "tx,0x10,F,20,9,s,0,8,little,false,1,0,0,1,0,,\n",
		"bad bit length": header + "tx,0x10,F,20,8,s,0,0,little,false,1,0,0,1,0,,\n",
		"overflow":       header + "tx,0x10,F,20,8,s,60,8,little,false,1,0,0,1,0,,\n",
		"zero factor":    header + "tx,0x10,F,20,8,s,0,8,little,false,0,0,0,1,0,,\n",
		"bad number":     header + "tx,0x10,F,twenty,8,s,0,8,little,false,1,0,0,1,0,,\n",
		"dlc mismatch":   header + "tx,0x10,F,20,8,a,0,8,little,false,1,0,0,1,0,,\ntx,0x10,F,20,4,b,8,8,little,false,1,0,0,1,0,,\n",
		"dup name":       header + "tx,0x10,F,20,8,a,0,8,little,false,1,0,0,1,0,,\ntx,0x20,F,20,8,b,0,8,little,false,1,0,0,1,0,,\n",
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := ParseCANMap(strings.NewReader(body))
			assert.Error(t, err)
		})
	}
}

func TestLoadCANMap_FromDisk(t *testing.T) {
	path := filepath.Join(t.TempDir(), "can_map.csv")
	require.NoError(t, os.WriteFile(path, []byte(testCANMap), 0o644))

	m, err := LoadCANMap(path)
	require.NoError(t, err)
	assert.Len(t, m.ByID, 2)

	_, err = LoadCANMap(filepath.Join(t.TempDir(), "missing.csv"))
	assert.Error(t, err)
}

func TestArbitrationID(t *testing.T) {
	id, err := DeviceArbitrationID(0x2040080, 12)
	require.NoError(t, err)
	base, dev := SplitArbitrationID(id)
	assert.Equal(t, uint32(0x2040080), base)
	assert.Equal(t, 12, dev)

	_, err = DeviceArbitrationID(0x2040080, -1)
	assert.Error(t, err)

	id, err = DeviceArbitrationID(0x2040080, BroadcastDeviceID)
	require.NoError(t, err)
	assert.Equal(t, uint32(0x20400BF), id)
	assert.Equal(t, 62, MaxDeviceID)
}
