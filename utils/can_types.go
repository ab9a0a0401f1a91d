package utils

import (
	"fmt"
	"sort"
)

// DeviceIDMask selects the device number carried in the low bits of an
// extended arbitration ID. The rest of the ID is the frame's API base.
const DeviceIDMask uint32 = 0x3F

// BroadcastDeviceID is reserved for frames addressed to every device.
const BroadcastDeviceID = int(DeviceIDMask)

// MaxDeviceID is the largest number a single device can be assigned.
const MaxDeviceID = BroadcastDeviceID - 1

type SignalDef struct {
	Name       string
	StartBit   int
	BitLength  int
	Signed     bool
	Factor     float64
	Offset     float64
	Min        float64
	Max        float64
	Default    float64
	Unit       string
	Comment    string
	Endianness string // only "little" supported
}

// FrameDef is one row group of the CAN map. ID is the API base; device
// addressed frames OR the device number into it.
type FrameDef struct {
	ID        uint32
	Name      string
	DLC       int
	Direction string
	CycleMS   int
	Extended  bool
	Signals   []SignalDef
}

type CANMap struct {
	ByID   map[uint32]*FrameDef
	ByName map[string]*FrameDef
}

func (m *CANMap) FrameNames() []string {
	out := make([]string, 0, len(m.ByName))
	for k := range m.ByName {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

func (m *CANMap) HasFrame(name string) bool {
	_, ok := m.ByName[name]
	return ok
}

// DeviceArbitrationID combines a frame's API base with a device number.
// BroadcastDeviceID is accepted here; device configuration rejects it.
func DeviceArbitrationID(base uint32, deviceID int) (uint32, error) {
	if deviceID < 0 || deviceID > BroadcastDeviceID {
		return 0, fmt.Errorf("device id %d out of range 0..%d", deviceID, BroadcastDeviceID)
	}
	return (base &^ DeviceIDMask) | uint32(deviceID), nil
}

// SplitArbitrationID is the inverse of DeviceArbitrationID.
func SplitArbitrationID(id uint32) (base uint32, deviceID int) {
	return id &^ DeviceIDMask, int(id & DeviceIDMask)
}
