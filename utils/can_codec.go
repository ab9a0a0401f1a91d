package utils

import (
	"fmt"
	"math"

	"go.einride.tech/can"
)

func (m *CANMap) EncodeFrame(frameName string, values map[string]float64) ([]byte, uint32, error) {
	fd, err := m.FrameByName(frameName)
	if err != nil {
		return nil, 0, err
	}
	if fd.DLC <= 0 || fd.DLC > 8 {
		return nil, 0, fmt.Errorf("frame %s has invalid DLC %d", fd.Name, fd.DLC)
	}

	var payload uint64

	for _, s := range fd.Signals {
		v, ok := values[s.Name]
		if !ok || math.IsNaN(v) {
			v = s.Default
		}
		if s.Min < s.Max {
			v = clamp(v, s.Min, s.Max)
		}

		raw := int64(math.Round((v - s.Offset) / s.Factor))
		raw = clampRaw(raw, s.BitLength, s.Signed)

		payload = setBits(payload, s.StartBit, s.BitLength, rawToUnsigned(raw, s.BitLength))
	}

	out := make([]byte, fd.DLC)
	for i := 0; i < fd.DLC; i++ {
		out[i] = byte((payload >> (8 * i)) & 0xFF)
	}
	return out, fd.ID, nil
}

// EncodeEinrideFrame produces a frame ready to transmit under the map's ID.
func (m *CANMap) EncodeEinrideFrame(frameName string, values map[string]float64) (can.Frame, error) {
	payload, id, err := m.EncodeFrame(frameName, values)
	if err != nil {
		return can.Frame{}, err
	}
	fd := m.ByName[frameName]

	var f can.Frame
	f.ID = id
	f.IsExtended = fd.Extended
	f.Length = uint8(len(payload))
	copy(f.Data[:], payload)

	return f, nil
}

// EncodeDeviceFrame encodes a frame addressed to one device on the bus.
func (m *CANMap) EncodeDeviceFrame(frameName string, deviceID int, values map[string]float64) (can.Frame, error) {
	f, err := m.EncodeEinrideFrame(frameName, values)
	if err != nil {
		return can.Frame{}, err
	}
	id, err := DeviceArbitrationID(f.ID, deviceID)
	if err != nil {
		return can.Frame{}, fmt.Errorf("frame %s: %w", frameName, err)
	}
	f.ID = id
	return f, nil
}

func (m *CANMap) DecodeFrame(frameID uint32, data []byte) (map[string]float64, error) {
	fd, err := m.FrameByID(frameID)
	if err != nil {
		return nil, err
	}
	if len(data) < fd.DLC {
		return nil, fmt.Errorf("frame 0x%X expects DLC %d, got %d", frameID, fd.DLC, len(data))
	}

	var payload uint64
	for i := 0; i < fd.DLC && i < 8; i++ {
		payload |= uint64(data[i]) << (8 * i)
	}

	out := make(map[string]float64, len(fd.Signals))
	for _, s := range fd.Signals {
		u := getBits(payload, s.StartBit, s.BitLength)
		raw := unsignedToRawInt64(u, s.BitLength, s.Signed)
		out[s.Name] = float64(raw)*s.Factor + s.Offset
	}
	return out, nil
}

// DecodeDeviceFrame resolves a device-addressed frame back to its map entry.
func (m *CANMap) DecodeDeviceFrame(f can.Frame) (*FrameDef, int, map[string]float64, error) {
	base, deviceID := SplitArbitrationID(f.ID)
	fd, err := m.FrameByID(base)
	if err != nil {
		return nil, 0, nil, err
	}
	values, err := m.DecodeFrame(base, f.Data[:f.Length])
	if err != nil {
		return nil, 0, nil, err
	}
	return fd, deviceID, values, nil
}
