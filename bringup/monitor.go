package main

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"go.einride.tech/can"

	"swerve-bringup/utils"
)

// runMonitor logs every frame on iface that the CAN map can decode.
func runMonitor(ctx context.Context, iface string, cmap *utils.CANMap, log *utils.Logger) error {
	reader, err := utils.NewSocketCANReader(ctx, iface)
	if err != nil {
		return err
	}
	defer reader.Close()

	log.Info("Monitoring %s (frames: %v)", iface, cmap.FrameNames())
	var seen uint64
	for {
		frame, err := reader.ReadFrame(ctx)
		if err != nil {
			if ctx.Err() != nil {
				log.Info("Monitor stopped. frames_seen=%d", seen)
				return nil
			}
			if errors.Is(err, utils.ErrReaderClosed) {
				return err
			}
			log.Error("RX error: %v", err)
			continue
		}
		seen++

		line, ok := describeFrame(cmap, frame)
		if !ok {
			log.Trace("RX id=0x%X len=%d data=% X", frame.ID, frame.Length, frame.Data[:frame.Length])
			continue
		}
		log.Info("%s", line)
	}
}

// describeFrame renders a frame the map knows, either under its exact ID
// or as a device-addressed frame.
func describeFrame(cmap *utils.CANMap, f can.Frame) (string, bool) {
	if fd, err := cmap.FrameByID(f.ID); err == nil {
		values, err := cmap.DecodeFrame(f.ID, f.Data[:f.Length])
		if err != nil {
			return "", false
		}
		return fmt.Sprintf("%s %s", fd.Name, formatValues(values)), true
	}
	fd, dev, values, err := cmap.DecodeDeviceFrame(f)
	if err != nil {
		return "", false
	}
	return fmt.Sprintf("%s dev=%d %s", fd.Name, dev, formatValues(values)), true
}

func formatValues(values map[string]float64) string {
	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s=%.4g", k, values[k]))
	}
	return strings.Join(parts, " ")
}
