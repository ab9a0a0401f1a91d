package utils

import (
	"context"
	"fmt"
	"net"

	"go.einride.tech/can"
	"go.einride.tech/can/pkg/socketcan"
)

type CANWriter interface {
	WriteFrame(ctx context.Context, frame can.Frame) error
	Close() error
}

type SocketCANWriter struct {
	iface string
	conn  net.Conn
	tx    *socketcan.Transmitter
}

func NewSocketCANWriter(ctx context.Context, iface string) (*SocketCANWriter, error) {
	conn, err := socketcan.DialContext(ctx, "can", iface)
	if err != nil {
		return nil, fmt.Errorf("socketcan dial %s: %w", iface, err)
	}
	return &SocketCANWriter{
		iface: iface,
		conn:  conn,
		tx:    socketcan.NewTransmitter(conn),
	}, nil
}

func (w *SocketCANWriter) WriteFrame(ctx context.Context, frame can.Frame) error {
	if err := w.tx.TransmitFrame(ctx, frame); err != nil {
		return fmt.Errorf("%s tx 0x%X: %w", w.iface, frame.ID, err)
	}
	return nil
}

func (w *SocketCANWriter) Close() error {
	if w.conn != nil {
		return w.conn.Close()
	}
	return nil
}

// OpenCANWriters dials one writer per named bus. On failure every writer
// already opened is closed.
func OpenCANWriters(ctx context.Context, buses map[string]string) (map[string]CANWriter, error) {
	out := make(map[string]CANWriter, len(buses))
	for name, iface := range buses {
		w, err := NewSocketCANWriter(ctx, iface)
		if err != nil {
			CloseCANWriters(out)
			return nil, fmt.Errorf("bus %q: %w", name, err)
		}
		out[name] = w
	}
	return out, nil
}

func CloseCANWriters(writers map[string]CANWriter) {
	for _, w := range writers {
		_ = w.Close()
	}
}
