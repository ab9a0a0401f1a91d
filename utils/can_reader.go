package utils

import (
	"context"
	"errors"
	"fmt"
	"net"
	"sync"

	"go.einride.tech/can"
	"go.einride.tech/can/pkg/socketcan"
)

var ErrReaderClosed = errors.New("can reader closed")

// CANReader defines the interface for reading CAN frames
type CANReader interface {
	ReadFrame(ctx context.Context) (can.Frame, error)
	Close() error
}

// SocketCANReader pumps frames from one SocketCAN interface into a channel
// so ReadFrame can honour context cancellation.
type SocketCANReader struct {
	conn   net.Conn
	frames chan can.Frame
	done   chan struct{}
	quit   chan struct{}
	once   sync.Once
	err    error
}

func NewSocketCANReader(ctx context.Context, ifname string) (*SocketCANReader, error) {
	conn, err := socketcan.DialContext(ctx, "can", ifname)
	if err != nil {
		return nil, fmt.Errorf("socketcan dial %s: %w", ifname, err)
	}

	r := &SocketCANReader{
		conn:   conn,
		frames: make(chan can.Frame, 64),
		done:   make(chan struct{}),
		quit:   make(chan struct{}),
	}
	go r.pump(socketcan.NewReceiver(conn))
	return r, nil
}

func (r *SocketCANReader) pump(recv *socketcan.Receiver) {
	defer close(r.done)
	for recv.Receive() {
		if recv.HasErrorFrame() {
			continue
		}
		select {
		case r.frames <- recv.Frame():
		case <-r.quit:
			return
		}
	}
	r.err = recv.Err()
}

// ReadFrame blocks until a frame arrives, the reader closes or ctx ends.
func (r *SocketCANReader) ReadFrame(ctx context.Context) (can.Frame, error) {
	select {
	case <-ctx.Done():
		return can.Frame{}, ctx.Err()
	case f := <-r.frames:
		return f, nil
	case <-r.done:
		if r.err != nil {
			return can.Frame{}, fmt.Errorf("receive: %w", r.err)
		}
		return can.Frame{}, ErrReaderClosed
	}
}

// Close closes the CAN socket, which also stops the pump.
func (r *SocketCANReader) Close() error {
	var err error
	r.once.Do(func() {
		close(r.quit)
		if r.conn != nil {
			err = r.conn.Close()
		}
	})
	return err
}
