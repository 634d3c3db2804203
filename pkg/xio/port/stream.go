package port

import (
	"context"
	"io"
	"sync"
)

// StreamBuffer is the number of bytes buffered between the pump
// goroutine and ReadByte.
const StreamBuffer = 256

// Stream adapts a blocking io.ReadWriteCloser (socket, websocket, pipe)
// into a non-blocking Port by pumping reads through a background
// goroutine. Run must be scheduled for ReadByte to see any data; the
// connection callback fires when pumping starts and stops. Close is
// required so cancellation can unblock a pending read.
type Stream struct {
	rw io.ReadWriteCloser

	byteCh chan byte

	lock     sync.Mutex
	err      error
	callback ConnectionCallback
}

// NewStream wraps rw.
func NewStream(rw io.ReadWriteCloser) *Stream {
	return &Stream{rw: rw, byteCh: make(chan byte, StreamBuffer)}
}

// ReadByte implements Port. Buffered bytes are drained before any
// pending stream error (including io.EOF) is surfaced.
func (s *Stream) ReadByte() (byte, error) {
	select {
	case b := <-s.byteCh:
		return b, nil
	default:
	}
	s.lock.Lock()
	err := s.err
	s.lock.Unlock()
	if err != nil {
		return 0, err
	}
	return 0, ErrNoData
}

// Write implements Port.
func (s *Stream) Write(p []byte) (int, error) {
	return s.rw.Write(p)
}

// SetConnectionCallback implements Notifier.
func (s *Stream) SetConnectionCallback(cb ConnectionCallback) {
	s.lock.Lock()
	s.callback = cb
	s.lock.Unlock()
}

// Run implements the Runnable shape of the firmware loop. It pumps the
// underlying stream until the stream fails, is exhausted, or ctx is
// canceled. Cancellation closes the stream to unblock the pending read.
func (s *Stream) Run(ctx context.Context) error {
	s.notify(true)
	defer s.notify(false)

	errCh := make(chan error, 1)
	go s.pump(errCh)
	select {
	case err := <-errCh:
		if err == io.EOF {
			return nil
		}
		return err
	case <-ctx.Done():
	}
	s.rw.Close()
	for {
		select {
		case <-s.byteCh:
		case <-errCh:
			return ctx.Err()
		}
	}
}

func (s *Stream) pump(errCh chan<- error) {
	buf := make([]byte, 1)
	for {
		n, err := s.rw.Read(buf)
		if err != nil {
			s.lock.Lock()
			s.err = err
			s.lock.Unlock()
			errCh <- err
			return
		}
		if n > 0 {
			s.byteCh <- buf[0]
		}
	}
}

func (s *Stream) notify(connected bool) {
	s.lock.Lock()
	cb := s.callback
	s.lock.Unlock()
	if cb != nil {
		cb(connected)
	}
}
