// Package port defines the byte transport contract used by the xio
// layer and provides adapters for common transports.
package port

import "errors"

// ErrNoData indicates the transport currently has nothing buffered.
var ErrNoData = errors.New("no data")

// ConnectionCallback is invoked by a transport when its physical
// connection state changes. It may be called from any goroutine and
// must not block.
type ConnectionCallback func(connected bool)

// Port is a non-blocking byte source/sink over one physical transport.
type Port interface {
	// ReadByte returns the next byte, ErrNoData when nothing is
	// buffered, or io.EOF when a file-backed transport is exhausted.
	ReadByte() (byte, error)
	// Write writes as many bytes as the transport accepts without
	// blocking and reports the count, which may be less than len(p).
	Write(p []byte) (int, error)
}

// Notifier is implemented by ports that report connection transitions.
// At most one callback is registered per transport; registering nil
// unhooks the previous one.
type Notifier interface {
	SetConnectionCallback(ConnectionCallback)
}
