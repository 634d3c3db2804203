package port

import "sync"

// LoopbackLimit bounds the receive queue of a loopback port.
const LoopbackLimit = 4096

// Loopback is an in-memory port. Bytes written on one end become
// readable on its peer. Used by tests and the simulator.
type Loopback struct {
	peer *Loopback

	lock     sync.Mutex
	rx       []byte
	callback ConnectionCallback
}

// Pipe creates a connected pair of loopback ports.
func Pipe() (*Loopback, *Loopback) {
	a, b := &Loopback{}, &Loopback{}
	a.peer, b.peer = b, a
	return a, b
}

// ReadByte implements Port.
func (l *Loopback) ReadByte() (byte, error) {
	l.lock.Lock()
	defer l.lock.Unlock()
	if len(l.rx) == 0 {
		return 0, ErrNoData
	}
	b := l.rx[0]
	l.rx = l.rx[1:]
	return b, nil
}

// Write implements Port, queueing bytes on the peer end. Bytes beyond
// the peer's free queue space are not accepted.
func (l *Loopback) Write(p []byte) (int, error) {
	return l.peer.feed(p), nil
}

// Feed queues bytes for reading on this end without involving the peer.
func (l *Loopback) Feed(p []byte) int {
	return l.feed(p)
}

func (l *Loopback) feed(p []byte) int {
	l.lock.Lock()
	defer l.lock.Unlock()
	n := LoopbackLimit - len(l.rx)
	if n > len(p) {
		n = len(p)
	}
	if n > 0 {
		l.rx = append(l.rx, p[:n]...)
	}
	return n
}

// SetConnectionCallback implements Notifier.
func (l *Loopback) SetConnectionCallback(cb ConnectionCallback) {
	l.lock.Lock()
	l.callback = cb
	l.lock.Unlock()
}

// SetConnected simulates a physical connection transition on this end.
func (l *Loopback) SetConnected(connected bool) {
	l.lock.Lock()
	cb := l.callback
	l.lock.Unlock()
	if cb != nil {
		cb(connected)
	}
}
