//go:build linux

package serial

import (
	"fmt"
	"sync"

	"golang.org/x/sys/unix"

	"github.com/robotalks/motion.go/pkg/xio/port"
)

// Config holds the parameters for opening a serial port.
type Config struct {
	Device   string
	BaudRate int
}

// Port is a raw serial port implementing port.Port. Reads and writes
// never block: the descriptor stays in non-blocking mode with VMIN=0.
type Port struct {
	fd   int
	name string

	lock     sync.Mutex
	closed   bool
	callback port.ConnectionCallback
}

// Open opens the device in raw, non-blocking mode at the configured
// baud rate. Unsupported baud rates are rejected.
func Open(cfg Config) (*Port, error) {
	baud, ok := baudFlag(cfg.BaudRate)
	if !ok {
		return nil, fmt.Errorf("unsupported baud rate %d", cfg.BaudRate)
	}
	fd, err := unix.Open(cfg.Device, unix.O_RDWR|unix.O_NOCTTY|unix.O_NONBLOCK, 0666)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", cfg.Device, err)
	}
	termios, err := unix.IoctlGetTermios(fd, unix.TCGETS)
	if err != nil {
		unix.Close(fd)
		return nil, fmt.Errorf("get termios: %w", err)
	}

	// Raw mode
	termios.Iflag &^= unix.IGNBRK | unix.BRKINT | unix.PARMRK | unix.ISTRIP | unix.INLCR | unix.IGNCR | unix.ICRNL | unix.IXON
	termios.Oflag &^= unix.OPOST
	termios.Lflag &^= unix.ECHO | unix.ECHONL | unix.ICANON | unix.ISIG | unix.IEXTEN
	termios.Cflag &^= unix.CSIZE | unix.PARENB
	termios.Cflag |= unix.CS8

	termios.Cflag &^= unix.CBAUD
	termios.Cflag |= baud

	// Polling reads: with VMIN=0/VTIME=0 a read returns immediately
	// whether or not data arrived.
	termios.Cc[unix.VMIN] = 0
	termios.Cc[unix.VTIME] = 0

	if err := unix.IoctlSetTermios(fd, unix.TCSETS, termios); err != nil {
		unix.Close(fd)
		return nil, fmt.Errorf("set termios: %w", err)
	}
	return &Port{fd: fd, name: cfg.Device}, nil
}

// Name returns the device path.
func (p *Port) Name() string { return p.name }

// ReadByte implements port.Port.
func (p *Port) ReadByte() (byte, error) {
	var buf [1]byte
	n, err := unix.Read(p.fd, buf[:])
	if err == unix.EAGAIN {
		return 0, port.ErrNoData
	}
	if err != nil {
		return 0, err
	}
	if n == 0 {
		return 0, port.ErrNoData
	}
	return buf[0], nil
}

// Write implements port.Port, reporting the count the driver accepted
// without blocking.
func (p *Port) Write(b []byte) (int, error) {
	n, err := unix.Write(p.fd, b)
	if err == unix.EAGAIN {
		return 0, nil
	}
	if n < 0 {
		n = 0
	}
	return n, err
}

// SetConnectionCallback implements port.Notifier. The current state is
// reported immediately on registration: a serial device that opened is
// considered connected until closed.
func (p *Port) SetConnectionCallback(cb port.ConnectionCallback) {
	p.lock.Lock()
	p.callback = cb
	closed := p.closed
	p.lock.Unlock()
	if cb != nil {
		cb(!closed)
	}
}

// Close closes the port and reports the disconnect. Safe to call more
// than once.
func (p *Port) Close() error {
	p.lock.Lock()
	if p.closed {
		p.lock.Unlock()
		return nil
	}
	p.closed = true
	cb := p.callback
	p.lock.Unlock()
	if cb != nil {
		cb(false)
	}
	return unix.Close(p.fd)
}

func baudFlag(baud int) (uint32, bool) {
	switch baud {
	case 9600:
		return unix.B9600, true
	case 19200:
		return unix.B19200, true
	case 38400:
		return unix.B38400, true
	case 57600:
		return unix.B57600, true
	case 115200:
		return unix.B115200, true
	case 230400:
		return unix.B230400, true
	}
	return 0, false
}
