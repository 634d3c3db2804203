// Package sh provides the ishell backed interactive console for
// talking to a machine over one of the supported transports.
package sh

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync"

	"github.com/abiosoft/ishell"

	"github.com/robotalks/motion.go/pkg/firmware"
	"github.com/robotalks/motion.go/pkg/xio"
	"github.com/robotalks/motion.go/pkg/xio/port"
	"github.com/robotalks/motion.go/pkg/xio/port/serial"
	"github.com/robotalks/motion.go/pkg/xio/port/ws"
)

const (
	shellKey          = "$shell"
	unconnectedPrompt = "[none] > "

	lineCapacity = 254
)

// Shell drives one machine connection from an interactive prompt.
type Shell struct {
	Shell *ishell.Shell

	conn *Conn
}

// Conn is an open transport with its background main loop. The I/O
// subsystem is confined to the loop goroutine; shell commands reach it
// only through Do, which serializes against the loop's controller.
type Conn struct {
	XIO  *xio.XIO
	Loop *firmware.Loop
	Name string

	lock   sync.Mutex
	cancel func()
	closer io.Closer
	doneCh chan error
}

// Do runs fn against the subsystem, serialized with the background
// loop's poll/read iteration.
func (c *Conn) Do(fn func(x *xio.XIO) error) error {
	c.lock.Lock()
	defer c.lock.Unlock()
	return fn(c.XIO)
}

// New creates a shell with the registered command set.
func New() *Shell {
	s := &Shell{Shell: ishell.New()}
	s.Shell.Set(shellKey, s)
	s.Shell.SetPrompt(unconnectedPrompt)
	for _, cmd := range commands {
		s.Shell.AddCmd(cmd)
	}
	return s
}

// ShellFrom gets Shell from ishell context.
func ShellFrom(c *ishell.Context) *Shell {
	return c.Get(shellKey).(*Shell)
}

// Main runs the interactive console until exit.
func Main() {
	s := New()
	defer s.Disconnect()
	s.Shell.Run()
}

// Conn returns the open connection, nil when disconnected.
func (s *Shell) Conn() *Conn { return s.conn }

// Open opens a transport named either serial:DEVICE[@BAUD] or a
// ws:// URL and starts its background loop. Lines received from the
// machine are echoed to the console as they complete.
func (s *Shell) Open(name string) error {
	if s.conn != nil {
		return fmt.Errorf("already connected to %s, close first", s.conn.Name)
	}
	p, closer, runnables, err := openPort(name)
	if err != nil {
		return err
	}

	conn := &Conn{
		XIO:    xio.New(map[xio.DeviceID]port.Port{xio.DeviceUSB0: p}),
		Loop:   firmware.NewLoop(),
		Name:   name,
		closer: closer,
		doneCh: make(chan error, 1),
	}
	conn.Loop.AddRunnable(runnables...)
	conn.Loop.AddController(firmware.ControlFunc(conn.control(func(line string) {
		s.Shell.Println(line)
	})))

	ctx, cancel := context.WithCancel(context.Background())
	conn.cancel = cancel
	go func() {
		conn.doneCh <- conn.Loop.Run(ctx)
	}()
	s.conn = conn
	s.Shell.SetPrompt("[" + name + "] > ")
	return nil
}

// Disconnect stops the background loop and closes the transport. It is
// a no-op when nothing is open.
func (s *Shell) Disconnect() {
	conn := s.conn
	if conn == nil {
		return
	}
	s.conn = nil
	conn.cancel()
	<-conn.doneCh
	if conn.closer != nil {
		conn.closer.Close()
	}
	conn.XIO.Teardown()
	s.Shell.SetPrompt(unconnectedPrompt)
}

// Send writes one command line to the machine.
func (s *Shell) Send(line string) error {
	if s.conn == nil {
		return errNotConnected
	}
	return s.conn.Do(func(x *xio.XIO) error {
		_, err := x.Write([]byte(line + "\n"))
		return err
	})
}

func (c *Conn) control(echo func(line string)) firmware.ControlFunc {
	buf := make([]byte, lineCapacity)
	var index int
	return func(cc firmware.ControlContext) error {
		c.lock.Lock()
		defer c.lock.Unlock()
		if err := c.XIO.Poll(); err != nil {
			return err
		}
		switch err := c.XIO.ReadLine(buf, &index); err {
		case nil:
			echo(string(buf[:index]))
			index = 0
			cc.TriggerNext()
		case xio.ErrAgain:
		case xio.ErrBufferFull:
			echo(fmt.Sprintf("!! line overflow, %d bytes discarded", index))
			index = 0
		default:
			return err
		}
		return nil
	}
}

func openPort(name string) (port.Port, io.Closer, []firmware.Runnable, error) {
	switch {
	case strings.HasPrefix(name, "serial:"):
		dev, baud := name[len("serial:"):], 115200
		if at := strings.LastIndex(dev, "@"); at >= 0 {
			b, err := strconv.Atoi(dev[at+1:])
			if err != nil {
				return nil, nil, nil, fmt.Errorf("invalid baud rate: %w", err)
			}
			dev, baud = dev[:at], b
		}
		p, err := serial.Open(serial.Config{Device: dev, BaudRate: baud})
		if err != nil {
			return nil, nil, nil, err
		}
		return p, p, nil, nil
	case strings.HasPrefix(name, "ws://"), strings.HasPrefix(name, "wss://"):
		p, err := ws.Dial(name, "http://localhost/")
		if err != nil {
			return nil, nil, nil, err
		}
		return p, nil, []firmware.Runnable{firmware.NamedRun(name, p)}, nil
	}
	return nil, nil, nil, fmt.Errorf("unsupported transport %q", name)
}
