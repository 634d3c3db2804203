package sh

import (
	"errors"
	"strings"

	"github.com/abiosoft/ishell"

	"github.com/robotalks/motion.go/pkg/xio"
)

var errNotConnected = errors.New("not connected")

var commands = []*ishell.Cmd{
	&OpenCmd,
	&CloseCmd,
	&SendCmd,
	&StateCmd,
	&CheckCmd,
	&SPICmd,
}

// AddCmds is used by other command providers during init func.
func AddCmds(cmds ...*ishell.Cmd) {
	commands = append(commands, cmds...)
}

// MustBeConnected wraps a command func that requires an open transport.
func MustBeConnected(fn func(c *ishell.Context)) func(c *ishell.Context) {
	return func(c *ishell.Context) {
		if ShellFrom(c).conn == nil {
			c.Err(errNotConnected)
			return
		}
		fn(c)
	}
}

var (
	// OpenCmd opens a transport.
	OpenCmd = ishell.Cmd{
		Name: "open",
		Help: "serial:DEVICE[@BAUD] | ws://HOST/PATH",
		Func: func(c *ishell.Context) {
			if len(c.Args) != 1 {
				c.Err(errors.New("expect exactly one transport name"))
				return
			}
			if err := ShellFrom(c).Open(c.Args[0]); err != nil {
				c.Err(err)
			}
		},
	}

	// CloseCmd closes the open transport.
	CloseCmd = ishell.Cmd{
		Name: "close",
		Help: "",
		Func: MustBeConnected(func(c *ishell.Context) {
			ShellFrom(c).Disconnect()
		}),
	}

	// SendCmd sends one command line to the machine.
	SendCmd = ishell.Cmd{
		Name:    "send",
		Aliases: []string{"s"},
		Help:    "LINE",
		Func: MustBeConnected(func(c *ishell.Context) {
			if err := ShellFrom(c).Send(strings.Join(c.Args, " ")); err != nil {
				c.Err(err)
			}
		}),
	}

	// StateCmd shows device and channel state.
	StateCmd = ishell.Cmd{
		Name: "state",
		Help: "",
		Func: MustBeConnected(func(c *ishell.Context) {
			ShellFrom(c).conn.Do(func(x *xio.XIO) error {
				for id := xio.DeviceID(0); id < xio.DeviceCount; id++ {
					c.Printf("dev  %-5s %s\n", id, x.Device(id).State())
				}
				for id := xio.ChannelID(0); id < xio.ChannelCount; id++ {
					c.Printf("chan %-2d    %s\n", id, x.Channel(id).Device())
				}
				return nil
			})
		}),
	}

	// CheckCmd runs the subsystem integrity check.
	CheckCmd = ishell.Cmd{
		Name: "check",
		Help: "",
		Func: MustBeConnected(func(c *ishell.Context) {
			err := ShellFrom(c).conn.Do(func(x *xio.XIO) error {
				return x.CheckIntegrity()
			})
			if err != nil {
				c.Err(err)
				return
			}
			c.Println("OK")
		}),
	}

	// SPICmd flips the spi configuration variable.
	SPICmd = ishell.Cmd{
		Name: "spi",
		Help: "on|off",
		Func: MustBeConnected(func(c *ishell.Context) {
			state := xio.SPIDisabled
			if len(c.Args) == 1 && c.Args[0] == "on" {
				state = xio.SPIEnabled
			} else if len(c.Args) != 1 || c.Args[0] != "off" {
				c.Err(errors.New("expect on or off"))
				return
			}
			err := ShellFrom(c).conn.Do(func(x *xio.XIO) error {
				return x.SetSPI(state)
			})
			if err != nil {
				c.Err(err)
			}
		}),
	}
)
