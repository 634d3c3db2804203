package xio

import (
	"sync/atomic"

	"github.com/robotalks/motion.go/pkg/xio/port"
)

// DeviceID identifies a physical transport endpoint. Identity and table
// index coincide for the lifetime of the process.
type DeviceID int

// Known devices.
const (
	DeviceUSB0 DeviceID = iota
	DeviceUSB1
	DeviceSPI0
	DeviceCount
)

// DeviceNone marks an unbound channel.
const DeviceNone DeviceID = -1

// String returns the device name.
func (id DeviceID) String() string {
	switch id {
	case DeviceUSB0:
		return "usb0"
	case DeviceUSB1:
		return "usb1"
	case DeviceSPI0:
		return "spi0"
	}
	return "none"
}

// ConnState is the connection state of a device.
type ConnState int32

const (
	// StateUnknown means no transport notification has been committed yet.
	StateUnknown ConnState = iota
	// StateNotConnected means the transport reported a disconnect.
	StateNotConnected
	// StateConnected means the transport reported a connect.
	StateConnected
)

// String returns the state name.
func (s ConnState) String() string {
	switch s {
	case StateNotConnected:
		return "not-connected"
	case StateConnected:
		return "connected"
	}
	return "unknown"
}

// DeviceFlags carries transport-specific flags.
type DeviceFlags uint8

const (
	// FlagSPIEnabled marks the SPI transport as enabled.
	FlagSPIEnabled DeviceFlags = 1 << iota
)

// Device represents one physical transport endpoint.
type Device struct {
	port  port.Port
	flags DeviceFlags
	state ConnState

	// nextState is a single-slot mailbox. The transport notification
	// stores here from its own execution context; Poll is the only
	// reader and commits the value into state.
	nextState atomic.Int32
}

// State returns the committed connection state.
func (d *Device) State() ConnState { return d.state }

// Flags returns the transport-specific flags.
func (d *Device) Flags() DeviceFlags { return d.flags }

// notify records a pending state transition. Safe to call from any
// context; it touches nothing but the mailbox.
func (d *Device) notify(connected bool) {
	next := StateNotConnected
	if connected {
		next = StateConnected
	}
	d.nextState.Store(int32(next))
}

// takeNext drains the mailbox, returning StateUnknown when nothing is
// pending.
func (d *Device) takeNext() ConnState {
	return ConnState(d.nextState.Swap(int32(StateUnknown)))
}

// ChannelID identifies a logical I/O channel.
type ChannelID int

// Known channels. The channel type tag equals the table index by
// numbering convention: channel 0 is the control channel, the rest are
// device channels.
const (
	ChannelControl ChannelID = iota
	ChannelData1
	ChannelData2
	ChannelCount
)

// Channel is a logical I/O endpoint bindable to a device. The binding
// is relation only; the channel does not own the device.
type Channel struct {
	typ    ChannelID
	device DeviceID
}

// Type returns the channel type tag assigned at initialization.
func (c *Channel) Type() ChannelID { return c.typ }

// Device returns the bound device, or DeviceNone.
func (c *Channel) Device() DeviceID { return c.device }

// Bound indicates the channel is bound to a device.
func (c *Channel) Bound() bool { return c.device != DeviceNone }
