package xio

import (
	"github.com/robotalks/motion.go/pkg/xio/port"
)

// magicNum is the guard value bracketing the subsystem state.
const magicNum uint32 = 0x12ef3a4f

// XIO is the I/O subsystem context. It owns the device and channel
// tables and is bracketed by two integrity sentinels. All methods
// except the transport notifications must be called from the main loop.
type XIO struct {
	magicStart uint32

	devices  [DeviceCount]Device
	channels [ChannelCount]Channel
	active   DeviceID
	pins     PinController
	spiState SPIState

	magicEnd uint32
}

// New creates the subsystem and initializes it with the provided
// transports.
func New(ports map[DeviceID]port.Port) *XIO {
	x := &XIO{}
	x.Init(ports)
	return x
}

// Init clears every device and channel to a known-zero state, tags each
// channel with its own index, writes the integrity sentinels and
// registers one connection callback per attached transport. USB0 is the
// initial active device.
func (x *XIO) Init(ports map[DeviceID]port.Port) {
	x.magicStart, x.magicEnd = magicNum, magicNum
	for i := range x.devices {
		d := &x.devices[i]
		d.port, d.flags, d.state = nil, 0, StateUnknown
		d.nextState.Store(int32(StateUnknown))
	}
	for i := range x.channels {
		x.channels[i] = Channel{typ: ChannelID(i), device: DeviceNone}
	}
	x.active = DeviceUSB0
	x.pins = nil
	x.spiState = SPIDisabled
	for id, p := range ports {
		d := &x.devices[id]
		d.port = p
		if n, ok := p.(port.Notifier); ok {
			dev := d
			n.SetConnectionCallback(func(connected bool) {
				dev.notify(connected)
			})
		}
	}
}

// Teardown unhooks transport callbacks and returns the context to its
// zero state. The sentinels are cleared, so CheckIntegrity fails until
// Init runs again.
func (x *XIO) Teardown() {
	for i := range x.devices {
		d := &x.devices[i]
		if n, ok := d.port.(port.Notifier); ok {
			n.SetConnectionCallback(nil)
		}
		d.port, d.flags, d.state = nil, 0, StateUnknown
		d.nextState.Store(int32(StateUnknown))
	}
	for i := range x.channels {
		x.channels[i] = Channel{typ: ChannelID(i), device: DeviceNone}
	}
	x.pins = nil
	x.spiState = SPIDisabled
	x.magicStart, x.magicEnd = 0, 0
}

// CheckIntegrity verifies the guard sentinels bracketing the subsystem
// state. It is side-effect free and callable at any time. A failure
// means memory corruption and is not locally recoverable.
func (x *XIO) CheckIntegrity() error {
	if x.magicStart != magicNum || x.magicEnd != magicNum {
		return ErrAssertion
	}
	return nil
}

// Device returns the descriptor of a physical transport.
func (x *XIO) Device(id DeviceID) *Device { return &x.devices[id] }

// Channel returns the descriptor of a logical channel.
func (x *XIO) Channel(id ChannelID) *Channel { return &x.channels[id] }

// Active returns the device currently used for reads and writes.
func (x *XIO) Active() DeviceID { return x.active }

// SetActive selects the device used for reads and writes. Exactly one
// transport is active at a time.
func (x *XIO) SetActive(id DeviceID) { x.active = id }

// Poll commits connection transitions recorded by transport
// notifications and maintains channel bindings. It must be called only
// from the main loop, which is the sole writer of committed state.
//
// Binding policy: a device transitioning to connected is bound to the
// first unbound channel in index order; a disconnecting device is
// unbound from any channel referencing it.
func (x *XIO) Poll() error {
	for id := DeviceID(0); id < DeviceCount; id++ {
		d := &x.devices[id]
		next := d.takeNext()
		if next == StateUnknown {
			continue
		}
		d.state = next
		switch next {
		case StateConnected:
			x.bind(id)
		case StateNotConnected:
			x.unbind(id)
		}
	}
	return nil
}

func (x *XIO) bind(id DeviceID) {
	for i := range x.channels {
		if x.channels[i].device == id {
			return
		}
	}
	for i := range x.channels {
		if x.channels[i].device == DeviceNone {
			x.channels[i].device = id
			return
		}
	}
}

func (x *XIO) unbind(id DeviceID) {
	for i := range x.channels {
		if x.channels[i].device == id {
			x.channels[i].device = DeviceNone
		}
	}
}

// ReadByte reads one byte from the active transport. ErrAgain is
// returned while the transport has nothing buffered, or when no
// transport is attached yet.
func (x *XIO) ReadByte() (byte, error) {
	p := x.devices[x.active].port
	if p == nil {
		return 0, ErrAgain
	}
	b, err := p.ReadByte()
	if err == port.ErrNoData {
		err = ErrAgain
	}
	return b, err
}

// Write writes to the active transport and reports how many bytes it
// accepted, which may be less than len(p). With no transport attached
// nothing is written.
func (x *XIO) Write(p []byte) (int, error) {
	ap := x.devices[x.active].port
	if ap == nil {
		return 0, nil
	}
	return ap.Write(p)
}
