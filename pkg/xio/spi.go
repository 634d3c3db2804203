package xio

import "fmt"

// SPIState enables or disables the SPI control channel.
type SPIState uint8

const (
	// SPIDisabled turns the SPI channel off; its pins revert to inputs.
	SPIDisabled SPIState = 0
	// SPIEnabled turns the SPI channel on; its pins are driven as outputs.
	SPIEnabled SPIState = 1
)

// SPIPin identifies one of the SPI signal pins.
type SPIPin int

// SPI signal pins.
const (
	PinMISO SPIPin = iota
	PinMOSI
	PinSCK
)

// PinDirection is the electrical direction of a pin.
type PinDirection int

// Pin directions.
const (
	PinInput PinDirection = iota
	PinOutput
)

// PinController reconfigures transport pin directions. It is provided
// by the hardware layer.
type PinController interface {
	SetDirection(pin SPIPin, dir PinDirection)
}

// SetPinController attaches the hardware collaborator used by SetSPI.
func (x *XIO) SetPinController(pc PinController) { x.pins = pc }

// SetSPI is the setter behind the spi configuration variable. Enabling
// drives MISO/MOSI/SCK as outputs; disabling reverts them to inputs.
func (x *XIO) SetSPI(state SPIState) error {
	switch state {
	case SPIEnabled, SPIDisabled:
	default:
		return fmt.Errorf("invalid spi state %d", state)
	}
	x.spiState = state
	d := &x.devices[DeviceSPI0]
	dir := PinInput
	if state == SPIEnabled {
		d.flags |= FlagSPIEnabled
		dir = PinOutput
	} else {
		d.flags &^= FlagSPIEnabled
	}
	if x.pins != nil {
		for _, pin := range []SPIPin{PinMISO, PinMOSI, PinSCK} {
			x.pins.SetDirection(pin, dir)
		}
	}
	return nil
}

// SPI reports the configured SPI state.
func (x *XIO) SPI() SPIState { return x.spiState }
