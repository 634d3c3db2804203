// Package xio is the transport abstraction and line framing layer of
// the controller's I/O subsystem.
//
// It multiplexes the physical character transports (USB serial ports,
// the SPI control channel) behind a uniform device/channel model, tracks
// connection state reported asynchronously by the transports, and
// assembles input into lines one non-blocking call at a time.
//
// All state lives in an XIO context owned by the caller. Transport
// notifications may fire from any context; they write only a per-device
// single-slot mailbox which Poll, invoked from the cooperative main
// loop, drains and commits. Line reading never blocks: ReadLine returns
// ErrAgain and resumes from the caller-held cursor when more input
// arrives.
package xio
