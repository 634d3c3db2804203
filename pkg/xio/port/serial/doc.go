// Package serial provides a raw, non-blocking Linux serial port
// transport for the xio layer.
package serial
