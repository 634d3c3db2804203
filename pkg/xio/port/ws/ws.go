// Package ws carries the xio byte stream over a websocket connection.
package ws

import (
	"golang.org/x/net/websocket"

	"github.com/robotalks/motion.go/pkg/xio/port"
)

// Dial connects to a websocket endpoint and wraps the connection as a
// stream port. Frames are binary and carry raw bytes.
func Dial(url, origin string) (*port.Stream, error) {
	conn, err := websocket.Dial(url, "", origin)
	if err != nil {
		return nil, err
	}
	return Wrap(conn), nil
}

// Wrap adapts an established connection, e.g. one accepted by a
// websocket.Handler on the server side.
func Wrap(conn *websocket.Conn) *port.Stream {
	conn.PayloadType = websocket.BinaryFrame
	return port.NewStream(conn)
}
