//go:build linux

package serial

import (
	"testing"
	"time"

	"github.com/creack/pty"
	"github.com/stretchr/testify/require"

	"github.com/robotalks/motion.go/pkg/xio/port"
)

func TestPortReadWrite(t *testing.T) {
	master, slave, err := pty.Open()
	require.NoError(t, err)
	t.Cleanup(func() { master.Close(); slave.Close() })

	p, err := Open(Config{Device: slave.Name(), BaudRate: 115200})
	require.NoError(t, err)
	t.Cleanup(func() { p.Close() })

	_, err = p.ReadByte()
	require.Equal(t, port.ErrNoData, err)

	_, err = master.Write([]byte("ok\n"))
	require.NoError(t, err)

	got := make([]byte, 0, 3)
	deadline := time.Now().Add(2 * time.Second)
	for len(got) < 3 && time.Now().Before(deadline) {
		b, err := p.ReadByte()
		if err == port.ErrNoData {
			time.Sleep(time.Millisecond)
			continue
		}
		require.NoError(t, err)
		got = append(got, b)
	}
	require.Equal(t, []byte("ok\n"), got)

	n, err := p.Write([]byte("g0\n"))
	require.NoError(t, err)
	require.Equal(t, 3, n)
	buf := make([]byte, 8)
	n, err = master.Read(buf)
	require.NoError(t, err)
	require.Equal(t, "g0\n", string(buf[:n]))
}

func TestOpenRejectsUnknownBaud(t *testing.T) {
	master, slave, err := pty.Open()
	require.NoError(t, err)
	t.Cleanup(func() { master.Close(); slave.Close() })

	_, err = Open(Config{Device: slave.Name(), BaudRate: 9601})
	require.Error(t, err)
	require.Contains(t, err.Error(), "unsupported baud rate")
}

func TestPortConnectionCallback(t *testing.T) {
	master, slave, err := pty.Open()
	require.NoError(t, err)
	t.Cleanup(func() { master.Close(); slave.Close() })

	p, err := Open(Config{Device: slave.Name(), BaudRate: 115200})
	require.NoError(t, err)

	var states []bool
	p.SetConnectionCallback(func(connected bool) {
		states = append(states, connected)
	})
	require.Equal(t, []bool{true}, states)

	require.NoError(t, p.Close())
	require.NoError(t, p.Close())
	require.Equal(t, []bool{true, false}, states)
}
