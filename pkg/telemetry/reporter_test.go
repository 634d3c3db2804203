package telemetry

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/robotalks/motion.go/pkg/xio"
	"github.com/robotalks/motion.go/pkg/xio/port"
)

type fakePub struct {
	topics   []string
	payloads []string
}

func (p *fakePub) Pub(topic string, payload []byte) error {
	p.topics = append(p.topics, topic)
	p.payloads = append(p.payloads, string(payload))
	return nil
}

type fakeIteration struct {
	triggered bool
}

func (i *fakeIteration) Context() context.Context { return context.Background() }
func (i *fakeIteration) Time() time.Time          { return time.Now() }
func (i *fakeIteration) TriggerNext()             { i.triggered = true }

func newTestReporter(t *testing.T) (*Reporter, *fakePub, *port.Loopback) {
	t.Helper()
	local, remote := port.Pipe()
	x := xio.New(map[xio.DeviceID]port.Port{xio.DeviceUSB0: local})
	pub := &fakePub{}
	return NewReporter(x, pub), pub, remote
}

func TestReporterStateTransition(t *testing.T) {
	rep, pub, remote := newTestReporter(t)
	rep.Topic = "m1"

	cc := &fakeIteration{}
	require.NoError(t, rep.Control(cc))
	require.Empty(t, pub.topics)

	remote.SetConnected(true)
	require.NoError(t, rep.Control(cc))
	require.Equal(t, []string{"m1/state/usb0"}, pub.topics)
	require.Equal(t, []string{"connected"}, pub.payloads)

	// unchanged state is not republished
	require.NoError(t, rep.Control(cc))
	require.Len(t, pub.topics, 1)

	remote.SetConnected(false)
	require.NoError(t, rep.Control(cc))
	require.Equal(t, "m1/state/usb0", pub.topics[1])
	require.Equal(t, "not-connected", pub.payloads[1])
}

func TestReporterLine(t *testing.T) {
	rep, pub, remote := newTestReporter(t)
	remote.SetConnected(true)
	rep.XIO.SetActive(xio.DeviceUSB0)

	cc := &fakeIteration{}
	require.NoError(t, rep.Control(cc))
	require.False(t, cc.triggered)

	_, err := remote.Write([]byte("g0 x1\n"))
	require.NoError(t, err)
	require.NoError(t, rep.Control(cc))
	require.Equal(t, "line", pub.topics[len(pub.topics)-1])
	require.Equal(t, "g0 x1", pub.payloads[len(pub.payloads)-1])
	require.True(t, cc.triggered)
}

func TestReporterPartialLine(t *testing.T) {
	rep, pub, remote := newTestReporter(t)
	remote.SetConnected(true)
	rep.XIO.SetActive(xio.DeviceUSB0)

	cc := &fakeIteration{}
	_, err := remote.Write([]byte("g0"))
	require.NoError(t, err)
	require.NoError(t, rep.Control(cc))
	require.NoError(t, rep.Control(cc))
	require.False(t, cc.triggered)

	_, err = remote.Write([]byte(" x1\n"))
	require.NoError(t, err)
	require.NoError(t, rep.Control(cc))
	require.Equal(t, "g0 x1", pub.payloads[len(pub.payloads)-1])
}

func TestReporterOverflow(t *testing.T) {
	rep, pub, remote := newTestReporter(t)
	remote.SetConnected(true)
	rep.XIO.SetActive(xio.DeviceUSB0)
	rep.line = make([]byte, 4)

	cc := &fakeIteration{}
	_, err := remote.Write([]byte("toolong\n"))
	require.NoError(t, err)
	// overflow discards the partial line and keeps going
	require.NoError(t, rep.Control(cc))
	require.Zero(t, rep.index)

	require.NoError(t, rep.Control(cc))
	require.Equal(t, "ong", pub.payloads[len(pub.payloads)-1])
}

func TestReporterIntegrity(t *testing.T) {
	rep, _, _ := newTestReporter(t)
	rep.XIO.Teardown()
	require.Equal(t, xio.ErrAssertion, rep.Control(&fakeIteration{}))
}
