package telemetry

import (
	"github.com/golang/glog"

	"github.com/robotalks/motion.go/pkg/firmware"
	"github.com/robotalks/motion.go/pkg/xio"
)

// LineCapacity bounds one reported line.
const LineCapacity = 254

// Publisher publishes telemetry payloads.
type Publisher interface {
	Pub(topic string, payload []byte) error
}

// Reporter drains the I/O subsystem from the main loop and publishes
// assembled lines and device state transitions.
type Reporter struct {
	XIO *xio.XIO
	Pub Publisher
	// Topic is an optional subtopic prefix, typically the machine ID.
	Topic string

	line   []byte
	index  int
	states [xio.DeviceCount]xio.ConnState
}

// NewReporter creates a Reporter with the default line capacity.
func NewReporter(x *xio.XIO, pub Publisher) *Reporter {
	return &Reporter{XIO: x, Pub: pub, line: make([]byte, LineCapacity)}
}

// Control implements firmware.Controller. One invocation verifies
// subsystem integrity, commits pending connection transitions and
// consumes at most one assembled line.
func (r *Reporter) Control(cc firmware.ControlContext) error {
	if err := r.XIO.CheckIntegrity(); err != nil {
		return err
	}
	if err := r.XIO.Poll(); err != nil {
		return err
	}
	for id := xio.DeviceID(0); id < xio.DeviceCount; id++ {
		state := r.XIO.Device(id).State()
		if state == r.states[id] {
			continue
		}
		r.states[id] = state
		r.publish("state/"+id.String(), []byte(state.String()))
	}

	switch err := r.XIO.ReadLine(r.line, &r.index); err {
	case nil:
		r.publish("line", append([]byte(nil), r.line[:r.index]...))
		r.index = 0
		// more input may already be buffered
		cc.TriggerNext()
	case xio.ErrAgain:
	case xio.ErrBufferFull:
		glog.Warningf("line overflow, %d bytes discarded", r.index)
		r.index = 0
	default:
		return err
	}
	return nil
}

func (r *Reporter) publish(topic string, payload []byte) {
	if r.Topic != "" {
		topic = r.Topic + "/" + topic
	}
	if err := r.Pub.Pub(topic, payload); err != nil {
		glog.Errorf("publish %s: %v", topic, err)
	}
}
