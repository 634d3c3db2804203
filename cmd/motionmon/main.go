package main

//go-build: CGO_ENABLED=0

import (
	"flag"

	"github.com/golang/glog"

	"github.com/robotalks/motion.go/pkg/firmware"
	"github.com/robotalks/motion.go/pkg/telemetry"
	"github.com/robotalks/motion.go/pkg/telemetry/mqtt"
	"github.com/robotalks/motion.go/pkg/xio"
	"github.com/robotalks/motion.go/pkg/xio/port"
	"github.com/robotalks/motion.go/pkg/xio/port/serial"
)

var (
	device = flag.String("device", "/dev/ttyACM0", "Serial device of the machine.")
	baud   = flag.Int("baud", 115200, "Baud rate.")
	broker = flag.String("broker", "mqtt://localhost:1883/motion", "MQTT broker URL.")
)

func main() {
	flag.Parse()

	p, err := serial.Open(serial.Config{Device: *device, BaudRate: *baud})
	if err != nil {
		glog.Exitf("open %s: %v", *device, err)
	}
	defer p.Close()

	q, err := mqtt.NewQueue(*broker)
	if err != nil {
		glog.Exitf("broker %s: %v", *broker, err)
	}
	if err := q.Connect(); err != nil {
		glog.Exitf("connect %s: %v", *broker, err)
	}
	defer q.Close()

	x := xio.New(map[xio.DeviceID]port.Port{xio.DeviceUSB0: p})
	rep := telemetry.NewReporter(x, q)
	rep.Topic = telemetry.MachineID()
	glog.Infof("monitoring %s as %s", *device, rep.Topic)
	firmware.NewLoop().AddController(rep).RunOrFail()
}
