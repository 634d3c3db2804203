package main

//go-build: CGO_ENABLED=0

import (
	"context"
	"flag"
	"io"
	"net/http"

	"github.com/golang/glog"
	"golang.org/x/net/websocket"

	"github.com/robotalks/motion.go/pkg/firmware"
	"github.com/robotalks/motion.go/pkg/xio"
	"github.com/robotalks/motion.go/pkg/xio/port"
	"github.com/robotalks/motion.go/pkg/xio/port/ws"
)

var listenAddr = flag.String("listen", ":7920", "Listen address.")

func main() {
	flag.Parse()

	http.Handle("/machine", websocket.Handler(serve))
	glog.Infof("listening on %s", *listenAddr)
	if err := http.ListenAndServe(*listenAddr, nil); err != nil {
		glog.Exitf("listen %s: %v", *listenAddr, err)
	}
}

// serve emulates a machine on one connection: every received line is
// acknowledged with "ok".
func serve(conn *websocket.Conn) {
	p := ws.Wrap(conn)
	x := xio.New(map[xio.DeviceID]port.Port{xio.DeviceUSB0: p})
	defer x.Teardown()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	buf := make([]byte, 128)
	var index int
	loop := firmware.NewLoop()
	loop.AddRunnable(firmware.NamedRun("pump", p))
	loop.AddController(firmware.ControlFunc(func(cc firmware.ControlContext) error {
		if err := x.Poll(); err != nil {
			return err
		}
		switch err := x.ReadLine(buf, &index); err {
		case nil:
			glog.V(2).Infof("command: %q", buf[:index])
			x.Write([]byte("ok\n"))
			index = 0
			cc.TriggerNext()
		case xio.ErrAgain:
		case xio.ErrBufferFull:
			x.Write([]byte("err overflow\n"))
			index = 0
		case io.EOF:
			cancel()
		default:
			cancel()
			return err
		}
		return nil
	}))
	if err := firmware.NewRunnerWith(ctx).Go(loop).Wait(); err != nil {
		glog.Errorf("connection failed: %v", err)
	}
}
