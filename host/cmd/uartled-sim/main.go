package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/golang/glog"

	"uartled/core"
	"uartled/host/sim"
	"uartled/protocol"
)

func init() {
	sim.SetupFlags()
}

func main() {
	flag.Parse()
	defer glog.Flush()

	conf := sim.NewConfig()

	core.SetDebugWriter(func(msg string) { glog.Info(msg) })
	core.SetDebugEnabled(true)

	rw, err := conf.Open()
	if err != nil {
		glog.Exitf("open %s: %v", conf.Device, err)
	}
	defer rw.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	glog.Infof("uartled %s simulated board on %s, LED pin %d", protocol.Version, conf.Device, conf.LEDPin)
	if err := sim.NewBoard(rw, *conf).Run(ctx); err != nil {
		glog.Errorf("board stopped: %v", err)
		glog.Flush()
		os.Exit(1)
	}
}
