package main

//go-build: CGO_ENABLED=0

import (
	"flag"

	"github.com/robotalks/motion.go/pkg/cli/sh"
)

func main() {
	flag.Parse()
	sh.Main()
}
