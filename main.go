package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/log"

	"github.com/olimci/cordova-dev/cmd"
)

func main() {
	// os.Interrupt is handled per operation by the menu
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM)

	err := cmd.Execute(ctx, os.Args)
	stop()
	if err != nil {
		log.Error(err)
		os.Exit(1)
	}
}
