package main

import (
	"context"
	"os"

	"github.com/cardvault-cli/internal/cli"
	"github.com/charmbracelet/fang"
)

// set by -ldflags at release time
var version = "dev"

func main() {
	root := cli.NewRootCmd()
	if err := fang.Execute(
		context.Background(),
		root,
		fang.WithVersion(version),
		fang.WithNotifySignal(os.Interrupt, os.Kill),
	); err != nil {
		os.Exit(1)
	}
}
