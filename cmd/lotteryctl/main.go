package main

import (
	"fmt"
	"os"

	"github.com/urfave/cli/v2"
)

//nolint:all
var (
	version = "dev"
)

func main() {
	app := cli.NewApp()
	app.Name = "lotteryctl"
	app.Usage = "Administer and inspect a lottery server"
	app.Version = version
	app.Flags = []cli.Flag{urlFlag}
	app.Commands = append(
		app.Commands,
		tokenCmd,
		hashKeyCmd,
		roundsCmd,
		roundCmd,
		drawCmd,
		eventsCmd,
	)

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
