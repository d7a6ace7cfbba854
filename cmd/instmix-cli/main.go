package main

import (
	"fmt"
	"os"

	"github.com/instmix/instmix/cmd/instmix-cli/mix"
	"github.com/urfave/cli/v2"
)

// main implements the instmix cli.
func main() {
	app := cli.App{
		Name:     "Instruction Mix Profiler",
		HelpName: "instmix",
		Usage:    "static instruction mix analysis of profiled control-flow graphs",
		Commands: []*cli.Command{
			&mix.RunCommand,
			&mix.InspectCommand,
			&mix.ReportCommand,
			&mix.VisualizeCommand,
			&mix.GraphCommand,
		},
	}
	if err := app.Run(os.Args); err != nil {
		code := 1
		fmt.Fprintln(os.Stderr, err)
		os.Exit(code)
	}
}
