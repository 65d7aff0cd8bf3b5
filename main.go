package main

import (
	"context"
	"fmt"
	"os"

	"github.com/urfave/cli/v3"

	"dashsearch/cmd"
	"dashsearch/internal/config"
)

func main() {
	app := &cli.Command{
		Name:  "dashsearch",
		Usage: "Search your dashboard's tasks and notes from the terminal",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "debug",
				Usage: "Enable debug logging",
			},
			&cli.StringFlag{
				Name:  "config",
				Usage: "Configuration file path",
				Value: config.DefaultPath(),
			},
		},
		Action: cmd.RunTUI,
		Commands: []*cli.Command{
			cmd.TUICommand(),
			cmd.QueryCommand(),
			cmd.DevServerCommand(),
			cmd.InitCommand(),
		},
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "dashsearch:", err)
		os.Exit(1)
	}
}
