package cmd

import (
	"context"

	"github.com/urfave/cli/v3"

	"github.com/olimci/cordova-dev/pkg/version"
)

var Version = version.String()

func Execute(ctx context.Context, args []string) error {
	app := &cli.Command{
		Name:  "cordova-dev",
		Usage: "Interactive helper for Cordova development chores",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "config", Aliases: []string{"c"}, Value: "config.json", Usage: "configuration file (.json, .yaml or .yml)"},
			&cli.StringFlag{Name: "template", Aliases: []string{"t"}, Value: "", Usage: "configuration template copied when the config file does not exist"},
			&cli.BoolFlag{Name: "debug", Aliases: []string{"d"}, Value: false, Usage: "show debug output"},
		},
		Action: runInteractive,
		Commands: []*cli.Command{
			{
				Name:   "version",
				Usage:  "print version",
				Action: runVersion,
			},
		},
	}

	return app.Run(ctx, args)
}
