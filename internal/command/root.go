package command

import (
	"fmt"
	"log/slog"
	"os"
	"sort"

	"github.com/bornholm/searchbar/internal/logx"
	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"
)

func Main(name string, version string, usage string, commands ...*cli.Command) {
	app := &cli.App{
		Name:     name,
		Usage:    usage,
		Commands: commands,
		Version:  version,
		Before: func(ctx *cli.Context) error {
			workdir := ctx.String("workdir")
			// Switch to new working directory if defined
			if workdir != "" {
				if err := os.Chdir(workdir); err != nil {
					return errors.Wrap(err, "could not change working directory")
				}
			}

			logLevel := logx.ParseLevel(ctx.String("log-level"))
			if ctx.Bool("debug") && !ctx.IsSet("log-level") {
				logLevel = slog.LevelDebug
			}

			handler, err := logx.NewHandler(os.Stderr, logx.Format(ctx.String("log-format")), logLevel)
			if err != nil {
				return errors.WithStack(err)
			}

			slog.SetDefault(slog.New(handler))

			return nil
		},
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "workdir",
				Value:   "",
				EnvVars: []string{"SEARCHBAR_WORKDIR"},
				Usage:   "The working directory",
			},
			&cli.BoolFlag{
				Name:    "debug",
				EnvVars: []string{"SEARCHBAR_DEBUG"},
				Usage:   "Enable debug mode",
			},
			&cli.StringFlag{
				Name:    "log-level",
				EnvVars: []string{"SEARCHBAR_LOG_LEVEL"},
				Usage:   "Set logging level (debug, info, warn or error)",
				Value:   "info",
			},
			&cli.StringFlag{
				Name:    "log-format",
				EnvVars: []string{"SEARCHBAR_LOG_FORMAT"},
				Usage:   "Set logging format (tint, text or json)",
				Value:   string(logx.FormatTint),
			},
			&cli.StringFlag{
				Name:      "config",
				Aliases:   []string{"c"},
				EnvVars:   []string{"SEARCHBAR_CONFIG"},
				Usage:     "The YAML configuration file",
				TakesFile: true,
			},
		},
	}

	app.ExitErrHandler = func(ctx *cli.Context, err error) {
		if err == nil {
			return
		}

		debug := ctx.Bool("debug")

		if !debug {
			slog.ErrorContext(ctx.Context, err.Error())
		} else {
			slog.ErrorContext(ctx.Context, fmt.Sprintf("%+v", err))
		}
	}

	sort.Sort(cli.FlagsByName(app.Flags))
	sort.Sort(cli.CommandsByName(app.Commands))

	if err := app.Run(os.Args); err != nil {
		os.Exit(1)
	}
}
