package config

import (
	"github.com/bornholm/searchbar/internal/command/common"
	searchbarconfig "github.com/bornholm/searchbar/internal/config"
	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"
)

func Config() *cli.Command {
	return &cli.Command{
		Name:  "config",
		Usage: "Inspect the configuration",
		Subcommands: []*cli.Command{
			{
				Name:  "schema",
				Usage: "Print the JSON schema of the configuration file",
				Action: func(cliCtx *cli.Context) error {
					return errors.WithStack(searchbarconfig.WriteSchema(cliCtx.App.Writer))
				},
			},
			{
				Name:  "dump",
				Usage: "Print the effective configuration as YAML",
				Action: func(cliCtx *cli.Context) error {
					conf, err := common.LoadConfig(cliCtx)
					if err != nil {
						return errors.WithStack(err)
					}

					return errors.WithStack(searchbarconfig.Dump(cliCtx.App.Writer, conf))
				},
			},
		},
	}
}
