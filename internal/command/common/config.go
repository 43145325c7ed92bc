package common

import (
	"github.com/bornholm/searchbar/internal/config"
	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"
)

// LoadConfig returns the configuration file given with the root --config
// flag, or the default configuration.
func LoadConfig(ctx *cli.Context) (*config.Config, error) {
	path := ctx.String("config")
	if path == "" {
		return config.Default(), nil
	}

	conf, err := config.Load(path)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	return conf, nil
}

// CorpusFlag overrides the corpus path of the configuration.
func CorpusFlag() *cli.StringFlag {
	return &cli.StringFlag{
		Name:      "corpus",
		Usage:     "The YAML corpus file",
		EnvVars:   []string{"SEARCHBAR_CORPUS"},
		TakesFile: true,
	}
}

// ApplyCorpusFlag sets the corpus path when the corpus flag is given.
func ApplyCorpusFlag(ctx *cli.Context, conf *config.Config) {
	if ctx.IsSet("corpus") {
		conf.Corpus.Path = ctx.String("corpus")
	}
}
