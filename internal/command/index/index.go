package index

import (
	"log/slog"
	"os"

	"github.com/bornholm/searchbar/internal/command/common"
	"github.com/bornholm/searchbar/pkg/corpus"
	"github.com/bornholm/searchbar/pkg/search/local"
	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"
)

func Index() *cli.Command {
	return &cli.Command{
		Name:  "index",
		Usage: "Manage the local search index",
		Subcommands: []*cli.Command{
			build(),
		},
	}
}

func build() *cli.Command {
	return &cli.Command{
		Name:  "build",
		Usage: "Build the local index of a corpus and save it",
		Flags: []cli.Flag{
			common.CorpusFlag(),
			&cli.StringFlag{
				Name:      "output",
				Aliases:   []string{"o"},
				Value:     "index.json",
				EnvVars:   []string{"SEARCHBAR_INDEX"},
				Usage:     "The index file to write",
				TakesFile: true,
			},
		},
		Action: func(cliCtx *cli.Context) error {
			ctx := cliCtx.Context

			conf, err := common.LoadConfig(cliCtx)
			if err != nil {
				return errors.WithStack(err)
			}

			common.ApplyCorpusFlag(cliCtx, conf)

			output := cliCtx.String("output")

			index, err := Build(conf.Corpus.Path, output)
			if err != nil {
				return errors.WithStack(err)
			}

			slog.InfoContext(ctx, "index saved", slog.String("path", output), slog.Int("entries", index.Len()))

			return nil
		},
	}
}

// Build indexes the corpus file and saves the local index to output.
func Build(corpusPath string, output string) (*local.Index, error) {
	posts, err := corpus.Load(corpusPath)
	if err != nil {
		return nil, errors.Wrapf(err, "could not load corpus '%s'", corpusPath)
	}

	index, err := local.Build(posts)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	file, err := os.Create(output)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	if err := index.Save(file); err != nil {
		_ = file.Close()
		return nil, errors.Wrapf(err, "could not save index '%s'", output)
	}

	if err := file.Close(); err != nil {
		return nil, errors.WithStack(err)
	}

	return index, nil
}
