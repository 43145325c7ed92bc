package serve

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/bornholm/searchbar/internal/command/common"
	"github.com/bornholm/searchbar/internal/server"
	"github.com/bornholm/searchbar/internal/setup"
	"github.com/bornholm/searchbar/pkg/corpus"
	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"
)

func Serve() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Serve the search page, the JSON API and the live search",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "address",
				Aliases: []string{"a"},
				Value:   "127.0.0.1:8080",
				EnvVars: []string{"SEARCHBAR_ADDRESS"},
				Usage:   "The address to listen on",
			},
			common.CorpusFlag(),
			&cli.BoolFlag{
				Name:    "watch",
				Aliases: []string{"w"},
				EnvVars: []string{"SEARCHBAR_WATCH"},
				Usage:   "Reindex the corpus when the file changes",
			},
		},
		Action: func(cliCtx *cli.Context) error {
			conf, err := common.LoadConfig(cliCtx)
			if err != nil {
				return errors.WithStack(err)
			}

			common.ApplyCorpusFlag(cliCtx, conf)

			if cliCtx.IsSet("address") {
				conf.HTTP.Address = cliCtx.String("address")
			}

			if cliCtx.IsSet("watch") {
				conf.Corpus.Watch = cliCtx.Bool("watch")
			}

			ctx, stop := signal.NotifyContext(cliCtx.Context, os.Interrupt, syscall.SIGTERM)
			defer stop()

			engine, err := setup.NewEngine(ctx, conf)
			if err != nil {
				return errors.Wrap(err, "could not create search engine")
			}

			defer engine.Close()

			if conf.Corpus.Watch && engine.Indexed() {
				if err := watchCorpus(ctx, conf.Corpus.Path, engine); err != nil {
					return errors.WithStack(err)
				}
			}

			srv, err := server.New(engine,
				server.WithLimit(conf.Limit),
				server.WithAllowedOrigins(conf.HTTP.AllowedOrigins...),
				server.WithDebug(cliCtx.Bool("debug")),
			)
			if err != nil {
				return errors.WithStack(err)
			}

			if err := srv.Run(ctx, conf.HTTP.Address); err != nil {
				return errors.WithStack(err)
			}

			return nil
		},
	}
}

func watchCorpus(ctx context.Context, path string, engine *setup.Engine) error {
	err := corpus.Watch(ctx, path, func(posts []corpus.Post) {
		if err := engine.Replace(posts); err != nil {
			slog.ErrorContext(ctx, "could not reindex corpus", slog.Any("error", errors.WithStack(err)))
			return
		}

		slog.InfoContext(ctx, "corpus reindexed", slog.Int("posts", len(posts)))
	})
	if err != nil {
		return errors.Wrapf(err, "could not watch corpus '%s'", path)
	}

	slog.InfoContext(ctx, "watching corpus", slog.String("path", path))

	return nil
}
