package query

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/JohannesKaufmann/html-to-markdown/v2/converter"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/base"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/commonmark"
	"github.com/bornholm/searchbar/internal/command/common"
	"github.com/bornholm/searchbar/internal/setup"
	"github.com/bornholm/searchbar/pkg/search"
	"github.com/bornholm/searchbar/pkg/searchbar"
	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"
)

func Query() *cli.Command {
	return &cli.Command{
		Name:      "query",
		Usage:     "Run a single search and print the rendered results",
		ArgsUsage: "<text>",
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:    "limit",
				Aliases: []string{"l"},
				EnvVars: []string{"SEARCHBAR_LIMIT"},
				Usage:   "The maximum number of results, defaults to the configured limit",
			},
			&cli.BoolFlag{
				Name:  "html",
				Usage: "Print the rendered HTML instead of markdown",
			},
			common.CorpusFlag(),
		},
		Action: func(cliCtx *cli.Context) error {
			conf, err := common.LoadConfig(cliCtx)
			if err != nil {
				return errors.WithStack(err)
			}

			common.ApplyCorpusFlag(cliCtx, conf)

			limit := conf.Limit
			if cliCtx.IsSet("limit") {
				limit = cliCtx.Int("limit")
			}

			ctx := cliCtx.Context

			engine, err := setup.NewEngine(ctx, conf)
			if err != nil {
				return errors.Wrap(err, "could not create search engine")
			}

			defer engine.Close()

			markup, err := Run(ctx, engine, strings.Join(cliCtx.Args().Slice(), " "), limit)
			if err != nil {
				return errors.WithStack(err)
			}

			if cliCtx.Bool("html") {
				_, err := fmt.Fprintln(cliCtx.App.Writer, markup)
				return errors.WithStack(err)
			}

			return errors.WithStack(WriteMarkdown(cliCtx.App.Writer, markup))
		},
	}
}

// Run dispatches the query over a fresh document and returns the rendered
// results list.
func Run(ctx context.Context, client search.Client, query string, limit int) (string, error) {
	doc, err := searchbar.NewDocument()
	if err != nil {
		return "", errors.WithStack(err)
	}

	doc.SetQuery(query)

	var searchErr error

	dispatcher := searchbar.NewDispatcher(client, doc, doc,
		searchbar.WithLimit(limit),
		searchbar.WithObserver(func(ctx context.Context, evt searchbar.Event) {
			if evt.Type == searchbar.EventFailed {
				searchErr = evt.Err
			}
		}),
	)

	dispatcher.Dispatch(ctx)

	if searchErr != nil {
		return "", errors.Wrap(searchErr, "search failed")
	}

	markup, err := doc.ResultsHTML()
	if err != nil {
		return "", errors.WithStack(err)
	}

	return "<ul>" + markup + "</ul>", nil
}

func WriteMarkdown(w io.Writer, markup string) error {
	conv := converter.NewConverter(
		converter.WithPlugins(
			base.NewBasePlugin(),
			commonmark.NewCommonmarkPlugin(),
		),
	)

	markdown, err := conv.ConvertString(markup)
	if err != nil {
		return errors.WithStack(err)
	}

	markdown = strings.TrimSpace(markdown)
	if markdown == "" {
		return nil
	}

	if _, err := fmt.Fprintln(w, markdown); err != nil {
		return errors.WithStack(err)
	}

	return nil
}
